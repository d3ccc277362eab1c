package core

import (
	"fmt"
	"os"

	"github.com/cli/go-gh/v2/pkg/browser"
)

// OpenInBrowser opens url with the launcher from GH_BROWSER, the gh config
// or BROWSER, falling back to the system default handler.
func OpenInBrowser(url string) error {
	if err := browser.New("", os.Stdout, os.Stderr).Browse(url); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}

	return nil
}
