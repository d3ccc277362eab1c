package application

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
)

const (
	// AppName is the application name used for directories and identification
	AppName = "mornpage"

	// EnvHome overrides the application directory
	EnvHome = "MORNPAGE_HOME"
)

// Version is set at build time with -ldflags "-X ...application.Version=v1.2.3"
var Version = "dev"

var (
	once   sync.Once
	appDir string
	errDir error
)

// GetApplicationDirectory returns the mornpage configuration directory path,
// creating it if needed.
// Linux: ~/.config/mornpage (via os.UserConfigDir)
// Windows: C:\Users\{username}\AppData\Local\mornpage (via os.UserCacheDir)
// MORNPAGE_HOME overrides both.
func GetApplicationDirectory() (string, error) {
	once.Do(lazyLoad)

	if errDir != nil {
		return "", errDir
	}

	return appDir, nil
}

func lazyLoad() {
	if dir := os.Getenv(EnvHome); dir != "" {
		appDir = dir
	} else {
		var (
			baseDir string
			err     error
		)

		switch runtime.GOOS {
		case "windows":
			// Windows: use AppData\Local (via UserCacheDir)
			baseDir, err = os.UserCacheDir()
		default:
			// Linux/others: use ~/.config (via UserConfigDir)
			baseDir, err = os.UserConfigDir()
		}

		if err != nil {
			errDir = fmt.Errorf("failed to get config directory: %w", err)
			return
		}

		appDir = filepath.Join(baseDir, AppName)
	}

	if err := os.MkdirAll(appDir, 0700); err != nil {
		errDir = fmt.Errorf("failed to create config directory: %w", err)
	}
}
