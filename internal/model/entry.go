package model

import (
	"strings"
	"time"
)

// EntryExt is the file extension of every journal entry.
const EntryExt = ".md"

// Entry is a single journal file.
type Entry struct {
	// Path is the slash separated location relative to the repository root
	Path string `json:"path"`

	// Content is the UTF-8 markdown body
	Content string `json:"content"`

	// LastModifiedAt is the author date of the last commit touching Path
	LastModifiedAt time.Time `json:"last_modified_at,omitzero"`

	// ConcurrencyToken identifies the stored revision (the blob SHA)
	ConcurrencyToken string `json:"concurrency_token,omitempty"`
}

// IsEntryPath reports whether path names a journal entry.
func IsEntryPath(path string) bool {
	return strings.HasSuffix(path, EntryExt)
}

// BaseName returns the last path segment.
func BaseName(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}

	return path
}
