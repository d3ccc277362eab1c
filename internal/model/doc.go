// Package model defines the data structures shared across mornpage.
//
// # Entry
//
// An [Entry] is one markdown journal file identified by its repository path:
//
//	type Entry struct {
//	    Path             string    // slash separated, always ends in .md
//	    Content          string    // UTF-8 markdown
//	    LastModifiedAt   time.Time // from the last commit touching Path
//	    ConcurrencyToken string    // blob SHA required to overwrite Path
//	}
//
// # Credential
//
// A [Credential] pairs a GitHub token with the journal repository it grants
// access to. It is persisted encrypted by the credential package.
//
// # Config
//
// The [Config] struct holds application configuration persisted in the local
// store and edited with "mornpage config".
package model
