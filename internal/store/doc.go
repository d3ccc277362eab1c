// Package store provides the local persistence layer for mornpage.
//
// Everything the program keeps on disk lives in one BoltDB file inside the
// application directory, split into buckets:
//
//   - credentials: encrypted token, encrypted repository reference and the
//     plaintext auto-login expiry, under fixed keys
//   - config: the JSON encoded [model.Config]
//
// [Open] returns a [Bolt] store, falling back to an in-memory [Memory] store
// when the database file cannot be opened (for instance when another
// mornpage process holds the file lock). The fallback keeps the program
// usable for the current invocation; nothing is persisted.
package store
