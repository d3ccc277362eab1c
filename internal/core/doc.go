// Package core provides the business logic layer for mornpage.
//
// This package ties the components together and is separated from UI
// concerns: functions return errors instead of printing, and every
// dependency is passed in explicitly.
//
// # Sessions
//
// [Auth] validates a token against the journal repository and persists it
// through the credential store:
//
//  1. [Auth.Login] - parse the repository reference, validate, save
//  2. [Auth.AutoLogin] - reuse the stored credential inside its 30 day window
//  3. [Auth.Connect] - what commands call; falls back to [ResolveToken]
//
// # Journal
//
// [Journal] runs the writing flow over one gateway: refresh the catalog,
// open today's entry, save, then refresh the catalog and the activity
// record. Refresh failures after a successful save are logged, never
// returned.
//
// # Errors
//
// [Classify] maps any error to a [Kind] and [UserMessage] turns it into the
// one line printed by the CLI.
package core
