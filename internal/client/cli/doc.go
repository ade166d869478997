// Package cli is the interactive flock console.
//
// It drives the session machine (login, second-factor verification, resume
// and logout) and lists the member and church directories through the table
// pipeline. Listing members requires the admin or moderator role; churches
// are open to any signed-in user.
//
// The REPL is started via App.Run(ctx), which resumes a persisted session
// and then blocks until the user exits. See runREPL for the command set.
package cli
