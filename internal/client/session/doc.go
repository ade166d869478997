// Package session tracks who is signed in to the console.
//
// The session moves between five statuses (anonymous, authenticating,
// verification_pending, authenticated, auth_failed). Every change goes
// through Reduce, a pure transition function over a closed set of events.
// Machine owns the single authoritative State, talks to a CredentialStore and
// a PersistedSession, and publishes snapshots to subscribers.
package session
