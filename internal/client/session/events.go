package session

import (
	"time"

	"github.com/dmitrijs2005/flock/internal/models"
)

// Event is a fact fed to Reduce. The set of events is closed.
type Event interface {
	event()
}

// AuthStarted begins a login or a session resume.
type AuthStarted struct {
	Method models.LoginMethod
}

// VerificationRequired means the first factor passed and a code was sent.
type VerificationRequired struct {
	Pending models.PendingVerification
}

// VerificationSubmitted marks a code submission in flight.
type VerificationSubmitted struct{}

// VerificationRejected is a wrong code with attempts left, or a retryable
// failure while checking it.
type VerificationRejected struct {
	Message   string
	Remaining int
}

// ResendRequested marks a code resend in flight.
type ResendRequested struct{}

// VerificationRenewed replaces the outstanding challenge with a fresh one.
// An empty TempToken keeps the current one.
type VerificationRenewed struct {
	ExpiresAt   time.Time
	MaxAttempts int
	TempToken   string
}

// ResendFailed keeps the current challenge and reports why no new one was
// issued.
type ResendFailed struct {
	Message string
}

// AuthSucceeded installs an authenticated identity.
type AuthSucceeded struct {
	Identity models.Identity
	Method   models.LoginMethod
}

// AuthFailed ends the login attempt.
type AuthFailed struct {
	Message string
}

// SessionDiscarded drops a resumed session that could not be validated.
// Message is empty unless the failure deserves the user's attention.
type SessionDiscarded struct {
	Message string
}

// LoggedOut returns to the anonymous state.
type LoggedOut struct{}

// IdentityUpdated merges a partial change into the current identity.
type IdentityUpdated struct {
	Patch models.IdentityPatch
}

// ErrorCleared dismisses the current error message.
type ErrorCleared struct{}

func (AuthStarted) event()           {}
func (VerificationRequired) event()  {}
func (VerificationSubmitted) event() {}
func (VerificationRejected) event()  {}
func (ResendRequested) event()       {}
func (VerificationRenewed) event()   {}
func (ResendFailed) event()          {}
func (AuthSucceeded) event()         {}
func (AuthFailed) event()            {}
func (SessionDiscarded) event()      {}
func (LoggedOut) event()             {}
func (IdentityUpdated) event()       {}
func (ErrorCleared) event()          {}
