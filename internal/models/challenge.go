package models

import "time"

// Challenge is an outstanding second-factor code for one identifier.
type Challenge struct {
	Identifier   string    `json:"identifier"`
	Channel      Channel   `json:"channel"`
	Code         string    `json:"code"`
	ExpiresAt    time.Time `json:"expiresAt"`
	AttemptsUsed int       `json:"attemptsUsed"`
	MaxAttempts  int       `json:"maxAttempts"`
}

// Expired reports whether the challenge is past its expiry at now.
func (c Challenge) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// Remaining is the number of attempts still available.
func (c Challenge) Remaining() int {
	if r := c.MaxAttempts - c.AttemptsUsed; r > 0 {
		return r
	}
	return 0
}

// ChallengeInfo is what the caller learns about a freshly issued challenge.
// The code itself never leaves the credential service. TempToken, when set,
// replaces the verification token of the pending login.
type ChallengeInfo struct {
	Channel     Channel
	ExpiresAt   time.Time
	MaxAttempts int
	TempToken   string
}

// PendingVerification is the client-visible handle on an outstanding
// challenge.
type PendingVerification struct {
	Identifier        string
	Channel           Channel
	TempToken         string
	ExpiresAt         time.Time
	RemainingAttempts int
}

// RemainingTime is the time left before the challenge expires, never negative.
func (p PendingVerification) RemainingTime(now time.Time) time.Duration {
	if d := p.ExpiresAt.Sub(now); d > 0 {
		return d
	}
	return 0
}

// AuthResult is the outcome of a successful first login step. Exactly one of
// Pending or (Identity, Token) is meaningful, selected by
// RequiresVerification.
type AuthResult struct {
	RequiresVerification bool
	Pending              PendingVerification
	Identity             Identity
	Token                string
}

// Grant is an issued session.
type Grant struct {
	Identity Identity
	Token    string
}
