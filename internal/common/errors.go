// Package common defines shared constants and sentinel errors used across
// client and server layers. Callers should use errors.Is to match these
// values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Malformed input rejected before it reaches a collaborator.
	ErrValidation = errors.New("validation error")

	// Collaborator unreachable; the operation may be retried.
	ErrUnavailable = errors.New("service unavailable")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenReused  = errors.New("token already used")

	// Verification challenge errors.
	ErrNoChallenge        = errors.New("no verification code found")
	ErrCodeExpired        = errors.New("verification code expired")
	ErrCodeMismatch       = errors.New("invalid verification code")
	ErrAttemptsExhausted  = errors.New("maximum verification attempts exceeded")
	ErrCodeDeliveryFailed = errors.New("failed to send verification code")
)

// VerificationError reports a rejected verification code together with the
// number of attempts the challenge still allows.
type VerificationError struct {
	Err       error
	Remaining int
}

func (e *VerificationError) Error() string {
	if e.Remaining > 0 {
		return fmt.Sprintf("%v: %d attempts remaining", e.Err, e.Remaining)
	}
	return e.Err.Error()
}

func (e *VerificationError) Unwrap() error { return e.Err }

// IsAuthentication reports whether err belongs to the authentication family:
// wrong credentials, rejected codes and invalid or expired tokens.
func IsAuthentication(err error) bool {
	for _, target := range []error{
		ErrorUnauthorized, ErrInvalidToken, ErrTokenExpired, ErrTokenReused,
		ErrNoChallenge, ErrCodeExpired, ErrCodeMismatch, ErrAttemptsExhausted,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
