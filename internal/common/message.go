package common

import (
	"errors"
	"fmt"
)

// UserMessage renders err as a single human-readable sentence suitable for
// display. Unknown errors collapse to fallback so that infrastructure details
// never reach the user.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var ve *VerificationError
	if errors.As(err, &ve) && ve.Remaining > 0 {
		return fmt.Sprintf("Invalid verification code. %d attempts remaining.", ve.Remaining)
	}

	switch {
	case errors.Is(err, ErrValidation):
		return "Please enter a valid email address or phone number."
	case errors.Is(err, ErrCodeDeliveryFailed):
		return "Failed to send verification code. Please try again."
	case errors.Is(err, ErrUnavailable):
		return "Service is unavailable. Please try again later."
	case errors.Is(err, ErrAttemptsExhausted):
		return "Maximum verification attempts exceeded. Please log in again."
	case errors.Is(err, ErrCodeExpired):
		return "Verification code has expired. Please log in again."
	case errors.Is(err, ErrNoChallenge):
		return "No verification code found. Please request a new code."
	case errors.Is(err, ErrCodeMismatch):
		return "Invalid verification code."
	case errors.Is(err, ErrTokenReused):
		return "This verification session has already been used."
	case errors.Is(err, ErrTokenExpired):
		return "Your session has expired. Please log in again."
	case errors.Is(err, ErrInvalidToken):
		return "Invalid session. Please log in again."
	case errors.Is(err, ErrorNotFound):
		return "Account not found."
	case errors.Is(err, ErrorUnauthorized):
		return "Invalid credentials"
	}
	return fallback
}
