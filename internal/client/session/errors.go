package session

import "errors"

var (
	// ErrBusy is returned when a login-flow operation is already running.
	ErrBusy = errors.New("another login operation is in progress")

	// ErrInvalidTransition is returned when an operation is not allowed in
	// the current status.
	ErrInvalidTransition = errors.New("operation not allowed in current session state")
)
