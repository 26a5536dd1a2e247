package octra

import (
	"errors"
	"fmt"
)

// Validation errors. These are returned before any network I/O.
var (
	// ErrNonPositiveAmount indicates a zero amount.
	ErrNonPositiveAmount = errors.New("amount must be greater than 0")

	// ErrInvalidAmount indicates an amount that is not a non-negative decimal.
	ErrInvalidAmount = errors.New("amount must be a valid number")
)

// State errors
var (
	// ErrIndeterminateState indicates the node answered but the account state
	// could not be read from the response.
	ErrIndeterminateState = errors.New("account state is indeterminate")

	// ErrInsufficientBalance indicates the confirmed balance does not cover the amount.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrCooldown indicates a send was attempted inside the configured cooldown.
	ErrCooldown = errors.New("cooldown active")
)

// TransportError is a request that never got an HTTP response.
type TransportError struct {
	Op      string
	Message string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport failure: %s", e.Op, e.Message)
}

// ProtocolError is a response whose shape did not match what Op expects.
type ProtocolError struct {
	Op     string
	Status int
	Body   string
	Err    error
}

func (e *ProtocolError) Error() string {
	msg := fmt.Sprintf("%s: unexpected response (status %d)", e.Op, e.Status)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Body != "" {
		msg += ": " + truncateForError(e.Body)
	}
	return msg
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

// RejectionError is a well-formed submission the node declined.
type RejectionError struct {
	Status  int
	Payload string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("transaction rejected (status %d): %s", e.Status, truncateForError(e.Payload))
}

func truncateForError(s string) string {
	const max = 512
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
