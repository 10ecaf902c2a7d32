package core

import (
	"errors"
	"fmt"
)

var (
	ErrHelp = errors.New("")

	// ErrAuthRequired gates split billing: the caller must redirect to login
	// and keep the in-progress split selections for after the detour.
	ErrAuthRequired = errors.New("authentication required for split billing")

	// ErrSubmissionInFlight rejects a second submit gesture while one is
	// already running for the same session.
	ErrSubmissionInFlight = errors.New("order submission already in progress")

	// ErrTransport marks connectivity failures talking to the order API. The
	// user sees a generic retry message; no partial order is assumed created.
	ErrTransport = errors.New("order service unreachable, please try again")

	ErrEmptyCart = errors.New("cart is empty")
)

// ValidationError is a user-facing rejection of split or checkout input.
// Field names the offending participant slot, cart item, or request field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// APIError is a structured rejection from the order API. Message is passed
// through to the user verbatim.
type APIError struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (e *APIError) Error() string {
	return e.Message
}
