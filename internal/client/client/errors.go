package client

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable: the service could not be reached or answered with
	// something other than a well-formed rejection.
	ErrUnavailable = errors.New("server unavailable")
	// ErrUnauthorized: the service rejected the request with a reason.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrValidation: the request was refused locally, nothing was sent.
	ErrValidation = errors.New("validation failed")
)

// APIError is a failed call. It matches its Kind (and the transport cause,
// if any) with errors.Is.
type APIError struct {
	Kind    error
	Status  int
	Message string

	cause error
}

func (e *APIError) Error() string {
	switch {
	case e.Message != "" && e.Status != 0:
		return fmt.Sprintf("%v (%d): %s", e.Kind, e.Status, e.Message)
	case e.Message != "":
		return fmt.Sprintf("%v: %s", e.Kind, e.Message)
	case e.Status != 0:
		return fmt.Sprintf("%v (%d)", e.Kind, e.Status)
	default:
		return e.Kind.Error()
	}
}

func (e *APIError) Unwrap() []error {
	if e.cause != nil {
		return []error{e.Kind, e.cause}
	}
	return []error{e.Kind}
}

// ValidationError names the offending input field.
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Message extracts the text worth showing to a user: the server's reason
// for a rejection, the field message for validation failures, or a generic
// fallback.
func Message(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && errors.Is(apiErr.Kind, ErrUnauthorized) && apiErr.Message != "" {
		return apiErr.Message
	}
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr.Error()
	}
	if errors.Is(err, ErrUnavailable) {
		return "Service unavailable, please try again later"
	}
	return fallback
}
