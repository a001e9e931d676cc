package domain

import (
	"errors"
	"strings"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrDuplicateEmail = errors.New("email already registered")
var ErrInvalidToken = errors.New("invalid token")
var ErrUnauthorized = errors.New("authentication required")
var ErrForbidden = errors.New("access forbidden")

// ErrNotFound is wrapped by every entity-specific not-found error.
var ErrNotFound = errors.New("not found")

var (
	ErrAccountNotFound         = notFound("account")
	ErrVehicleNotFound         = notFound("vehicle")
	ErrClassificationNotFound  = notFound("classification")
	ErrDuplicateClassification = errors.New("classification already exists")
)

type notFoundError struct{ entity string }

func (e *notFoundError) Error() string { return e.entity + " not found" }
func (e *notFoundError) Unwrap() error { return ErrNotFound }

func notFound(entity string) error { return &notFoundError{entity: entity} }

// FieldError is a single user-facing message attached to a form field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError is returned when submitted input breaks one or more rules.
// Fields keep the order the rules were evaluated in.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Messages returns the messages in evaluation order.
func (e *ValidationError) Messages() []string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return msgs
}

// For returns the first message recorded for field, or "".
func (e *ValidationError) For(field string) string {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message
		}
	}
	return ""
}
