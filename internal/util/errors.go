// internal/util/errors.go
package util

import (
	"errors"
	"strings"
)

// Common application-specific errors.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrBadRequest   = errors.New("bad request")
	ErrUserNotFound = errors.New("user not found")
	// ErrEmptyUpdate is returned when a partial update supplies no fields.
	ErrEmptyUpdate = errors.New("at least one of name or age must be provided")
	// ErrPayloadTooLarge is returned when a request body exceeds the read limit.
	ErrPayloadTooLarge = errors.New("request body too large")
)

// FieldError describes a single rejected input value.
type FieldError struct {
	Location string `json:"location"` // path, query or body
	Field    string `json:"field"`
	Message  string `json:"message"`
}

// ValidationError is returned when client input fails type, range or length constraints.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(location, field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Location: location, Field: field, Message: message}}}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Location+"."+f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// IsError reports whether any error in err's chain matches target.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}

// AsValidationError extracts a *ValidationError from err's chain.
func AsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}

// IsNotFound reports whether err means the referenced record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrUserNotFound)
}

// IsBadRequest reports whether err is a semantically empty or otherwise unusable request.
func IsBadRequest(err error) bool {
	return errors.Is(err, ErrBadRequest) || errors.Is(err, ErrEmptyUpdate)
}
