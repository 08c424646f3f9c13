// internal/apperrors/apperrors.go
package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure categories handlers know how to map to
// responses. Services wrap these with fmt.Errorf("...: %w", ...) so callers
// can test with errors.Is while keeping context in the message.
var (
	ErrNotFound          = errors.New("not found")
	ErrUnauthorized      = errors.New("authentication required")
	ErrForbidden         = errors.New("insufficient role")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrExternalService   = errors.New("external service failure")
	ErrContestHasEntries = errors.New("contest has entries")
	ErrContestFull       = errors.New("contest entry limit reached")
)

// ValidationError reports a rejected input with the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// InvalidTransition builds an ErrInvalidTransition with the attempted move.
func InvalidTransition(entity, from, to string) error {
	return fmt.Errorf("%s cannot move from %s to %s: %w", entity, from, to, ErrInvalidTransition)
}
