package application

import "errors"

// Failure kinds returned by services. The HTTP layer owns the mapping to
// status codes; nothing here is retried.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrUserExists         = errors.New("user already exists")
	ErrPostNotFound       = errors.New("post not found")
	ErrCommentNotFound    = errors.New("comment not found")
)

// ValidationError carries every violated field, not just the first.
type ValidationError struct {
	Details map[string]string
}

func (e *ValidationError) Error() string { return "validation error" }

// NewValidationError builds a single-field validation failure.
func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Details: map[string]string{field: msg}}
}

// AsValidation unwraps err into a *ValidationError when it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
