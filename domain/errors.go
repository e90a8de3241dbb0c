package domain

import (
	"errors"
	"fmt"
)

// Authentication errors
var (
	ErrAdminNotFound      = errors.New("admin not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAdminAlreadyExists = errors.New("admin already exists")
	ErrAdminInactive      = errors.New("admin account is inactive")
)

// Token errors
var (
	ErrTokenInvalid   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenMalformed = errors.New("malformed token")
)

// Session errors
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session has expired")
)

// Authorization errors
var (
	ErrUnauthorized         = errors.New("unauthorized access")
	ErrInsufficientRole     = errors.New("insufficient role permissions")
	ErrUpstreamUnauthorized = errors.New("directory rejected session token")
)

// Directory errors
var (
	ErrMalformedResponse = errors.New("malformed directory response")
	ErrCompanyNotFound   = errors.New("company not found")
)

// Validation and dispatch errors
var (
	ErrValidation            = errors.New("validation failed")
	ErrEmptyContent          = errors.New("message or file is required")
	ErrNoRecipients          = errors.New("please select at least one contact")
	ErrDispatchInProgress    = errors.New("a send is already in progress for this session")
	ErrAttachmentUnsupported = errors.New("gateway does not support file attachments")
)

// ValidationError reports a form problem caught before any network call.
// It matches ErrValidation under errors.Is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NewValidationError builds a ValidationError for field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// APIError is a non-success response from the directory API or the gateway
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upstream returned status %d", e.Status)
	}
	return fmt.Sprintf("upstream returned status %d: %s", e.Status, e.Message)
}
