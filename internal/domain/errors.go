package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation  = "VALIDATION_ERROR"
	ErrCodeNotFound    = "NOT_FOUND"
	ErrCodeUpstream    = "UPSTREAM_ERROR"
	ErrCodeRateLimited = "RATE_LIMITED"
	ErrCodeInternal    = "INTERNAL_ERROR"
)

// Validation errors
var (
	ErrBusinessNameRequired     = NewDomainError(ErrCodeValidation, "business name is required")
	ErrBusinessEmailRequired    = NewDomainError(ErrCodeValidation, "business email is required")
	ErrBusinessEmailInvalid     = NewDomainError(ErrCodeValidation, "business email is invalid")
	ErrBusinessPasswordRequired = NewDomainError(ErrCodeValidation, "business password is required")
	ErrUnknownField             = NewDomainError(ErrCodeValidation, "unknown log field")
	ErrInvalidSort              = NewDomainError(ErrCodeValidation, "invalid sort specification")
	ErrInvalidCursor            = NewDomainError(ErrCodeValidation, "invalid cursor")
	ErrStaleCursor              = NewDomainError(ErrCodeValidation, "cursor refers to an outdated view")
)

// Upstream errors
var (
	ErrPlatformUnavailable = NewDomainError(ErrCodeUpstream, "platform API request failed")
	ErrRefreshRateLimited  = NewDomainError(ErrCodeRateLimited, "refresh requested too often")
)
