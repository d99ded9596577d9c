package shared

import "errors"

// Error codes shared across the quote service
const (
	CodeValidation = "VALIDATION_ERROR"
	CodeRender     = "RENDER_ERROR"
	CodeConversion = "CONVERSION_ERROR"
	CodeNotFound   = "NOT_FOUND"
	CodeConflict   = "CONFLICT"
)

// Coded is implemented by errors that map onto one of the codes above.
// Infrastructure errors implement it to take part in errors.Is matching
// against the sentinels below.
type Coded interface {
	DomainCode() string
}

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// DomainCode implements Coded
func (e *DomainError) DomainCode() string {
	return e.Code
}

// Is matches any error carrying the same code, so
// errors.Is(err, shared.ErrNotFound) works for every not-found instance.
func (e *DomainError) Is(target error) bool {
	return CodeOf(target) == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapDomainError creates a domain error around a lower-level cause
func WrapDomainError(code, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// NewValidationError reports a malformed or out-of-range request field
func NewValidationError(message string) *DomainError {
	return NewDomainError(CodeValidation, message)
}

// NewNotFoundError reports a missing resource
func NewNotFoundError(message string) *DomainError {
	return NewDomainError(CodeNotFound, message)
}

// Common domain errors
var (
	ErrValidation = NewDomainError(CodeValidation, "Invalid quote request")
	ErrRender     = NewDomainError(CodeRender, "Quote document could not be rendered")
	ErrConversion = NewDomainError(CodeConversion, "PDF conversion failed")
	ErrNotFound   = NewDomainError(CodeNotFound, "Resource not found")
	ErrConflict   = NewDomainError(CodeConflict, "Resource already exists")
)

// CodeOf returns the code of the first Coded error in err's chain, or "".
func CodeOf(err error) string {
	var c Coded
	if errors.As(err, &c) {
		return c.DomainCode()
	}
	return ""
}
