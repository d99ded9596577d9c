package dto

import (
	"net/http"

	"github.com/gpoi/quoteservice/internal/domain/shared"
)

// Error code constants exposed to API clients
// Format: ERR_<CATEGORY>_<DESCRIPTION>
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodeValidation is used when a quote request is rejected
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeInvalidJSON is used when the body is not valid JSON
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
	// ErrCodeNotFound is used when a stored PDF does not exist
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeConflict is used when a PDF name is already taken
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeRender is used when the quote template cannot be filled
	ErrCodeRender = "ERR_RENDER"
	// ErrCodeConversion is used when HTML to PDF conversion fails
	ErrCodeConversion = "ERR_CONVERSION"
	// ErrCodeRequestTooLarge is used when the body exceeds the configured limit
	ErrCodeRequestTooLarge = "ERR_REQUEST_TOO_LARGE"
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:        http.StatusInternalServerError,
	ErrCodeValidation:      http.StatusBadRequest,
	ErrCodeInvalidJSON:     http.StatusBadRequest,
	ErrCodeNotFound:        http.StatusNotFound,
	ErrCodeConflict:        http.StatusConflict,
	ErrCodeRender:          http.StatusInternalServerError,
	ErrCodeConversion:      http.StatusBadGateway,
	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeRateLimited:     http.StatusTooManyRequests,
}

// domainErrorCodes maps domain error codes onto API error codes
var domainErrorCodes = map[string]string{
	shared.CodeValidation: ErrCodeValidation,
	shared.CodeNotFound:   ErrCodeNotFound,
	shared.CodeConflict:   ErrCodeConflict,
	shared.CodeRender:     ErrCodeRender,
	shared.CodeConversion: ErrCodeConversion,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// ErrorCodeOf returns the API error code for err, ErrCodeInternal when err
// carries no domain code
func ErrorCodeOf(err error) string {
	if code, ok := domainErrorCodes[shared.CodeOf(err)]; ok {
		return code
	}
	return ErrCodeInternal
}
