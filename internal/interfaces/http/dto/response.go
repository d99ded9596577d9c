package dto

// ErrorResponse is the body of every failed quote request
type ErrorResponse struct {
	Error     string             `json:"error"`
	Code      string             `json:"code,omitempty"`
	Details   []ValidationDetail `json:"details,omitempty"`
	RequestID string             `json:"request_id,omitempty"`
}

// ValidationDetail describes one rejected request field
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// NotFoundResponse is returned by the file endpoint for unknown PDFs
type NotFoundResponse struct {
	Detail string `json:"detail"`
}

// RenderResponse carries the public link of a freshly rendered quote
type RenderResponse struct {
	PDFURL string `json:"pdf_url"`
}

// HealthResponse is the liveness probe body
type HealthResponse struct {
	Status string `json:"status"`
}

// NewErrorResponse creates a bare error response
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Error: message}
}

// NewCodedErrorResponse creates an error response carrying a code and request ID
func NewCodedErrorResponse(code, message, requestID string) ErrorResponse {
	return ErrorResponse{
		Error:     message,
		Code:      code,
		RequestID: requestID,
	}
}

// NewValidationErrorResponse creates a validation error response with field details
func NewValidationErrorResponse(message, requestID string, details []ValidationDetail) ErrorResponse {
	return ErrorResponse{
		Error:     message,
		Code:      ErrCodeValidation,
		Details:   details,
		RequestID: requestID,
	}
}
