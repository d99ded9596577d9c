package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/gpoi/quoteservice/internal/domain/shared"
	"github.com/gpoi/quoteservice/internal/infrastructure/logger"
	"github.com/gpoi/quoteservice/internal/interfaces/http/dto"
	"github.com/gpoi/quoteservice/internal/interfaces/http/middleware"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString(middleware.RequestIDKey); id != "" {
		return id
	}
	return c.GetHeader(middleware.RequestIDHeader)
}

// Error sends an error response with the given status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewCodedErrorResponse(code, message, getRequestID(c)))
}

// ErrorWithCode sends an error response, deriving the status from the code
func (h *BaseHandler) ErrorWithCode(c *gin.Context, code, message string) {
	h.Error(c, dto.GetHTTPStatus(code), code, message)
}

// BindError answers a request whose body could not be bound: failed binding
// rules get field details, anything else is malformed JSON.
func (h *BaseHandler) BindError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		middleware.HandleValidationError(c, err)
		return
	}
	h.ErrorWithCode(c, dto.ErrCodeInvalidJSON, "invalid JSON body: "+err.Error())
}

// HandleError maps an error to its HTTP status using its domain code.
// Errors without a domain code become a generic 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	code := dto.ErrorCodeOf(err)
	status := dto.GetHTTPStatus(code)
	if status >= http.StatusInternalServerError {
		logger.GetGinLogger(c).Error("request failed", zap.Error(err))
	}

	if code == dto.ErrCodeInternal {
		h.Error(c, status, code, "an unexpected error occurred")
		return
	}
	h.Error(c, status, code, errorMessage(err))
}

// errorMessage prefers the message of the domain error in err's chain
func errorMessage(err error) string {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return err.Error()
}
