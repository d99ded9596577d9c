package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gpoi/quoteservice/internal/domain/shared"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeInvalidJSON, http.StatusBadRequest},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeConflict, http.StatusConflict},
		{ErrCodeRender, http.StatusInternalServerError},
		{ErrCodeConversion, http.StatusBadGateway},
		{ErrCodeRequestTooLarge, http.StatusRequestEntityTooLarge},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		// Unknown code should return 500
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestErrorCodeOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"validation", shared.NewValidationError("cliente is required"), ErrCodeValidation},
		{"wrapped not found", fmt.Errorf("failed to open: %w", shared.NewNotFoundError("missing")), ErrCodeNotFound},
		{"conflict", shared.NewDomainError(shared.CodeConflict, "exists"), ErrCodeConflict},
		{"render", shared.NewDomainError(shared.CodeRender, "bad template"), ErrCodeRender},
		{"conversion", shared.NewDomainError(shared.CodeConversion, "chrome died"), ErrCodeConversion},
		{"plain error", errors.New("boom"), ErrCodeInternal},
		{"nil", nil, ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ErrorCodeOf(tt.err))
		})
	}
}

func TestErrorResponse_JSONShape(t *testing.T) {
	t.Run("bare error omits optional fields", func(t *testing.T) {
		data, err := json.Marshal(NewErrorResponse("boom"))
		require.NoError(t, err)
		assert.JSONEq(t, `{"error":"boom"}`, string(data))
	})

	t.Run("validation response carries details", func(t *testing.T) {
		resp := NewValidationErrorResponse("Request validation failed", "req-1", []ValidationDetail{
			{Field: "cliente", Message: "This field is required"},
		})
		data, err := json.Marshal(resp)
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"error": "Request validation failed",
			"code": "ERR_VALIDATION",
			"request_id": "req-1",
			"details": [{"field": "cliente", "message": "This field is required"}]
		}`, string(data))
	})
}
