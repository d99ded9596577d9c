package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHealthHandler(t *testing.T) {
	h := NewHealthHandler("quote-service", "1.0.0", "chromedp")
	assert.NotNil(t, h)
	assert.False(t, h.startTime.IsZero())
}

func TestHealthHandler_Health(t *testing.T) {
	h := NewHealthHandler("quote-service", "1.0.0", "chromedp")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	h.Health(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
}

func TestHealthHandler_Info(t *testing.T) {
	h := NewHealthHandler("quote-service", "1.0.0", "gotenberg")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/info", nil)

	h.Info(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp InfoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "quote-service", resp.Name)
	assert.Equal(t, "1.0.0", resp.Version)
	assert.Equal(t, "gotenberg", resp.PDFEngine)
	assert.NotEmpty(t, resp.GoVersion)
	assert.NotEmpty(t, resp.Uptime)
}
