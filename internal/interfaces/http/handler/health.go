package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gpoi/quoteservice/internal/interfaces/http/dto"
)

// HealthHandler serves liveness and build information
type HealthHandler struct {
	BaseHandler
	name      string
	version   string
	engine    string
	startTime time.Time
}

// NewHealthHandler creates a new HealthHandler. engine names the active
// HTML to PDF converter.
func NewHealthHandler(name, version, engine string) *HealthHandler {
	return &HealthHandler{
		name:      name,
		version:   version,
		engine:    engine,
		startTime: time.Now(),
	}
}

// InfoResponse represents the service information response
type InfoResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	PDFEngine string `json:"pdf_engine"`
	Uptime    string `json:"uptime"`
}

// Health answers the liveness probe
//
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.HealthResponse{Status: "healthy"})
}

// Info returns the service name, version and uptime
//
// GET /info
func (h *HealthHandler) Info(c *gin.Context) {
	c.JSON(http.StatusOK, InfoResponse{
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		PDFEngine: h.engine,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	})
}
