package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gpoi/quoteservice/internal/application/quoting"
	"github.com/gpoi/quoteservice/internal/domain/shared"
	"github.com/gpoi/quoteservice/internal/infrastructure/logger"
	infra "github.com/gpoi/quoteservice/internal/infrastructure/printing"
	"github.com/gpoi/quoteservice/internal/interfaces/http/dto"
)

// QuoteService is the application service behind the quote endpoints
type QuoteService interface {
	Calculate(ctx context.Context, req quoting.QuoteRequest) (*quoting.QuoteResponse, error)
	Preview(ctx context.Context, req quoting.QuoteRequest) (*quoting.PreviewResponse, error)
	Render(ctx context.Context, req quoting.QuoteRequest) (*quoting.RenderResponse, error)
	Open(ctx context.Context, fileName string) (*infra.StoredPDF, error)
}

// QuoteHandler handles quote pricing and PDF endpoints
type QuoteHandler struct {
	BaseHandler
	service QuoteService
}

// NewQuoteHandler creates a new QuoteHandler
func NewQuoteHandler(service QuoteService) *QuoteHandler {
	return &QuoteHandler{service: service}
}

// Render prices the quote, renders it to PDF and returns its public link.
// Every failure, including a malformed body, answers 500 {"error": ...}.
//
// POST /render
func (h *QuoteHandler) Render(c *gin.Context) {
	var req quoting.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.renderFailed(c, err)
		return
	}

	result, err := h.service.Render(c.Request.Context(), req)
	if err != nil {
		h.renderFailed(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.RenderResponse{PDFURL: result.PDFURL})
}

func (h *QuoteHandler) renderFailed(c *gin.Context, err error) {
	logger.GetGinLogger(c).Error("quote render failed",
		zap.String("error_code", dto.ErrorCodeOf(err)),
		zap.Error(err))
	c.JSON(http.StatusInternalServerError, dto.NewCodedErrorResponse(
		dto.ErrorCodeOf(err), err.Error(), getRequestID(c)))
}

// Calculate prices a quote without rendering it
//
// POST /calculate
func (h *QuoteHandler) Calculate(c *gin.Context) {
	var req quoting.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.service.Calculate(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Preview returns the filled quote document as HTML
//
// POST /preview
func (h *QuoteHandler) Preview(c *gin.Context) {
	var req quoting.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.service.Preview(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(result.HTML))
}

// ServeFile streams a stored PDF inline. Unknown or malformed names are 404.
//
// GET /files/:filename
func (h *QuoteHandler) ServeFile(c *gin.Context) {
	pdf, err := h.service.Open(c.Request.Context(), c.Param("filename"))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.NotFoundResponse{Detail: "not found"})
			return
		}
		h.HandleError(c, err)
		return
	}
	defer pdf.Body.Close()

	headers := map[string]string{
		"Content-Disposition": fmt.Sprintf("inline; filename=%q", pdf.FileName),
		"Cache-Control":       "no-cache",
	}
	if !pdf.ModTime.IsZero() {
		headers["Last-Modified"] = pdf.ModTime.UTC().Format(http.TimeFormat)
	}

	c.DataFromReader(http.StatusOK, pdf.Size, "application/pdf", pdf.Body, headers)
}
