package printing

import (
	"bytes"
	"context"
	"time"

	"github.com/gpoi/quoteservice/internal/domain/printing"
	"github.com/gpoi/quoteservice/internal/domain/shared"
)

// RenderRequest contains the parameters for converting HTML to PDF
type RenderRequest struct {
	// HTML content to convert
	HTML string
	// PaperSize defines the output paper dimensions
	PaperSize printing.PaperSize
	// Orientation defines portrait or landscape
	Orientation printing.Orientation
	// Margins in millimeters
	Margins printing.Margins
	// Title for the PDF document metadata
	Title string
	// Timeout overrides the renderer's default timeout
	Timeout time.Duration
}

// RenderResult contains the output from PDF conversion
type RenderResult struct {
	PDFData        []byte
	PageCount      int
	RenderDuration time.Duration
}

// PDFRenderer converts a complete HTML document to a PDF
type PDFRenderer interface {
	// Render converts HTML content to a PDF document
	Render(ctx context.Context, req *RenderRequest) (*RenderResult, error)
	// Close releases any resources held by the renderer
	Close() error
}

// Conversion error codes
const (
	ErrCodeRenderTimeout    = "RENDER_TIMEOUT"
	ErrCodeRenderFailed     = "RENDER_FAILED"
	ErrCodeInvalidHTML      = "INVALID_HTML"
	ErrCodeBinaryNotFound   = "BINARY_NOT_FOUND"
	ErrCodeInvalidPaperSize = "INVALID_PAPER_SIZE"
)

// Template and asset error codes
const (
	ErrCodeTemplateNotFound = "TEMPLATE_NOT_FOUND"
	ErrCodeTemplateInvalid  = "TEMPLATE_INVALID"
	ErrCodeAssetUnreadable  = "ASSET_UNREADABLE"
)

// ConversionError represents a failure turning HTML into a PDF
type ConversionError struct {
	Code    string
	Message string
	Cause   error
}

func (e *ConversionError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ConversionError) Unwrap() error {
	return e.Cause
}

// DomainCode implements shared.Coded
func (e *ConversionError) DomainCode() string {
	return shared.CodeConversion
}

// Is makes errors.Is(err, shared.ErrConversion) hold
func (e *ConversionError) Is(target error) bool {
	return shared.CodeOf(target) == shared.CodeConversion
}

// NewConversionError creates a new ConversionError
func NewConversionError(code, message string, cause error) *ConversionError {
	return &ConversionError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// RenderError represents a missing or broken template or asset
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// DomainCode implements shared.Coded
func (e *RenderError) DomainCode() string {
	return shared.CodeRender
}

// Is makes errors.Is(err, shared.ErrRender) hold
func (e *RenderError) Is(target error) bool {
	return shared.CodeOf(target) == shared.CodeRender
}

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// validateRenderRequest runs the checks every renderer shares
func validateRenderRequest(req *RenderRequest) error {
	if req == nil {
		return NewConversionError(ErrCodeInvalidHTML, "render request is nil", nil)
	}
	if len(bytes.TrimSpace([]byte(req.HTML))) == 0 {
		return NewConversionError(ErrCodeInvalidHTML, "HTML content is empty", nil)
	}
	if !req.PaperSize.IsValid() {
		return NewConversionError(ErrCodeInvalidPaperSize, "invalid paper size: "+string(req.PaperSize), nil)
	}
	return nil
}

// estimatePageCount counts page objects in a PDF
func estimatePageCount(pdf []byte) int {
	pages := bytes.Count(pdf, []byte("/Type /Page")) - bytes.Count(pdf, []byte("/Type /Pages"))
	if pages < 1 {
		return 1
	}
	return pages
}

// mmToInches converts millimeters to inches
func mmToInches(mm float64) float64 {
	return mm / 25.4
}
