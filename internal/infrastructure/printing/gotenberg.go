package printing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/gpoi/quoteservice/internal/domain/printing"
)

// GotenbergConfig contains configuration for the Gotenberg renderer
type GotenbergConfig struct {
	// BaseURL of the Gotenberg service, e.g. http://gotenberg:3000
	BaseURL string
	// DefaultTimeout for a single conversion
	DefaultTimeout time.Duration
	// HTTPClient overrides the client used to reach Gotenberg
	HTTPClient *http.Client
	// Logger for debug output
	Logger *zap.Logger
}

// GotenbergRenderer converts HTML through a Gotenberg service's Chromium route
type GotenbergRenderer struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	logger     *zap.Logger
}

// NewGotenbergRenderer creates a renderer that posts HTML to Gotenberg
func NewGotenbergRenderer(config *GotenbergConfig) (*GotenbergRenderer, error) {
	if config == nil || strings.TrimSpace(config.BaseURL) == "" {
		return nil, NewConversionError(ErrCodeRenderFailed, "gotenberg base URL is required", nil)
	}

	timeout := config.DefaultTimeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	client := config.HTTPClient
	if client == nil {
		client = &http.Client{}
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &GotenbergRenderer{
		baseURL:    strings.TrimRight(config.BaseURL, "/"),
		timeout:    timeout,
		httpClient: client,
		logger:     logger,
	}, nil
}

// Ping checks if the remote Gotenberg service is available
func (r *GotenbergRenderer) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("gotenberg returned status %d", resp.StatusCode)
	}
	return nil
}

// Render converts HTML content to PDF
func (r *GotenbergRenderer) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	if err := validateRenderRequest(req); err != nil {
		return nil, err
	}

	startTime := time.Now()

	timeout := req.Timeout
	if timeout == 0 {
		timeout = r.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, contentType, err := buildGotenbergForm(req)
	if err != nil {
		return nil, NewConversionError(ErrCodeRenderFailed, "failed to build gotenberg form", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		r.baseURL+"/forms/chromium/convert/html", body)
	if err != nil {
		return nil, NewConversionError(ErrCodeRenderFailed, "failed to build gotenberg request", err)
	}
	httpReq.Header.Set("Content-Type", contentType)

	resp, err := r.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, NewConversionError(ErrCodeRenderTimeout,
				fmt.Sprintf("PDF rendering timed out after %v", timeout), err)
		}
		return nil, NewConversionError(ErrCodeRenderFailed, "gotenberg request failed", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		r.logger.Error("gotenberg conversion failed",
			zap.Int("status", resp.StatusCode),
			zap.String("body", string(msg)))
		return nil, NewConversionError(ErrCodeRenderFailed,
			fmt.Sprintf("gotenberg returned status %d", resp.StatusCode), nil)
	}

	pdfData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NewConversionError(ErrCodeRenderFailed, "failed to read gotenberg response", err)
	}
	if len(pdfData) == 0 {
		return nil, NewConversionError(ErrCodeRenderFailed, "generated PDF is empty", nil)
	}

	pageCount := estimatePageCount(pdfData)
	renderDuration := time.Since(startTime)

	r.logger.Info("PDF rendered successfully",
		zap.String("engine", "gotenberg"),
		zap.Int("bytes", len(pdfData)),
		zap.Int("pages", pageCount),
		zap.Duration("duration", renderDuration))

	return &RenderResult{
		PDFData:        pdfData,
		PageCount:      pageCount,
		RenderDuration: renderDuration,
	}, nil
}

// buildGotenbergForm writes the HTML as index.html plus the page setup fields
func buildGotenbergForm(req *RenderRequest) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("files", "index.html")
	if err != nil {
		return nil, "", err
	}
	if _, err := io.WriteString(part, req.HTML); err != nil {
		return nil, "", err
	}

	width, height := req.PaperSize.Dimensions()
	fields := map[string]string{
		"paperWidth":      formatInches(float64(width)),
		"paperHeight":     formatInches(float64(height)),
		"marginTop":       formatInches(float64(req.Margins.Top)),
		"marginRight":     formatInches(float64(req.Margins.Right)),
		"marginBottom":    formatInches(float64(req.Margins.Bottom)),
		"marginLeft":      formatInches(float64(req.Margins.Left)),
		"printBackground": "true",
		"landscape":       strconv.FormatBool(req.Orientation == printing.OrientationLandscape),
	}
	for k, v := range fields {
		if err := writer.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body, writer.FormDataContentType(), nil
}

func formatInches(mm float64) string {
	return strconv.FormatFloat(mmToInches(mm), 'f', 4, 64)
}

// Close is a no-op; the HTTP client holds no dedicated resources
func (r *GotenbergRenderer) Close() error {
	return nil
}

var _ PDFRenderer = (*GotenbergRenderer)(nil)
