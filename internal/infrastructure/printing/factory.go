package printing

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Supported conversion engines
const (
	EngineChromedp    = "chromedp"
	EngineWkhtmltopdf = "wkhtmltopdf"
	EngineGotenberg   = "gotenberg"
)

// EngineOptions selects and configures a PDFRenderer
type EngineOptions struct {
	Engine       string
	Timeout      time.Duration
	ChromeURL    string
	ChromePath   string
	NoSandbox    bool
	BinaryPath   string
	TempDir      string
	GotenbergURL string
}

// NewPDFRenderer builds the renderer named by opts.Engine (chromedp when empty)
func NewPDFRenderer(opts EngineOptions, logger *zap.Logger) (PDFRenderer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch strings.ToLower(strings.TrimSpace(opts.Engine)) {
	case "", EngineChromedp:
		return NewChromedpRenderer(&ChromedpConfig{
			DefaultTimeout: opts.Timeout,
			RemoteURL:      opts.ChromeURL,
			ExecPath:       opts.ChromePath,
			NoSandbox:      opts.NoSandbox,
			Logger:         logger,
		})
	case EngineWkhtmltopdf:
		return NewWkhtmltopdfRenderer(&WkhtmltopdfConfig{
			BinaryPath:     opts.BinaryPath,
			DefaultTimeout: opts.Timeout,
			TempDir:        opts.TempDir,
			Logger:         logger,
		})
	case EngineGotenberg:
		return NewGotenbergRenderer(&GotenbergConfig{
			BaseURL:        opts.GotenbergURL,
			DefaultTimeout: opts.Timeout,
			Logger:         logger,
		})
	default:
		return nil, fmt.Errorf("unsupported PDF engine: %q", opts.Engine)
	}
}
