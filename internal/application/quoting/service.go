package quoting

import (
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/gpoi/quoteservice/internal/domain/printing"
	"github.com/gpoi/quoteservice/internal/domain/quote"
	"github.com/gpoi/quoteservice/internal/domain/shared"
	"github.com/gpoi/quoteservice/internal/domain/shared/valueobject"
	"github.com/gpoi/quoteservice/internal/infrastructure/logger"
	infra "github.com/gpoi/quoteservice/internal/infrastructure/printing"
	"github.com/gpoi/quoteservice/internal/infrastructure/telemetry"
)

// TemplateSource supplies the quote document template
type TemplateSource interface {
	Quote() (*infra.StaticTemplate, error)
}

// LogoSource supplies the logo as an inline data URI; empty means no logo
type LogoSource interface {
	DataURI() (template.URL, error)
}

// PageSetup overrides the page settings carried by the template
type PageSetup struct {
	PaperSize   printing.PaperSize
	Orientation printing.Orientation
	Margins     printing.Margins
}

// Config holds the defaults applied to incoming quote requests
type Config struct {
	CompanyName     string
	FolioPrefix     string
	DefaultCurrency valueobject.Currency
	// DefaultTaxRate applies when a request omits iva_porcentaje; nil means 16%
	DefaultTaxRate *decimal.Decimal
	// PageSetup replaces the template's page settings when set
	PageSetup *PageSetup
	// RenderTimeout bounds a single HTML to PDF conversion; 0 uses the renderer default
	RenderTimeout time.Duration
}

// Option configures a QuoteService
type Option func(*QuoteService)

// WithClock replaces the clock used for the default quote date
func WithClock(now func() time.Time) Option {
	return func(s *QuoteService) {
		s.now = now
	}
}

// WithFolioGenerator replaces the default folio generator
func WithFolioGenerator(gen func() string) Option {
	return func(s *QuoteService) {
		s.newFolio = gen
	}
}

// WithLogger sets the fallback logger used when the context carries none
func WithLogger(l *zap.Logger) Option {
	return func(s *QuoteService) {
		s.logger = l
	}
}

// WithMetrics records calculations and renders on m
func WithMetrics(m *telemetry.QuoteMetrics) Option {
	return func(s *QuoteService) {
		s.metrics = m
	}
}

// QuoteService prices quotes and turns them into stored PDF documents
type QuoteService struct {
	templates TemplateSource
	engine    *infra.TemplateEngine
	renderer  infra.PDFRenderer
	storage   infra.PDFStorage
	logo      LogoSource
	cfg       Config
	now       func() time.Time
	newFolio  func() string
	logger    *zap.Logger
	metrics   *telemetry.QuoteMetrics
}

// NewQuoteService creates a new QuoteService. logo may be nil.
func NewQuoteService(
	templates TemplateSource,
	engine *infra.TemplateEngine,
	renderer infra.PDFRenderer,
	storage infra.PDFStorage,
	logo LogoSource,
	cfg Config,
	opts ...Option,
) *QuoteService {
	if cfg.FolioPrefix == "" {
		cfg.FolioPrefix = "GPO-COT"
	}
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = valueobject.DefaultCurrency
	}
	if cfg.DefaultTaxRate == nil {
		rate := quote.DefaultTaxRate
		cfg.DefaultTaxRate = &rate
	}
	if engine == nil {
		engine = infra.NewTemplateEngine()
	}

	s := &QuoteService{
		templates: templates,
		engine:    engine,
		renderer:  renderer,
		storage:   storage,
		logo:      logo,
		cfg:       cfg,
		now:       time.Now,
		logger:    zap.NewNop(),
	}
	s.newFolio = FolioGenerator(cfg.FolioPrefix)

	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FolioGenerator returns a generator of folios shaped <prefix>/<XXXXXXXX>,
// the suffix being the first eight hex digits of a random UUID
func FolioGenerator(prefix string) func() string {
	return func() string {
		id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
		return prefix + "/" + id[:8]
	}
}

// =============================================================================
// Quote operations
// =============================================================================

// Calculate prices a quote without rendering anything
func (s *QuoteService) Calculate(ctx context.Context, dto QuoteRequest) (*QuoteResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "quote", "calculate")
	defer span.End()

	req, err := s.prepare(dto)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	q, err := quote.Calculate(req)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.RecordCalculation(ctx, string(q.Mode))
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrFolio, req.Folio,
		telemetry.SpanAttrMode, string(q.Mode),
		telemetry.SpanAttrTotal, q.Totals.Total.StringFixed(2))

	s.log(ctx).Debug("quote calculated",
		zap.String("folio", req.Folio),
		zap.String("total", q.Totals.Total.String()))

	return toQuoteResponse(req, q), nil
}

// Preview returns the filled HTML document that Render would convert
func (s *QuoteService) Preview(ctx context.Context, dto QuoteRequest) (*PreviewResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "quote", "preview")
	defer span.End()

	req, err := s.prepare(dto)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrFolio, req.Folio,
		telemetry.SpanAttrMode, string(req.Mode))

	q, err := quote.Calculate(req)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	_, html, err := s.renderHTML(ctx, req, q)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	return &PreviewResponse{Folio: req.Folio, HTML: html}, nil
}

// Render prices the quote, fills the template, converts it to PDF and
// stores the file under the sanitized folio
func (s *QuoteService) Render(ctx context.Context, dto QuoteRequest) (result *RenderResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "quote", "render")
	defer span.End()

	req, err := s.prepare(dto)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	log := s.log(ctx).With(zap.String("folio", req.Folio))
	telemetry.SetAttributes(span,
		telemetry.SpanAttrFolio, req.Folio,
		telemetry.SpanAttrMode, string(req.Mode),
		telemetry.SpanAttrCurrency, string(req.Currency))

	start := time.Now()
	size := 0
	defer func() {
		if s.metrics != nil {
			s.metrics.RecordRender(ctx, string(req.Mode), time.Since(start), size, err)
		}
		telemetry.RecordError(span, err)
	}()

	q, err := quote.Calculate(req)
	if err != nil {
		return nil, err
	}

	tmpl, html, err := s.renderHTML(ctx, req, q)
	if err != nil {
		log.Error("template rendering failed", zap.Error(err))
		return nil, err
	}

	setup := s.pageSetup(tmpl)
	pdfResult, err := s.renderer.Render(ctx, &infra.RenderRequest{
		HTML:        html,
		PaperSize:   setup.PaperSize,
		Orientation: setup.Orientation,
		Margins:     setup.Margins,
		Title:       "Cotización " + req.Folio,
		Timeout:     s.cfg.RenderTimeout,
	})
	if err != nil {
		log.Error("PDF rendering failed", zap.Error(err))
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}

	stored, err := s.storage.Store(ctx, &infra.StoreRequest{
		Folio:   req.Folio,
		PDFData: pdfResult.PDFData,
	})
	if err != nil {
		log.Error("PDF storage failed", zap.Error(err))
		return nil, fmt.Errorf("failed to store PDF: %w", err)
	}
	size = len(pdfResult.PDFData)
	telemetry.SetAttributes(span,
		telemetry.SpanAttrFileName, stored.FileName,
		telemetry.SpanAttrPages, pdfResult.PageCount,
		telemetry.SpanAttrBytes, size)

	log.Info("quote rendered",
		zap.String("file", stored.FileName),
		zap.String("url", stored.URL),
		zap.Int("pages", pdfResult.PageCount),
		zap.Duration("duration", pdfResult.RenderDuration),
		zap.String("total", q.Totals.Total.String()))

	return &RenderResponse{
		Folio:    req.Folio,
		FileName: stored.FileName,
		PDFURL:   stored.URL,
		Pages:    pdfResult.PageCount,
		Quote:    toQuoteResponse(req, q),
	}, nil
}

// Open returns a stored PDF. Unknown and malformed names are NOT_FOUND.
// The caller must close the returned body.
func (s *QuoteService) Open(ctx context.Context, fileName string) (*infra.StoredPDF, error) {
	pdf, err := s.storage.Get(ctx, fileName)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", fileName, err)
	}
	return pdf, nil
}

// Cleanup deletes stored PDFs older than age
func (s *QuoteService) Cleanup(ctx context.Context, age time.Duration) (int, error) {
	deleted, err := s.storage.CleanupOlderThan(ctx, age)
	if err != nil {
		return deleted, fmt.Errorf("failed to clean up PDFs: %w", err)
	}
	return deleted, nil
}

// =============================================================================
// Helpers
// =============================================================================

// prepare maps the payload onto a domain request, filling the folio, date,
// currency and tax rate defaults
func (s *QuoteService) prepare(dto QuoteRequest) (quote.QuoteRequest, error) {
	mode, err := quote.ParseFulfillmentMode(dto.Mode)
	if err != nil {
		return quote.QuoteRequest{}, err
	}

	currency := s.cfg.DefaultCurrency
	if strings.TrimSpace(dto.Currency) != "" {
		currency, err = valueobject.ParseCurrency(dto.Currency)
		if err != nil {
			return quote.QuoteRequest{}, shared.NewValidationError(err.Error())
		}
	}

	taxRate := *s.cfg.DefaultTaxRate
	if dto.TaxRate != nil {
		taxRate = *dto.TaxRate
	}

	folio := strings.TrimSpace(dto.Folio)
	if folio == "" {
		folio = s.newFolio()
	}

	date := strings.TrimSpace(dto.Date)
	if date == "" {
		date = s.now().Format(quote.DateLayout)
	}

	req := quote.QuoteRequest{
		ClientName: strings.TrimSpace(dto.ClientName),
		Location:   strings.TrimSpace(dto.Location),
		Color:      strings.TrimSpace(dto.Color),
		Mode:       mode,
		Sheets:     dto.Sheets,
		Sheet: quote.SheetSize{
			Width:  dto.Sheet.Width,
			Height: dto.Sheet.Height,
		},
		PanelPricePerM2:   dto.PanelPricePerM2,
		InstallPricePerM2: dto.InstallPricePerM2,
		Freight:           dto.Freight,
		TaxRate:           taxRate,
		Currency:          currency,
		Folio:             folio,
		Date:              date,
	}
	return req, req.Validate()
}

func (s *QuoteService) renderHTML(ctx context.Context, req quote.QuoteRequest, q *quote.Quote) (*infra.StaticTemplate, string, error) {
	tmpl, err := s.templates.Quote()
	if err != nil {
		return nil, "", err
	}

	var logoURI template.URL
	if s.logo != nil {
		logoURI, err = s.logo.DataURI()
		if err != nil {
			return nil, "", err
		}
	}

	result, err := s.engine.Render(ctx, tmpl, buildView(req, q, s.cfg.CompanyName, logoURI))
	if err != nil {
		return nil, "", err
	}
	return tmpl, result.HTML, nil
}

func (s *QuoteService) pageSetup(tmpl *infra.StaticTemplate) PageSetup {
	if s.cfg.PageSetup != nil {
		return *s.cfg.PageSetup
	}
	return PageSetup{
		PaperSize:   tmpl.PaperSize,
		Orientation: tmpl.Orientation,
		Margins:     tmpl.Margins,
	}
}

// log returns the request logger, tagged with the trace ID when a span is recording
func (s *QuoteService) log(ctx context.Context) *zap.Logger {
	l := logger.FromContextOr(ctx, s.logger)
	if traceID := telemetry.GetTraceID(ctx); traceID != "" {
		l = l.With(zap.String("trace_id", traceID))
	}
	return l
}
