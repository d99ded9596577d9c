package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/metric"

	"github.com/gpoi/quoteservice/internal/domain/shared"
)

// Render outcomes used as the outcome attribute
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// ErrMeterNil is returned when no meter is supplied.
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// QuoteMetrics records pricing and PDF rendering activity.
type QuoteMetrics struct {
	calculatedTotal *Counter
	renderedTotal   *Counter
	renderDuration  *Histogram
	pdfSize         *Histogram
}

// NewQuoteMetrics creates the quote instruments on meter.
func NewQuoteMetrics(meter metric.Meter) (*QuoteMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	var (
		qm  QuoteMetrics
		err error
	)

	qm.calculatedTotal, err = NewCounter(meter,
		"quote_calculated_total",
		"Total number of priced quotes",
		"{quotes}",
	)
	if err != nil {
		return nil, err
	}

	qm.renderedTotal, err = NewCounter(meter,
		"quote_rendered_total",
		"Total number of quote PDF renders by outcome",
		"{documents}",
	)
	if err != nil {
		return nil, err
	}

	qm.renderDuration, err = NewHistogram(meter, HistogramOpts{
		Name:        "quote_render_duration_seconds",
		Description: "Time spent turning a quote into a stored PDF",
		Unit:        "s",
		Boundaries:  RenderDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	qm.pdfSize, err = NewHistogram(meter, HistogramOpts{
		Name:        "quote_pdf_size_bytes",
		Description: "Size of generated quote PDFs",
		Unit:        "By",
		Boundaries:  PDFSizeBuckets,
	})
	if err != nil {
		return nil, err
	}

	return &qm, nil
}

// RecordCalculation counts a priced quote.
func (qm *QuoteMetrics) RecordCalculation(ctx context.Context, mode string) {
	qm.calculatedTotal.Inc(ctx, AttrQuoteMode.String(mode))
}

// RecordRender records one render attempt. size is ignored on failure.
func (qm *QuoteMetrics) RecordRender(ctx context.Context, mode string, d time.Duration, size int, err error) {
	if err != nil {
		code := shared.CodeOf(err)
		if code == "" {
			code = "UNKNOWN"
		}
		qm.renderedTotal.Inc(ctx,
			AttrQuoteMode.String(mode),
			AttrOutcome.String(OutcomeFailure),
			AttrErrorCode.String(code),
		)
		return
	}

	qm.renderedTotal.Inc(ctx,
		AttrQuoteMode.String(mode),
		AttrOutcome.String(OutcomeSuccess),
	)
	qm.renderDuration.RecordDuration(ctx, d, AttrQuoteMode.String(mode))
	qm.pdfSize.Record(ctx, float64(size))
}
