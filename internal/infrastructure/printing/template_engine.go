package printing

import (
	"bytes"
	"context"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/gpoi/quoteservice/internal/domain/shared/valueobject"
)

// TemplateEngine fills HTML templates using Go's html/template package
// with formatting helpers for money, areas and percentages.
type TemplateEngine struct {
	funcMap template.FuncMap
}

// NewTemplateEngine creates a template engine with the quote helpers
func NewTemplateEngine() *TemplateEngine {
	return &TemplateEngine{
		funcMap: template.FuncMap{
			"formatMoney":   formatMoney,
			"formatArea":    formatArea,
			"formatPercent": formatPercent,
			"upper":         strings.ToUpper,
			"title":         titleCase,
		},
	}
}

// RenderTemplateResult contains the filled HTML
type RenderTemplateResult struct {
	HTML           string
	RenderDuration time.Duration
}

// Render fills tmpl with data. Parse failures are TEMPLATE_INVALID render
// errors; execution failures are RENDER_FAILED render errors.
func (e *TemplateEngine) Render(ctx context.Context, tmpl *StaticTemplate, data any) (*RenderTemplateResult, error) {
	if tmpl == nil {
		return nil, NewRenderError(ErrCodeTemplateNotFound, "template is nil", nil)
	}
	if strings.TrimSpace(tmpl.Content) == "" {
		return nil, NewRenderError(ErrCodeTemplateInvalid, "template "+tmpl.Name+" is empty", nil)
	}

	startTime := time.Now()

	html, err := e.RenderString(ctx, tmpl.Name, tmpl.Content, data)
	if err != nil {
		return nil, err
	}

	return &RenderTemplateResult{
		HTML:           html,
		RenderDuration: time.Since(startTime),
	}, nil
}

// RenderString parses and executes a template string
func (e *TemplateEngine) RenderString(ctx context.Context, name, content string, data any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "render cancelled", err)
	}

	t, err := template.New(name).Option("missingkey=error").Funcs(e.funcMap).Parse(content)
	if err != nil {
		return "", NewRenderError(ErrCodeTemplateInvalid, "failed to parse template "+name, err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "failed to execute template "+name, err)
	}

	return buf.String(), nil
}

// formatMoney formats an amount with its currency symbol.
// Example: 28350.4 MXN -> "$28,350.40"
func formatMoney(v any) string {
	if m, ok := v.(valueobject.Money); ok {
		return m.Currency().Symbol() + m.Grouped()
	}
	return valueobject.DefaultCurrency.Symbol() + valueobject.GroupThousands(toDecimal(v))
}

// formatArea formats square meters to two places; a nil area prints "-"
func formatArea(v any) string {
	switch val := v.(type) {
	case nil:
		return "-"
	case *decimal.Decimal:
		if val == nil {
			return "-"
		}
		return val.StringFixed(2)
	}
	return toDecimal(v).StringFixed(2)
}

// formatPercent formats a rate as a percentage without trailing zeros.
// Example: 0.16 -> "16%", 0.085 -> "8.5%"
func formatPercent(v any) string {
	return toDecimal(v).Mul(decimal.NewFromInt(100)).String() + "%"
}

func titleCase(s string) string {
	return cases.Title(language.Spanish).String(s)
}

// toDecimal converts the numeric types templates see to a decimal
func toDecimal(v any) decimal.Decimal {
	switch val := v.(type) {
	case decimal.Decimal:
		return val
	case *decimal.Decimal:
		if val == nil {
			return decimal.Zero
		}
		return *val
	case valueobject.Money:
		return val.Amount()
	case int:
		return decimal.NewFromInt(int64(val))
	case int64:
		return decimal.NewFromInt(val)
	case float64:
		return decimal.NewFromFloat(val)
	case string:
		d, err := decimal.NewFromString(val)
		if err != nil {
			return decimal.Zero
		}
		return d
	default:
		return decimal.Zero
	}
}
