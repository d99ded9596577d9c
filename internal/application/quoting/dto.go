package quoting

import (
	"github.com/shopspring/decimal"

	"github.com/gpoi/quoteservice/internal/domain/quote"
)

// =============================================================================
// Request DTOs
// =============================================================================

// SheetSizeDTO is the size of one sheet in meters
type SheetSizeDTO struct {
	Width  decimal.Decimal `json:"ancho"`
	Height decimal.Decimal `json:"alto"`
}

// QuoteRequest is the quote payload accepted by /render, /calculate and /preview.
// Field names follow the payload the sales front end already sends.
type QuoteRequest struct {
	ClientName        string           `json:"cliente" binding:"required"`
	Location          string           `json:"ubicacion"`
	Color             string           `json:"color"`
	Mode              string           `json:"modalidad" binding:"required"`
	Sheets            int              `json:"cantidad_hojas" binding:"min=0"`
	Sheet             SheetSizeDTO     `json:"medida_hoja_m"`
	PanelPricePerM2   decimal.Decimal  `json:"precio_panel_m2"`
	InstallPricePerM2 decimal.Decimal  `json:"precio_instalacion_m2"`
	Freight           decimal.Decimal  `json:"flete"`
	TaxRate           *decimal.Decimal `json:"iva_porcentaje"`
	Currency          string           `json:"moneda" binding:"omitempty,len=3"`
	Folio             string           `json:"folio" binding:"omitempty,max=64"`
	Date              string           `json:"fecha_iso"`
}

// =============================================================================
// Response DTOs
// =============================================================================

// LineResponse is one priced row. Amounts are fixed two-decimal strings.
type LineResponse struct {
	Kind        string  `json:"tipo"`
	Quantity    string  `json:"cantidad"`
	Description string  `json:"descripcion"`
	Area        *string `json:"m2,omitempty"`
	UnitPrice   string  `json:"precio_unitario"`
	Subtotal    string  `json:"importe"`
}

// QuoteResponse is the priced quote
type QuoteResponse struct {
	Folio        string         `json:"folio"`
	Date         string         `json:"fecha"`
	Mode         string         `json:"modalidad"`
	Currency     string         `json:"moneda"`
	AreaPerSheet string         `json:"m2_por_hoja"`
	TotalArea    string         `json:"m2_totales"`
	Lines        []LineResponse `json:"conceptos"`
	Subtotal     string         `json:"subtotal"`
	TaxRate      string         `json:"iva_porcentaje"`
	Tax          string         `json:"iva"`
	Total        string         `json:"total"`
}

// RenderResponse describes a rendered and stored quote PDF
type RenderResponse struct {
	Folio    string         `json:"folio"`
	FileName string         `json:"file_name"`
	PDFURL   string         `json:"pdf_url"`
	Pages    int            `json:"pages"`
	Quote    *QuoteResponse `json:"quote"`
}

// PreviewResponse is the filled HTML document before conversion
type PreviewResponse struct {
	Folio string
	HTML  string
}

func toQuoteResponse(req quote.QuoteRequest, q *quote.Quote) *QuoteResponse {
	lines := make([]LineResponse, 0, len(q.Lines))
	for _, l := range q.Lines {
		line := LineResponse{
			Kind:        string(l.Kind),
			Quantity:    l.Quantity,
			Description: l.Description,
			UnitPrice:   l.UnitPrice.StringFixed(2),
			Subtotal:    l.Subtotal.StringFixed(2),
		}
		if l.HasArea() {
			area := l.Area.StringFixed(quote.AreaPlaces)
			line.Area = &area
		}
		lines = append(lines, line)
	}

	return &QuoteResponse{
		Folio:        req.Folio,
		Date:         req.Date,
		Mode:         string(q.Mode),
		Currency:     string(q.Currency),
		AreaPerSheet: q.AreaPerSheet.StringFixed(quote.AreaPlaces),
		TotalArea:    q.TotalArea.StringFixed(quote.AreaPlaces),
		Lines:        lines,
		Subtotal:     q.Totals.Subtotal.StringFixed(2),
		TaxRate:      q.Totals.TaxRate.String(),
		Tax:          q.Totals.Tax.StringFixed(2),
		Total:        q.Totals.Total.StringFixed(2),
	}
}
