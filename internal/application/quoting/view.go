package quoting

import (
	"html/template"

	"github.com/gpoi/quoteservice/internal/domain/quote"
	infra "github.com/gpoi/quoteservice/internal/infrastructure/printing"
)

// buildView flattens a priced quote into the template's data contract
func buildView(req quote.QuoteRequest, q *quote.Quote, companyName string, logo template.URL) *infra.QuoteView {
	lines := make([]infra.QuoteLineView, 0, len(q.Lines))
	for _, l := range q.Lines {
		lines = append(lines, infra.QuoteLineView{
			Quantity:    l.Quantity,
			Description: l.Description,
			Area:        l.Area,
			UnitPrice:   l.UnitPrice,
			Subtotal:    l.Subtotal,
		})
	}

	return &infra.QuoteView{
		Folio:        req.Folio,
		Date:         req.Date,
		ClientName:   req.ClientName,
		Location:     req.Location,
		Color:        req.Color,
		ModeLabel:    q.Mode.DisplayName(),
		Currency:     string(q.Currency),
		CompanyName:  companyName,
		LogoURI:      logo,
		AreaPerSheet: q.AreaPerSheet,
		TotalArea:    q.TotalArea,
		Lines:        lines,
		Subtotal:     q.Totals.Subtotal,
		TaxRate:      q.Totals.TaxRate,
		Tax:          q.Totals.Tax,
		Total:        q.Totals.Total,
	}
}
