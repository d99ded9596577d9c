package quote

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gpoi/quoteservice/internal/domain/shared"
	"github.com/gpoi/quoteservice/internal/domain/shared/valueobject"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleRequest() QuoteRequest {
	return QuoteRequest{
		ClientName:        "Constructora del Norte",
		Location:          "Monterrey, NL",
		Color:             "negro",
		Mode:              ModeSupplyAndInstall,
		Sheets:            5,
		Sheet:             SheetSize{Width: dec("1.2"), Height: dec("2.0")},
		PanelPricePerM2:   dec("670"),
		InstallPricePerM2: dec("1300"),
		Freight:           dec("800"),
		TaxRate:           DefaultTaxRate,
	}
}

func TestCalculate_ReferenceExample(t *testing.T) {
	q, err := Calculate(sampleRequest())
	require.NoError(t, err)

	assert.Equal(t, "2.40", q.AreaPerSheet.StringFixed(2))
	assert.Equal(t, "12.00", q.TotalArea.StringFixed(2))
	require.Len(t, q.Lines, 3)

	supply := q.Lines[0]
	assert.Equal(t, LineSupply, supply.Kind)
	assert.Equal(t, "5", supply.Quantity)
	assert.Equal(t, "Panel aluminio negro 1.2x2m", supply.Description)
	require.True(t, supply.HasArea())
	assert.Equal(t, "12.00", supply.Area.StringFixed(2))
	assert.Equal(t, "8040.00", supply.Subtotal.StringFixed(2))

	install := q.Lines[1]
	assert.Equal(t, LineInstallation, install.Kind)
	assert.Equal(t, NoQuantity, install.Quantity)
	assert.Equal(t, "15600.00", install.Subtotal.StringFixed(2))

	freight := q.Lines[2]
	assert.Equal(t, LineFreight, freight.Kind)
	assert.False(t, freight.HasArea())
	assert.Equal(t, "800.00", freight.UnitPrice.StringFixed(2))
	assert.Equal(t, "800.00", freight.Subtotal.StringFixed(2))

	assert.Equal(t, "24440.00", q.Totals.Subtotal.StringFixed(2))
	assert.Equal(t, "3910.40", q.Totals.Tax.StringFixed(2))
	assert.Equal(t, "28350.40", q.Totals.Total.StringFixed(2))
	assert.Equal(t, valueobject.MXN, q.Currency)
}

func TestCalculate_SupplyDescriptionColor(t *testing.T) {
	tests := []struct {
		color string
		want  string
	}{
		{"negro", "Panel aluminio negro 1.2x2m"},
		{"", "Panel aluminio 1.2x2m"},
		{"   ", "Panel aluminio 1.2x2m"},
		{" champagne ", "Panel aluminio champagne 1.2x2m"},
	}
	for _, tt := range tests {
		req := sampleRequest()
		req.Color = tt.color

		q, err := Calculate(req)
		require.NoError(t, err)
		assert.Equal(t, tt.want, q.Lines[0].Description, "color %q", tt.color)
	}
}

func TestCalculate_ModeSelectsLines(t *testing.T) {
	tests := []struct {
		mode     FulfillmentMode
		kinds    []LineKind
		subtotal string
	}{
		{ModeSupplyOnly, []LineKind{LineSupply, LineFreight}, "8840.00"},
		{ModeInstallOnly, []LineKind{LineInstallation, LineFreight}, "16400.00"},
		{ModeSupplyAndInstall, []LineKind{LineSupply, LineInstallation, LineFreight}, "24440.00"},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			req := sampleRequest()
			req.Mode = tt.mode

			q, err := Calculate(req)
			require.NoError(t, err)

			kinds := make([]LineKind, 0, len(q.Lines))
			for _, l := range q.Lines {
				kinds = append(kinds, l.Kind)
			}
			assert.Equal(t, tt.kinds, kinds)
			assert.Equal(t, tt.subtotal, q.Totals.Subtotal.StringFixed(2))
		})
	}
}

func TestCalculate_FreightLineOnlyWhenPositive(t *testing.T) {
	req := sampleRequest()
	req.Freight = decimal.Zero

	q, err := Calculate(req)
	require.NoError(t, err)

	_, ok := q.Line(LineFreight)
	assert.False(t, ok)
	assert.Len(t, q.Lines, 2)
	assert.Equal(t, "23640.00", q.Totals.Subtotal.StringFixed(2))
}

func TestCalculate_ZeroSheets(t *testing.T) {
	req := sampleRequest()
	req.Sheets = 0

	q, err := Calculate(req)
	require.NoError(t, err)

	assert.True(t, q.TotalArea.IsZero())
	supply, ok := q.Line(LineSupply)
	require.True(t, ok)
	assert.True(t, supply.Subtotal.IsZero())
	install, ok := q.Line(LineInstallation)
	require.True(t, ok)
	assert.True(t, install.Subtotal.IsZero())

	assert.Equal(t, "800.00", q.Totals.Subtotal.StringFixed(2))
	assert.Equal(t, "128.00", q.Totals.Tax.StringFixed(2))
	assert.Equal(t, "928.00", q.Totals.Total.StringFixed(2))
}

func TestCalculate_RoundsAreaPerStep(t *testing.T) {
	req := sampleRequest()
	req.Mode = ModeSupplyOnly
	req.Sheets = 3
	req.Sheet = SheetSize{Width: dec("1.225"), Height: dec("1")}
	req.PanelPricePerM2 = dec("99.99")
	req.Freight = decimal.Zero

	q, err := Calculate(req)
	require.NoError(t, err)

	// 1.225 -> 1.23 per sheet, then 3.69 total
	assert.Equal(t, "1.23", q.AreaPerSheet.StringFixed(2))
	assert.Equal(t, "3.69", q.TotalArea.StringFixed(2))
	// 3.69 * 99.99 = 368.9631
	assert.Equal(t, "368.96", q.Totals.Subtotal.StringFixed(2))
	// 368.96 * 0.16 = 59.0336
	assert.Equal(t, "59.03", q.Totals.Tax.StringFixed(2))
	assert.Equal(t, "427.99", q.Totals.Total.StringFixed(2))
}

func TestCalculate_TotalsAreConsistent(t *testing.T) {
	rates := []string{"0", "0.08", "0.16", "1"}
	for _, rate := range rates {
		t.Run(rate, func(t *testing.T) {
			req := sampleRequest()
			req.TaxRate = dec(rate)
			req.Sheets = 7
			req.Sheet = SheetSize{Width: dec("1.22"), Height: dec("2.44")}

			q, err := Calculate(req)
			require.NoError(t, err)

			sum := valueobject.Zero(q.Currency)
			for _, l := range q.Lines {
				sum = sum.MustAdd(l.Subtotal)
			}
			assert.True(t, sum.Equals(q.Totals.Subtotal))

			wantTax := q.Totals.Subtotal.Amount().Mul(dec(rate)).Round(2)
			assert.True(t, wantTax.Equal(q.Totals.Tax.Amount()))
			assert.True(t, q.Totals.Subtotal.MustAdd(q.Totals.Tax).Equals(q.Totals.Total))

			raw := dec("1.22").Mul(dec("2.44")).Mul(decimal.NewFromInt(7))
			assert.True(t, q.TotalArea.Sub(raw).Abs().LessThanOrEqual(dec("0.05")))
		})
	}
}

func TestCalculate_Idempotent(t *testing.T) {
	req := sampleRequest()
	first, err := Calculate(req)
	require.NoError(t, err)
	second, err := Calculate(req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCalculate_UsesRequestCurrency(t *testing.T) {
	req := sampleRequest()
	req.Currency = valueobject.USD

	q, err := Calculate(req)
	require.NoError(t, err)
	assert.Equal(t, valueobject.USD, q.Totals.Total.Currency())
}

func TestQuoteRequest_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*QuoteRequest)
		msg    string
	}{
		{"empty client", func(r *QuoteRequest) { r.ClientName = "  " }, "client name"},
		{"unknown mode", func(r *QuoteRequest) { r.Mode = "delivery" }, "fulfillment mode"},
		{"negative sheets", func(r *QuoteRequest) { r.Sheets = -1 }, "sheet count"},
		{"zero width", func(r *QuoteRequest) { r.Sheet.Width = decimal.Zero }, "width"},
		{"negative height", func(r *QuoteRequest) { r.Sheet.Height = dec("-2") }, "height"},
		{"negative panel price", func(r *QuoteRequest) { r.PanelPricePerM2 = dec("-1") }, "panel price"},
		{"negative install price", func(r *QuoteRequest) { r.InstallPricePerM2 = dec("-1") }, "installation price"},
		{"negative freight", func(r *QuoteRequest) { r.Freight = dec("-0.01") }, "freight"},
		{"tax above one", func(r *QuoteRequest) { r.TaxRate = dec("16") }, "tax rate"},
		{"negative tax", func(r *QuoteRequest) { r.TaxRate = dec("-0.16") }, "tax rate"},
		{"bad currency", func(r *QuoteRequest) { r.Currency = "pesos" }, "currency"},
		{"bad date", func(r *QuoteRequest) { r.Date = "18/10/2026" }, "ISO date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := sampleRequest()
			tt.mutate(&req)

			err := req.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
			assert.True(t, errors.Is(err, shared.ErrValidation))

			q, calcErr := Calculate(req)
			assert.Nil(t, q)
			assert.Equal(t, shared.CodeValidation, shared.CodeOf(calcErr))
		})
	}
}

func TestQuoteRequest_ValidateAcceptsEdges(t *testing.T) {
	req := sampleRequest()
	req.Sheets = 0
	req.Freight = decimal.Zero
	req.TaxRate = decimal.Zero
	req.PanelPricePerM2 = decimal.Zero
	req.Date = "2026-10-18"
	assert.NoError(t, req.Validate())
}
