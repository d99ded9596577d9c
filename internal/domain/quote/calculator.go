package quote

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/gpoi/quoteservice/internal/domain/shared/valueobject"
)

// AreaPlaces is the rounding precision for square meters
const AreaPlaces int32 = 2

// LineKind identifies the source of a line item
type LineKind string

const (
	LineSupply       LineKind = "supply"
	LineInstallation LineKind = "installation"
	LineFreight      LineKind = "freight"
)

// NoQuantity is the quantity label for lines not counted in sheets
const NoQuantity = "-"

// LineItem is one printed row of the quote
type LineItem struct {
	Kind        LineKind
	Quantity    string
	Description string
	// Area is nil for lines that are not priced by area (freight)
	Area      *decimal.Decimal
	UnitPrice valueobject.Money
	Subtotal  valueobject.Money
}

// HasArea reports whether the line carries an area figure
func (l LineItem) HasArea() bool {
	return l.Area != nil
}

// Totals are the summary figures of a quote
type Totals struct {
	Subtotal valueobject.Money
	TaxRate  decimal.Decimal
	Tax      valueobject.Money
	Total    valueobject.Money
}

// Quote is the priced result for one QuoteRequest
type Quote struct {
	Mode         FulfillmentMode
	Currency     valueobject.Currency
	AreaPerSheet decimal.Decimal
	TotalArea    decimal.Decimal
	Lines        []LineItem
	Totals       Totals
}

// Line returns the line of the given kind, if present
func (q *Quote) Line(kind LineKind) (LineItem, bool) {
	for _, l := range q.Lines {
		if l.Kind == kind {
			return l, true
		}
	}
	return LineItem{}, false
}

// Calculate validates req and prices it. Lines come out in the fixed order
// supply, installation, freight; a line absent for the mode contributes 0.
func Calculate(req QuoteRequest) (*Quote, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	currency := req.currency()
	money := func(d decimal.Decimal) valueobject.Money {
		return valueobject.MustMoney(d, currency)
	}

	areaPerSheet := req.Sheet.Width.Mul(req.Sheet.Height).Round(AreaPlaces)
	totalArea := areaPerSheet.Mul(decimal.NewFromInt(int64(req.Sheets))).Round(AreaPlaces)

	lines := make([]LineItem, 0, 3)
	subtotal := valueobject.Zero(currency)

	if req.Mode.IncludesSupply() {
		area := totalArea
		line := LineItem{
			Kind:        LineSupply,
			Quantity:    strconv.Itoa(req.Sheets),
			Description: supplyDescription(req),
			Area:        &area,
			UnitPrice:   money(req.PanelPricePerM2),
			Subtotal:    money(totalArea.Mul(req.PanelPricePerM2)).Round2(),
		}
		lines = append(lines, line)
		subtotal = subtotal.MustAdd(line.Subtotal)
	}

	if req.Mode.IncludesInstallation() {
		area := totalArea
		line := LineItem{
			Kind:        LineInstallation,
			Quantity:    NoQuantity,
			Description: "Instalación de panel aluminio",
			Area:        &area,
			UnitPrice:   money(req.InstallPricePerM2),
			Subtotal:    money(totalArea.Mul(req.InstallPricePerM2)).Round2(),
		}
		lines = append(lines, line)
		subtotal = subtotal.MustAdd(line.Subtotal)
	}

	if req.Freight.IsPositive() {
		line := LineItem{
			Kind:        LineFreight,
			Quantity:    NoQuantity,
			Description: "Flete",
			UnitPrice:   money(req.Freight),
			Subtotal:    money(req.Freight).Round2(),
		}
		lines = append(lines, line)
		subtotal = subtotal.MustAdd(line.Subtotal)
	}

	subtotal = subtotal.Round2()
	tax := subtotal.Multiply(req.TaxRate).Round2()
	total := subtotal.MustAdd(tax).Round2()

	return &Quote{
		Mode:         req.Mode,
		Currency:     currency,
		AreaPerSheet: areaPerSheet,
		TotalArea:    totalArea,
		Lines:        lines,
		Totals: Totals{
			Subtotal: subtotal,
			TaxRate:  req.TaxRate,
			Tax:      tax,
			Total:    total,
		},
	}, nil
}

// supplyDescription names the panel, leaving out a blank color
func supplyDescription(req QuoteRequest) string {
	size := fmt.Sprintf("%sx%sm", req.Sheet.Width.String(), req.Sheet.Height.String())
	if color := strings.TrimSpace(req.Color); color != "" {
		return "Panel aluminio " + color + " " + size
	}
	return "Panel aluminio " + size
}
