package quote

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gpoi/quoteservice/internal/domain/shared"
	"github.com/gpoi/quoteservice/internal/domain/shared/valueobject"
)

// DateLayout is the ISO date format accepted for the quote date
const DateLayout = "2006-01-02"

// DefaultTaxRate is the IVA rate applied when the caller omits one
var DefaultTaxRate = decimal.RequireFromString("0.16")

// SheetSize is the size of one panel sheet in meters
type SheetSize struct {
	Width  decimal.Decimal
	Height decimal.Decimal
}

// QuoteRequest carries everything needed to price and print one quote
type QuoteRequest struct {
	ClientName        string
	Location          string
	Color             string
	Mode              FulfillmentMode
	Sheets            int
	Sheet             SheetSize
	PanelPricePerM2   decimal.Decimal
	InstallPricePerM2 decimal.Decimal
	Freight           decimal.Decimal
	TaxRate           decimal.Decimal
	Currency          valueobject.Currency
	Folio             string
	Date              string
}

// Validate checks field ranges. It returns the first problem found as a
// VALIDATION_ERROR domain error.
func (r QuoteRequest) Validate() error {
	if strings.TrimSpace(r.ClientName) == "" {
		return shared.NewValidationError("client name is required")
	}
	if !r.Mode.IsValid() {
		return shared.NewValidationError("unknown fulfillment mode: " + string(r.Mode))
	}
	if r.Sheets < 0 {
		return shared.NewValidationError("sheet count must not be negative")
	}
	if !r.Sheet.Width.IsPositive() {
		return shared.NewValidationError("sheet width must be positive")
	}
	if !r.Sheet.Height.IsPositive() {
		return shared.NewValidationError("sheet height must be positive")
	}
	if r.PanelPricePerM2.IsNegative() {
		return shared.NewValidationError("panel price per m2 must not be negative")
	}
	if r.InstallPricePerM2.IsNegative() {
		return shared.NewValidationError("installation price per m2 must not be negative")
	}
	if r.Freight.IsNegative() {
		return shared.NewValidationError("freight must not be negative")
	}
	if r.TaxRate.IsNegative() || r.TaxRate.GreaterThan(decimal.NewFromInt(1)) {
		return shared.NewValidationError("tax rate must be between 0 and 1")
	}
	if r.Currency != "" && !r.Currency.IsValid() {
		return shared.NewValidationError("invalid currency code: " + string(r.Currency))
	}
	if r.Date != "" {
		if _, err := time.Parse(DateLayout, r.Date); err != nil {
			return shared.NewValidationError("date must be an ISO date (YYYY-MM-DD): " + r.Date)
		}
	}
	return nil
}

// currency returns the request currency or the default one
func (r QuoteRequest) currency() valueobject.Currency {
	if r.Currency == "" {
		return valueobject.DefaultCurrency
	}
	return r.Currency
}
