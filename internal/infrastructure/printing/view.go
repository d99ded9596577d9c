package printing

import (
	"html/template"

	"github.com/shopspring/decimal"

	"github.com/gpoi/quoteservice/internal/domain/shared/valueobject"
)

// QuoteView is the only data the quote template sees. Every field is a
// plain value; html/template escapes them on output.
type QuoteView struct {
	Folio        string
	Date         string
	ClientName   string
	Location     string
	Color        string
	ModeLabel    string
	Currency     string
	CompanyName  string
	LogoURI      template.URL
	AreaPerSheet decimal.Decimal
	TotalArea    decimal.Decimal
	Lines        []QuoteLineView
	Subtotal     valueobject.Money
	TaxRate      decimal.Decimal
	Tax          valueobject.Money
	Total        valueobject.Money
}

// QuoteLineView is one row of the items table
type QuoteLineView struct {
	Quantity    string
	Description string
	// Area is nil for rows printed with "-" in the area column
	Area      *decimal.Decimal
	UnitPrice valueobject.Money
	Subtotal  valueobject.Money
}
