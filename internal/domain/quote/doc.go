// Package quote implements pricing for aluminum panel quotes.
//
// A QuoteRequest describes a job: how many sheets, their size, the unit
// prices per square meter, freight and the fulfillment mode. Calculate turns
// it into a Quote holding the areas, the ordered line items and the totals.
//
// Every amount is a decimal. Areas and subtotals are rounded to two places
// at each step, so the printed figures always add up:
//
//	area per sheet = round(width × height, 2)
//	total area     = round(area per sheet × sheets, 2)
//	line subtotal  = round(total area × unit price, 2)
//	tax            = round(subtotal × rate, 2)
//	total          = round(subtotal + tax, 2)
package quote
