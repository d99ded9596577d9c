// Package printing holds the page setup value objects shared by the quote
// document renderers: paper size, orientation and margins.
package printing
