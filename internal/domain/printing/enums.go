package printing

import (
	"strings"

	"github.com/gpoi/quoteservice/internal/domain/shared"
)

// PaperSize represents the paper size for printing
type PaperSize string

const (
	PaperSizeA4     PaperSize = "A4"     // 210mm x 297mm
	PaperSizeA5     PaperSize = "A5"     // 148mm x 210mm
	PaperSizeLetter PaperSize = "LETTER" // 216mm x 279mm
)

// ParsePaperSize normalizes a configured paper size name
func ParsePaperSize(s string) (PaperSize, error) {
	p := PaperSize(strings.ToUpper(strings.TrimSpace(s)))
	if p == "" {
		return PaperSizeA4, nil
	}
	if !p.IsValid() {
		return "", shared.NewDomainError("INVALID_PAPER_SIZE", "Unsupported paper size: "+s)
	}
	return p, nil
}

// IsValid checks if the PaperSize is a valid value
func (p PaperSize) IsValid() bool {
	switch p {
	case PaperSizeA4, PaperSizeA5, PaperSizeLetter:
		return true
	}
	return false
}

// String returns the string representation of PaperSize
func (p PaperSize) String() string {
	return string(p)
}

// Dimensions returns the paper dimensions in millimeters (width, height)
func (p PaperSize) Dimensions() (width, height int) {
	switch p {
	case PaperSizeA5:
		return 148, 210
	case PaperSizeLetter:
		return 216, 279
	default:
		return 210, 297
	}
}

// AllPaperSizes returns all valid PaperSize values
func AllPaperSizes() []PaperSize {
	return []PaperSize{PaperSizeA4, PaperSizeA5, PaperSizeLetter}
}

// Orientation represents the page orientation for printing
type Orientation string

const (
	OrientationPortrait  Orientation = "PORTRAIT"
	OrientationLandscape Orientation = "LANDSCAPE"
)

// ParseOrientation normalizes a configured orientation; empty means portrait
func ParseOrientation(s string) (Orientation, error) {
	o := Orientation(strings.ToUpper(strings.TrimSpace(s)))
	if o == "" {
		return OrientationPortrait, nil
	}
	if !o.IsValid() {
		return "", shared.NewDomainError("INVALID_ORIENTATION", "Unsupported orientation: "+s)
	}
	return o, nil
}

// IsValid checks if the Orientation is a valid value
func (o Orientation) IsValid() bool {
	switch o {
	case OrientationPortrait, OrientationLandscape:
		return true
	}
	return false
}

// String returns the string representation of Orientation
func (o Orientation) String() string {
	return string(o)
}
