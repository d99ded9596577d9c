package quote

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/gpoi/quoteservice/internal/domain/shared"
)

// FulfillmentMode selects which line items a quote carries
type FulfillmentMode string

const (
	ModeSupplyOnly       FulfillmentMode = "supply-only"
	ModeInstallOnly      FulfillmentMode = "install-only"
	ModeSupplyAndInstall FulfillmentMode = "supply-and-install"
)

// AllFulfillmentModes returns all valid modes
func AllFulfillmentModes() []FulfillmentMode {
	return []FulfillmentMode{
		ModeSupplyOnly,
		ModeInstallOnly,
		ModeSupplyAndInstall,
	}
}

// modeAliases maps normalized spellings (lower case, no accents, single
// hyphens) to the canonical mode.
var modeAliases = map[string]FulfillmentMode{
	"supply-only":              ModeSupplyOnly,
	"supply":                   ModeSupplyOnly,
	"suministro":               ModeSupplyOnly,
	"solo-suministro":          ModeSupplyOnly,
	"install-only":             ModeInstallOnly,
	"install":                  ModeInstallOnly,
	"instalacion":              ModeInstallOnly,
	"solo-instalacion":         ModeInstallOnly,
	"supply-and-install":       ModeSupplyAndInstall,
	"suministro-e-instalacion": ModeSupplyAndInstall,
	"suministro-y-instalacion": ModeSupplyAndInstall,
}

// ParseFulfillmentMode accepts the canonical names and the Spanish aliases,
// ignoring case, accents and the choice of space, underscore or hyphen.
func ParseFulfillmentMode(s string) (FulfillmentMode, error) {
	key := normalizeModeKey(s)
	if mode, ok := modeAliases[key]; ok {
		return mode, nil
	}
	return "", shared.NewValidationError("unknown fulfillment mode: " + s)
}

func normalizeModeKey(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	folded = strings.ToLower(strings.TrimSpace(folded))
	fields := strings.FieldsFunc(folded, func(r rune) bool {
		return r == ' ' || r == '_' || r == '-'
	})
	return strings.Join(fields, "-")
}

// IsValid checks if the mode is one of the canonical values
func (m FulfillmentMode) IsValid() bool {
	switch m {
	case ModeSupplyOnly, ModeInstallOnly, ModeSupplyAndInstall:
		return true
	}
	return false
}

// String returns the string representation
func (m FulfillmentMode) String() string {
	return string(m)
}

// IncludesSupply reports whether the panel supply line is priced
func (m FulfillmentMode) IncludesSupply() bool {
	return m == ModeSupplyOnly || m == ModeSupplyAndInstall
}

// IncludesInstallation reports whether the installation line is priced
func (m FulfillmentMode) IncludesInstallation() bool {
	return m == ModeInstallOnly || m == ModeSupplyAndInstall
}

// DisplayName returns the label printed on the quote
func (m FulfillmentMode) DisplayName() string {
	switch m {
	case ModeSupplyOnly:
		return "Suministro"
	case ModeInstallOnly:
		return "Instalación"
	case ModeSupplyAndInstall:
		return "Suministro e instalación"
	default:
		return string(m)
	}
}
