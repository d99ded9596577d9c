package printing

import (
	"embed"
	"fmt"

	"github.com/gpoi/quoteservice/internal/domain/printing"
)

//go:embed templates/*.html
var templateFS embed.FS

// QuoteTemplateName is the file name of the quote document template
const QuoteTemplateName = "quote_a4.html"

// DefaultTemplate describes an embedded template and its page setup
type DefaultTemplate struct {
	Name        string
	Description string
	PaperSize   printing.PaperSize
	Orientation printing.Orientation
	Margins     printing.Margins
	FilePath    string // Path within embed.FS
}

// GetDefaultTemplates returns all embedded template configurations
func GetDefaultTemplates() []DefaultTemplate {
	return []DefaultTemplate{
		{
			Name:        QuoteTemplateName,
			Description: "Cotización de panel de aluminio, A4 vertical",
			PaperSize:   printing.PaperSizeA4,
			Orientation: printing.OrientationPortrait,
			Margins:     printing.DefaultMargins(),
			FilePath:    "templates/" + QuoteTemplateName,
		},
	}
}

// LoadTemplateContent loads the HTML content for an embedded template
func LoadTemplateContent(filePath string) (string, error) {
	content, err := templateFS.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read template file %s: %w", filePath, err)
	}
	return string(content), nil
}

// GetDefaultTemplate finds an embedded template configuration by name
func GetDefaultTemplate(name string) *DefaultTemplate {
	for _, t := range GetDefaultTemplates() {
		if t.Name == name {
			return &t
		}
	}
	return nil
}
