package printing

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/gpoi/quoteservice/internal/domain/printing"
)

// TemplateStore manages the quote document templates.
// It supports loading from an external directory (for customization)
// with fallback to embedded templates.
type TemplateStore struct {
	externalDir  string
	templateFile string
	templates    map[string]StaticTemplate
	mu           sync.RWMutex
}

// StaticTemplate is a loaded template with its page setup
type StaticTemplate struct {
	ID          string // Stable ID derived from name and content source
	Name        string
	Source      string // "embedded" or the external file path
	PaperSize   printing.PaperSize
	Orientation printing.Orientation
	Margins     printing.Margins
	Content     string
}

// TemplateStoreConfig configures the template store
type TemplateStoreConfig struct {
	// ExternalDir is searched first for each template name.
	// Missing files fall back to the embedded copy.
	ExternalDir string
	// TemplateFile pins the quote template to a specific file. Unlike
	// ExternalDir there is no fallback: the file must exist.
	TemplateFile string
}

// NewTemplateStore creates a new template store and loads every template
func NewTemplateStore(config *TemplateStoreConfig) (*TemplateStore, error) {
	store := &TemplateStore{}
	if config != nil {
		store.externalDir = config.ExternalDir
		store.templateFile = config.TemplateFile
	}

	if err := store.loadTemplates(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *TemplateStore) loadTemplates() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	defaults := GetDefaultTemplates()
	templates := make(map[string]StaticTemplate, len(defaults))

	for _, dt := range defaults {
		content, source, err := s.loadTemplateContent(dt)
		if err != nil {
			return err
		}
		templates[dt.Name] = StaticTemplate{
			ID:          generateTemplateID(dt.Name, source),
			Name:        dt.Name,
			Source:      source,
			PaperSize:   dt.PaperSize,
			Orientation: dt.Orientation,
			Margins:     dt.Margins,
			Content:     content,
		}
	}

	s.templates = templates
	return nil
}

// loadTemplateContent resolves a template: pinned file, then external dir,
// then the embedded copy.
func (s *TemplateStore) loadTemplateContent(dt DefaultTemplate) (content, source string, err error) {
	if s.templateFile != "" && dt.Name == QuoteTemplateName {
		data, err := os.ReadFile(s.templateFile)
		if err != nil {
			return "", "", NewRenderError(ErrCodeTemplateNotFound,
				fmt.Sprintf("template file %s cannot be read", s.templateFile), err)
		}
		return string(data), s.templateFile, nil
	}

	if s.externalDir != "" {
		externalPath := filepath.Join(s.externalDir, dt.Name)
		data, err := os.ReadFile(externalPath)
		if err == nil {
			return string(data), externalPath, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", "", NewRenderError(ErrCodeTemplateNotFound,
				fmt.Sprintf("template file %s cannot be read", externalPath), err)
		}
	}

	embedded, err := LoadTemplateContent(dt.FilePath)
	if err != nil {
		return "", "", NewRenderError(ErrCodeTemplateNotFound, "template "+dt.Name+" not found", err)
	}
	return embedded, "embedded", nil
}

// Get returns the template with the given name
func (s *TemplateStore) Get(name string) (*StaticTemplate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.templates[name]
	if !ok {
		return nil, NewRenderError(ErrCodeTemplateNotFound, "template "+name+" not found", nil)
	}
	return &t, nil
}

// Quote returns the quote document template
func (s *TemplateStore) Quote() (*StaticTemplate, error) {
	return s.Get(QuoteTemplateName)
}

// Reload reloads all templates from disk/embedded. On failure the
// previously loaded set stays in place.
func (s *TemplateStore) Reload() error {
	return s.loadTemplates()
}

// generateTemplateID generates a stable UUID v5 from the template name and source
func generateTemplateID(name, source string) string {
	namespace := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8") // URL namespace
	return uuid.NewSHA1(namespace, []byte("quote-template:"+name+":"+source)).String()
}
