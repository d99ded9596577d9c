package printing

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gpoi/quoteservice/internal/domain/printing"
	"github.com/gpoi/quoteservice/internal/domain/shared"
)

func TestNewTemplateStore_Embedded(t *testing.T) {
	store, err := NewTemplateStore(nil)
	require.NoError(t, err)

	tmpl, err := store.Quote()
	require.NoError(t, err)
	assert.Equal(t, QuoteTemplateName, tmpl.Name)
	assert.Equal(t, "embedded", tmpl.Source)
	assert.Equal(t, printing.PaperSizeA4, tmpl.PaperSize)
	assert.Contains(t, tmpl.Content, "{{.Folio}}")
	assert.NotEmpty(t, tmpl.ID)
}

func TestTemplateStore_ExternalDirOverrides(t *testing.T) {
	dir := t.TempDir()
	custom := `<html><body>{{.ClientName}}</body></html>`
	require.NoError(t, os.WriteFile(filepath.Join(dir, QuoteTemplateName), []byte(custom), 0o644))

	store, err := NewTemplateStore(&TemplateStoreConfig{ExternalDir: dir})
	require.NoError(t, err)

	tmpl, err := store.Quote()
	require.NoError(t, err)
	assert.Equal(t, custom, tmpl.Content)
	assert.Equal(t, filepath.Join(dir, QuoteTemplateName), tmpl.Source)
}

func TestTemplateStore_ExternalDirFallsBack(t *testing.T) {
	store, err := NewTemplateStore(&TemplateStoreConfig{ExternalDir: t.TempDir()})
	require.NoError(t, err)

	tmpl, err := store.Quote()
	require.NoError(t, err)
	assert.Equal(t, "embedded", tmpl.Source)
}

func TestTemplateStore_PinnedFileMissing(t *testing.T) {
	_, err := NewTemplateStore(&TemplateStoreConfig{
		TemplateFile: filepath.Join(t.TempDir(), "nope.html"),
	})
	require.Error(t, err)

	var renderErr *RenderError
	require.True(t, errors.As(err, &renderErr))
	assert.Equal(t, ErrCodeTemplateNotFound, renderErr.Code)
	assert.True(t, errors.Is(err, shared.ErrRender))
}

func TestTemplateStore_PinnedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mine.html")
	require.NoError(t, os.WriteFile(path, []byte("<p>{{.Folio}}</p>"), 0o644))

	store, err := NewTemplateStore(&TemplateStoreConfig{TemplateFile: path})
	require.NoError(t, err)

	tmpl, err := store.Quote()
	require.NoError(t, err)
	assert.Equal(t, "<p>{{.Folio}}</p>", tmpl.Content)
}

func TestTemplateStore_GetUnknown(t *testing.T) {
	store, err := NewTemplateStore(nil)
	require.NoError(t, err)

	_, err = store.Get("invoice.html")
	var renderErr *RenderError
	require.True(t, errors.As(err, &renderErr))
	assert.Equal(t, ErrCodeTemplateNotFound, renderErr.Code)
}

func TestTemplateStore_Reload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, QuoteTemplateName)
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o644))

	store, err := NewTemplateStore(&TemplateStoreConfig{ExternalDir: dir})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("v2"), 0o644))
	require.NoError(t, store.Reload())

	tmpl, err := store.Quote()
	require.NoError(t, err)
	assert.Equal(t, "v2", tmpl.Content)
}

func TestGenerateTemplateID_Stable(t *testing.T) {
	assert.Equal(t, generateTemplateID("a", "embedded"), generateTemplateID("a", "embedded"))
	assert.NotEqual(t, generateTemplateID("a", "embedded"), generateTemplateID("a", "/tmp/a"))
}
