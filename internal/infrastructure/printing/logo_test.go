package printing

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func TestLogoLoader_DataURI(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logo.png")
	require.NoError(t, os.WriteFile(path, pngHeader, 0o644))

	loader := NewLogoLoader(path)
	uri, err := loader.DataURI()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(uri), "data:image/png;base64,"))

	// cached after the first successful read
	require.NoError(t, os.Remove(path))
	again, err := loader.DataURI()
	require.NoError(t, err)
	assert.Equal(t, uri, again)
}

func TestLogoLoader_MissingFileMeansNoLogo(t *testing.T) {
	loader := NewLogoLoader(filepath.Join(t.TempDir(), "absent.png"))
	uri, err := loader.DataURI()
	require.NoError(t, err)
	assert.Empty(t, uri)

	uri, err = NewLogoLoader("").DataURI()
	require.NoError(t, err)
	assert.Empty(t, uri)
}

func TestLogoLoader_UnreadableIsRenderError(t *testing.T) {
	// a directory cannot be read as a file
	loader := NewLogoLoader(t.TempDir())
	_, err := loader.DataURI()
	require.Error(t, err)

	var renderErr *RenderError
	require.True(t, errors.As(err, &renderErr))
	assert.Equal(t, ErrCodeAssetUnreadable, renderErr.Code)
}

func TestEncodeDataURI_SVGByExtension(t *testing.T) {
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg"></svg>`)
	uri := EncodeDataURI(svg, "logo.svg")
	assert.True(t, strings.HasPrefix(string(uri), "data:image/svg+xml;base64,"), string(uri))
}
