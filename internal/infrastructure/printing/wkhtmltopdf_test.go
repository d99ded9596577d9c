package printing

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gpoi/quoteservice/internal/domain/printing"
)

func TestNewWkhtmltopdfRenderer_BinaryNotFound(t *testing.T) {
	_, err := NewWkhtmltopdfRenderer(&WkhtmltopdfConfig{
		BinaryPath: filepath.Join(t.TempDir(), "missing-wkhtmltopdf"),
	})
	require.Error(t, err)

	var convErr *ConversionError
	require.True(t, errors.As(err, &convErr))
	assert.Equal(t, ErrCodeBinaryNotFound, convErr.Code)
}

func TestWkhtmltopdfRenderer_BuildArgs(t *testing.T) {
	r := &WkhtmltopdfRenderer{config: &WkhtmltopdfConfig{DPI: 96}}

	args := r.buildArgs(&RenderRequest{
		HTML:        "<p>x</p>",
		PaperSize:   printing.PaperSizeLetter,
		Orientation: printing.OrientationLandscape,
		Margins:     printing.Margins{Top: 10, Right: 11, Bottom: 12, Left: 13},
		Title:       "GPO-COT/1",
	}, "/tmp/in.html", "/tmp/out.pdf")

	assert.Contains(t, args, "--disable-javascript")
	assert.Contains(t, args, "--disable-local-file-access")
	assertArgPair(t, args, "--page-size", "Letter")
	assertArgPair(t, args, "--orientation", "Landscape")
	assertArgPair(t, args, "--margin-top", "10mm")
	assertArgPair(t, args, "--margin-left", "13mm")
	assertArgPair(t, args, "--title", "GPO-COT/1")
	assertArgPair(t, args, "--dpi", "96")

	require.GreaterOrEqual(t, len(args), 2)
	assert.Equal(t, "/tmp/in.html", args[len(args)-2])
	assert.Equal(t, "/tmp/out.pdf", args[len(args)-1])
}

func TestPageSizeArgs_Defaults(t *testing.T) {
	assert.Equal(t, []string{"--page-size", "A4", "--orientation", "Portrait"},
		pageSizeArgs(printing.PaperSizeA4, ""))
	assert.Equal(t, []string{"--page-size", "A5", "--orientation", "Portrait"},
		pageSizeArgs(printing.PaperSizeA5, printing.OrientationPortrait))
}

func assertArgPair(t *testing.T, args []string, flag, value string) {
	t.Helper()
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			assert.Equal(t, value, args[i+1], flag)
			return
		}
	}
	t.Errorf("flag %s not found in %v", flag, args)
}
