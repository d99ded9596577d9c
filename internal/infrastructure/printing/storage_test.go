package printing

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gpoi/quoteservice/internal/domain/shared"
)

var samplePDF = []byte("%PDF-1.4\n1 0 obj << /Type /Pages >> endobj\n2 0 obj << /Type /Page >> endobj\n%%EOF")

func newTestStorage(t *testing.T, overwrite bool) *FileSystemStorage {
	t.Helper()
	storage, err := NewFileSystemStorage(&FileSystemStorageConfig{
		BasePath:  t.TempDir(),
		BaseURL:   "https://quotes.example.com/files/",
		Overwrite: overwrite,
	})
	require.NoError(t, err)
	return storage
}

func TestSanitizeFolio(t *testing.T) {
	tests := []struct {
		folio string
		want  string
	}{
		{"GPO-COT/12345", "GPO-COT_12345"},
		{`GPO\COT\1`, "GPO_COT_1"},
		{"A B:C*D?", "A_B_C_D_"},
		{"cot.v2_final", "cot.v2_final"},
		{"Señal", "Se_al"},
		{"../../etc/passwd", "_._.._etc_passwd"},
		{".hidden", "_hidden"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeFolio(tt.folio), tt.folio)
	}
	assert.Equal(t, "GPO-COT_12345.pdf", FileNameForFolio("GPO-COT/12345"))
}

func TestValidFileName(t *testing.T) {
	assert.True(t, ValidFileName("GPO-COT_12345.pdf"))
	assert.False(t, ValidFileName(""))
	assert.False(t, ValidFileName(".."))
	assert.False(t, ValidFileName("../secret.pdf"))
	assert.False(t, ValidFileName("sub/dir.pdf"))
	assert.False(t, ValidFileName(`..\x.pdf`))
	assert.False(t, ValidFileName("quote.html"))
	assert.False(t, ValidFileName(".tmp-123456.pdf"))
	assert.False(t, ValidFileName(".pdf"))
	assert.Equal(t, "_hidden.pdf", FileNameForFolio(".hidden"))
	assert.True(t, ValidFileName(FileNameForFolio(".hidden")))
}

func TestNewFileSystemStorage_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "files")

	storage, err := NewFileSystemStorage(&FileSystemStorageConfig{BasePath: dir})
	require.NoError(t, err)
	assert.Equal(t, "/files", storage.config.BaseURL)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestFileSystemStorage_StoreAndGet(t *testing.T) {
	storage := newTestStorage(t, true)
	ctx := context.Background()

	result, err := storage.Store(ctx, &StoreRequest{Folio: "GPO-COT/12345", PDFData: samplePDF})
	require.NoError(t, err)
	assert.Equal(t, "GPO-COT_12345.pdf", result.FileName)
	assert.Equal(t, "https://quotes.example.com/files/GPO-COT_12345.pdf", result.URL)
	assert.Equal(t, int64(len(samplePDF)), result.Size)

	stored, err := storage.Get(ctx, result.FileName)
	require.NoError(t, err)
	defer stored.Body.Close()

	data, err := io.ReadAll(stored.Body)
	require.NoError(t, err)
	assert.Equal(t, samplePDF, data)
	assert.Equal(t, int64(len(samplePDF)), stored.Size)

	// no temp files left behind
	entries, err := os.ReadDir(storage.BasePath())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileSystemStorage_StoreValidation(t *testing.T) {
	storage := newTestStorage(t, true)
	ctx := context.Background()

	_, err := storage.Store(ctx, nil)
	assert.Error(t, err)

	_, err = storage.Store(ctx, &StoreRequest{Folio: " ", PDFData: samplePDF})
	assert.Error(t, err)

	_, err = storage.Store(ctx, &StoreRequest{Folio: "X", PDFData: nil})
	assert.Error(t, err)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = storage.Store(cancelled, &StoreRequest{Folio: "X", PDFData: samplePDF})
	assert.Error(t, err)
}

func TestFileSystemStorage_OverwritePolicy(t *testing.T) {
	ctx := context.Background()

	t.Run("last writer wins", func(t *testing.T) {
		storage := newTestStorage(t, true)
		_, err := storage.Store(ctx, &StoreRequest{Folio: "F/1", PDFData: []byte("first")})
		require.NoError(t, err)
		_, err = storage.Store(ctx, &StoreRequest{Folio: "F/1", PDFData: []byte("second")})
		require.NoError(t, err)

		data, err := os.ReadFile(filepath.Join(storage.BasePath(), "F_1.pdf"))
		require.NoError(t, err)
		assert.Equal(t, "second", string(data))
	})

	t.Run("conflict when overwrite disabled", func(t *testing.T) {
		storage := newTestStorage(t, false)
		_, err := storage.Store(ctx, &StoreRequest{Folio: "F/1", PDFData: []byte("first")})
		require.NoError(t, err)

		_, err = storage.Store(ctx, &StoreRequest{Folio: "F/1", PDFData: []byte("second")})
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrConflict))

		data, err := os.ReadFile(filepath.Join(storage.BasePath(), "F_1.pdf"))
		require.NoError(t, err)
		assert.Equal(t, "first", string(data))
	})
}

func TestFileSystemStorage_ConcurrentSameFolio(t *testing.T) {
	storage := newTestStorage(t, true)
	ctx := context.Background()

	payloads := [][]byte{[]byte("aaaaaaaa"), []byte("bbbbbbbb"), []byte("cccccccc")}
	var wg sync.WaitGroup
	for _, p := range payloads {
		wg.Add(1)
		go func(data []byte) {
			defer wg.Done()
			_, err := storage.Store(ctx, &StoreRequest{Folio: "SAME", PDFData: data})
			assert.NoError(t, err)
		}(p)
	}
	wg.Wait()

	data, err := os.ReadFile(filepath.Join(storage.BasePath(), "SAME.pdf"))
	require.NoError(t, err)
	assert.Contains(t, payloads, data)
}

func TestFileSystemStorage_GetNotFound(t *testing.T) {
	storage := newTestStorage(t, true)
	ctx := context.Background()

	for _, name := range []string{"never.pdf", "../etc/passwd", "/etc/passwd", "a/b.pdf", ""} {
		_, err := storage.Get(ctx, name)
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, shared.ErrNotFound), name)
	}
}

func TestFileSystemStorage_GetSkipsTempFiles(t *testing.T) {
	storage := newTestStorage(t, true)

	tmpName := ".tmp-123456.pdf"
	require.NoError(t, os.WriteFile(filepath.Join(storage.config.BasePath, tmpName), samplePDF[:8], 0644))

	_, err := storage.Get(context.Background(), tmpName)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrNotFound))
}

func TestFileSystemStorage_CleanupOlderThan(t *testing.T) {
	storage := newTestStorage(t, true)
	ctx := context.Background()

	_, err := storage.Store(ctx, &StoreRequest{Folio: "OLD", PDFData: samplePDF})
	require.NoError(t, err)
	_, err = storage.Store(ctx, &StoreRequest{Folio: "NEW", PDFData: samplePDF})
	require.NoError(t, err)

	past := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(storage.BasePath(), "OLD.pdf"), past, past))
	require.NoError(t, os.WriteFile(filepath.Join(storage.BasePath(), "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Chtimes(filepath.Join(storage.BasePath(), "notes.txt"), past, past))

	deleted, err := storage.CleanupOlderThan(ctx, 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	_, err = os.Stat(filepath.Join(storage.BasePath(), "NEW.pdf"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(storage.BasePath(), "notes.txt"))
	assert.NoError(t, err)
}
