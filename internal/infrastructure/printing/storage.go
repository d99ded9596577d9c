package printing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/gpoi/quoteservice/internal/domain/shared"
)

// PDFStorage stores rendered quotes under a name derived from the folio
type PDFStorage interface {
	// Store saves a PDF and returns its file name and URL
	Store(ctx context.Context, req *StoreRequest) (*StoreResult, error)
	// Get opens a stored PDF by file name
	Get(ctx context.Context, fileName string) (*StoredPDF, error)
	// CleanupOlderThan removes PDFs older than the given age
	CleanupOlderThan(ctx context.Context, age time.Duration) (int, error)
	// GetURL returns the public URL for a stored PDF
	GetURL(fileName string) string
}

// StoreRequest contains the parameters for storing a PDF
type StoreRequest struct {
	// Folio names the file; see SanitizeFolio
	Folio   string
	PDFData []byte
}

// StoreResult contains the result of storing a PDF
type StoreResult struct {
	FileName string
	URL      string
	Size     int64
}

// StoredPDF is an open stored PDF. Callers must close Body.
type StoredPDF struct {
	FileName string
	Body     io.ReadCloser
	Size     int64
	ModTime  time.Time
}

// Storage error codes
const (
	ErrCodeStorageFailed = "STORAGE_FAILED"
)

// StorageError represents a storage failure. Code is ErrCodeStorageFailed
// or one of shared.CodeNotFound / shared.CodeConflict.
type StorageError struct {
	Code    string
	Message string
	Cause   error
}

func (e *StorageError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

// DomainCode implements shared.Coded
func (e *StorageError) DomainCode() string {
	return e.Code
}

// Is matches the shared sentinel with the same code
func (e *StorageError) Is(target error) bool {
	return shared.CodeOf(target) == e.Code
}

// NewStorageError creates a new StorageError
func NewStorageError(code, message string, cause error) *StorageError {
	return &StorageError{Code: code, Message: message, Cause: cause}
}

// SanitizeFolio maps a folio to a file base name: every rune outside
// [A-Za-z0-9._-] becomes '_'. "GPO-COT/12345" -> "GPO-COT_12345".
// A leading '.' also becomes '_' so no quote lands in a hidden file.
func SanitizeFolio(folio string) string {
	if strings.HasPrefix(folio, ".") {
		folio = "_" + folio[1:]
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, folio)
}

// FileNameForFolio returns the stored PDF name for a folio
func FileNameForFolio(folio string) string {
	return SanitizeFolio(folio) + ".pdf"
}

// ValidFileName reports whether name is a plain stored-PDF name: a single
// path component made only of sanitized runes and ending in .pdf. Dot
// files, the in-progress temp files among them, are never valid.
func ValidFileName(name string) bool {
	if name == "" || strings.HasPrefix(name, ".") || containsDotDot(name) {
		return false
	}
	if !strings.HasSuffix(name, ".pdf") {
		return false
	}
	return SanitizeFolio(name) == name
}

// FileSystemStorageConfig contains configuration for file system storage
type FileSystemStorageConfig struct {
	// BasePath is the output directory, created if absent.
	// Default: ./files
	BasePath string
	// BaseURL is the URL prefix for stored PDFs.
	// Example: https://quotes.example.com/files
	BaseURL string
	// Overwrite lets a new PDF replace an existing one with the same name.
	// When false, a name collision is a CONFLICT error.
	Overwrite bool
	// Logger for operations
	Logger *zap.Logger
}

// FileSystemStorage stores PDFs in one flat local directory
type FileSystemStorage struct {
	config *FileSystemStorageConfig
	logger *zap.Logger
}

// NewFileSystemStorage creates a new file system based PDF storage
func NewFileSystemStorage(config *FileSystemStorageConfig) (*FileSystemStorage, error) {
	if config == nil {
		config = &FileSystemStorageConfig{Overwrite: true}
	}
	if config.BasePath == "" {
		config.BasePath = "files"
	}
	if config.BaseURL == "" {
		config.BaseURL = "/files"
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	if err := os.MkdirAll(config.BasePath, 0755); err != nil {
		return nil, NewStorageError(ErrCodeStorageFailed,
			fmt.Sprintf("failed to create storage directory: %s", config.BasePath), err)
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &FileSystemStorage{
		config: config,
		logger: logger,
	}, nil
}

// BasePath returns the output directory
func (s *FileSystemStorage) BasePath() string {
	return s.config.BasePath
}

// Store writes the PDF to a temp file in the output directory and renames
// it into place, so readers never see a partial file.
func (s *FileSystemStorage) Store(ctx context.Context, req *StoreRequest) (*StoreResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewStorageError(ErrCodeStorageFailed, "operation cancelled", err)
	}
	if req == nil {
		return nil, NewStorageError(ErrCodeStorageFailed, "store request is nil", nil)
	}
	if strings.TrimSpace(req.Folio) == "" {
		return nil, NewStorageError(ErrCodeStorageFailed, "folio is required", nil)
	}
	if len(req.PDFData) == 0 {
		return nil, NewStorageError(ErrCodeStorageFailed, "PDF data is empty", nil)
	}

	fileName := FileNameForFolio(req.Folio)
	filePath := filepath.Join(s.config.BasePath, fileName)

	tmp, err := os.CreateTemp(s.config.BasePath, ".tmp-*.pdf")
	if err != nil {
		return nil, NewStorageError(ErrCodeStorageFailed, "failed to create temp file", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(req.PDFData); err != nil {
		tmp.Close()
		return nil, NewStorageError(ErrCodeStorageFailed, "failed to write PDF file", err)
	}
	if err := tmp.Close(); err != nil {
		return nil, NewStorageError(ErrCodeStorageFailed, "failed to write PDF file", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return nil, NewStorageError(ErrCodeStorageFailed, "failed to set PDF permissions", err)
	}

	if s.config.Overwrite {
		err = os.Rename(tmpPath, filePath)
	} else {
		// Link fails with ErrExist instead of replacing the target.
		err = os.Link(tmpPath, filePath)
	}
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, NewStorageError(shared.CodeConflict, "a PDF named "+fileName+" already exists", err)
		}
		return nil, NewStorageError(ErrCodeStorageFailed, "failed to move PDF into place", err)
	}

	url := s.GetURL(fileName)

	s.logger.Info("PDF stored",
		zap.String("path", filePath),
		zap.Int("size", len(req.PDFData)),
		zap.String("url", url))

	return &StoreResult{
		FileName: fileName,
		URL:      url,
		Size:     int64(len(req.PDFData)),
	}, nil
}

// Get opens a stored PDF. Unknown and malformed names are both NOT_FOUND.
func (s *FileSystemStorage) Get(ctx context.Context, fileName string) (*StoredPDF, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewStorageError(ErrCodeStorageFailed, "operation cancelled", err)
	}

	fullPath, err := s.resolve(fileName)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewStorageError(shared.CodeNotFound, "PDF "+fileName+" not found", err)
		}
		return nil, NewStorageError(ErrCodeStorageFailed, "failed to open PDF file", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, NewStorageError(ErrCodeStorageFailed, "failed to stat PDF file", err)
	}
	if info.IsDir() {
		file.Close()
		return nil, NewStorageError(shared.CodeNotFound, "PDF "+fileName+" not found", nil)
	}

	return &StoredPDF{
		FileName: fileName,
		Body:     file,
		Size:     info.Size(),
		ModTime:  info.ModTime(),
	}, nil
}

// resolve maps a file name to a path inside BasePath
func (s *FileSystemStorage) resolve(fileName string) (string, error) {
	if !ValidFileName(fileName) {
		s.logger.Warn("blocked invalid PDF name", zap.String("file", fileName))
		return "", NewStorageError(shared.CodeNotFound, "PDF "+fileName+" not found", nil)
	}

	fullPath := filepath.Join(s.config.BasePath, fileName)

	absBase, err := filepath.Abs(s.config.BasePath)
	if err != nil {
		return "", NewStorageError(ErrCodeStorageFailed, "failed to resolve base path", err)
	}
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return "", NewStorageError(ErrCodeStorageFailed, "failed to resolve file path", err)
	}
	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) {
		s.logger.Warn("path escape attempt blocked",
			zap.String("file", fileName),
			zap.String("absPath", absPath),
			zap.String("absBase", absBase))
		return "", NewStorageError(shared.CodeNotFound, "PDF "+fileName+" not found", nil)
	}
	return fullPath, nil
}

// CleanupOlderThan removes PDFs (and abandoned temp files) older than age
func (s *FileSystemStorage) CleanupOlderThan(ctx context.Context, age time.Duration) (int, error) {
	cutoff := time.Now().Add(-age)

	entries, err := os.ReadDir(s.config.BasePath)
	if err != nil {
		return 0, NewStorageError(ErrCodeStorageFailed, "failed to list storage directory", err)
	}

	deleted := 0
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			break
		}
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".pdf" {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(s.config.BasePath, entry.Name())); err == nil {
				deleted++
				s.logger.Debug("deleted old PDF", zap.String("file", entry.Name()))
			}
		}
	}

	s.logger.Info("cleanup completed",
		zap.Int("deleted", deleted),
		zap.Duration("age", age))

	return deleted, nil
}

// GetURL returns the public URL for a stored PDF
func (s *FileSystemStorage) GetURL(fileName string) string {
	return s.config.BaseURL + "/" + url.PathEscape(fileName)
}

// containsDotDot checks if a path contains ".." components
func containsDotDot(path string) bool {
	parts := strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == '\\'
	})
	for _, p := range parts {
		if p == ".." {
			return true
		}
	}
	return false
}

var _ PDFStorage = (*FileSystemStorage)(nil)
