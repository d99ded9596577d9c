package printing

import (
	"encoding/base64"
	"errors"
	"html/template"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// LogoLoader reads the company logo and serves it as a data URI so the
// document needs no file access at conversion time.
type LogoLoader struct {
	path string

	mu     sync.Mutex
	cached template.URL
	loaded bool
}

// NewLogoLoader creates a loader for the image at path. An empty path
// means the quote is printed without a logo.
func NewLogoLoader(path string) *LogoLoader {
	return &LogoLoader{path: path}
}

// Path returns the configured logo path
func (l *LogoLoader) Path() string {
	return l.path
}

// DataURI returns the logo as data:<mime>;base64,... with the MIME type
// sniffed from the content. A missing file yields "" and no error; any
// other read failure is an ASSET_UNREADABLE render error. Successful reads
// are cached; misses are retried on the next call.
func (l *LogoLoader) DataURI() (template.URL, error) {
	if l.path == "" {
		return "", nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.loaded {
		return l.cached, nil
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", NewRenderError(ErrCodeAssetUnreadable, "logo "+l.path+" cannot be read", err)
	}
	if len(data) == 0 {
		return "", nil
	}

	l.cached = EncodeDataURI(data, l.path)
	l.loaded = true
	return l.cached, nil
}

// EncodeDataURI wraps raw bytes in a base64 data URI. The MIME type is
// sniffed; formats the sniffer does not know as images (SVG) fall back to
// the file name's extension.
func EncodeDataURI(data []byte, name string) template.URL {
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		if byExt := mime.TypeByExtension(filepath.Ext(name)); byExt != "" {
			contentType = byExt
		}
	}
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	return template.URL("data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data))
}
