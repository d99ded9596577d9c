package router

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())

	assert.NotNil(t, r)
	assert.Equal(t, "/", r.basePath)
	assert.Empty(t, r.registrars)
}

func TestWithBasePath(t *testing.T) {
	tests := []struct {
		prefix string
		want   string
	}{
		{"quotes", "/quotes"},
		{"/quotes/", "/quotes"},
		{"", "/"},
	}
	for _, tt := range tests {
		r := NewRouter(gin.New(), WithBasePath(tt.prefix))
		assert.Equal(t, tt.want, r.basePath, "prefix %q", tt.prefix)
	}
}

func TestRouterSetup_RootRoutes(t *testing.T) {
	engine := gin.New()

	g := NewDomainGroup("quote", "")
	g.POST("/render", func(c *gin.Context) {
		c.String(http.StatusOK, "rendered")
	})
	g.GET("/files/:filename", func(c *gin.Context) {
		c.String(http.StatusOK, c.Param("filename"))
	})

	NewRouter(engine).Register(g).Setup()

	w := serve(engine, http.MethodPost, "/render")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "rendered", w.Body.String())

	w = serve(engine, http.MethodGet, "/files/GPO-COT_1.pdf")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "GPO-COT_1.pdf", w.Body.String())

	assert.Equal(t, http.StatusOK, serve(engine, http.MethodHead, "/files/GPO-COT_1.pdf").Code)
}

func TestRouterSetup_BasePath(t *testing.T) {
	engine := gin.New()

	g := NewDomainGroup("quote", "")
	g.POST("/calculate", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	NewRouter(engine, WithBasePath("/quotes")).Register(g).Setup()

	assert.Equal(t, http.StatusOK, serve(engine, http.MethodPost, "/quotes/calculate").Code)
	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodPost, "/calculate").Code)
}

func TestRouterSetup_Static(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logo.png"), []byte("png-bytes"), 0o644))

	engine := gin.New()
	NewRouter(engine, WithStatic("/static", dir)).Setup()

	w := serve(engine, http.MethodGet, "/static/logo.png")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "png-bytes", w.Body.String())

	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodGet, "/static/missing.png").Code)
}

func TestDomainGroup(t *testing.T) {
	t.Run("creates group with name and prefix", func(t *testing.T) {
		g := NewDomainGroup("quote", "/quote")
		assert.Equal(t, "quote", g.Name())
		assert.Equal(t, "/quote", g.Prefix())
	})

	t.Run("applies middleware and skips nil", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("test", "/test")
		g.Use(nil, func(c *gin.Context) {
			c.Header("X-Test-Middleware", "applied")
			c.Next()
		})
		g.GET("/items", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})

		g.RegisterRoutes(engine.Group("/"))

		w := serve(engine, http.MethodGet, "/test/items")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "applied", w.Header().Get("X-Test-Middleware"))
	})

	t.Run("creates subgroups", func(t *testing.T) {
		engine := gin.New()
		g := NewDomainGroup("quote", "/quote")
		g.Group("files", "/files").GET("", func(c *gin.Context) {
			c.String(http.StatusOK, "files")
		})

		g.RegisterRoutes(engine.Group("/"))

		w := serve(engine, http.MethodGet, "/quote/files")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "files", w.Body.String())
	})
}

func TestChainedMethodCalls(t *testing.T) {
	engine := gin.New()

	g := NewDomainGroup("test", "")
	g.GET("/a", func(c *gin.Context) { c.String(http.StatusOK, "a") }).
		POST("/b", func(c *gin.Context) { c.String(http.StatusOK, "b") })

	NewRouter(engine).Register(g).Setup()

	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/a").Code)
	assert.Equal(t, http.StatusOK, serve(engine, http.MethodPost, "/b").Code)
}
