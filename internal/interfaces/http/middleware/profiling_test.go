package middleware

import (
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestProfiling(t *testing.T) {
	var route, method string
	var labelled bool

	router := gin.New()
	router.Use(Profiling(ProfilingConfig{Enabled: true, SkipPaths: []string{"/health"}}))
	handler := func(c *gin.Context) {
		route, labelled = pprof.Label(c.Request.Context(), ProfilingLabelRoute)
		method, _ = pprof.Label(c.Request.Context(), ProfilingLabelMethod)
		c.Status(http.StatusOK)
	}
	router.GET("/files/:filename", handler)
	router.GET("/health", handler)

	t.Run("labels matched routes with the pattern", func(t *testing.T) {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/files/GPO-COT_1.pdf", nil))

		assert.True(t, labelled)
		assert.Equal(t, "/files/:filename", route)
		assert.Equal(t, http.MethodGet, method)
	})

	t.Run("skipped routes carry no labels", func(t *testing.T) {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.False(t, labelled)
	})
}

func TestProfiling_Disabled(t *testing.T) {
	var labelled bool

	router := gin.New()
	router.Use(Profiling(ProfilingConfig{Enabled: false}))
	router.POST("/render", func(c *gin.Context) {
		_, labelled = pprof.Label(c.Request.Context(), ProfilingLabelRoute)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/render", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, labelled)
}
