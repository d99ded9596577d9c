package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/httprate"

	"github.com/gpoi/quoteservice/internal/interfaces/http/dto"
)

// RateLimitConfig holds the per-client request budget
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

// RateLimit limits each client IP to cfg.Requests per cfg.Window. The
// X-RateLimit-* headers are set on every response.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	limiter := httprate.Limit(cfg.Requests, cfg.Window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(dto.NewCodedErrorResponse(
				dto.ErrCodeRateLimited,
				"too many requests",
				w.Header().Get(RequestIDHeader),
			))
		}),
	)
	return WrapHTTP(limiter)
}

// WrapHTTP adapts a net/http middleware to gin. The request is aborted when
// the wrapped middleware does not call its next handler.
func WrapHTTP(mw func(http.Handler) http.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		passed := false
		next := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			passed = true
			c.Request = r
		})

		mw(next).ServeHTTP(c.Writer, c.Request)

		if !passed {
			c.Abort()
			return
		}
		c.Next()
	}
}
