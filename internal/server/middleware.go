package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nhle/study-dashboard/internal/auth"
)

const (
	requestIDKey = "requestID"
	bootstrapKey = "bootstrap"
)

// RequestLogger logs one line per request, tagged with a request ID.
func RequestLogger(log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.New().String()
		c.Set(requestIDKey, requestID)
		c.Header("X-Request-ID", requestID)

		c.Next()

		log.Infow("request",
			"requestID", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"clientIP", c.ClientIP(),
			"latency", time.Since(start).String(),
		)
	}
}

// Bootstrap resolves the session cookie once per request and stores the
// result for handlers to read with BootstrapResult.
func Bootstrap(b *auth.Bootstrapper, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, _ := c.Cookie(cookieName)
		c.Set(bootstrapKey, b.Resolve(c.Request.Context(), cookie))
		c.Next()
	}
}

// BootstrapResult returns the result stored by Bootstrap, or an
// unauthenticated result when the middleware did not run.
func BootstrapResult(c *gin.Context) auth.BootstrapResult {
	if v, ok := c.Get(bootstrapKey); ok {
		if res, ok := v.(auth.BootstrapResult); ok {
			return res
		}
	}
	return auth.BootstrapResult{Status: auth.Unauthenticated}
}
