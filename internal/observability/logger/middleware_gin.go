package logger

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	obscontext "github.com/velobay/freightdesk/internal/observability/context"
)

// MiddlewareConfig tunes request logging.
type MiddlewareConfig struct {
	// SkipPaths suppresses the access log line for matching routes
	// (health checks, metrics scrapes).
	SkipPaths []string
}

// GinMiddleware assigns every request an ID, propagates it through the
// request context and response header, and emits one access log line.
func GinMiddleware(cfg MiddlewareConfig) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, path := range cfg.SkipPaths {
		skip[path] = struct{}{}
	}

	return func(c *gin.Context) {
		requestID := strings.TrimSpace(c.GetHeader("X-Request-Id"))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Writer.Header().Set("X-Request-Id", requestID)

		ctx := obscontext.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)

		start := time.Now()
		c.Next()

		if _, ok := skip[c.FullPath()]; ok {
			return
		}

		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if c.Writer.Status() >= 400 {
			// Failed requests carry the full request metadata; headers
			// go through the masker so credentials never hit the log.
			fields = append(fields, zap.Any("request", SafeFieldsFromRequest(c.Request)))
		}
		FromContext(ctx).Info("http request", fields...)
	}
}
