package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/palearn-backend/internal/platform/ctxutil"
	"github.com/yungbote/palearn-backend/internal/platform/logger"
)

// RequestLogger writes one line per request once the handler chain is done.
// 5xx logs at error, 4xx at warn, the rest at info.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		return func(c *gin.Context) { c.Next() }
	}
	log = log.With("middleware", "RequestLogger")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		ctx := c.Request.Context()
		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		kv := []any{
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"bytes", c.Writer.Size(),
		}
		if id := ctxutil.TraceID(ctx); id != "" {
			kv = append(kv, "trace_id", id)
		}
		if td := ctxutil.GetTraceData(ctx); td != nil && td.RequestID != "" {
			kv = append(kv, "request_id", td.RequestID)
		}
		if uid := ctxutil.UserID(ctx); uid != "" {
			kv = append(kv, "user_id", uid)
		}
		if len(c.Errors) > 0 {
			kv = append(kv, "errors", c.Errors.String())
		}

		logAt(log, status)("request served", kv...)
	}
}

func logAt(log *logger.Logger, status int) func(string, ...any) {
	switch {
	case status >= 500:
		return log.Error
	case status >= 400:
		return log.Warn
	default:
		return log.Info
	}
}
