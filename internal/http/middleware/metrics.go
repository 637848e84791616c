package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/palearn-backend/internal/observability"
)

// Metrics records in-flight count, request totals and latency per route
// template. Unmatched paths share the "unknown" label so 404 scans cannot
// grow the series set.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		m.APIInflightInc()
		start := time.Now()
		defer func() {
			m.APIInflightDec()
			route := c.FullPath()
			if route == "" {
				route = "unknown"
			}
			m.ObserveAPI(c.Request.Method, route, c.Writer.Status(), time.Since(start))
		}()
		c.Next()
	}
}
