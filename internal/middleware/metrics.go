package middleware

import (
	"time"

	"github.com/2025XRRPKOREA/api-server/pkg/metrics"
	"github.com/gin-gonic/gin"
)

// MetricsMiddleware records request counts and latencies per route. The
// route template is used rather than the raw path so path parameters do not
// explode label cardinality.
func MetricsMiddleware(collector *metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		collector.RecordHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
