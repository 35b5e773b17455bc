package middleware

import (
	"strconv"
	"time"

	"doefood/backend/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics coleta contador e latência das requisições HTTP.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		// FullPath mantém a cardinalidade baixa (e não expõe tokens do path).
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.HTTPRequestCounter.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
