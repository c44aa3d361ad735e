package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oxtobyd/panelplanner/internal/metrics"
)

// Metrics counts requests by matched route template, not raw path
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.ObserveHTTP(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
