package middleware

import (
	"strconv"
	"time"

	"github.com/Meesho/BharatMLStack/company-export/pkg/metric"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// HTTPLogger logs the request
func HTTPLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		c.Next()
		latency := time.Since(startTime)

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		clientIP := c.ClientIP()
		method := c.Request.Method
		statusCode := c.Writer.Status()

		metricTags := metric.BuildTag(
			metric.NewTag(metric.TagPath, path),
			metric.NewTag(metric.TagMethod, method),
			metric.NewTag(metric.TagHttpStatusCode, strconv.Itoa(statusCode)),
		)
		metric.Incr(metric.ApiRequestCount, metricTags)
		metric.Timing(metric.ApiRequestLatency, latency, metricTags)
		zerolog.Ctx(c.Request.Context()).Info().Msgf("[access] [%s] %s %s %d %v", clientIP, method, c.Request.URL.Path, statusCode, latency)
	}
}
