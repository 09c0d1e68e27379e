package logmodule

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/werego/werego-api/metrics"
)

const (
	RequestIDHeader = "X-Request-ID"
	RequestIDKey    = "request_id"
)

// Ginrus logs every request of a route group with logrus using category as
// the log prefix. A request id is taken from X-Request-ID or generated.
func Ginrus(category string) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RecordAPIRequest(c.Request.Method, route, status, latency)

		entry := log.WithFields(log.Fields{
			"prefix":     category,
			"request_id": requestID,
			"status":     status,
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency":    latency,
			"user-agent": c.Request.UserAgent(),
		})

		if len(c.Errors) > 0 {
			entry.Error(c.Errors.String())
		} else if status >= 500 {
			entry.Error()
		} else if status >= 400 {
			entry.Warn()
		} else {
			entry.Info()
		}
	}
}

// RequestID returns the id assigned to the request by Ginrus
func RequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}
