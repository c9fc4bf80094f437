package dashboard

import (
	"time"

	"jiraiya/sources/tracing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIdHeader = "X-Request-Id"

// audit tags every request with an id, measures it and reports the outcome to
// both the log stream and prometheus.
func (x *Dashboard) audit() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()

		requestId := c.GetHeader(requestIdHeader)
		if requestId == "" {
			requestId = uuid.NewString()
		}

		c.Header(requestIdHeader, requestId)
		c.Next()

		elapsed := time.Since(started)
		status := c.Writer.Status()

		x.metrics.RecordHTTPRequest(c.Request.Method, c.FullPath(), status, elapsed)

		x.log.I("Dashboard request handled",
			tracing.RequestId, requestId,
			tracing.HttpMethod, c.Request.Method,
			tracing.HttpPath, c.Request.URL.Path,
			tracing.HttpStatus, status,
			tracing.ExecutionTime, elapsed,
		)
	}
}
