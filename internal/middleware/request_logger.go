package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/guttosm/label-service/internal/domain/model"
)

// RequestLogger writes one structured line per request. With auditRequests
// set, the exchange is also submitted to the audit sink as an http_request
// event.
func RequestLogger(auditRequests bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		exchange := &model.HTTPExchange{
			Method:     c.Request.Method,
			Path:       c.Request.URL.Path,
			Status:     c.Writer.Status(),
			DurationMS: time.Since(start).Milliseconds(),
			ClientIP:   c.ClientIP(),
			UserAgent:  c.Request.UserAgent(),
		}

		event := RequestLog(c).WithLevel(levelForStatus(exchange.Status)).
			Str("method", exchange.Method).
			Str("path", exchange.Path).
			Int("status_code", exchange.Status).
			Int64("duration_ms", exchange.DurationMS).
			Str("ip", exchange.ClientIP)
		if op, ok := c.Get(OperatorContextKey); ok {
			event = event.Interface("operator", op)
		}
		event.Msg("HTTP request")

		if auditRequests {
			e := model.AuditEvent{Action: model.AuditHTTPRequest, HTTP: exchange}
			if exchange.Status >= 500 {
				e.Outcome = model.OutcomeFailed
			}
			RecordAudit(c, e)
		}
	}
}

func levelForStatus(status int) zerolog.Level {
	switch {
	case status >= 500:
		return zerolog.ErrorLevel
	case status >= 400:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}
