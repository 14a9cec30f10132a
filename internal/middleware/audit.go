package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/guttosm/label-service/internal/domain/model"
)

// AuditSink accepts audit events without blocking.
type AuditSink interface {
	Submit(e model.AuditEvent) bool
}

const auditSinkKey = "audit_sink"

// WithAuditSink makes sink available to RecordAudit for the rest of the chain.
// A nil sink disables auditing.
func WithAuditSink(sink AuditSink) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sink != nil {
			c.Set(auditSinkKey, sink)
		}
		c.Next()
	}
}

// RecordAudit submits e with the request ID and operator of c filled in.
func RecordAudit(c *gin.Context, e model.AuditEvent) {
	v, ok := c.Get(auditSinkKey)
	if !ok {
		return
	}
	sink, ok := v.(AuditSink)
	if !ok {
		return
	}
	if e.RequestID == "" {
		e.RequestID = GetRequestID(c)
	}
	if e.Operator == "" {
		e.Operator = GetOperator(c)
	}
	if e.Outcome == "" {
		e.Outcome = model.OutcomeOK
	}
	sink.Submit(e)
}
