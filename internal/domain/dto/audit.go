package dto

import (
	"time"

	"github.com/guttosm/label-service/internal/domain/model"
)

// AuditQuery is the query string accepted by GET /api/audit. Times are
// RFC 3339.
type AuditQuery struct {
	Action     string    `form:"action"`
	Outcome    string    `form:"outcome" binding:"omitempty,oneof=ok failed"`
	Operator   string    `form:"operator"`
	SystemName string    `form:"system_name"`
	BatchID    string    `form:"batch_id"`
	RequestID  string    `form:"request_id"`
	Since      time.Time `form:"since" time_format:"2006-01-02T15:04:05Z07:00"`
	Until      time.Time `form:"until" time_format:"2006-01-02T15:04:05Z07:00"`
	Limit      int       `form:"limit" binding:"omitempty,min=0"`
}

// ToModel converts the query to a journal filter.
func (q AuditQuery) ToModel() model.AuditFilter {
	return model.AuditFilter{
		Action:    model.AuditAction(q.Action),
		Outcome:   model.AuditOutcome(q.Outcome),
		Operator:  q.Operator,
		SystemID:  q.SystemName,
		BatchID:   q.BatchID,
		RequestID: q.RequestID,
		Since:     q.Since,
		Until:     q.Until,
		Limit:     q.Limit,
	}
}

// AuditPage is one page of journal entries plus the number of entries the
// filter matches overall.
//
// @Description Audit journal page
type AuditPage struct {
	Events []model.AuditEvent `json:"events"`
	Total  int64              `json:"total" example:"42"`
}
