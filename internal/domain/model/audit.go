package model

import (
	"time"
)

// AuditAction names an action recorded in the audit journal.
type AuditAction string

// Journal actions.
const (
	AuditHTTPRequest     AuditAction = "http_request"
	AuditCheckDuplicates AuditAction = "check_duplicates"
	AuditGenerateBatch   AuditAction = "generate_batch"
	AuditPrintBatch      AuditAction = "print_batch"
	AuditSessionOpen     AuditAction = "session_open"
	AuditSessionClose    AuditAction = "session_close"
)

// AuditOutcome is the result of an audited action.
type AuditOutcome string

// Outcomes.
const (
	OutcomeOK     AuditOutcome = "ok"
	OutcomeFailed AuditOutcome = "failed"
)

// AuditEvent is one entry of the audit journal: who did what to which
// serial range, and how it ended.
//
// @Description Audit journal entry
type AuditEvent struct {
	ID         string        `bson:"_id" json:"id"`
	At         time.Time     `bson:"at" json:"at"`
	Action     AuditAction   `bson:"action" json:"action" example:"generate_batch"`
	Outcome    AuditOutcome  `bson:"outcome" json:"outcome" example:"ok"`
	Operator   string        `bson:"operator,omitempty" json:"operator,omitempty" example:"alice"`
	RequestID  string        `bson:"request_id,omitempty" json:"request_id,omitempty"`
	SessionID  string        `bson:"session_id,omitempty" json:"session_id,omitempty"`
	Batch      *BatchScope   `bson:"batch,omitempty" json:"batch,omitempty"`
	Printer    string        `bson:"printer,omitempty" json:"printer,omitempty"`
	Duplicates []string      `bson:"duplicates,omitempty" json:"duplicates,omitempty"`
	Error      string        `bson:"error,omitempty" json:"error,omitempty"`
	HTTP       *HTTPExchange `bson:"http,omitempty" json:"http,omitempty"`
}

// BatchScope identifies the serial range an event concerns.
type BatchScope struct {
	SystemID    string `bson:"system_name" json:"system_name"`
	Year        string `bson:"year" json:"year"`
	Month       string `bson:"month" json:"month"`
	FirstSerial string `bson:"first_serial" json:"first_serial"`
	LastSerial  string `bson:"last_serial,omitempty" json:"last_serial,omitempty"`
	Quantity    int    `bson:"quantity" json:"quantity"`
	BatchID     string `bson:"batch_id,omitempty" json:"batch_id,omitempty"`
	DocumentURL string `bson:"document_url,omitempty" json:"document_url,omitempty"`
}

// HTTPExchange summarises the request behind an http_request event.
type HTTPExchange struct {
	Method     string `bson:"method" json:"method"`
	Path       string `bson:"path" json:"path"`
	Status     int    `bson:"status" json:"status"`
	DurationMS int64  `bson:"duration_ms" json:"duration_ms"`
	ClientIP   string `bson:"client_ip,omitempty" json:"client_ip,omitempty"`
	UserAgent  string `bson:"user_agent,omitempty" json:"user_agent,omitempty"`
}

// ScopeOf returns the scope of a request that has not produced a document yet.
func ScopeOf(req BatchRequest) *BatchScope {
	return &BatchScope{
		SystemID:    req.SystemID,
		Year:        req.Year,
		Month:       req.Month,
		FirstSerial: req.StartSerial,
		Quantity:    req.Quantity,
	}
}

// WithDocument completes the scope with a rendered document.
func (s *BatchScope) WithDocument(doc BatchDocument) *BatchScope {
	out := *s
	out.BatchID = doc.ID
	out.DocumentURL = doc.URL
	if doc.FirstSerial != "" {
		out.FirstSerial = doc.FirstSerial
	}
	out.LastSerial = doc.LastSerial
	if doc.Quantity > 0 {
		out.Quantity = doc.Quantity
	}
	return &out
}

// Fail marks the event failed with err.
func (e *AuditEvent) Fail(err error) {
	e.Outcome = OutcomeFailed
	if err != nil {
		e.Error = err.Error()
	}
}

// DefaultAuditLimit and MaxAuditLimit bound journal queries.
const (
	DefaultAuditLimit = 100
	MaxAuditLimit     = 1000
)

// AuditFilter selects journal entries. Zero fields match everything.
type AuditFilter struct {
	Action    AuditAction
	Outcome   AuditOutcome
	Operator  string
	SystemID  string
	BatchID   string
	RequestID string
	Since     time.Time
	Until     time.Time
	Limit     int
}

// EffectiveLimit returns Limit bounded to (0, MaxAuditLimit].
func (f AuditFilter) EffectiveLimit() int {
	switch {
	case f.Limit <= 0:
		return DefaultAuditLimit
	case f.Limit > MaxAuditLimit:
		return MaxAuditLimit
	default:
		return f.Limit
	}
}
