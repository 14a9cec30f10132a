package model

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBatchScope_WithDocument(t *testing.T) {
	req := BatchRequest{SystemID: "Line 1", Year: "2024", Month: "03", StartSerial: "0098", Quantity: 3}
	scope := ScopeOf(req)

	full := scope.WithDocument(BatchDocument{
		ID: "b1", URL: "/api/label/batch_b1.pdf", FirstSerial: "0098", LastSerial: "0100", Quantity: 3,
		CreatedAt: time.Now(),
	})

	assert.Equal(t, "b1", full.BatchID)
	assert.Equal(t, "0100", full.LastSerial)
	assert.Equal(t, "/api/label/batch_b1.pdf", full.DocumentURL)
	assert.Equal(t, "Line 1", full.SystemID)
	assert.Empty(t, scope.BatchID, "the original scope is not modified")
}

func TestAuditEvent_Fail(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr string
	}{
		{name: "with error", err: errors.New("printer offline"), wantErr: "printer offline"},
		{name: "without error", err: nil, wantErr: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &AuditEvent{Action: AuditPrintBatch, Outcome: OutcomeOK}
			e.Fail(tt.err)

			assert.Equal(t, OutcomeFailed, e.Outcome)
			assert.Equal(t, tt.wantErr, e.Error)
		})
	}
}

func TestAuditFilter_EffectiveLimit(t *testing.T) {
	tests := []struct {
		limit int
		want  int
	}{
		{limit: 0, want: DefaultAuditLimit},
		{limit: -5, want: DefaultAuditLimit},
		{limit: 20, want: 20},
		{limit: MaxAuditLimit + 1, want: MaxAuditLimit},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, AuditFilter{Limit: tt.limit}.EffectiveLimit(), "limit %d", tt.limit)
	}
}
