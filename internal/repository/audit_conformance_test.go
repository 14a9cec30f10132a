package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/label-service/internal/domain/model"
)

// auditFixture is a small journal spanning every filterable field.
func auditFixture(base time.Time) []model.AuditEvent {
	scope := &model.BatchScope{SystemID: "System A", Year: "2024", Month: "03", FirstSerial: "0100", Quantity: 3}
	return []model.AuditEvent{
		{ID: "e1", At: base, Action: model.AuditCheckDuplicates, Outcome: model.OutcomeOK,
			Operator: "alice", RequestID: "r1", Batch: scope},
		{ID: "e2", At: base.Add(time.Second), Action: model.AuditGenerateBatch, Outcome: model.OutcomeOK,
			Operator: "alice", RequestID: "r2",
			Batch: scope.WithDocument(model.BatchDocument{ID: "b1", URL: "/api/label/b1.pdf", FirstSerial: "0100", LastSerial: "0102", Quantity: 3})},
		{ID: "e3", At: base.Add(2 * time.Second), Action: model.AuditPrintBatch, Outcome: model.OutcomeFailed,
			Operator: "bob", RequestID: "r3", Printer: "Zebra", Error: "printer offline"},
		{ID: "e4", At: base.Add(3 * time.Second), Action: model.AuditCheckDuplicates, Outcome: model.OutcomeOK,
			Operator: "bob", RequestID: "r4", Batch: &model.BatchScope{SystemID: "System B", Year: "2024", Month: "03", FirstSerial: "0100", Quantity: 1},
			Duplicates: []string{"0100"}},
		{ID: "e5", At: base.Add(4 * time.Second), Action: model.AuditHTTPRequest, Outcome: model.OutcomeOK,
			RequestID: "r4", HTTP: &model.HTTPExchange{Method: "POST", Path: "/api/check-duplicates", Status: 200, DurationMS: 12}},
	}
}

// testAuditStore runs the behaviour every AuditStore implementation shares.
func testAuditStore(t *testing.T, open func(t *testing.T) AuditStore) {
	base := time.Date(2024, time.March, 5, 9, 0, 0, 0, time.UTC)

	t.Run("round trip keeps nested fields", func(t *testing.T) {
		ctx := context.Background()
		store := open(t)
		require.NoError(t, store.Append(ctx, auditFixture(base)))

		got, err := store.Find(ctx, model.AuditFilter{})
		require.NoError(t, err)
		require.Len(t, got, 5)

		assert.Equal(t, []string{"e5", "e4", "e3", "e2", "e1"}, auditIDs(got))
		assert.True(t, got[0].At.Equal(base.Add(4*time.Second)))
		require.NotNil(t, got[0].HTTP)
		assert.Equal(t, 200, got[0].HTTP.Status)
		assert.Equal(t, []string{"0100"}, got[1].Duplicates)
		assert.Equal(t, "printer offline", got[2].Error)
		assert.Nil(t, got[2].Batch)
		require.NotNil(t, got[3].Batch)
		assert.Equal(t, "0102", got[3].Batch.LastSerial)
		assert.Equal(t, "b1", got[3].Batch.BatchID)
	})

	t.Run("filters", func(t *testing.T) {
		ctx := context.Background()
		store := open(t)
		require.NoError(t, store.Append(ctx, auditFixture(base)))

		tests := []struct {
			name   string
			filter model.AuditFilter
			want   []string
		}{
			{name: "action", filter: model.AuditFilter{Action: model.AuditCheckDuplicates}, want: []string{"e4", "e1"}},
			{name: "outcome", filter: model.AuditFilter{Outcome: model.OutcomeFailed}, want: []string{"e3"}},
			{name: "operator", filter: model.AuditFilter{Operator: "alice"}, want: []string{"e2", "e1"}},
			{name: "system", filter: model.AuditFilter{SystemID: "System B"}, want: []string{"e4"}},
			{name: "batch", filter: model.AuditFilter{BatchID: "b1"}, want: []string{"e2"}},
			{name: "request", filter: model.AuditFilter{RequestID: "r4"}, want: []string{"e5", "e4"}},
			{name: "time window", filter: model.AuditFilter{Since: base.Add(time.Second), Until: base.Add(2 * time.Second)}, want: []string{"e3", "e2"}},
			{name: "limit", filter: model.AuditFilter{Limit: 2}, want: []string{"e5", "e4"}},
			{name: "nothing matches", filter: model.AuditFilter{Operator: "carol"}, want: []string{}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				got, err := store.Find(ctx, tt.filter)
				require.NoError(t, err)
				assert.NotNil(t, got)
				assert.Equal(t, tt.want, auditIDs(got))

				n, err := store.Count(ctx, tt.filter)
				require.NoError(t, err)
				if tt.filter.Limit == 0 {
					assert.Equal(t, int64(len(tt.want)), n)
				}
			})
		}
	})

	t.Run("sub-second ordering", func(t *testing.T) {
		ctx := context.Background()
		store := open(t)
		events := []model.AuditEvent{
			{ID: "whole", At: base, Action: model.AuditHTTPRequest, Outcome: model.OutcomeOK},
			{ID: "half", At: base.Add(500 * time.Millisecond), Action: model.AuditHTTPRequest, Outcome: model.OutcomeOK},
		}
		require.NoError(t, store.Append(ctx, events))

		got, err := store.Find(ctx, model.AuditFilter{})
		require.NoError(t, err)
		assert.Equal(t, []string{"half", "whole"}, auditIDs(got))
	})

	t.Run("empty append is a no-op", func(t *testing.T) {
		store := open(t)
		require.NoError(t, store.Append(context.Background(), nil))
	})

	t.Run("duplicate id fails", func(t *testing.T) {
		ctx := context.Background()
		store := open(t)
		e := model.AuditEvent{ID: "same", At: base, Action: model.AuditHTTPRequest, Outcome: model.OutcomeOK}
		require.NoError(t, store.Append(ctx, []model.AuditEvent{e}))
		assert.Error(t, store.Append(ctx, []model.AuditEvent{e}))
	})
}

func auditIDs(events []model.AuditEvent) []string {
	ids := make([]string, len(events))
	for i, e := range events {
		ids[i] = e.ID
	}
	return ids
}

func manyAuditEvents(n int, at time.Time) []model.AuditEvent {
	out := make([]model.AuditEvent, n)
	for i := range out {
		out[i] = model.AuditEvent{
			ID:      fmt.Sprintf("bulk-%04d", i),
			At:      at.Add(time.Duration(i) * time.Millisecond),
			Action:  model.AuditHTTPRequest,
			Outcome: model.OutcomeOK,
		}
	}
	return out
}
