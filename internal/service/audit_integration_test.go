//go:build integration

package service

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/label-service/internal/domain/model"
	"github.com/guttosm/label-service/internal/repository"
	"github.com/guttosm/label-service/internal/testutil"
)

func TestMain(m *testing.M) {
	os.Exit(testutil.RunWithMongoDB(m))
}

func TestAuditJournal_Mongo(t *testing.T) {
	ctx := context.Background()
	db, err := repository.NewMongoDB(ctx, testutil.MongoURI(t), testutil.DatabaseName(t), repository.DefaultMongoConfig())
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Database.Drop(ctx)
		_ = db.Close(ctx)
	})
	require.NoError(t, db.SetAuditTTL(ctx, time.Hour))

	journal := NewAuditJournal(repository.NewMongoAuditJournal(db))
	scope := &model.BatchScope{SystemID: "System A", Year: "2024", Month: "03", FirstSerial: "0100", Quantity: 2}

	require.NoError(t, journal.Record(ctx,
		model.AuditEvent{Action: model.AuditCheckDuplicates, Operator: "alice", Batch: scope},
		model.AuditEvent{Action: model.AuditGenerateBatch, Operator: "alice",
			Batch: scope.WithDocument(model.BatchDocument{ID: "b1", FirstSerial: "0100", LastSerial: "0101", Quantity: 2})},
	))

	got, err := journal.Find(ctx, model.AuditFilter{BatchID: "b1"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, model.AuditGenerateBatch, got[0].Action)
	assert.NotEmpty(t, got[0].ID)
	assert.Equal(t, "0101", got[0].Batch.LastSerial)

	n, err := journal.Count(ctx, model.AuditFilter{Operator: "alice"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
