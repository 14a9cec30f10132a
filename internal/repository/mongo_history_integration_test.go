//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/guttosm/label-service/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issued(batchID string, serials ...string) []model.IssuedSerial {
	ids := make([]model.SerialIdentifier, len(serials))
	for i, s := range serials {
		ids[i] = model.SerialIdentifier{SystemID: "System A", Year: "2024", Month: "03", Serial: s}
	}
	return model.NewIssuedSerials(ids, batchID, "alice", time.Now().UTC().Truncate(time.Millisecond))
}

func TestMongoHistory_Integration(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := NewMongoHistory(openTestMongoDB(t))

	t.Run("record and find", func(t *testing.T) {
		require.NoError(t, repo.RecordIssued(ctx, issued("b1", "0100", "0101", "0102")))

		found, err := repo.FindIssued(ctx, "System A", "2024", "03", []string{"0099", "0102", "0101"})
		require.NoError(t, err)
		assert.Equal(t, []string{"0102", "0101"}, found)
	})

	t.Run("other period is independent", func(t *testing.T) {
		found, err := repo.FindIssued(ctx, "System A", "2024", "04", []string{"0100"})
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("conflict rolls back the whole batch", func(t *testing.T) {
		err := repo.RecordIssued(ctx, issued("b2", "0103", "0104", "0102"))
		assert.ErrorIs(t, err, model.ErrSerialAlreadyIssued)

		found, err := repo.FindIssued(ctx, "System A", "2024", "03", []string{"0103", "0104"})
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("history newest first", func(t *testing.T) {
		require.NoError(t, repo.RecordIssued(ctx, issued("b3", "0200")))

		history, err := repo.History(ctx, model.HistoryQuery{SystemID: "System A", Limit: 2})
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, "0200", history[0].Serial)
		assert.Equal(t, "alice", history[0].IssuedBy)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, repo.Ping(ctx))
	})
}
