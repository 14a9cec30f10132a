//go:build !integration

package app

import (
	"context"
	"testing"

	"github.com/guttosm/label-service/config"
	"github.com/guttosm/label-service/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeDatabase_SQLite(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t).Database

	db, err := InitializeDatabase(ctx, cfg)
	require.NoError(t, err)

	assert.NotNil(t, db.History)
	assert.NotNil(t, db.HistoryCircuitBreaker)
	assert.Equal(t, "sqlite-serial-history", db.HistoryCircuitBreaker.Name())
	assert.NotNil(t, db.Audit)
	assert.Equal(t, "sqlite-audit-journal", db.AuditCircuitBreaker.Name())
	assert.NotNil(t, db.AuditPruner, "SQLite has no native expiry")
	require.NoError(t, db.History.Ping(ctx))

	entries := []model.IssuedSerial{{SystemID: "Line 1", Year: "2024", Month: "03", Serial: "0001", BatchID: "b1"}}
	require.NoError(t, db.History.RecordIssued(ctx, entries))
	require.NoError(t, db.Close(ctx))

	reopened, err := InitializeDatabase(ctx, cfg)
	require.NoError(t, err)
	defer reopened.Close(ctx)

	found, err := reopened.History.FindIssued(ctx, "Line 1", "2024", "03", []string{"0001", "0002"})
	require.NoError(t, err)
	assert.Equal(t, []string{"0001"}, found, "history survives a restart")
}

func TestInitializeDatabase_Drivers(t *testing.T) {
	tests := []struct {
		name      string
		driver    string
		expectErr bool
	}{
		{"empty driver defaults to sqlite", "", false},
		{"sqlite", config.DriverSQLite, false},
		{"unknown driver", "cassandra", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t).Database
			cfg.Driver = tt.driver

			db, err := InitializeDatabase(context.Background(), cfg)
			if tt.expectErr {
				assert.Error(t, err)
				assert.Nil(t, db)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, db.Close(context.Background()))
		})
	}
}

func TestDatabaseComponents_CloseNil(t *testing.T) {
	var db *DatabaseComponents
	assert.NoError(t, db.Close(context.Background()))
}
