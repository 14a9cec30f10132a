//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
)

func indexByName(t *testing.T, coll *mongo.Collection, name string) *mongo.IndexSpecification {
	t.Helper()
	specs, err := coll.Indexes().ListSpecifications(context.Background())
	require.NoError(t, err)
	for _, spec := range specs {
		if spec.Name == name {
			return spec
		}
	}
	return nil
}

func TestMongoDB_Connect(t *testing.T) {
	ctx := context.Background()
	db := openTestMongoDB(t)

	assert.NotNil(t, db.IssuedSerials)
	assert.NotNil(t, db.AuditEvents)
	assert.NoError(t, db.HealthCheck(ctx))

	spec := indexByName(t, db.IssuedSerials, "serial_unique")
	require.NotNil(t, spec, "serial index created on connect")
	require.NotNil(t, spec.Unique)
	assert.True(t, *spec.Unique)
}

func TestMongoDB_ConnectFailure(t *testing.T) {
	cfg := DefaultMongoConfig()
	cfg.ConnectTimeout = 500 * time.Millisecond
	cfg.ServerSelectionTimeout = 500 * time.Millisecond

	_, err := NewMongoDB(context.Background(), "mongodb://127.0.0.1:1", "unreachable", cfg)
	assert.Error(t, err)
}

func TestMongoDB_SetAuditTTL(t *testing.T) {
	ctx := context.Background()
	db := openTestMongoDB(t)

	require.NoError(t, db.SetAuditTTL(ctx, 30*24*time.Hour))
	spec := indexByName(t, db.AuditEvents, auditTTLIndex)
	require.NotNil(t, spec)
	require.NotNil(t, spec.ExpireAfterSeconds)
	assert.Equal(t, int32(30*24*3600), *spec.ExpireAfterSeconds)

	require.NoError(t, db.SetAuditTTL(ctx, time.Hour), "changing the retention replaces the index")
	spec = indexByName(t, db.AuditEvents, auditTTLIndex)
	require.NotNil(t, spec)
	assert.Equal(t, int32(3600), *spec.ExpireAfterSeconds)

	require.NoError(t, db.SetAuditTTL(ctx, 0))
	assert.Nil(t, indexByName(t, db.AuditEvents, auditTTLIndex), "zero retention keeps events forever")
}

func TestMongoAuditJournal(t *testing.T) {
	testAuditStore(t, func(t *testing.T) AuditStore {
		return NewMongoAuditJournal(openTestMongoDB(t))
	})
}
