// Package repository stores issued serials and the audit journal in SQLite or MongoDB.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection and index names.
const (
	issuedSerialsCollection = "issued_serials"
	auditEventsCollection   = "audit_events"
	auditTTLIndex           = "audit_ttl"
)

// MongoConfig holds MongoDB connection pool configuration.
type MongoConfig struct {
	MaxPoolSize            uint64
	MinPoolSize            uint64
	MaxConnIdleTime        time.Duration
	ConnectTimeout         time.Duration
	ServerSelectionTimeout time.Duration
	SocketTimeout          time.Duration
	// EnableCompression enables wire protocol compression.
	EnableCompression bool
}

// DefaultMongoConfig returns the pool settings used by the label server.
// Issuance is operator-paced, so the pool is small.
func DefaultMongoConfig() MongoConfig {
	return MongoConfig{
		MaxPoolSize:            20,
		MinPoolSize:            2,
		MaxConnIdleTime:        10 * time.Minute,
		ConnectTimeout:         10 * time.Second,
		ServerSelectionTimeout: 5 * time.Second,
		SocketTimeout:          30 * time.Second,
		EnableCompression:      true,
	}
}

// MongoDB provides MongoDB client and collection access.
type MongoDB struct {
	Client        *mongo.Client
	Database      *mongo.Database
	IssuedSerials *mongo.Collection
	AuditEvents   *mongo.Collection
}

// NewMongoDB connects, verifies the server with a ping and ensures the
// indexes the stores rely on. cfg.ConnectTimeout bounds the whole sequence
// in addition to ctx.
func NewMongoDB(ctx context.Context, uri, databaseName string, cfg MongoConfig) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(uri).
		SetAppName("label-service").
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetMaxConnIdleTime(cfg.MaxConnIdleTime).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ServerSelectionTimeout).
		SetSocketTimeout(cfg.SocketTimeout).
		SetRetryWrites(true).
		SetRetryReads(true)
	if cfg.EnableCompression {
		opts.SetCompressors([]string{"zstd", "snappy", "zlib"})
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	m := &MongoDB{Client: client, Database: client.Database(databaseName)}
	m.IssuedSerials = m.Database.Collection(issuedSerialsCollection)
	m.AuditEvents = m.Database.Collection(auditEventsCollection)

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	if err := m.createIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return m, nil
}

// createIndexes fails only on the serial uniqueness index, which the
// duplicate guarantee depends on. The query indexes are logged and skipped.
func (m *MongoDB) createIndexes(ctx context.Context) error {
	serialIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "system_name", Value: 1},
			{Key: "year", Value: 1},
			{Key: "month", Value: 1},
			{Key: "serial_number", Value: 1},
		},
		Options: options.Index().SetUnique(true).SetName("serial_unique"),
	}
	if _, err := m.IssuedSerials.Indexes().CreateOne(ctx, serialIndex); err != nil {
		return fmt.Errorf("create serial index: %w", err)
	}

	queryIndexes := map[*mongo.Collection][]mongo.IndexModel{
		m.IssuedSerials: {
			ascending("batch_id"),
			{Keys: bson.D{{Key: "printed_at", Value: -1}}, Options: options.Index().SetName("printed_at")},
		},
		m.AuditEvents: {
			{Keys: bson.D{{Key: "action", Value: 1}, {Key: "at", Value: -1}}, Options: options.Index().SetName("action_at")},
			ascending("request_id"),
			ascending("batch.batch_id"),
		},
	}
	for coll, models := range queryIndexes {
		if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
			log.Warn().Err(err).Str("collection", coll.Name()).Msg("Failed to create query indexes")
		}
	}
	return nil
}

func ascending(field string) mongo.IndexModel {
	return mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: 1}},
		Options: options.Index().SetName(strings.ReplaceAll(field, ".", "_")),
	}
}

// SetAuditTTL expires audit events older than ttl. A non-positive ttl keeps
// them forever.
func (m *MongoDB) SetAuditTTL(ctx context.Context, ttl time.Duration) error {
	// Expiry cannot be changed in place; drop and recreate.
	_, _ = m.AuditEvents.Indexes().DropOne(ctx, auditTTLIndex)
	if ttl <= 0 {
		return nil
	}

	ttlIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: "at", Value: 1}},
		Options: options.Index().SetName(auditTTLIndex).SetExpireAfterSeconds(int32(ttl / time.Second)),
	}
	if _, err := m.AuditEvents.Indexes().CreateOne(ctx, ttlIndex); err != nil && !isIndexConflict(err) {
		return fmt.Errorf("create audit ttl index: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (m *MongoDB) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}

// HealthCheck pings the primary.
func (m *MongoDB) HealthCheck(ctx context.Context) error {
	return m.Client.Ping(ctx, readpref.Primary())
}

// isIndexConflict reports IndexOptionsConflict (85) and IndexKeySpecsConflict (86).
func isIndexConflict(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.Code == 85 || cmdErr.Code == 86
	}
	return false
}
