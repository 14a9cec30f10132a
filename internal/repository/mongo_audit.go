package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/guttosm/label-service/internal/domain/model"
)

// MongoAuditJournal stores audit events in the audit_events collection.
// Expiry is handled by the TTL index set with MongoDB.SetAuditTTL.
type MongoAuditJournal struct {
	collection *mongo.Collection
}

// NewMongoAuditJournal creates a MongoDB-backed audit journal.
func NewMongoAuditJournal(db *MongoDB) *MongoAuditJournal {
	return &MongoAuditJournal{collection: db.AuditEvents}
}

// Append inserts events in one round trip.
func (r *MongoAuditJournal) Append(ctx context.Context, events []model.AuditEvent) error {
	if len(events) == 0 {
		return nil
	}
	docs := make([]interface{}, len(events))
	for i := range events {
		docs[i] = events[i]
	}
	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("append audit events: %w", err)
	}
	return nil
}

// Find lists matching events, newest first.
func (r *MongoAuditJournal) Find(ctx context.Context, f model.AuditFilter) ([]model.AuditEvent, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(f.EffectiveLimit()))

	cursor, err := r.collection.Find(ctx, auditFilter(f), opts)
	if err != nil {
		return nil, fmt.Errorf("find audit events: %w", err)
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	out := []model.AuditEvent{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode audit events: %w", err)
	}
	return out, nil
}

// Count returns the number of matching events.
func (r *MongoAuditJournal) Count(ctx context.Context, f model.AuditFilter) (int64, error) {
	n, err := r.collection.CountDocuments(ctx, auditFilter(f))
	if err != nil {
		return 0, fmt.Errorf("count audit events: %w", err)
	}
	return n, nil
}

func auditFilter(f model.AuditFilter) bson.M {
	filter := bson.M{}
	if f.Action != "" {
		filter["action"] = f.Action
	}
	if f.Outcome != "" {
		filter["outcome"] = f.Outcome
	}
	if f.Operator != "" {
		filter["operator"] = f.Operator
	}
	if f.RequestID != "" {
		filter["request_id"] = f.RequestID
	}
	if f.SystemID != "" {
		filter["batch.system_name"] = f.SystemID
	}
	if f.BatchID != "" {
		filter["batch.batch_id"] = f.BatchID
	}
	if !f.Since.IsZero() || !f.Until.IsZero() {
		at := bson.M{}
		if !f.Since.IsZero() {
			at["$gte"] = f.Since
		}
		if !f.Until.IsZero() {
			at["$lte"] = f.Until
		}
		filter["at"] = at
	}
	return filter
}
