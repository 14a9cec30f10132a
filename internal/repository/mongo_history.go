package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/guttosm/label-service/internal/domain/model"
)

// MongoHistory stores issued serials in the issued_serials collection.
type MongoHistory struct {
	db         *MongoDB
	collection *mongo.Collection
}

// NewMongoHistory creates a MongoDB-backed issued-serial store.
func NewMongoHistory(db *MongoDB) *MongoHistory {
	return &MongoHistory{db: db, collection: db.IssuedSerials}
}

// Ping verifies the MongoDB connection.
func (r *MongoHistory) Ping(ctx context.Context) error {
	return r.db.HealthCheck(ctx)
}

// FindIssued returns the subset of serials already issued for the period.
func (r *MongoHistory) FindIssued(ctx context.Context, systemID, year, month string, serials []string) ([]string, error) {
	if len(serials) == 0 {
		return []string{}, nil
	}

	filter := bson.M{
		"system_name":   systemID,
		"year":          year,
		"month":         month,
		"serial_number": bson.M{"$in": serials},
	}
	opts := options.Find().SetProjection(bson.M{"serial_number": 1, "_id": 0})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find issued serials: %w", err)
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var docs []struct {
		Serial string `bson:"serial_number"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode issued serials: %w", err)
	}
	found := make([]string, len(docs))
	for i, d := range docs {
		found[i] = d.Serial
	}
	return orderLike(serials, found), nil
}

// RecordIssued inserts every entry of a batch. Standalone MongoDB has no
// multi-document transactions, so on a unique-key collision the documents
// already written for the batch are deleted before reporting the conflict.
func (r *MongoHistory) RecordIssued(ctx context.Context, entries []model.IssuedSerial) error {
	if len(entries) == 0 {
		return nil
	}

	docs := make([]interface{}, len(entries))
	for i, e := range entries {
		docs[i] = e
	}

	_, err := r.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		if _, delErr := r.collection.DeleteMany(ctx, bson.M{"batch_id": entries[0].BatchID}); delErr != nil {
			return fmt.Errorf("roll back batch %s: %w", entries[0].BatchID, delErr)
		}
		return fmt.Errorf("batch %s: %w", entries[0].BatchID, model.ErrSerialAlreadyIssued)
	}
	return fmt.Errorf("record issued serials: %w", err)
}

// History lists issued serials, newest first.
func (r *MongoHistory) History(ctx context.Context, q model.HistoryQuery) ([]model.IssuedSerial, error) {
	filter := bson.M{}
	if q.SystemID != "" {
		filter["system_name"] = q.SystemID
	}
	if q.Year != "" {
		filter["year"] = q.Year
	}
	if q.Month != "" {
		filter["month"] = q.Month
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "printed_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(historyLimit(q.Limit)))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	out := []model.IssuedSerial{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return out, nil
}
