package repository

import (
	"context"
	"time"

	"farewatch/internal/domain/entity"
	"farewatch/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoAlertLogRepository implements AlertLogRepository
type MongoAlertLogRepository struct {
	collection *mongo.Collection
}

// NewMongoAlertLogRepository creates a new alert log repository
func NewMongoAlertLogRepository(db *mongo.Database) repository.AlertLogRepository {
	collection := db.Collection("alert_logs")

	// Create index on flightPublicId for queries
	ctx := context.Background()
	flightIndex := mongo.IndexModel{
		Keys: bson.M{"flightPublicId": 1},
	}
	collection.Indexes().CreateOne(ctx, flightIndex)

	return &MongoAlertLogRepository{
		collection: collection,
	}
}

// Append records one notification attempt; log rows are never mutated
func (r *MongoAlertLogRepository) Append(ctx context.Context, log *entity.AlertLog) error {
	if log.ID == "" {
		log.ID = primitive.NewObjectID().Hex()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, log)
	return err
}

// FindByFlight returns the most recent delivery attempts for a flight
func (r *MongoAlertLogRepository) FindByFlight(ctx context.Context, flightPublicID string, limit int) ([]*entity.AlertLog, error) {
	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"flightPublicId": flightPublicID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var logs []*entity.AlertLog
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}
