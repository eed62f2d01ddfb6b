package repository

import (
	"context"
	"fmt"

	"medtour-itinerary-service/internal/domain/entity"
	"medtour-itinerary-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepairLogRepository implements RepairLogRepository
type MongoRepairLogRepository struct {
	collection *mongo.Collection
}

// NewMongoRepairLogRepository creates a new repair log repository
func NewMongoRepairLogRepository(db *mongo.Database) repository.RepairLogRepository {
	collection := db.Collection("repair_runs")

	// History lookups are per order, newest first
	ctx := context.Background()
	collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "orderId", Value: 1},
			{Key: "startedAt", Value: -1},
		},
	})
	collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.M{"operation": 1},
	})

	return &MongoRepairLogRepository{
		collection: collection,
	}
}

// Save inserts one run
func (r *MongoRepairLogRepository) Save(ctx context.Context, run *entity.RepairRun) error {
	if run.ID == "" {
		run.ID = primitive.NewObjectID().Hex()
	}
	if _, err := r.collection.InsertOne(ctx, run); err != nil {
		return fmt.Errorf("failed to save repair run: %w", err)
	}
	return nil
}

// FindByOrder returns the latest runs of an order
func (r *MongoRepairLogRepository) FindByOrder(ctx context.Context, orderID string, limit int) ([]*entity.RepairRun, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "startedAt", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"orderId": orderID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find repair runs: %w", err)
	}
	defer cursor.Close(ctx)

	runs := []*entity.RepairRun{}
	if err := cursor.All(ctx, &runs); err != nil {
		return nil, fmt.Errorf("failed to decode repair runs: %w", err)
	}
	return runs, nil
}
