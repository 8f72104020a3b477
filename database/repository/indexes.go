package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func uniqueID() mongo.IndexModel {
	return mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("unique_id"),
	}
}

// EnsureIndexes creates the indexes every collection relies on.
func EnsureIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexes := map[string][]mongo.IndexModel{
		UsersCollection: {
			uniqueID(),
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("unique_email"),
			},
		},
		BusinessesCollection: {
			uniqueID(),
			{
				Keys:    bson.D{{Key: "ownerId", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("unique_owner"),
			},
		},
		StudiosCollection: {
			uniqueID(),
			{
				Keys:    bson.D{{Key: "businessId", Value: 1}},
				Options: options.Index().SetName("business_idx"),
			},
		},
		ClassesCollection: {
			uniqueID(),
			{
				Keys:    bson.D{{Key: "studioId", Value: 1}},
				Options: options.Index().SetName("studio_idx"),
			},
			{
				Keys:    bson.D{{Key: "businessId", Value: 1}},
				Options: options.Index().SetName("business_idx"),
			},
		},
		BookingsCollection: {
			uniqueID(),
			// Capacity counting: classId + classDate + status.
			{
				Keys:    bson.D{{Key: "classId", Value: 1}, {Key: "classDate", Value: 1}, {Key: "status", Value: 1}},
				Options: options.Index().SetName("class_date_status_idx"),
			},
			{
				Keys:    bson.D{{Key: "businessId", Value: 1}, {Key: "classDate", Value: -1}},
				Options: options.Index().SetName("business_date_idx"),
			},
			{
				Keys:    bson.D{{Key: "userId", Value: 1}},
				Options: options.Index().SetName("user_idx").SetSparse(true),
			},
		},
		FeedbackCollection: {
			uniqueID(),
			{
				Keys:    bson.D{{Key: "type", Value: 1}, {Key: "targetId", Value: 1}},
				Options: options.Index().SetName("target_idx"),
			},
		},
	}

	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", name, err)
		}
	}
	return nil
}
