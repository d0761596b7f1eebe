package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SetupIndexes creates the indexes the query layer relies on. The unique
// username index is what enforces the duplicate-registration conflict.
func SetupIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	usersCollection := db.Collection("users")
	notesCollection := db.Collection("notes")

	userIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "username", Value: 1}},
			Options: options.Index().
				SetName("unique_username").
				SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().
				SetName("user_id_index"),
		},
	}

	noteIndexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "deleted", Value: 1},
			},
			Options: options.Index().
				SetName("user_active_notes"),
		},
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "deleted", Value: 1},
				{Key: "archived", Value: 1},
			},
			Options: options.Index().
				SetName("user_archived_notes"),
		},
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "deleted", Value: 1},
				{Key: "deleted_at", Value: -1},
			},
			Options: options.Index().
				SetName("user_trash_window"),
		},
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "deleted", Value: 1},
				{Key: "reminder", Value: 1},
			},
			Options: options.Index().
				SetName("user_reminders"),
		},
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "tags", Value: 1},
			},
			Options: options.Index().
				SetName("user_tags"),
		},
	}

	if _, err := usersCollection.Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("failed to create users indexes: %w", err)
	}

	if _, err := notesCollection.Indexes().CreateMany(ctx, noteIndexes); err != nil {
		return fmt.Errorf("failed to create notes indexes: %w", err)
	}

	return nil
}
