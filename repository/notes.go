package repository

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"time"

	"notekeeper/model"
	"notekeeper/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TrashRetention is how long a soft-deleted note stays visible in the trash
// listing. Older trash is hidden but still purgeable by id.
const TrashRetention = 30 * 24 * time.Hour

type NotesRepo struct {
	MongoCollection *mongo.Collection
}

func GetNotesRepo(client *mongo.Client) *NotesRepo {
	return &NotesRepo{
		MongoCollection: client.Database(os.Getenv("MONGO_DB")).Collection("notes"),
	}
}

// Filter builders. Every filter starts from the owner; notes are never
// queried across users.

func activeFilter(userID string) bson.M {
	return bson.M{"user_id": userID, "deleted": false}
}

func archivedFilter(userID string) bson.M {
	return bson.M{"user_id": userID, "deleted": false, "archived": true}
}

func trashFilter(userID string, cutoff time.Time) bson.M {
	return bson.M{
		"user_id":    userID,
		"deleted":    true,
		"deleted_at": bson.M{"$gte": cutoff},
	}
}

// containsPattern builds a case-insensitive substring regex. The term is
// quoted so user input cannot inject regex syntax.
func containsPattern(term string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(term), "$options": "i"}
}

func searchFilter(userID, term string) bson.M {
	pattern := containsPattern(term)
	filter := activeFilter(userID)
	filter["$or"] = []bson.M{
		{"content": pattern},
		{"tags": pattern},
	}
	return filter
}

func tagFilter(userID, tag string) bson.M {
	filter := activeFilter(userID)
	filter["tags"] = containsPattern(tag)
	return filter
}

func reminderFilter(userID string, now time.Time) bson.M {
	filter := activeFilter(userID)
	filter["reminder"] = bson.M{"$gte": now}
	return filter
}

func (r *NotesRepo) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]*model.Note, error) {
	timer := utils.TrackDBOperation("find", "notes")
	defer timer.ObserveDuration()

	cursor, err := r.MongoCollection.Find(ctx, filter, opts...)
	if err != nil {
		utils.TrackError("database")
		return nil, err
	}
	defer cursor.Close(ctx)

	notes := []*model.Note{}
	if err = cursor.All(ctx, &notes); err != nil {
		utils.TrackError("database")
		return nil, err
	}
	return notes, nil
}

func (r *NotesRepo) Insert(ctx context.Context, note *model.Note) error {
	timer := utils.TrackDBOperation("insert", "notes")
	defer timer.ObserveDuration()

	_, err := r.MongoCollection.InsertOne(ctx, note)
	if err != nil {
		utils.TrackError("database")
		return fmt.Errorf("failed to insert note: %w", err)
	}
	return nil
}

func (r *NotesRepo) FindOne(ctx context.Context, noteID, userID string) (*model.Note, error) {
	timer := utils.TrackDBOperation("find", "notes")
	defer timer.ObserveDuration()

	var note model.Note
	err := r.MongoCollection.FindOne(ctx,
		bson.M{"_id": noteID, "user_id": userID}).Decode(&note)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, model.ErrNoteNotFound
		}
		utils.TrackError("database")
		return nil, err
	}
	return &note, nil
}

// Update rewrites the mutable fields of a note, keyed by id and owner.
func (r *NotesRepo) Update(ctx context.Context, note *model.Note) error {
	timer := utils.TrackDBOperation("update", "notes")
	defer timer.ObserveDuration()

	filter := bson.M{"_id": note.ID, "user_id": note.UserID}
	update := bson.M{
		"$set": bson.M{
			"content":          note.Content,
			"tags":             note.Tags,
			"background_color": note.BackgroundColor,
			"archived":         note.Archived,
			"deleted":          note.Deleted,
			"deleted_at":       note.DeletedAt,
			"reminder":         note.Reminder,
			"updated_at":       note.UpdatedAt,
		},
	}

	result, err := r.MongoCollection.UpdateOne(ctx, filter, update)
	if err != nil {
		utils.TrackError("database")
		return err
	}
	if result.MatchedCount == 0 {
		return model.ErrNoteNotFound
	}
	return nil
}

// DeleteFromTrash removes a note permanently. The filter requires the note
// to be in the trash, so purging an active note reports not found.
func (r *NotesRepo) DeleteFromTrash(ctx context.Context, noteID, userID string) error {
	timer := utils.TrackDBOperation("delete", "notes")
	defer timer.ObserveDuration()

	filter := bson.M{"_id": noteID, "user_id": userID, "deleted": true}
	result, err := r.MongoCollection.DeleteOne(ctx, filter)
	if err != nil {
		utils.TrackError("database")
		return err
	}
	if result.DeletedCount == 0 {
		return model.ErrNoteNotFound
	}
	return nil
}

func (r *NotesRepo) FindActive(ctx context.Context, userID string) ([]*model.Note, error) {
	return r.find(ctx, activeFilter(userID))
}

func (r *NotesRepo) FindArchived(ctx context.Context, userID string) ([]*model.Note, error) {
	return r.find(ctx, archivedFilter(userID))
}

func (r *NotesRepo) FindTrash(ctx context.Context, userID string, cutoff time.Time) ([]*model.Note, error) {
	return r.find(ctx, trashFilter(userID, cutoff))
}

func (r *NotesRepo) Search(ctx context.Context, userID, term string) ([]*model.Note, error) {
	return r.find(ctx, searchFilter(userID, term))
}

func (r *NotesRepo) FindByTag(ctx context.Context, userID, tag string) ([]*model.Note, error) {
	return r.find(ctx, tagFilter(userID, tag))
}

func (r *NotesRepo) FindReminders(ctx context.Context, userID string, now time.Time) ([]*model.Note, error) {
	opts := options.Find().SetSort(bson.D{{Key: "reminder", Value: 1}})
	return r.find(ctx, reminderFilter(userID, now), opts)
}
