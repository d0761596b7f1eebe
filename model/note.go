package model

import (
	"time"
)

const DefaultBackgroundColor = "#ffffff"

type Note struct {
	ID              string     `bson:"_id,omitempty" json:"id"`
	UserID          string     `bson:"user_id" json:"user_id"`
	Content         string     `bson:"content" json:"content"`
	Tags            []string   `bson:"tags,omitempty" json:"tags,omitempty"`
	BackgroundColor string     `bson:"background_color" json:"backgroundColor"`
	Archived        bool       `bson:"archived" json:"archived"`
	Deleted         bool       `bson:"deleted" json:"deleted"`
	DeletedAt       *time.Time `bson:"deleted_at,omitempty" json:"deletedAt,omitempty"`
	Reminder        *time.Time `bson:"reminder,omitempty" json:"reminder,omitempty"`
	CreatedAt       time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `bson:"updated_at" json:"updated_at"`
}

// CreateNoteRequest carries the fields a client may set at creation time.
type CreateNoteRequest struct {
	Content         string     `json:"content"`
	Tags            []string   `json:"tags"`
	BackgroundColor string     `json:"backgroundColor"`
	Reminder        *time.Time `json:"reminder"`
}

// UpdateNoteRequest is the partial-update body of PUT /notes/:id. Nil fields
// are left untouched.
type UpdateNoteRequest struct {
	Content         *string    `json:"content"`
	Tags            *[]string  `json:"tags"`
	BackgroundColor *string    `json:"backgroundColor"`
	Reminder        *time.Time `json:"reminder"`
	Archived        *bool      `json:"archived"`
	Deleted         *bool      `json:"deleted"`
}

// NoteChanges is the set of editable fields accepted by the edit operation.
// Archive, trash and restore have their own operations.
type NoteChanges struct {
	Content         *string
	Tags            *[]string
	BackgroundColor *string
	Reminder        *time.Time
}

func (ch NoteChanges) Empty() bool {
	return ch.Content == nil && ch.Tags == nil &&
		ch.BackgroundColor == nil && ch.Reminder == nil
}
