package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"notekeeper/model"
	"notekeeper/repository"
	"notekeeper/utils"

	"github.com/google/uuid"
)

// NotesStore is the persistence surface the lifecycle service runs on.
// Every method is owner-scoped; a lookup that misses or hits a foreign
// owner returns model.ErrNoteNotFound.
type NotesStore interface {
	Insert(ctx context.Context, note *model.Note) error
	FindOne(ctx context.Context, noteID, userID string) (*model.Note, error)
	Update(ctx context.Context, note *model.Note) error
	DeleteFromTrash(ctx context.Context, noteID, userID string) error
	FindActive(ctx context.Context, userID string) ([]*model.Note, error)
	FindArchived(ctx context.Context, userID string) ([]*model.Note, error)
	FindTrash(ctx context.Context, userID string, cutoff time.Time) ([]*model.Note, error)
	Search(ctx context.Context, userID, term string) ([]*model.Note, error)
	FindByTag(ctx context.Context, userID, tag string) ([]*model.Note, error)
	FindReminders(ctx context.Context, userID string, now time.Time) ([]*model.Note, error)
}

// NotesService mediates every state change and query against notes. It owns
// the lifecycle rules: active -> archived/unarchived, active -> trashed ->
// restored or purged.
type NotesService struct {
	NotesRepo NotesStore

	// Now is swappable so tests can pin the clock.
	Now func() time.Time
}

func NewNotesService(repo NotesStore) *NotesService {
	return &NotesService{
		NotesRepo: repo,
		Now:       time.Now,
	}
}

func (svc *NotesService) now() time.Time {
	if svc.Now != nil {
		return svc.Now()
	}
	return time.Now()
}

func normalizeTags(tags []string) []string {
	normalized := make([]string, 0, len(tags))
	for _, tag := range tags {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			normalized = append(normalized, trimmed)
		}
	}
	return normalized
}

func (svc *NotesService) CreateNote(ctx context.Context, userID string, req *model.CreateNoteRequest) (*model.Note, error) {
	if userID == "" {
		return nil, errors.New("user ID is required")
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, model.ErrContentRequired
	}

	color := req.BackgroundColor
	if color == "" {
		color = model.DefaultBackgroundColor
	}

	now := svc.now()
	note := &model.Note{
		ID:              uuid.New().String(),
		UserID:          userID,
		Content:         req.Content,
		Tags:            normalizeTags(req.Tags),
		BackgroundColor: color,
		Archived:        false,
		Deleted:         false,
		Reminder:        req.Reminder,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := svc.NotesRepo.Insert(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	utils.TrackNoteOperation("create")
	return note, nil
}

func (svc *NotesService) GetNote(ctx context.Context, userID, noteID string) (*model.Note, error) {
	return svc.NotesRepo.FindOne(ctx, noteID, userID)
}

// EditNote applies content, tag, color and reminder changes. Archive, trash
// and restore are separate operations and are not reachable from here.
func (svc *NotesService) EditNote(ctx context.Context, userID, noteID string, changes model.NoteChanges) (*model.Note, error) {
	note, err := svc.NotesRepo.FindOne(ctx, noteID, userID)
	if err != nil {
		return nil, err
	}

	if changes.Content != nil {
		if strings.TrimSpace(*changes.Content) == "" {
			return nil, model.ErrContentRequired
		}
		note.Content = *changes.Content
	}
	if changes.Tags != nil {
		note.Tags = normalizeTags(*changes.Tags)
	}
	if changes.BackgroundColor != nil {
		note.BackgroundColor = *changes.BackgroundColor
	}
	if changes.Reminder != nil {
		note.Reminder = changes.Reminder
	}
	note.UpdatedAt = svc.now()

	if err := svc.NotesRepo.Update(ctx, note); err != nil {
		return nil, err
	}

	utils.TrackNoteOperation("edit")
	return note, nil
}

func (svc *NotesService) SetArchived(ctx context.Context, userID, noteID string, archived bool) (*model.Note, error) {
	note, err := svc.NotesRepo.FindOne(ctx, noteID, userID)
	if err != nil {
		return nil, err
	}

	note.Archived = archived
	note.UpdatedAt = svc.now()

	if err := svc.NotesRepo.Update(ctx, note); err != nil {
		return nil, err
	}

	utils.TrackNoteOperation("archive")
	return note, nil
}

// SoftDelete moves a note to the trash and stamps deleted_at, which starts
// the retention window.
func (svc *NotesService) SoftDelete(ctx context.Context, userID, noteID string) (*model.Note, error) {
	note, err := svc.NotesRepo.FindOne(ctx, noteID, userID)
	if err != nil {
		return nil, err
	}

	now := svc.now()
	note.Deleted = true
	note.DeletedAt = &now
	note.UpdatedAt = now

	if err := svc.NotesRepo.Update(ctx, note); err != nil {
		return nil, err
	}

	utils.TrackNoteOperation("trash")
	return note, nil
}

// Restore takes a note out of the trash and clears deleted_at.
func (svc *NotesService) Restore(ctx context.Context, userID, noteID string) (*model.Note, error) {
	note, err := svc.NotesRepo.FindOne(ctx, noteID, userID)
	if err != nil {
		return nil, err
	}

	note.Deleted = false
	note.DeletedAt = nil
	note.UpdatedAt = svc.now()

	if err := svc.NotesRepo.Update(ctx, note); err != nil {
		return nil, err
	}

	utils.TrackNoteOperation("restore")
	return note, nil
}

// Purge removes a note permanently. It only succeeds when the note is
// currently in the trash; anything else reports not found.
func (svc *NotesService) Purge(ctx context.Context, userID, noteID string) error {
	if err := svc.NotesRepo.DeleteFromTrash(ctx, noteID, userID); err != nil {
		return err
	}

	utils.TrackNoteOperation("purge")
	return nil
}

func (svc *NotesService) ListAll(ctx context.Context, userID string) ([]*model.Note, error) {
	return svc.NotesRepo.FindActive(ctx, userID)
}

func (svc *NotesService) ListArchived(ctx context.Context, userID string) ([]*model.Note, error) {
	return svc.NotesRepo.FindArchived(ctx, userID)
}

// ListTrash returns trashed notes whose deletion is within the retention
// window, relative to call time.
func (svc *NotesService) ListTrash(ctx context.Context, userID string) ([]*model.Note, error) {
	cutoff := svc.now().Add(-repository.TrashRetention)
	return svc.NotesRepo.FindTrash(ctx, userID, cutoff)
}

// SearchNotes matches the term case-insensitively as a substring of the
// content or of any tag. An empty term lists everything.
func (svc *NotesService) SearchNotes(ctx context.Context, userID, term string) ([]*model.Note, error) {
	if strings.TrimSpace(term) == "" {
		return svc.NotesRepo.FindActive(ctx, userID)
	}
	return svc.NotesRepo.Search(ctx, userID, term)
}

func (svc *NotesService) ListByTag(ctx context.Context, userID, tag string) ([]*model.Note, error) {
	return svc.NotesRepo.FindByTag(ctx, userID, tag)
}

// ListReminders returns notes with an upcoming reminder, soonest first.
func (svc *NotesService) ListReminders(ctx context.Context, userID string) ([]*model.Note, error) {
	return svc.NotesRepo.FindReminders(ctx, userID, svc.now())
}
