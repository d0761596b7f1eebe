package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"sort"
	"strings"
	"testing"
	"time"

	"notekeeper/model"
	"notekeeper/usecase"
	"notekeeper/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func init() {
	os.Setenv("GO_ENV", "test")
	gin.SetMode(gin.TestMode)
	utils.InitValidator()
	utils.InitJWT()
}

// memNotesStore is an in-memory usecase.NotesStore for handler tests.
type memNotesStore struct {
	notes map[string]*model.Note
}

func newMemNotesStore() *memNotesStore {
	return &memNotesStore{notes: make(map[string]*model.Note)}
}

func (s *memNotesStore) Insert(_ context.Context, note *model.Note) error {
	cp := *note
	s.notes[note.ID] = &cp
	return nil
}

func (s *memNotesStore) FindOne(_ context.Context, noteID, userID string) (*model.Note, error) {
	note, ok := s.notes[noteID]
	if !ok || note.UserID != userID {
		return nil, model.ErrNoteNotFound
	}
	cp := *note
	return &cp, nil
}

func (s *memNotesStore) Update(_ context.Context, note *model.Note) error {
	existing, ok := s.notes[note.ID]
	if !ok || existing.UserID != note.UserID {
		return model.ErrNoteNotFound
	}
	cp := *note
	s.notes[note.ID] = &cp
	return nil
}

func (s *memNotesStore) DeleteFromTrash(_ context.Context, noteID, userID string) error {
	note, ok := s.notes[noteID]
	if !ok || note.UserID != userID || !note.Deleted {
		return model.ErrNoteNotFound
	}
	delete(s.notes, noteID)
	return nil
}

func (s *memNotesStore) collect(pred func(*model.Note) bool) []*model.Note {
	result := []*model.Note{}
	for _, note := range s.notes {
		if pred(note) {
			cp := *note
			result = append(result, &cp)
		}
	}
	return result
}

func (s *memNotesStore) FindActive(_ context.Context, userID string) ([]*model.Note, error) {
	return s.collect(func(n *model.Note) bool {
		return n.UserID == userID && !n.Deleted
	}), nil
}

func (s *memNotesStore) FindArchived(_ context.Context, userID string) ([]*model.Note, error) {
	return s.collect(func(n *model.Note) bool {
		return n.UserID == userID && !n.Deleted && n.Archived
	}), nil
}

func (s *memNotesStore) FindTrash(_ context.Context, userID string, cutoff time.Time) ([]*model.Note, error) {
	return s.collect(func(n *model.Note) bool {
		return n.UserID == userID && n.Deleted &&
			n.DeletedAt != nil && !n.DeletedAt.Before(cutoff)
	}), nil
}

func matchFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func tagMatch(tags []string, term string) bool {
	for _, tag := range tags {
		if matchFold(tag, term) {
			return true
		}
	}
	return false
}

func (s *memNotesStore) Search(_ context.Context, userID, term string) ([]*model.Note, error) {
	return s.collect(func(n *model.Note) bool {
		return n.UserID == userID && !n.Deleted &&
			(matchFold(n.Content, term) || tagMatch(n.Tags, term))
	}), nil
}

func (s *memNotesStore) FindByTag(_ context.Context, userID, tag string) ([]*model.Note, error) {
	return s.collect(func(n *model.Note) bool {
		return n.UserID == userID && !n.Deleted && tagMatch(n.Tags, tag)
	}), nil
}

func (s *memNotesStore) FindReminders(_ context.Context, userID string, now time.Time) ([]*model.Note, error) {
	notes := s.collect(func(n *model.Note) bool {
		return n.UserID == userID && !n.Deleted &&
			n.Reminder != nil && !n.Reminder.Before(now)
	})
	sort.Slice(notes, func(i, j int) bool {
		return notes[i].Reminder.Before(*notes[j].Reminder)
	})
	return notes, nil
}

// newNotesRouter wires the notes routes behind a stub identity middleware
// that reads the caller from the X-User-ID header.
func newNotesRouter(notesService *usecase.NotesService) *gin.Engine {
	router := gin.New()
	identify := func(c *gin.Context) {
		c.Set("user_id", c.GetHeader("X-User-ID"))
	}

	notes := router.Group("/notes", identify)
	{
		notes.GET("/all", func(c *gin.Context) { GetAllNotesHandler(c, notesService) })
		notes.GET("/archived", func(c *gin.Context) { GetArchivedNotesHandler(c, notesService) })
		notes.GET("/trash", func(c *gin.Context) { GetTrashNotesHandler(c, notesService) })
		notes.GET("/search", func(c *gin.Context) { SearchNotesHandler(c, notesService) })
		notes.GET("/tag/:tag", func(c *gin.Context) { GetNotesByTagHandler(c, notesService) })
		notes.GET("/reminders", func(c *gin.Context) { GetRemindersHandler(c, notesService) })
		notes.GET("/get/:id", func(c *gin.Context) { GetNoteHandler(c, notesService) })
		notes.POST("", func(c *gin.Context) { CreateNoteHandler(c, notesService) })
		notes.PUT("/:id", func(c *gin.Context) { UpdateNoteHandler(c, notesService) })
		notes.DELETE("/:id", func(c *gin.Context) { DeleteNoteHandler(c, notesService) })
		notes.DELETE("/permanent/:id", func(c *gin.Context) { PurgeNoteHandler(c, notesService) })
	}
	return router
}

type noteEnvelope struct {
	Data  model.Note `json:"data"`
	Error string     `json:"error"`
}

type notesEnvelope struct {
	Data []model.Note `json:"data"`
}

func doRequest(t *testing.T, router *gin.Engine, method, path, userID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-User-ID", userID)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeNote(t *testing.T, w *httptest.ResponseRecorder) model.Note {
	t.Helper()
	var envelope noteEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return envelope.Data
}

func decodeNotes(t *testing.T, w *httptest.ResponseRecorder) []model.Note {
	t.Helper()
	var envelope notesEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return envelope.Data
}

func TestCreateNoteEndpoint(t *testing.T) {
	router := newNotesRouter(usecase.NewNotesService(newMemNotesStore()))
	userID := uuid.New().String()

	t.Run("Created", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPost, "/notes", userID,
			gin.H{"content": "Hello", "tags": []string{"a", "b"}})
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}
		note := decodeNote(t, w)
		if note.ID == "" || note.Content != "Hello" {
			t.Errorf("unexpected created note: %+v", note)
		}
		if note.BackgroundColor != model.DefaultBackgroundColor {
			t.Errorf("expected default color, got %q", note.BackgroundColor)
		}
	})

	t.Run("MissingContent", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPost, "/notes", userID, gin.H{"tags": []string{"a"}})
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})

	t.Run("MalformedBody", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/notes", strings.NewReader("{not json"))
		req.Header.Set("X-User-ID", userID)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})
}

func TestGetNoteEndpoint(t *testing.T) {
	router := newNotesRouter(usecase.NewNotesService(newMemNotesStore()))
	owner := uuid.New().String()

	w := doRequest(t, router, http.MethodPost, "/notes", owner, gin.H{"content": "mine"})
	note := decodeNote(t, w)

	t.Run("Owner", func(t *testing.T) {
		w := doRequest(t, router, http.MethodGet, "/notes/get/"+note.ID, owner, nil)
		if w.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", w.Code)
		}
	})

	t.Run("ForeignOwnerLooksMissing", func(t *testing.T) {
		w := doRequest(t, router, http.MethodGet, "/notes/get/"+note.ID, uuid.New().String(), nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("expected 404 for another user's note, got %d", w.Code)
		}
	})

	t.Run("UnknownID", func(t *testing.T) {
		w := doRequest(t, router, http.MethodGet, "/notes/get/"+uuid.New().String(), owner, nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", w.Code)
		}
	})
}

func TestUpdateNoteEndpoint(t *testing.T) {
	router := newNotesRouter(usecase.NewNotesService(newMemNotesStore()))
	userID := uuid.New().String()

	w := doRequest(t, router, http.MethodPost, "/notes", userID, gin.H{"content": "v1"})
	note := decodeNote(t, w)

	t.Run("ArchiveToggle", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPut, "/notes/"+note.ID, userID, gin.H{"archived": true})
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
		}
		if updated := decodeNote(t, w); !updated.Archived {
			t.Error("expected the archived flag set")
		}

		w = doRequest(t, router, http.MethodGet, "/notes/archived", userID, nil)
		if notes := decodeNotes(t, w); len(notes) != 1 {
			t.Errorf("expected 1 archived note, got %d", len(notes))
		}
	})

	t.Run("ContentEdit", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPut, "/notes/"+note.ID, userID, gin.H{"content": "v2"})
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		updated := decodeNote(t, w)
		if updated.Content != "v2" {
			t.Errorf("expected edited content, got %q", updated.Content)
		}
		if !updated.Archived {
			t.Error("content edit must not clear the archived flag")
		}
	})

	t.Run("EmptyContentRejected", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPut, "/notes/"+note.ID, userID, gin.H{"content": ""})
		if w.Code != http.StatusBadRequest {
			t.Errorf("expected 400, got %d", w.Code)
		}
	})

	t.Run("MixedBodyRejectedWhole", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPut, "/notes/"+note.ID, userID,
			gin.H{"deleted": true, "content": ""})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}

		// The rejected body must not have trashed the note on the way out.
		w = doRequest(t, router, http.MethodGet, "/notes/get/"+note.ID, userID, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if current := decodeNote(t, w); current.Deleted || current.DeletedAt != nil {
			t.Error("rejected update must leave the note untouched")
		}
	})

	t.Run("TrashAndRestoreViaUpdate", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPut, "/notes/"+note.ID, userID, gin.H{"deleted": true})
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if trashed := decodeNote(t, w); !trashed.Deleted || trashed.DeletedAt == nil {
			t.Error("expected deleted flag and timestamp set")
		}

		w = doRequest(t, router, http.MethodPut, "/notes/"+note.ID, userID, gin.H{"deleted": false})
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if restored := decodeNote(t, w); restored.Deleted || restored.DeletedAt != nil {
			t.Error("expected deleted flag and timestamp cleared")
		}
	})

	t.Run("UnknownNote", func(t *testing.T) {
		w := doRequest(t, router, http.MethodPut, "/notes/"+uuid.New().String(), userID, gin.H{"content": "x"})
		if w.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", w.Code)
		}
	})
}

func TestDeleteAndPurgeEndpoints(t *testing.T) {
	router := newNotesRouter(usecase.NewNotesService(newMemNotesStore()))
	userID := uuid.New().String()

	w := doRequest(t, router, http.MethodPost, "/notes", userID, gin.H{"content": "doomed"})
	note := decodeNote(t, w)

	t.Run("PurgeActiveNoteFails", func(t *testing.T) {
		w := doRequest(t, router, http.MethodDelete, "/notes/permanent/"+note.ID, userID, nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("expected 404 purging an active note, got %d", w.Code)
		}
	})

	t.Run("SoftDelete", func(t *testing.T) {
		w := doRequest(t, router, http.MethodDelete, "/notes/"+note.ID, userID, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}

		w = doRequest(t, router, http.MethodGet, "/notes/all", userID, nil)
		if notes := decodeNotes(t, w); len(notes) != 0 {
			t.Errorf("trashed note still listed, got %d notes", len(notes))
		}
		w = doRequest(t, router, http.MethodGet, "/notes/trash", userID, nil)
		if notes := decodeNotes(t, w); len(notes) != 1 {
			t.Errorf("expected 1 note in trash, got %d", len(notes))
		}
	})

	t.Run("PurgeTrashedNote", func(t *testing.T) {
		w := doRequest(t, router, http.MethodDelete, "/notes/permanent/"+note.ID, userID, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}

		// Purge is irreversible; a second attempt misses.
		w = doRequest(t, router, http.MethodDelete, "/notes/permanent/"+note.ID, userID, nil)
		if w.Code != http.StatusNotFound {
			t.Errorf("expected 404 on repeat purge, got %d", w.Code)
		}
	})
}

func TestQueryEndpoints(t *testing.T) {
	router := newNotesRouter(usecase.NewNotesService(newMemNotesStore()))
	userID := uuid.New().String()

	reminder := time.Now().Add(time.Hour).UTC()
	doRequest(t, router, http.MethodPost, "/notes", userID,
		gin.H{"content": "Buy Milk", "reminder": reminder.Format(time.RFC3339)})
	doRequest(t, router, http.MethodPost, "/notes", userID,
		gin.H{"content": "standup agenda", "tags": []string{"Work"}})

	t.Run("SearchMatchesContent", func(t *testing.T) {
		w := doRequest(t, router, http.MethodGet, "/notes/search?term=milk", userID, nil)
		if notes := decodeNotes(t, w); len(notes) != 1 || notes[0].Content != "Buy Milk" {
			t.Errorf("unexpected search results: %+v", notes)
		}
	})

	t.Run("SearchMatchesTag", func(t *testing.T) {
		w := doRequest(t, router, http.MethodGet, "/notes/search?term=work", userID, nil)
		if notes := decodeNotes(t, w); len(notes) != 1 || notes[0].Content != "standup agenda" {
			t.Errorf("unexpected search results: %+v", notes)
		}
	})

	t.Run("EmptyTermListsAll", func(t *testing.T) {
		w := doRequest(t, router, http.MethodGet, "/notes/search", userID, nil)
		if notes := decodeNotes(t, w); len(notes) != 2 {
			t.Errorf("expected 2 notes for an empty term, got %d", len(notes))
		}
	})

	t.Run("TagEndpoint", func(t *testing.T) {
		w := doRequest(t, router, http.MethodGet, "/notes/tag/work", userID, nil)
		if notes := decodeNotes(t, w); len(notes) != 1 {
			t.Errorf("expected 1 work-tagged note, got %d", len(notes))
		}
	})

	t.Run("Reminders", func(t *testing.T) {
		w := doRequest(t, router, http.MethodGet, "/notes/reminders", userID, nil)
		if notes := decodeNotes(t, w); len(notes) != 1 || notes[0].Content != "Buy Milk" {
			t.Errorf("unexpected reminder results: %+v", notes)
		}
	})

	t.Run("OtherUserSeesNothing", func(t *testing.T) {
		w := doRequest(t, router, http.MethodGet, "/notes/all", uuid.New().String(), nil)
		if notes := decodeNotes(t, w); len(notes) != 0 {
			t.Errorf("expected no notes for a different user, got %d", len(notes))
		}
	})
}
