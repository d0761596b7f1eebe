package handler

import (
	"errors"
	"strings"

	"notekeeper/model"
	"notekeeper/usecase"
	"notekeeper/utils"

	"github.com/gin-gonic/gin"
)

func respondNotesError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrNoteNotFound):
		utils.NotFound(c, "Note not found")
	case errors.Is(err, model.ErrContentRequired):
		utils.BadRequest(c, err.Error())
	default:
		utils.InternalError(c, "Error processing note")
	}
}

func GetAllNotesHandler(c *gin.Context, notesService *usecase.NotesService) {
	userID := c.GetString("user_id")

	notes, err := notesService.ListAll(c.Request.Context(), userID)
	if err != nil {
		respondNotesError(c, err)
		return
	}

	utils.Success(c, notes)
}

func GetArchivedNotesHandler(c *gin.Context, notesService *usecase.NotesService) {
	userID := c.GetString("user_id")

	notes, err := notesService.ListArchived(c.Request.Context(), userID)
	if err != nil {
		respondNotesError(c, err)
		return
	}

	utils.Success(c, notes)
}

func GetTrashNotesHandler(c *gin.Context, notesService *usecase.NotesService) {
	userID := c.GetString("user_id")

	notes, err := notesService.ListTrash(c.Request.Context(), userID)
	if err != nil {
		respondNotesError(c, err)
		return
	}

	utils.Success(c, notes)
}

func SearchNotesHandler(c *gin.Context, notesService *usecase.NotesService) {
	userID := c.GetString("user_id")
	term := c.Query("term")

	notes, err := notesService.SearchNotes(c.Request.Context(), userID, term)
	if err != nil {
		respondNotesError(c, err)
		return
	}

	utils.Success(c, notes)
}

func GetNotesByTagHandler(c *gin.Context, notesService *usecase.NotesService) {
	userID := c.GetString("user_id")
	tag := c.Param("tag")

	notes, err := notesService.ListByTag(c.Request.Context(), userID, tag)
	if err != nil {
		respondNotesError(c, err)
		return
	}

	utils.Success(c, notes)
}

func GetRemindersHandler(c *gin.Context, notesService *usecase.NotesService) {
	userID := c.GetString("user_id")

	notes, err := notesService.ListReminders(c.Request.Context(), userID)
	if err != nil {
		respondNotesError(c, err)
		return
	}

	utils.Success(c, notes)
}

func GetNoteHandler(c *gin.Context, notesService *usecase.NotesService) {
	userID := c.GetString("user_id")
	noteID := c.Param("id")

	note, err := notesService.GetNote(c.Request.Context(), userID, noteID)
	if err != nil {
		respondNotesError(c, err)
		return
	}

	utils.Success(c, note)
}

func CreateNoteHandler(c *gin.Context, notesService *usecase.NotesService) {
	userID := c.GetString("user_id")

	var req model.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	note, err := notesService.CreateNote(c.Request.Context(), userID, &req)
	if err != nil {
		respondNotesError(c, err)
		return
	}

	utils.Created(c, note)
}

// UpdateNoteHandler accepts a partial body and dispatches each present field
// group onto its named lifecycle operation: deleted toggles trash/restore,
// archived toggles the archive flag, the rest is a content edit.
func UpdateNoteHandler(c *gin.Context, notesService *usecase.NotesService) {
	userID := c.GetString("user_id")
	noteID := c.Param("id")

	var req model.UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request body")
		return
	}

	// The whole body must be valid before any dispatch, so a bad edit
	// cannot leave an earlier lifecycle transition committed.
	if req.Content != nil && strings.TrimSpace(*req.Content) == "" {
		respondNotesError(c, model.ErrContentRequired)
		return
	}

	ctx := c.Request.Context()
	var note *model.Note
	var err error

	if req.Deleted != nil {
		if *req.Deleted {
			note, err = notesService.SoftDelete(ctx, userID, noteID)
		} else {
			note, err = notesService.Restore(ctx, userID, noteID)
		}
		if err != nil {
			respondNotesError(c, err)
			return
		}
	}

	if req.Archived != nil {
		note, err = notesService.SetArchived(ctx, userID, noteID, *req.Archived)
		if err != nil {
			respondNotesError(c, err)
			return
		}
	}

	changes := model.NoteChanges{
		Content:         req.Content,
		Tags:            req.Tags,
		BackgroundColor: req.BackgroundColor,
		Reminder:        req.Reminder,
	}
	if !changes.Empty() {
		note, err = notesService.EditNote(ctx, userID, noteID, changes)
		if err != nil {
			respondNotesError(c, err)
			return
		}
	}

	// Empty body: nothing changed, report the current state.
	if note == nil {
		note, err = notesService.GetNote(ctx, userID, noteID)
		if err != nil {
			respondNotesError(c, err)
			return
		}
	}

	utils.Success(c, note)
}

func DeleteNoteHandler(c *gin.Context, notesService *usecase.NotesService) {
	userID := c.GetString("user_id")
	noteID := c.Param("id")

	if _, err := notesService.SoftDelete(c.Request.Context(), userID, noteID); err != nil {
		respondNotesError(c, err)
		return
	}

	utils.Success(c, gin.H{"message": "Note moved to trash"})
}

func PurgeNoteHandler(c *gin.Context, notesService *usecase.NotesService) {
	userID := c.GetString("user_id")
	noteID := c.Param("id")

	if err := notesService.Purge(c.Request.Context(), userID, noteID); err != nil {
		respondNotesError(c, err)
		return
	}

	utils.Success(c, gin.H{"message": "Note permanently deleted"})
}
