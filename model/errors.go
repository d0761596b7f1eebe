package model

import "errors"

// Domain errors surfaced by the usecase layer. Handlers translate these to
// HTTP statuses; everything else is reported as an internal error.
var (
	// ErrNoteNotFound covers both a missing note and a note owned by
	// somebody else, so a caller cannot probe for foreign note IDs.
	ErrNoteNotFound = errors.New("note not found")

	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameTaken is returned at registration when the username
	// already exists.
	ErrUsernameTaken = errors.New("username already exists")

	ErrContentRequired = errors.New("note content is required")

	ErrInvalidCredentials = errors.New("invalid credentials")
)
