package service

import "errors"

// Common errors returned by the service layer
var (
	// ErrNoteRejected is returned when AnkiConnect declines to add a note,
	// which almost always means a duplicate of an existing note.
	ErrNoteRejected = errors.New("note was rejected by Anki (duplicate?)")

	// ErrNoWords is returned when a batch operation receives an empty word list.
	ErrNoWords = errors.New("no words to process")
)
