package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// Not found errors
	ErrNoteNotFound = errors.New("note not found")

	// Input errors
	ErrInvalidInput = errors.New("invalid input")
	ErrEmptyText    = errors.New("text is required")

	// Collaborator availability errors
	ErrTranscriberUnavailable = errors.New("transcriber is not configured")
	ErrAnalyzerUnavailable    = errors.New("analyzer is not configured")
	ErrCardScannerUnavailable = errors.New("card scanner is not configured")

	// OCR errors
	ErrNoTextDetected = errors.New("no text detected in image")
)

// Context keys for error values
const (
	NoteIDKey = "note_id"
	CardIDKey = "card_id"
)
