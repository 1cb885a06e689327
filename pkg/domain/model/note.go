package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/selene-notes/selene/pkg/domain/types"
)

// PlaceholderText is stored as a note's text while audio transcription is in
// flight. Backfill jobs skip documents that still carry it.
const PlaceholderText = "Processing..."

// NoteID is a UUID-based identifier for a Note
type NoteID string

// NewNoteID generates a new UUID v4 NoteID
func NewNoteID() NoteID {
	return NoteID(uuid.New().String())
}

// String returns the string representation of the note ID
func (id NoteID) String() string {
	return string(id)
}

// Note is a persisted transcription record with lifecycle status.
// TextLower mirrors Text in lowercase and exists only to serve
// case-insensitive prefix search; it must be rewritten on every text write.
type Note struct {
	ID        NoteID           `json:"id"`
	Text      string           `json:"text"`
	TextLower string           `json:"textLower"`
	Status    types.NoteStatus `json:"status"`
	Metadata  NoteMetadata     `json:"metadata"`
	Analysis  *Analysis        `json:"analysis,omitempty"`
	Error     string           `json:"error,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// NoteMetadata holds provenance and bookkeeping for the note's current text
type NoteMetadata struct {
	Source     types.NoteSource `json:"source"`
	WordCount  int              `json:"wordCount"`
	Duration   float64          `json:"duration,omitempty"`
	Language   string           `json:"language,omitempty"`
	Confidence float64          `json:"confidence,omitempty"`
}

// Analysis is the LLM strategy narrative attached to an analyzed note
type Analysis struct {
	Strategy  string    `json:"strategy"`
	Model     string    `json:"model"`
	Timestamp time.Time `json:"timestamp"`
}

// WordCount counts whitespace-delimited tokens the same way the web client
// does: a naive split on single spaces. An empty string therefore counts as
// one token. This is not a linguistic word count and must stay in sync with
// what existing documents already carry.
func WordCount(text string) int {
	return len(strings.Split(text, " "))
}

// NewTextNote builds a draft note from user-provided text. The stored text is
// deliberately not trimmed; callers validate emptiness before calling.
func NewTextNote(text string, source types.NoteSource) *Note {
	return &Note{
		Text:      text,
		TextLower: strings.ToLower(text),
		Status:    types.NoteStatusDraft,
		Metadata: NoteMetadata{
			Source:    source,
			WordCount: WordCount(text),
		},
	}
}

// NewProcessingNote builds the placeholder note created before an audio
// transcription completes.
func NewProcessingNote() *Note {
	return &Note{
		Text:      PlaceholderText,
		TextLower: strings.ToLower(PlaceholderText),
		Status:    types.NoteStatusProcessing,
		Metadata: NoteMetadata{
			Source: types.NoteSourceRecording,
		},
	}
}
