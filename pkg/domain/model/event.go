package model

// NoteEventType identifies a relay broadcast event
type NoteEventType string

const (
	// NoteEventCreated is broadcast when a note is created
	NoteEventCreated NoteEventType = "noteCreated"
	// NoteEventDeleted is broadcast when a note is deleted
	NoteEventDeleted NoteEventType = "noteDeleted"
)

// NoteEvent is the payload fanned out to connected viewers. Delivery is
// best-effort only; the store remains the source of truth and viewers
// re-fetch from it independently of relay messages.
type NoteEvent struct {
	Type NoteEventType `json:"type"`
	Note *Note         `json:"note,omitempty"`
	ID   NoteID        `json:"id,omitempty"`
}
