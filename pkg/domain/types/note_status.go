package types

import "fmt"

// NoteStatus represents the lifecycle status of a note
type NoteStatus string

const (
	// NoteStatusDraft is a transcript waiting for the user to edit or submit
	NoteStatusDraft NoteStatus = "draft"
	// NoteStatusProcessing is set while transcription or analysis is in flight
	NoteStatusProcessing NoteStatus = "processing"
	// NoteStatusCompleted is a saved transcript from the legacy save path
	NoteStatusCompleted NoteStatus = "completed"
	// NoteStatusAnalyzed is set once a strategy analysis has been stored
	NoteStatusAnalyzed NoteStatus = "analyzed"
	// NoteStatusError records a failed transcription or analysis
	NoteStatusError NoteStatus = "error"
)

// AllNoteStatuses returns all valid note statuses
func AllNoteStatuses() []NoteStatus {
	return []NoteStatus{
		NoteStatusDraft,
		NoteStatusProcessing,
		NoteStatusCompleted,
		NoteStatusAnalyzed,
		NoteStatusError,
	}
}

// IsValid checks if the note status is valid
func (s NoteStatus) IsValid() bool {
	switch s {
	case NoteStatusDraft,
		NoteStatusProcessing,
		NoteStatusCompleted,
		NoteStatusAnalyzed,
		NoteStatusError:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the status is an end state of the lifecycle.
// Both terminal states remain editable; a later edit moves the note back to draft.
func (s NoteStatus) IsTerminal() bool {
	return s == NoteStatusAnalyzed || s == NoteStatusError
}

// String returns the string representation of the note status
func (s NoteStatus) String() string {
	return string(s)
}

// ParseNoteStatus parses a string into a NoteStatus
func ParseNoteStatus(s string) (NoteStatus, error) {
	status := NoteStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid note status: %s", s)
	}
	return status, nil
}
