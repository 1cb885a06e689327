package types

import "fmt"

// NoteSource records the provenance of a note's current text
type NoteSource string

const (
	// NoteSourceRecording means the text came from an audio transcription
	NoteSourceRecording NoteSource = "recording"
	// NoteSourceManual means the text was typed in directly
	NoteSourceManual NoteSource = "manual"
	// NoteSourceEdited means the text was rewritten by the user after creation
	NoteSourceEdited NoteSource = "edited"
)

// AllNoteSources returns all valid note sources
func AllNoteSources() []NoteSource {
	return []NoteSource{
		NoteSourceRecording,
		NoteSourceManual,
		NoteSourceEdited,
	}
}

// IsValid checks if the note source is valid
func (s NoteSource) IsValid() bool {
	switch s {
	case NoteSourceRecording,
		NoteSourceManual,
		NoteSourceEdited:
		return true
	default:
		return false
	}
}

// String returns the string representation of the note source
func (s NoteSource) String() string {
	return string(s)
}

// ParseNoteSource parses a string into a NoteSource
func ParseNoteSource(s string) (NoteSource, error) {
	source := NoteSource(s)
	if !source.IsValid() {
		return "", fmt.Errorf("invalid note source: %s", s)
	}
	return source, nil
}
