package model

import (
	"strings"
	"time"

	"github.com/selene-notes/selene/pkg/domain/types"
)

// NotePatch is a typed partial update against a Note. Nil fields are left
// untouched by the repository; set fields are written atomically in a single
// store update together with UpdatedAt.
type NotePatch struct {
	Text      *string
	TextLower *string
	Status    *types.NoteStatus
	Source    *types.NoteSource
	WordCount *int
	Analysis  *Analysis
	Error     *string
}

// IsZero reports whether the patch would change nothing
func (p NotePatch) IsZero() bool {
	return p.Text == nil && p.TextLower == nil && p.Status == nil &&
		p.Source == nil && p.WordCount == nil && p.Analysis == nil && p.Error == nil
}

// WithStatus returns a copy of the patch with the status set
func (p NotePatch) WithStatus(status types.NoteStatus) NotePatch {
	p.Status = &status
	return p
}

// TextPatch builds the patch for a text rewrite: text, its lowercase mirror,
// the recomputed word count, and the new provenance. Status is left for the
// caller to decide via WithStatus.
func TextPatch(text string, source types.NoteSource) NotePatch {
	lower := strings.ToLower(text)
	count := WordCount(text)
	return NotePatch{
		Text:      &text,
		TextLower: &lower,
		Source:    &source,
		WordCount: &count,
	}
}

// ErrorPatch builds the patch recording an external-service failure. The
// note's text is intentionally untouched so a failed transcription or
// analysis never destroys previously saved content.
func ErrorPatch(msg string) NotePatch {
	status := types.NoteStatusError
	return NotePatch{
		Status: &status,
		Error:  &msg,
	}
}

// AnalysisPatch builds the patch storing a completed analysis
func AnalysisPatch(a Analysis) NotePatch {
	status := types.NoteStatusAnalyzed
	return NotePatch{
		Status:   &status,
		Analysis: &a,
	}
}

// Apply merges the patch into the note in place. Repositories that do not
// support server-side partial updates (the in-memory backend) use this to
// mirror the Firestore field-update semantics.
func (p NotePatch) Apply(n *Note, now time.Time) {
	if p.Text != nil {
		n.Text = *p.Text
	}
	if p.TextLower != nil {
		n.TextLower = *p.TextLower
	}
	if p.Status != nil {
		n.Status = *p.Status
	}
	if p.Source != nil {
		n.Metadata.Source = *p.Source
	}
	if p.WordCount != nil {
		n.Metadata.WordCount = *p.WordCount
	}
	if p.Analysis != nil {
		a := *p.Analysis
		n.Analysis = &a
	}
	if p.Error != nil {
		n.Error = *p.Error
	}
	n.UpdatedAt = now
}
