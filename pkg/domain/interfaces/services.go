package interfaces

import (
	"context"

	"github.com/selene-notes/selene/pkg/domain/model"
)

// Transcriber converts an audio payload to text. Implementations are a
// single network round trip with no lifecycle-imposed timeout or
// cancellation beyond the passed context.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error)
}

// Analyzer produces a strategy narrative for a transcript. Prompt wording is
// owned by the implementation; callers treat it as an opaque template with
// one slot for the input text.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (*model.Analysis, error)
}

// TextDetector extracts raw text from an image (OCR)
type TextDetector interface {
	DetectText(ctx context.Context, image []byte) (string, error)
}

// Notifier fans note lifecycle events out to connected viewers. Delivery is
// best-effort; implementations must never fail the originating write.
type Notifier interface {
	NotifyNoteCreated(ctx context.Context, note *model.Note)
	NotifyNoteDeleted(ctx context.Context, id model.NoteID)
}
