package interfaces

import (
	"context"

	"github.com/selene-notes/selene/pkg/domain/model"
)

// NoteRepository defines the interface for Note data access.
//
// Single calls are atomic for the fields they touch; sequences of calls are
// not. There is deliberately no read-modify-write locking across calls: two
// concurrent writers to the same note race and the last write wins.
type NoteRepository interface {
	// Create persists a new note, assigning its ID and creation timestamp
	Create(ctx context.Context, note *model.Note) (*model.Note, error)

	// Get retrieves a note by ID. Returns ErrNotFound if absent.
	Get(ctx context.Context, id model.NoteID) (*model.Note, error)

	// Update applies a partial update to an existing note and sets
	// UpdatedAt. Returns ErrNotFound if the note does not exist.
	Update(ctx context.Context, id model.NoteID, patch model.NotePatch) error

	// Delete removes a note. Returns ErrNotFound if the note does not
	// exist; there is no soft delete or tombstone.
	Delete(ctx context.Context, id model.NoteID) error

	// List returns up to limit notes ordered by creation timestamp
	// descending, skipping offset rows. Callers fetch limit+1 rows to
	// detect whether more pages exist without a count query.
	List(ctx context.Context, limit, offset int) ([]*model.Note, error)

	// SearchText returns up to limit notes whose lowercase text starts
	// with prefix, ordered by text then creation timestamp descending.
	SearchText(ctx context.Context, prefix string, limit int) ([]*model.Note, error)

	// SearchAnalysis returns up to limit notes whose analysis strategy
	// starts with prefix, ordered by strategy then creation timestamp
	// descending.
	SearchAnalysis(ctx context.Context, prefix string, limit int) ([]*model.Note, error)

	// BackfillTextLower populates the lowercase text mirror on legacy
	// documents that predate search support. Documents still holding the
	// transcription placeholder are skipped. Returns the number of
	// documents updated.
	BackfillTextLower(ctx context.Context) (int, error)
}
