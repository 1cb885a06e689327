package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/selene-notes/selene/pkg/domain/model"
)

type noteEntry struct {
	note *model.Note
	seq  uint64 // creation order, tie-breaker for equal timestamps
}

type noteRepository struct {
	mu      sync.RWMutex
	notes   map[model.NoteID]*noteEntry
	nextSeq uint64
}

func newNoteRepository() *noteRepository {
	return &noteRepository{
		notes: make(map[model.NoteID]*noteEntry),
	}
}

func copyNote(n *model.Note) *model.Note {
	copied := *n
	if n.Analysis != nil {
		a := *n.Analysis
		copied.Analysis = &a
	}
	return &copied
}

func (r *noteRepository) Create(ctx context.Context, note *model.Note) (*model.Note, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := copyNote(note)
	if created.ID == "" {
		created.ID = model.NewNoteID()
	}
	created.Timestamp = now
	created.UpdatedAt = now

	r.nextSeq++
	r.notes[created.ID] = &noteEntry{note: created, seq: r.nextSeq}

	// Propagate assigned fields back, matching the Firestore backend
	note.ID = created.ID
	note.Timestamp = created.Timestamp
	note.UpdatedAt = created.UpdatedAt

	return copyNote(created), nil
}

func (r *noteRepository) Get(ctx context.Context, id model.NoteID) (*model.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, exists := r.notes[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "note not found", goerr.V("id", id))
	}

	return copyNote(entry.note), nil
}

func (r *noteRepository) Update(ctx context.Context, id model.NoteID, patch model.NotePatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, exists := r.notes[id]
	if !exists {
		return goerr.Wrap(ErrNotFound, "note not found", goerr.V("id", id))
	}

	if patch.IsZero() {
		return nil
	}

	patch.Apply(entry.note, time.Now().UTC())
	return nil
}

func (r *noteRepository) Delete(ctx context.Context, id model.NoteID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.notes[id]; !exists {
		return goerr.Wrap(ErrNotFound, "note not found", goerr.V("id", id))
	}

	delete(r.notes, id)
	return nil
}

func (r *noteRepository) sortedByTimestampDesc() []*noteEntry {
	entries := make([]*noteEntry, 0, len(r.notes))
	for _, e := range r.notes {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		ti, tj := entries[i].note.Timestamp, entries[j].note.Timestamp
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return entries[i].seq > entries[j].seq
	})
	return entries
}

func (r *noteRepository) List(ctx context.Context, limit, offset int) ([]*model.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.sortedByTimestampDesc()
	if offset >= len(entries) {
		return []*model.Note{}, nil
	}
	entries = entries[offset:]
	if limit < len(entries) {
		entries = entries[:limit]
	}

	result := make([]*model.Note, len(entries))
	for i, e := range entries {
		result[i] = copyNote(e.note)
	}
	return result, nil
}

func (r *noteRepository) searchByPrefix(prefix string, limit int, key func(*model.Note) string) []*model.Note {
	var matched []*noteEntry
	for _, e := range r.notes {
		if strings.HasPrefix(key(e.note), prefix) {
			matched = append(matched, e)
		}
	}

	// Same ordering as the Firestore composite index: match key ascending,
	// then creation timestamp descending.
	sort.Slice(matched, func(i, j int) bool {
		ki, kj := key(matched[i].note), key(matched[j].note)
		if ki != kj {
			return ki < kj
		}
		ti, tj := matched[i].note.Timestamp, matched[j].note.Timestamp
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return matched[i].seq > matched[j].seq
	})

	if limit < len(matched) {
		matched = matched[:limit]
	}

	result := make([]*model.Note, len(matched))
	for i, e := range matched {
		result[i] = copyNote(e.note)
	}
	return result
}

func (r *noteRepository) SearchText(ctx context.Context, prefix string, limit int) ([]*model.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.searchByPrefix(prefix, limit, func(n *model.Note) string {
		return n.TextLower
	}), nil
}

func (r *noteRepository) SearchAnalysis(ctx context.Context, prefix string, limit int) ([]*model.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.searchByPrefix(prefix, limit, func(n *model.Note) string {
		if n.Analysis == nil {
			return ""
		}
		return n.Analysis.Strategy
	}), nil
}

func (r *noteRepository) BackfillTextLower(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	updated := 0
	for _, e := range r.notes {
		n := e.note
		if n.TextLower != "" || n.Text == "" || n.Text == model.PlaceholderText {
			continue
		}
		n.TextLower = strings.ToLower(n.Text)
		n.UpdatedAt = now
		updated++
	}

	return updated, nil
}
