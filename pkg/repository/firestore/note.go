package firestore

import (
	"context"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/selene-notes/selene/pkg/domain/model"
	"github.com/selene-notes/selene/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// highSentinel is the prefix-range upper bound: a high surrogate code point
// that sorts after any realistic input in Firestore's string ordering, used
// to emulate a starts-with query.
const highSentinel = ""

// noteDoc is the Firestore document representation of model.Note. Field
// names match the documents written by the original web client so existing
// collections keep working.
type noteDoc struct {
	Text      string           `firestore:"text"`
	TextLower string           `firestore:"textLower"`
	Status    types.NoteStatus `firestore:"status"`
	Metadata  noteMetadataDoc  `firestore:"metadata"`
	Analysis  *analysisDoc     `firestore:"analysis,omitempty"`
	Error     string           `firestore:"error,omitempty"`
	Timestamp time.Time        `firestore:"timestamp"`
	UpdatedAt time.Time        `firestore:"updatedAt"`
}

type noteMetadataDoc struct {
	Source     types.NoteSource `firestore:"source"`
	WordCount  int              `firestore:"wordCount"`
	Duration   float64          `firestore:"duration,omitempty"`
	Language   string           `firestore:"language,omitempty"`
	Confidence float64          `firestore:"confidence,omitempty"`
}

type analysisDoc struct {
	Strategy  string    `firestore:"strategy"`
	Model     string    `firestore:"model"`
	Timestamp time.Time `firestore:"timestamp"`
}

func toNoteDoc(n *model.Note) *noteDoc {
	doc := &noteDoc{
		Text:      n.Text,
		TextLower: n.TextLower,
		Status:    n.Status,
		Metadata: noteMetadataDoc{
			Source:     n.Metadata.Source,
			WordCount:  n.Metadata.WordCount,
			Duration:   n.Metadata.Duration,
			Language:   n.Metadata.Language,
			Confidence: n.Metadata.Confidence,
		},
		Error:     n.Error,
		Timestamp: n.Timestamp,
		UpdatedAt: n.UpdatedAt,
	}
	if n.Analysis != nil {
		doc.Analysis = &analysisDoc{
			Strategy:  n.Analysis.Strategy,
			Model:     n.Analysis.Model,
			Timestamp: n.Analysis.Timestamp,
		}
	}
	return doc
}

func docToNote(docSnap *firestore.DocumentSnapshot) (*model.Note, error) {
	var d noteDoc
	if err := docSnap.DataTo(&d); err != nil {
		return nil, err
	}

	n := &model.Note{
		ID:        model.NoteID(docSnap.Ref.ID),
		Text:      d.Text,
		TextLower: d.TextLower,
		Status:    d.Status,
		Metadata: model.NoteMetadata{
			Source:     d.Metadata.Source,
			WordCount:  d.Metadata.WordCount,
			Duration:   d.Metadata.Duration,
			Language:   d.Metadata.Language,
			Confidence: d.Metadata.Confidence,
		},
		Error:     d.Error,
		Timestamp: d.Timestamp,
		UpdatedAt: d.UpdatedAt,
	}
	if d.Analysis != nil {
		n.Analysis = &model.Analysis{
			Strategy:  d.Analysis.Strategy,
			Model:     d.Analysis.Model,
			Timestamp: d.Analysis.Timestamp,
		}
	}
	return n, nil
}

type noteRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newNoteRepository(client *firestore.Client) *noteRepository {
	return &noteRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *noteRepository) notesCollection() *firestore.CollectionRef {
	if r.collectionPrefix != "" {
		return r.client.Collection(r.collectionPrefix + "_transcriptions")
	}
	return r.client.Collection("transcriptions")
}

func (r *noteRepository) Create(ctx context.Context, note *model.Note) (*model.Note, error) {
	now := time.Now().UTC()
	if note.ID == "" {
		note.ID = model.NewNoteID()
	}
	note.Timestamp = now
	note.UpdatedAt = now

	docRef := r.notesCollection().Doc(string(note.ID))
	if _, err := docRef.Set(ctx, toNoteDoc(note)); err != nil {
		return nil, goerr.Wrap(err, "failed to create note", goerr.V("id", note.ID))
	}

	return note, nil
}

func (r *noteRepository) Get(ctx context.Context, id model.NoteID) (*model.Note, error) {
	docSnap, err := r.notesCollection().Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "note not found", goerr.V("id", id))
		}
		return nil, goerr.Wrap(err, "failed to get note", goerr.V("id", id))
	}

	n, err := docToNote(docSnap)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to decode note", goerr.V("id", id))
	}

	return n, nil
}

func patchToUpdates(patch model.NotePatch, now time.Time) []firestore.Update {
	updates := []firestore.Update{
		{Path: "updatedAt", Value: now},
	}
	if patch.Text != nil {
		updates = append(updates, firestore.Update{Path: "text", Value: *patch.Text})
	}
	if patch.TextLower != nil {
		updates = append(updates, firestore.Update{Path: "textLower", Value: *patch.TextLower})
	}
	if patch.Status != nil {
		updates = append(updates, firestore.Update{Path: "status", Value: *patch.Status})
	}
	if patch.Source != nil {
		updates = append(updates, firestore.Update{Path: "metadata.source", Value: *patch.Source})
	}
	if patch.WordCount != nil {
		updates = append(updates, firestore.Update{Path: "metadata.wordCount", Value: *patch.WordCount})
	}
	if patch.Analysis != nil {
		updates = append(updates, firestore.Update{Path: "analysis", Value: &analysisDoc{
			Strategy:  patch.Analysis.Strategy,
			Model:     patch.Analysis.Model,
			Timestamp: patch.Analysis.Timestamp,
		}})
	}
	if patch.Error != nil {
		updates = append(updates, firestore.Update{Path: "error", Value: *patch.Error})
	}
	return updates
}

func (r *noteRepository) Update(ctx context.Context, id model.NoteID, patch model.NotePatch) error {
	if patch.IsZero() {
		return nil
	}

	docRef := r.notesCollection().Doc(string(id))
	if _, err := docRef.Update(ctx, patchToUpdates(patch, time.Now().UTC())); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "note not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to update note", goerr.V("id", id))
	}

	return nil
}

func (r *noteRepository) Delete(ctx context.Context, id model.NoteID) error {
	docRef := r.notesCollection().Doc(string(id))

	// Firestore deletes are no-ops for absent documents, so check first to
	// honor the NotFound contract.
	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "note not found", goerr.V("id", id))
		}
		return goerr.Wrap(err, "failed to check note existence", goerr.V("id", id))
	}

	if _, err := docRef.Delete(ctx); err != nil {
		return goerr.Wrap(err, "failed to delete note", goerr.V("id", id))
	}

	return nil
}

func (r *noteRepository) List(ctx context.Context, limit, offset int) ([]*model.Note, error) {
	iter := r.notesCollection().
		OrderBy("timestamp", firestore.Desc).
		Offset(offset).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	return collectNotes(iter)
}

func (r *noteRepository) SearchText(ctx context.Context, prefix string, limit int) ([]*model.Note, error) {
	iter := r.notesCollection().
		Where("textLower", ">=", prefix).
		Where("textLower", "<", prefix+highSentinel).
		OrderBy("textLower", firestore.Asc).
		OrderBy("timestamp", firestore.Desc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	return collectNotes(iter)
}

func (r *noteRepository) SearchAnalysis(ctx context.Context, prefix string, limit int) ([]*model.Note, error) {
	iter := r.notesCollection().
		Where("analysis.strategy", ">=", prefix).
		Where("analysis.strategy", "<", prefix+highSentinel).
		OrderBy("analysis.strategy", firestore.Asc).
		OrderBy("timestamp", firestore.Desc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	return collectNotes(iter)
}

func (r *noteRepository) BackfillTextLower(ctx context.Context) (int, error) {
	iter := r.notesCollection().Documents(ctx)
	defer iter.Stop()

	now := time.Now().UTC()
	updated := 0
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return updated, goerr.Wrap(err, "failed to iterate notes for backfill")
		}

		var d noteDoc
		if err := docSnap.DataTo(&d); err != nil {
			return updated, goerr.Wrap(err, "failed to decode note", goerr.V("doc_id", docSnap.Ref.ID))
		}

		if d.TextLower != "" || d.Text == "" || d.Text == model.PlaceholderText {
			continue
		}

		lower := strings.ToLower(d.Text)
		patch := model.NotePatch{TextLower: &lower}
		if _, err := docSnap.Ref.Update(ctx, patchToUpdates(patch, now)); err != nil {
			return updated, goerr.Wrap(err, "failed to backfill note", goerr.V("doc_id", docSnap.Ref.ID))
		}
		updated++
	}

	return updated, nil
}

func collectNotes(iter *firestore.DocumentIterator) ([]*model.Note, error) {
	var notes []*model.Note
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate notes")
		}

		n, err := docToNote(docSnap)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to decode note", goerr.V("doc_id", docSnap.Ref.ID))
		}

		notes = append(notes, n)
	}

	return notes, nil
}
