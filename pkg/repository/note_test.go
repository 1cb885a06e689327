package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/selene-notes/selene/pkg/domain/interfaces"
	"github.com/selene-notes/selene/pkg/domain/model"
	"github.com/selene-notes/selene/pkg/domain/types"
	"github.com/selene-notes/selene/pkg/repository/firestore"
	"github.com/selene-notes/selene/pkg/repository/memory"
)

func isNotFound(err error) bool {
	return errors.Is(err, memory.ErrNotFound) || errors.Is(err, firestore.ErrNotFound)
}

func runNoteRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create assigns ID and timestamps", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		note := model.NewTextNote("Meeting with supplier about pricing", types.NoteSourceManual)
		created, err := repo.Note().Create(ctx, note)
		gt.NoError(t, err).Required()

		gt.String(t, string(created.ID)).NotEqual("")
		gt.Value(t, created.Text).Equal("Meeting with supplier about pricing")
		gt.Value(t, created.TextLower).Equal("meeting with supplier about pricing")
		gt.Value(t, created.Status).Equal(types.NoteStatusDraft)
		gt.Value(t, created.Metadata.Source).Equal(types.NoteSourceManual)
		gt.Number(t, created.Metadata.WordCount).Equal(5)
		gt.Bool(t, created.Timestamp.IsZero()).False()
		gt.Bool(t, created.UpdatedAt.IsZero()).False()

		// Assigned fields are propagated back to the argument
		gt.Value(t, note.ID).Equal(created.ID)
	})

	t.Run("Get retrieves existing note", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Note().Create(ctx, model.NewTextNote("Quarterly targets", types.NoteSourceManual))
		gt.NoError(t, err).Required()

		got, err := repo.Note().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.ID).Equal(created.ID)
		gt.Value(t, got.Text).Equal(created.Text)
		gt.Value(t, got.Status).Equal(created.Status)
	})

	t.Run("Get returns NotFound for absent note", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Note().Get(ctx, model.NewNoteID())
		gt.Error(t, err)
		gt.Bool(t, isNotFound(err)).True()
	})

	t.Run("Update rewrites text fields and bumps UpdatedAt", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Note().Create(ctx, model.NewTextNote("Original Text", types.NoteSourceManual))
		gt.NoError(t, err).Required()

		time.Sleep(10 * time.Millisecond)

		patch := model.TextPatch("Revised Plan For Expansion", types.NoteSourceEdited).WithStatus(types.NoteStatusDraft)
		gt.NoError(t, repo.Note().Update(ctx, created.ID, patch)).Required()

		got, err := repo.Note().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Text).Equal("Revised Plan For Expansion")
		gt.Value(t, got.TextLower).Equal("revised plan for expansion")
		gt.Value(t, got.Metadata.Source).Equal(types.NoteSourceEdited)
		gt.Number(t, got.Metadata.WordCount).Equal(4)
		gt.Bool(t, got.UpdatedAt.After(created.UpdatedAt)).True()
		// Creation timestamp is immutable
		gt.Bool(t, got.Timestamp.Equal(created.Timestamp)).True()
	})

	t.Run("Update stores analysis and status", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Note().Create(ctx, model.NewTextNote("Open a second store", types.NoteSourceManual))
		gt.NoError(t, err).Required()

		analysis := model.Analysis{
			Strategy:  "Expand cautiously with a pop-up first",
			Model:     "gpt-4",
			Timestamp: time.Now().UTC(),
		}
		gt.NoError(t, repo.Note().Update(ctx, created.ID, model.AnalysisPatch(analysis))).Required()

		got, err := repo.Note().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Status).Equal(types.NoteStatusAnalyzed)
		gt.Value(t, got.Analysis).NotNil()
		gt.Value(t, got.Analysis.Strategy).Equal(analysis.Strategy)
		gt.Value(t, got.Analysis.Model).Equal("gpt-4")
	})

	t.Run("Update records error without touching text", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Note().Create(ctx, model.NewTextNote("Keep this text", types.NoteSourceManual))
		gt.NoError(t, err).Required()

		gt.NoError(t, repo.Note().Update(ctx, created.ID, model.ErrorPatch("analysis blew up"))).Required()

		got, err := repo.Note().Get(ctx, created.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.Status).Equal(types.NoteStatusError)
		gt.Value(t, got.Error).Equal("analysis blew up")
		gt.Value(t, got.Text).Equal("Keep this text")
	})

	t.Run("Update returns NotFound for absent note", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		err := repo.Note().Update(ctx, model.NewNoteID(), model.ErrorPatch("whatever"))
		gt.Error(t, err)
		gt.Bool(t, isNotFound(err)).True()
	})

	t.Run("Delete removes note", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		created, err := repo.Note().Create(ctx, model.NewTextNote("Short lived", types.NoteSourceManual))
		gt.NoError(t, err).Required()

		gt.NoError(t, repo.Note().Delete(ctx, created.ID)).Required()

		_, err = repo.Note().Get(ctx, created.ID)
		gt.Error(t, err)
		gt.Bool(t, isNotFound(err)).True()
	})

	t.Run("Delete returns NotFound for absent note", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		err := repo.Note().Delete(ctx, model.NewNoteID())
		gt.Error(t, err)
		gt.Bool(t, isNotFound(err)).True()
	})

	t.Run("List orders by creation time descending with offset", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for i := 0; i < 15; i++ {
			_, err := repo.Note().Create(ctx, model.NewTextNote(fmt.Sprintf("note %02d", i), types.NoteSourceManual))
			gt.NoError(t, err).Required()
			time.Sleep(2 * time.Millisecond)
		}

		// Probe one row past the page size to detect more pages
		page1, err := repo.Note().List(ctx, 11, 0)
		gt.NoError(t, err).Required()
		gt.Array(t, page1).Length(11)
		gt.Value(t, page1[0].Text).Equal("note 14")

		page2, err := repo.Note().List(ctx, 11, 10)
		gt.NoError(t, err).Required()
		gt.Array(t, page2).Length(5)
		gt.Value(t, page2[0].Text).Equal("note 04")
		gt.Value(t, page2[4].Text).Equal("note 00")
	})

	t.Run("SearchText matches lowercase prefix only", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for _, text := range []string{"Apple pie supplier", "apply for the loan", "Banana stand"} {
			_, err := repo.Note().Create(ctx, model.NewTextNote(text, types.NoteSourceManual))
			gt.NoError(t, err).Required()
			time.Sleep(2 * time.Millisecond)
		}

		hits, err := repo.Note().SearchText(ctx, "appl", 10)
		gt.NoError(t, err).Required()
		gt.Array(t, hits).Length(2)
		for _, h := range hits {
			gt.Bool(t, h.TextLower == "apple pie supplier" || h.TextLower == "apply for the loan").True()
		}

		none, err := repo.Note().SearchText(ctx, "cherry", 10)
		gt.NoError(t, err).Required()
		gt.Array(t, none).Length(0)
	})

	t.Run("SearchText honors limit", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for i := 0; i < 5; i++ {
			_, err := repo.Note().Create(ctx, model.NewTextNote(fmt.Sprintf("shared prefix %d", i), types.NoteSourceManual))
			gt.NoError(t, err).Required()
		}

		hits, err := repo.Note().SearchText(ctx, "shared", 3)
		gt.NoError(t, err).Required()
		gt.Array(t, hits).Length(3)
	})

	t.Run("SearchAnalysis matches strategy prefix", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		withAnalysis, err := repo.Note().Create(ctx, model.NewTextNote("Analyzed note", types.NoteSourceManual))
		gt.NoError(t, err).Required()
		gt.NoError(t, repo.Note().Update(ctx, withAnalysis.ID, model.AnalysisPatch(model.Analysis{
			Strategy:  "Focus on repeat customers",
			Model:     "gpt-4",
			Timestamp: time.Now().UTC(),
		}))).Required()

		_, err = repo.Note().Create(ctx, model.NewTextNote("Focus group tomorrow", types.NoteSourceManual))
		gt.NoError(t, err).Required()

		hits, err := repo.Note().SearchAnalysis(ctx, "Focus", 10)
		gt.NoError(t, err).Required()
		gt.Array(t, hits).Length(1)
		gt.Value(t, hits[0].ID).Equal(withAnalysis.ID)
	})

	t.Run("BackfillTextLower fills only legacy documents", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		// A document missing its lowercase mirror, as written before search
		// support existed
		legacy, err := repo.Note().Create(ctx, model.NewTextNote("Legacy Document Text", types.NoteSourceManual))
		gt.NoError(t, err).Required()
		empty := ""
		gt.NoError(t, repo.Note().Update(ctx, legacy.ID, model.NotePatch{TextLower: &empty})).Required()

		// A placeholder document must be skipped
		placeholder, err := repo.Note().Create(ctx, model.NewProcessingNote())
		gt.NoError(t, err).Required()
		gt.NoError(t, repo.Note().Update(ctx, placeholder.ID, model.NotePatch{TextLower: &empty})).Required()

		// An already-filled document must be skipped
		_, err = repo.Note().Create(ctx, model.NewTextNote("Current document", types.NoteSourceManual))
		gt.NoError(t, err).Required()

		updated, err := repo.Note().BackfillTextLower(ctx)
		gt.NoError(t, err).Required()
		gt.Number(t, updated).Equal(1)

		got, err := repo.Note().Get(ctx, legacy.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, got.TextLower).Equal("legacy document text")
	})
}

func newFirestoreRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}

	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")

	ctx := context.Background()
	prefix := fmt.Sprintf("test_%d", time.Now().UnixNano())
	repo, err := firestore.New(ctx, projectID, databaseID, firestore.WithCollectionPrefix(prefix))
	gt.NoError(t, err).Required()
	t.Cleanup(func() {
		gt.NoError(t, repo.Close())
	})
	return repo
}

func TestMemoryNoteRepository(t *testing.T) {
	runNoteRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestFirestoreNoteRepository(t *testing.T) {
	runNoteRepositoryTest(t, newFirestoreRepository)
}
