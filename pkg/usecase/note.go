package usecase

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/selene-notes/selene/pkg/domain/model"
	"github.com/selene-notes/selene/pkg/domain/types"
	"github.com/selene-notes/selene/pkg/utils/async"
	"github.com/selene-notes/selene/pkg/utils/errutil"
)

// CreateFromText creates a draft note from manually entered text. The text is
// stored as-is without trimming; only fully empty or whitespace-only input is
// rejected.
func (uc *UseCases) CreateFromText(ctx context.Context, text string) (*model.Note, error) {
	if strings.TrimSpace(text) == "" {
		return nil, goerr.Wrap(ErrEmptyText, "cannot create note without text")
	}

	note := model.NewTextNote(text, types.NoteSourceManual)
	created, err := uc.repo.Note().Create(ctx, note)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create note")
	}

	if uc.notifier != nil {
		uc.notifier.NotifyNoteCreated(ctx, created)
	}

	return created, nil
}

// CreateFromAudio creates a placeholder note and kicks off transcription in
// the background. The placeholder is returned immediately; callers poll or
// subscribe to the relay to observe the draft or error outcome. Transcriber
// failures are recorded on the note, never returned from this call.
func (uc *UseCases) CreateFromAudio(ctx context.Context, audio []byte, mimeType string) (*model.Note, error) {
	if uc.transcriber == nil {
		return nil, goerr.Wrap(ErrTranscriberUnavailable, "cannot accept audio")
	}
	if len(audio) == 0 {
		return nil, goerr.Wrap(ErrInvalidInput, "audio payload is empty")
	}

	note := model.NewProcessingNote()
	created, err := uc.repo.Note().Create(ctx, note)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create placeholder note")
	}

	if uc.notifier != nil {
		uc.notifier.NotifyNoteCreated(ctx, created)
	}

	async.Dispatch(ctx, func(ctx context.Context) error {
		return uc.runTranscription(ctx, created.ID, audio, mimeType)
	})

	return created, nil
}

// runTranscription is the async leg of audio ingest. A transcription failure
// transitions the note to error with the message recorded; the placeholder
// text is left in place so the note stays visible and editable.
func (uc *UseCases) runTranscription(ctx context.Context, id model.NoteID, audio []byte, mimeType string) error {
	text, err := uc.transcriber.Transcribe(ctx, audio, mimeType)
	if err != nil {
		patch := model.ErrorPatch(err.Error())
		if updErr := uc.repo.Note().Update(ctx, id, patch); updErr != nil {
			return goerr.Wrap(updErr, "failed to record transcription failure", goerr.V(NoteIDKey, id))
		}
		return goerr.Wrap(err, "transcription failed", goerr.V(NoteIDKey, id))
	}

	patch := model.TextPatch(text, types.NoteSourceRecording).WithStatus(types.NoteStatusDraft)
	if err := uc.repo.Note().Update(ctx, id, patch); err != nil {
		return goerr.Wrap(err, "failed to store transcript", goerr.V(NoteIDKey, id))
	}

	return nil
}

// Get retrieves a single note
func (uc *UseCases) Get(ctx context.Context, id model.NoteID) (*model.Note, error) {
	note, err := uc.repo.Note().Get(ctx, id)
	if err != nil {
		return nil, goerr.Wrap(ErrNoteNotFound, "note not found", goerr.V(NoteIDKey, id))
	}
	return note, nil
}

// UpdateText rewrites a note's text and optionally submits it for analysis.
//
// The text fields (text, textLower, wordCount, source=edited) are always
// rewritten. With submit=false the note returns to draft. With submit=true
// the note passes through processing while the analyzer runs; analyzer
// failure is recorded on the note (status error) and reported as
// analyzed=false with a nil error. Store failures always propagate.
func (uc *UseCases) UpdateText(ctx context.Context, id model.NoteID, text string, submit bool) (bool, error) {
	if strings.TrimSpace(text) == "" {
		return false, goerr.Wrap(ErrEmptyText, "cannot save note without text", goerr.V(NoteIDKey, id))
	}

	status := types.NoteStatusDraft
	if submit {
		status = types.NoteStatusProcessing
	}

	patch := model.TextPatch(text, types.NoteSourceEdited).WithStatus(status)
	if err := uc.repo.Note().Update(ctx, id, patch); err != nil {
		return false, goerr.Wrap(ErrNoteNotFound, "note not found", goerr.V(NoteIDKey, id))
	}

	if !submit {
		return false, nil
	}

	if uc.analyzer == nil {
		return false, goerr.Wrap(ErrAnalyzerUnavailable, "cannot submit note for analysis", goerr.V(NoteIDKey, id))
	}

	analysis, err := uc.analyzer.Analyze(ctx, text)
	if err != nil {
		errutil.Handle(ctx, err, "analysis failed, recording error on note")
		if updErr := uc.repo.Note().Update(ctx, id, model.ErrorPatch(err.Error())); updErr != nil {
			return false, goerr.Wrap(updErr, "failed to record analysis failure", goerr.V(NoteIDKey, id))
		}
		return false, nil
	}

	if err := uc.repo.Note().Update(ctx, id, model.AnalysisPatch(*analysis)); err != nil {
		return false, goerr.Wrap(err, "failed to store analysis", goerr.V(NoteIDKey, id))
	}

	return true, nil
}

// Analyze runs the analyzer over the given text and persists the result on
// the note. Unlike the submit path of UpdateText, analyzer failures are
// returned to the caller here.
func (uc *UseCases) Analyze(ctx context.Context, id model.NoteID, text string) (*model.Analysis, error) {
	if uc.analyzer == nil {
		return nil, goerr.Wrap(ErrAnalyzerUnavailable, "cannot analyze note", goerr.V(NoteIDKey, id))
	}
	if strings.TrimSpace(text) == "" {
		note, err := uc.repo.Note().Get(ctx, id)
		if err != nil {
			return nil, goerr.Wrap(ErrNoteNotFound, "note not found", goerr.V(NoteIDKey, id))
		}
		text = note.Text
	}

	analysis, err := uc.analyzer.Analyze(ctx, text)
	if err != nil {
		return nil, goerr.Wrap(err, "analysis failed", goerr.V(NoteIDKey, id))
	}

	if err := uc.repo.Note().Update(ctx, id, model.AnalysisPatch(*analysis)); err != nil {
		return nil, goerr.Wrap(err, "failed to store analysis", goerr.V(NoteIDKey, id))
	}

	return analysis, nil
}

// Delete removes a note. There is no soft delete; the note is gone for good.
func (uc *UseCases) Delete(ctx context.Context, id model.NoteID) error {
	if err := uc.repo.Note().Delete(ctx, id); err != nil {
		return goerr.Wrap(ErrNoteNotFound, "note not found", goerr.V(NoteIDKey, id))
	}

	if uc.notifier != nil {
		uc.notifier.NotifyNoteDeleted(ctx, id)
	}

	return nil
}

// Backfill populates the lowercase search mirror on documents created before
// search support existed. Returns the number of documents updated.
func (uc *UseCases) Backfill(ctx context.Context) (int, error) {
	n, err := uc.repo.Note().BackfillTextLower(ctx)
	if err != nil {
		return n, goerr.Wrap(err, "backfill failed")
	}
	return n, nil
}
