package usecase_test

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/selene-notes/selene/pkg/domain/model"
)

// fakeTranscriber returns a fixed transcript or error
type fakeTranscriber struct {
	text string
	err  error

	mu    sync.Mutex
	calls int
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

// fakeAnalyzer returns a fixed strategy or error
type fakeAnalyzer struct {
	strategy string
	err      error

	mu    sync.Mutex
	calls int
	last  string
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, text string) (*model.Analysis, error) {
	f.mu.Lock()
	f.calls++
	f.last = text
	f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	return &model.Analysis{Strategy: f.strategy, Model: "fake-model"}, nil
}

func (f *fakeAnalyzer) lastInput() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

// fakeDetector returns fixed OCR output
type fakeDetector struct {
	text string
	err  error
}

func (f *fakeDetector) DetectText(ctx context.Context, image []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

// recordingNotifier captures relay events for assertions
type recordingNotifier struct {
	mu      sync.Mutex
	created []*model.Note
	deleted []model.NoteID
}

func (n *recordingNotifier) NotifyNoteCreated(ctx context.Context, note *model.Note) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created = append(n.created, note)
}

func (n *recordingNotifier) NotifyNoteDeleted(ctx context.Context, id model.NoteID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.deleted = append(n.deleted, id)
}

func (n *recordingNotifier) createdCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.created)
}

func (n *recordingNotifier) deletedIDs() []model.NoteID {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]model.NoteID{}, n.deleted...)
}

var errExternalService = goerr.New("external service unavailable")
