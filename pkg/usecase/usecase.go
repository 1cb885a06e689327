package usecase

import (
	"github.com/selene-notes/selene/pkg/domain/interfaces"
)

// UseCases bundles the application logic: the note lifecycle manager, the
// library search engine, and business card capture. External collaborators
// (transcriber, analyzer, OCR, relay) are injected and optional; operations
// that need a missing collaborator fail with a typed error instead of
// panicking.
type UseCases struct {
	repo        interfaces.Repository
	transcriber interfaces.Transcriber
	analyzer    interfaces.Analyzer
	detector    interfaces.TextDetector
	notifier    interfaces.Notifier
}

type Option func(*UseCases)

func WithTranscriber(t interfaces.Transcriber) Option {
	return func(uc *UseCases) {
		uc.transcriber = t
	}
}

func WithAnalyzer(a interfaces.Analyzer) Option {
	return func(uc *UseCases) {
		uc.analyzer = a
	}
}

func WithTextDetector(d interfaces.TextDetector) Option {
	return func(uc *UseCases) {
		uc.detector = d
	}
}

func WithNotifier(n interfaces.Notifier) Option {
	return func(uc *UseCases) {
		uc.notifier = n
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo: repo,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}
