package async

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/selene-notes/selene/pkg/utils/logging"
)

// Dispatch executes a handler function asynchronously in a new goroutine.
// The handler gets a fresh background context (the originating request may
// finish first) that still carries the request logger. Errors and panics are
// logged, never propagated: the transcription leg of audio ingest relies on
// this to record failures on the note instead of failing the create call.
func Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	bgCtx := logging.With(context.Background(), logging.From(ctx))

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logging.From(bgCtx).Error("panic in async handler", "panic", r)
			}
		}()

		if err := handler(bgCtx); err != nil {
			logging.From(bgCtx).Error("async handler failed", "error", goerr.Unwrap(err))
		}
	}()
}
