package config

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/selene-notes/selene/pkg/service/transcriber"
	"github.com/selene-notes/selene/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Transcriber holds CLI flags for the audio transcriber. It shares the OpenAI
// API key flag with the analyzer when both use OpenAI; the key is resolved by
// the serve command.
type Transcriber struct {
	model string
}

// Flags returns CLI flags for transcriber configuration
func (t *Transcriber) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "transcriber-model",
			Usage:       "OpenAI audio model for transcription",
			Value:       "whisper-1",
			Sources:     cli.EnvVars("SELENE_TRANSCRIBER_MODEL"),
			Destination: &t.model,
		},
	}
}

// Configure creates the transcriber from the given API key. Returns nil if no
// key is configured (audio ingest will be disabled).
func (t *Transcriber) Configure(apiKey string) (*transcriber.OpenAI, error) {
	if apiKey == "" {
		logging.Default().Info("OpenAI API key not configured, audio ingest disabled")
		return nil, nil
	}

	svc, err := transcriber.NewOpenAI(apiKey, transcriber.WithModel(t.model))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create transcriber")
	}
	return svc, nil
}
