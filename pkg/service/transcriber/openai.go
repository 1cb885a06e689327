// Package transcriber provides the speech-to-text service backed by the
// OpenAI audio transcription API (whisper-1), the same endpoint the original
// recorder client used.
package transcriber

import (
	"bytes"
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	oai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/selene-notes/selene/pkg/domain/interfaces"
)

// OpenAI implements interfaces.Transcriber using the OpenAI API
type OpenAI struct {
	client oai.Client
	model  oai.AudioModel
}

var _ interfaces.Transcriber = &OpenAI{}

// Option is a functional option for OpenAI
type Option func(*OpenAI)

// WithModel overrides the default whisper-1 transcription model
func WithModel(model string) Option {
	return func(t *OpenAI) {
		t.model = oai.AudioModel(model)
	}
}

// NewOpenAI creates a new OpenAI-backed transcriber
func NewOpenAI(apiKey string, opts ...Option) (*OpenAI, error) {
	if apiKey == "" {
		return nil, goerr.New("OpenAI API key is required")
	}

	t := &OpenAI{
		client: oai.NewClient(option.WithAPIKey(apiKey)),
		model:  oai.AudioModelWhisper1,
	}
	for _, opt := range opts {
		opt(t)
	}

	return t, nil
}

// Transcribe converts an audio payload to text. The call is a single network
// round trip; no timeout is imposed beyond the passed context.
func (t *OpenAI) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if len(audio) == 0 {
		return "", goerr.New("audio payload is empty")
	}

	resp, err := t.client.Audio.Transcriptions.New(ctx, oai.AudioTranscriptionNewParams{
		File:  oai.File(bytes.NewReader(audio), fileName(mimeType), mimeType),
		Model: t.model,
	})
	if err != nil {
		return "", goerr.Wrap(err, "transcription request failed", goerr.V("mime_type", mimeType))
	}

	return resp.Text, nil
}

func fileName(mimeType string) string {
	switch {
	case strings.Contains(mimeType, "mpeg"), strings.Contains(mimeType, "mp3"):
		return "recording.mp3"
	case strings.Contains(mimeType, "wav"):
		return "recording.wav"
	case strings.Contains(mimeType, "mp4"), strings.Contains(mimeType, "m4a"):
		return "recording.m4a"
	case strings.Contains(mimeType, "ogg"):
		return "recording.ogg"
	default:
		return "recording.webm"
	}
}
