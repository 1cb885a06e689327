// Package analyzer produces the strategy narrative for a transcript via an
// LLM. The prompt is an opaque template with a single slot for the input
// text; callers never see prompt wording.
package analyzer

import (
	"bytes"
	"context"
	_ "embed"
	"strings"
	"text/template"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/selene-notes/selene/pkg/domain/interfaces"
	"github.com/selene-notes/selene/pkg/domain/model"
)

//go:embed prompt/strategy.md
var strategyPromptTmpl string

const defaultSystemPrompt = "You are an expert business strategist with experience helping small and medium businesses grow."

// Service implements interfaces.Analyzer on top of a gollem LLM client
type Service struct {
	llmClient    gollem.LLMClient
	modelName    string
	systemPrompt string
	prompt       *template.Template
}

var _ interfaces.Analyzer = &Service{}

// Option is a functional option for Service
type Option func(*Service) error

// WithSystemPrompt overrides the built-in strategist system prompt
func WithSystemPrompt(prompt string) Option {
	return func(s *Service) error {
		if prompt != "" {
			s.systemPrompt = prompt
		}
		return nil
	}
}

// WithPromptTemplate overrides the built-in strategy prompt template. The
// template must reference {{.Transcription}}.
func WithPromptTemplate(tmpl string) Option {
	return func(s *Service) error {
		if tmpl == "" {
			return nil
		}
		parsed, err := template.New("strategy").Parse(tmpl)
		if err != nil {
			return goerr.Wrap(err, "failed to parse strategy prompt template")
		}
		s.prompt = parsed
		return nil
	}
}

// New creates a new analyzer. modelName is recorded on every analysis so the
// library view can show which model produced it.
func New(llmClient gollem.LLMClient, modelName string, opts ...Option) (*Service, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}
	if modelName == "" {
		return nil, goerr.New("model name is required")
	}

	s := &Service{
		llmClient:    llmClient,
		modelName:    modelName,
		systemPrompt: defaultSystemPrompt,
		prompt:       template.Must(template.New("strategy").Parse(strategyPromptTmpl)),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Analyze runs the strategy prompt over the transcript and returns the
// narrative. The call is a single round trip with no cancellation mechanism
// beyond the passed context.
func (s *Service) Analyze(ctx context.Context, text string) (*model.Analysis, error) {
	var buf bytes.Buffer
	if err := s.prompt.Execute(&buf, map[string]string{"Transcription": text}); err != nil {
		return nil, goerr.Wrap(err, "failed to build strategy prompt")
	}

	agent := gollem.New(s.llmClient,
		gollem.WithSystemPrompt(s.systemPrompt),
	)

	resp, err := agent.Execute(ctx, gollem.Text(buf.String()))
	if err != nil {
		return nil, goerr.Wrap(err, "strategy analysis failed")
	}

	strategy := strings.TrimSpace(strings.Join(resp.Texts, "\n"))
	if strategy == "" {
		return nil, goerr.New("strategy analysis returned empty result")
	}

	return &model.Analysis{
		Strategy:  strategy,
		Model:     s.modelName,
		Timestamp: time.Now().UTC(),
	}, nil
}
