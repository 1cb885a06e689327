package config

import (
	"context"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/m-mizutani/gollem/llm/openai"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/selene-notes/selene/pkg/service/analyzer"
	"github.com/urfave/cli/v3"
)

// Analyzer holds CLI flags for the strategy analyzer. The LLM backend is
// selected by provider: "openai" uses the OpenAI API key, "gemini" uses a
// Google Cloud project.
type Analyzer struct {
	provider       string
	model          string
	openaiAPIKey   string
	geminiProject  string
	geminiLocation string
	tuningPath     string
}

// analyzerTuning is the optional TOML tuning file overriding prompt wording
type analyzerTuning struct {
	SystemPrompt   string `toml:"system_prompt"`
	PromptTemplate string `toml:"prompt_template"`
}

// Flags returns CLI flags for analyzer configuration
func (a *Analyzer) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "analyzer-provider",
			Usage:       "LLM provider for analysis (openai or gemini, empty disables analysis)",
			Sources:     cli.EnvVars("SELENE_ANALYZER_PROVIDER"),
			Destination: &a.provider,
		},
		&cli.StringFlag{
			Name:        "analyzer-model",
			Usage:       "Model name recorded on each analysis",
			Value:       "gpt-4",
			Sources:     cli.EnvVars("SELENE_ANALYZER_MODEL"),
			Destination: &a.model,
		},
		&cli.StringFlag{
			Name:        "openai-api-key",
			Usage:       "OpenAI API key (analysis and transcription)",
			Sources:     cli.EnvVars("SELENE_OPENAI_API_KEY"),
			Destination: &a.openaiAPIKey,
		},
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini",
			Sources:     cli.EnvVars("SELENE_GEMINI_PROJECT"),
			Destination: &a.geminiProject,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini",
			Value:       "us-central1",
			Sources:     cli.EnvVars("SELENE_GEMINI_LOCATION"),
			Destination: &a.geminiLocation,
		},
		&cli.StringFlag{
			Name:        "analyzer-tuning",
			Usage:       "Path to a TOML file overriding the analysis prompts",
			Sources:     cli.EnvVars("SELENE_ANALYZER_TUNING"),
			Destination: &a.tuningPath,
		},
	}
}

// OpenAIAPIKey returns the configured OpenAI API key
func (a *Analyzer) OpenAIAPIKey() string {
	return a.openaiAPIKey
}

// Configure creates the analyzer service from the configured flags. Returns
// nil if no provider is configured (analysis features will be disabled).
func (a *Analyzer) Configure(ctx context.Context) (*analyzer.Service, error) {
	client, err := a.newLLMClient(ctx)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, nil
	}

	opts, err := a.tuningOptions()
	if err != nil {
		return nil, err
	}

	svc, err := analyzer.New(client, a.model, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create analyzer")
	}
	return svc, nil
}

func (a *Analyzer) newLLMClient(ctx context.Context) (gollem.LLMClient, error) {
	switch a.provider {
	case "":
		return nil, nil

	case "openai":
		if a.openaiAPIKey == "" {
			return nil, goerr.New("openai-api-key is required for the openai analyzer provider")
		}
		client, err := openai.New(ctx, a.openaiAPIKey)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create OpenAI client")
		}
		return client, nil

	case "gemini":
		if a.geminiProject == "" {
			return nil, goerr.New("gemini-project is required for the gemini analyzer provider")
		}
		client, err := gemini.New(ctx, a.geminiProject, a.geminiLocation)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create Gemini client")
		}
		return client, nil

	default:
		return nil, goerr.New("invalid analyzer provider", goerr.V("provider", a.provider))
	}
}

func (a *Analyzer) tuningOptions() ([]analyzer.Option, error) {
	if a.tuningPath == "" {
		return nil, nil
	}

	data, err := os.ReadFile(a.tuningPath)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read analyzer tuning file", goerr.V("path", a.tuningPath))
	}

	var tuning analyzerTuning
	if err := toml.Unmarshal(data, &tuning); err != nil {
		return nil, goerr.Wrap(err, "failed to parse analyzer tuning file", goerr.V("path", a.tuningPath))
	}

	return []analyzer.Option{
		analyzer.WithSystemPrompt(tuning.SystemPrompt),
		analyzer.WithPromptTemplate(tuning.PromptTemplate),
	}, nil
}
