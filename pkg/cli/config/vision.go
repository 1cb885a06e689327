package config

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/selene-notes/selene/pkg/service/cardscan"
	"github.com/urfave/cli/v3"
	"google.golang.org/api/option"
)

// Vision holds CLI flags for the business card OCR backend
type Vision struct {
	enabled         bool
	credentialsFile string
}

// Flags returns CLI flags for Vision configuration
func (v *Vision) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:        "vision",
			Usage:       "Enable business card OCR via the Cloud Vision API",
			Sources:     cli.EnvVars("SELENE_VISION"),
			Destination: &v.enabled,
		},
		&cli.StringFlag{
			Name:        "vision-credentials",
			Usage:       "Path to a service account key for the Cloud Vision API (defaults to application default credentials)",
			Sources:     cli.EnvVars("SELENE_VISION_CREDENTIALS"),
			Destination: &v.credentialsFile,
		},
	}
}

// Configure creates the Vision text detector. Returns nil if OCR is not
// enabled (card capture will be disabled).
func (v *Vision) Configure(ctx context.Context) (*cardscan.Vision, error) {
	if !v.enabled {
		return nil, nil
	}

	var opts []option.ClientOption
	if v.credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(v.credentialsFile))
	}

	detector, err := cardscan.NewVision(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create vision text detector")
	}
	return detector, nil
}
