package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/selene-notes/selene/pkg/cli/config"
	"github.com/selene-notes/selene/pkg/usecase"
	"github.com/selene-notes/selene/pkg/utils/logging"
	"github.com/selene-notes/selene/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

// cmdBackfill populates the lowercase search mirror on documents written
// before search support existed. Documents still holding the transcription
// placeholder are skipped.
func cmdBackfill() *cli.Command {
	var repoCfg config.Repository

	return &cli.Command{
		Name:  "backfill",
		Usage: "Populate the lowercase search field on legacy documents",
		Flags: repoCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			uc := usecase.New(repo)

			updated, err := uc.Backfill(ctx)
			if err != nil {
				return goerr.Wrap(err, "backfill failed")
			}

			logging.Default().Info("Backfill completed", "updated", updated)
			return nil
		},
	}
}
