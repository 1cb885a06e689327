package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"

	"github.com/selene-notes/selene/pkg/cli/config"
	httpctrl "github.com/selene-notes/selene/pkg/controller/http"
	"github.com/selene-notes/selene/pkg/service/relay"
	"github.com/selene-notes/selene/pkg/usecase"
	"github.com/selene-notes/selene/pkg/utils/logging"
	"github.com/selene-notes/selene/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var repoCfg config.Repository
	var analyzerCfg config.Analyzer
	var transcriberCfg config.Transcriber
	var visionCfg config.Vision

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("SELENE_ADDR"),
			Destination: &addr,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, analyzerCfg.Flags()...)
	flags = append(flags, transcriberCfg.Flags()...)
	flags = append(flags, visionCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer safe.Close(ctx, repo)

			hub := relay.NewHub()
			ucOpts := []usecase.Option{
				usecase.WithNotifier(hub),
			}

			if transcriberSvc, err := transcriberCfg.Configure(analyzerCfg.OpenAIAPIKey()); err != nil {
				return goerr.Wrap(err, "failed to configure transcriber")
			} else if transcriberSvc != nil {
				ucOpts = append(ucOpts, usecase.WithTranscriber(transcriberSvc))
				logging.Default().Info("Audio transcription enabled")
			}

			analyzerSvc, err := analyzerCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure analyzer")
			}
			if analyzerSvc != nil {
				ucOpts = append(ucOpts, usecase.WithAnalyzer(analyzerSvc))
				logging.Default().Info("Strategy analysis enabled")
			} else {
				logging.Default().Info("Analyzer not configured, analysis features will be limited")
			}

			detector, err := visionCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure vision text detector")
			}
			if detector != nil {
				ucOpts = append(ucOpts, usecase.WithTextDetector(detector))
				logging.Default().Info("Business card OCR enabled")
			}

			uc := usecase.New(repo, ucOpts...)

			httpHandler := httpctrl.New(uc, httpctrl.WithRelayHub(hub))
			server := &http.Server{
				Addr:              addr,
				Handler:           httpHandler,
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
