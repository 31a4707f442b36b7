package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/finsight-lab/finsight/pkg/cli/config"
	httpctrl "github.com/finsight-lab/finsight/pkg/controller/http"
	"github.com/finsight-lab/finsight/pkg/service/llm"
	"github.com/finsight-lab/finsight/pkg/service/retrieval"
	"github.com/finsight-lab/finsight/pkg/service/worker"
	"github.com/finsight-lab/finsight/pkg/usecase"
	"github.com/finsight-lab/finsight/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var modelTimeout time.Duration
	var benchmarkInterval time.Duration
	var geminiCfg config.Gemini
	var repoCfg config.Repository
	var guardrailCfg config.Guardrail

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("FINSIGHT_ADDR"),
			Destination: &addr,
		},
		&cli.DurationFlag{
			Name:        "model-timeout",
			Usage:       "Per-model call timeout for the fallback chain",
			Value:       30 * time.Second,
			Sources:     cli.EnvVars("FINSIGHT_MODEL_TIMEOUT"),
			Destination: &modelTimeout,
		},
		&cli.DurationFlag{
			Name:        "benchmark-refresh-interval",
			Usage:       "Interval for recomputing sector benchmarks (0 disables the worker)",
			Value:       6 * time.Hour,
			Sources:     cli.EnvVars("FINSIGHT_BENCHMARK_REFRESH_INTERVAL"),
			Destination: &benchmarkInterval,
		},
	}

	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, guardrailCfg.Flags()...)

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
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			models, embedder, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure Gemini clients")
			}

			invoker, err := llm.NewInvoker(models, llm.WithTimeout(modelTimeout))
			if err != nil {
				return goerr.Wrap(err, "failed to create model invoker")
			}
			logging.Default().Info("Model fallback chain configured", "models", invoker.Models())

			guard, err := guardrailCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure guardrails")
			}

			retriever, err := retrieval.New(repo, embedder)
			if err != nil {
				return goerr.Wrap(err, "failed to create retrieval service")
			}

			uc, err := usecase.New(repo, guard, retriever, invoker)
			if err != nil {
				return goerr.Wrap(err, "failed to create use cases")
			}

			var benchmarkWorker *worker.BenchmarkRefreshWorker
			if benchmarkInterval > 0 {
				benchmarkWorker = worker.NewBenchmarkRefreshWorker(repo, benchmarkInterval)
				if err := benchmarkWorker.Start(ctx); err != nil {
					return goerr.Wrap(err, "failed to start benchmark refresh worker")
				}
			}

			httpHandler, err := httpctrl.New(uc)
			if err != nil {
				return goerr.Wrap(err, "failed to create http server")
			}
			server := &http.Server{
				Addr:              addr,
				Handler:           httpHandler,
				ReadHeaderTimeout: 30 * time.Second,
			}

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

				if benchmarkWorker != nil {
					benchmarkWorker.Stop()
				}

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
