package cli

import (
	"context"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/finsight-lab/finsight/pkg/cli/config"
	"github.com/finsight-lab/finsight/pkg/service/llm"
	"github.com/finsight-lab/finsight/pkg/service/retrieval"
	"github.com/finsight-lab/finsight/pkg/usecase"
	"github.com/finsight-lab/finsight/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdAsk() *cli.Command {
	var symbol string
	var modelTimeout time.Duration
	var geminiCfg config.Gemini
	var repoCfg config.Repository
	var guardrailCfg config.Guardrail

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "symbol",
			Aliases:     []string{"c"},
			Usage:       "Company symbol to ask about",
			Required:    true,
			Sources:     cli.EnvVars("FINSIGHT_SYMBOL"),
			Destination: &symbol,
		},
		&cli.DurationFlag{
			Name:        "model-timeout",
			Usage:       "Per-model call timeout for the fallback chain",
			Value:       30 * time.Second,
			Sources:     cli.EnvVars("FINSIGHT_MODEL_TIMEOUT"),
			Destination: &modelTimeout,
		},
	}

	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, guardrailCfg.Flags()...)

	return &cli.Command{
		Name:      "ask",
		Aliases:   []string{"a"},
		Usage:     "Run one query through the pipeline from the terminal",
		ArgsUsage: "<query>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if query == "" {
				return goerr.New("query argument is required")
			}

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

			answer, err := uc.AnswerQuery(ctx, symbol, query)
			if err != nil {
				return err
			}

			header := color.New(color.FgCyan, color.Bold)
			meta := color.New(color.FgHiBlack)

			header.Printf("%s", answer.CompanySymbol)
			if answer.CompanyName != "" {
				header.Printf(" (%s)", answer.CompanyName)
			}
			header.Println()
			meta.Printf("classification: %s\n\n", answer.Type)
			color.New(color.FgWhite).Println(answer.Answer)

			return nil
		},
	}
}
