package config

import (
	"context"
	"log/slog"

	"github.com/finsight-lab/finsight/pkg/service/llm"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/urfave/cli/v3"
)

// defaultModels is the fallback chain in invocation order, most capable
// and cheapest first
var defaultModels = []string{
	"gemini-2.5-flash",
	"gemini-1.5-flash-latest",
	"gemini-1.5-pro-latest",
	"gemini-pro",
}

// Gemini holds configuration for the Gemini LLM clients
type Gemini struct {
	projectID string
	location  string
	models    []string
}

// Flags returns CLI flags for Gemini configuration
func (g *Gemini) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini API",
			Sources:     cli.EnvVars("FINSIGHT_GEMINI_PROJECT"),
			Destination: &g.projectID,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini API",
			Value:       "us-central1",
			Sources:     cli.EnvVars("FINSIGHT_GEMINI_LOCATION"),
			Destination: &g.location,
		},
		&cli.StringSliceFlag{
			Name:        "gemini-models",
			Usage:       "Ordered model fallback chain, tried first to last",
			Value:       defaultModels,
			Sources:     cli.EnvVars("FINSIGHT_GEMINI_MODELS"),
			Destination: &g.models,
		},
	}
}

// LogAttrs returns log attributes for the Gemini configuration
func (g *Gemini) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("project_id", g.projectID),
		slog.String("location", g.location),
		slog.Any("models", g.models),
	}
}

// Configure creates the model fallback chain and the embedding client.
// A missing project ID is a configuration error; the pipeline cannot run
// without a model.
func (g *Gemini) Configure(ctx context.Context) ([]llm.Model, llm.Embedder, error) {
	if g.projectID == "" {
		return nil, nil, goerr.New("gemini-project is required")
	}
	if len(g.models) == 0 {
		g.models = defaultModels
	}

	models := make([]llm.Model, 0, len(g.models))
	for _, id := range g.models {
		client, err := gemini.New(ctx, g.projectID, g.location, gemini.WithModel(id))
		if err != nil {
			return nil, nil, goerr.Wrap(err, "failed to create Gemini client", goerr.V("model", id))
		}
		generator, err := llm.NewGenerator(client)
		if err != nil {
			return nil, nil, err
		}
		models = append(models, llm.Model{ID: id, Generator: generator})
	}

	embedClient, err := gemini.New(ctx, g.projectID, g.location)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to create Gemini embedding client")
	}
	embedder, err := llm.NewEmbedder(embedClient)
	if err != nil {
		return nil, nil, err
	}

	return models, embedder, nil
}
