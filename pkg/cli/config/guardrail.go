package config

import (
	"github.com/finsight-lab/finsight/pkg/service/guardrail"
	"github.com/finsight-lab/finsight/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Guardrail holds CLI flags for the guardrail lexicon
type Guardrail struct {
	lexiconPath string
}

// Flags returns CLI flags for guardrail configuration
func (g *Guardrail) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "guardrail-lexicon",
			Usage:       "Path to a TOML file overriding the built-in guardrail lexicon",
			Sources:     cli.EnvVars("FINSIGHT_GUARDRAIL_LEXICON"),
			Destination: &g.lexiconPath,
		},
	}
}

// Configure builds the guardrail service, overlaying the lexicon file on
// the built-in defaults when one is configured
func (g *Guardrail) Configure() (*guardrail.Service, error) {
	if g.lexiconPath == "" {
		return guardrail.New(nil)
	}

	lexicon, err := guardrail.LoadLexicon(g.lexiconPath)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load guardrail lexicon")
	}
	logging.Default().Info("Loaded guardrail lexicon", "path", g.lexiconPath)

	return guardrail.New(lexicon)
}
