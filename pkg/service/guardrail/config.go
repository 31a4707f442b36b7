package guardrail

import (
	"os"
	"regexp"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
)

// Lexicon holds the pattern sets and vocabulary the guardrail service is
// built from. The built-in defaults cover the standard rule set; a TOML
// file can override individual sections for deployment-specific tuning.
type Lexicon struct {
	Greetings          []string          `toml:"greetings"`
	Openers            []string          `toml:"openers"`
	AdvisoryPatterns   []string          `toml:"advisory_patterns"`
	PredictivePatterns []string          `toml:"predictive_patterns"`
	ToneReplacements   map[string]string `toml:"tone_replacements"`
}

// DefaultLexicon returns the built-in rule set
func DefaultLexicon() *Lexicon {
	return &Lexicon{
		Greetings: []string{
			"hi", "hello", "hey", "greetings",
			"thanks", "thank you", "thx",
			"bye", "goodbye", "see you",
		},
		Openers: []string{
			"how are you",
			"how do you do",
			"what's up",
			"whats up",
			"how's it going",
			"how is it going",
			"how are things",
			"what are you",
			"who are you",
			"tell me about yourself",
		},
		AdvisoryPatterns: []string{
			`should i (buy|sell|invest|purchase|hold)`,
			`do you (recommend|suggest|advise)`,
			`is it (good|bad|wise|worth) (to|for) (buy|sell|invest)`,
			`would you (buy|sell|invest)`,
			`can you (advise|recommend|suggest)`,
			`what should i do`,
		},
		PredictivePatterns: []string{
			`target price`,
			`will it`,
			`forecast`,
			`predict`,
			`next (week|month|year)`,
			`tomorrow`,
			`what (will|would) (happen|be)`,
			`where will`,
		},
		ToneReplacements: map[string]string{
			"multibagger":        "high-return stock",
			"skyrocketing":       "rising sharply",
			"skyrocket":          "rise sharply",
			"cheap":              "lower-valued",
			"jackpot":            "favorable outcome",
			"safe investment":    "relatively stable investment",
			"guaranteed returns": "historically consistent returns",
			"booming":            "growing",
			"plummeting":         "declining sharply",
		},
	}
}

// LoadLexicon reads a TOML lexicon file and overlays it on the defaults.
// Only sections present in the file replace their default counterparts.
func LoadLexicon(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read lexicon file", goerr.V("path", path))
	}

	var loaded Lexicon
	if err := toml.Unmarshal(data, &loaded); err != nil {
		return nil, goerr.Wrap(err, "failed to parse lexicon file", goerr.V("path", path))
	}

	lexicon := DefaultLexicon()
	if len(loaded.Greetings) > 0 {
		lexicon.Greetings = loaded.Greetings
	}
	if len(loaded.Openers) > 0 {
		lexicon.Openers = loaded.Openers
	}
	if len(loaded.AdvisoryPatterns) > 0 {
		lexicon.AdvisoryPatterns = loaded.AdvisoryPatterns
	}
	if len(loaded.PredictivePatterns) > 0 {
		lexicon.PredictivePatterns = loaded.PredictivePatterns
	}
	if len(loaded.ToneReplacements) > 0 {
		lexicon.ToneReplacements = loaded.ToneReplacements
	}

	if err := lexicon.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid lexicon", goerr.V("path", path))
	}

	return lexicon, nil
}

// Validate checks that every pattern compiles as a regular expression
func (l *Lexicon) Validate() error {
	for _, p := range l.AdvisoryPatterns {
		if _, err := regexp.Compile(p); err != nil {
			return goerr.Wrap(err, "invalid advisory pattern", goerr.V("pattern", p))
		}
	}
	for _, p := range l.PredictivePatterns {
		if _, err := regexp.Compile(p); err != nil {
			return goerr.Wrap(err, "invalid predictive pattern", goerr.V("pattern", p))
		}
	}
	return nil
}
