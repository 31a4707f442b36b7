package guardrail

import (
	"regexp"
	"strings"

	"github.com/finsight-lab/finsight/pkg/domain/model"
	"github.com/finsight-lab/finsight/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Service classifies incoming queries and applies response-side guardrails.
// Classification is a short-circuit cascade with fixed priority:
// greeting, then advisory, then predictive, then general. A query matching
// multiple categories resolves to the first match in that order.
type Service struct {
	greetings  map[string]bool
	openers    []string
	advisory   []*regexp.Regexp
	predictive []*regexp.Regexp
	tone       *toneFilter
}

// New builds a guardrail service from a lexicon. Pass nil to use the
// built-in defaults.
func New(lexicon *Lexicon) (*Service, error) {
	if lexicon == nil {
		lexicon = DefaultLexicon()
	}
	if err := lexicon.Validate(); err != nil {
		return nil, err
	}

	greetings := make(map[string]bool, len(lexicon.Greetings))
	for _, g := range lexicon.Greetings {
		greetings[strings.ToLower(g)] = true
	}

	advisory := make([]*regexp.Regexp, 0, len(lexicon.AdvisoryPatterns))
	for _, p := range lexicon.AdvisoryPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid advisory pattern", goerr.V("pattern", p))
		}
		advisory = append(advisory, re)
	}

	predictive := make([]*regexp.Regexp, 0, len(lexicon.PredictivePatterns))
	for _, p := range lexicon.PredictivePatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid predictive pattern", goerr.V("pattern", p))
		}
		predictive = append(predictive, re)
	}

	tone, err := newToneFilter(lexicon.ToneReplacements)
	if err != nil {
		return nil, err
	}

	return &Service{
		greetings:  greetings,
		openers:    lexicon.Openers,
		advisory:   advisory,
		predictive: predictive,
		tone:       tone,
	}, nil
}

// Classify tags a query without any retrieval or model cost. It is a pure
// function of the query text and the configured lexicon.
func (s *Service) Classify(query string) model.Classification {
	normalized := strings.ToLower(strings.TrimSpace(query))
	trimmed := strings.TrimRight(normalized, ".!?")

	if s.greetings[trimmed] {
		return model.Classification{Class: types.QueryClassGreeting, Pattern: trimmed}
	}
	for _, opener := range s.openers {
		if strings.HasPrefix(normalized, opener) {
			return model.Classification{Class: types.QueryClassGreeting, Pattern: opener}
		}
	}

	for _, re := range s.advisory {
		if re.MatchString(normalized) {
			return model.Classification{Class: types.QueryClassAdvisory, Pattern: re.String()}
		}
	}

	for _, re := range s.predictive {
		if re.MatchString(normalized) {
			return model.Classification{Class: types.QueryClassPredictive, Pattern: re.String()}
		}
	}

	return model.Classification{Class: types.QueryClassGeneral}
}
