package guardrail

import (
	"regexp"
	"sort"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

type toneRule struct {
	re          *regexp.Regexp
	replacement string
}

// toneFilter performs whole-word, case-insensitive substitution of
// promotional or emotional vocabulary with neutral equivalents.
// Replacement values must not themselves contain flagged terms so that
// filtering is idempotent; newToneFilter rejects a lexicon that breaks
// this.
type toneFilter struct {
	rules []toneRule
}

func newToneFilter(replacements map[string]string) (*toneFilter, error) {
	// Longer phrases first so "safe investment" wins over a bare "safe"
	terms := make([]string, 0, len(replacements))
	for term := range replacements {
		terms = append(terms, term)
	}
	sort.Slice(terms, func(i, j int) bool {
		if len(terms[i]) != len(terms[j]) {
			return len(terms[i]) > len(terms[j])
		}
		return terms[i] < terms[j]
	})

	rules := make([]toneRule, 0, len(terms))
	for _, term := range terms {
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(term) + `\b`)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid tone term", goerr.V("term", term))
		}
		rules = append(rules, toneRule{re: re, replacement: replacements[term]})
	}

	f := &toneFilter{rules: rules}

	for term, replacement := range replacements {
		if filtered := f.apply(replacement); filtered != replacement {
			return nil, goerr.New("tone replacement contains a flagged term",
				goerr.V("term", term),
				goerr.V("replacement", replacement))
		}
	}

	return f, nil
}

func (f *toneFilter) apply(text string) string {
	for _, rule := range f.rules {
		text = rule.re.ReplaceAllStringFunc(text, func(matched string) string {
			if matched == strings.ToUpper(matched) && len(matched) > 1 {
				return strings.ToUpper(rule.replacement)
			}
			return rule.replacement
		})
	}
	return text
}

// NeutralizeTone rewrites promotional or emotional terms in model output
// with neutral equivalents. Applying it twice produces the same text as
// applying it once.
func (s *Service) NeutralizeTone(text string) string {
	return s.tone.apply(text)
}
