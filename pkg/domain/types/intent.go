package types

import "fmt"

// Intent represents an analytical intent handled by the prompt assembler
type Intent string

const (
	IntentQuarterlySummary Intent = "quarterly_summary"
	IntentBullBear         Intent = "bull_bear"
	IntentRedFlags         Intent = "red_flags"
	IntentBenchmark        Intent = "benchmark"
	IntentGeneralQuery     Intent = "general_query"
)

// AllIntents returns all valid analytical intents
func AllIntents() []Intent {
	return []Intent{
		IntentQuarterlySummary,
		IntentBullBear,
		IntentRedFlags,
		IntentBenchmark,
		IntentGeneralQuery,
	}
}

// IsValid checks if the intent is valid
func (i Intent) IsValid() bool {
	switch i {
	case IntentQuarterlySummary,
		IntentBullBear,
		IntentRedFlags,
		IntentBenchmark,
		IntentGeneralQuery:
		return true
	default:
		return false
	}
}

// RendersOpinion reports whether the intent produces opinionated analysis
// that must carry the neutrality disclaimer. Plain factual summaries and
// free-form answers do not.
func (i Intent) RendersOpinion() bool {
	switch i {
	case IntentBullBear, IntentRedFlags, IntentBenchmark:
		return true
	default:
		return false
	}
}

// String returns the string representation of the intent
func (i Intent) String() string {
	return string(i)
}

// ParseIntent parses a string into an Intent
func ParseIntent(s string) (Intent, error) {
	intent := Intent(s)
	if !intent.IsValid() {
		return "", fmt.Errorf("invalid intent: %s", s)
	}
	return intent, nil
}
