package guardrail

import (
	"fmt"
	"strings"

	"github.com/finsight-lab/finsight/pkg/domain/model"
	"github.com/finsight-lab/finsight/pkg/domain/types"
)

const (
	// GreetingReply is the canonical response for greeting queries
	GreetingReply = "Hello! How can I help you today? I can assist you with analyzing company financial data, including fundamentals, metrics, and quarterly results."

	// ThanksReply is returned for thanks/acknowledgement queries
	ThanksReply = "You're welcome! Feel free to ask if you need any more information."

	// FarewellReply is returned for farewell queries
	FarewellReply = "Goodbye! Feel free to return if you have more questions."

	// AdvisoryRefusal is the fixed refusal for buy/sell/advice requests
	AdvisoryRefusal = "I cannot provide buy/sell recommendations or investment advice. However, I can help you analyze the company's financial metrics and performance. Please consult a qualified financial advisor for personalized investment advice."

	// PredictiveRefusal is the fixed refusal for forecast requests
	PredictiveRefusal = "I cannot predict future stock prices, market movements, or company performance. I can only analyze past performance, current financial metrics, and historical data. For future projections, please consult a qualified financial advisor."

	// Disclaimer is appended to opinion-rendering outputs
	Disclaimer = "\n\n*Generated by AI based on public data. Not a buy/sell recommendation. Please consult your financial advisor.*"
)

const maxCitations = 3

// unavailableMarkers are admissions of missing information in model output
var unavailableMarkers = []string{
	"not available",
	"i don't know",
	"cannot find",
	"could not find",
	"no information",
}

// GreetingFor picks the canonical reply for a greeting-class query
func GreetingFor(query string) string {
	normalized := strings.ToLower(strings.TrimSpace(query))
	switch {
	case strings.HasPrefix(normalized, "thanks"), strings.HasPrefix(normalized, "thank"), strings.HasPrefix(normalized, "thx"):
		return ThanksReply
	case strings.HasPrefix(normalized, "bye"), strings.HasPrefix(normalized, "goodbye"), strings.HasPrefix(normalized, "see you"):
		return FarewellReply
	default:
		return GreetingReply
	}
}

// DataUnavailable formats the canonical missing-data sentence. The subject
// is the inferred metric name, or "this information" when unknown.
func DataUnavailable(subject string) string {
	if subject == "" {
		subject = "this information"
	}
	return fmt.Sprintf("I'm still learning, %s is not available with me right now but will soon be available.", subject)
}

// ContainsUnavailableAdmission reports whether model output admits missing
// information
func ContainsUnavailableAdmission(text string) bool {
	lowered := strings.ToLower(text)
	for _, marker := range unavailableMarkers {
		if strings.Contains(lowered, marker) {
			return true
		}
	}
	return false
}

// InferMetricName finds the stored metric name a query is asking about.
// Both sides are squashed to lower-case alphanumerics before matching, so
// "What is the P/E ratio?" matches the stored name "pe_ratio". Returns the
// name in display form ("Pe Ratio"), or empty when no metric matches.
func InferMetricName(query string, metricNames []string) string {
	squashedQuery := squash(query)
	if squashedQuery == "" {
		return ""
	}

	for _, name := range metricNames {
		if squashed := squash(name); squashed != "" && strings.Contains(squashedQuery, squashed) {
			return displayMetricName(name)
		}
	}

	return ""
}

func squash(s string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func displayMetricName(name string) string {
	words := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// AddDisclaimer appends the fixed disclaimer for opinion-rendering intents
// and leaves factual output untouched
func AddDisclaimer(text string, intent types.Intent) string {
	if !intent.RendersOpinion() {
		return text
	}
	if strings.Contains(text, Disclaimer) {
		return text
	}
	return text + Disclaimer
}

// AddCitations appends a source list to the answer. Citations are already
// deduplicated by the retrieval bundle; at most three are rendered.
func AddCitations(text string, citations []model.Citation) string {
	if len(citations) == 0 {
		return text
	}
	if len(citations) > maxCitations {
		citations = citations[:maxCitations]
	}

	var sb strings.Builder
	sb.WriteString(text)
	sb.WriteString("\n\nSources:\n")
	for _, c := range citations {
		fmt.Fprintf(&sb, "- %s: %s\n", c.DocumentType, c.SourceURL)
	}

	return strings.TrimRight(sb.String(), "\n")
}

// Process applies the full post-processing sequence to raw model output:
// neutral-tone filtering, the data-unavailable rewrite, disclaimer
// injection, and citation attachment. Applied after every successful
// model call for non-greeting, non-refusal intents.
func (s *Service) Process(intent types.Intent, raw, query string, metricNames []string, citations []model.Citation) string {
	text := s.NeutralizeTone(strings.TrimSpace(raw))

	if ContainsUnavailableAdmission(text) {
		text = DataUnavailable(InferMetricName(query, metricNames))
	}

	text = AddDisclaimer(text, intent)
	text = AddCitations(text, citations)

	return text
}
