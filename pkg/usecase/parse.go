package usecase

import (
	"regexp"
	"strings"

	"github.com/finsight-lab/finsight/pkg/domain/model"
	"github.com/finsight-lab/finsight/pkg/domain/types"
)

// Prose parsing of model output is inherently best-effort: the prompt asks
// for a stable shape (BULL/BEAR sections, numbered flags with severity)
// but models drift. Callers always keep the full text as the canonical
// answer and treat the extracted structure as supplementary.

var (
	bulletPrefixRe   = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s+`)
	boldMarkerRe     = regexp.MustCompile(`\*\*`)
	severityLabelRe  = regexp.MustCompile(`(?i)severity(?:\s+level)?\s*[:\-]?\s*\(?\s*(high|medium|low)`)
	severitySuffixRe = regexp.MustCompile(`(?i)\((high|medium|low)\)`)
)

// ParseBullBear extracts bullet points from the BULL CASE and BEAR CASE
// sections of the model's analysis
func ParseBullBear(text string) (bull, bear []string) {
	const (
		sectionNone = iota
		sectionBull
		sectionBear
	)

	section := sectionNone
	for _, line := range strings.Split(text, "\n") {
		upper := strings.ToUpper(line)
		switch {
		case strings.Contains(upper, "BULL CASE"):
			section = sectionBull
			continue
		case strings.Contains(upper, "BEAR CASE"):
			section = sectionBear
			continue
		}

		point, ok := bulletText(line)
		if !ok {
			continue
		}
		switch section {
		case sectionBull:
			bull = append(bull, point)
		case sectionBear:
			bear = append(bear, point)
		}
	}

	return bull, bear
}

// bulletText strips list markers and bold markup from a line, reporting
// whether the line was a list item
func bulletText(line string) (string, bool) {
	if !bulletPrefixRe.MatchString(line) {
		return "", false
	}
	stripped := bulletPrefixRe.ReplaceAllString(line, "")
	stripped = boldMarkerRe.ReplaceAllString(stripped, "")
	stripped = strings.TrimSpace(stripped)
	if stripped == "" {
		return "", false
	}
	return stripped, true
}

// ParseRedFlags extracts individual flags and their severity from the
// model's red-flags analysis. Each numbered or bulleted item starts a new
// flag; following indented lines belong to it. Severity defaults to
// Unknown when the item carries no recognizable label.
func ParseRedFlags(text string) []model.RedFlag {
	var items []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			items = append(items, current.String())
			current.Reset()
		}
	}

	for _, line := range strings.Split(text, "\n") {
		if point, ok := bulletText(line); ok {
			flush()
			current.WriteString(point)
			continue
		}
		if current.Len() > 0 && strings.TrimSpace(line) != "" {
			current.WriteString("\n")
			current.WriteString(strings.TrimSpace(line))
		}
	}
	flush()

	flags := make([]model.RedFlag, 0, len(items))
	for _, item := range items {
		description := strings.TrimSpace(strings.SplitN(item, "\n", 2)[0])
		if description == "" {
			continue
		}
		flags = append(flags, model.RedFlag{
			Description: description,
			Severity:    detectSeverity(item),
		})
	}

	return flags
}

func detectSeverity(item string) types.Severity {
	if m := severityLabelRe.FindStringSubmatch(item); m != nil {
		return normalizeSeverity(m[1])
	}
	if m := severitySuffixRe.FindStringSubmatch(item); m != nil {
		return normalizeSeverity(m[1])
	}
	return types.SeverityUnknown
}

func normalizeSeverity(s string) types.Severity {
	switch strings.ToLower(s) {
	case "high":
		return types.SeverityHigh
	case "medium":
		return types.SeverityMedium
	case "low":
		return types.SeverityLow
	default:
		return types.SeverityUnknown
	}
}
