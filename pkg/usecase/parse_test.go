package usecase_test

import (
	"testing"

	"github.com/finsight-lab/finsight/pkg/domain/types"
	"github.com/finsight-lab/finsight/pkg/usecase"
	"github.com/m-mizutani/gt"
)

func TestParseBullBear(t *testing.T) {
	t.Run("extracts both sections", func(t *testing.T) {
		text := `Here is a balanced analysis.

BULL CASE:
- Strong revenue growth of 15%
- **Market leader** in its segment
1. Improving operating margins

BEAR CASE:
* High debt load
* Customer concentration risk
`
		bull, bear := usecase.ParseBullBear(text)

		gt.Value(t, bull).Equal([]string{
			"Strong revenue growth of 15%",
			"Market leader in its segment",
			"Improving operating margins",
		})
		gt.Value(t, bear).Equal([]string{
			"High debt load",
			"Customer concentration risk",
		})
	})

	t.Run("markdown headers around section titles", func(t *testing.T) {
		text := `## Bull Case
- Point one

## Bear Case
- Point two
`
		bull, bear := usecase.ParseBullBear(text)
		gt.Value(t, bull).Equal([]string{"Point one"})
		gt.Value(t, bear).Equal([]string{"Point two"})
	})

	t.Run("bullets before any section are dropped", func(t *testing.T) {
		text := `- orphan bullet

BULL CASE:
- Real point
`
		bull, bear := usecase.ParseBullBear(text)
		gt.Value(t, bull).Equal([]string{"Real point"})
		gt.Value(t, len(bear)).Equal(0)
	})

	t.Run("prose without sections yields nothing", func(t *testing.T) {
		bull, bear := usecase.ParseBullBear("The company had a stable quarter overall.")
		gt.Value(t, len(bull)).Equal(0)
		gt.Value(t, len(bear)).Equal(0)
	})
}

func TestParseRedFlags(t *testing.T) {
	t.Run("numbered flags with severity labels", func(t *testing.T) {
		text := `Identified concerns:

1. High debt-to-equity ratio of 2.4
   Why: well above the sector median.
   Severity: High

2. Declining operating margin
   Severity level: medium

3. Pending litigation in two jurisdictions
`
		flags := usecase.ParseRedFlags(text)
		gt.Value(t, len(flags)).Equal(3)

		gt.Value(t, flags[0].Description).Equal("High debt-to-equity ratio of 2.4")
		gt.Value(t, flags[0].Severity).Equal(types.SeverityHigh)

		gt.Value(t, flags[1].Description).Equal("Declining operating margin")
		gt.Value(t, flags[1].Severity).Equal(types.SeverityMedium)

		gt.Value(t, flags[2].Description).Equal("Pending litigation in two jurisdictions")
		gt.Value(t, flags[2].Severity).Equal(types.SeverityUnknown)
	})

	t.Run("severity in parentheses", func(t *testing.T) {
		text := "- Inventory build-up ahead of demand (Low)"
		flags := usecase.ParseRedFlags(text)
		gt.Value(t, len(flags)).Equal(1)
		gt.Value(t, flags[0].Severity).Equal(types.SeverityLow)
	})

	t.Run("bold markers stripped from descriptions", func(t *testing.T) {
		text := "- **Negative free cash flow** for three quarters"
		flags := usecase.ParseRedFlags(text)
		gt.Value(t, len(flags)).Equal(1)
		gt.Value(t, flags[0].Description).Equal("Negative free cash flow for three quarters")
	})

	t.Run("no flags in plain prose", func(t *testing.T) {
		flags := usecase.ParseRedFlags("No significant red flags were identified this quarter.")
		gt.Value(t, len(flags)).Equal(0)
	})
}
