package guardrail_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/finsight-lab/finsight/pkg/domain/types"
	"github.com/finsight-lab/finsight/pkg/service/guardrail"
	"github.com/m-mizutani/gt"
)

func writeLexiconFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lexicon.toml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0o600)).Required()
	return path
}

func TestLoadLexicon(t *testing.T) {
	t.Run("overrides only the sections present", func(t *testing.T) {
		path := writeLexiconFile(t, `
greetings = ["howdy"]
`)
		lexicon, err := guardrail.LoadLexicon(path)
		gt.NoError(t, err).Required()

		gt.Value(t, lexicon.Greetings).Equal([]string{"howdy"})
		// Untouched sections keep the defaults
		gt.Value(t, lexicon.AdvisoryPatterns).Equal(guardrail.DefaultLexicon().AdvisoryPatterns)
		gt.Value(t, lexicon.ToneReplacements).Equal(guardrail.DefaultLexicon().ToneReplacements)

		svc, err := guardrail.New(lexicon)
		gt.NoError(t, err).Required()
		gt.Value(t, svc.Classify("howdy").Class).Equal(types.QueryClassGreeting)
		gt.Value(t, svc.Classify("hello").Class).Equal(types.QueryClassGeneral)
	})

	t.Run("custom tone replacements", func(t *testing.T) {
		path := writeLexiconFile(t, `
[tone_replacements]
"moonshot" = "speculative bet"
`)
		lexicon, err := guardrail.LoadLexicon(path)
		gt.NoError(t, err).Required()

		svc, err := guardrail.New(lexicon)
		gt.NoError(t, err).Required()
		gt.Value(t, svc.NeutralizeTone("a moonshot play")).Equal("a speculative bet play")
		// Default replacement set was replaced wholesale
		gt.Value(t, svc.NeutralizeTone("a cheap stock")).Equal("a cheap stock")
	})

	t.Run("rejects invalid regex", func(t *testing.T) {
		path := writeLexiconFile(t, `
advisory_patterns = ["should i ("]
`)
		_, err := guardrail.LoadLexicon(path)
		gt.Value(t, err).NotNil()
	})

	t.Run("rejects missing file", func(t *testing.T) {
		_, err := guardrail.LoadLexicon(filepath.Join(t.TempDir(), "missing.toml"))
		gt.Value(t, err).NotNil()
	})
}
