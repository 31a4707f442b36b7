package cli

import (
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
)

func TestSplitChunks(t *testing.T) {
	t.Run("short text is a single chunk", func(t *testing.T) {
		chunks := splitChunks("First paragraph.\n\nSecond paragraph.")
		gt.Value(t, chunks).Equal([]string{"First paragraph.\n\nSecond paragraph."})
	})

	t.Run("empty text yields no chunks", func(t *testing.T) {
		gt.Value(t, len(splitChunks(""))).Equal(0)
		gt.Value(t, len(splitChunks("\n\n\n\n"))).Equal(0)
	})

	t.Run("paragraphs pack until the limit", func(t *testing.T) {
		para := strings.Repeat("word ", 180) // ~900 chars
		chunks := splitChunks(para + "\n\n" + para + "\n\n" + para)

		gt.Value(t, len(chunks)).Equal(3)
		for _, c := range chunks {
			gt.Value(t, len(c) <= maxChunkChars).Equal(true)
		}
	})

	t.Run("oversized paragraph is split mid-text", func(t *testing.T) {
		huge := strings.Repeat("a", maxChunkChars*2+100)
		chunks := splitChunks(huge)

		gt.Value(t, len(chunks)).Equal(3)
		total := 0
		for _, c := range chunks {
			gt.Value(t, len(c) <= maxChunkChars).Equal(true)
			total += len(c)
		}
		gt.Value(t, total).Equal(len(huge))
	})

	t.Run("whitespace trimmed from chunk edges", func(t *testing.T) {
		chunks := splitChunks("  padded paragraph  \n\n")
		gt.Value(t, chunks).Equal([]string{"padded paragraph"})
	})
}
