package model

// Citation is a source reference attached to an answer, drawn from chunk
// metadata used during retrieval.
type Citation struct {
	DocumentType string
	SourceURL    string
}

// RetrievalBundle is the per-request aggregate of retrieved context: ranked
// text chunks plus the company's full current metric set. Constructed per
// request and discarded after use; no shared mutable state.
type RetrievalBundle struct {
	CompanySymbol string
	Chunks        []*ScoredChunk // Ordered by ascending distance
	Metrics       MetricSet
}

// Texts returns the chunk texts in relevance order
func (b *RetrievalBundle) Texts() []string {
	texts := make([]string, 0, len(b.Chunks))
	for _, c := range b.Chunks {
		texts = append(texts, c.Text)
	}
	return texts
}

// Citations returns up to limit deduplicated source references from the
// retrieved chunks, in relevance order. Chunks without a source URL are
// skipped.
func (b *RetrievalBundle) Citations(limit int) []Citation {
	seen := make(map[Citation]bool)
	citations := make([]Citation, 0, limit)
	for _, c := range b.Chunks {
		if c.SourceURL == "" {
			continue
		}
		citation := Citation{
			DocumentType: c.DocumentType.Normalize().String(),
			SourceURL:    c.SourceURL,
		}
		if seen[citation] {
			continue
		}
		seen[citation] = true
		citations = append(citations, citation)
		if len(citations) >= limit {
			break
		}
	}
	return citations
}
