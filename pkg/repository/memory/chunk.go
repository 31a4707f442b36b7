package memory

import (
	"context"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/finsight-lab/finsight/pkg/domain/model"
	"github.com/finsight-lab/finsight/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

type chunkRepository struct {
	mu     sync.RWMutex
	chunks []*model.TextChunk
}

func newChunkRepository() *chunkRepository {
	return &chunkRepository{}
}

func copyChunk(c *model.TextChunk) *model.TextChunk {
	copied := *c
	if c.Embedding != nil {
		copied.Embedding = make([]float32, len(c.Embedding))
		copy(copied.Embedding, c.Embedding)
	}
	return &copied
}

func (r *chunkRepository) Put(ctx context.Context, chunks []*model.TextChunk) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	for _, c := range chunks {
		if c.ID == "" {
			return goerr.New("chunk ID is required", goerr.V("document", c.DocumentID))
		}
		saved := copyChunk(c)
		saved.CompanySymbol = model.NormalizeSymbol(saved.CompanySymbol)
		if saved.CreatedAt.IsZero() {
			saved.CreatedAt = now
		}
		r.chunks = append(r.chunks, saved)
	}

	return nil
}

func (r *chunkRepository) FindNearest(ctx context.Context, symbol string, embedding []float32, limit int, docTypes []types.DocumentType) ([]*model.ScoredChunk, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 {
		return nil, nil
	}

	normalized := model.NormalizeSymbol(symbol)
	typeFilter := make(map[types.DocumentType]bool, len(docTypes))
	for _, dt := range docTypes {
		typeFilter[dt] = true
	}

	var scored []*model.ScoredChunk
	for _, c := range r.chunks {
		if c.CompanySymbol != normalized {
			continue
		}
		if len(typeFilter) > 0 && !typeFilter[c.DocumentType] {
			continue
		}
		scored = append(scored, &model.ScoredChunk{
			TextChunk: *copyChunk(c),
			Distance:  cosineDistance(embedding, c.Embedding),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Distance < scored[j].Distance
	})
	if len(scored) > limit {
		scored = scored[:limit]
	}

	return scored, nil
}

func (r *chunkRepository) CountBySymbol(ctx context.Context, symbol string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	normalized := model.NormalizeSymbol(symbol)
	count := 0
	for _, c := range r.chunks {
		if c.CompanySymbol == normalized {
			count++
		}
	}

	return count, nil
}

// cosineDistance returns 1 - cosine similarity so that smaller values
// mean closer vectors, matching Firestore's cosine distance measure.
// Mismatched or zero-length vectors get the maximum distance so they
// sort last instead of failing the whole query.
func cosineDistance(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 2.0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 2.0
	}

	return 1.0 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
