package interfaces

import (
	"context"

	"github.com/finsight-lab/finsight/pkg/domain/model"
	"github.com/finsight-lab/finsight/pkg/domain/types"
)

// ChunkRepository defines the interface for TextChunk storage and
// vector similarity search
type ChunkRepository interface {
	// Put stores text chunks with their embeddings. Chunks are immutable
	// once stored.
	Put(ctx context.Context, chunks []*model.TextChunk) error

	// FindNearest returns up to limit chunks for the company ordered by
	// ascending embedding distance to the query vector (most relevant
	// first, ties broken by insertion order). docTypes, when non-empty,
	// restricts results to those document types.
	FindNearest(ctx context.Context, symbol string, embedding []float32, limit int, docTypes []types.DocumentType) ([]*model.ScoredChunk, error)

	// CountBySymbol returns the number of stored chunks for a company
	CountBySymbol(ctx context.Context, symbol string) (int, error)
}
