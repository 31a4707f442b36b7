package model

import (
	"time"

	"github.com/finsight-lab/finsight/pkg/domain/types"
	"github.com/google/uuid"
)

// EmbeddingDimension is the dimension of the embedding vector
// Gemini text-embedding-004 uses 768 dimensions
const EmbeddingDimension = 768

// ChunkID is a UUID-based identifier for TextChunk
type ChunkID string

// NewChunkID generates a new UUID v4 ChunkID
func NewChunkID() ChunkID {
	return ChunkID(uuid.New().String())
}

// TextChunk is a bounded slice of a source document stored with an embedding
// for similarity search. Chunks are immutable once stored.
type TextChunk struct {
	ID            ChunkID
	DocumentID    string // Owning document, e.g. a report or transcript
	CompanySymbol string
	DocumentType  types.DocumentType
	ChunkIndex    int // Position of this chunk within the document
	Text          string
	SourceURL     string
	Embedding     []float32
	CreatedAt     time.Time
}

// ScoredChunk is a TextChunk annotated with its query-time similarity
// distance. Lower distance means more relevant.
type ScoredChunk struct {
	TextChunk
	Distance float64
}
