package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/finsight-lab/finsight/pkg/domain/model"
	"github.com/finsight-lab/finsight/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
)

// chunkDocument is the Firestore representation of model.TextChunk.
// Embedding is stored as firestore.Vector32 so that FindNearest vector
// search works. Distance is never written; it is populated by vector
// queries through DistanceResultField.
type chunkDocument struct {
	ID            string             `firestore:"id"`
	DocumentID    string             `firestore:"document_id"`
	CompanySymbol string             `firestore:"company_symbol"`
	DocumentType  string             `firestore:"document_type"`
	ChunkIndex    int                `firestore:"chunk_index"`
	Text          string             `firestore:"text"`
	SourceURL     string             `firestore:"source_url"`
	Embedding     firestore.Vector32 `firestore:"embedding,omitempty"`
	CreatedAt     time.Time          `firestore:"created_at"`
	Distance      float64            `firestore:"distance,omitempty"`
}

type chunkRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newChunkRepository(client *firestore.Client) *chunkRepository {
	return &chunkRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *chunkRepository) chunksCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_chunks"
	}
	return "chunks"
}

func chunkToDocument(c *model.TextChunk) *chunkDocument {
	doc := &chunkDocument{
		ID:            string(c.ID),
		DocumentID:    c.DocumentID,
		CompanySymbol: c.CompanySymbol,
		DocumentType:  c.DocumentType.String(),
		ChunkIndex:    c.ChunkIndex,
		Text:          c.Text,
		SourceURL:     c.SourceURL,
		CreatedAt:     c.CreatedAt,
	}
	if len(c.Embedding) > 0 {
		doc.Embedding = firestore.Vector32(c.Embedding)
	}
	return doc
}

func chunkToModel(doc *chunkDocument) *model.TextChunk {
	c := &model.TextChunk{
		ID:            model.ChunkID(doc.ID),
		DocumentID:    doc.DocumentID,
		CompanySymbol: doc.CompanySymbol,
		DocumentType:  types.DocumentType(doc.DocumentType),
		ChunkIndex:    doc.ChunkIndex,
		Text:          doc.Text,
		SourceURL:     doc.SourceURL,
		CreatedAt:     doc.CreatedAt,
	}
	if len(doc.Embedding) > 0 {
		c.Embedding = []float32(doc.Embedding)
	}
	return c
}

func (r *chunkRepository) Put(ctx context.Context, chunks []*model.TextChunk) error {
	now := time.Now().UTC()
	for _, c := range chunks {
		if c.ID == "" {
			return goerr.New("chunk ID is required", goerr.V("document", c.DocumentID))
		}
		saved := *c
		saved.CompanySymbol = model.NormalizeSymbol(saved.CompanySymbol)
		if saved.CreatedAt.IsZero() {
			saved.CreatedAt = now
		}

		docRef := r.client.Collection(r.chunksCollection()).Doc(string(saved.ID))
		if _, err := docRef.Set(ctx, chunkToDocument(&saved)); err != nil {
			return goerr.Wrap(err, "failed to save chunk",
				goerr.V("id", saved.ID),
				goerr.V("symbol", saved.CompanySymbol))
		}
	}

	return nil
}

func (r *chunkRepository) FindNearest(ctx context.Context, symbol string, embedding []float32, limit int, docTypes []types.DocumentType) ([]*model.ScoredChunk, error) {
	if limit <= 0 {
		return nil, nil
	}

	query := r.client.Collection(r.chunksCollection()).
		Where("company_symbol", "==", model.NormalizeSymbol(symbol))
	if len(docTypes) > 0 {
		typeNames := make([]string, 0, len(docTypes))
		for _, dt := range docTypes {
			typeNames = append(typeNames, dt.String())
		}
		query = query.Where("document_type", "in", typeNames)
	}

	vq := query.FindNearest("embedding", firestore.Vector32(embedding), limit,
		firestore.DistanceMeasureCosine,
		&firestore.FindNearestOptions{DistanceResultField: "distance"})

	iter := vq.Documents(ctx)
	defer iter.Stop()

	chunks := make([]*model.ScoredChunk, 0, limit)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate vector search results", goerr.V("symbol", symbol))
		}

		var d chunkDocument
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal chunk from vector search")
		}

		chunks = append(chunks, &model.ScoredChunk{
			TextChunk: *chunkToModel(&d),
			Distance:  d.Distance,
		})
	}

	return chunks, nil
}

func (r *chunkRepository) CountBySymbol(ctx context.Context, symbol string) (int, error) {
	docs, err := r.client.Collection(r.chunksCollection()).
		Where("company_symbol", "==", model.NormalizeSymbol(symbol)).
		Select().
		Documents(ctx).GetAll()
	if err != nil {
		return 0, goerr.Wrap(err, "failed to count chunks", goerr.V("symbol", symbol))
	}

	return len(docs), nil
}
