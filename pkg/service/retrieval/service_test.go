package retrieval_test

import (
	"context"
	"errors"
	"testing"

	"github.com/finsight-lab/finsight/pkg/domain/model"
	"github.com/finsight-lab/finsight/pkg/repository/memory"
	"github.com/finsight-lab/finsight/pkg/service/retrieval"
	"github.com/m-mizutani/gt"
)

// fakeEmbedder returns a fixed unit vector for every input text
type fakeEmbedder struct {
	vec []float32
	err error
}

func (f *fakeEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = f.vec
	}
	return out, nil
}

func seedChunks(t *testing.T, repo *memory.Memory) {
	t.Helper()
	ctx := context.Background()

	chunks := []*model.TextChunk{
		{
			ID:            model.NewChunkID(),
			DocumentID:    "doc-1",
			CompanySymbol: "ACME",
			Text:          "aligned chunk",
			Embedding:     []float32{1, 0, 0},
		},
		{
			ID:            model.NewChunkID(),
			DocumentID:    "doc-1",
			CompanySymbol: "ACME",
			Text:          "orthogonal chunk",
			Embedding:     []float32{0, 1, 0},
		},
		{
			ID:            model.NewChunkID(),
			DocumentID:    "doc-2",
			CompanySymbol: "OTHER",
			Text:          "other company chunk",
			Embedding:     []float32{1, 0, 0},
		},
	}
	gt.NoError(t, repo.Chunk().Put(ctx, chunks)).Required()

	gt.NoError(t, repo.Metric().Save(ctx, []*model.FinancialMetric{
		{CompanySymbol: "ACME", Name: "pe_ratio", Value: 45.2},
		{CompanySymbol: "ACME", Name: "roe", Value: 18.5},
	})).Required()
}

func TestRetrieve(t *testing.T) {
	ctx := context.Background()

	t.Run("chunks ranked by distance plus full metric set", func(t *testing.T) {
		repo := memory.New()
		seedChunks(t, repo)

		svc, err := retrieval.New(repo, &fakeEmbedder{vec: []float32{1, 0, 0}})
		gt.NoError(t, err).Required()

		bundle, err := svc.Retrieve(ctx, "revenue growth", "acme", 5, nil)
		gt.NoError(t, err).Required()

		gt.Value(t, bundle.CompanySymbol).Equal("ACME")
		gt.Value(t, len(bundle.Chunks)).Equal(2)
		gt.Value(t, bundle.Chunks[0].Text).Equal("aligned chunk")
		gt.Value(t, bundle.Texts()).Equal([]string{"aligned chunk", "orthogonal chunk"})

		gt.Value(t, len(bundle.Metrics)).Equal(2)
		gt.Value(t, bundle.Metrics["pe_ratio"].Value).Equal(45.2)
	})

	t.Run("embedding failure degrades to metrics only", func(t *testing.T) {
		repo := memory.New()
		seedChunks(t, repo)

		svc, err := retrieval.New(repo, &fakeEmbedder{err: errors.New("embedding quota exceeded")})
		gt.NoError(t, err).Required()

		bundle, err := svc.Retrieve(ctx, "revenue growth", "ACME", 5, nil)
		gt.NoError(t, err).Required()

		gt.Value(t, len(bundle.Chunks)).Equal(0)
		gt.Value(t, len(bundle.Metrics)).Equal(2)
	})

	t.Run("unknown company yields empty bundle", func(t *testing.T) {
		repo := memory.New()
		seedChunks(t, repo)

		svc, err := retrieval.New(repo, &fakeEmbedder{vec: []float32{1, 0, 0}})
		gt.NoError(t, err).Required()

		bundle, err := svc.Retrieve(ctx, "revenue growth", "NOPE", 5, nil)
		gt.NoError(t, err).Required()
		gt.Value(t, len(bundle.Chunks)).Equal(0)
		gt.Value(t, len(bundle.Metrics)).Equal(0)
	})

	t.Run("result count limit applies", func(t *testing.T) {
		repo := memory.New()
		seedChunks(t, repo)

		svc, err := retrieval.New(repo, &fakeEmbedder{vec: []float32{1, 0, 0}})
		gt.NoError(t, err).Required()

		bundle, err := svc.Retrieve(ctx, "revenue growth", "ACME", 1, nil)
		gt.NoError(t, err).Required()
		gt.Value(t, len(bundle.Chunks)).Equal(1)
		gt.Value(t, bundle.Chunks[0].Text).Equal("aligned chunk")
	})
}

func TestSectorBenchmarks(t *testing.T) {
	ctx := context.Background()

	repo := memory.New()
	gt.NoError(t, repo.Benchmark().ReplaceSector(ctx, "Manufacturing", []*model.SectorBenchmark{
		{Sector: "Manufacturing", MetricName: "pe_ratio", P25: 20, P50: 30, P75: 40},
		{Sector: "Manufacturing", MetricName: "roe", P25: 10, P50: 15, P75: 20},
	})).Required()

	svc, err := retrieval.New(repo, &fakeEmbedder{vec: []float32{1, 0, 0}})
	gt.NoError(t, err).Required()

	t.Run("all metrics for sector", func(t *testing.T) {
		set, err := svc.SectorBenchmarks(ctx, "Manufacturing", "")
		gt.NoError(t, err).Required()
		gt.Value(t, len(set)).Equal(2)
		gt.Value(t, set["pe_ratio"].P50).Equal(float64(30))
	})

	t.Run("filtered to one metric", func(t *testing.T) {
		set, err := svc.SectorBenchmarks(ctx, "Manufacturing", "roe")
		gt.NoError(t, err).Required()
		gt.Value(t, len(set)).Equal(1)
		gt.Value(t, set["roe"].P75).Equal(float64(20))
	})

	t.Run("unknown sector yields empty set", func(t *testing.T) {
		set, err := svc.SectorBenchmarks(ctx, "Utilities", "")
		gt.NoError(t, err).Required()
		gt.Value(t, len(set)).Equal(0)
	})
}
