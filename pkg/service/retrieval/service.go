package retrieval

import (
	"context"

	"github.com/finsight-lab/finsight/pkg/domain/interfaces"
	"github.com/finsight-lab/finsight/pkg/domain/model"
	"github.com/finsight-lab/finsight/pkg/domain/types"
	"github.com/finsight-lab/finsight/pkg/service/llm"
	"github.com/finsight-lab/finsight/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"
)

// Service gathers per-request context for the query pipeline: nearest text
// chunks by embedding distance plus the company's full current metric set.
type Service struct {
	repo     interfaces.Repository
	embedder llm.Embedder
}

func New(repo interfaces.Repository, embedder llm.Embedder) (*Service, error) {
	if repo == nil {
		return nil, goerr.New("repository is required")
	}
	if embedder == nil {
		return nil, goerr.New("embedder is required")
	}

	return &Service{
		repo:     repo,
		embedder: embedder,
	}, nil
}

// Retrieve runs the similarity search and the metric load concurrently and
// assembles a RetrievalBundle. The metric mapping is always the company's
// full current set, not filtered by the query.
//
// A failing or empty vector search degrades to an empty chunk list rather
// than an error; metrics may still be usable on their own.
func (s *Service) Retrieve(ctx context.Context, query, symbol string, nResults int, docTypes []types.DocumentType) (*model.RetrievalBundle, error) {
	normalized := model.NormalizeSymbol(symbol)

	var chunks []*model.ScoredChunk
	var metrics model.MetricSet

	eg, egCtx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		found, err := s.searchChunks(egCtx, query, normalized, nResults, docTypes)
		if err != nil {
			logging.From(egCtx).Warn("similarity search failed, continuing with metrics only",
				"symbol", normalized,
				"error", err)
			return nil
		}
		chunks = found
		return nil
	})

	eg.Go(func() error {
		loaded, err := s.repo.Metric().GetBySymbol(egCtx, normalized)
		if err != nil {
			return goerr.Wrap(err, "failed to load metrics", goerr.V("symbol", normalized))
		}
		metrics = loaded
		return nil
	})

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return &model.RetrievalBundle{
		CompanySymbol: normalized,
		Chunks:        chunks,
		Metrics:       metrics,
	}, nil
}

func (s *Service) searchChunks(ctx context.Context, query, symbol string, nResults int, docTypes []types.DocumentType) ([]*model.ScoredChunk, error) {
	if nResults <= 0 {
		return nil, nil
	}

	embeddings, err := s.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to embed query")
	}
	if len(embeddings) == 0 {
		return nil, goerr.New("no embedding returned for query")
	}

	chunks, err := s.repo.Chunk().FindNearest(ctx, symbol, embeddings[0], nResults, docTypes)
	if err != nil {
		return nil, goerr.Wrap(err, "vector search failed")
	}

	return chunks, nil
}

// SectorBenchmarks loads percentile reference data for a sector, optionally
// restricted to one metric. Used only by the benchmark and red-flags paths.
func (s *Service) SectorBenchmarks(ctx context.Context, sector, metricName string) (model.BenchmarkSet, error) {
	rows, err := s.repo.Benchmark().GetBySector(ctx, sector, metricName)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load sector benchmarks",
			goerr.V("sector", sector),
			goerr.V("metric", metricName))
	}

	set := make(model.BenchmarkSet, len(rows))
	for _, b := range rows {
		set[b.MetricName] = b
	}

	return set, nil
}
