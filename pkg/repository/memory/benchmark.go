package memory

import (
	"context"
	"sync"

	"github.com/finsight-lab/finsight/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type benchmarkRepository struct {
	mu         sync.RWMutex
	benchmarks map[string][]*model.SectorBenchmark
}

func newBenchmarkRepository() *benchmarkRepository {
	return &benchmarkRepository{
		benchmarks: make(map[string][]*model.SectorBenchmark),
	}
}

func copyBenchmark(b *model.SectorBenchmark) *model.SectorBenchmark {
	copied := *b
	return &copied
}

func (r *benchmarkRepository) GetBySector(ctx context.Context, sector, metricName string) ([]*model.SectorBenchmark, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rows, exists := r.benchmarks[sector]
	if !exists {
		return nil, nil
	}

	var result []*model.SectorBenchmark
	for _, b := range rows {
		if metricName != "" && b.MetricName != metricName {
			continue
		}
		result = append(result, copyBenchmark(b))
	}

	return result, nil
}

func (r *benchmarkRepository) ReplaceSector(ctx context.Context, sector string, benchmarks []*model.SectorBenchmark) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	replaced := make([]*model.SectorBenchmark, 0, len(benchmarks))
	for _, b := range benchmarks {
		if b.Sector != sector {
			return goerr.New("benchmark sector mismatch",
				goerr.V("expected", sector),
				goerr.V("actual", b.Sector))
		}
		replaced = append(replaced, copyBenchmark(b))
	}
	r.benchmarks[sector] = replaced

	return nil
}
