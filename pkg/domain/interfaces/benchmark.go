package interfaces

import (
	"context"

	"github.com/finsight-lab/finsight/pkg/domain/model"
)

// BenchmarkRepository defines the interface for SectorBenchmark reference data
type BenchmarkRepository interface {
	// GetBySector retrieves benchmarks for a sector. If metricName is
	// non-empty the result is filtered to that metric. An unknown sector
	// yields an empty result, not an error.
	GetBySector(ctx context.Context, sector string, metricName string) ([]*model.SectorBenchmark, error)

	// ReplaceSector atomically replaces all benchmarks for a sector.
	// Used by the refresh worker; never called on the query path.
	ReplaceSector(ctx context.Context, sector string, benchmarks []*model.SectorBenchmark) error
}
