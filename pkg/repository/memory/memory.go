package memory

import (
	"github.com/finsight-lab/finsight/pkg/domain/interfaces"
)

// Memory is an in-memory repository implementation used by tests and
// development mode
type Memory struct {
	company   *companyRepository
	metric    *metricRepository
	benchmark *benchmarkRepository
	chunk     *chunkRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		company:   newCompanyRepository(),
		metric:    newMetricRepository(),
		benchmark: newBenchmarkRepository(),
		chunk:     newChunkRepository(),
	}
}

func (m *Memory) Company() interfaces.CompanyRepository {
	return m.company
}

func (m *Memory) Metric() interfaces.MetricRepository {
	return m.metric
}

func (m *Memory) Benchmark() interfaces.BenchmarkRepository {
	return m.benchmark
}

func (m *Memory) Chunk() interfaces.ChunkRepository {
	return m.chunk
}

func (m *Memory) Close() error {
	return nil
}
