package interfaces

// Repository defines the interface for data persistence
type Repository interface {
	Company() CompanyRepository
	Metric() MetricRepository
	Benchmark() BenchmarkRepository
	Chunk() ChunkRepository

	Close() error
}
