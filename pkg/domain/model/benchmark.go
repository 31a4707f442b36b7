package model

import "time"

// SectorBenchmark holds percentile reference values of one metric across a
// sector. Read-only reference data for the query pipeline; recomputed by the
// benchmark refresh worker.
type SectorBenchmark struct {
	Sector     string
	MetricName string
	P25        float64
	P50        float64
	P75        float64
	SampleSize int
	ComputedAt time.Time
}

// BenchmarkSet maps metric names to sector benchmarks
type BenchmarkSet map[string]*SectorBenchmark
