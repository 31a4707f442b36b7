package worker

import (
	"context"
	"sort"
	"time"

	"github.com/finsight-lab/finsight/pkg/domain/interfaces"
	"github.com/finsight-lab/finsight/pkg/domain/model"
	"github.com/finsight-lab/finsight/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// BenchmarkRefreshWorker recomputes sector percentile benchmarks from the
// stored metric set on a fixed interval.
//
// Architecture assumptions:
// - Single server instance (no distributed locking)
// - For future horizontal scaling, implement distributed locking or leader election
type BenchmarkRefreshWorker struct {
	repo     interfaces.Repository
	interval time.Duration
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// NewBenchmarkRefreshWorker creates a worker that refreshes sector benchmarks
func NewBenchmarkRefreshWorker(repo interfaces.Repository, interval time.Duration) *BenchmarkRefreshWorker {
	return &BenchmarkRefreshWorker{
		repo:     repo,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background refresh loop
// - Initial refresh and periodic refresh both run in a background goroutine
// - Does not block server startup
func (w *BenchmarkRefreshWorker) Start(ctx context.Context) error {
	logging.Default().Info("benchmark refresh worker starting",
		"interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *BenchmarkRefreshWorker) Stop() {
	logging.Default().Info("benchmark refresh worker stopping")
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("benchmark refresh worker stopped")
}

func (w *BenchmarkRefreshWorker) run(ctx context.Context) {
	defer close(w.doneCh)

	if err := w.Refresh(ctx); err != nil {
		logging.Default().Error("initial benchmark refresh failed (will retry next interval)",
			"error", err.Error())
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := w.Refresh(ctx); err != nil {
				logging.Default().Error("benchmark refresh failed (will retry next interval)",
					"error", err.Error())
			}

		case <-w.stopCh:
			logging.Default().Info("benchmark refresh worker received stop signal")
			return

		case <-ctx.Done():
			logging.Default().Info("benchmark refresh worker context cancelled")
			return
		}
	}
}

// Refresh performs a single refresh cycle: group current metric values by
// (sector, metric name), compute percentiles, and replace each sector's
// benchmark set atomically.
func (w *BenchmarkRefreshWorker) Refresh(ctx context.Context) error {
	startTime := time.Now()
	logging.Default().Info("starting benchmark refresh")

	companies, err := w.repo.Company().List(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to list companies")
	}

	// sector -> metric name -> values across the sector's companies
	values := make(map[string]map[string][]float64)
	for _, company := range companies {
		sector := company.SectorOrUnknown()
		metrics, err := w.repo.Metric().GetBySymbol(ctx, company.Symbol)
		if err != nil {
			return goerr.Wrap(err, "failed to load metrics", goerr.V("symbol", company.Symbol))
		}

		for name, mv := range metrics {
			if values[sector] == nil {
				values[sector] = make(map[string][]float64)
			}
			values[sector][name] = append(values[sector][name], mv.Value)
		}
	}

	total := 0
	for sector, metrics := range values {
		benchmarks := make([]*model.SectorBenchmark, 0, len(metrics))
		for name, vals := range metrics {
			benchmarks = append(benchmarks, &model.SectorBenchmark{
				Sector:     sector,
				MetricName: name,
				P25:        percentile(vals, 0.25),
				P50:        percentile(vals, 0.50),
				P75:        percentile(vals, 0.75),
				SampleSize: len(vals),
				ComputedAt: startTime,
			})
		}

		if err := w.repo.Benchmark().ReplaceSector(ctx, sector, benchmarks); err != nil {
			return goerr.Wrap(err, "failed to replace sector benchmarks", goerr.V("sector", sector))
		}
		total += len(benchmarks)
	}

	logging.Default().Info("benchmark refresh completed",
		"sectors", len(values),
		"benchmarks", total,
		"duration", time.Since(startTime).String())

	return nil
}

// percentile computes the p-th percentile with linear interpolation between
// closest ranks
func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	if len(sorted) == 1 {
		return sorted[0]
	}

	rank := p * float64(len(sorted)-1)
	lower := int(rank)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	frac := rank - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}
