package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/finsight-lab/finsight/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type metricKey struct {
	symbol string
	name   string
	period string
}

type metricRepository struct {
	mu      sync.RWMutex
	metrics map[metricKey]*model.FinancialMetric
}

func newMetricRepository() *metricRepository {
	return &metricRepository{
		metrics: make(map[metricKey]*model.FinancialMetric),
	}
}

func copyMetric(m *model.FinancialMetric) *model.FinancialMetric {
	copied := *m
	return &copied
}

func (r *metricRepository) Save(ctx context.Context, metrics []*model.FinancialMetric) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	for _, m := range metrics {
		if m.Name == "" {
			return goerr.New("metric name is required", goerr.V("symbol", m.CompanySymbol))
		}
		saved := copyMetric(m)
		saved.CompanySymbol = model.NormalizeSymbol(saved.CompanySymbol)
		saved.PeriodType = saved.PeriodType.Normalize()
		saved.UpdatedAt = now

		key := metricKey{
			symbol: saved.CompanySymbol,
			name:   saved.Name,
			period: saved.PeriodType.String(),
		}
		r.metrics[key] = saved
	}

	return nil
}

func (r *metricRepository) GetBySymbol(ctx context.Context, symbol string) (model.MetricSet, error) {
	rows, err := r.ListBySymbol(ctx, symbol)
	if err != nil {
		return nil, err
	}

	set := make(model.MetricSet, len(rows))
	for _, m := range rows {
		set[m.Name] = model.MetricValue{
			Value:  m.Value,
			Period: m.PeriodType,
			Source: m.Source,
		}
	}

	return set, nil
}

func (r *metricRepository) ListBySymbol(ctx context.Context, symbol string) ([]*model.FinancialMetric, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	normalized := model.NormalizeSymbol(symbol)
	var result []*model.FinancialMetric
	for _, m := range r.metrics {
		if m.CompanySymbol == normalized {
			result = append(result, copyMetric(m))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].PeriodType < result[j].PeriodType
	})

	return result, nil
}
