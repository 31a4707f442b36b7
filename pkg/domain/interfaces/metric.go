package interfaces

import (
	"context"

	"github.com/finsight-lab/finsight/pkg/domain/model"
)

// MetricRepository defines the interface for FinancialMetric data persistence
type MetricRepository interface {
	// Save upserts metrics keyed by (symbol, name, period); the latest
	// write per key wins
	Save(ctx context.Context, metrics []*model.FinancialMetric) error

	// GetBySymbol retrieves the full current metric set for a company as a
	// name keyed mapping. An unknown symbol yields an empty set, not an
	// error.
	GetBySymbol(ctx context.Context, symbol string) (model.MetricSet, error)

	// ListBySymbol retrieves the raw metric rows for a company
	ListBySymbol(ctx context.Context, symbol string) ([]*model.FinancialMetric, error)
}
