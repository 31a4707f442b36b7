package model

import (
	"sort"
	"time"

	"github.com/finsight-lab/finsight/pkg/domain/types"
)

// FinancialMetric represents one structured metric value for a company.
// Keyed by (company symbol, metric name, period type); the latest write per
// key wins and no history is retained.
type FinancialMetric struct {
	CompanySymbol string
	Name          string // e.g. "pe_ratio", "roe", "debt_to_equity"
	Value         float64
	PeriodType    types.PeriodType
	Source        string // e.g. "screener", "moneycontrol"
	UpdatedAt     time.Time
}

// MetricValue is the query-time view of a metric, without its key fields
type MetricValue struct {
	Value  float64
	Period types.PeriodType
	Source string
}

// MetricSet maps metric names to their current values for one company
type MetricSet map[string]MetricValue

// Names returns the metric names in sorted order for deterministic output
func (s MetricSet) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
