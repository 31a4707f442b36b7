package repository_test

import (
	"context"
	"testing"

	"github.com/finsight-lab/finsight/pkg/domain/interfaces"
	"github.com/finsight-lab/finsight/pkg/domain/model"
	"github.com/finsight-lab/finsight/pkg/domain/types"
	"github.com/finsight-lab/finsight/pkg/repository/memory"
)

func runMetricRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Save and GetBySymbol", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		symbol := testSymbol()

		err := repo.Metric().Save(ctx, []*model.FinancialMetric{
			{CompanySymbol: symbol, Name: "pe_ratio", Value: 45.2, Source: "screener"},
			{CompanySymbol: symbol, Name: "roe", Value: 18.5, Source: "screener"},
		})
		if err != nil {
			t.Fatalf("failed to save metrics: %v", err)
		}

		set, err := repo.Metric().GetBySymbol(ctx, symbol)
		if err != nil {
			t.Fatalf("failed to get metrics: %v", err)
		}

		if len(set) != 2 {
			t.Fatalf("expected 2 metrics, got %d", len(set))
		}
		if set["pe_ratio"].Value != 45.2 {
			t.Errorf("expected pe_ratio=45.2, got %f", set["pe_ratio"].Value)
		}
		if set["roe"].Source != "screener" {
			t.Errorf("expected Source=screener, got %s", set["roe"].Source)
		}
	})

	t.Run("Save upserts by symbol name and period", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		symbol := testSymbol()

		err := repo.Metric().Save(ctx, []*model.FinancialMetric{
			{CompanySymbol: symbol, Name: "pe_ratio", Value: 40},
		})
		if err != nil {
			t.Fatalf("failed to save metric: %v", err)
		}

		err = repo.Metric().Save(ctx, []*model.FinancialMetric{
			{CompanySymbol: symbol, Name: "pe_ratio", Value: 45.2},
		})
		if err != nil {
			t.Fatalf("failed to upsert metric: %v", err)
		}

		set, err := repo.Metric().GetBySymbol(ctx, symbol)
		if err != nil {
			t.Fatalf("failed to get metrics: %v", err)
		}
		if len(set) != 1 {
			t.Fatalf("expected 1 metric after upsert, got %d", len(set))
		}
		if set["pe_ratio"].Value != 45.2 {
			t.Errorf("expected latest value 45.2, got %f", set["pe_ratio"].Value)
		}
	})

	t.Run("distinct periods stored separately", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		symbol := testSymbol()

		err := repo.Metric().Save(ctx, []*model.FinancialMetric{
			{CompanySymbol: symbol, Name: "revenue", Value: 100, PeriodType: types.PeriodCurrent},
			{CompanySymbol: symbol, Name: "revenue", Value: 90, PeriodType: types.PeriodTTM},
		})
		if err != nil {
			t.Fatalf("failed to save metrics: %v", err)
		}

		rows, err := repo.Metric().ListBySymbol(ctx, symbol)
		if err != nil {
			t.Fatalf("failed to list metrics: %v", err)
		}
		if len(rows) != 2 {
			t.Errorf("expected 2 rows, got %d", len(rows))
		}
	})

	t.Run("empty period defaults to current", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		symbol := testSymbol()

		err := repo.Metric().Save(ctx, []*model.FinancialMetric{
			{CompanySymbol: symbol, Name: "pe_ratio", Value: 45.2},
		})
		if err != nil {
			t.Fatalf("failed to save metric: %v", err)
		}

		rows, err := repo.Metric().ListBySymbol(ctx, symbol)
		if err != nil {
			t.Fatalf("failed to list metrics: %v", err)
		}
		if len(rows) != 1 {
			t.Fatalf("expected 1 row, got %d", len(rows))
		}
		if rows[0].PeriodType != types.PeriodCurrent {
			t.Errorf("expected period=current, got %s", rows[0].PeriodType)
		}
		if rows[0].UpdatedAt.IsZero() {
			t.Error("expected non-zero UpdatedAt")
		}
	})

	t.Run("Save rejects missing name", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		err := repo.Metric().Save(ctx, []*model.FinancialMetric{
			{CompanySymbol: testSymbol(), Value: 1},
		})
		if err == nil {
			t.Error("expected error for missing metric name")
		}
	})

	t.Run("GetBySymbol returns empty set for unknown symbol", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		set, err := repo.Metric().GetBySymbol(ctx, testSymbol())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(set) != 0 {
			t.Errorf("expected empty set, got %d entries", len(set))
		}
	})
}

func TestMemoryMetricRepository(t *testing.T) {
	runMetricRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestFirestoreMetricRepository(t *testing.T) {
	runMetricRepositoryTest(t, newFirestoreRepository)
}
