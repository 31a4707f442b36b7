package repository_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/finsight-lab/finsight/pkg/domain/interfaces"
	"github.com/finsight-lab/finsight/pkg/domain/model"
	"github.com/finsight-lab/finsight/pkg/repository/firestore"
	"github.com/finsight-lab/finsight/pkg/repository/memory"
)

func newFirestoreRepository(t *testing.T) interfaces.Repository {
	t.Helper()

	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}

	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")
	if databaseID == "" {
		t.Skip("TEST_FIRESTORE_DATABASE_ID not set")
	}

	ctx := context.Background()
	// Use standard collection names (no prefix) to utilize existing Firestore
	// indexes. Test data isolation is achieved through random symbols.
	repo, err := firestore.New(ctx, projectID, databaseID)
	if err != nil {
		t.Fatalf("failed to create firestore repository: %v", err)
	}
	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Errorf("failed to close firestore repository: %v", err)
		}
	})
	return repo
}

// testSymbol returns a unique upper-case company symbol for test isolation
func testSymbol() string {
	return fmt.Sprintf("TST%d", time.Now().UnixNano())
}

func runCompanyRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Put creates company with timestamps", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		symbol := testSymbol()
		created, err := repo.Company().Put(ctx, &model.Company{
			Symbol: symbol,
			Name:   "Acme Industries",
			Sector: "Manufacturing",
		})
		if err != nil {
			t.Fatalf("failed to put company: %v", err)
		}

		if created.Symbol != symbol {
			t.Errorf("expected Symbol=%s, got %s", symbol, created.Symbol)
		}
		if created.Name != "Acme Industries" {
			t.Errorf("expected Name=Acme Industries, got %s", created.Name)
		}
		if created.Sector != "Manufacturing" {
			t.Errorf("expected Sector=Manufacturing, got %s", created.Sector)
		}
		if created.CreatedAt.IsZero() {
			t.Error("expected non-zero CreatedAt")
		}
		if created.UpdatedAt.IsZero() {
			t.Error("expected non-zero UpdatedAt")
		}
	})

	t.Run("Put normalizes symbol case", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		symbol := testSymbol()
		lower := fmt.Sprintf("  %s  ", strings.ToLower(symbol))

		created, err := repo.Company().Put(ctx, &model.Company{Symbol: lower, Name: "Padded"})
		if err != nil {
			t.Fatalf("failed to put company: %v", err)
		}
		if created.Symbol != symbol {
			t.Errorf("expected Symbol=%s, got %s", symbol, created.Symbol)
		}

		retrieved, err := repo.Company().Get(ctx, symbol)
		if err != nil {
			t.Fatalf("failed to get company: %v", err)
		}
		if retrieved.Name != "Padded" {
			t.Errorf("expected Name=Padded, got %s", retrieved.Name)
		}
	})

	t.Run("Put overwrite preserves CreatedAt", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		symbol := testSymbol()
		first, err := repo.Company().Put(ctx, &model.Company{Symbol: symbol, Name: "Before"})
		if err != nil {
			t.Fatalf("failed to put company: %v", err)
		}

		second, err := repo.Company().Put(ctx, &model.Company{Symbol: symbol, Name: "After"})
		if err != nil {
			t.Fatalf("failed to overwrite company: %v", err)
		}

		if second.Name != "After" {
			t.Errorf("expected Name=After, got %s", second.Name)
		}
		if !second.CreatedAt.Equal(first.CreatedAt) {
			t.Errorf("expected CreatedAt preserved, got %v vs %v", second.CreatedAt, first.CreatedAt)
		}
	})

	t.Run("Put rejects empty symbol", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Company().Put(ctx, &model.Company{Name: "No Symbol"})
		if err == nil {
			t.Error("expected error for empty symbol")
		}
	})

	t.Run("Get is case-insensitive", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		symbol := testSymbol()
		if _, err := repo.Company().Put(ctx, &model.Company{Symbol: symbol, Name: "Case Test"}); err != nil {
			t.Fatalf("failed to put company: %v", err)
		}

		retrieved, err := repo.Company().Get(ctx, "  "+symbol+"  ")
		if err != nil {
			t.Fatalf("failed to get company: %v", err)
		}
		if retrieved.Symbol != symbol {
			t.Errorf("expected Symbol=%s, got %s", symbol, retrieved.Symbol)
		}
	})

	t.Run("Get returns ErrNotFound for unknown symbol", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Company().Get(ctx, testSymbol())
		if err == nil {
			t.Error("expected error for unknown symbol")
		}
		if !errors.Is(err, memory.ErrNotFound) && !errors.Is(err, firestore.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("List returns companies ordered by symbol", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		a := testSymbol() + "A"
		b := testSymbol() + "B"
		for _, symbol := range []string{b, a} {
			if _, err := repo.Company().Put(ctx, &model.Company{Symbol: symbol}); err != nil {
				t.Fatalf("failed to put company: %v", err)
			}
		}

		companies, err := repo.Company().List(ctx)
		if err != nil {
			t.Fatalf("failed to list companies: %v", err)
		}

		indexA, indexB := -1, -1
		for i, c := range companies {
			switch c.Symbol {
			case a:
				indexA = i
			case b:
				indexB = i
			}
		}
		if indexA < 0 || indexB < 0 {
			t.Fatal("expected both companies in list")
		}
		if indexA > indexB {
			t.Errorf("expected %s before %s", a, b)
		}
	})
}

func TestMemoryCompanyRepository(t *testing.T) {
	runCompanyRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestFirestoreCompanyRepository(t *testing.T) {
	runCompanyRepositoryTest(t, newFirestoreRepository)
}
