package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/finsight-lab/finsight/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type companyRepository struct {
	mu        sync.RWMutex
	companies map[string]*model.Company
}

func newCompanyRepository() *companyRepository {
	return &companyRepository{
		companies: make(map[string]*model.Company),
	}
}

func copyCompany(c *model.Company) *model.Company {
	copied := *c
	return &copied
}

func (r *companyRepository) Put(ctx context.Context, company *model.Company) (*model.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	created := copyCompany(company)
	created.Symbol = model.NormalizeSymbol(created.Symbol)
	if created.Symbol == "" {
		return nil, goerr.New("company symbol is required")
	}
	if existing, ok := r.companies[created.Symbol]; ok {
		created.CreatedAt = existing.CreatedAt
	} else {
		created.CreatedAt = now
	}
	created.UpdatedAt = now

	r.companies[created.Symbol] = created
	return copyCompany(created), nil
}

func (r *companyRepository) Get(ctx context.Context, symbol string) (*model.Company, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	company, exists := r.companies[model.NormalizeSymbol(symbol)]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "company not found", goerr.V("symbol", symbol))
	}

	return copyCompany(company), nil
}

func (r *companyRepository) List(ctx context.Context) ([]*model.Company, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Company, 0, len(r.companies))
	for _, c := range r.companies {
		result = append(result, copyCompany(c))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Symbol < result[j].Symbol
	})

	return result, nil
}
