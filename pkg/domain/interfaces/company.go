package interfaces

import (
	"context"

	"github.com/finsight-lab/finsight/pkg/domain/model"
)

// CompanyRepository defines the interface for Company data persistence
type CompanyRepository interface {
	// Put creates or replaces a company record keyed by symbol
	Put(ctx context.Context, company *model.Company) (*model.Company, error)

	// Get retrieves a company by symbol. Returns ErrNotFound if the symbol
	// is unknown.
	Get(ctx context.Context, symbol string) (*model.Company, error)

	// List retrieves all companies ordered by symbol
	List(ctx context.Context) ([]*model.Company, error)
}
