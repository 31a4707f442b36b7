package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/finsight-lab/finsight/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type companyDocument struct {
	Symbol    string    `firestore:"symbol"`
	Name      string    `firestore:"name"`
	Sector    string    `firestore:"sector"`
	CreatedAt time.Time `firestore:"created_at"`
	UpdatedAt time.Time `firestore:"updated_at"`
}

type companyRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newCompanyRepository(client *firestore.Client) *companyRepository {
	return &companyRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *companyRepository) companiesCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_companies"
	}
	return "companies"
}

func companyToDocument(c *model.Company) *companyDocument {
	return &companyDocument{
		Symbol:    c.Symbol,
		Name:      c.Name,
		Sector:    c.Sector,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func companyToModel(doc *companyDocument) *model.Company {
	return &model.Company{
		Symbol:    doc.Symbol,
		Name:      doc.Name,
		Sector:    doc.Sector,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
}

func (r *companyRepository) Put(ctx context.Context, company *model.Company) (*model.Company, error) {
	symbol := model.NormalizeSymbol(company.Symbol)
	if symbol == "" {
		return nil, goerr.New("company symbol is required")
	}

	now := time.Now().UTC()
	saved := *company
	saved.Symbol = symbol
	saved.UpdatedAt = now
	saved.CreatedAt = now

	docRef := r.client.Collection(r.companiesCollection()).Doc(symbol)
	if existing, err := docRef.Get(ctx); err == nil {
		var prev companyDocument
		if err := existing.DataTo(&prev); err == nil && !prev.CreatedAt.IsZero() {
			saved.CreatedAt = prev.CreatedAt
		}
	} else if status.Code(err) != codes.NotFound {
		return nil, goerr.Wrap(err, "failed to check existing company", goerr.V("symbol", symbol))
	}

	if _, err := docRef.Set(ctx, companyToDocument(&saved)); err != nil {
		return nil, goerr.Wrap(err, "failed to put company", goerr.V("symbol", symbol))
	}

	return &saved, nil
}

func (r *companyRepository) Get(ctx context.Context, symbol string) (*model.Company, error) {
	normalized := model.NormalizeSymbol(symbol)
	docRef := r.client.Collection(r.companiesCollection()).Doc(normalized)
	doc, err := docRef.Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(ErrNotFound, "company not found", goerr.V("symbol", symbol))
		}
		return nil, goerr.Wrap(err, "failed to get company", goerr.V("symbol", symbol))
	}

	var d companyDocument
	if err := doc.DataTo(&d); err != nil {
		return nil, goerr.Wrap(err, "failed to unmarshal company", goerr.V("symbol", symbol))
	}

	return companyToModel(&d), nil
}

func (r *companyRepository) List(ctx context.Context) ([]*model.Company, error) {
	iter := r.client.Collection(r.companiesCollection()).
		OrderBy("symbol", firestore.Asc).
		Documents(ctx)
	defer iter.Stop()

	companies := make([]*model.Company, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate companies")
		}

		var d companyDocument
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal company")
		}

		companies = append(companies, companyToModel(&d))
	}

	return companies, nil
}
