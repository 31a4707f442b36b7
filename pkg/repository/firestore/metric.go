package firestore

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/finsight-lab/finsight/pkg/domain/model"
	"github.com/finsight-lab/finsight/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
)

type metricDocument struct {
	CompanySymbol string    `firestore:"company_symbol"`
	Name          string    `firestore:"name"`
	Value         float64   `firestore:"value"`
	PeriodType    string    `firestore:"period_type"`
	Source        string    `firestore:"source"`
	UpdatedAt     time.Time `firestore:"updated_at"`
}

type metricRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newMetricRepository(client *firestore.Client) *metricRepository {
	return &metricRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *metricRepository) metricsCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_metrics"
	}
	return "metrics"
}

// metricDocID keys a metric document so that repeated ingestion of the same
// (symbol, name, period) overwrites instead of duplicating.
func metricDocID(symbol, name string, period types.PeriodType) string {
	return symbol + ":" + name + ":" + period.String()
}

func metricToDocument(m *model.FinancialMetric) *metricDocument {
	return &metricDocument{
		CompanySymbol: m.CompanySymbol,
		Name:          m.Name,
		Value:         m.Value,
		PeriodType:    m.PeriodType.String(),
		Source:        m.Source,
		UpdatedAt:     m.UpdatedAt,
	}
}

func metricToModel(doc *metricDocument) *model.FinancialMetric {
	return &model.FinancialMetric{
		CompanySymbol: doc.CompanySymbol,
		Name:          doc.Name,
		Value:         doc.Value,
		PeriodType:    types.PeriodType(doc.PeriodType),
		Source:        doc.Source,
		UpdatedAt:     doc.UpdatedAt,
	}
}

func (r *metricRepository) Save(ctx context.Context, metrics []*model.FinancialMetric) error {
	if len(metrics) == 0 {
		return nil
	}

	now := time.Now().UTC()
	for _, m := range metrics {
		if m.Name == "" {
			return goerr.New("metric name is required", goerr.V("symbol", m.CompanySymbol))
		}
		saved := *m
		saved.CompanySymbol = model.NormalizeSymbol(saved.CompanySymbol)
		saved.PeriodType = saved.PeriodType.Normalize()
		saved.UpdatedAt = now

		docRef := r.client.Collection(r.metricsCollection()).
			Doc(metricDocID(saved.CompanySymbol, saved.Name, saved.PeriodType))
		if _, err := docRef.Set(ctx, metricToDocument(&saved)); err != nil {
			return goerr.Wrap(err, "failed to save metric",
				goerr.V("symbol", saved.CompanySymbol),
				goerr.V("name", saved.Name))
		}
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
	normalized := model.NormalizeSymbol(symbol)
	iter := r.client.Collection(r.metricsCollection()).
		Where("company_symbol", "==", normalized).
		Documents(ctx)
	defer iter.Stop()

	metrics := make([]*model.FinancialMetric, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate metrics", goerr.V("symbol", symbol))
		}

		var d metricDocument
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal metric", goerr.V("symbol", symbol))
		}

		metrics = append(metrics, metricToModel(&d))
	}

	sort.Slice(metrics, func(i, j int) bool {
		if metrics[i].Name != metrics[j].Name {
			return metrics[i].Name < metrics[j].Name
		}
		return metrics[i].PeriodType < metrics[j].PeriodType
	})

	return metrics, nil
}
