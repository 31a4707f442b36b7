package firestore

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/finsight-lab/finsight/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/iterator"
)

type benchmarkDocument struct {
	Sector     string    `firestore:"sector"`
	MetricName string    `firestore:"metric_name"`
	P25        float64   `firestore:"p25"`
	P50        float64   `firestore:"p50"`
	P75        float64   `firestore:"p75"`
	SampleSize int       `firestore:"sample_size"`
	ComputedAt time.Time `firestore:"computed_at"`
}

type benchmarkRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newBenchmarkRepository(client *firestore.Client) *benchmarkRepository {
	return &benchmarkRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *benchmarkRepository) benchmarksCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_benchmarks"
	}
	return "benchmarks"
}

func benchmarkDocID(sector, metricName string) string {
	return sector + ":" + metricName
}

func benchmarkToDocument(b *model.SectorBenchmark) *benchmarkDocument {
	return &benchmarkDocument{
		Sector:     b.Sector,
		MetricName: b.MetricName,
		P25:        b.P25,
		P50:        b.P50,
		P75:        b.P75,
		SampleSize: b.SampleSize,
		ComputedAt: b.ComputedAt,
	}
}

func benchmarkToModel(doc *benchmarkDocument) *model.SectorBenchmark {
	return &model.SectorBenchmark{
		Sector:     doc.Sector,
		MetricName: doc.MetricName,
		P25:        doc.P25,
		P50:        doc.P50,
		P75:        doc.P75,
		SampleSize: doc.SampleSize,
		ComputedAt: doc.ComputedAt,
	}
}

func (r *benchmarkRepository) GetBySector(ctx context.Context, sector, metricName string) ([]*model.SectorBenchmark, error) {
	query := r.client.Collection(r.benchmarksCollection()).
		Where("sector", "==", sector)
	if metricName != "" {
		query = query.Where("metric_name", "==", metricName)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	benchmarks := make([]*model.SectorBenchmark, 0)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate benchmarks", goerr.V("sector", sector))
		}

		var d benchmarkDocument
		if err := doc.DataTo(&d); err != nil {
			return nil, goerr.Wrap(err, "failed to unmarshal benchmark", goerr.V("sector", sector))
		}

		benchmarks = append(benchmarks, benchmarkToModel(&d))
	}

	return benchmarks, nil
}

func (r *benchmarkRepository) ReplaceSector(ctx context.Context, sector string, benchmarks []*model.SectorBenchmark) error {
	for _, b := range benchmarks {
		if b.Sector != sector {
			return goerr.New("benchmark sector mismatch",
				goerr.V("expected", sector),
				goerr.V("actual", b.Sector))
		}
	}

	// Collect existing docs first so stale metrics disappear after replace
	existing, err := r.client.Collection(r.benchmarksCollection()).
		Where("sector", "==", sector).
		Documents(ctx).GetAll()
	if err != nil {
		return goerr.Wrap(err, "failed to list existing benchmarks", goerr.V("sector", sector))
	}

	batch := r.client.Batch()
	for _, doc := range existing {
		batch.Delete(doc.Ref)
	}
	for _, b := range benchmarks {
		docRef := r.client.Collection(r.benchmarksCollection()).
			Doc(benchmarkDocID(b.Sector, b.MetricName))
		batch.Set(docRef, benchmarkToDocument(b))
	}

	if _, err := batch.Commit(ctx); err != nil {
		return goerr.Wrap(err, "failed to replace sector benchmarks", goerr.V("sector", sector))
	}

	return nil
}
