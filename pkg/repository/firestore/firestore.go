package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/finsight-lab/finsight/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
)

type Firestore struct {
	client    *firestore.Client
	company   *companyRepository
	metric    *metricRepository
	benchmark *benchmarkRepository
	chunk     *chunkRepository
}

var _ interfaces.Repository = &Firestore{}

type Option func(*Firestore)

func WithCollectionPrefix(prefix string) Option {
	return func(f *Firestore) {
		f.company.collectionPrefix = prefix
		f.metric.collectionPrefix = prefix
		f.benchmark.collectionPrefix = prefix
		f.chunk.collectionPrefix = prefix
	}
}

func New(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	var client *firestore.Client
	var err error
	if databaseID != "" {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	} else {
		client, err = firestore.NewClient(ctx, projectID)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("projectID", projectID),
			goerr.V("databaseID", databaseID))
	}

	f := &Firestore{
		client:    client,
		company:   newCompanyRepository(client),
		metric:    newMetricRepository(client),
		benchmark: newBenchmarkRepository(client),
		chunk:     newChunkRepository(client),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

func (f *Firestore) Company() interfaces.CompanyRepository {
	return f.company
}

func (f *Firestore) Metric() interfaces.MetricRepository {
	return f.metric
}

func (f *Firestore) Benchmark() interfaces.BenchmarkRepository {
	return f.benchmark
}

func (f *Firestore) Chunk() interfaces.ChunkRepository {
	return f.chunk
}

func (f *Firestore) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}
