package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/finsight-lab/finsight/pkg/cli/config"
	"github.com/finsight-lab/finsight/pkg/domain/interfaces"
	"github.com/finsight-lab/finsight/pkg/domain/model"
	"github.com/finsight-lab/finsight/pkg/domain/types"
	"github.com/finsight-lab/finsight/pkg/service/llm"
	"github.com/finsight-lab/finsight/pkg/service/worker"
	"github.com/finsight-lab/finsight/pkg/utils/logging"
	"github.com/finsight-lab/finsight/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

// datasetFile is the ingestion bundle format: one company with its metric
// rows and source documents
type datasetFile struct {
	Company struct {
		Symbol string `json:"symbol"`
		Name   string `json:"name"`
		Sector string `json:"sector"`
	} `json:"company"`
	Metrics []struct {
		Name       string  `json:"name"`
		Value      float64 `json:"value"`
		PeriodType string  `json:"period_type"`
		Source     string  `json:"source"`
	} `json:"metrics"`
	Documents []struct {
		ID        string `json:"id"`
		Type      string `json:"type"`
		SourceURL string `json:"source_url"`
		Text      string `json:"text"`
	} `json:"documents"`
}

const (
	maxChunkChars    = 1500
	embedConcurrency = 4
)

func cmdIngest() *cli.Command {
	var refreshBenchmarks bool
	var geminiCfg config.Gemini
	var repoCfg config.Repository

	flags := []cli.Flag{
		&cli.BoolFlag{
			Name:        "refresh-benchmarks",
			Usage:       "Recompute sector benchmarks after ingesting",
			Value:       true,
			Destination: &refreshBenchmarks,
		},
	}
	flags = append(flags, geminiCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:      "ingest",
		Aliases:   []string{"i"},
		Usage:     "Ingest a company dataset file (local path or gs:// URL)",
		ArgsUsage: "<dataset>...",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			paths := c.Args().Slice()
			if len(paths) == 0 {
				return goerr.New("at least one dataset path is required")
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			_, embedder, err := geminiCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure Gemini clients")
			}

			for _, path := range paths {
				if err := ingestDataset(ctx, repo, embedder, path); err != nil {
					return goerr.Wrap(err, "failed to ingest dataset", goerr.V("path", path))
				}
			}

			if refreshBenchmarks {
				refresher := worker.NewBenchmarkRefreshWorker(repo, 0)
				if err := refresher.Refresh(ctx); err != nil {
					return goerr.Wrap(err, "failed to refresh benchmarks")
				}
			}

			return nil
		},
	}
}

func ingestDataset(ctx context.Context, repo interfaces.Repository, embedder llm.Embedder, path string) error {
	logger := logging.Default()
	logger.Info("Ingesting dataset", "path", path)

	data, err := readDataset(ctx, path)
	if err != nil {
		return err
	}

	var dataset datasetFile
	if err := json.Unmarshal(data, &dataset); err != nil {
		return goerr.Wrap(err, "failed to parse dataset file")
	}
	if dataset.Company.Symbol == "" {
		return goerr.New("dataset is missing company symbol")
	}

	company, err := repo.Company().Put(ctx, &model.Company{
		Symbol: dataset.Company.Symbol,
		Name:   dataset.Company.Name,
		Sector: dataset.Company.Sector,
	})
	if err != nil {
		return goerr.Wrap(err, "failed to save company")
	}

	metrics := make([]*model.FinancialMetric, 0, len(dataset.Metrics))
	for _, m := range dataset.Metrics {
		metrics = append(metrics, &model.FinancialMetric{
			CompanySymbol: company.Symbol,
			Name:          m.Name,
			Value:         m.Value,
			PeriodType:    types.PeriodType(m.PeriodType),
			Source:        m.Source,
		})
	}
	if err := repo.Metric().Save(ctx, metrics); err != nil {
		return goerr.Wrap(err, "failed to save metrics")
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(embedConcurrency)

	totalChunks := 0
	for _, doc := range dataset.Documents {
		texts := splitChunks(doc.Text)
		totalChunks += len(texts)

		eg.Go(func() error {
			embeddings, err := embedder.Embed(egCtx, texts)
			if err != nil {
				return goerr.Wrap(err, "failed to embed document", goerr.V("document", doc.ID))
			}

			chunks := make([]*model.TextChunk, 0, len(texts))
			for i, text := range texts {
				chunks = append(chunks, &model.TextChunk{
					ID:            model.NewChunkID(),
					DocumentID:    doc.ID,
					CompanySymbol: company.Symbol,
					DocumentType:  types.DocumentType(doc.Type).Normalize(),
					ChunkIndex:    i,
					Text:          text,
					SourceURL:     doc.SourceURL,
					Embedding:     embeddings[i],
				})
			}

			return repo.Chunk().Put(egCtx, chunks)
		})
	}

	if err := eg.Wait(); err != nil {
		return err
	}

	logger.Info("Dataset ingested",
		"symbol", company.Symbol,
		"metrics", len(metrics),
		"documents", len(dataset.Documents),
		"chunks", totalChunks)

	return nil
}

// readDataset loads a dataset from a local path or a gs://bucket/object URL
func readDataset(ctx context.Context, path string) ([]byte, error) {
	if !strings.HasPrefix(path, "gs://") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read dataset file")
		}
		return data, nil
	}

	trimmed := strings.TrimPrefix(path, "gs://")
	bucket, object, ok := strings.Cut(trimmed, "/")
	if !ok || bucket == "" || object == "" {
		return nil, goerr.New("invalid gs:// URL", goerr.V("path", path))
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client")
	}
	defer safe.Close(ctx, client)

	reader, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open storage object",
			goerr.V("bucket", bucket),
			goerr.V("object", object))
	}
	defer safe.Close(ctx, reader)

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read storage object")
	}

	return data, nil
}

// splitChunks breaks document text into bounded chunks on paragraph
// boundaries. Oversized paragraphs are split mid-text.
func splitChunks(text string) []string {
	var chunks []string
	var current strings.Builder

	flush := func() {
		if trimmed := strings.TrimSpace(current.String()); trimmed != "" {
			chunks = append(chunks, trimmed)
		}
		current.Reset()
	}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}

		for len(para) > maxChunkChars {
			flush()
			chunks = append(chunks, strings.TrimSpace(para[:maxChunkChars]))
			para = strings.TrimSpace(para[maxChunkChars:])
		}

		if current.Len()+len(para)+2 > maxChunkChars {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)
	}
	flush()

	return chunks
}
