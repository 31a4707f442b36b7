package usecase

import (
	"context"
	"errors"

	"github.com/finsight-lab/finsight/pkg/domain/interfaces"
	"github.com/finsight-lab/finsight/pkg/domain/model"
	"github.com/finsight-lab/finsight/pkg/domain/types"
	"github.com/finsight-lab/finsight/pkg/repository/firestore"
	"github.com/finsight-lab/finsight/pkg/repository/memory"
	"github.com/finsight-lab/finsight/pkg/service/guardrail"
	"github.com/finsight-lab/finsight/pkg/service/llm"
	"github.com/m-mizutani/goerr/v2"
)

// Retriever gathers per-request context for the pipeline. Implemented by
// the retrieval service; faked in tests.
type Retriever interface {
	Retrieve(ctx context.Context, query, symbol string, nResults int, docTypes []types.DocumentType) (*model.RetrievalBundle, error)
	SectorBenchmarks(ctx context.Context, sector, metricName string) (model.BenchmarkSet, error)
}

// UseCases wires the query pipeline: classify, retrieve, assemble, invoke,
// post-process. Each operation runs on its own call stack with no shared
// mutable state between concurrent requests.
type UseCases struct {
	repo      interfaces.Repository
	guard     *guardrail.Service
	retriever Retriever
	invoker   llm.Generator
}

func New(repo interfaces.Repository, guard *guardrail.Service, retriever Retriever, invoker llm.Generator) (*UseCases, error) {
	if repo == nil {
		return nil, goerr.New("repository is required")
	}
	if guard == nil {
		return nil, goerr.New("guardrail service is required")
	}
	if retriever == nil {
		return nil, goerr.New("retriever is required")
	}
	if invoker == nil {
		return nil, goerr.New("invoker is required")
	}

	return &UseCases{
		repo:      repo,
		guard:     guard,
		retriever: retriever,
		invoker:   invoker,
	}, nil
}

func (uc *UseCases) getCompany(ctx context.Context, symbol string) (*model.Company, error) {
	company, err := uc.repo.Company().Get(ctx, symbol)
	if err != nil {
		if isRepoNotFound(err) {
			return nil, goerr.Wrap(ErrCompanyNotFound, "unknown company", goerr.V("symbol", symbol))
		}
		return nil, goerr.Wrap(err, "failed to get company", goerr.V("symbol", symbol))
	}
	return company, nil
}

func isRepoNotFound(err error) bool {
	return errors.Is(err, memory.ErrNotFound) || errors.Is(err, firestore.ErrNotFound)
}
