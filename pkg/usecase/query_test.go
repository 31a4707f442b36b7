package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/finsight-lab/finsight/pkg/domain/model"
	"github.com/finsight-lab/finsight/pkg/domain/types"
	"github.com/finsight-lab/finsight/pkg/repository/memory"
	"github.com/finsight-lab/finsight/pkg/service/guardrail"
	"github.com/finsight-lab/finsight/pkg/usecase"
	"github.com/m-mizutani/gt"
)

// fakeRetriever serves a fixed bundle and counts calls so tests can assert
// that guarded query classes never reach retrieval
type fakeRetriever struct {
	bundle        *model.RetrievalBundle
	benchmarks    model.BenchmarkSet
	retrieveCalls int
	lastQuery     string
	lastNResults  int
}

func (f *fakeRetriever) Retrieve(ctx context.Context, query, symbol string, nResults int, docTypes []types.DocumentType) (*model.RetrievalBundle, error) {
	f.retrieveCalls++
	f.lastQuery = query
	f.lastNResults = nResults
	if f.bundle != nil {
		return f.bundle, nil
	}
	return &model.RetrievalBundle{CompanySymbol: symbol}, nil
}

func (f *fakeRetriever) SectorBenchmarks(ctx context.Context, sector, metricName string) (model.BenchmarkSet, error) {
	if f.benchmarks != nil {
		return f.benchmarks, nil
	}
	return model.BenchmarkSet{}, nil
}

// fakeModel returns a fixed response and counts invocations
type fakeModel struct {
	resp  string
	err   error
	calls int
}

func (f *fakeModel) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.resp, nil
}

type pipelineFixture struct {
	uc        *usecase.UseCases
	retriever *fakeRetriever
	invoker   *fakeModel
}

func newPipeline(t *testing.T, invoker *fakeModel, retriever *fakeRetriever) *pipelineFixture {
	t.Helper()

	repo := memory.New()
	ctx := context.Background()

	_, err := repo.Company().Put(ctx, &model.Company{
		Symbol: "ACME",
		Name:   "Acme Industries",
		Sector: "Manufacturing",
	})
	gt.NoError(t, err).Required()

	gt.NoError(t, repo.Metric().Save(ctx, []*model.FinancialMetric{
		{CompanySymbol: "ACME", Name: "pe_ratio", Value: 45.2},
		{CompanySymbol: "ACME", Name: "roe", Value: 18.5},
	})).Required()

	guard, err := guardrail.New(nil)
	gt.NoError(t, err).Required()

	if retriever == nil {
		retriever = &fakeRetriever{}
	}
	retriever.bundle = &model.RetrievalBundle{
		CompanySymbol: "ACME",
		Chunks: []*model.ScoredChunk{
			{TextChunk: model.TextChunk{
				Text:         "Quarterly revenue grew 12% year over year.",
				DocumentType: types.DocumentQuarterly,
				SourceURL:    "https://example.com/q3.pdf",
			}},
		},
		Metrics: model.MetricSet{
			"pe_ratio": {Value: 45.2},
			"roe":      {Value: 18.5},
		},
	}

	uc, err := usecase.New(repo, guard, retriever, invoker)
	gt.NoError(t, err).Required()

	return &pipelineFixture{uc: uc, retriever: retriever, invoker: invoker}
}

func TestAnswerQueryGuarded(t *testing.T) {
	ctx := context.Background()

	t.Run("greeting answered with zero pipeline cost", func(t *testing.T) {
		fx := newPipeline(t, &fakeModel{resp: "never used"}, nil)

		answer, err := fx.uc.AnswerQuery(ctx, "acme", "Hello")
		gt.NoError(t, err).Required()

		gt.Value(t, answer.Type).Equal(types.QueryClassGreeting)
		gt.Value(t, answer.Answer).Equal(guardrail.GreetingReply)
		gt.Value(t, answer.CompanySymbol).Equal("ACME")
		gt.Value(t, fx.retriever.retrieveCalls).Equal(0)
		gt.Value(t, fx.invoker.calls).Equal(0)
	})

	t.Run("thanks and farewell variants", func(t *testing.T) {
		fx := newPipeline(t, &fakeModel{resp: "never used"}, nil)

		answer, err := fx.uc.AnswerQuery(ctx, "ACME", "Thanks!")
		gt.NoError(t, err).Required()
		gt.Value(t, answer.Answer).Equal(guardrail.ThanksReply)

		answer, err = fx.uc.AnswerQuery(ctx, "ACME", "Goodbye")
		gt.NoError(t, err).Required()
		gt.Value(t, answer.Answer).Equal(guardrail.FarewellReply)
	})

	t.Run("advisory refused verbatim", func(t *testing.T) {
		fx := newPipeline(t, &fakeModel{resp: "never used"}, nil)

		answer, err := fx.uc.AnswerQuery(ctx, "ACME", "Should I buy this stock?")
		gt.NoError(t, err).Required()

		gt.Value(t, answer.Type).Equal(types.QueryClassAdvisory)
		gt.Value(t, answer.Answer).Equal(guardrail.AdvisoryRefusal)
		gt.Value(t, fx.retriever.retrieveCalls).Equal(0)
		gt.Value(t, fx.invoker.calls).Equal(0)
	})

	t.Run("predictive refused verbatim", func(t *testing.T) {
		fx := newPipeline(t, &fakeModel{resp: "never used"}, nil)

		answer, err := fx.uc.AnswerQuery(ctx, "ACME", "What will the price be next month?")
		gt.NoError(t, err).Required()

		gt.Value(t, answer.Type).Equal(types.QueryClassPredictive)
		gt.Value(t, answer.Answer).Equal(guardrail.PredictiveRefusal)
		gt.Value(t, fx.invoker.calls).Equal(0)
	})

	t.Run("guarded classes skip the company lookup", func(t *testing.T) {
		fx := newPipeline(t, &fakeModel{resp: "never used"}, nil)

		answer, err := fx.uc.AnswerQuery(ctx, "UNKNOWN", "Hello")
		gt.NoError(t, err).Required()
		gt.Value(t, answer.Answer).Equal(guardrail.GreetingReply)
	})
}

func TestAnswerQueryGeneral(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path with post-processing", func(t *testing.T) {
		fx := newPipeline(t, &fakeModel{resp: "The stock looks cheap; the P/E ratio is 45.2."}, nil)

		answer, err := fx.uc.AnswerQuery(ctx, "ACME", "What is the P/E ratio?")
		gt.NoError(t, err).Required()

		gt.Value(t, answer.Type).Equal(types.QueryClassGeneral)
		gt.Value(t, answer.CompanyName).Equal("Acme Industries")
		gt.Value(t, strings.Contains(answer.Answer, "lower-valued")).Equal(true)
		gt.Value(t, strings.Contains(answer.Answer, "Sources:")).Equal(true)
		gt.Value(t, fx.retriever.retrieveCalls).Equal(1)
		gt.Value(t, fx.retriever.lastQuery).Equal("What is the P/E ratio?")
		gt.Value(t, fx.invoker.calls).Equal(1)
	})

	t.Run("unavailable admission rewritten with metric name", func(t *testing.T) {
		fx := newPipeline(t, &fakeModel{resp: "The P/E ratio is not available."}, nil)

		answer, err := fx.uc.AnswerQuery(ctx, "ACME", "What is the P/E ratio?")
		gt.NoError(t, err).Required()

		gt.Value(t, answer.Answer).Equal(guardrail.DataUnavailable("Pe Ratio"))
	})

	t.Run("unknown company", func(t *testing.T) {
		fx := newPipeline(t, &fakeModel{resp: "never used"}, nil)

		_, err := fx.uc.AnswerQuery(ctx, "NOPE", "What is the revenue?")
		gt.Value(t, err).NotNil()
		gt.Value(t, errors.Is(err, usecase.ErrCompanyNotFound)).Equal(true)
		gt.Value(t, fx.invoker.calls).Equal(0)
	})

	t.Run("model exhaustion yields canned reply, not error", func(t *testing.T) {
		fx := newPipeline(t, &fakeModel{err: llmExhausted()}, nil)

		answer, err := fx.uc.AnswerQuery(ctx, "ACME", "What is the revenue?")
		gt.NoError(t, err).Required()
		gt.Value(t, answer.Answer).Equal(usecase.UnableToAnswerReply)
	})
}
