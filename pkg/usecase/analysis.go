package usecase

import (
	"context"
	"errors"

	"github.com/finsight-lab/finsight/pkg/domain/model"
	"github.com/finsight-lab/finsight/pkg/domain/types"
	"github.com/finsight-lab/finsight/pkg/service/guardrail"
	"github.com/finsight-lab/finsight/pkg/service/llm"
	"github.com/finsight-lab/finsight/pkg/service/prompt"
	"github.com/finsight-lab/finsight/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// Fixed retrieval queries per analytical intent. The free-form operation
// uses the user's own query instead.
const (
	summaryRetrievalQuery  = "quarterly results financial performance"
	bullBearRetrievalQuery = "bull case bear case strengths weaknesses risks opportunities"
	redFlagsRetrievalQuery = "red flags risks concerns problems issues"
)

const (
	summaryResultCount  = 5
	analysisResultCount = 8
	generalResultCount  = 5
)

const citationLimit = 3

// invoke runs the fallback chain and converts chain exhaustion into the
// fixed unable-to-answer reply. Only transport-independent errors (e.g.
// cancelled context) propagate.
func (uc *UseCases) invoke(ctx context.Context, payload string) (string, error) {
	raw, err := uc.invoker.Generate(ctx, payload)
	if err != nil {
		if errors.Is(err, llm.ErrNoModelAvailable) {
			logging.From(ctx).Warn("all models exhausted, returning canned reply")
			return "", nil
		}
		return "", goerr.Wrap(err, "model invocation failed")
	}
	return raw, nil
}

// QuarterlySummary produces a short factual summary of the company's latest
// quarterly results. No disclaimer is attached; summaries render no opinion.
func (uc *UseCases) QuarterlySummary(ctx context.Context, symbol string) (*model.SummaryResult, error) {
	company, err := uc.getCompany(ctx, symbol)
	if err != nil {
		return nil, err
	}

	bundle, err := uc.retriever.Retrieve(ctx, summaryRetrievalQuery, company.Symbol, summaryResultCount, nil)
	if err != nil {
		return nil, err
	}

	payload, err := prompt.QuarterlySummary(company, bundle.Texts())
	if err != nil {
		return nil, err
	}

	raw, err := uc.invoke(ctx, payload)
	if err != nil {
		return nil, err
	}

	summary := UnableToAnswerReply
	if raw != "" {
		summary = uc.guard.Process(types.IntentQuarterlySummary, raw, "", bundle.Metrics.Names(), bundle.Citations(citationLimit))
	}

	return &model.SummaryResult{
		CompanySymbol: company.Symbol,
		CompanyName:   company.DisplayName(),
		Summary:       summary,
	}, nil
}

// BullBearCase produces a balanced strengths/risks analysis. Bullet points
// are extracted best-effort from the model's sections; the full text is
// canonical.
func (uc *UseCases) BullBearCase(ctx context.Context, symbol string) (*model.BullBearResult, error) {
	company, err := uc.getCompany(ctx, symbol)
	if err != nil {
		return nil, err
	}

	bundle, err := uc.retriever.Retrieve(ctx, bullBearRetrievalQuery, company.Symbol, analysisResultCount, nil)
	if err != nil {
		return nil, err
	}

	payload, err := prompt.BullBear(company, bundle.Texts(), bundle.Metrics)
	if err != nil {
		return nil, err
	}

	raw, err := uc.invoke(ctx, payload)
	if err != nil {
		return nil, err
	}

	result := &model.BullBearResult{
		CompanySymbol: company.Symbol,
		CompanyName:   company.DisplayName(),
		FullText:      UnableToAnswerReply,
	}
	if raw == "" {
		return result, nil
	}

	// Parse before citations are attached so source lines are not mistaken
	// for analysis bullets
	text := uc.guard.Process(types.IntentBullBear, raw, "", bundle.Metrics.Names(), nil)
	result.BullCase, result.BearCase = ParseBullBear(text)
	result.FullText = guardrail.AddCitations(text, bundle.Citations(citationLimit))

	return result, nil
}

// RedFlags identifies potential concerns, comparing against sector
// benchmarks when the company's sector is known. Flags are extracted
// best-effort; the full text is canonical.
func (uc *UseCases) RedFlags(ctx context.Context, symbol string) (*model.RedFlagsResult, error) {
	company, err := uc.getCompany(ctx, symbol)
	if err != nil {
		return nil, err
	}

	bundle, err := uc.retriever.Retrieve(ctx, redFlagsRetrievalQuery, company.Symbol, analysisResultCount, nil)
	if err != nil {
		return nil, err
	}

	var benchmarks model.BenchmarkSet
	if company.Sector != "" {
		benchmarks, err = uc.retriever.SectorBenchmarks(ctx, company.Sector, "")
		if err != nil {
			logging.From(ctx).Warn("failed to load sector benchmarks, continuing without",
				"sector", company.Sector,
				"error", err)
			benchmarks = nil
		}
	}

	payload, err := prompt.RedFlags(company, bundle.Texts(), bundle.Metrics, benchmarks)
	if err != nil {
		return nil, err
	}

	raw, err := uc.invoke(ctx, payload)
	if err != nil {
		return nil, err
	}

	result := &model.RedFlagsResult{
		CompanySymbol: company.Symbol,
		CompanyName:   company.DisplayName(),
		FullText:      UnableToAnswerReply,
	}
	if raw == "" {
		return result, nil
	}

	text := uc.guard.Process(types.IntentRedFlags, raw, "", bundle.Metrics.Names(), nil)
	result.Flags = ParseRedFlags(text)
	result.FullText = guardrail.AddCitations(text, bundle.Citations(citationLimit))

	return result, nil
}

// Benchmark compares one company metric against its sector's percentile
// reference values
func (uc *UseCases) Benchmark(ctx context.Context, symbol, metricName string) (*model.BenchmarkResult, error) {
	company, err := uc.getCompany(ctx, symbol)
	if err != nil {
		return nil, err
	}

	metrics, err := uc.repo.Metric().GetBySymbol(ctx, company.Symbol)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load metrics", goerr.V("symbol", company.Symbol))
	}

	var companyValue *float64
	if mv, ok := metrics[metricName]; ok {
		v := mv.Value
		companyValue = &v
	}

	benchmarks, err := uc.retriever.SectorBenchmarks(ctx, company.SectorOrUnknown(), metricName)
	if err != nil {
		return nil, err
	}

	bench := benchmarks[metricName]
	if bench == nil && companyValue == nil {
		return nil, goerr.Wrap(ErrBenchmarkNotFound, "no data for metric",
			goerr.V("symbol", company.Symbol),
			goerr.V("metric", metricName))
	}

	payload, err := prompt.Benchmark(company, metricName, companyValue, bench)
	if err != nil {
		return nil, err
	}

	raw, err := uc.invoke(ctx, payload)
	if err != nil {
		return nil, err
	}

	comparison := UnableToAnswerReply
	if raw != "" {
		comparison = uc.guard.Process(types.IntentBenchmark, raw, "", metrics.Names(), nil)
	}

	return &model.BenchmarkResult{
		CompanySymbol: company.Symbol,
		CompanyName:   company.DisplayName(),
		MetricName:    metricName,
		CompanyValue:  companyValue,
		Sector:        company.SectorOrUnknown(),
		Benchmark:     bench,
		Comparison:    comparison,
	}, nil
}

// AnswerQuery runs the full guarded pipeline for a free-form question.
// Greeting, advisory, and predictive queries are answered from fixed texts
// before any company lookup, retrieval, or model cost.
func (uc *UseCases) AnswerQuery(ctx context.Context, symbol, query string) (*model.QueryAnswer, error) {
	answer := &model.QueryAnswer{
		CompanySymbol: model.NormalizeSymbol(symbol),
		Query:         query,
	}

	classification := uc.guard.Classify(query)
	answer.Type = classification.Class

	switch classification.Class {
	case types.QueryClassGreeting:
		answer.Answer = guardrail.GreetingFor(query)
		return answer, nil
	case types.QueryClassAdvisory:
		answer.Answer = guardrail.AdvisoryRefusal
		return answer, nil
	case types.QueryClassPredictive:
		answer.Answer = guardrail.PredictiveRefusal
		return answer, nil
	}

	company, err := uc.getCompany(ctx, symbol)
	if err != nil {
		return nil, err
	}
	answer.CompanyName = company.DisplayName()

	bundle, err := uc.retriever.Retrieve(ctx, query, company.Symbol, generalResultCount, nil)
	if err != nil {
		return nil, err
	}

	payload, err := prompt.GeneralQuery(query, company, bundle.Texts(), bundle.Metrics)
	if err != nil {
		return nil, err
	}

	raw, err := uc.invoke(ctx, payload)
	if err != nil {
		return nil, err
	}

	if raw == "" {
		answer.Answer = UnableToAnswerReply
		return answer, nil
	}

	answer.Answer = uc.guard.Process(types.IntentGeneralQuery, raw, query, bundle.Metrics.Names(), bundle.Citations(citationLimit))

	return answer, nil
}
