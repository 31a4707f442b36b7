package model

import "github.com/finsight-lab/finsight/pkg/domain/types"

// SummaryResult is the output of the quarterly summary operation
type SummaryResult struct {
	CompanySymbol string `json:"company_symbol"`
	CompanyName   string `json:"company_name"`
	Summary       string `json:"summary"`
}

// BullBearResult is the output of the bull/bear case operation. BullCase and
// BearCase are best-effort extractions; FullText is canonical.
type BullBearResult struct {
	CompanySymbol string   `json:"company_symbol"`
	CompanyName   string   `json:"company_name"`
	BullCase      []string `json:"bull_case"`
	BearCase      []string `json:"bear_case"`
	FullText      string   `json:"full_response"`
}

// RedFlag is one identified concern with its severity
type RedFlag struct {
	Description string         `json:"description"`
	Severity    types.Severity `json:"severity"`
}

// RedFlagsResult is the output of the red flags operation. Flags are a
// best-effort extraction; FullText is canonical.
type RedFlagsResult struct {
	CompanySymbol string    `json:"company_symbol"`
	CompanyName   string    `json:"company_name"`
	Flags         []RedFlag `json:"red_flags"`
	FullText      string    `json:"full_response"`
}

// BenchmarkResult is the output of the sector benchmark comparison operation
type BenchmarkResult struct {
	CompanySymbol string           `json:"company_symbol"`
	CompanyName   string           `json:"company_name"`
	MetricName    string           `json:"metric_name"`
	CompanyValue  *float64         `json:"company_value"`
	Sector        string           `json:"sector"`
	Benchmark     *SectorBenchmark `json:"benchmark"`
	Comparison    string           `json:"comparison"`
}

// QueryAnswer is the output of the free-form query operation
type QueryAnswer struct {
	CompanySymbol string           `json:"company_symbol"`
	CompanyName   string           `json:"company_name,omitempty"`
	Query         string           `json:"query"`
	Answer        string           `json:"answer"`
	Type          types.QueryClass `json:"type"`
}
