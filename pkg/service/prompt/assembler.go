package prompt

import (
	"bytes"
	"embed"
	"sort"
	"strconv"
	"strings"
	"text/template"

	"github.com/finsight-lab/finsight/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

//go:embed templates/*.md
var templateFS embed.FS

var templates = template.Must(template.ParseFS(templateFS, "templates/*.md"))

// ConstraintPreamble is embedded verbatim in every analytical prompt.
// The post-processor assumes model output was generated under these
// constraints; builders must never omit it.
const ConstraintPreamble = `IMPORTANT CONSTRAINTS:
- Do NOT provide buy/sell recommendations or investment advice
- Do NOT use "you" in portfolio recommendation context
- Use neutral, factual language. Avoid emotional words like "multibagger", "skyrocketing", "cheap", "jackpot"
- Do NOT predict future prices or performance
- If data is not available, clearly state that`

// Truncation limits per intent. Callers must not assume all retrieved or
// stored data makes it into the payload.
const (
	summaryChunkLimit  = 3
	defaultChunkLimit  = 5
	metricLimit        = 10
	redFlagMetricLimit = 15
	benchmarkLimit     = 10
)

const chunkSeparator = "\n\n---\n\n"

const notAvailable = "Not available"

type templateInput struct {
	CompanyName  string
	Sector       string
	Query        string
	MetricName   string
	CompanyValue string
	P25          string
	P50          string
	P75          string
	Constraints  string
	Context      string
	Metrics      []string
	Benchmarks   []string
}

func render(name string, input *templateInput) (string, error) {
	input.Constraints = ConstraintPreamble

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, input); err != nil {
		return "", goerr.Wrap(err, "failed to render prompt template", goerr.V("template", name))
	}

	return buf.String(), nil
}

func contextText(chunks []string, limit int) string {
	if len(chunks) > limit {
		chunks = chunks[:limit]
	}
	if len(chunks) == 0 {
		return "(no document context available)"
	}
	return strings.Join(chunks, chunkSeparator)
}

func metricLines(metrics model.MetricSet, limit int) []string {
	names := metrics.Names()
	if len(names) > limit {
		names = names[:limit]
	}

	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, name+": "+formatValue(metrics[name].Value))
	}
	return lines
}

func benchmarkLines(benchmarks model.BenchmarkSet, limit int) []string {
	names := make([]string, 0, len(benchmarks))
	for name := range benchmarks {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) > limit {
		names = names[:limit]
	}

	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, name+" (Sector Median): "+formatValue(benchmarks[name].P50))
	}
	return lines
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptional(v *float64) string {
	if v == nil {
		return notAvailable
	}
	return formatValue(*v)
}

// QuarterlySummary builds the quarterly-summary prompt from the top
// retrieved chunks
func QuarterlySummary(company *model.Company, chunks []string) (string, error) {
	return render("quarterly_summary.md", &templateInput{
		CompanyName: company.DisplayName(),
		Context:     contextText(chunks, summaryChunkLimit),
	})
}

// BullBear builds the bull/bear analysis prompt
func BullBear(company *model.Company, chunks []string, metrics model.MetricSet) (string, error) {
	return render("bull_bear.md", &templateInput{
		CompanyName: company.DisplayName(),
		Sector:      company.SectorOrUnknown(),
		Context:     contextText(chunks, defaultChunkLimit),
		Metrics:     metricLines(metrics, metricLimit),
	})
}

// RedFlags builds the red-flags analysis prompt, including sector
// benchmark medians when available
func RedFlags(company *model.Company, chunks []string, metrics model.MetricSet, benchmarks model.BenchmarkSet) (string, error) {
	return render("red_flags.md", &templateInput{
		CompanyName: company.DisplayName(),
		Sector:      company.SectorOrUnknown(),
		Context:     contextText(chunks, defaultChunkLimit),
		Metrics:     metricLines(metrics, redFlagMetricLimit),
		Benchmarks:  benchmarkLines(benchmarks, benchmarkLimit),
	})
}

// Benchmark builds the sector comparison prompt for a single metric
func Benchmark(company *model.Company, metricName string, companyValue *float64, bench *model.SectorBenchmark) (string, error) {
	input := &templateInput{
		CompanyName:  company.DisplayName(),
		Sector:       company.SectorOrUnknown(),
		MetricName:   metricName,
		CompanyValue: formatOptional(companyValue),
		P25:          notAvailable,
		P50:          notAvailable,
		P75:          notAvailable,
	}
	if bench != nil {
		input.P25 = formatValue(bench.P25)
		input.P50 = formatValue(bench.P50)
		input.P75 = formatValue(bench.P75)
	}

	return render("benchmark.md", input)
}

// GeneralQuery builds the free-form question prompt
func GeneralQuery(query string, company *model.Company, chunks []string, metrics model.MetricSet) (string, error) {
	return render("general_query.md", &templateInput{
		CompanyName: company.DisplayName(),
		Query:       query,
		Context:     contextText(chunks, defaultChunkLimit),
		Metrics:     metricLines(metrics, metricLimit),
	})
}
