package validation

import (
	"math"
	"strconv"

	"github.com/vellie27/AFRICA-ENERGY-PIPELINE/internal/storage/models"
	"github.com/vellie27/AFRICA-ENERGY-PIPELINE/internal/taxonomy"
)

// Required year range for coverage scoring. Narrower than the supported
// ingestion range: trailing years are too sparse to score against.
const (
	RequiredYearMin = 2000
	RequiredYearMax = 2022
)

// Coverage is one coverage ratio: Available out of Total, as a percentage
// rounded to two decimals.
type Coverage struct {
	Total      int     `json:"total"`
	Available  int     `json:"available"`
	Percentage float64 `json:"coverage_percentage"`
}

// Report is the ephemeral completeness report for one document batch. It is
// computed, never persisted.
type Report struct {
	TotalCountries     int                 `json:"total_countries"`
	TotalDocuments     int                 `json:"total_documents"`
	ProcessedCountries map[string]bool     `json:"-"`
	MissingCountries   []string            `json:"missing_countries"`
	MetricsCoverage    map[string]Coverage `json:"metrics_coverage"`
	YearCoverage       map[string]Coverage `json:"year_coverage"`
	CompletenessScore  float64             `json:"completeness_score"`
}

// Validator computes completeness over the fixed country×metric×year cube.
type Validator struct {
	registry      *taxonomy.Registry
	requiredYears []string
}

func NewValidator(registry *taxonomy.Registry) *Validator {
	years := make([]string, 0, RequiredYearMax-RequiredYearMin+1)
	for y := RequiredYearMin; y <= RequiredYearMax; y++ {
		years = append(years, strconv.Itoa(y))
	}
	return &Validator{registry: registry, requiredYears: years}
}

// RequiredYears returns the scoring range in ascending order.
func (v *Validator) RequiredYears() []string {
	out := make([]string, len(v.requiredYears))
	copy(out, v.requiredYears)
	return out
}

// Validate is a pure, order-independent pass over the batch.
//
// Per-metric coverage divides by the registry size, not by the number of
// countries seen: the denominator is the full canonical space. Per-year
// coverage divides by the document count. The overall score is the fraction
// of non-null (document × required-year) cells.
func (v *Validator) Validate(docs []*models.Document) *Report {
	report := &Report{
		TotalCountries:     v.registry.Size(),
		TotalDocuments:     len(docs),
		ProcessedCountries: make(map[string]bool),
		MissingCountries:   []string{},
		MetricsCoverage:    make(map[string]Coverage),
		YearCoverage:       make(map[string]Coverage),
	}

	for _, doc := range docs {
		report.ProcessedCountries[doc.Country] = true
	}
	for _, country := range v.registry.Countries() {
		if !report.ProcessedCountries[country] {
			report.MissingCountries = append(report.MissingCountries, country)
		}
	}

	if len(docs) == 0 {
		return report
	}

	metricCounts := make(map[string]int)
	for _, doc := range docs {
		metricCounts[doc.Metric]++
	}
	for metric, count := range metricCounts {
		report.MetricsCoverage[metric] = Coverage{
			Total:      v.registry.Size(),
			Available:  count,
			Percentage: round2(float64(count) / float64(v.registry.Size()) * 100),
		}
	}

	availableDataPoints := 0
	for _, year := range v.requiredYears {
		nonNull := 0
		for _, doc := range docs {
			if _, ok := doc.YearValue(year); ok {
				nonNull++
			}
		}
		report.YearCoverage[year] = Coverage{
			Total:      len(docs),
			Available:  nonNull,
			Percentage: round2(float64(nonNull) / float64(len(docs)) * 100),
		}
		availableDataPoints += nonNull
	}

	totalDataPoints := len(docs) * len(v.requiredYears)
	if totalDataPoints > 0 {
		report.CompletenessScore = round2(float64(availableDataPoints) / float64(totalDataPoints) * 100)
	}

	return report
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
