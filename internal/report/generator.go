// Package report builds the human-readable energy development report from
// the stored document collection.
package report

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/vellie27/AFRICA-ENERGY-PIPELINE/internal/storage/models"
	"github.com/vellie27/AFRICA-ENERGY-PIPELINE/internal/storage/sqlite"
)

const (
	metricElectricity  = "Electricity Access Rate"
	metricCleanCooking = "Clean Cooking Access Rate"
	baselineYear       = "2000"
)

var regions = map[string][]string{
	"North Africa":    {"Egypt", "Libya", "Tunisia", "Algeria", "Morocco"},
	"West Africa":     {"Nigeria", "Ghana", "Cote d'Ivoire", "Senegal", "Mali"},
	"East Africa":     {"Kenya", "Tanzania", "Ethiopia", "Uganda", "Rwanda"},
	"Southern Africa": {"South Africa", "Namibia", "Botswana", "Zimbabwe", "Zambia"},
}

// Store is the read-side slice of the persistence gateway reports need.
type Store interface {
	Find(ctx context.Context, filter sqlite.Filter) ([]*models.Document, error)
	Distinct(ctx context.Context, field string) ([]string, error)
}

// Generator reads the collection and assembles report text.
type Generator struct {
	db Store
}

func NewGenerator(db Store) *Generator {
	return &Generator{db: db}
}

// Generate writes the comprehensive development report as plain text.
func (g *Generator) Generate(ctx context.Context) (string, error) {
	var lines []string

	lines = append(lines,
		"AFRICA ENERGY DEVELOPMENT REPORT",
		strings.Repeat("=", 60),
		fmt.Sprintf("Generated: %s", time.Now().Format("January 2, 2006 at 15:04")),
		"",
	)

	sections := []struct {
		title string
		build func(context.Context) ([]string, error)
	}{
		{"EXECUTIVE SUMMARY", g.executiveSummary},
		{"ELECTRICITY ACCESS ANALYSIS", g.electricityAccess},
		{"CLEAN COOKING ACCESS ANALYSIS", g.cleanCooking},
		{"REGIONAL COMPARISONS", g.regionalComparisons},
		{"PROGRESS TRACKING (2000-2022)", g.progressTracking},
		{"KEY RECOMMENDATIONS", g.recommendations},
	}

	for _, section := range sections {
		lines = append(lines, section.title, strings.Repeat("-", 40))
		body, err := section.build(ctx)
		if err != nil {
			return "", fmt.Errorf("report section %q: %w", section.title, err)
		}
		lines = append(lines, body...)
		lines = append(lines, "")
	}

	return strings.Join(lines, "\n"), nil
}

// QuickReport is the one-page summary variant.
func (g *Generator) QuickReport(ctx context.Context) (string, error) {
	var lines []string
	lines = append(lines,
		"AFRICA ENERGY QUICK REPORT",
		strings.Repeat("=", 40),
		fmt.Sprintf("Date: %s", time.Now().Format("2006-01-02")),
		"",
	)

	countries, err := g.db.Distinct(ctx, "country")
	if err != nil {
		return "", fmt.Errorf("quick report: %w", err)
	}
	lines = append(lines,
		fmt.Sprintf("- Countries covered: %d", len(countries)),
		"- Time period: 2000-2022",
		"",
	)

	docs, err := g.db.Find(ctx, sqlite.Filter{Metric: metricElectricity})
	if err != nil {
		return "", fmt.Errorf("quick report: %w", err)
	}
	if latest := latestYear(docs); latest != "" {
		top := topCountries(docs, latest, 3)
		lines = append(lines, "TOP 3 - ELECTRICITY ACCESS:")
		for _, entry := range top {
			lines = append(lines, fmt.Sprintf("  %s: %.1f%%", entry.country, entry.value))
		}
	}

	return strings.Join(lines, "\n"), nil
}

func (g *Generator) executiveSummary(ctx context.Context) ([]string, error) {
	countries, err := g.db.Distinct(ctx, "country")
	if err != nil {
		return nil, err
	}
	metricNames, err := g.db.Distinct(ctx, "metric")
	if err != nil {
		return nil, err
	}

	docs, err := g.db.Find(ctx, sqlite.Filter{Metric: metricElectricity})
	if err != nil {
		return nil, err
	}

	avgAccess := 0.0
	fullAccess := 0
	if latest := latestYear(docs); latest != "" {
		sum, n := 0.0, 0
		for _, doc := range docs {
			if v, ok := doc.YearValue(latest); ok {
				sum += v
				n++
				if v == 100 {
					fullAccess++
				}
			}
		}
		if n > 0 {
			avgAccess = sum / float64(n)
		}
	}

	return []string{
		fmt.Sprintf("This report analyzes energy access across %d African countries,", len(countries)),
		fmt.Sprintf("tracking %d key development indicators from 2000 to 2022.", len(metricNames)),
		"",
		fmt.Sprintf("- Average electricity access rate: %.1f%%", avgAccess),
		fmt.Sprintf("- Countries with universal electricity access: %d", fullAccess),
		"- Comprehensive data covering two decades of development",
		"",
		"The analysis reveals significant progress in energy access, though substantial",
		"challenges remain, particularly in clean cooking access and regional disparities.",
	}, nil
}

func (g *Generator) electricityAccess(ctx context.Context) ([]string, error) {
	docs, err := g.db.Find(ctx, sqlite.Filter{Metric: metricElectricity})
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return []string{"No electricity access data available."}, nil
	}
	latest := latestYear(docs)
	if latest == "" {
		return []string{"No year data available for electricity access."}, nil
	}

	var current []countryValue
	criticalGap := 0
	universal := 0
	for _, doc := range docs {
		if v, ok := doc.YearValue(latest); ok {
			current = append(current, countryValue{doc.Country, v})
			if v < 50 {
				criticalGap++
			}
			if v == 100 {
				universal++
			}
		}
	}

	lines := []string{
		fmt.Sprintf("CURRENT STATUS (%s):", latest),
		fmt.Sprintf("  - Countries analyzed: %d", len(current)),
		fmt.Sprintf("  - Average access rate: %.1f%%", mean(current)),
		fmt.Sprintf("  - Universal access (100%%): %d countries", universal),
		fmt.Sprintf("  - Critical gap (<50%%): %d countries", criticalGap),
		"",
		"REGIONAL LEADERS:",
	}
	for _, entry := range topCountries(docs, latest, 5) {
		lines = append(lines, fmt.Sprintf("  - %s: %.1f%%", entry.country, entry.value))
	}

	improved := mostImproved(docs, latest, 3)
	if len(improved) > 0 {
		lines = append(lines, "", fmt.Sprintf("MOST IMPROVED (%s-%s):", baselineYear, latest))
		for _, entry := range improved {
			lines = append(lines, fmt.Sprintf("  - %s: %+.1f%%", entry.country, entry.value))
		}
	}
	return lines, nil
}

func (g *Generator) cleanCooking(ctx context.Context) ([]string, error) {
	docs, err := g.db.Find(ctx, sqlite.Filter{Metric: metricCleanCooking})
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return []string{"No clean cooking data available."}, nil
	}
	latest := latestYear(docs)
	if latest == "" {
		return []string{"No year data available for clean cooking."}, nil
	}

	var current []countryValue
	highAccess, criticalGap := 0, 0
	for _, doc := range docs {
		if v, ok := doc.YearValue(latest); ok {
			current = append(current, countryValue{doc.Country, v})
			if v > 90 {
				highAccess++
			}
			if v < 10 {
				criticalGap++
			}
		}
	}

	return []string{
		fmt.Sprintf("CURRENT STATUS (%s):", latest),
		fmt.Sprintf("  - Average access rate: %.1f%%", mean(current)),
		fmt.Sprintf("  - High access (>90%%): %d countries", highAccess),
		fmt.Sprintf("  - Critical gap (<10%%): %d countries", criticalGap),
		"",
		"Clean cooking access remains a significant challenge across much of Africa,",
		"with many countries showing limited progress compared to electricity access.",
	}, nil
}

func (g *Generator) regionalComparisons(ctx context.Context) ([]string, error) {
	docs, err := g.db.Find(ctx, sqlite.Filter{Metric: metricElectricity})
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return []string{"No data available for regional comparisons."}, nil
	}
	latest := latestYear(docs)
	if latest == "" {
		return []string{"No year data available for regional comparisons."}, nil
	}

	byCountry := make(map[string]*models.Document, len(docs))
	for _, doc := range docs {
		byCountry[doc.Country] = doc
	}

	lines := []string{fmt.Sprintf("REGIONAL ELECTRICITY ACCESS (%s):", latest)}

	regionNames := make([]string, 0, len(regions))
	for name := range regions {
		regionNames = append(regionNames, name)
	}
	sort.Strings(regionNames)

	for _, region := range regionNames {
		sum, n := 0.0, 0
		for _, country := range regions[region] {
			doc, ok := byCountry[country]
			if !ok {
				continue
			}
			if v, ok := doc.YearValue(latest); ok {
				sum += v
				n++
			}
		}
		if n > 0 {
			lines = append(lines, fmt.Sprintf("  - %s: %.1f%%", region, sum/float64(n)))
		}
	}

	lines = append(lines,
		"",
		"North African countries generally show higher access rates,",
		"while significant disparities exist within other regions.",
	)
	return lines, nil
}

func (g *Generator) progressTracking(ctx context.Context) ([]string, error) {
	docs, err := g.db.Find(ctx, sqlite.Filter{Metric: metricElectricity})
	if err != nil {
		return nil, err
	}
	latest := latestYear(docs)
	if latest == "" {
		return []string{"Insufficient data for progress tracking."}, nil
	}

	var improvements []float64
	for _, doc := range docs {
		base, okBase := doc.YearValue(baselineYear)
		now, okNow := doc.YearValue(latest)
		if okBase && okNow {
			improvements = append(improvements, now-base)
		}
	}
	if len(improvements) == 0 {
		return []string{"Insufficient data for progress tracking."}, nil
	}

	sum, progressed, large := 0.0, 0, 0
	for _, delta := range improvements {
		sum += delta
		if delta > 0 {
			progressed++
		}
		if delta > 20 {
			large++
		}
	}

	return []string{
		fmt.Sprintf("OVERALL PROGRESS (%s-%s):", baselineYear, latest),
		fmt.Sprintf("  - Average improvement: %+.1f%%", sum/float64(len(improvements))),
		fmt.Sprintf("  - Countries showing progress: %d", progressed),
		fmt.Sprintf("  - Countries with >20%% improvement: %d", large),
	}, nil
}

func (g *Generator) recommendations(context.Context) ([]string, error) {
	return []string{
		"1. FOCUS ON CLEAN COOKING ACCESS",
		"   - Clean cooking progress lags significantly behind electricity access",
		"   - Targeted programs needed for countries with <10% access",
		"",
		"2. ADDRESS REGIONAL DISPARITIES",
		"   - Significant gaps exist between North Africa and other regions",
		"   - Regional cooperation could accelerate progress",
		"",
		"3. LEVERAGE SUCCESS STORIES",
		"   - Study and replicate strategies from most improved countries",
		"   - Share best practices across the continent",
		"",
		"4. ENHANCE DATA COLLECTION",
		"   - Regular monitoring essential for tracking SDG progress",
		"   - Invest in national statistical capacity",
	}, nil
}

type countryValue struct {
	country string
	value   float64
}

// latestYear finds the most recent year with any non-null value in the batch.
func latestYear(docs []*models.Document) string {
	latest := ""
	for _, doc := range docs {
		for year, value := range doc.Years {
			if value == nil {
				continue
			}
			if year > latest {
				latest = year
			}
		}
	}
	return latest
}

func mean(values []countryValue) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v.value
	}
	return sum / float64(len(values))
}

func topCountries(docs []*models.Document, year string, n int) []countryValue {
	var values []countryValue
	for _, doc := range docs {
		if v, ok := doc.YearValue(year); ok {
			values = append(values, countryValue{doc.Country, v})
		}
	}
	sort.Slice(values, func(i, j int) bool {
		if values[i].value != values[j].value {
			return values[i].value > values[j].value
		}
		return values[i].country < values[j].country
	})
	if len(values) > n {
		values = values[:n]
	}
	return values
}

func mostImproved(docs []*models.Document, latest string, n int) []countryValue {
	var deltas []countryValue
	for _, doc := range docs {
		base, okBase := doc.YearValue(baselineYear)
		now, okNow := doc.YearValue(latest)
		if okBase && okNow {
			deltas = append(deltas, countryValue{doc.Country, now - base})
		}
	}
	sort.Slice(deltas, func(i, j int) bool {
		if deltas[i].value != deltas[j].value {
			return deltas[i].value > deltas[j].value
		}
		return deltas[i].country < deltas[j].country
	})
	if len(deltas) > n {
		deltas = deltas[:n]
	}
	return deltas
}
