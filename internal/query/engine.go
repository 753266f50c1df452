package query

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vellie27/AFRICA-ENERGY-PIPELINE/internal/cache/redis"
	"github.com/vellie27/AFRICA-ENERGY-PIPELINE/internal/metrics"
	"github.com/vellie27/AFRICA-ENERGY-PIPELINE/internal/storage/models"
	"github.com/vellie27/AFRICA-ENERGY-PIPELINE/internal/storage/sqlite"
	"github.com/vellie27/AFRICA-ENERGY-PIPELINE/pkg/logger"
	"github.com/vellie27/AFRICA-ENERGY-PIPELINE/pkg/utils"
)

// ErrNotFound is returned when a country or metric has no documents.
var ErrNotFound = errors.New("not found")

// Store is the read-side slice of the persistence gateway the engine needs.
type Store interface {
	Find(ctx context.Context, filter sqlite.Filter) ([]*models.Document, error)
	Distinct(ctx context.Context, field string) ([]string, error)
	Count(ctx context.Context) (int, error)
}

// Engine serves read-side queries over the document collection.
type Engine struct {
	db    Store
	cache *redis.Client
}

// NewEngine wires the gateway and an optional cache (nil disables caching).
func NewEngine(db Store, cache *redis.Client) *Engine {
	return &Engine{db: db, cache: cache}
}

// CountryResult is the response for a country lookup. When the name does not
// match, Suggestions carries similarly named countries from the collection.
type CountryResult struct {
	Country     string             `json:"country"`
	Documents   []*models.Document `json:"documents"`
	Suggestions []string           `json:"suggestions,omitempty"`
}

// Comparison is a two-country, one-metric side-by-side for years where both
// values are present.
type Comparison struct {
	Metric string           `json:"metric"`
	Unit   string           `json:"unit"`
	A      string           `json:"country_a"`
	B      string           `json:"country_b"`
	Years  []YearComparison `json:"years"`
}

type YearComparison struct {
	Year       string  `json:"year"`
	ValueA     float64 `json:"value_a"`
	ValueB     float64 `json:"value_b"`
	Difference float64 `json:"difference"`
}

// Stats summarizes the collection.
type Stats struct {
	Countries int      `json:"countries"`
	Metrics   int      `json:"metrics"`
	Documents int      `json:"documents"`
	MetricSet []string `json:"metric_names"`
}

// CountryData finds all documents for a country by case-insensitive exact
// name. A miss is not an error: the result carries name suggestions instead.
func (e *Engine) CountryData(ctx context.Context, name string) (*CountryResult, error) {
	start := time.Now()
	queryID := uuid.New().String()

	cacheKey := utils.HashString("country:" + strings.ToLower(name))
	if e.cache != nil {
		var cached CountryResult
		hit, err := e.cache.GetQuery(ctx, cacheKey, &cached)
		if err != nil {
			logger.Warn("cache read failed", zap.Error(err))
		}
		if hit {
			metrics.CacheHits.WithLabelValues("country").Inc()
			return &cached, nil
		}
		metrics.CacheMisses.WithLabelValues("country").Inc()
	}

	docs, err := e.db.Find(ctx, sqlite.Filter{Country: name, CountryFold: true})
	if err != nil {
		metrics.QueryTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("country query: %w", err)
	}

	result := &CountryResult{Country: name, Documents: docs}
	if len(docs) == 0 {
		suggestions, err := e.similarCountries(ctx, name)
		if err != nil {
			return nil, err
		}
		result.Suggestions = suggestions
	} else {
		// Canonical casing comes from the stored documents.
		result.Country = docs[0].Country
	}

	if e.cache != nil && len(docs) > 0 {
		if err := e.cache.SetQuery(ctx, cacheKey, result); err != nil {
			logger.Warn("cache write failed", zap.Error(err))
		}
	}

	metrics.QueryTotal.WithLabelValues("ok").Inc()
	metrics.QueryDuration.WithLabelValues("country").Observe(time.Since(start).Seconds())
	logger.Info("country query served",
		zap.String("query_id", queryID),
		zap.String("country", name),
		zap.Int("documents", len(docs)),
	)
	return result, nil
}

// similarCountries suggests names containing the input, case-insensitively.
func (e *Engine) similarCountries(ctx context.Context, input string) ([]string, error) {
	all, err := e.db.Distinct(ctx, "country")
	if err != nil {
		return nil, fmt.Errorf("country suggestions: %w", err)
	}
	needle := strings.ToLower(input)
	var matches []string
	for _, country := range all {
		if strings.Contains(strings.ToLower(country), needle) {
			matches = append(matches, country)
		}
	}
	return matches, nil
}

// Compare builds the per-year side-by-side for one metric across two
// countries. Years where either side is null are left out.
func (e *Engine) Compare(ctx context.Context, countryA, countryB, metric string) (*Comparison, error) {
	start := time.Now()

	docsA, err := e.db.Find(ctx, sqlite.Filter{Country: countryA, CountryFold: true, Metric: metric})
	if err != nil {
		return nil, fmt.Errorf("compare query: %w", err)
	}
	docsB, err := e.db.Find(ctx, sqlite.Filter{Country: countryB, CountryFold: true, Metric: metric})
	if err != nil {
		return nil, fmt.Errorf("compare query: %w", err)
	}
	if len(docsA) == 0 || len(docsB) == 0 {
		metrics.QueryTotal.WithLabelValues("miss").Inc()
		return nil, fmt.Errorf("%w: metric %q for %q vs %q", ErrNotFound, metric, countryA, countryB)
	}

	a, b := docsA[0], docsB[0]
	comparison := &Comparison{
		Metric: metric,
		Unit:   a.Unit,
		A:      a.Country,
		B:      b.Country,
	}

	for _, year := range sharedYears(a, b) {
		valueA, okA := a.YearValue(year)
		valueB, okB := b.YearValue(year)
		if !okA || !okB {
			continue
		}
		comparison.Years = append(comparison.Years, YearComparison{
			Year:       year,
			ValueA:     valueA,
			ValueB:     valueB,
			Difference: valueA - valueB,
		})
	}

	metrics.QueryTotal.WithLabelValues("ok").Inc()
	metrics.QueryDuration.WithLabelValues("compare").Observe(time.Since(start).Seconds())
	return comparison, nil
}

// sharedYears is the sorted union of year keys across both documents.
func sharedYears(a, b *models.Document) []string {
	seen := make(map[string]bool, len(a.Years)+len(b.Years))
	for year := range a.Years {
		seen[year] = true
	}
	for year := range b.Years {
		seen[year] = true
	}
	years := make([]string, 0, len(seen))
	for year := range seen {
		years = append(years, year)
	}
	sort.Strings(years)
	return years
}

// Countries lists the distinct countries in the collection, sorted.
func (e *Engine) Countries(ctx context.Context) ([]string, error) {
	countries, err := e.db.Distinct(ctx, "country")
	if err != nil {
		return nil, fmt.Errorf("countries query: %w", err)
	}
	return countries, nil
}

// Stats reports collection-level counts.
func (e *Engine) Stats(ctx context.Context) (*Stats, error) {
	countries, err := e.db.Distinct(ctx, "country")
	if err != nil {
		return nil, fmt.Errorf("stats query: %w", err)
	}
	metricNames, err := e.db.Distinct(ctx, "metric")
	if err != nil {
		return nil, fmt.Errorf("stats query: %w", err)
	}
	count, err := e.db.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("stats query: %w", err)
	}

	return &Stats{
		Countries: len(countries),
		Metrics:   len(metricNames),
		Documents: count,
		MetricSet: metricNames,
	}, nil
}
