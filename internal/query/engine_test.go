package query

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vellie27/AFRICA-ENERGY-PIPELINE/internal/storage/models"
	"github.com/vellie27/AFRICA-ENERGY-PIPELINE/internal/storage/sqlite"
	"github.com/vellie27/AFRICA-ENERGY-PIPELINE/pkg/logger"
)

func init() {
	if err := logger.Init("error", "console", "stdout"); err != nil {
		panic(err)
	}
}

func ptr(v float64) *float64 { return &v }

type fakeStore struct {
	docs []*models.Document
}

func (f *fakeStore) Find(_ context.Context, filter sqlite.Filter) ([]*models.Document, error) {
	var out []*models.Document
	for _, doc := range f.docs {
		if filter.Country != "" {
			if filter.CountryFold {
				if !strings.EqualFold(doc.Country, filter.Country) {
					continue
				}
			} else if doc.Country != filter.Country {
				continue
			}
		}
		if filter.Metric != "" && doc.Metric != filter.Metric {
			continue
		}
		if filter.Sector != "" && doc.Sector != filter.Sector {
			continue
		}
		out = append(out, doc)
	}
	return out, nil
}

func (f *fakeStore) Distinct(_ context.Context, field string) ([]string, error) {
	seen := make(map[string]bool)
	var values []string
	for _, doc := range f.docs {
		var v string
		switch field {
		case "country":
			v = doc.Country
		case "metric":
			v = doc.Metric
		}
		if v != "" && !seen[v] {
			seen[v] = true
			values = append(values, v)
		}
	}
	return values, nil
}

func (f *fakeStore) Count(_ context.Context) (int, error) {
	return len(f.docs), nil
}

func newFakeStore() *fakeStore {
	return &fakeStore{docs: []*models.Document{
		{
			Country: "Kenya", CountrySerial: 26,
			Metric: "Electricity Access Rate", Unit: "% of population",
			Years: map[string]*float64{"2000": ptr(20), "2010": nil, "2022": ptr(75.5)},
		},
		{
			Country: "Nigeria", CountrySerial: 39,
			Metric: "Electricity Access Rate", Unit: "% of population",
			Years: map[string]*float64{"2000": ptr(43), "2010": ptr(50), "2022": ptr(60)},
		},
		{
			Country: "Niger", CountrySerial: 38,
			Metric: "Clean Cooking Access Rate", Unit: "% of population",
			Years: map[string]*float64{"2000": ptr(1)},
		},
	}}
}

func TestEngine_CountryData(t *testing.T) {
	engine := NewEngine(newFakeStore(), nil)

	result, err := engine.CountryData(context.Background(), "kenya")
	require.NoError(t, err)
	// Canonical casing comes from the stored document, not the input.
	assert.Equal(t, "Kenya", result.Country)
	require.Len(t, result.Documents, 1)
	assert.Empty(t, result.Suggestions)
}

func TestEngine_CountryDataSuggestions(t *testing.T) {
	engine := NewEngine(newFakeStore(), nil)

	result, err := engine.CountryData(context.Background(), "nige")
	require.NoError(t, err)
	assert.Empty(t, result.Documents)
	assert.ElementsMatch(t, []string{"Nigeria", "Niger"}, result.Suggestions)
}

func TestEngine_Compare(t *testing.T) {
	engine := NewEngine(newFakeStore(), nil)

	cmp, err := engine.Compare(context.Background(), "Kenya", "Nigeria", "Electricity Access Rate")
	require.NoError(t, err)
	assert.Equal(t, "Kenya", cmp.A)
	assert.Equal(t, "Nigeria", cmp.B)
	assert.Equal(t, "% of population", cmp.Unit)

	// 2010 is null on the Kenya side, so only 2000 and 2022 survive.
	require.Len(t, cmp.Years, 2)
	assert.Equal(t, "2000", cmp.Years[0].Year)
	assert.Equal(t, -23.0, cmp.Years[0].Difference)
	assert.Equal(t, "2022", cmp.Years[1].Year)
	assert.InDelta(t, 15.5, cmp.Years[1].Difference, 1e-9)
}

func TestEngine_CompareNotFound(t *testing.T) {
	engine := NewEngine(newFakeStore(), nil)

	_, err := engine.Compare(context.Background(), "Kenya", "Atlantis", "Electricity Access Rate")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = engine.Compare(context.Background(), "Kenya", "Nigeria", "No Such Metric")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestEngine_Stats(t *testing.T) {
	engine := NewEngine(newFakeStore(), nil)

	stats, err := engine.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Countries)
	assert.Equal(t, 2, stats.Metrics)
	assert.Equal(t, 3, stats.Documents)
	assert.ElementsMatch(t, []string{"Electricity Access Rate", "Clean Cooking Access Rate"}, stats.MetricSet)
}

func TestEngine_Countries(t *testing.T) {
	engine := NewEngine(newFakeStore(), nil)

	countries, err := engine.Countries(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Kenya", "Nigeria", "Niger"}, countries)
}
