package ingestion

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vellie27/AFRICA-ENERGY-PIPELINE/internal/storage/models"
	"github.com/vellie27/AFRICA-ENERGY-PIPELINE/internal/taxonomy"
	"github.com/vellie27/AFRICA-ENERGY-PIPELINE/internal/validation"
	"github.com/vellie27/AFRICA-ENERGY-PIPELINE/pkg/logger"
)

func init() {
	if err := logger.Init("error", "console", "stdout"); err != nil {
		panic(err)
	}
}

type fakeStore struct {
	indexed  bool
	replaced [][]*models.Document
	batches  []int
}

func (f *fakeStore) EnsureIndexes() error {
	f.indexed = true
	return nil
}

func (f *fakeStore) ReplaceAll(_ context.Context, docs []*models.Document, batchSize int) error {
	f.replaced = append(f.replaced, docs)
	f.batches = append(f.batches, batchSize)
	return nil
}

func TestProcessor_StrictRun(t *testing.T) {
	csv := "Country,Indicator,2000,2022\n" +
		"Kenya,Population access to electricity-National (% of population),20,75\n" +
		"Unknownland,Not Mapped,5,\n"
	path := writeCSV(t, csv)

	registry := taxonomy.NewRegistry(taxonomy.AfricanCountries)
	normalizer := NewNormalizer(
		taxonomy.NewMapper(taxonomy.DefaultIndicatorTable(), taxonomy.UnmappedSkip),
		registry,
		DefaultCoercionPolicy(),
		"src", "link",
	)
	store := &fakeStore{}
	processor := NewProcessor(path, normalizer, validation.NewValidator(registry), store, 50)

	summary, err := processor.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.RowsRead)
	assert.Equal(t, 1, summary.RowsSkipped)
	assert.Equal(t, 1, summary.DocumentsProduced)
	assert.Equal(t, 1, summary.DocumentsStored)
	assert.NotEmpty(t, summary.RunID)

	require.True(t, store.indexed)
	require.Len(t, store.replaced, 1)
	require.Len(t, store.replaced[0], 1)
	assert.Equal(t, []int{50}, store.batches)

	doc := store.replaced[0][0]
	assert.Equal(t, "Kenya", doc.Country)
	assert.Equal(t, "Electricity Access Rate", doc.Metric)

	report := summary.Report
	require.NotNil(t, report)
	assert.Len(t, report.MissingCountries, registry.Size()-1)
	assert.NotContains(t, report.MissingCountries, "Kenya")

	coverage, ok := report.MetricsCoverage["Electricity Access Rate"]
	require.True(t, ok)
	assert.Equal(t, 1, coverage.Available)
	assert.InDelta(t, 1.0/float64(registry.Size())*100, coverage.Percentage, 0.01)
}

func TestProcessor_DuplicateRowsDropped(t *testing.T) {
	// Two rows for the same (country, indicator) pair hash to the same
	// document id. The first one wins and the run still completes.
	csv := "Country,Indicator,2000,2022\n" +
		"Kenya,Population access to electricity-National (% of population),20,75\n" +
		"Kenya,Population access to electricity-National (% of population),99,99\n" +
		"Ghana,Population access to electricity-National (% of population),45,85\n"
	path := writeCSV(t, csv)

	registry := taxonomy.NewRegistry(taxonomy.AfricanCountries)
	normalizer := NewNormalizer(
		taxonomy.NewMapper(taxonomy.DefaultIndicatorTable(), taxonomy.UnmappedSkip),
		registry,
		DefaultCoercionPolicy(),
		"src", "link",
	)
	store := &fakeStore{}
	processor := NewProcessor(path, normalizer, validation.NewValidator(registry), store, 50)

	summary, err := processor.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, summary.RowsRead)
	assert.Equal(t, 0, summary.RowsSkipped)
	assert.Equal(t, 1, summary.DuplicatesDropped)
	assert.Equal(t, 2, summary.DocumentsProduced)
	assert.Equal(t, 2, summary.DocumentsStored)

	require.Len(t, store.replaced, 1)
	require.Len(t, store.replaced[0], 2)

	kenya := store.replaced[0][0]
	assert.Equal(t, "Kenya", kenya.Country)
	v, ok := kenya.YearValue("2000")
	require.True(t, ok)
	assert.Equal(t, 20.0, v)
}

func TestProcessor_SourceErrorAborts(t *testing.T) {
	registry := taxonomy.NewRegistry(taxonomy.AfricanCountries)
	normalizer := NewNormalizer(
		taxonomy.NewMapper(taxonomy.DefaultIndicatorTable(), taxonomy.UnmappedSkip),
		registry,
		DefaultCoercionPolicy(),
		"src", "link",
	)
	store := &fakeStore{}
	processor := NewProcessor("nonexistent.csv", normalizer, validation.NewValidator(registry), store, 50)

	_, err := processor.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSourceRead)
	// No partial ingestion: the store is never touched.
	assert.False(t, store.indexed)
	assert.Empty(t, store.replaced)
}

func TestProcessor_EmptyBatchStillReplaces(t *testing.T) {
	// A CSV whose rows are all dropped must still clear prior documents:
	// same CSV in, same collection out.
	csv := "Country,Indicator,2000\nKenya,Not Mapped,1\n"
	path := writeCSV(t, csv)

	registry := taxonomy.NewRegistry(taxonomy.AfricanCountries)
	normalizer := NewNormalizer(
		taxonomy.NewMapper(taxonomy.DefaultIndicatorTable(), taxonomy.UnmappedSkip),
		registry,
		DefaultCoercionPolicy(),
		"src", "link",
	)
	store := &fakeStore{}
	processor := NewProcessor(path, normalizer, validation.NewValidator(registry), store, 50)

	summary, err := processor.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, summary.DocumentsProduced)
	assert.Equal(t, 0.0, summary.CompletenessScore)
	require.Len(t, store.replaced, 1)
	assert.Empty(t, store.replaced[0])
}
