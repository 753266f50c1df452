package ingestion

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vellie27/AFRICA-ENERGY-PIPELINE/internal/taxonomy"
)

const electricityIndicator = "Population access to electricity-National (% of population)"

func newTestNormalizer(policy taxonomy.UnmappedPolicy) *Normalizer {
	return NewNormalizer(
		taxonomy.NewMapper(taxonomy.DefaultIndicatorTable(), policy),
		taxonomy.NewRegistry(taxonomy.AfricanCountries),
		DefaultCoercionPolicy(),
		"World Bank/International Energy Agency",
		"Africa Energy Portal Dataset",
	)
}

func TestCoercionPolicy_NullSemantics(t *testing.T) {
	policy := DefaultCoercionPolicy()

	tests := []struct {
		name string
		cell string
		want *float64
	}{
		{"empty string", "", nil},
		{"null sentinel", "NULL", nil},
		{"non-numeric", "n/a", nil},
		{"letters", "abc", nil},
		{"plain float", "75.5", ptr(75.5)},
		{"integer", "20", ptr(20.0)},
		{"negative", "-3.2", ptr(-3.2)},
		{"zero is a value", "0", ptr(0.0)},
		{"whitespace padded", " 12.5 ", ptr(12.5)},
		{"scientific notation", "1.5e2", ptr(150.0)},
		{"NaN", "NaN", nil},
		{"lowercase nan", "nan", nil},
		{"infinity", "Inf", nil},
		{"long infinity", "Infinity", nil},
		{"positive infinity", "+Inf", nil},
		{"negative infinity", "-inf", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := policy.Coerce(tt.cell)
			if tt.want == nil {
				assert.Nil(t, got)
			} else {
				require.NotNil(t, got)
				assert.Equal(t, *tt.want, *got)
			}
		})
	}
}

func TestCoercionPolicy_CustomTokens(t *testing.T) {
	policy := NewCoercionPolicy([]string{"", "NULL", ".."})

	assert.Nil(t, policy.Coerce(".."))
	assert.NotNil(t, policy.Coerce("5"))
}

func TestNormalizer_KnownIndicator(t *testing.T) {
	n := newTestNormalizer(taxonomy.UnmappedSkip)

	row := Row{
		"Country":   "Kenya",
		"Indicator": electricityIndicator,
		"2000":      "20",
		"2022":      "75",
	}

	doc, ok := n.Normalize(row, []string{"2000", "2022"})
	require.True(t, ok)
	assert.Equal(t, "Kenya", doc.Country)
	assert.Equal(t, 26, doc.CountrySerial)
	assert.Equal(t, "Electricity Access Rate", doc.Metric)
	assert.Equal(t, "%", doc.Unit)
	assert.Equal(t, "World Bank/International Energy Agency", doc.Source)

	v, ok := doc.YearValue("2000")
	require.True(t, ok)
	assert.Equal(t, 20.0, v)
	v, ok = doc.YearValue("2022")
	require.True(t, ok)
	assert.Equal(t, 75.0, v)
}

func TestNormalizer_StrictDropsUnmapped(t *testing.T) {
	n := newTestNormalizer(taxonomy.UnmappedSkip)

	row := Row{"Country": "Kenya", "Indicator": "Not Mapped", "2000": "5"}
	doc, ok := n.Normalize(row, []string{"2000"})
	assert.False(t, ok)
	assert.Nil(t, doc)
}

func TestNormalizer_LenientKeepsUnmapped(t *testing.T) {
	n := newTestNormalizer(taxonomy.UnmappedPassthrough)

	row := Row{"Country": "Kenya", "Indicator": "Not Mapped", "2000": "5"}
	doc, ok := n.Normalize(row, []string{"2000"})
	require.True(t, ok)
	assert.Equal(t, "Not Mapped", doc.Metric)
	assert.Equal(t, "Unknown", doc.Unit)
	assert.Equal(t, "Energy", doc.Sector)
	assert.Equal(t, "General", doc.SubSector)
}

func TestNormalizer_UnknownCountrySerialZero(t *testing.T) {
	n := newTestNormalizer(taxonomy.UnmappedPassthrough)

	row := Row{"Country": "Unknownland", "Indicator": "Not Mapped"}
	doc, ok := n.Normalize(row, nil)
	require.True(t, ok)
	assert.Equal(t, 0, doc.CountrySerial)
	assert.Equal(t, "Unknownland", doc.Country)
}

func TestNormalizer_YearKeySetMatchesColumns(t *testing.T) {
	n := newTestNormalizer(taxonomy.UnmappedSkip)

	row := Row{
		"Country":   "Kenya",
		"Indicator": electricityIndicator,
		"2000":      "20",
		"2001":      "NULL",
		"2002":      "garbage",
		// 2003 present in row but not a known year column: must be ignored.
		"2003": "40",
	}

	doc, ok := n.Normalize(row, []string{"2000", "2001", "2002"})
	require.True(t, ok)
	require.Len(t, doc.Years, 3)

	// Present with value.
	v, ok := doc.YearValue("2000")
	require.True(t, ok)
	assert.Equal(t, 20.0, v)

	// Present but recorded null, never zero.
	nullValue, present := doc.Years["2001"]
	require.True(t, present)
	assert.Nil(t, nullValue)

	// Parse failure resolves locally to null.
	nullValue, present = doc.Years["2002"]
	require.True(t, present)
	assert.Nil(t, nullValue)

	_, present = doc.Years["2003"]
	assert.False(t, present)
}

func TestNormalizer_NonFiniteCellsStayEncodable(t *testing.T) {
	n := newTestNormalizer(taxonomy.UnmappedSkip)

	row := Row{
		"Country":   "Kenya",
		"Indicator": electricityIndicator,
		"2000":      "NaN",
		"2001":      "Inf",
		"2002":      "50",
	}

	doc, ok := n.Normalize(row, []string{"2000", "2001", "2002"})
	require.True(t, ok)
	assert.Nil(t, doc.Years["2000"])
	assert.Nil(t, doc.Years["2001"])
	require.NotNil(t, doc.Years["2002"])

	// The year map must always survive the store's JSON encoding.
	_, err := json.Marshal(doc.Years)
	require.NoError(t, err)
}

func TestNormalizer_MissingYearCellIsNull(t *testing.T) {
	n := newTestNormalizer(taxonomy.UnmappedSkip)

	row := Row{"Country": "Kenya", "Indicator": electricityIndicator}
	doc, ok := n.Normalize(row, []string{"2010"})
	require.True(t, ok)

	nullValue, present := doc.Years["2010"]
	require.True(t, present)
	assert.Nil(t, nullValue)
}

func TestNormalizer_Deterministic(t *testing.T) {
	n := newTestNormalizer(taxonomy.UnmappedSkip)
	row := Row{"Country": "Ghana", "Indicator": electricityIndicator, "2015": "83.9"}

	a, ok := n.Normalize(row, []string{"2015"})
	require.True(t, ok)
	b, ok := n.Normalize(row, []string{"2015"})
	require.True(t, ok)

	assert.Equal(t, a.ID, b.ID)
	assert.Equal(t, a, b)
}

func ptr(v float64) *float64 { return &v }
