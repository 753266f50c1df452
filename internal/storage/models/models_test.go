package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func TestDocument_YearValue(t *testing.T) {
	doc := &Document{Years: map[string]*float64{"2000": ptr(20), "2010": nil}}

	v, ok := doc.YearValue("2000")
	assert.True(t, ok)
	assert.Equal(t, 20.0, v)

	_, ok = doc.YearValue("2010")
	assert.False(t, ok, "recorded null is not an observation")

	_, ok = doc.YearValue("1999")
	assert.False(t, ok, "absent year is not an observation")

	assert.Equal(t, 1, doc.NonNullYears())
}

func TestDocument_MarshalFlat(t *testing.T) {
	doc := &Document{
		ID:            "deadbeef",
		Country:       "Kenya",
		CountrySerial: 26,
		Metric:        "Electricity Access Rate",
		Unit:          "% of population",
		Sector:        "Energy Access",
		SubSector:     "Electricity",
		Source:        "Energy Tracker Africa",
		SourceLink:    "https://example.org",
		Years:         map[string]*float64{"2000": ptr(20), "2010": nil},
	}

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var flat map[string]any
	require.NoError(t, json.Unmarshal(data, &flat))

	assert.Equal(t, "Kenya", flat["country"])
	assert.Equal(t, float64(26), flat["country_serial"])
	assert.Equal(t, float64(20), flat["2000"])

	// Null year survives as an explicit null key.
	v, present := flat["2010"]
	assert.True(t, present)
	assert.Nil(t, v)

	// No nested years object and no internal id.
	assert.NotContains(t, flat, "years")
	assert.NotContains(t, flat, "Years")
	assert.NotContains(t, flat, "ID")
	assert.NotContains(t, flat, "id")
}

func TestDocument_UnmarshalFlat(t *testing.T) {
	data := []byte(`{
		"country": "Ghana",
		"country_serial": 23,
		"metric": "Clean Cooking Access Rate",
		"unit": "% of population",
		"sector": "Energy Access",
		"sub_sector": "Clean Cooking",
		"sub_sub_sector": "",
		"source": "Energy Tracker Africa",
		"source_link": "https://example.org",
		"2000": 6.5,
		"2010": null,
		"notes": "ignored"
	}`)

	var doc Document
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, "Ghana", doc.Country)
	assert.Equal(t, 23, doc.CountrySerial)
	require.Contains(t, doc.Years, "2000")
	assert.Equal(t, 6.5, *doc.Years["2000"])
	require.Contains(t, doc.Years, "2010")
	assert.Nil(t, doc.Years["2010"])
	assert.NotContains(t, doc.Years, "notes", "non-numeral keys never become years")
}

func TestDocument_RoundTrip(t *testing.T) {
	original := &Document{
		Country:       "Kenya",
		CountrySerial: 26,
		Metric:        "Electricity Access Rate",
		Unit:          "% of population",
		Sector:        "Energy Access",
		SubSector:     "Electricity",
		Source:        "Energy Tracker Africa",
		SourceLink:    "https://example.org",
		Years:         map[string]*float64{"2000": ptr(20), "2010": nil, "2022": ptr(75.5)},
	}

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Document
	require.NoError(t, json.Unmarshal(data, &decoded))

	// ID is not part of the wire shape; everything else survives.
	original.ID = ""
	assert.Equal(t, original, &decoded)
}
