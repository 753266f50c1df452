package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Document is the canonical per-country-per-metric record. Years holds the
// sparse observation map: the key set is exactly the year columns present in
// the source, and a nil value is a recorded null, never an absent year.
type Document struct {
	ID            string
	Country       string
	CountrySerial int
	Metric        string
	Unit          string
	Sector        string
	SubSector     string
	SubSubSector  string
	Source        string
	SourceLink    string
	Years         map[string]*float64
}

// YearValue returns the observation for a year; ok is false when the year is
// absent or recorded as null.
func (d *Document) YearValue(year string) (float64, bool) {
	v, present := d.Years[year]
	if !present || v == nil {
		return 0, false
	}
	return *v, true
}

// NonNullYears counts years with an actual observation.
func (d *Document) NonNullYears() int {
	n := 0
	for _, v := range d.Years {
		if v != nil {
			n++
		}
	}
	return n
}

// MarshalJSON flattens the year map into top-level keys, matching the shape
// consumers read from the collection. The internal ID is stripped.
func (d *Document) MarshalJSON() ([]byte, error) {
	flat := make(map[string]interface{}, len(d.Years)+10)
	flat["country"] = d.Country
	flat["country_serial"] = d.CountrySerial
	flat["metric"] = d.Metric
	flat["unit"] = d.Unit
	flat["sector"] = d.Sector
	flat["sub_sector"] = d.SubSector
	flat["sub_sub_sector"] = d.SubSubSector
	flat["source"] = d.Source
	flat["source_link"] = d.SourceLink
	for year, value := range d.Years {
		flat[year] = value
	}
	return json.Marshal(flat)
}

// UnmarshalJSON accepts the flat document shape: named fields plus any number
// of numeral year keys.
func (d *Document) UnmarshalJSON(data []byte) error {
	var flat map[string]json.RawMessage
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}

	named := map[string]interface{}{
		"country":        &d.Country,
		"country_serial": &d.CountrySerial,
		"metric":         &d.Metric,
		"unit":           &d.Unit,
		"sector":         &d.Sector,
		"sub_sector":     &d.SubSector,
		"sub_sub_sector": &d.SubSubSector,
		"source":         &d.Source,
		"source_link":    &d.SourceLink,
	}

	d.Years = make(map[string]*float64)
	for key, raw := range flat {
		if dst, ok := named[key]; ok {
			if err := json.Unmarshal(raw, dst); err != nil {
				return fmt.Errorf("field %q: %w", key, err)
			}
			continue
		}
		if _, err := strconv.Atoi(key); err != nil {
			continue
		}
		var v *float64
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("year %q: %w", key, err)
		}
		d.Years[key] = v
	}
	return nil
}
