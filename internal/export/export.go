// Package export shapes canonical documents into the downstream formats:
// flat CSV, long-format tidy CSV, JSON, and a spreadsheet workbook with one
// sheet per metric.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/vellie27/AFRICA-ENERGY-PIPELINE/internal/storage/models"
)

// YearColumns returns the sorted union of year keys present in the batch.
// Only years the source actually carried ever appear in an export.
func YearColumns(docs []*models.Document) []string {
	seen := make(map[string]bool)
	for _, doc := range docs {
		for year := range doc.Years {
			seen[year] = true
		}
	}
	years := make([]string, 0, len(seen))
	for year := range seen {
		years = append(years, year)
	}
	sort.Strings(years)
	return years
}

// formatValue renders a float without precision loss; nulls render empty.
func formatValue(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}

// WriteFlatCSV writes one row per document with year values as columns.
func WriteFlatCSV(w io.Writer, docs []*models.Document) error {
	years := YearColumns(docs)
	writer := csv.NewWriter(w)

	header := append([]string{
		"country", "country_serial", "metric", "unit", "sector", "sub_sector", "sub_sub_sector", "source",
	}, years...)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("export: write header: %w", err)
	}

	for _, doc := range docs {
		row := []string{
			doc.Country,
			strconv.Itoa(doc.CountrySerial),
			doc.Metric,
			doc.Unit,
			doc.Sector,
			doc.SubSector,
			doc.SubSubSector,
			doc.Source,
		}
		for _, year := range years {
			value, present := doc.Years[year]
			if !present {
				row = append(row, "")
				continue
			}
			row = append(row, formatValue(value))
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("export: write row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// TidyHeader is the long-format column set, one row per non-null observation.
var TidyHeader = []string{
	"country", "country_serial", "metric", "unit", "sector", "sub_sector", "year", "value", "source",
}

// WriteTidyCSV writes the long format consumed by BI tools: one row per
// country×metric×year observation, nulls omitted.
func WriteTidyCSV(w io.Writer, docs []*models.Document) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(TidyHeader); err != nil {
		return fmt.Errorf("export: write header: %w", err)
	}

	for _, doc := range docs {
		years := make([]string, 0, len(doc.Years))
		for year := range doc.Years {
			years = append(years, year)
		}
		sort.Strings(years)

		for _, year := range years {
			value, ok := doc.YearValue(year)
			if !ok {
				continue
			}
			row := []string{
				doc.Country,
				strconv.Itoa(doc.CountrySerial),
				doc.Metric,
				doc.Unit,
				doc.Sector,
				doc.SubSector,
				year,
				strconv.FormatFloat(value, 'g', -1, 64),
				doc.Source,
			}
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("export: write row: %w", err)
			}
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteJSON writes the document array with internal ids stripped (the
// document marshaler already omits them).
func WriteJSON(w io.Writer, docs []*models.Document) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if docs == nil {
		docs = []*models.Document{}
	}
	if err := encoder.Encode(docs); err != nil {
		return fmt.Errorf("export: encode json: %w", err)
	}
	return nil
}

// maxSheetName is the spreadsheet format's sheet name limit.
const maxSheetName = 31

// WriteWorkbook writes an xlsx workbook with one sheet per metric: country
// column plus the batch's year columns.
func WriteWorkbook(w io.Writer, docs []*models.Document) error {
	years := YearColumns(docs)

	byMetric := make(map[string][]*models.Document)
	var metrics []string
	for _, doc := range docs {
		if _, ok := byMetric[doc.Metric]; !ok {
			metrics = append(metrics, doc.Metric)
		}
		byMetric[doc.Metric] = append(byMetric[doc.Metric], doc)
	}
	sort.Strings(metrics)

	book := excelize.NewFile()
	defer book.Close()

	for i, metric := range metrics {
		sheet := metric
		if len(sheet) > maxSheetName {
			sheet = sheet[:maxSheetName]
		}
		if i == 0 {
			if err := book.SetSheetName(book.GetSheetName(0), sheet); err != nil {
				return fmt.Errorf("export: rename sheet: %w", err)
			}
		} else {
			if _, err := book.NewSheet(sheet); err != nil {
				return fmt.Errorf("export: create sheet %q: %w", sheet, err)
			}
		}

		header := append([]string{"country"}, years...)
		for col, name := range header {
			cell, err := excelize.CoordinatesToCellName(col+1, 1)
			if err != nil {
				return fmt.Errorf("export: cell name: %w", err)
			}
			if err := book.SetCellValue(sheet, cell, name); err != nil {
				return fmt.Errorf("export: set header: %w", err)
			}
		}

		for rowIdx, doc := range byMetric[metric] {
			cell, err := excelize.CoordinatesToCellName(1, rowIdx+2)
			if err != nil {
				return fmt.Errorf("export: cell name: %w", err)
			}
			if err := book.SetCellValue(sheet, cell, doc.Country); err != nil {
				return fmt.Errorf("export: set country: %w", err)
			}
			for colIdx, year := range years {
				value, ok := doc.YearValue(year)
				if !ok {
					continue
				}
				cell, err := excelize.CoordinatesToCellName(colIdx+2, rowIdx+2)
				if err != nil {
					return fmt.Errorf("export: cell name: %w", err)
				}
				if err := book.SetCellValue(sheet, cell, value); err != nil {
					return fmt.Errorf("export: set value: %w", err)
				}
			}
		}
	}

	if _, err := book.WriteTo(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}

// WriteCountryCSV writes the per-country export: one row per metric with the
// year columns, country omitted because the file is for a single country.
func WriteCountryCSV(w io.Writer, docs []*models.Document) error {
	years := YearColumns(docs)
	writer := csv.NewWriter(w)

	header := append([]string{"metric", "unit", "sector", "sub_sector"}, years...)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("export: write header: %w", err)
	}

	for _, doc := range docs {
		row := []string{doc.Metric, doc.Unit, doc.Sector, doc.SubSector}
		for _, year := range years {
			value, present := doc.Years[year]
			if !present {
				row = append(row, "")
				continue
			}
			row = append(row, formatValue(value))
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("export: write row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
