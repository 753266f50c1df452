package ingestion

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
)

// Supported year-column range. Columns outside it are ignored entirely.
const (
	MinYear = 2000
	MaxYear = 2024
)

// ErrSourceRead marks a file-level CSV failure: unreadable file, malformed
// records, or missing required columns. Per-cell problems are not errors.
var ErrSourceRead = errors.New("source read failed")

// Row is one CSV record keyed by column name.
type Row map[string]string

// Dataset is a whole CSV loaded into memory: the run is batch-oriented, one
// pass over all rows.
type Dataset struct {
	Rows        []Row
	YearColumns []string
}

// LoadDataset reads and parses the CSV at path. The header must contain
// Country and Indicator columns; year columns are discovered by name.
func LoadDataset(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %q: %v", ErrSourceRead, path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	// Ragged rows happen in hand-edited exports. A short row reads as
	// missing trailing cells, which coerce to null downstream.
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: parse %q: %v", ErrSourceRead, path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %q is empty", ErrSourceRead, path)
	}

	header := records[0]
	seen := make(map[string]bool, len(header))
	for _, col := range header {
		seen[col] = true
	}
	for _, required := range []string{"Country", "Indicator"} {
		if !seen[required] {
			return nil, fmt.Errorf("%w: missing required column %q", ErrSourceRead, required)
		}
	}

	dataset := &Dataset{
		Rows:        make([]Row, 0, len(records)-1),
		YearColumns: discoverYearColumns(header),
	}
	for _, record := range records[1:] {
		row := make(Row, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		dataset.Rows = append(dataset.Rows, row)
	}
	return dataset, nil
}

// discoverYearColumns keeps only purely numeric column names whose value is
// in [MinYear, MaxYear]. "abc" or "1999" never reach a document.
func discoverYearColumns(header []string) []string {
	var years []string
	for _, col := range header {
		year, err := strconv.Atoi(col)
		if err != nil {
			continue
		}
		if strconv.Itoa(year) != col {
			continue
		}
		if year < MinYear || year > MaxYear {
			continue
		}
		years = append(years, col)
	}
	return years
}
