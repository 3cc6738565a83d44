// Package importer loads citation tables from external export formats.
package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/matsen/pubsnippet/internal/reference"
)

// ErrEmptyTable is returned when a table has a header but no data rows.
var ErrEmptyTable = errors.New("table contains no rows")

// ErrMissingColumns is returned when required columns are absent from the header.
var ErrMissingColumns = errors.New("missing required columns")

// naValues are the cell strings treated as missing, matching the defaults
// spreadsheet and dataframe tooling use when reading CSV exports.
var naValues = map[string]bool{
	"":         true,
	"#N/A":     true,
	"#N/A N/A": true,
	"#NA":      true,
	"-1.#IND":  true,
	"-1.#QNAN": true,
	"-NaN":     true,
	"-nan":     true,
	"1.#IND":   true,
	"1.#QNAN":  true,
	"<NA>":     true,
	"N/A":      true,
	"NA":       true,
	"NULL":     true,
	"NaN":      true,
	"None":     true,
	"n/a":      true,
	"nan":      true,
	"null":     true,
}

// IsNA reports whether a raw cell denotes a missing value.
func IsNA(cell string) bool {
	return naValues[cell]
}

// ParseScopusCSV reads a Scopus-style CSV export. The first row is the header;
// extra columns are ignored and short rows leave trailing fields missing.
func ParseScopusCSV(r io.Reader) ([]reference.SourceRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyTable
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}

	index, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var records []reference.SourceRecord
	for row := 1; ; row++ {
		cells, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV row %d: %w", row, err)
		}

		rec := reference.SourceRecord{Row: row}
		for _, col := range reference.Columns {
			i := index[col]
			if i < len(cells) && !IsNA(cells[i]) {
				rec.Set(col, reference.Value(cells[i]))
			}
		}
		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, ErrEmptyTable
	}
	return records, nil
}

// columnIndex maps every required column to its position in the header.
// When a name repeats, the first occurrence wins.
func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}

	var missing []string
	for _, col := range reference.Columns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return index, nil
}
