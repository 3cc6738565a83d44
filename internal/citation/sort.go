package citation

import (
	"errors"
	"slices"
	"strings"

	"github.com/matsen/pubsnippet/internal/reference"
)

// ErrNoRecords is returned when no record survives the admissibility filter.
var ErrNoRecords = errors.New("no admissible records (each row needs Authors, Title and Year)")

// SortKey returns the lower-cased first author token used for A–Z ordering.
func SortKey(authors reference.Field) string {
	if !authors.Present {
		return ""
	}
	first, _, _ := strings.Cut(authors.Value, ";")
	return strings.ToLower(strings.TrimSpace(first))
}

// Filter returns the admissible records in input order.
func Filter(records []reference.SourceRecord) []reference.SourceRecord {
	kept := make([]reference.SourceRecord, 0, len(records))
	for _, rec := range records {
		if rec.Admissible() {
			kept = append(kept, rec)
		}
	}
	return kept
}

// Prepare filters, formats and orders records, then numbers them 1..K in
// sorted order. Records with equal sort keys keep their input order.
func Prepare(records []reference.SourceRecord, opts Options) ([]reference.FormattedCitation, error) {
	admitted := Filter(records)
	if len(admitted) == 0 {
		return nil, ErrNoRecords
	}

	cites := make([]reference.FormattedCitation, len(admitted))
	for i, rec := range admitted {
		cites[i] = Format(rec, opts)
	}

	slices.SortStableFunc(cites, func(a, b reference.FormattedCitation) int {
		return strings.Compare(a.SortKey, b.SortKey)
	})

	for i := range cites {
		cites[i].Number = i + 1
	}
	return cites, nil
}
