package importer

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/matsen/pubsnippet/internal/reference"
)

// FlexibleString can unmarshal from either string or number JSON values.
type FlexibleString string

func (f *FlexibleString) UnmarshalJSON(data []byte) error {
	// Handle null
	if string(data) == "null" {
		*f = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexibleString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexibleString(n.String())
		return nil
	}

	return fmt.Errorf("cannot unmarshal %s into FlexibleString", string(data))
}

func (f FlexibleString) String() string {
	return string(f)
}

// Field converts the value to a table field; blank values are missing.
func (f FlexibleString) Field() reference.Field {
	s := strings.TrimSpace(string(f))
	if s == "" {
		return reference.Missing()
	}
	return reference.Value(s)
}

// PaperpileEntry represents a single entry from a Paperpile JSON export.
type PaperpileEntry struct {
	Citekey   string         `json:"citekey"`
	DOI       FlexibleString `json:"doi"`
	Title     FlexibleString `json:"title"`
	Journal   FlexibleString `json:"journal"`
	Volume    FlexibleString `json:"volume"`
	Issue     FlexibleString `json:"issue"`
	Pages     FlexibleString `json:"pages"`
	Published struct {
		Year FlexibleString `json:"year"`
	} `json:"published"`
	Author []struct {
		First string `json:"first"`
		Last  string `json:"last"`
	} `json:"author"`
}

// ParsePaperpile parses a Paperpile JSON export into table records.
// Entries keep their export order; admissibility is left to the caller.
func ParsePaperpile(data []byte) ([]reference.SourceRecord, error) {
	var entries []PaperpileEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing Paperpile JSON: %w", err)
	}
	if len(entries) == 0 {
		return nil, ErrEmptyTable
	}

	records := make([]reference.SourceRecord, len(entries))
	for i, entry := range entries {
		records[i] = paperpileEntryToRecord(i+1, entry)
	}
	return records, nil
}

// paperpileEntryToRecord converts a Paperpile entry to a table row.
func paperpileEntryToRecord(row int, entry PaperpileEntry) reference.SourceRecord {
	var names []string
	for _, a := range entry.Author {
		if name := authorName(a.First, a.Last); name != "" {
			names = append(names, name)
		}
	}

	authors := reference.Missing()
	if len(names) > 0 {
		authors = reference.Value(strings.Join(names, "; "))
	}

	start, end := splitPages(string(entry.Pages))

	return reference.SourceRecord{
		Row:       row,
		Authors:   authors,
		Year:      entry.Published.Year.Field(),
		Title:     entry.Title.Field(),
		Venue:     entry.Journal.Field(),
		Volume:    entry.Volume.Field(),
		Issue:     entry.Issue.Field(),
		PageStart: start,
		PageEnd:   end,
		DOI:       entry.DOI.Field(),
	}
}

// authorName renders "Last, F. M." from given and family names.
func authorName(first, last string) string {
	last = strings.TrimSpace(last)
	var initials []string
	for _, part := range strings.FieldsFunc(first, func(r rune) bool {
		return unicode.IsSpace(r) || r == '.' || r == '-'
	}) {
		r, _ := utf8.DecodeRuneInString(part)
		initials = append(initials, string(unicode.ToUpper(r))+".")
	}

	switch {
	case last == "":
		return strings.TrimSpace(first)
	case len(initials) == 0:
		return last
	default:
		return last + ", " + strings.Join(initials, " ")
	}
}

// splitPages splits "45-52" or "45–52" into start and end. A single value
// such as an article number yields only a start page.
func splitPages(pages string) (reference.Field, reference.Field) {
	pages = strings.TrimSpace(pages)
	if pages == "" {
		return reference.Missing(), reference.Missing()
	}

	for _, sep := range []string{"–", "-"} {
		if start, end, ok := strings.Cut(pages, sep); ok {
			return FlexibleString(start).Field(), FlexibleString(end).Field()
		}
	}
	return reference.Value(pages), reference.Missing()
}
