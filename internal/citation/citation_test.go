package citation

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/matsen/pubsnippet/internal/reference"
)

func rec(row int, authors, year, title string) reference.SourceRecord {
	return reference.SourceRecord{
		Row:     row,
		Authors: reference.Value(authors),
		Year:    reference.Value(year),
		Title:   reference.Value(title),
	}
}

func TestCleanNumber(t *testing.T) {
	tests := []struct {
		name   string
		field  reference.Field
		want   string
		wantOK bool
	}{
		{"missing", reference.Missing(), "", true},
		{"integer", reference.Value("2021"), "2021", true},
		{"float form", reference.Value("2021.0"), "2021", true},
		{"fraction truncated", reference.Value("12.9"), "12", true},
		{"negative fraction", reference.Value("-3.7"), "-3", true},
		{"leading zeros", reference.Value("007"), "7", true},
		{"surrounding space", reference.Value(" 45 "), "45", true},
		{"exponent", reference.Value("1e3"), "1000", true},
		{"large integer stays exact", reference.Value("9007199254740993"), "9007199254740993", true},
		{"article number", reference.Value("e1004"), "", false},
		{"thousands separator", reference.Value("1,234"), "", false},
		{"range text", reference.Value("45-52"), "", false},
		{"present but empty", reference.Value(""), "", false},
		{"infinity", reference.Value("Inf"), "", false},
		{"overflow", reference.Value("1e30"), "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CleanNumber(tt.field)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("CleanNumber(%+v) = (%q, %v), want (%q, %v)", tt.field, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestFormatAuthors(t *testing.T) {
	twelve := make([]string, 12)
	for i := range twelve {
		twelve[i] = fmt.Sprintf("A%d", i+1)
	}

	tests := []struct {
		name string
		raw  reference.Field
		max  int
		want string
	}{
		{"missing", reference.Missing(), 10, ""},
		{"only separators", reference.Value(" ; ;"), 10, ""},
		{"single", reference.Value("Smith, J."), 10, "Smith, J."},
		{"two", reference.Value("Smith, J.; Doe, A."), 10, "Smith, J. &amp; Doe, A."},
		{"three", reference.Value("A; B; C"), 10, "A, B, &amp; C"},
		{"empty pieces dropped", reference.Value("A;; B ;"), 10, "A &amp; B"},
		{
			"twelve truncated to ten",
			reference.Value(strings.Join(twelve, "; ")),
			10,
			"A1, A2, A3, A4, A5, A6, A7, A8, A9, A10, &amp; et al.",
		},
		{"exactly max", reference.Value("A; B"), 2, "A &amp; B"},
		{"one over max", reference.Value("A; B"), 1, "A &amp; et al."},
		{"no limit", reference.Value(strings.Join(twelve, ";")), 0, strings.Join(twelve[:11], ", ") + ", &amp; A12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatAuthors(tt.raw, tt.max); got != tt.want {
				t.Errorf("FormatAuthors() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFragments(t *testing.T) {
	if got := VolumeFragment(""); got != "" {
		t.Errorf("VolumeFragment(\"\") = %q, want empty", got)
	}
	if got := VolumeFragment("12"); got != "<em>12</em>" {
		t.Errorf("VolumeFragment(12) = %q", got)
	}
	if got := IssueFragment("3"); got != "(3)" {
		t.Errorf("IssueFragment(3) = %q", got)
	}
	if got := PageRange("45", "52"); got != ", 45–52" {
		t.Errorf("PageRange(45, 52) = %q", got)
	}
	if got := PageRange("45", ""); got != "" {
		t.Errorf("PageRange with missing end = %q, want empty", got)
	}
	if got := PageRange("", "52"); got != "" {
		t.Errorf("PageRange with missing start = %q, want empty", got)
	}
}

func TestDOILink(t *testing.T) {
	want := `<a href="https://doi.org/10.1000/xyz" target="_blank">https://doi.org/10.1000/xyz</a>`
	if got := DOILink(reference.Value("10.1000/xyz"), false); got != want {
		t.Errorf("DOILink() = %q, want %q", got, want)
	}
	if got := DOILink(reference.Missing(), false); got != "" {
		t.Errorf("DOILink(missing) = %q, want empty", got)
	}
	if got := DOILink(reference.Value("10.1/a<b>"), true); !strings.Contains(got, "10.1/a&lt;b&gt;") {
		t.Errorf("DOILink(escaped) = %q, want escaped DOI", got)
	}
}

func TestFormat(t *testing.T) {
	r := reference.SourceRecord{
		Row:       4,
		Authors:   reference.Value("Smith, J.; Doe, A."),
		Year:      reference.Value("2020.0"),
		Title:     reference.Value("Fish & <b>Chips</b>"),
		Venue:     reference.Value("Journal of Things"),
		Volume:    reference.Missing(),
		Issue:     reference.Value("2"),
		PageStart: reference.Value("45"),
		PageEnd:   reference.Missing(),
		DOI:       reference.Missing(),
	}

	got := Format(r, DefaultOptions())
	want := reference.FormattedCitation{
		Authors: "Smith, J. &amp; Doe, A.",
		Year:    "2020",
		Title:   "Fish & <b>Chips</b>",
		Venue:   "Journal of Things",
		Issue:   "(2)",
		SortKey: "smith, j.",
		Row:     4,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Format() mismatch (-want +got):\n%s", diff)
	}

	escaped := Format(r, Options{MaxAuthors: 10, EscapeHTML: true})
	if escaped.Title != "Fish &amp; &lt;b&gt;Chips&lt;/b&gt;" {
		t.Errorf("escaped Title = %q", escaped.Title)
	}
}

func TestSortKey(t *testing.T) {
	tests := []struct {
		raw  reference.Field
		want string
	}{
		{reference.Value("  Smith, J.; Doe, A."), "smith, j."},
		{reference.Value("ÁLVAREZ, B."), "álvarez, b."},
		{reference.Value("; Late"), ""},
		{reference.Missing(), ""},
	}
	for _, tt := range tests {
		if got := SortKey(tt.raw); got != tt.want {
			t.Errorf("SortKey(%q) = %q, want %q", tt.raw.Value, got, tt.want)
		}
	}
}

func TestPrepare_FilterSortNumber(t *testing.T) {
	records := []reference.SourceRecord{
		rec(1, "zeta, Z.", "2020", "Last"),
		{Row: 2, Authors: reference.Value("Alpha, A."), Title: reference.Value("No year")},
		rec(3, "beta, B.; Alpha, A.", "2019", "Second"),
		{Row: 4, Year: reference.Value("2018"), Title: reference.Value("No authors")},
		rec(5, "Alpha, A.", "2021", "First"),
		{Row: 6, Authors: reference.Value("Aaron"), Year: reference.Value("2000")},
	}

	cites, err := Prepare(records, DefaultOptions())
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	var got []string
	for i, c := range cites {
		if c.Number != i+1 {
			t.Errorf("cites[%d].Number = %d, want %d", i, c.Number, i+1)
		}
		got = append(got, c.Title)
	}
	want := []string{"First", "Second", "Last"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestPrepare_StableForEqualKeys(t *testing.T) {
	records := []reference.SourceRecord{
		rec(1, "Smith, J.; X", "2020", "one"),
		rec(2, "Brown, B.", "2020", "two"),
		rec(3, "SMITH, J.", "2020", "three"),
		rec(4, "smith, j.; Y", "2020", "four"),
	}

	cites, err := Prepare(records, DefaultOptions())
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	var got []int
	for _, c := range cites {
		got = append(got, c.Row)
	}
	if diff := cmp.Diff([]int{2, 1, 3, 4}, got); diff != "" {
		t.Errorf("row order mismatch (-want +got):\n%s", diff)
	}
	for i := 1; i < len(cites); i++ {
		if cites[i-1].SortKey > cites[i].SortKey {
			t.Errorf("sort keys out of order at %d: %q > %q", i, cites[i-1].SortKey, cites[i].SortKey)
		}
	}
}

func TestPrepare_NoAdmissibleRecords(t *testing.T) {
	records := []reference.SourceRecord{
		{Row: 1, Authors: reference.Value("A")},
	}
	if _, err := Prepare(records, DefaultOptions()); !errors.Is(err, ErrNoRecords) {
		t.Errorf("Prepare() error = %v, want ErrNoRecords", err)
	}
	if _, err := Prepare(nil, DefaultOptions()); !errors.Is(err, ErrNoRecords) {
		t.Errorf("Prepare(nil) error = %v, want ErrNoRecords", err)
	}
}

func TestInspect(t *testing.T) {
	good := rec(1, "A", "2020", "T")
	good.Volume = reference.Value("12A")
	good.PageStart = reference.Value("e12")
	records := []reference.SourceRecord{
		good,
		{Row: 2, Authors: reference.Value("B")},
	}

	got := Inspect(records)
	want := Report{
		Rows:     2,
		Admitted: 1,
		Dropped:  []DroppedRow{{Row: 2, Missing: []string{"Year", "Title"}}},
		Unparsable: []NumericIssue{
			{Row: 1, Column: "Volume", Value: "12A"},
			{Row: 1, Column: "Page start", Value: "e12"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Inspect() mismatch (-want +got):\n%s", diff)
	}
}
