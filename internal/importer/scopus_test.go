package importer

import (
	"errors"
	"strings"
	"testing"

	"github.com/matsen/pubsnippet/internal/reference"
)

const scopusHeader = "Authors,Author(s) ID,Title,Year,Source title,Volume,Issue,Art. No.,Page start,Page end,DOI,Link\n"

func TestParseScopusCSV(t *testing.T) {
	input := "\xef\xbb\xbf" + scopusHeader +
		`"Smith, J.; Doe, A.",1;2,"Fish, chips",2020,Journal of Things,12,3,,45,52,10.1000/xyz,http://x` + "\n" +
		`Nguyen T.,3,Short row,2021.0,Venue` + "\n" +
		`NA,4,No authors,2019,V,NaN,,,,,null,` + "\n"

	records, err := ParseScopusCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseScopusCSV() error = %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}

	first := records[0]
	want := reference.SourceRecord{
		Row:       1,
		Authors:   reference.Value("Smith, J.; Doe, A."),
		Year:      reference.Value("2020"),
		Title:     reference.Value("Fish, chips"),
		Venue:     reference.Value("Journal of Things"),
		Volume:    reference.Value("12"),
		Issue:     reference.Value("3"),
		PageStart: reference.Value("45"),
		PageEnd:   reference.Value("52"),
		DOI:       reference.Value("10.1000/xyz"),
	}
	if first != want {
		t.Errorf("first record = %+v\nwant %+v", first, want)
	}

	short := records[1]
	if short.Year.Value != "2021.0" || !short.Venue.Present {
		t.Errorf("short row = %+v", short)
	}
	if short.Volume.Present || short.DOI.Present {
		t.Errorf("cells beyond a short row should be missing, got %+v", short)
	}

	na := records[2]
	if na.Authors.Present {
		t.Error("NA author cell should be missing")
	}
	if na.Volume.Present || na.DOI.Present || na.Issue.Present {
		t.Errorf("NA markers should be missing, got %+v", na)
	}
	if na.Row != 3 {
		t.Errorf("Row = %d, want 3", na.Row)
	}
}

func TestParseScopusCSV_WhitespaceIsPresent(t *testing.T) {
	input := scopusHeader + `" ",1,T,2020,,,,,,,,` + "\n"
	records, err := ParseScopusCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseScopusCSV() error = %v", err)
	}
	if !records[0].Authors.Present {
		t.Error("a whitespace cell is a value, not a missing marker")
	}
}

func TestParseScopusCSV_MissingColumns(t *testing.T) {
	input := "Authors,Title,Year\nA,T,2020\n"
	_, err := ParseScopusCSV(strings.NewReader(input))
	if !errors.Is(err, ErrMissingColumns) {
		t.Fatalf("error = %v, want ErrMissingColumns", err)
	}
	for _, col := range []string{"Source title", "Volume", "DOI"} {
		if !strings.Contains(err.Error(), col) {
			t.Errorf("error %q should name column %q", err, col)
		}
	}
}

func TestParseScopusCSV_Empty(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"no bytes", ""},
		{"whitespace", "  \n"},
		{"header only", scopusHeader},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScopusCSV(strings.NewReader(tt.input))
			if !errors.Is(err, ErrEmptyTable) {
				t.Errorf("error = %v, want ErrEmptyTable", err)
			}
		})
	}
}

func TestParseScopusCSV_DuplicateHeader(t *testing.T) {
	input := "Authors,Year,Title,Source title,Volume,Issue,Page start,Page end,DOI,Title\n" +
		"A,2020,First,V,1,2,3,4,d,Second\n"
	records, err := ParseScopusCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseScopusCSV() error = %v", err)
	}
	if got := records[0].Title.Value; got != "First" {
		t.Errorf("Title = %q, want first occurrence", got)
	}
}

func TestIsNA(t *testing.T) {
	for _, v := range []string{"", "NA", "N/A", "NaN", "null", "None", "#N/A"} {
		if !IsNA(v) {
			t.Errorf("IsNA(%q) = false, want true", v)
		}
	}
	for _, v := range []string{"0", " ", "na ", "Nan", "Smith"} {
		if IsNA(v) {
			t.Errorf("IsNA(%q) = true, want false", v)
		}
	}
}
