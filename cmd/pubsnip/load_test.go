package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matsen/pubsnippet/internal/importer"
)

const testCSV = "Authors,Year,Title,Source title,Volume,Issue,Page start,Page end,DOI\n" +
	"\"Smith, J.\",2020,Paper,Journal,1,2,3,4,10.1/x\n"

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"scopus.csv", FormatCSV},
		{"export.CSV", FormatCSV},
		{"-", FormatCSV},
		{"noext", FormatCSV},
		{"library.json", FormatPaperpile},
		{"refs.bib", FormatBibTeX},
		{"pubs.db", FormatSQLite},
		{"pubs.sqlite3", FormatSQLite},
	}
	for _, tt := range tests {
		if got := detectFormat(tt.path); got != tt.want {
			t.Errorf("detectFormat(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestLoadRecords_CSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scopus.csv")
	if err := os.WriteFile(path, []byte(testCSV), 0644); err != nil {
		t.Fatal(err)
	}

	records, err := loadRecords(context.Background(), path, FormatAuto, "", nil)
	if err != nil {
		t.Fatalf("loadRecords() error = %v", err)
	}
	if len(records) != 1 || records[0].Authors.Value != "Smith, J." {
		t.Errorf("loadRecords() = %+v", records)
	}
}

func TestLoadRecords_Stdin(t *testing.T) {
	records, err := loadRecords(context.Background(), "-", "", "", strings.NewReader(testCSV))
	if err != nil {
		t.Fatalf("loadRecords() error = %v", err)
	}
	if len(records) != 1 {
		t.Errorf("got %d records, want 1", len(records))
	}

	bib := "@article{k, author = {Smith, J.}, title = {T}, year = 2020}"
	records, err = loadRecords(context.Background(), "-", FormatBibTeX, "", strings.NewReader(bib))
	if err != nil || len(records) != 1 {
		t.Errorf("loadRecords(bibtex stdin) = (%d records, %v)", len(records), err)
	}

	if _, err := loadRecords(context.Background(), "-", FormatPaperpile, "", strings.NewReader("[]")); err == nil {
		t.Error("expected error reading Paperpile from stdin")
	}
}

func TestLoadRecords_Paperpile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "library.json")
	data := `[{"title": "T", "published": {"year": 2020}, "author": [{"first": "Ann", "last": "Lee"}]}]`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	records, err := loadRecords(context.Background(), path, FormatAuto, "", nil)
	if err != nil {
		t.Fatalf("loadRecords() error = %v", err)
	}
	if got := records[0].Authors.Value; got != "Lee, A." {
		t.Errorf("Authors = %q, want %q", got, "Lee, A.")
	}
}

func TestLoadRecords_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := loadRecords(context.Background(), filepath.Join(dir, "missing.csv"), FormatAuto, "", nil); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := loadRecords(context.Background(), "x.csv", "xml", "", nil); err == nil {
		t.Error("expected error for unknown format")
	}

	empty := filepath.Join(dir, "empty.csv")
	os.WriteFile(empty, nil, 0644)
	if _, err := loadRecords(context.Background(), empty, FormatAuto, "", nil); !errors.Is(err, importer.ErrEmptyTable) {
		t.Errorf("error = %v, want ErrEmptyTable", err)
	}
}
