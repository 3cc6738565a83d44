package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matsen/pubsnippet/internal/importer"
	"github.com/matsen/pubsnippet/internal/reference"
	"github.com/matsen/pubsnippet/internal/storage"
	"go.uber.org/zap"
)

// Input formats accepted by --format.
const (
	FormatAuto      = "auto"
	FormatCSV       = "csv"
	FormatPaperpile = "paperpile"
	FormatBibTeX    = "bibtex"
	FormatSQLite    = "sqlite"
)

// ValidFormats lists the supported --format values.
var ValidFormats = []string{FormatAuto, FormatCSV, FormatPaperpile, FormatBibTeX, FormatSQLite}

// detectFormat picks an input format from the file extension.
// Anything unrecognized is read as CSV.
func detectFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatPaperpile
	case ".bib", ".bibtex":
		return FormatBibTeX
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite
	default:
		return FormatCSV
	}
}

// loadRecords reads a citation table. A path of "-" reads CSV or BibTeX
// from stdin.
func loadRecords(ctx context.Context, path, format, table string, stdin io.Reader) ([]reference.SourceRecord, error) {
	if format == "" || format == FormatAuto {
		format = detectFormat(path)
	}
	if path == "-" && format != FormatCSV && format != FormatBibTeX {
		return nil, fmt.Errorf("only CSV and BibTeX can be read from stdin")
	}
	logger.Debug("loading table", zap.String("path", path), zap.String("format", format))

	var (
		records []reference.SourceRecord
		err     error
	)
	switch format {
	case FormatCSV:
		if path == "-" {
			records, err = importer.ParseScopusCSV(stdin)
			break
		}
		f, openErr := os.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("opening %s: %w", path, openErr)
		}
		defer f.Close()
		records, err = importer.ParseScopusCSV(f)

	case FormatBibTeX:
		if path == "-" {
			records, err = importer.ParseBibTeX(stdin)
			break
		}
		f, openErr := os.Open(path)
		if openErr != nil {
			return nil, fmt.Errorf("opening %s: %w", path, openErr)
		}
		defer f.Close()
		records, err = importer.ParseBibTeX(f)

	case FormatPaperpile:
		data, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, fmt.Errorf("reading %s: %w", path, readErr)
		}
		records, err = importer.ParsePaperpile(data)

	case FormatSQLite:
		records, err = storage.LoadTable(ctx, path, table)

	default:
		return nil, fmt.Errorf("invalid format %q (valid: %s)", format, strings.Join(ValidFormats, ", "))
	}
	if err != nil {
		return nil, err
	}

	logger.Debug("loaded table", zap.Int("rows", len(records)))
	return records, nil
}
