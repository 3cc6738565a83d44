// Package storage reads citation tables from SQLite databases.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/matsen/pubsnippet/internal/importer"
	"github.com/matsen/pubsnippet/internal/reference"
	_ "modernc.org/sqlite"
)

// DefaultTable is the table read when none is given.
const DefaultTable = "publications"

// DB wraps a SQLite database connection.
type DB struct {
	db *sql.DB
}

// OpenDB opens an existing SQLite database read-only.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// quoteIdent quotes an SQL identifier, e.g. "Source title".
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Columns returns the column names of a table, or an error if it does not exist.
func (d *DB) Columns(ctx context.Context, table string) ([]string, error) {
	rows, err := d.db.QueryContext(ctx, "SELECT name FROM pragma_table_info(?)", table)
	if err != nil {
		return nil, fmt.Errorf("reading columns of %s: %w", table, err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning column name: %w", err)
		}
		cols = append(cols, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("table %q not found", table)
	}
	return cols, nil
}

// LoadTable reads every row of a table as citation records, in rowid order.
// SQL NULL becomes the missing sentinel; numbers are rendered as text.
func (d *DB) LoadTable(ctx context.Context, table string) ([]reference.SourceRecord, error) {
	cols, err := d.Columns(ctx, table)
	if err != nil {
		return nil, err
	}

	have := make(map[string]bool, len(cols))
	for _, c := range cols {
		have[c] = true
	}
	var missing []string
	for _, c := range reference.Columns {
		if !have[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", importer.ErrMissingColumns, strings.Join(missing, ", "))
	}

	quoted := make([]string, len(reference.Columns))
	for i, c := range reference.Columns {
		quoted[i] = quoteIdent(c)
	}
	query := "SELECT " + strings.Join(quoted, ", ") + " FROM " + quoteIdent(table) + " ORDER BY rowid"

	rows, err := d.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", table, err)
	}
	defer rows.Close()

	var records []reference.SourceRecord
	for row := 1; rows.Next(); row++ {
		values := make([]any, len(reference.Columns))
		ptrs := make([]any, len(values))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scanning row %d: %w", row, err)
		}

		rec := reference.SourceRecord{Row: row}
		for i, col := range reference.Columns {
			rec.Set(col, toField(values[i]))
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s: %w", table, err)
	}

	if len(records) == 0 {
		return nil, importer.ErrEmptyTable
	}
	return records, nil
}

// toField converts a scanned SQLite value to a table field.
func toField(v any) reference.Field {
	switch x := v.(type) {
	case nil:
		return reference.Missing()
	case int64:
		return reference.Value(strconv.FormatInt(x, 10))
	case float64:
		return reference.Value(strconv.FormatFloat(x, 'f', -1, 64))
	case []byte:
		return reference.Value(string(x))
	case string:
		return reference.Value(x)
	case bool:
		return reference.Value(strconv.FormatBool(x))
	default:
		return reference.Value(fmt.Sprint(x))
	}
}

// LoadTable opens the database at path and reads one table from it.
func LoadTable(ctx context.Context, path, table string) ([]reference.SourceRecord, error) {
	if table == "" {
		table = DefaultTable
	}
	db, err := OpenDB(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	records, err := db.LoadTable(ctx, table)
	if err != nil && !errors.Is(err, importer.ErrEmptyTable) {
		return nil, fmt.Errorf("loading %s from %s: %w", table, path, err)
	}
	return records, err
}
