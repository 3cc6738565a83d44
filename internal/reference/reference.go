// Package reference defines the core domain types for citation records.
package reference

// Column names of the citation export table.
const (
	ColAuthors     = "Authors"
	ColYear        = "Year"
	ColTitle       = "Title"
	ColSourceTitle = "Source title"
	ColVolume      = "Volume"
	ColIssue       = "Issue"
	ColPageStart   = "Page start"
	ColPageEnd     = "Page end"
	ColDOI         = "DOI"
)

// Columns lists every column a table loader must provide, in export order.
var Columns = []string{
	ColAuthors, ColYear, ColTitle,
	ColSourceTitle, ColVolume,
	ColIssue, ColPageStart, ColPageEnd, ColDOI,
}

// Field is a single cell value. A field that was never supplied (an empty
// cell, SQL NULL, a JSON null) has Present set to false; an explicitly
// supplied empty value is still present.
type Field struct {
	Value   string
	Present bool
}

// Value returns a present field holding s.
func Value(s string) Field {
	return Field{Value: s, Present: true}
}

// Missing returns the missing-value sentinel.
func Missing() Field {
	return Field{}
}

// String returns the raw value, or "" when the field is missing.
func (f Field) String() string {
	if !f.Present {
		return ""
	}
	return f.Value
}

// SourceRecord represents one row of a citation export.
type SourceRecord struct {
	Row int `json:"row"` // 1-based data row in the source table

	Authors   Field // ';'-separated author names
	Year      Field
	Title     Field
	Venue     Field // "Source title"
	Volume    Field
	Issue     Field
	PageStart Field
	PageEnd   Field
	DOI       Field
}

// Admissible reports whether the record carries every mandatory field.
func (r SourceRecord) Admissible() bool {
	return r.Authors.Present && r.Title.Present && r.Year.Present
}

// MissingRequired returns the names of the mandatory columns that are missing.
func (r SourceRecord) MissingRequired() []string {
	var missing []string
	if !r.Authors.Present {
		missing = append(missing, ColAuthors)
	}
	if !r.Year.Present {
		missing = append(missing, ColYear)
	}
	if !r.Title.Present {
		missing = append(missing, ColTitle)
	}
	return missing
}

// Set assigns a field by its column name. Unknown columns are ignored.
func (r *SourceRecord) Set(column string, f Field) {
	switch column {
	case ColAuthors:
		r.Authors = f
	case ColYear:
		r.Year = f
	case ColTitle:
		r.Title = f
	case ColSourceTitle:
		r.Venue = f
	case ColVolume:
		r.Volume = f
	case ColIssue:
		r.Issue = f
	case ColPageStart:
		r.PageStart = f
	case ColPageEnd:
		r.PageEnd = f
	case ColDOI:
		r.DOI = f
	}
}
