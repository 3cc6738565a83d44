package citation

import "github.com/matsen/pubsnippet/internal/reference"

// Report summarizes what a render would keep, drop and blank out.
type Report struct {
	Rows       int            `json:"rows"`
	Admitted   int            `json:"admitted"`
	Dropped    []DroppedRow   `json:"dropped"`
	Unparsable []NumericIssue `json:"unparsable"`
}

// DroppedRow is a record excluded for lacking mandatory fields.
type DroppedRow struct {
	Row     int      `json:"row"`
	Missing []string `json:"missing"`
}

// NumericIssue is a numeric field that will render as empty.
type NumericIssue struct {
	Row    int    `json:"row"`
	Column string `json:"column"`
	Value  string `json:"value"`
}

// Inspect reports admissibility and numeric-cleaning problems without
// rendering anything. Only admitted records are checked for numeric issues.
func Inspect(records []reference.SourceRecord) Report {
	report := Report{
		Rows:       len(records),
		Dropped:    []DroppedRow{},
		Unparsable: []NumericIssue{},
	}

	for _, rec := range records {
		if !rec.Admissible() {
			report.Dropped = append(report.Dropped, DroppedRow{
				Row:     rec.Row,
				Missing: rec.MissingRequired(),
			})
			continue
		}
		report.Admitted++

		numeric := []struct {
			column string
			field  reference.Field
		}{
			{reference.ColYear, rec.Year},
			{reference.ColVolume, rec.Volume},
			{reference.ColIssue, rec.Issue},
			{reference.ColPageStart, rec.PageStart},
			{reference.ColPageEnd, rec.PageEnd},
		}
		for _, n := range numeric {
			if _, ok := CleanNumber(n.field); !ok {
				report.Unparsable = append(report.Unparsable, NumericIssue{
					Row:    rec.Row,
					Column: n.column,
					Value:  n.field.Value,
				})
			}
		}
	}

	return report
}
