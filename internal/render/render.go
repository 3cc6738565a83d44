// Package render turns formatted citations into an HTML bibliography snippet.
package render

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/matsen/pubsnippet/internal/citation"
	"github.com/matsen/pubsnippet/internal/reference"
)

// DefaultFontFamily is the font stack applied to every entry paragraph.
const DefaultFontFamily = "Lucida Sans Unicode,Lucida Grande,sans-serif"

// entryTemplate renders one citation block followed by a spacer paragraph.
// Fragments are pre-rendered markup and are inserted unescaped.
const entryTemplate = `
<p style="font-family:{{.FontFamily}};">
<strong>{{.Number}}.</strong>
{{.Authors}} ({{.Year}}). {{.Title}}.
<em>{{.Venue}}</em>{{with .Volume}}, {{.}}{{end}}{{.Issue}}{{.Pages}}.
{{.DOILink}}
</p>
<p style="font-family:{{.FontFamily}};">&nbsp;</p>
`

// compiledEntry is parsed at init time to fail fast on template errors.
var compiledEntry = template.Must(template.New("entry").Parse(entryTemplate))

// Layout holds the opaque markup wrapped around the entries.
type Layout struct {
	Header     string
	Footer     string
	FontFamily string
}

// Options configures a full render.
type Options struct {
	Citation citation.Options
	Layout   Layout
}

// DefaultOptions returns the default render options: bare entries, no wrapper.
func DefaultOptions() Options {
	return Options{
		Citation: citation.DefaultOptions(),
		Layout:   Layout{FontFamily: DefaultFontFamily},
	}
}

// Result is the output of Generate.
type Result struct {
	HTML      string
	Citations []reference.FormattedCitation
}

type entryData struct {
	reference.FormattedCitation
	FontFamily string
}

// Entry renders a single citation block.
func Entry(c reference.FormattedCitation, fontFamily string) (string, error) {
	if fontFamily == "" {
		fontFamily = DefaultFontFamily
	}
	var b strings.Builder
	if err := compiledEntry.Execute(&b, entryData{FormattedCitation: c, FontFamily: fontFamily}); err != nil {
		return "", fmt.Errorf("rendering entry %d: %w", c.Number, err)
	}
	return b.String(), nil
}

// Entries renders every citation in order.
func Entries(cites []reference.FormattedCitation, fontFamily string) ([]string, error) {
	entries := make([]string, 0, len(cites))
	for _, c := range cites {
		e, err := Entry(c, fontFamily)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Assemble concatenates the header, the entries and the footer unchanged.
func Assemble(layout Layout, entries []string) string {
	var b strings.Builder
	b.WriteString(layout.Header)
	for _, e := range entries {
		b.WriteString(e)
	}
	b.WriteString(layout.Footer)
	return b.String()
}

// Generate runs the whole pipeline over one table: filter, format, sort,
// number, render and assemble. It returns citation.ErrNoRecords when no row
// is admissible. The same records and options always yield the same output.
func Generate(records []reference.SourceRecord, opts Options) (*Result, error) {
	cites, err := citation.Prepare(records, opts.Citation)
	if err != nil {
		return nil, err
	}

	entries, err := Entries(cites, opts.Layout.FontFamily)
	if err != nil {
		return nil, err
	}

	return &Result{
		HTML:      Assemble(opts.Layout, entries),
		Citations: cites,
	}, nil
}
