package citation

import (
	"html"

	"github.com/matsen/pubsnippet/internal/reference"
)

// DOIBaseURL is prefixed to every DOI when building links.
const DOIBaseURL = "https://doi.org/"

// Options configures field formatting.
type Options struct {
	// MaxAuthors is the longest author list rendered before "et al.";
	// zero or negative disables truncation.
	MaxAuthors int

	// EscapeHTML escapes author names, title, venue and DOI. Off by default,
	// so markup in the source passes through unchanged.
	EscapeHTML bool
}

// DefaultOptions returns the default formatting options.
func DefaultOptions() Options {
	return Options{
		MaxAuthors: DefaultMaxAuthors,
	}
}

// Format converts a record into display fragments. The sequence number is
// left at zero; it is assigned by Prepare after sorting.
func Format(rec reference.SourceRecord, opts Options) reference.FormattedCitation {
	text := func(f reference.Field) string {
		if opts.EscapeHTML {
			return html.EscapeString(f.String())
		}
		return f.String()
	}

	return reference.FormattedCitation{
		Authors: formatAuthors(rec.Authors, opts.MaxAuthors, opts.EscapeHTML),
		Year:    cleanNumber(rec.Year),
		Title:   text(rec.Title),
		Venue:   text(rec.Venue),
		Volume:  VolumeFragment(cleanNumber(rec.Volume)),
		Issue:   IssueFragment(cleanNumber(rec.Issue)),
		Pages:   PageRange(cleanNumber(rec.PageStart), cleanNumber(rec.PageEnd)),
		DOILink: DOILink(rec.DOI, opts.EscapeHTML),
		SortKey: SortKey(rec.Authors),
		Row:     rec.Row,
	}
}

// VolumeFragment wraps a non-empty volume in emphasis markup.
func VolumeFragment(volume string) string {
	if volume == "" {
		return ""
	}
	return "<em>" + volume + "</em>"
}

// IssueFragment parenthesizes a non-empty issue.
func IssueFragment(issue string) string {
	if issue == "" {
		return ""
	}
	return "(" + issue + ")"
}

// PageRange renders ", start–end" only when both ends are known.
func PageRange(start, end string) string {
	if start == "" || end == "" {
		return ""
	}
	return ", " + start + "–" + end
}

// DOILink renders an anchor to the DOI resolver, or "" when the DOI is missing.
// The DOI is not validated.
func DOILink(doi reference.Field, escape bool) string {
	if !doi.Present {
		return ""
	}
	v := doi.Value
	if escape {
		v = html.EscapeString(v)
	}
	url := DOIBaseURL + v
	return `<a href="` + url + `" target="_blank">` + url + `</a>`
}
