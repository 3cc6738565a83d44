package citation

import (
	"html"
	"strings"

	"github.com/matsen/pubsnippet/internal/reference"
)

// DefaultMaxAuthors is the author count beyond which lists are truncated.
const DefaultMaxAuthors = 10

// EtAl is appended as a final list element when an author list is truncated.
const EtAl = "et al."

// SplitAuthors splits a ';'-separated author string into trimmed, non-empty names.
func SplitAuthors(raw string) []string {
	var authors []string
	for _, a := range strings.Split(raw, ";") {
		if a = strings.TrimSpace(a); a != "" {
			authors = append(authors, a)
		}
	}
	return authors
}

// FormatAuthors renders an author field as an APA-style list:
// "A", "A &amp; B" or "A, B, &amp; C". Lists longer than max are cut to max
// names followed by "et al."; max <= 0 disables truncation.
func FormatAuthors(raw reference.Field, max int) string {
	return formatAuthors(raw, max, false)
}

func formatAuthors(raw reference.Field, max int, escape bool) string {
	if !raw.Present {
		return ""
	}

	authors := SplitAuthors(raw.Value)
	if max > 0 && len(authors) > max {
		authors = append(authors[:max:max], EtAl)
	}
	if escape {
		for i, a := range authors {
			authors[i] = html.EscapeString(a)
		}
	}

	switch len(authors) {
	case 0:
		return ""
	case 1:
		return authors[0]
	case 2:
		return authors[0] + " &amp; " + authors[1]
	default:
		return strings.Join(authors[:len(authors)-1], ", ") + ", &amp; " + authors[len(authors)-1]
	}
}
