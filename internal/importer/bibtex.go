package importer

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/matsen/pubsnippet/internal/reference"
)

// entryStartRegex matches an entry start: @type{ or @type(
var entryStartRegex = regexp.MustCompile(`@\s*(\w+)\s*[\{(]`)

// ParseBibTeX reads a .bib file. Each @article, @inproceedings, ... entry
// becomes one record in file order; @string, @preamble and @comment blocks
// are skipped. Macros defined with @string are not expanded.
func ParseBibTeX(r io.Reader) ([]reference.SourceRecord, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading BibTeX: %w", err)
	}
	src := string(data)

	var records []reference.SourceRecord
	pos := 0
	for {
		loc := entryStartRegex.FindStringSubmatchIndex(src[pos:])
		if loc == nil {
			break
		}
		kind := strings.ToLower(src[pos+loc[2] : pos+loc[3]])
		bodyStart := pos + loc[1]
		bodyEnd, ok := matchClose(src, bodyStart, src[pos+loc[1]-1])
		if !ok {
			return nil, fmt.Errorf("unterminated @%s entry", kind)
		}
		pos = bodyEnd + 1

		switch kind {
		case "string", "preamble", "comment":
			continue
		}

		fields, err := parseFields(src[bodyStart:bodyEnd])
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", len(records)+1, err)
		}
		records = append(records, bibRecord(len(records)+1, fields))
	}

	if len(records) == 0 {
		return nil, ErrEmptyTable
	}
	return records, nil
}

// matchClose returns the index of the delimiter closing the one just before
// start, skipping nested braces.
func matchClose(s string, start int, open byte) (int, bool) {
	closer := byte('}')
	if open == '(' {
		closer = ')'
	}
	depth := 0
	for i := start; i < len(s); i++ {
		switch c := s[i]; {
		case c == '{':
			depth++
		case c == '}' && depth > 0:
			depth--
		case c == closer && depth == 0:
			return i, true
		}
	}
	return 0, false
}

// parseFields splits an entry body "key, name = value, ..." into lower-cased
// field names and their raw values. The citation key is discarded.
func parseFields(body string) (map[string]string, error) {
	fields := make(map[string]string)

	// Skip the citation key
	if i := strings.IndexByte(body, ','); i >= 0 {
		body = body[i+1:]
	} else {
		return fields, nil
	}

	for {
		body = strings.TrimLeft(body, " \t\r\n,")
		if body == "" {
			return fields, nil
		}
		eq := strings.IndexByte(body, '=')
		if eq < 0 {
			return nil, fmt.Errorf("expected '=' near %q", truncate(body, 20))
		}
		name := strings.ToLower(strings.TrimSpace(body[:eq]))
		body = strings.TrimLeft(body[eq+1:], " \t\r\n")

		value, rest, err := readValue(body)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", name, err)
		}
		if _, seen := fields[name]; !seen {
			fields[name] = value
		}
		body = rest
	}
}

// readValue reads one value, including "#"-concatenated parts, and returns
// it without its outer delimiters along with the remaining input.
func readValue(s string) (string, string, error) {
	var parts []string
	for {
		s = strings.TrimLeft(s, " \t\r\n")
		if s == "" {
			return "", "", fmt.Errorf("missing value")
		}

		switch s[0] {
		case '{':
			end, ok := matchClose(s, 1, '{')
			if !ok {
				return "", "", fmt.Errorf("unbalanced braces")
			}
			parts = append(parts, s[1:end])
			s = s[end+1:]
		case '"':
			end := closingQuote(s)
			if end < 0 {
				return "", "", fmt.Errorf("unterminated quote")
			}
			parts = append(parts, s[1:end])
			s = s[end+1:]
		default:
			end := strings.IndexAny(s, ",#")
			if end < 0 {
				end = len(s)
			}
			parts = append(parts, strings.TrimSpace(s[:end]))
			s = s[end:]
		}

		s = strings.TrimLeft(s, " \t\r\n")
		if !strings.HasPrefix(s, "#") {
			return strings.Join(parts, ""), s, nil
		}
		s = s[1:]
	}
}

// closingQuote finds the quote ending a "..." value; quotes inside braces
// do not count.
func closingQuote(s string) int {
	depth := 0
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
		case '"':
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// cleanValue drops protective braces and collapses whitespace.
func cleanValue(s string) string {
	s = strings.NewReplacer("{", "", "}", "").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// bibRecord maps BibTeX fields onto a citation record.
func bibRecord(row int, f map[string]string) reference.SourceRecord {
	rec := reference.SourceRecord{
		Row:     row,
		Authors: bibField(bibAuthors(f["author"])),
		Year:    bibField(cleanValue(f["year"])),
		Title:   bibField(cleanValue(f["title"])),
		Volume:  bibField(cleanValue(f["volume"])),
		Issue:   bibField(cleanValue(f["number"])),
		DOI:     bibField(normalizeDOI(cleanValue(f["doi"]))),
	}

	venue := f["journal"]
	if strings.TrimSpace(venue) == "" {
		venue = f["booktitle"]
	}
	rec.Venue = bibField(cleanValue(venue))

	rec.PageStart, rec.PageEnd = splitPages(strings.ReplaceAll(cleanValue(f["pages"]), "--", "-"))
	return rec
}

// bibField treats an absent or blank value as missing.
func bibField(s string) reference.Field {
	if strings.TrimSpace(s) == "" {
		return reference.Missing()
	}
	return reference.Value(s)
}

// bibAuthors converts "Last, First and First Last" to "Last, F.; Last, F.".
func bibAuthors(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	var names []string
	for _, a := range splitAnd(raw) {
		var first, last string
		if strings.HasPrefix(a, "{") && strings.HasSuffix(a, "}") {
			// {Corporate Name}
			names = append(names, cleanValue(a))
			continue
		}
		a = cleanValue(a)
		if i := strings.IndexByte(a, ','); i >= 0 {
			last, first = a[:i], a[i+1:]
		} else if i := strings.LastIndexByte(a, ' '); i >= 0 {
			first, last = a[:i], a[i+1:]
		} else {
			last = a
		}
		if name := authorName(first, last); name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, "; ")
}

// splitAnd splits an author list on the word "and" outside braces.
func splitAnd(s string) []string {
	var out []string
	words := strings.Fields(s)
	start, depth := 0, 0
	for i, w := range words {
		if w == "and" && depth == 0 {
			out = append(out, strings.Join(words[start:i], " "))
			start = i + 1
			continue
		}
		depth += strings.Count(w, "{") - strings.Count(w, "}")
	}
	return append(out, strings.Join(words[start:], " "))
}

// normalizeDOI strips resolver prefixes so the link is not doubled.
func normalizeDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	for _, prefix := range []string{"https://doi.org/", "http://doi.org/", "https://dx.doi.org/", "doi.org/", "DOI:", "doi:"} {
		doi = strings.TrimPrefix(doi, prefix)
	}
	return strings.TrimSpace(doi)
}
