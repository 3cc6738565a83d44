package render

import (
	"fmt"
	"strings"
	"text/template"
)

// PageData is the caller-supplied context for header and footer templates,
// e.g. "Publications – {{.Month}} {{.Year}}".
type PageData struct {
	Month string
	Year  string
	Count int
	Title string
}

// ExpandWrapper executes a header or footer template against data.
// Text without template actions is returned unchanged.
func ExpandWrapper(tmpl string, data PageData) (string, error) {
	if !strings.Contains(tmpl, "{{") {
		return tmpl, nil
	}

	t, err := template.New("wrapper").Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("parsing wrapper template: %w", err)
	}

	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", fmt.Errorf("executing wrapper template: %w", err)
	}
	return b.String(), nil
}
