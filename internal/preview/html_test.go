package preview

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

const snippet = "\n<p style=\"font-family:Lucida Sans Unicode,Lucida Grande,sans-serif;\">\n<strong>1.</strong>\nSmith, J. &amp; Doe, A. (2020). Costs in $ and `ticks`.\n</p>\n"

func TestGenerateHTML(t *testing.T) {
	page, err := GenerateHTML(snippet, 1, DefaultOptions())
	if err != nil {
		t.Fatalf("GenerateHTML() error = %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		t.Fatalf("parsing page: %v", err)
	}

	if got := doc.Find("#rendered strong").Text(); got != "1." {
		t.Errorf("rendered marker = %q, want %q", got, "1.")
	}

	// The text area shows the source, which the parser decodes back to the snippet.
	if got := doc.Find("#source").Text(); got != strings.TrimPrefix(snippet, "\n") && got != snippet {
		t.Errorf("textarea text = %q, want the snippet source", got)
	}

	script := doc.Find("script").Text()
	if !strings.Contains(script, "const payload = `") {
		t.Errorf("script should embed a template literal, got:\n%s", script)
	}
	if !strings.Contains(script, "Costs in \\$ and \\`ticks\\`") {
		t.Errorf("payload should escape dollar and backticks, got:\n%s", script)
	}
	if strings.Contains(script, "</p>") {
		t.Error("payload should not contain a raw closing tag")
	}

	if got := doc.Find("title").Text(); got != DefaultOptions().Title {
		t.Errorf("title = %q", got)
	}
}

func TestGenerateHTML_Options(t *testing.T) {
	page, err := GenerateHTML(snippet, 3, Options{Title: "March <2026>"})
	if err != nil {
		t.Fatalf("GenerateHTML() error = %v", err)
	}
	if !strings.Contains(page, "<title>March &lt;2026&gt;</title>") {
		t.Error("title should be escaped")
	}
	if !strings.Contains(page, `rows="30"`) {
		t.Error("rows should fall back to the default")
	}
	if !strings.Contains(page, "3 entries") {
		t.Error("entry count should be shown")
	}
}

func TestGenerateHTML_Empty(t *testing.T) {
	if _, err := GenerateHTML("", 0, DefaultOptions()); err == nil {
		t.Error("GenerateHTML() expected error for empty snippet")
	}
}
