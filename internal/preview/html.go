// Package preview builds a standalone page for reviewing and copying a snippet.
package preview

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/matsen/pubsnippet/internal/clipboard"
)

// compiledTemplate is parsed at init time to fail fast on template errors.
var compiledTemplate *template.Template

func init() {
	compiledTemplate = template.Must(template.New("preview").Parse(htmlTemplate))
}

// Options configures preview generation.
type Options struct {
	Title string // Page heading
	Rows  int    // Height of the source text area
}

// DefaultOptions returns default preview options.
func DefaultOptions() Options {
	return Options{
		Title: "Generated HTML (Copy & Paste)",
		Rows:  30,
	}
}

// templateData holds data for the HTML template.
type templateData struct {
	Title   string
	Rows    int
	Count   int
	Snippet template.HTML
	Source  string
	Payload template.JS
}

// GenerateHTML generates a self-contained page showing the rendered snippet,
// its source in a text area and a button that copies the source.
// The snippet is trusted markup and is embedded unescaped.
func GenerateHTML(snippet string, count int, opts Options) (string, error) {
	if snippet == "" {
		return "", fmt.Errorf("snippet cannot be empty")
	}
	if opts.Title == "" {
		opts.Title = DefaultOptions().Title
	}
	if opts.Rows <= 0 {
		opts.Rows = DefaultOptions().Rows
	}

	data := templateData{
		Title:   opts.Title,
		Rows:    opts.Rows,
		Count:   count,
		Snippet: template.HTML(snippet),
		Source:  snippet,
		Payload: template.JS(clipboard.ScriptLiteral(snippet)),
	}

	var buf bytes.Buffer
	if err := compiledTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      margin: 0;
      padding: 2em;
      background: #f5f5f5;
      color: #333;
    }
    .columns {
      display: flex;
      gap: 2em;
    }
    .column {
      flex: 1;
      min-width: 0;
    }
    .rendered {
      background: white;
      border: 1px solid #ddd;
      border-radius: 4px;
      padding: 1em;
    }
    textarea {
      width: 100%;
      font-family: Menlo, Consolas, monospace;
      font-size: 12px;
    }
    button {
      margin: 0.5em 0;
      padding: 6px 14px;
    }
    #copy-status {
      color: #27AE60;
      margin-left: 0.5em;
    }
  </style>
</head>
<body>
  <h2>{{.Title}}</h2>
  <p>{{.Count}} entries, sorted A–Z by first author.</p>
  <div class="columns">
    <div class="column">
      <div class="rendered" id="rendered">{{.Snippet}}</div>
    </div>
    <div class="column">
      <button id="copy" type="button">Copy HTML</button><span id="copy-status"></span>
      <textarea id="source" rows="{{.Rows}}" readonly>{{.Source}}</textarea>
    </div>
  </div>
  <script>
    (function() {
      const payload = {{.Payload}};
      const status = document.getElementById('copy-status');
      document.getElementById('copy').addEventListener('click', function() {
        navigator.clipboard.writeText(payload).then(function() {
          status.textContent = 'Copied';
        }, function() {
          const source = document.getElementById('source');
          source.select();
          document.execCommand('copy');
          status.textContent = 'Copied';
        });
      });
    })();
  </script>
</body>
</html>`
