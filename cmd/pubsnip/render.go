package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/matsen/pubsnippet/internal/citation"
	"github.com/matsen/pubsnippet/internal/clipboard"
	"github.com/matsen/pubsnippet/internal/config"
	"github.com/matsen/pubsnippet/internal/importer"
	"github.com/matsen/pubsnippet/internal/preview"
	"github.com/matsen/pubsnippet/internal/reference"
	"github.com/matsen/pubsnippet/internal/render"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	renderOut        string
	renderFormat     string
	renderTable      string
	renderMaxAuthors int
	renderEscape     bool
	renderFont       string
	renderHeader     string
	renderFooter     string
	renderMonth      string
	renderYear       string
	renderTitle      string
	renderCopy       bool
	renderPreview    string
)

func init() {
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", `Output file (default from config, "-" for stdout)`)
	renderCmd.Flags().StringVar(&renderFormat, "format", FormatAuto, "Input format: auto, csv, paperpile, bibtex, sqlite")
	renderCmd.Flags().StringVar(&renderTable, "table", "", "SQLite table to read (default publications)")
	renderCmd.Flags().IntVar(&renderMaxAuthors, "max-authors", citation.DefaultMaxAuthors, `Authors shown before "et al." (0 for no limit)`)
	renderCmd.Flags().BoolVar(&renderEscape, "escape-html", false, "HTML-escape author names, title, venue and DOI")
	renderCmd.Flags().StringVar(&renderFont, "font-family", "", "CSS font-family for entry paragraphs")
	renderCmd.Flags().StringVar(&renderHeader, "header", "", "Header template file")
	renderCmd.Flags().StringVar(&renderFooter, "footer", "", "Footer template file")
	renderCmd.Flags().StringVar(&renderMonth, "month", "", "Month label for header/footer templates (default current month)")
	renderCmd.Flags().StringVar(&renderYear, "year", "", "Year label for header/footer templates (default current year)")
	renderCmd.Flags().StringVar(&renderTitle, "title", "Scholarly Publications", "Title label for header/footer templates and the preview page")
	renderCmd.Flags().BoolVar(&renderCopy, "copy", false, "Copy the snippet to the clipboard")
	renderCmd.Flags().StringVar(&renderPreview, "preview", "", "Also write a preview page with a copy button to this file")
	rootCmd.AddCommand(renderCmd)
}

var renderCmd = &cobra.Command{
	Use:   "render <input>",
	Short: "Render a citation export as an HTML snippet",
	Long: `Render a citation export as an HTML bibliography snippet.

Rows missing Authors, Title or Year are skipped. Entries are sorted A–Z by
first author and numbered after sorting.

Header and footer files may use {{.Month}}, {{.Year}}, {{.Count}} and
{{.Title}}.

Examples:
  pubsnip render scopus.csv
  pubsnip render scopus.csv -o - | pbcopy
  pubsnip render library.json --max-authors 6 --escape-html
  pubsnip render refs.bib --format bibtex
  pubsnip render pubs.db --table march --header header.html --month March
  cat scopus.csv | pubsnip render - --preview preview.html`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

// applyRenderFlags overlays explicitly set flags onto the config.
func applyRenderFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("max-authors") {
		cfg.MaxAuthors = &renderMaxAuthors
	}
	if flags.Changed("escape-html") {
		cfg.EscapeHTML = &renderEscape
	}
	if renderFont != "" {
		cfg.FontFamily = renderFont
	}
	if renderHeader != "" {
		cfg.HeaderFile = renderHeader
	}
	if renderFooter != "" {
		cfg.FooterFile = renderFooter
	}
	if renderOut != "" {
		cfg.OutputFile = renderOut
	}
	if renderTable != "" {
		cfg.Table = renderTable
	}
}

// readWrapper reads and expands a header or footer template file.
func readWrapper(path string, data render.PageData) (string, error) {
	if path == "" {
		return "", nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading template: %w", err)
	}
	return render.ExpandWrapper(string(raw), data)
}

// pageData builds the wrapper context, defaulting month and year to now.
func pageData(count int, now time.Time) render.PageData {
	data := render.PageData{
		Month: renderMonth,
		Year:  renderYear,
		Count: count,
		Title: renderTitle,
	}
	if data.Month == "" {
		data.Month = now.Month().String()
	}
	if data.Year == "" {
		data.Year = strconv.Itoa(now.Year())
	}
	return data
}

// buildOptions resolves config and templates into pipeline options.
func buildOptions(cfg *config.Config, records []reference.SourceRecord) (render.Options, error) {
	opts := cfg.RenderOptions()
	data := pageData(len(citation.Filter(records)), time.Now())

	var err error
	if opts.Layout.Header, err = readWrapper(cfg.HeaderFile, data); err != nil {
		return opts, fmt.Errorf("header: %w", err)
	}
	if opts.Layout.Footer, err = readWrapper(cfg.FooterFile, data); err != nil {
		return opts, fmt.Errorf("footer: %w", err)
	}
	return opts, nil
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	applyRenderFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	if renderCopy && !clipboard.IsAvailable() {
		exitWithError(ExitError, "--copy: %v (install pbcopy, xclip or xsel)", clipboard.ErrClipboardUnavailable)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	records, err := loadRecords(ctx, args[0], renderFormat, cfg.Table, cmd.InOrStdin())
	if err != nil {
		if errors.Is(err, importer.ErrEmptyTable) {
			exitWithNotice(ExitEmptyInput, "%s: %v, nothing to render", args[0], err)
		}
		exitWithError(ExitDataError, "loading %s: %v", args[0], err)
	}

	opts, err := buildOptions(cfg, records)
	if err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	result, err := render.Generate(records, opts)
	if err != nil {
		if errors.Is(err, citation.ErrNoRecords) {
			exitWithNotice(ExitEmptyInput, "%s: %v", args[0], err)
		}
		exitWithError(ExitError, "rendering: %v", err)
	}

	resp := RenderResponse{
		Status:  "rendered",
		Entries: len(result.Citations),
		Dropped: len(records) - len(result.Citations),
	}
	logger.Info("rendered snippet",
		zap.Int("entries", resp.Entries),
		zap.Int("dropped", resp.Dropped),
		zap.Int("bytes", len(result.HTML)))

	out := cfg.Output()
	if out == "-" {
		fmt.Print(result.HTML)
	} else {
		if err := os.WriteFile(out, []byte(result.HTML), 0644); err != nil {
			exitWithError(ExitError, "writing %s: %v", out, err)
		}
		resp.Path = out
	}

	if renderPreview != "" {
		page, err := preview.GenerateHTML(result.HTML, resp.Entries, preview.Options{Title: renderTitle})
		if err != nil {
			exitWithError(ExitError, "building preview: %v", err)
		}
		if err := os.WriteFile(renderPreview, []byte(page), 0644); err != nil {
			exitWithError(ExitError, "writing %s: %v", renderPreview, err)
		}
		resp.Preview = renderPreview
	}

	if renderCopy {
		if err := clipboard.Copy(result.HTML); err != nil {
			exitWithError(ExitError, "copying to clipboard: %v", err)
		}
		resp.Copied = true
	}

	// With stdout carrying the snippet, the summary goes to stderr.
	if out == "-" {
		if humanOutput {
			fmt.Fprintf(os.Stderr, "%d entries (%d rows skipped)\n", resp.Entries, resp.Dropped)
		}
		return nil
	}

	if humanOutput {
		outputHuman("Wrote %d entries to %s (%d rows skipped)\n", resp.Entries, resp.Path, resp.Dropped)
		if resp.Preview != "" {
			outputHuman("Preview: %s\n", resp.Preview)
		}
		if resp.Copied {
			outputHuman("Copied to clipboard\n")
		}
		return nil
	}
	return outputJSON(resp)
}
