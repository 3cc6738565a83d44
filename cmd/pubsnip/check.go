package main

import (
	"context"
	"errors"
	"strings"

	"github.com/matsen/pubsnippet/internal/citation"
	"github.com/matsen/pubsnippet/internal/importer"
	"github.com/spf13/cobra"
)

var (
	checkFormat string
	checkTable  string
)

func init() {
	checkCmd.Flags().StringVar(&checkFormat, "format", FormatAuto, "Input format: auto, csv, paperpile, bibtex, sqlite")
	checkCmd.Flags().StringVar(&checkTable, "table", "", "SQLite table to read (default publications)")
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check <input>",
	Short: "Report rows that would be skipped or partly blank",
	Long: `Load a citation export and report, without rendering:
  - rows skipped for missing Authors, Title or Year
  - numeric fields (Year, Volume, Issue, Page start, Page end) that cannot be
    read as integers and will render empty

Examples:
  pubsnip check scopus.csv
  pubsnip check scopus.csv --human`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	table := cfg.Table
	if checkTable != "" {
		table = checkTable
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	records, err := loadRecords(ctx, args[0], checkFormat, table, cmd.InOrStdin())
	if err != nil {
		if errors.Is(err, importer.ErrEmptyTable) {
			exitWithNotice(ExitEmptyInput, "%s: %v", args[0], err)
		}
		exitWithError(ExitDataError, "loading %s: %v", args[0], err)
	}

	report := citation.Inspect(records)
	status := "ok"
	if len(report.Dropped) > 0 || len(report.Unparsable) > 0 {
		status = "issues"
	}
	if report.Admitted == 0 {
		status = "empty"
	}

	if humanOutput {
		outputHuman("%d rows, %d renderable\n", report.Rows, report.Admitted)
		for _, d := range report.Dropped {
			outputHuman("  row %d skipped: missing %s\n", d.Row, strings.Join(d.Missing, ", "))
		}
		for _, u := range report.Unparsable {
			outputHuman("  row %d: %s %q is not a number, will be blank\n", u.Row, u.Column, u.Value)
		}
	} else {
		outputJSON(CheckResult{Status: status, Report: report})
	}

	if report.Admitted == 0 {
		exitWithNotice(ExitEmptyInput, "%s: %v", args[0], citation.ErrNoRecords)
	}
	return nil
}
