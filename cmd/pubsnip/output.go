package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matsen/pubsnippet/internal/citation"
)

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// exitWithNotice reports a condition that stops the run without being a
// failure of the tool, such as an input with nothing to render.
func exitWithNotice(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "notice: %s\n", msg)
	} else {
		outputJSON(NoticeResponse{Notice: msg})
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// NoticeResponse is a JSON response for runs that produced no output.
type NoticeResponse struct {
	Notice string `json:"notice"`
}

// RenderResponse summarizes a render run.
type RenderResponse struct {
	Status  string `json:"status"`
	Entries int    `json:"entries"`
	Dropped int    `json:"dropped"`
	Path    string `json:"path,omitempty"`
	Preview string `json:"preview,omitempty"`
	Copied  bool   `json:"copied,omitempty"`
}

// CheckResult is the response for the check command.
type CheckResult struct {
	Status string `json:"status"`
	citation.Report
}

// UpdateResponse is the response for config set commands.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
	Path   string `json:"path"`
}
