package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jgkarlin/renamepdf/internal/batch"
)

// Title truncation length for human-readable batch output.
const resultTitleMaxLen = 70

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

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// UpdateResponse is the response for config set commands.
type UpdateResponse struct {
	Status string `json:"status"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

// printSummaryHuman prints a batch summary in human-readable format.
func printSummaryHuman(summary batch.Summary, dryRun bool) {
	for _, r := range summary.Results {
		switch r.Status {
		case batch.StatusRenamed:
			fmt.Printf("renamed: %s -> %s\n", r.Source, r.Target)
		case batch.StatusWouldRename:
			fmt.Printf("would rename: %s -> %s\n", r.Source, r.Target)
		case batch.StatusUnchanged:
			fmt.Printf("unchanged: %s\n", r.Source)
		case batch.StatusFailed:
			fmt.Printf("failed: %s (%s)\n", r.Source, r.Error)
		}
		if r.Record != nil {
			if c := r.Record.Citation(); c != "" {
				fmt.Printf("   %s\n", truncateString(c, resultTitleMaxLen))
			}
		}
	}
	verb := "processed"
	if dryRun {
		verb = "previewed"
	}
	fmt.Printf("\n%s %d file(s): %d successful, %d failed\n",
		verb, summary.Total, summary.Successful, summary.Failed)
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
