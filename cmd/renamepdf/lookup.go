package main

import (
	"context"
	"strings"

	"github.com/jgkarlin/renamepdf/internal/citation"
	"github.com/jgkarlin/renamepdf/internal/config"
	"github.com/jgkarlin/renamepdf/internal/crossref"
	"github.com/spf13/cobra"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <query>...",
	Short: "Query Crossref for a bibliographic record",
	Long: `Query Crossref for the best-matching bibliographic record.

Useful for checking what the lookup step would supplement for a given
title and author, without touching any files.

Examples:
  renamepdf lookup "Deep Work Cal Newport"
  renamepdf lookup Attention Is All You Need --human`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)
}

// LookupResponse is the JSON output for the lookup command.
type LookupResponse struct {
	Query string                 `json:"query"`
	Found bool                   `json:"found"`
	Match *citation.LookupResult `json:"match,omitempty"`
}

func runLookup(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	var opts []crossref.ClientOption
	if mailto := config.GetCrossrefMailto(); mailto != "" {
		opts = append(opts, crossref.WithMailto(mailto))
	}
	client := crossref.NewClient(opts...)

	match, err := client.Search(context.Background(), query)
	if err != nil {
		exitWithError(ExitError, "lookup: %v", err)
	}

	if humanOutput {
		if match == nil {
			outputHuman("no match for %q\n", query)
			return nil
		}
		outputHuman("title:     %s\n", match.Title)
		outputHuman("author:    %s\n", match.Author)
		outputHuman("year:      %s\n", match.Year)
		if match.Journal != "" {
			outputHuman("journal:   %s\n", match.Journal)
		}
		if match.Publisher != "" {
			outputHuman("publisher: %s\n", match.Publisher)
		}
		return nil
	}
	return outputJSON(LookupResponse{
		Query: query,
		Found: match != nil,
		Match: match,
	})
}
