package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/jgkarlin/renamepdf/internal/citation"
	"github.com/jgkarlin/renamepdf/internal/clipboard"
	"github.com/jgkarlin/renamepdf/internal/config"
	"github.com/jgkarlin/renamepdf/internal/naming"
	"github.com/jgkarlin/renamepdf/internal/pdf"
	"github.com/spf13/cobra"
)

var (
	previewMaxPages  int
	previewMaxLength int
	previewCopy      bool
	previewNoLookup  bool
)

var previewCmd = &cobra.Command{
	Use:   "preview <file>",
	Short: "Show the citation-based name for a single PDF without renaming",
	Long: `Show the citation-based name for a single PDF without renaming it.

Runs the full derivation pipeline (text extraction, language-model
field extraction, metadata reconciliation, bibliographic lookup) and
prints the reconciled citation plus the filename the run command
would choose.

Examples:
  renamepdf preview paper.pdf
  renamepdf preview --copy --human scan.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)
	previewCmd.Flags().IntVar(&previewMaxPages, "max-pages", 0, "Pages of text to extract (0 = config or all)")
	previewCmd.Flags().IntVar(&previewMaxLength, "max-length", 0, "Filename character budget excluding extension (0 = default)")
	previewCmd.Flags().BoolVar(&previewCopy, "copy", false, "Copy the suggested filename to the clipboard")
	previewCmd.Flags().BoolVar(&previewNoLookup, "no-lookup", false, "Skip the bibliographic lookup step")
}

// PreviewResponse is the JSON output for the preview command.
type PreviewResponse struct {
	Source   string          `json:"source"`
	Target   string          `json:"target"`
	Citation string          `json:"citation,omitempty"`
	Record   citation.Record `json:"record"`
}

func runPreview(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx := context.Background()

	maxPages := previewMaxPages
	if maxPages == 0 {
		maxPages = config.GetMaxPages()
	}

	text, meta, err := pdf.Extract(path, maxPages)
	if err != nil {
		code := ExitError
		if errors.Is(err, pdf.ErrUnreadable) {
			code = ExitDataError
		}
		exitWithError(code, "%s: %v", path, err)
	}

	extractor := newExtractClient()
	ext, err := extractor.Extract(ctx, text, filepath.Base(path))
	if err != nil {
		exitWithError(ExitError, "extracting citation: %v", err)
	}

	var lookup citation.Lookup
	var cleanup func()
	if !previewNoLookup {
		lookup, cleanup = newLookup()
		defer cleanup()
	}

	record := citation.Reconcile(ctx, ext, meta, lookup)

	maxLength := previewMaxLength
	if maxLength == 0 {
		maxLength = config.GetMaxFilenameLength()
	}
	if maxLength == 0 {
		maxLength = naming.DefaultMaxLength
	}
	name := naming.Sanitize(naming.Build(record.Author, record.Year, record.Title, maxLength))

	if previewCopy {
		if err := clipboard.Copy(name); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: copying to clipboard: %v\n", err)
		}
	}

	if humanOutput {
		outputHuman("%s\n  -> %s\n", path, name)
		if c := record.Citation(); c != "" {
			outputHuman("  %s\n", c)
		}
		for _, note := range record.Notes {
			outputHuman("  note: %s\n", note)
		}
		return nil
	}
	return outputJSON(PreviewResponse{
		Source:   filepath.Base(path),
		Target:   name,
		Citation: record.Citation(),
		Record:   record,
	})
}
