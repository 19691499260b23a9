package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jgkarlin/renamepdf/internal/batch"
	"github.com/jgkarlin/renamepdf/internal/cache"
	"github.com/jgkarlin/renamepdf/internal/citation"
	"github.com/jgkarlin/renamepdf/internal/clipboard"
	"github.com/jgkarlin/renamepdf/internal/config"
	"github.com/jgkarlin/renamepdf/internal/crossref"
	"github.com/jgkarlin/renamepdf/internal/extract"
	"github.com/jgkarlin/renamepdf/internal/pdf"
	"github.com/spf13/cobra"
)

var (
	runMaxPages      int
	runMaxLength     int
	runDryRun        bool
	runWriteMetadata bool
	runYes           bool
	runNoCache       bool
	runClipboard     bool
)

var runCmd = &cobra.Command{
	Use:   "run [directory]",
	Short: "Rename every PDF in a directory after its citation",
	Long: `Rename every PDF in a directory after its citation.

Each file is processed independently: page text and embedded metadata
are extracted, bibliographic fields are derived via the OpenAI API,
incomplete records are supplemented via Crossref, and the file is
renamed to Author.Year.Title.pdf. A failure on one file never stops
the rest of the batch.

The directory defaults to the current working directory; with
--clipboard it is read from the system clipboard instead.

Examples:
  renamepdf run ~/Downloads/papers
  renamepdf run --dry-run --human .
  renamepdf run --write-metadata --yes ~/papers`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().IntVar(&runMaxPages, "max-pages", 0, "Pages of text to extract per file (0 = config or all)")
	runCmd.Flags().IntVar(&runMaxLength, "max-length", 0, "Filename character budget excluding extension (0 = default)")
	runCmd.Flags().BoolVarP(&runDryRun, "dry-run", "n", false, "Report target names without renaming")
	runCmd.Flags().BoolVar(&runWriteMetadata, "write-metadata", false, "Write the reconciled citation into each renamed file (requires exiftool)")
	runCmd.Flags().BoolVarP(&runYes, "yes", "y", false, "Skip the confirmation prompt")
	runCmd.Flags().BoolVar(&runNoCache, "no-cache", false, "Bypass the bibliographic lookup cache")
	runCmd.Flags().BoolVar(&runClipboard, "clipboard", false, "Read the directory path from the clipboard")
}

func runRun(cmd *cobra.Command, args []string) error {
	dir, err := resolveDirectory(args)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	files, err := batch.Discover(dir)
	if err != nil {
		exitWithError(ExitError, "discovering PDFs: %v", err)
	}
	if len(files) == 0 {
		if humanOutput {
			outputHuman("no PDF files found in %s\n", dir)
		} else {
			outputJSON(batch.Summary{})
		}
		return nil
	}

	if !runYes && !runDryRun {
		if !confirm(fmt.Sprintf("Rename %d PDF file(s) in %s?", len(files), dir)) {
			if humanOutput {
				outputHuman("aborted\n")
			}
			return nil
		}
	}

	runner, cleanup := buildRunner()
	defer cleanup()

	summary, err := runner.Run(context.Background(), dir)
	if err != nil {
		exitWithError(ExitError, "%v", err)
	}

	if humanOutput {
		printSummaryHuman(summary, runDryRun)
	} else {
		outputJSON(summary)
	}

	if summary.Failed > 0 {
		os.Exit(ExitError)
	}
	return nil
}

// resolveDirectory picks the target directory from the argument, the
// clipboard, or the working directory, and verifies it exists.
func resolveDirectory(args []string) (string, error) {
	var dir string
	switch {
	case runClipboard:
		text, err := clipboard.Read()
		if err != nil {
			return "", fmt.Errorf("reading clipboard: %w", err)
		}
		dir = text
	case len(args) == 1:
		dir = args[0]
	default:
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting current directory: %w", err)
		}
		dir = cwd
	}

	if strings.HasPrefix(dir, "~") {
		home, err := os.UserHomeDir()
		if err == nil {
			dir = filepath.Join(home, dir[1:])
		}
	}

	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", dir)
	}
	return dir, nil
}

// confirm asks a yes/no question on stderr and reads the answer from stdin.
func confirm(prompt string) bool {
	fmt.Fprintf(os.Stderr, "%s [y/N] ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// buildRunner assembles the batch pipeline from flags and config.
// The returned cleanup closes the lookup cache if one was opened.
func buildRunner() (*batch.Runner, func()) {
	extractor := newExtractClient()
	lookup, cleanup := newLookup()

	var writer pdf.MetadataWriter
	if runWriteMetadata {
		w, err := pdf.NewExifToolWriter()
		if err != nil {
			exitWithError(ExitConfigError, "--write-metadata: %v", err)
		}
		writer = w
	}

	maxPages := runMaxPages
	if maxPages == 0 {
		maxPages = config.GetMaxPages()
	}
	maxLength := runMaxLength
	if maxLength == 0 {
		maxLength = config.GetMaxFilenameLength()
	}

	var logf func(format string, args ...any)
	if humanOutput {
		logf = func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}
	}

	return &batch.Runner{
		Source:    batch.SourceFunc(pdf.Extract),
		Extractor: extractor,
		Lookup:    lookup,
		Writer:    writer,
		Options: batch.Options{
			MaxPages:      maxPages,
			MaxNameLength: maxLength,
			DryRun:        runDryRun,
			WriteMetadata: runWriteMetadata,
			Logf:          logf,
		},
	}, cleanup
}

// newExtractClient builds the OpenAI extraction client from config.
// Exits with ExitConfigError when no API key is available.
func newExtractClient() *extract.Client {
	apiKey := config.GetOpenAIAPIKey()
	if apiKey == "" {
		exitWithError(ExitConfigError, "OPENAI_API_KEY not set (environment, .env, or config file)")
	}

	opts := []extract.ClientOption{extract.WithAPIKey(apiKey)}
	if url := config.GetOpenAIBaseURL(); url != "" {
		opts = append(opts, extract.WithBaseURL(url))
	}
	if model := config.GetOpenAIModel(); model != "" {
		opts = append(opts, extract.WithModel(model))
	}
	return extract.NewClient(opts...)
}

// newLookup builds the Crossref lookup, wrapped in the SQLite cache
// unless --no-cache is set or the cache cannot be opened.
func newLookup() (citation.Lookup, func()) {
	var opts []crossref.ClientOption
	if mailto := config.GetCrossrefMailto(); mailto != "" {
		opts = append(opts, crossref.WithMailto(mailto))
	}
	client := crossref.NewClient(opts...)

	if runNoCache {
		return client, func() {}
	}

	path := config.GetCachePath()
	if path == "" {
		return client, func() {}
	}
	c, err := cache.Open(path)
	if err != nil {
		// A broken cache degrades to uncached lookups.
		if humanOutput {
			fmt.Fprintf(os.Stderr, "warning: opening lookup cache: %v\n", err)
		}
		return client, func() {}
	}
	return cache.NewLookup(c, client), func() { c.Close() }
}
