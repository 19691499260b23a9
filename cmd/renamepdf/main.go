// Package main provides the renamepdf CLI entry point.
package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "renamepdf",
	Short: "Rename PDF documents after their citations",
	Long: `renamepdf derives citation-based filenames for PDF documents.

It extracts page text and embedded document metadata from each PDF,
asks a language model for the bibliographic fields, reconciles the two
sources, supplements incomplete records via Crossref, and renames the
file to Author.Year.Title.pdf. All commands output JSON by default
for easy integration with other tools.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Load .env file if present (for OPENAI_API_KEY)
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}
