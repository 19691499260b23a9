package main

import (
	"fmt"
	"strings"

	"github.com/jgkarlin/renamepdf/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration values",
	Long: `Get or set configuration values.

Usage:
  renamepdf config                                # Show all config
  renamepdf config openai_model                   # Get specific value
  renamepdf config openai_model gpt-4o            # Set value
  renamepdf config crossref_mailto me@example.org # Set polite-pool contact

Keys:
  openai_api_key       OpenAI API key (env OPENAI_API_KEY overrides)
  openai_base_url      Alternative OpenAI-compatible endpoint
  openai_model         Completion model name
  crossref_mailto      Contact email for the Crossref polite pool
  max_pages            Pages of text to extract per PDF (0 = all)
  max_filename_length  Filename character budget excluding extension
  cache_path           Path to the lookup cache database`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfigCmd,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPathCmd)
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.GlobalConfigPath()
		if humanOutput {
			fmt.Println(path)
			return nil
		}
		return outputJSON(map[string]string{"path": path})
	},
}

// ConfigResponse is the JSON output for the bare config command.
// The API key is masked.
type ConfigResponse struct {
	OpenAIAPIKey      string `json:"openai_api_key,omitempty"`
	OpenAIBaseURL     string `json:"openai_base_url,omitempty"`
	OpenAIModel       string `json:"openai_model,omitempty"`
	CrossrefMailto    string `json:"crossref_mailto,omitempty"`
	MaxPages          int    `json:"max_pages,omitempty"`
	MaxFilenameLength int    `json:"max_filename_length,omitempty"`
	CachePath         string `json:"cache_path,omitempty"`
}

func runConfigCmd(cmd *cobra.Command, args []string) error {
	// No args: show all config
	if len(args) == 0 {
		cfg, err := config.LoadGlobalConfig()
		if err != nil {
			exitWithError(ExitConfigError, "loading config: %v", err)
		}
		if humanOutput {
			fmt.Printf("openai_api_key:      %s\n", maskKey(cfg.OpenAIAPIKey))
			fmt.Printf("openai_base_url:     %s\n", cfg.OpenAIBaseURL)
			fmt.Printf("openai_model:        %s\n", cfg.OpenAIModel)
			fmt.Printf("crossref_mailto:     %s\n", cfg.CrossrefMailto)
			fmt.Printf("max_pages:           %d\n", cfg.MaxPages)
			fmt.Printf("max_filename_length: %d\n", cfg.MaxFilenameLength)
			fmt.Printf("cache_path:          %s\n", cfg.CachePath)
		} else {
			outputJSON(ConfigResponse{
				OpenAIAPIKey:      maskKey(cfg.OpenAIAPIKey),
				OpenAIBaseURL:     cfg.OpenAIBaseURL,
				OpenAIModel:       cfg.OpenAIModel,
				CrossrefMailto:    cfg.CrossrefMailto,
				MaxPages:          cfg.MaxPages,
				MaxFilenameLength: cfg.MaxFilenameLength,
				CachePath:         cfg.CachePath,
			})
		}
		return nil
	}

	key := normalizeKey(args[0])

	// One arg: get specific value
	if len(args) == 1 {
		value, err := config.Get(key)
		if err != nil {
			exitWithError(ExitError, "%v", err)
		}
		if humanOutput {
			fmt.Println(value)
		} else {
			outputJSON(map[string]string{key: value})
		}
		return nil
	}

	// Two args: set value
	value := args[1]
	if err := config.Set(key, value); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}

	if humanOutput {
		fmt.Printf("Updated %s to %s\n", key, value)
	} else {
		outputJSON(UpdateResponse{
			Status: "updated",
			Key:    key,
			Value:  value,
		})
	}
	return nil
}

// normalizeKey converts key formats (openai-model, openai_model) to the
// underscore form used in the config file.
func normalizeKey(key string) string {
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, "-", "_")
	return key
}

// maskKey hides all but the last four characters of a secret.
func maskKey(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}
