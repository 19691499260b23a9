// Package config handles the global configuration file and its
// environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// GlobalConfig represents configuration stored in
// ~/.config/renamepdf/config.yml.
type GlobalConfig struct {
	OpenAIAPIKey      string `yaml:"openai_api_key,omitempty"`
	OpenAIBaseURL     string `yaml:"openai_base_url,omitempty"`
	OpenAIModel       string `yaml:"openai_model,omitempty"`
	CrossrefMailto    string `yaml:"crossref_mailto,omitempty"`
	MaxPages          int    `yaml:"max_pages,omitempty"`
	MaxFilenameLength int    `yaml:"max_filename_length,omitempty"`
	CachePath         string `yaml:"cache_path,omitempty"`
}

const (
	// GlobalConfigDir is the directory name under XDG_CONFIG_HOME.
	GlobalConfigDir = "renamepdf"
	// GlobalConfigFile is the config file name.
	GlobalConfigFile = "config.yml"
)

// globalConfigCache caches the loaded global config.
var globalConfigCache *GlobalConfig

// GlobalConfigPath returns the path to the global config file.
// Respects XDG_CONFIG_HOME, defaults to ~/.config/renamepdf/config.yml.
func GlobalConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, GlobalConfigDir, GlobalConfigFile)
}

// LoadGlobalConfig loads the global configuration file.
// Returns an empty config (not an error) if the file doesn't exist.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigCache != nil {
		return globalConfigCache, nil
	}

	path := GlobalConfigPath()
	if path == "" {
		return &GlobalConfig{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &GlobalConfig{}, nil
		}
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}

	globalConfigCache = &cfg
	return &cfg, nil
}

// SaveGlobalConfig writes the configuration file, creating its directory
// as needed, and refreshes the cache.
func SaveGlobalConfig(cfg *GlobalConfig) error {
	path := GlobalConfigPath()
	if path == "" {
		return fmt.Errorf("cannot determine config path")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	globalConfigCache = cfg
	return nil
}

// ResetGlobalConfigCache clears the cached global config.
// Useful for testing.
func ResetGlobalConfigCache() {
	globalConfigCache = nil
}

// GetOpenAIAPIKey returns the API key, with the OPENAI_API_KEY
// environment variable taking precedence over the config file.
func GetOpenAIAPIKey() string {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}
	cfg, _ := LoadGlobalConfig()
	return cfg.OpenAIAPIKey
}

// GetOpenAIBaseURL returns the completion endpoint base URL override,
// or "" for the default. OPENAI_BASE_URL takes precedence.
func GetOpenAIBaseURL() string {
	if url := os.Getenv("OPENAI_BASE_URL"); url != "" {
		return url
	}
	cfg, _ := LoadGlobalConfig()
	return cfg.OpenAIBaseURL
}

// GetOpenAIModel returns the configured completion model, or "" for the
// default.
func GetOpenAIModel() string {
	if model := os.Getenv("OPENAI_MODEL"); model != "" {
		return model
	}
	cfg, _ := LoadGlobalConfig()
	return cfg.OpenAIModel
}

// GetCrossrefMailto returns the Crossref polite-pool contact address.
// CROSSREF_MAILTO takes precedence.
func GetCrossrefMailto() string {
	if mailto := os.Getenv("CROSSREF_MAILTO"); mailto != "" {
		return mailto
	}
	cfg, _ := LoadGlobalConfig()
	return cfg.CrossrefMailto
}

// GetMaxPages returns the configured page bound for text extraction,
// or 0 when unset.
func GetMaxPages() int {
	cfg, _ := LoadGlobalConfig()
	return cfg.MaxPages
}

// GetMaxFilenameLength returns the configured filename budget, or 0
// when unset.
func GetMaxFilenameLength() int {
	cfg, _ := LoadGlobalConfig()
	return cfg.MaxFilenameLength
}

// GetCachePath returns the lookup-cache database path, defaulting to
// the user cache directory.
func GetCachePath() string {
	cfg, _ := LoadGlobalConfig()
	if cfg.CachePath != "" {
		return cfg.CachePath
	}
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(cacheDir, GlobalConfigDir, "lookups.db")
}

// Keys lists the settable configuration keys.
var Keys = []string{
	"openai_api_key",
	"openai_base_url",
	"openai_model",
	"crossref_mailto",
	"max_pages",
	"max_filename_length",
	"cache_path",
}

// Get returns the config-file value for a key in string form.
func Get(key string) (string, error) {
	cfg, err := LoadGlobalConfig()
	if err != nil {
		return "", err
	}
	switch key {
	case "openai_api_key":
		return cfg.OpenAIAPIKey, nil
	case "openai_base_url":
		return cfg.OpenAIBaseURL, nil
	case "openai_model":
		return cfg.OpenAIModel, nil
	case "crossref_mailto":
		return cfg.CrossrefMailto, nil
	case "max_pages":
		return strconv.Itoa(cfg.MaxPages), nil
	case "max_filename_length":
		return strconv.Itoa(cfg.MaxFilenameLength), nil
	case "cache_path":
		return cfg.CachePath, nil
	}
	return "", fmt.Errorf("unknown config key %q", key)
}

// Set updates a key in the config file.
func Set(key, value string) error {
	cfg, err := LoadGlobalConfig()
	if err != nil {
		return err
	}
	updated := *cfg

	switch key {
	case "openai_api_key":
		updated.OpenAIAPIKey = value
	case "openai_base_url":
		updated.OpenAIBaseURL = value
	case "openai_model":
		updated.OpenAIModel = value
	case "crossref_mailto":
		updated.CrossrefMailto = value
	case "max_pages", "max_filename_length":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%s must be a non-negative integer", key)
		}
		if key == "max_pages" {
			updated.MaxPages = n
		} else {
			updated.MaxFilenameLength = n
		}
	case "cache_path":
		updated.CachePath = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}

	return SaveGlobalConfig(&updated)
}
