// Package config provides configuration loading and structs for the Kensaku server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Synonyms  SynonymsConfig  `yaml:"synonyms"`
	DateTerms DateTermsConfig `yaml:"date_terms"`
	Search    SearchConfig    `yaml:"search"`
	// Categories maps a category name (e.g. "text", "spreadsheet") to the
	// MIME types it covers, used for post-hoc result filtering.
	Categories map[string][]string `yaml:"categories"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig holds paths for the index and the history database.
type StorageConfig struct {
	IndexPath   string `yaml:"index_path"`
	HistoryPath string `yaml:"history_path"`
}

// SynonymsConfig holds the synonym thesaurus settings.
type SynonymsConfig struct {
	// Path to the synonym group file. Empty disables synonym expansion.
	Path string `yaml:"path"`
	// Watch reloads the thesaurus when the file changes on disk.
	Watch *bool `yaml:"watch"`
}

// WatchOrDefault returns whether to watch the synonym file; defaults to true when unset.
func (s *SynonymsConfig) WatchOrDefault() bool {
	if s.Watch != nil {
		return *s.Watch
	}
	return true
}

// DateTermsConfig holds the date term encoding convention of the index.
// The prefixes and wrap mode must match what was used at indexing time.
type DateTermsConfig struct {
	DayPrefix   string `yaml:"day_prefix"`
	MonthPrefix string `yaml:"month_prefix"`
	YearPrefix  string `yaml:"year_prefix"`
	// WrapPrefixes writes prefixes wrapped in colons (":D:20240215")
	// instead of adjacent to the digits ("D20240215").
	WrapPrefixes bool `yaml:"wrap_prefixes"`
}

// SearchConfig holds search settings.
type SearchConfig struct {
	DefaultLimit int `yaml:"default_limit"`
	MaxLimit     int `yaml:"max_limit"`
	// TopKCandidates is how many engine results to fetch when a post-hoc
	// category filter may discard some of them.
	TopKCandidates  int   `yaml:"top_k_candidates"`
	SynonymsEnabled *bool `yaml:"synonyms_enabled"`
}

// SynonymsEnabledOrDefault returns whether synonym expansion is on by default; true when unset.
func (s *SearchConfig) SynonymsEnabledOrDefault() bool {
	if s.SynonymsEnabled != nil {
		return *s.SynonymsEnabled
	}
	return true
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Storage.IndexPath = expandPath(cfg.Storage.IndexPath, configDir)
	cfg.Storage.HistoryPath = expandPath(cfg.Storage.HistoryPath, configDir)
	if cfg.Synonyms.Path != "" {
		cfg.Synonyms.Path = expandPath(cfg.Synonyms.Path, configDir)
	}

	return &cfg, nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
