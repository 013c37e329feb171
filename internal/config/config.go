// Package config loads handprint settings from JSON files: a global file in
// the user config directory and an optional per-project override.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/okaneo/handprint/internal/classify"
)

// Config holds all configurable handprint settings.
type Config struct {
	// AIPatterns are case-insensitive substrings flagged as AI evidence.
	AIPatterns []string `json:"ai_patterns"`
	// IdleTimeout is the seconds of inactivity before the mode drops to idle.
	IdleTimeout int `json:"idle_timeout"`
	// MinAIInsertionSize is the threshold for a "large insertion".
	MinAIInsertionSize int `json:"min_ai_insertion_size"`
	// DetectLargePastes enables the clipboard heuristic. Pointer so an
	// explicit false survives the merge.
	DetectLargePastes *bool `json:"detect_large_pastes"`
	// DataDir overrides the default data file location.
	DataDir string `json:"data_dir"`
	// IgnorePatterns are glob patterns excluded by the filesystem watcher.
	IgnorePatterns []string `json:"ignore_patterns"`
}

// Defaults returns sensible default configuration values.
func Defaults() Config {
	on := true
	return Config{
		AIPatterns:         classify.DefaultAIPatterns,
		IdleTimeout:        300,
		MinAIInsertionSize: classify.DefaultMinInsertionSize,
		DetectLargePastes:  &on,
		IgnorePatterns:     []string{".git", "node_modules", "vendor"},
	}
}

// LoadGlobal reads ~/.config/handprint/config.json.
// Returns defaults if the file is absent.
func LoadGlobal() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	path := filepath.Join(home, ".config", "handprint", "config.json")
	return loadFile(path, true)
}

// LoadProject reads .handprintconfig in the current working directory.
// Returns nil (no error) if the file is absent.
func LoadProject() (*Config, error) {
	return loadFile(".handprintconfig", false)
}

func loadFile(path string, returnDefaults bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if returnDefaults {
				d := Defaults()
				return &d, nil
			}
			return nil, nil
		}
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &cfg, nil
}

// Merge combines global and project configs, with project taking precedence.
// Missing keys fall back to global, then defaults.
func Merge(global, project *Config) Config {
	result := Defaults()

	for _, c := range []*Config{global, project} {
		if c == nil {
			continue
		}
		if len(c.AIPatterns) > 0 {
			result.AIPatterns = c.AIPatterns
		}
		if c.IdleTimeout > 0 {
			result.IdleTimeout = c.IdleTimeout
		}
		if c.MinAIInsertionSize > 0 {
			result.MinAIInsertionSize = c.MinAIInsertionSize
		}
		if c.DetectLargePastes != nil {
			result.DetectLargePastes = c.DetectLargePastes
		}
		if c.DataDir != "" {
			result.DataDir = c.DataDir
		}
		if len(c.IgnorePatterns) > 0 {
			result.IgnorePatterns = c.IgnorePatterns
		}
	}

	return result
}

// ParseError is returned when a config file exists but cannot be parsed.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return "failed to parse config file " + e.Path + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
