// Package config handles configuration loading and validation for saathi.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/colonyops/saathi/internal/core/deploy"
)

// ErrConfigLoad marks an unreadable or malformed config file. Callers treat
// it as a warning and continue with defaults.
var ErrConfigLoad = errors.New("config load failed")

// Languages accepted by the language setting.
const (
	LanguageEnglish  = "en"
	LanguageHindi    = "hi"
	LanguageHinglish = "hinglish"
)

// Unknown action policies.
const (
	UnknownSkip = "skip"
	UnknownFail = "fail"
)

// Config holds the user settings persisted between sessions.
type Config struct {
	APIKey             string          `json:"apiKey"`
	DefaultProjectsDir string          `json:"defaultProjectsDir"`
	Language           string          `json:"language"`
	LogLevel           string          `json:"logLevel"`
	AutoSave           bool            `json:"autoSave"`
	Model              string          `json:"model"`
	UnknownActions     string          `json:"unknownActions"`
	HistoryLimit       int             `json:"historyLimit"`
	Deploy             deploy.Settings `json:"deploy"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	projects := "projects"
	if home, err := os.UserHomeDir(); err == nil {
		projects = filepath.Join(home, "projects")
	}

	return Config{
		DefaultProjectsDir: projects,
		Language:           LanguageEnglish,
		LogLevel:           "info",
		AutoSave:           true,
		Model:              "gemini-2.5-flash",
		UnknownActions:     UnknownSkip,
		HistoryLimit:       500,
	}
}

// Load reads the JSON config at path merged over DefaultConfig. A missing
// file yields defaults. When the file cannot be read or decoded, the defaults
// are returned together with an error wrapping ErrConfigLoad.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return &cfg, nil
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return &cfg, nil
	case err != nil:
		fallback := DefaultConfig()
		return &fallback, fmt.Errorf("%w: read %s: %w", ErrConfigLoad, path, err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		fallback := DefaultConfig()
		return &fallback, fmt.Errorf("%w: parse %s: %w", ErrConfigLoad, path, err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		fallback := DefaultConfig()
		return &fallback, fmt.Errorf("%w: invalid config: %w", ErrConfigLoad, err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.DefaultProjectsDir == "" {
		c.DefaultProjectsDir = defaults.DefaultProjectsDir
	}
	if c.Language == "" {
		c.Language = defaults.Language
	}
	if c.LogLevel == "" {
		c.LogLevel = defaults.LogLevel
	}
	if c.Model == "" {
		c.Model = defaults.Model
	}
	if c.UnknownActions == "" {
		c.UnknownActions = defaults.UnknownActions
	}
	if c.HistoryLimit == 0 {
		c.HistoryLimit = defaults.HistoryLimit
	}
}

// Save writes the whole config to path atomically.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}

// FailOnUnknown reports whether unknown action kinds abort a plan.
func (c *Config) FailOnUnknown() bool {
	return c.UnknownActions == UnknownFail
}
