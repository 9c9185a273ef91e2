package commands

import (
	"os"
	"path/filepath"

	"github.com/colonyops/saathi/internal/core/config"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string
	Theme      string
	// APIKey comes from GEMINI_API_KEY and wins over the config file. It is
	// never written back to the config.
	APIKey string

	// Config is loaded in the Before hook and available to all commands.
	Config *config.Config
	// ConfigErr is the non-fatal error config.Load returned, if any. Config
	// then holds the defaults.
	ConfigErr error
}

// apiKey returns the key the planner uses.
func (f *Flags) apiKey() string {
	if f.APIKey != "" {
		return f.APIKey
	}
	return f.Config.APIKey
}

func (f *Flags) hasAPIKey() bool {
	return f.apiKey() != ""
}

// HistoryPath is the persisted command history file.
func (f *Flags) HistoryPath() string {
	return filepath.Join(f.DataDir, "history.json")
}

// ErrorLogPath is the file fatal errors are appended to.
func (f *Flags) ErrorLogPath() string {
	return filepath.Join(f.DataDir, "error.log")
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "saathi", "config.json")
}

// DefaultDataDir returns the default data directory using XDG_DATA_HOME.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "saathi")
}
