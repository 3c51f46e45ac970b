// Package config holds the demo host's tunables. The encoding engine in
// pkg/dasm takes all of these as plain arguments and never reads a file
// itself; this package exists for cmd/dasm7m, which wants a config file
// the way any standalone tool does.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config represents the demo host configuration
type Config struct {
	// Engine settings passed through to dasm.Init/SetupGlobal/GrowPC
	Engine struct {
		MaxSections int  `toml:"max_sections"`
		MaxGlobals  int  `toml:"max_globals"`
		MaxPCLabels int  `toml:"max_pc_labels"`
		Checked     bool `toml:"checked"`
	} `toml:"engine"`

	// Output settings for the assemble/run commands
	Output struct {
		Verbose      bool `toml:"verbose"`
		BytesPerLine int  `toml:"bytes_per_line"`
	} `toml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Engine.MaxSections = 2
	cfg.Engine.MaxGlobals = 16
	cfg.Engine.MaxPCLabels = 16
	cfg.Engine.Checked = true

	cfg.Output.Verbose = false
	cfg.Output.BytesPerLine = 16

	return cfg
}

// GetConfigPath returns the platform-specific config file path
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "dasm7m")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "dasm7m")

	default:
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// Load loads configuration from the default config file
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file. A missing file is
// not an error: the defaults are returned unchanged.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}
