// Package config provides configuration file support for echocheck.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the echocheck configuration file structure.
type Config struct {
	// Defaults are applied when flags are not specified
	Defaults Defaults `yaml:"defaults"`

	// Aliases for common targets
	Aliases map[string]string `yaml:"aliases,omitempty"`
}

// Defaults holds default values for check parameters.
type Defaults struct {
	// Probes per host
	Count int `yaml:"count"`

	// Output mode
	TUI     bool `yaml:"tui"`
	Verbose bool `yaml:"verbose"`
	JSON    bool `yaml:"json"`
	CSV     bool `yaml:"csv"`
	NoColor bool `yaml:"no_color"`
	Quiet   bool `yaml:"quiet"`

	// Diagnostics written to stderr: debug, info, warn, error
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Defaults: Defaults{
			Count:    3,
			LogLevel: "warn",
		},
		Aliases: make(map[string]string),
	}
}

// Load reads configuration from the default config file locations.
// It searches in order:
//  1. ./echocheck.yaml (current directory)
//  2. ~/.config/echocheck/config.yaml (Linux/macOS)
//  3. %APPDATA%\echocheck\config.yaml (Windows)
//
// If no config file is found, returns default configuration.
func Load() (*Config, error) {
	for _, path := range getConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			return LoadFrom(path)
		}
	}

	// No config file found, return defaults
	return DefaultConfig(), nil
}

// LoadFrom reads configuration from a specific file path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if config.Aliases == nil {
		config.Aliases = make(map[string]string)
	}

	return config, nil
}

// Save writes the configuration to the default user config path.
func (c *Config) Save() error {
	path := getUserConfigPath()
	if path == "" {
		return fmt.Errorf("no user config directory available")
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration to a specific file path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// ResolveAlias returns the aliased target, or target itself when no alias matches.
// Alias names are matched case-insensitively.
func (c *Config) ResolveAlias(target string) string {
	if alias, ok := c.Aliases[target]; ok {
		return alias
	}
	for name, alias := range c.Aliases {
		if strings.EqualFold(name, target) {
			return alias
		}
	}
	return target
}

// ResolveAliases applies ResolveAlias to every target.
func (c *Config) ResolveAliases(targets []string) []string {
	resolved := make([]string, len(targets))
	for i, t := range targets {
		resolved[i] = c.ResolveAlias(t)
	}
	return resolved
}

// getConfigPaths returns the list of config file paths to search.
func getConfigPaths() []string {
	paths := []string{
		"echocheck.yaml",
		"echocheck.yml",
		".echocheck.yaml",
		".echocheck.yml",
	}

	// Add user config path
	if userPath := getUserConfigPath(); userPath != "" {
		paths = append(paths, userPath)
	}

	return paths
}

// getUserConfigPath returns the user-specific config file path.
func getUserConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "echocheck", "config.yaml")
		}
	default: // Linux, macOS, etc.
		// Check XDG_CONFIG_HOME first
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			return filepath.Join(xdgConfig, "echocheck", "config.yaml")
		}
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, ".config", "echocheck", "config.yaml")
		}
	}
	return ""
}

// GetConfigPath returns the path where user config would be saved.
func GetConfigPath() string {
	return getUserConfigPath()
}

// GenerateExample generates an example configuration file content.
func GenerateExample() string {
	return `# echocheck configuration file
# Location: ~/.config/echocheck/config.yaml (Linux/macOS)
#           %APPDATA%\echocheck\config.yaml (Windows)
#           ./echocheck.yaml (current directory)

defaults:
  count: 3                # Echo requests per host (1-255), all must be answered

  # Output mode (only one should be true)
  tui: false              # Interactive TUI mode
  verbose: false          # Detailed table output
  json: false             # JSON output
  csv: false              # CSV output
  no_color: false         # Disable colors
  quiet: false            # Exit status only

  log_level: warn         # debug, info, warn, error

# Target aliases (optional)
aliases:
  gw: 192.168.1.1
  dns: 8.8.8.8
  cf: 1.1.1.1
`
}
