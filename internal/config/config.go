package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is read when no -config flag is given.
const DefaultConfigPath = "~/.clauder/config.yaml"

// Config holds all application configuration
type Config struct {
	// Store settings
	StorePath        string `yaml:"store_path"`
	StoreBackend     string `yaml:"store_backend"`
	MaxConversations int    `yaml:"max_conversations"`

	// Capture settings
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
	UserAgent    string        `yaml:"user_agent"`

	// Export settings
	OutputDir  string `yaml:"output_dir"`
	MaxWorkers int    `yaml:"max_workers"`

	// Feature flags
	Preview bool `yaml:"preview"`
	Verbose bool `yaml:"verbose"`
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		// Store defaults
		StorePath:        expandHome("~/.clauder/conversations.json"),
		StoreBackend:     "json",
		MaxConversations: 20,

		// Capture defaults
		FetchTimeout: 30 * time.Second,
		UserAgent:    "clauder/1.0",

		// Export defaults
		OutputDir:  ".",
		MaxWorkers: 4,

		// Feature flags
		Preview: false,
		Verbose: false,
	}
}

// LoadFile overlays the YAML file at path onto c. Keys absent from the
// file keep their current values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(expandHome(path))
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	c.StorePath = expandHome(c.StorePath)
	c.OutputDir = expandHome(c.OutputDir)
	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.StorePath == "" {
		return fmt.Errorf("store path cannot be empty")
	}
	if c.StoreBackend != "json" && c.StoreBackend != "bolt" {
		return fmt.Errorf("store backend must be json or bolt, got %q", c.StoreBackend)
	}
	if c.MaxConversations < 1 {
		return fmt.Errorf("max conversations must be at least 1")
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive")
	}
	if c.MaxWorkers < 1 {
		return fmt.Errorf("max workers must be at least 1")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output directory cannot be empty")
	}
	return nil
}

// expandHome expands the ~ in file paths to the user's home directory
func expandHome(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir := getHomeDir()
		return homeDir + path[1:]
	}
	return path
}

// getHomeDir returns the user's home directory
func getHomeDir() string {
	if home := GetEnv("HOME"); home != "" {
		return home
	}
	// Fallback for Windows
	if home := GetEnv("USERPROFILE"); home != "" {
		return home
	}
	return "."
}

// GetEnv is a wrapper around os.Getenv for easier testing
var GetEnv = func(key string) string {
	// Will be replaced with os.Getenv in main
	return ""
}
