package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pevans/medalfed/scraper"
	"gopkg.in/yaml.v3"
)

// SourceConfig describes where and how the medal table is fetched.
type SourceConfig struct {
	URL       string              `yaml:"url"`
	UserAgent string              `yaml:"user_agent"`
	Timeout   time.Duration       `yaml:"timeout"`
	Table     scraper.TableConfig `yaml:"table"`
}

// StorageConfig represents storage configuration from config file.
type StorageConfig struct {
	History struct {
		DSN string `yaml:"dsn"`
	} `yaml:"history"`
}

// FileConfig represents the structure of ~/.medalfed/config.yaml.
type FileConfig struct {
	Source  SourceConfig  `yaml:"source"`
	Ranking struct {
		TopK int `yaml:"top_k"`
	} `yaml:"ranking"`
	Storage StorageConfig `yaml:"storage"`
	Server  struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
}

// DefaultFileConfig returns the configuration used when no file exists.
func DefaultFileConfig() *FileConfig {
	cfg := &FileConfig{}
	cfg.Source.URL = DefaultURL
	cfg.Source.Table = scraper.NewTableConfig()
	cfg.Ranking.TopK = DefaultTopK
	cfg.Storage.History.DSN = "history.db"
	cfg.Server.Addr = "localhost:8080"
	return cfg
}

// ConfigPath returns the location of the config file under the user's home
// directory.
func ConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".medalfed", "config.yaml"), nil
}

// LoadConfigFile loads configuration from ~/.medalfed/config.yaml. Returns
// nil if the file doesn't exist (not an error). Returns error if the file
// exists but cannot be parsed.
func LoadConfigFile() (*FileConfig, error) {
	configPath, err := ConfigPath()
	if err != nil {
		return nil, err
	}

	// Check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, nil // File doesn't exist -- not an error
	}

	// Read file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML over the defaults so omitted keys keep them
	cfg := DefaultFileConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Resolve loads the config file if present and falls back to defaults.
func Resolve() (*FileConfig, error) {
	cfg, err := LoadConfigFile()
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = DefaultFileConfig()
	}
	return cfg, nil
}
