package config

import (
	"database/sql"
	"fmt"
	"strconv"

	_ "github.com/mattn/go-sqlite3"
)

// DefaultURL is the medal table loaded when the user supplies no URL.
const DefaultURL = "https://www.bbc.com/sport/olympics/paris-2024/medals"

// DefaultTopK is the size of the analytics ranking.
const DefaultTopK = 10

// ConfigStore manages user preferences using SQLite.
type ConfigStore struct {
	db *sql.DB
}

// Config represents user preferences.
type Config struct {
	DefaultURL string `json:"default_url"`
	TopK       int    `json:"top_k"`
}

// NewConfigStore creates a new config store with the given database path.
func NewConfigStore(dbPath string) (*ConfigStore, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &ConfigStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the config table if it doesn't exist.
func (c *ConfigStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS config (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`

	_, err := c.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (c *ConfigStore) Close() error {
	return c.db.Close()
}

// DefaultConfig returns the built-in preferences.
func DefaultConfig() Config {
	return Config{
		DefaultURL: DefaultURL,
		TopK:       DefaultTopK,
	}
}

// GetConfig retrieves user preferences, filling built-in defaults for unset
// keys.
func (c *ConfigStore) GetConfig() (*Config, error) {
	return c.GetConfigWithDefaults(DefaultConfig())
}

// GetConfigWithDefaults retrieves user preferences, taking unset keys from
// defaults.
func (c *ConfigStore) GetConfigWithDefaults(defaults Config) (*Config, error) {
	cfg := &defaults

	rows, err := c.db.Query("SELECT key, value FROM config")
	if err != nil {
		return nil, fmt.Errorf("failed to query config: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan config: %w", err)
		}

		switch key {
		case "default_url":
			cfg.DefaultURL = value
		case "top_k":
			k, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("invalid stored top_k %q: %w", value, err)
			}
			cfg.TopK = k
		}
	}

	return cfg, rows.Err()
}

// UpdateConfig stores the non-zero fields of cfg. Zero fields keep their
// current value.
func (c *ConfigStore) UpdateConfig(cfg *Config) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := "INSERT OR REPLACE INTO config (key, value) VALUES (?, ?)"

	if cfg.DefaultURL != "" {
		if _, err := tx.Exec(query, "default_url", cfg.DefaultURL); err != nil {
			return fmt.Errorf("failed to update config: %w", err)
		}
	}
	if cfg.TopK != 0 {
		if _, err := tx.Exec(query, "top_k", strconv.Itoa(cfg.TopK)); err != nil {
			return fmt.Errorf("failed to update config: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit config: %w", err)
	}
	return nil
}
