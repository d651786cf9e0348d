package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper: create a test config store
func createTestConfigStore(t *testing.T) *ConfigStore {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")
	store, err := NewConfigStore(dbPath)
	require.NoError(t, err, "should create config store")
	t.Cleanup(func() { store.Close() })
	return store
}

// TestGetConfig_Default verifies default config is returned when not set
func TestGetConfig_Default(t *testing.T) {
	store := createTestConfigStore(t)

	config, err := store.GetConfig()
	require.NoError(t, err)
	require.NotNil(t, config)
	assert.Equal(t, DefaultURL, config.DefaultURL, "should have default URL")
	assert.Equal(t, 10, config.TopK, "should have default top_k")
}

// TestUpdateConfig_Success verifies updating config
func TestUpdateConfig_Success(t *testing.T) {
	store := createTestConfigStore(t)

	err := store.UpdateConfig(&Config{
		DefaultURL: "https://example.com/medals",
		TopK:       5,
	})
	require.NoError(t, err)

	retrieved, err := store.GetConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/medals", retrieved.DefaultURL)
	assert.Equal(t, 5, retrieved.TopK)
}

// TestUpdateConfig_PartialKeepsOthers verifies zero fields leave stored
// values alone
func TestUpdateConfig_PartialKeepsOthers(t *testing.T) {
	store := createTestConfigStore(t)

	require.NoError(t, store.UpdateConfig(&Config{DefaultURL: "https://example.com/a", TopK: 3}))
	require.NoError(t, store.UpdateConfig(&Config{TopK: 7}))

	retrieved, err := store.GetConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/a", retrieved.DefaultURL)
	assert.Equal(t, 7, retrieved.TopK)
}

// TestUpdateConfig_Overwrites verifies updating config replaces old values
func TestUpdateConfig_Overwrites(t *testing.T) {
	store := createTestConfigStore(t)

	require.NoError(t, store.UpdateConfig(&Config{DefaultURL: "https://example.com/old"}))
	require.NoError(t, store.UpdateConfig(&Config{DefaultURL: "https://example.com/new"}))

	retrieved, err := store.GetConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/new", retrieved.DefaultURL)
}

// TestValidate verifies preference validation
func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{"empty update", Config{}, false},
		{"valid url", Config{DefaultURL: "https://example.com/medals"}, false},
		{"valid top_k", Config{TopK: 25}, false},
		{"negative top_k", Config{TopK: -1}, true},
		{"relative url", Config{DefaultURL: "/medals"}, true},
		{"ftp url", Config{DefaultURL: "ftp://example.com/medals"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.config)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestGetConfigWithDefaults verifies stored keys win over supplied defaults
func TestGetConfigWithDefaults(t *testing.T) {
	store := createTestConfigStore(t)
	defaults := Config{DefaultURL: "https://example.com/file-config", TopK: 4}

	cfg, err := store.GetConfigWithDefaults(defaults)
	require.NoError(t, err)
	assert.Equal(t, defaults, *cfg)

	require.NoError(t, store.UpdateConfig(&Config{TopK: 12}))

	cfg, err = store.GetConfigWithDefaults(defaults)
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/file-config", cfg.DefaultURL)
	assert.Equal(t, 12, cfg.TopK)
}
