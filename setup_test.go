package medalfed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pevans/medalfed/config"
	"github.com/pevans/medalfed/discovery"
	"github.com/pevans/medalfed/medals"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestServiceConfigFromFile_Defaults verifies a nil config keeps the browser
// headers and positional layout
func TestServiceConfigFromFile_Defaults(t *testing.T) {
	sc := ServiceConfigFromFile(nil)

	assert.Equal(t, discovery.UserAgent, sc.Headers["User-Agent"])
	assert.Equal(t, 4, sc.Table.MinCells)
	assert.False(t, sc.Table.HeaderMapping)
}

// TestServiceConfigFromFile_Overrides verifies file settings are applied
// without mutating the shared defaults
func TestServiceConfigFromFile_Overrides(t *testing.T) {
	cfg := config.DefaultFileConfig()
	cfg.Source.UserAgent = "medalfed-test/1.0"
	cfg.Source.Table.HeaderMapping = true
	cfg.Source.Table.RowSelector = ""

	sc := ServiceConfigFromFile(cfg)

	assert.Equal(t, "medalfed-test/1.0", sc.Headers["User-Agent"])
	assert.True(t, sc.Table.HeaderMapping)
	assert.Equal(t, "tr", sc.Table.RowSelector, "unset selector should fall back")
	assert.Equal(t, discovery.UserAgent, discovery.DefaultHeaders()["User-Agent"])
}

// TestNewServiceFromConfig verifies the configured user agent reaches the
// server
func TestNewServiceFromConfig(t *testing.T) {
	var gotUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		w.Write([]byte(parisTableHTML))
	}))
	defer server.Close()

	cfg := config.DefaultFileConfig()
	cfg.Source.UserAgent = "medalfed-test/2.0"

	service := NewServiceFromConfig(cfg, medals.NewStore())
	summary, err := service.LoadFromURL(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, 5, summary.Countries)
	assert.Equal(t, "medalfed-test/2.0", gotUserAgent)
}

// TestPreferenceDefaults verifies file values override built-in defaults
func TestPreferenceDefaults(t *testing.T) {
	assert.Equal(t, config.Config{DefaultURL: config.DefaultURL, TopK: 10}, PreferenceDefaults(nil))

	cfg := config.DefaultFileConfig()
	cfg.Source.URL = "https://example.com/medals"
	cfg.Ranking.TopK = 0

	defaults := PreferenceDefaults(cfg)
	assert.Equal(t, "https://example.com/medals", defaults.DefaultURL)
	assert.Equal(t, 10, defaults.TopK, "non-positive top_k should keep the default")
}
