package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pevans/medalfed/config"
	"github.com/pevans/medalfed/history"
	"github.com/pevans/medalfed/medals"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPrintRanking verifies positions and totals are rendered
func TestPrintRanking(t *testing.T) {
	var buf bytes.Buffer
	printRanking(&buf, medals.RankedView{
		medals.NewRecord("United States", 40, 44, 42),
		medals.NewRecord("China", 40, 27, 24),
	})

	out := buf.String()
	assert.Contains(t, out, "United States")
	assert.Contains(t, out, "126")
	assert.Contains(t, out, "91")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("United States")), bytes.Index(buf.Bytes(), []byte("China")))
}

// TestPrintRanking_Empty verifies an empty view prints a notice
func TestPrintRanking_Empty(t *testing.T) {
	var buf bytes.Buffer
	printRanking(&buf, nil)
	assert.Equal(t, "No countries to display.\n", buf.String())
}

// TestPrintCountries verifies the footer counts countries
func TestPrintCountries(t *testing.T) {
	var buf bytes.Buffer
	printCountries(&buf, []string{"Japan", "France"})

	assert.Contains(t, buf.String(), "Japan")
	assert.Contains(t, buf.String(), "2 countries")
}

// TestPrintRecord verifies each medal column is shown
func TestPrintRecord(t *testing.T) {
	var buf bytes.Buffer
	printRecord(&buf, medals.NewRecord("France", 16, 0, 22))

	out := buf.String()
	assert.Contains(t, out, "France")
	assert.Contains(t, out, "Bronze")
	assert.Contains(t, out, "38")
}

// TestPrintAttempts verifies failed attempts show their error
func TestPrintAttempts(t *testing.T) {
	errMsg := "failed to load medal data: status 503"
	attempts := []history.Attempt{
		{
			AttemptID: uuid.MustParse("0b7e5c3a-1111-4222-8333-944445555666"),
			URL:       "https://example.com/medals",
			Status:    history.StatusFailed,
			Error:     &errMsg,
			StartedAt: time.Date(2024, 8, 11, 12, 0, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	printAttempts(&buf, attempts)

	out := buf.String()
	assert.Contains(t, out, "0b7e5c3a")
	assert.Contains(t, out, "failed")
	assert.Contains(t, out, "failed to load medal data")
}

// TestPrintJSON verifies JSON output round-trips the record fields
func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, config.Config{DefaultURL: "https://example.com", TopK: 3}))

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "https://example.com", got["default_url"])
	assert.Equal(t, float64(3), got["top_k"])
}

// TestResolveURL verifies explicit URLs win over the preference
func TestResolveURL(t *testing.T) {
	assert.Equal(t, "https://a.test", resolveURL(" https://a.test ", "https://b.test"))
	assert.Equal(t, "https://b.test", resolveURL("   ", "https://b.test"))
}

// TestTruncate verifies long strings are cut on rune boundaries
func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "Côte d...", truncate("Côte d'Ivoire", 9))
}
