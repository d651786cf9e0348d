package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper: create a test history store
func createTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "history.db")
	store, err := NewStore(dbPath)
	require.NoError(t, err, "should create history store")
	t.Cleanup(func() { store.Close() })
	return store
}

// Test helper: build an attempt starting at the given time
func sampleAttempt(url, status string, startedAt time.Time) *Attempt {
	attempt := &Attempt{
		URL:        url,
		Status:     status,
		StartedAt:  startedAt,
		FinishedAt: startedAt.Add(250 * time.Millisecond),
	}
	if status == StatusLoaded {
		attempt.Countries = 91
	} else {
		msg := "HTTP error: 503"
		attempt.Error = &msg
	}
	return attempt
}

// TestRecord_AssignsID verifies a nil ID is replaced on insert
func TestRecord_AssignsID(t *testing.T) {
	store := createTestStore(t)
	attempt := sampleAttempt("http://example.com/medals", StatusLoaded, time.Now())

	require.NoError(t, store.Record(attempt))
	assert.NotEqual(t, uuid.Nil, attempt.AttemptID)
}

// TestRecord_InvalidStatus verifies unknown statuses are rejected
func TestRecord_InvalidStatus(t *testing.T) {
	store := createTestStore(t)
	attempt := sampleAttempt("http://example.com/medals", "pending", time.Now())

	err := store.Record(attempt)
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

// TestGet_RoundTrip verifies a recorded attempt can be read back
func TestGet_RoundTrip(t *testing.T) {
	store := createTestStore(t)
	startedAt := time.Date(2024, 8, 11, 18, 0, 0, 0, time.UTC)
	attempt := sampleAttempt("http://example.com/medals", StatusFailed, startedAt)
	require.NoError(t, store.Record(attempt))

	got, err := store.Get(attempt.AttemptID)
	require.NoError(t, err)

	assert.Equal(t, attempt.URL, got.URL)
	assert.Equal(t, StatusFailed, got.Status)
	assert.False(t, got.Succeeded())
	require.NotNil(t, got.Error)
	assert.Equal(t, "HTTP error: 503", *got.Error)
	assert.True(t, startedAt.Equal(got.StartedAt))
	assert.True(t, attempt.FinishedAt.Equal(got.FinishedAt))
}

// TestGet_NotFound verifies missing IDs return ErrAttemptNotFound
func TestGet_NotFound(t *testing.T) {
	store := createTestStore(t)

	_, err := store.Get(uuid.New())
	assert.ErrorIs(t, err, ErrAttemptNotFound)
}

// TestList_NewestFirst verifies ordering and filtering
func TestList_NewestFirst(t *testing.T) {
	store := createTestStore(t)
	base := time.Date(2024, 8, 11, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.Record(sampleAttempt("http://a.example.com", StatusLoaded, base)))
	require.NoError(t, store.Record(sampleAttempt("http://b.example.com", StatusFailed, base.Add(500*time.Millisecond))))
	require.NoError(t, store.Record(sampleAttempt("http://c.example.com", StatusLoaded, base.Add(time.Second))))

	all, err := store.List(Filter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "http://c.example.com", all[0].URL)
	assert.Equal(t, "http://b.example.com", all[1].URL)
	assert.Equal(t, "http://a.example.com", all[2].URL)

	status := StatusLoaded
	loaded, err := store.List(Filter{Status: &status})
	require.NoError(t, err)
	assert.Len(t, loaded, 2)

	url := "http://b.example.com"
	byURL, err := store.List(Filter{URL: &url})
	require.NoError(t, err)
	require.Len(t, byURL, 1)
	assert.Equal(t, StatusFailed, byURL[0].Status)
}

// TestList_Pagination verifies limit and offset
func TestList_Pagination(t *testing.T) {
	store := createTestStore(t)
	base := time.Date(2024, 8, 11, 12, 0, 0, 0, time.UTC)
	for i := range 5 {
		require.NoError(t, store.Record(sampleAttempt("http://example.com", StatusLoaded, base.Add(time.Duration(i)*time.Minute))))
	}

	page, err := store.List(Filter{Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.True(t, base.Add(3*time.Minute).Equal(page[0].StartedAt))

	rest, err := store.List(Filter{Offset: 3})
	require.NoError(t, err)
	assert.Len(t, rest, 2)
}

// TestList_Empty verifies an empty store lists no attempts
func TestList_Empty(t *testing.T) {
	store := createTestStore(t)

	attempts, err := store.List(Filter{})
	require.NoError(t, err)
	assert.NotNil(t, attempts)
	assert.Empty(t, attempts)
}

// TestLast verifies the newest attempt with a status is returned
func TestLast(t *testing.T) {
	store := createTestStore(t)
	base := time.Date(2024, 8, 11, 12, 0, 0, 0, time.UTC)

	_, err := store.Last(StatusLoaded)
	assert.ErrorIs(t, err, ErrAttemptNotFound)

	require.NoError(t, store.Record(sampleAttempt("http://old.example.com", StatusLoaded, base)))
	require.NoError(t, store.Record(sampleAttempt("http://new.example.com", StatusLoaded, base.Add(time.Hour))))
	require.NoError(t, store.Record(sampleAttempt("http://fail.example.com", StatusFailed, base.Add(2*time.Hour))))

	last, err := store.Last(StatusLoaded)
	require.NoError(t, err)
	assert.Equal(t, "http://new.example.com", last.URL)
	assert.Equal(t, 91, last.Countries)
}

// TestGet_CorruptTimestamp verifies an unreadable timestamp is reported
// instead of being read as the zero time
func TestGet_CorruptTimestamp(t *testing.T) {
	store := createTestStore(t)

	attempt := sampleAttempt("https://example.com/medals", StatusLoaded, time.Date(2024, 8, 11, 12, 0, 0, 0, time.UTC))
	require.NoError(t, store.Record(attempt))

	_, err := store.db.Exec(`UPDATE load_attempts SET started_at = ? WHERE attempt_id = ?`, "yesterday", attempt.AttemptID.String())
	require.NoError(t, err)

	_, err = store.Get(attempt.AttemptID)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrAttemptNotFound)
	assert.Contains(t, err.Error(), "invalid started_at")

	_, err = store.List(Filter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid started_at")
}

// TestParseTime verifies both stored layouts are accepted
func TestParseTime(t *testing.T) {
	want := time.Date(2024, 8, 11, 12, 0, 0, 500, time.UTC)

	got, err := parseTime(formatTime(want))
	require.NoError(t, err)
	assert.True(t, want.Equal(got))

	got, err = parseTime("2024-08-11T12:00:00Z")
	require.NoError(t, err)
	assert.True(t, want.Truncate(time.Second).Equal(got))

	_, err = parseTime("")
	assert.Error(t, err)
}
