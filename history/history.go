package history

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Attempt statuses.
const (
	StatusLoaded = "loaded"
	StatusFailed = "failed"
)

// Custom errors for history operations
var (
	ErrAttemptNotFound = errors.New("load attempt not found")
	ErrInvalidStatus   = errors.New("status must be loaded or failed")
)

// Store records load attempts using SQLite. Only attempt metadata is kept;
// medal data itself is never written.
type Store struct {
	db *sql.DB
}

// Attempt is one fetch-and-parse invocation.
type Attempt struct {
	AttemptID  uuid.UUID `json:"attempt_id"`
	URL        string    `json:"url"`
	Status     string    `json:"status"`
	Countries  int       `json:"countries"`
	Error      *string   `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Succeeded returns true if the attempt replaced the dataset.
func (a *Attempt) Succeeded() bool {
	return a.Status == StatusLoaded
}

// Filter represents filtering options for listing attempts.
type Filter struct {
	Status *string // Filter by status
	URL    *string // Filter by exact URL
	Limit  int     // Pagination limit
	Offset int     // Pagination offset
}

// NewStore creates a new history store with the given database path.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the load_attempts table if it doesn't exist.
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS load_attempts (
		attempt_id TEXT PRIMARY KEY,
		url TEXT NOT NULL,
		status TEXT NOT NULL,
		countries INTEGER DEFAULT 0,
		error TEXT,
		started_at TEXT NOT NULL,
		finished_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores a finished attempt. A nil AttemptID is replaced with a new
// one.
func (s *Store) Record(attempt *Attempt) error {
	if attempt.Status != StatusLoaded && attempt.Status != StatusFailed {
		return ErrInvalidStatus
	}
	if attempt.AttemptID == uuid.Nil {
		attempt.AttemptID = uuid.New()
	}

	query := `
		INSERT INTO load_attempts (
			attempt_id, url, status, countries, error, started_at, finished_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.Exec(query,
		attempt.AttemptID.String(),
		attempt.URL,
		attempt.Status,
		attempt.Countries,
		attempt.Error,
		formatTime(attempt.StartedAt),
		formatTime(attempt.FinishedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert load attempt: %w", err)
	}

	return nil
}

// Get retrieves an attempt by ID.
func (s *Store) Get(attemptID uuid.UUID) (*Attempt, error) {
	query := `
		SELECT attempt_id, url, status, countries, error, started_at, finished_at
		FROM load_attempts
		WHERE attempt_id = ?
	`

	attempt, err := scanAttempt(s.db.QueryRow(query, attemptID.String()))
	if err == sql.ErrNoRows {
		return nil, ErrAttemptNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query load attempt: %w", err)
	}

	return attempt, nil
}

// List returns attempts, newest first.
func (s *Store) List(filter Filter) ([]Attempt, error) {
	query := `
		SELECT attempt_id, url, status, countries, error, started_at, finished_at
		FROM load_attempts
	`

	var whereClauses []string
	var args []any

	if filter.Status != nil {
		whereClauses = append(whereClauses, "status = ?")
		args = append(args, *filter.Status)
	}
	if filter.URL != nil {
		whereClauses = append(whereClauses, "url = ?")
		args = append(args, *filter.URL)
	}

	if len(whereClauses) > 0 {
		query += " WHERE " + strings.Join(whereClauses, " AND ")
	}

	query += " ORDER BY started_at DESC, rowid DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	} else if filter.Offset > 0 {
		query += " LIMIT -1"
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query load attempts: %w", err)
	}
	defer rows.Close()

	attempts := []Attempt{}
	for rows.Next() {
		attempt, err := scanAttempt(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan load attempt: %w", err)
		}
		attempts = append(attempts, *attempt)
	}

	return attempts, rows.Err()
}

// Last returns the most recent attempt with the given status, or
// ErrAttemptNotFound if there is none.
func (s *Store) Last(status string) (*Attempt, error) {
	attempts, err := s.List(Filter{Status: &status, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(attempts) == 0 {
		return nil, ErrAttemptNotFound
	}
	return &attempts[0], nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAttempt(row scanner) (*Attempt, error) {
	var attemptIDStr, url, status, startedAtStr, finishedAtStr string
	var countries int
	var errorMsg sql.NullString

	err := row.Scan(
		&attemptIDStr, &url, &status, &countries,
		&errorMsg, &startedAtStr, &finishedAtStr,
	)
	if err != nil {
		return nil, err
	}

	attemptID, err := uuid.Parse(attemptIDStr)
	if err != nil {
		return nil, fmt.Errorf("invalid attempt_id: %w", err)
	}

	startedAt, err := parseTime(startedAtStr)
	if err != nil {
		return nil, fmt.Errorf("invalid started_at: %w", err)
	}

	finishedAt, err := parseTime(finishedAtStr)
	if err != nil {
		return nil, fmt.Errorf("invalid finished_at: %w", err)
	}

	attempt := &Attempt{
		AttemptID:  attemptID,
		URL:        url,
		Status:     status,
		Countries:  countries,
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
	}
	if errorMsg.Valid {
		attempt.Error = &errorMsg.String
	}

	return attempt, nil
}

// timeLayout is fixed-width so stored timestamps sort lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	// Try RFC3339Nano first, fall back to RFC3339 for compatibility
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, err
		}
	}
	return t.Truncate(0), nil
}
