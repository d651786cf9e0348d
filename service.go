package medalfed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/pevans/medalfed/discovery"
	"github.com/pevans/medalfed/history"
	"github.com/pevans/medalfed/medals"
	"github.com/pevans/medalfed/scraper"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("medalfed")

// Errors returned to presentation code.
var (
	ErrNoDataset       = errors.New("no medal data loaded")
	ErrCountryNotFound = errors.New("country not found")
	ErrEmptyURL        = errors.New("url is required")
)

// LoadError wraps any failure of a load invocation. The underlying cause is
// a *discovery.TransportError, a *medals.ParseError, or ErrEmptyURL.
type LoadError struct {
	URL string
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load medal data: %v", e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// LoadState is the pipeline state of the most recent load invocation.
type LoadState int

const (
	StateIdle LoadState = iota
	StateFetching
	StateParsing
	StateLoaded
	StateFailed
)

func (s LoadState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateParsing:
		return "parsing"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// DocumentFetcher retrieves the raw text of a document.
type DocumentFetcher interface {
	Fetch(ctx context.Context, url string, headers map[string]string) (string, error)
}

// LoadSummary describes a successful load.
type LoadSummary struct {
	AttemptID uuid.UUID `json:"attempt_id"`
	URL       string    `json:"url"`
	Countries int       `json:"countries"`
	LoadedAt  time.Time `json:"loaded_at"`
}

// ServiceConfig holds the request and extraction settings for loads.
type ServiceConfig struct {
	Headers map[string]string
	Table   scraper.TableConfig
}

// DefaultServiceConfig returns the browser headers and positional table
// layout.
func DefaultServiceConfig() *ServiceConfig {
	return &ServiceConfig{
		Headers: discovery.DefaultHeaders(),
		Table:   scraper.NewTableConfig(),
	}
}

// Service runs the fetch, extract, parse and aggregate pipeline and owns the
// current dataset. Presentation code reads through it and never writes the
// store directly.
type Service struct {
	fetcher DocumentFetcher
	store   *medals.Store
	config  *ServiceConfig
	history *history.Store
	metrics *Metrics
	clock   clockwork.Clock
	logger  zerolog.Logger

	mu    sync.Mutex
	state LoadState
}

// Option configures a Service.
type Option func(*Service)

// WithHistory records every load attempt in the given store.
func WithHistory(store *history.Store) Option {
	return func(s *Service) {
		s.history = store
	}
}

// WithMetrics reports load outcomes to m.
func WithMetrics(m *Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithClock overrides the clock used for attempt timestamps.
func WithClock(clock clockwork.Clock) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithConfig overrides the request headers and table layout.
func WithConfig(config *ServiceConfig) Option {
	return func(s *Service) {
		s.config = config
	}
}

// NewService creates a new pipeline service around store.
func NewService(fetcher DocumentFetcher, store *medals.Store, opts ...Option) *Service {
	s := &Service{
		fetcher: fetcher,
		store:   store,
		config:  DefaultServiceConfig(),
		clock:   clockwork.NewRealClock(),
		logger:  zerolog.Nop(),
		state:   StateIdle,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// State returns the state of the most recent load invocation.
func (s *Service) State() LoadState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Service) setState(state LoadState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
}

// LoadFromURL fetches and parses the medal table at url and, only if every
// step succeeds, replaces the current dataset. On failure the previous
// dataset stays active.
func (s *Service) LoadFromURL(ctx context.Context, url string) (*LoadSummary, error) {
	ctx, span := tracer.Start(ctx, "LoadFromURL")
	defer span.End()

	url = strings.TrimSpace(url)
	span.SetAttributes(attribute.String("url", url))

	attempt := &history.Attempt{
		AttemptID: uuid.New(),
		URL:       url,
		StartedAt: s.clock.Now(),
	}

	ds, err := s.load(ctx, url)
	attempt.FinishedAt = s.clock.Now()
	elapsed := attempt.FinishedAt.Sub(attempt.StartedAt)

	if err != nil {
		s.setState(StateFailed)
		span.RecordError(err)
		span.SetStatus(codes.Error, "load failed")

		msg := err.Error()
		attempt.Status = history.StatusFailed
		attempt.Error = &msg
		s.recordAttempt(attempt)
		s.metrics.observeLoad(history.StatusFailed, elapsed, -1)

		s.logger.Error().
			Err(err).
			Str("url", url).
			Str("attempt_id", attempt.AttemptID.String()).
			Msg("failed to load medal data")

		return nil, &LoadError{URL: url, Err: err}
	}

	s.store.Replace(ds)
	s.setState(StateLoaded)
	span.SetAttributes(attribute.Int("countries", ds.Len()))

	attempt.Status = history.StatusLoaded
	attempt.Countries = ds.Len()
	s.recordAttempt(attempt)
	s.metrics.observeLoad(history.StatusLoaded, elapsed, ds.Len())

	s.logger.Info().
		Str("url", url).
		Str("attempt_id", attempt.AttemptID.String()).
		Int("countries", ds.Len()).
		Dur("elapsed", elapsed).
		Msg("medal data loaded")

	return &LoadSummary{
		AttemptID: attempt.AttemptID,
		URL:       url,
		Countries: ds.Len(),
		LoadedAt:  attempt.FinishedAt,
	}, nil
}

// load runs the pipeline without touching the store.
func (s *Service) load(ctx context.Context, url string) (*medals.Dataset, error) {
	if url == "" {
		return nil, ErrEmptyURL
	}

	s.setState(StateFetching)
	document, err := s.fetcher.Fetch(ctx, url, s.config.Headers)
	if err != nil {
		return nil, err
	}

	s.setState(StateParsing)
	table, err := discovery.ExtractTable(document, s.config.Table)
	if err != nil {
		return nil, err
	}

	if len(table.Rows) == 0 {
		s.logger.Warn().Str("url", url).Msg("no medal rows found in document")
	}

	return medals.BuildDataset(table.Rows, table.Columns)
}

func (s *Service) recordAttempt(attempt *history.Attempt) {
	if s.history == nil {
		return
	}
	if err := s.history.Record(attempt); err != nil {
		s.logger.Warn().
			Err(err).
			Str("attempt_id", attempt.AttemptID.String()).
			Msg("failed to record load attempt")
	}
}

// Current returns the loaded dataset, or false before the first successful
// load.
func (s *Service) Current() (*medals.Dataset, bool) {
	return s.store.Current()
}

// ListCountries returns the country names of the current dataset in table
// order. It is empty before the first successful load.
func (s *Service) ListCountries() []string {
	ds, _ := s.store.Current()
	return ds.Countries()
}

// GetRecord returns the first record for country in the current dataset.
func (s *Service) GetRecord(country string) (medals.Record, bool) {
	ds, _ := s.store.Current()
	return ds.Find(country)
}

// CountryDetail is GetRecord with the precondition failures spelled out:
// ErrNoDataset before any load, ErrCountryNotFound when nothing matches.
func (s *Service) CountryDetail(country string) (medals.Record, error) {
	ds, ok := s.store.Current()
	if !ok {
		return medals.Record{}, ErrNoDataset
	}

	record, found := ds.Find(country)
	if !found {
		return medals.Record{}, fmt.Errorf("%w: %s", ErrCountryNotFound, country)
	}

	return record, nil
}

// TopByTotal ranks the current dataset. It returns ErrNoDataset before the
// first successful load.
func (s *Service) TopByTotal(k int) (medals.RankedView, error) {
	ds, ok := s.store.Current()
	if !ok {
		return nil, ErrNoDataset
	}
	return medals.TopByTotal(ds, k)
}
