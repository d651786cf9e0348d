package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/pevans/medalfed"
	"github.com/pevans/medalfed/config"
	"github.com/pevans/medalfed/history"
	"github.com/pevans/medalfed/medals"
	"github.com/rs/zerolog/log"
)

// app holds the stores and service shared by every command.
type app struct {
	cfg     *config.FileConfig
	history *history.Store
	prefs   *config.ConfigStore
	service *medalfed.Service
}

// openApp loads configuration with precedence:
// 1. Environment variables (highest priority)
// 2. Configuration file (~/.medalfed/config.yaml)
// 3. Default values (lowest priority)
func openApp() (*app, error) {
	cfg, err := config.Resolve()
	if err != nil {
		log.Warn().Err(err).Msg("failed to load config file, continuing with defaults")
		cfg = config.DefaultFileConfig()
	}

	dsn := getEnv("MEDALFED_HISTORY_DSN", cfg.Storage.History.DSN)

	historyStore, err := history.NewStore(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history store: %w", err)
	}

	prefs, err := config.NewConfigStore(dsn)
	if err != nil {
		historyStore.Close()
		return nil, fmt.Errorf("failed to open config store: %w", err)
	}

	service := medalfed.NewServiceFromConfig(cfg, medals.NewStore(),
		medalfed.WithHistory(historyStore),
		medalfed.WithLogger(log.Logger),
	)

	return &app{
		cfg:     cfg,
		history: historyStore,
		prefs:   prefs,
		service: service,
	}, nil
}

// Close releases both database handles.
func (a *app) Close() {
	if err := a.prefs.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close config store")
	}
	if err := a.history.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close history store")
	}
}

// preferences returns stored preferences layered over the config file.
func (a *app) preferences() config.Config {
	defaults := medalfed.PreferenceDefaults(a.cfg)

	cfg, err := a.prefs.GetConfigWithDefaults(defaults)
	if err != nil {
		log.Warn().Err(err).Msg("failed to read preferences, using defaults")
		return defaults
	}
	return *cfg
}

// load fetches the table at url, or at the preferred URL when url is
// blank.
func (a *app) load(ctx context.Context, url string) (*medalfed.LoadSummary, error) {
	url = resolveURL(url, a.preferences().DefaultURL)
	log.Debug().Str("url", url).Msg("loading medal table")

	return a.service.LoadFromURL(ctx, url)
}

// resolveURL returns the explicit URL when one was given.
func resolveURL(explicit, preferred string) string {
	if url := strings.TrimSpace(explicit); url != "" {
		return url
	}
	return preferred
}

// withApp opens the app, runs fn and closes it.
func withApp(fn func(a *app) error) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	return fn(a)
}
