package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/pevans/medalfed"
	"github.com/pevans/medalfed/config"
	"github.com/pevans/medalfed/history"
	"github.com/pevans/medalfed/medals"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool parses a bool from environment variable or returns default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func main() {
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Resolve()
	if err != nil {
		log.Warn().Err(err).Msg("failed to load config file, continuing with defaults")
		cfg = config.DefaultFileConfig()
	}

	// Flags take environment variable defaults, which take config file
	// defaults
	dsn := flag.String("history", getEnv("MEDALFED_HISTORY_DSN", cfg.Storage.History.DSN), "Path to history and preferences database (MEDALFED_HISTORY_DSN)")
	addr := flag.String("addr", getEnv("MEDALFED_ADDR", cfg.Server.Addr), "Listen address (MEDALFED_ADDR)")
	loadOnStart := flag.Bool("load-on-start", getEnvBool("MEDALFED_LOAD_ON_START", false), "Load the default URL before serving (MEDALFED_LOAD_ON_START)")
	flag.Parse()

	log.Info().Str("dsn", *dsn).Msg("opening history store")
	historyStore, err := history.NewStore(*dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open history store")
	}
	defer historyStore.Close()

	configStore, err := config.NewConfigStore(*dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open config store")
	}
	defer configStore.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	service := medalfed.NewServiceFromConfig(cfg, medals.NewStore(),
		medalfed.WithHistory(historyStore),
		medalfed.WithMetrics(medalfed.NewMetrics(registry)),
		medalfed.WithLogger(log.Logger),
	)

	defaults := medalfed.PreferenceDefaults(cfg)
	server := medalfed.NewAPIServer(service,
		medalfed.WithConfigStore(configStore),
		medalfed.WithPreferenceDefaults(defaults),
		medalfed.WithHistoryAPI(historyStore),
		medalfed.WithMetricsEndpoint(registry),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if *loadOnStart {
		url := defaults.DefaultURL
		if prefs, err := configStore.GetConfigWithDefaults(defaults); err == nil {
			url = prefs.DefaultURL
		}
		// A failed initial load leaves the server serving 409 until a
		// successful POST /api/v1/load
		if _, err := service.LoadFromURL(ctx, url); err != nil {
			log.Warn().Err(err).Str("url", url).Msg("initial load failed")
		}
	}

	httpServer := &http.Server{
		Addr:    *addr,
		Handler: server.SetupRouter(),
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info().Msgf("Starting medal API server on http://%s/api/v1", *addr)
		errChan <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down gracefully...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown timeout exceeded, forcing exit")
		}
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}
}
