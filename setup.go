package medalfed

import (
	"maps"

	"github.com/pevans/medalfed/config"
	"github.com/pevans/medalfed/discovery"
	"github.com/pevans/medalfed/medals"
)

// ServiceConfigFromFile derives request headers and table layout from the
// config file. A configured user agent replaces the browser default.
func ServiceConfigFromFile(cfg *config.FileConfig) *ServiceConfig {
	sc := DefaultServiceConfig()
	if cfg == nil {
		return sc
	}

	sc.Headers = maps.Clone(sc.Headers)
	if cfg.Source.UserAgent != "" {
		sc.Headers["User-Agent"] = cfg.Source.UserAgent
	}
	sc.Table = cfg.Source.Table.WithDefaults()

	return sc
}

// NewServiceFromConfig builds a Service with a resty fetcher and the
// settings from cfg. Extra options are applied after the config.
func NewServiceFromConfig(cfg *config.FileConfig, store *medals.Store, opts ...Option) *Service {
	if cfg == nil {
		cfg = config.DefaultFileConfig()
	}

	fetcher := discovery.NewFetcher(cfg.Source.Timeout)
	opts = append([]Option{WithConfig(ServiceConfigFromFile(cfg))}, opts...)

	return NewService(fetcher, store, opts...)
}

// PreferenceDefaults returns the preference values implied by the config
// file, used wherever stored preferences are unset.
func PreferenceDefaults(cfg *config.FileConfig) config.Config {
	defaults := config.Config{
		DefaultURL: config.DefaultURL,
		TopK:       medals.DefaultTopK,
	}
	if cfg == nil {
		return defaults
	}
	if cfg.Source.URL != "" {
		defaults.DefaultURL = cfg.Source.URL
	}
	if cfg.Ranking.TopK > 0 {
		defaults.TopK = cfg.Ranking.TopK
	}
	return defaults
}
