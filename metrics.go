package medalfed

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for load invocations. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	loads        *prometheus.CounterVec
	loadDuration prometheus.Histogram
	countries    prometheus.Gauge
}

// NewMetrics registers the load collectors with registry.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		loads: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "medalfed",
			Name:      "loads_total",
			Help:      "Number of medal table load attempts by outcome.",
		}, []string{"status"}),
		loadDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "medalfed",
			Name:      "load_duration_seconds",
			Help:      "Time spent fetching and parsing a medal table.",
			Buckets:   prometheus.DefBuckets,
		}),
		countries: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "medalfed",
			Name:      "countries_loaded",
			Help:      "Number of countries in the current dataset.",
		}),
	}
}

// observeLoad records one invocation. countries < 0 leaves the gauge alone,
// since a failed load keeps the previous dataset.
func (m *Metrics) observeLoad(status string, elapsed time.Duration, countries int) {
	if m == nil {
		return
	}

	m.loads.WithLabelValues(status).Inc()
	m.loadDuration.Observe(elapsed.Seconds())
	if countries >= 0 {
		m.countries.Set(float64(countries))
	}
}
