package palette

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the catalog's Prometheus collectors. A nil *Metrics records
// nothing.
type Metrics struct {
	cacheEntries           prometheus.Gauge
	palettesGeneratedTotal *prometheus.CounterVec
	searchDurationSeconds  *prometheus.HistogramVec
}

// NewMetrics creates catalog collectors and registers them with reg.
// Registering twice on the same registry panics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		cacheEntries: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "coloredin",
			Subsystem: "catalog",
			Name:      "cache_entries",
			Help:      "Number of memoized catalog palettes.",
		}),
		palettesGeneratedTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coloredin",
			Subsystem: "catalog",
			Name:      "palettes_generated_total",
			Help:      "Total palettes generated on cache miss, by scheme.",
		}, []string{"scheme"}),
		searchDurationSeconds: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "coloredin",
			Subsystem: "catalog",
			Name:      "search_duration_seconds",
			Help:      "Catalog scan duration in seconds, by scope.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"scope"}),
	}
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns collectors registered on the default Prometheus
// registry, creating them on first use.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		defaultMetrics = NewMetrics(prometheus.DefaultRegisterer)
	})
	return defaultMetrics
}

func (m *Metrics) generated(scheme Scheme, cacheSize int) {
	if m == nil {
		return
	}
	m.palettesGeneratedTotal.WithLabelValues(string(scheme)).Inc()
	m.cacheEntries.Set(float64(cacheSize))
}

func (m *Metrics) reset() {
	if m == nil {
		return
	}
	m.cacheEntries.Set(0)
}

func (m *Metrics) observeSearch(scope string, seconds float64) {
	if m == nil {
		return
	}
	m.searchDurationSeconds.WithLabelValues(scope).Observe(seconds)
}
