package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/i474232898/city-weather/internal/weather"
)

// Collector holds the service's Prometheus metrics. It satisfies
// weather.Recorder and providers.Observer.
type Collector struct {
	Lookups         *prometheus.CounterVec
	LookupDuration  *prometheus.HistogramVec
	UpstreamLatency *prometheus.HistogramVec
	UpstreamErrors  *prometheus.CounterVec
	ActiveSessions  prometheus.Gauge
}

// New registers the metrics on reg.
func New(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		Lookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "weather_lookups_total",
				Help: "The total number of city lookups by outcome",
			},
			[]string{"outcome"},
		),
		LookupDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "weather_lookup_duration_seconds",
				Help:    "End-to-end lookup duration (resolve + fetch) in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		UpstreamLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "weather_upstream_request_duration_seconds",
				Help:    "Provider request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider", "endpoint"},
		),
		UpstreamErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "weather_upstream_errors_total",
				Help: "The total number of failed provider requests",
			},
			[]string{"provider", "endpoint"},
		),
		ActiveSessions: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "weather_active_sessions",
				Help: "Number of live visitor sessions after the last sweep",
			},
		),
	}
}

func (c *Collector) ObserveLookup(outcome weather.Outcome, d time.Duration) {
	c.Lookups.WithLabelValues(string(outcome)).Inc()
	c.LookupDuration.WithLabelValues(string(outcome)).Observe(d.Seconds())
}

func (c *Collector) ObserveUpstream(provider, endpoint string, err error, d time.Duration) {
	c.UpstreamLatency.WithLabelValues(provider, endpoint).Observe(d.Seconds())
	if err != nil {
		c.UpstreamErrors.WithLabelValues(provider, endpoint).Inc()
	}
}

func (c *Collector) SetActiveSessions(n int) {
	c.ActiveSessions.Set(float64(n))
}
