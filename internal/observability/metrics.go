package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the service.
type Metrics struct {
	PredictionRequests *prometheus.CounterVec   // labels: category, outcome
	ModelDuration      *prometheus.HistogramVec // labels: kind={prediction,probe}
	ConnectivityStatus prometheus.Gauge
	Probes             *prometheus.CounterVec // labels: result={connected,offline,credential,network,failed}

	// Weather metrics.
	WeatherRequests *prometheus.CounterVec // labels: outcome={success,error}
	WeatherCache    *prometheus.CounterVec // labels: result={hit,miss}
	WeatherEnabled  prometheus.Gauge

	EventsPublished *prometheus.CounterVec // labels: outcome={success,error}
}

func newMetrics() *Metrics {
	return &Metrics{
		PredictionRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "disaster_risk",
			Name:      "prediction_requests_total",
			Help:      "Prediction requests by category and outcome.",
		}, []string{"category", "outcome"}),
		ModelDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "disaster_risk",
			Name:      "model_request_duration_seconds",
			Help:      "Language model call duration in seconds.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"kind"}),
		ConnectivityStatus: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "disaster_risk",
			Name:      "connectivity_status",
			Help:      "1 when the last model probe succeeded, 0 otherwise.",
		}),
		Probes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "disaster_risk",
			Name:      "probes_total",
			Help:      "Connectivity probes by result.",
		}, []string{"result"}),
		WeatherRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "disaster_risk",
			Name:      "weather_requests_total",
			Help:      "Weather provider requests by outcome.",
		}, []string{"outcome"}),
		WeatherCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "disaster_risk",
			Name:      "weather_cache_total",
			Help:      "Weather cache lookups by result.",
		}, []string{"result"}),
		WeatherEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "disaster_risk",
			Name:      "weather_enabled",
			Help:      "1 when the weather provider is configured, 0 otherwise.",
		}),
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "disaster_risk",
			Name:      "events_published_total",
			Help:      "Prediction events written to Kafka by outcome.",
		}, []string{"outcome"}),
	}
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.PredictionRequests,
		m.ModelDuration,
		m.ConnectivityStatus,
		m.Probes,
		m.WeatherRequests,
		m.WeatherCache,
		m.WeatherEnabled,
		m.EventsPublished,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}
