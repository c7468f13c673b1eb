// Package metrics provides the centralized Prometheus registry for the API and job binaries.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nfl_bets",
		Name:      "http_requests_total",
		Help:      "Total number of API requests",
	}, []string{"method", "route", "status"})
	CircuitBreakerTripsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nfl_bets",
		Name:      "circuit_breaker_trips_total",
		Help:      "Total number of outbound circuit breaker trips",
	}, []string{"source"})
	OpportunityBroadcastsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "nfl_bets",
		Name:      "opportunity_broadcasts_total",
		Help:      "Total number of opportunity lists pushed to websocket clients",
	})
)

// Gauge metrics
var (
	WebsocketClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "nfl_bets",
		Name:      "websocket_clients",
		Help:      "Number of connected opportunity feed clients",
	})
	ValueOpportunities = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "nfl_bets",
		Name:      "value_opportunities",
		Help:      "Number of value opportunities in the latest evaluation",
	})
	LastJobSuccess = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "nfl_bets",
		Name:      "last_job_success_timestamp_seconds",
		Help:      "Unix time of the last daily pipeline run without step errors",
	})
)

// Histogram metrics
var (
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "nfl_bets",
		Name:      "http_request_duration_seconds",
		Help:      "Duration of API requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(HTTPRequestsTotal)
		registry.MustRegister(CircuitBreakerTripsTotal)
		registry.MustRegister(OpportunityBroadcastsTotal)

		registry.MustRegister(WebsocketClients)
		registry.MustRegister(ValueOpportunities)
		registry.MustRegister(LastJobSuccess)

		registry.MustRegister(HTTPRequestDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler. Package-level collectors
// registered with promauto (classifier, jobs) are served alongside the
// registry, together with the Go runtime collectors.
func Handler() http.Handler {
	gatherers := prometheus.Gatherers{GetRegistry(), prometheus.DefaultGatherer}
	return promhttp.HandlerFor(gatherers, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records a completed API request.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordCircuitBreakerTrip records a circuit breaker opening for source.
func RecordCircuitBreakerTrip(source string) {
	CircuitBreakerTripsTotal.WithLabelValues(source).Inc()
}

// RecordBroadcast records an opportunity list pushed to the feed.
func RecordBroadcast(opportunities int) {
	OpportunityBroadcastsTotal.Inc()
	ValueOpportunities.Set(float64(opportunities))
}

// SetWebsocketClients updates the connected client gauge.
func SetWebsocketClients(n int) {
	WebsocketClients.Set(float64(n))
}

// RecordJobSuccess stamps the last successful pipeline run.
func RecordJobSuccess(at time.Time) {
	LastJobSuccess.Set(float64(at.Unix()))
}
