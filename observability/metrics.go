package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the screening engine
type Metrics struct {
	// Screening run metrics
	RunsTotal         *prometheus.CounterVec
	RunDuration       prometheus.Histogram
	TickersScreened   *prometheus.CounterVec
	LastQualifiedSize prometheus.Gauge

	// Per-ticker metrics
	TickerDuration  *prometheus.HistogramVec
	TickerFailures  *prometheus.CounterVec
	FinalScores     prometheus.Histogram
	ComponentScores *prometheus.HistogramVec

	// Universe metrics
	UniverseSize   *prometheus.GaugeVec
	UniverseSource *prometheus.CounterVec

	// External API metrics
	ExternalAPIRequestsTotal *prometheus.CounterVec
	ExternalAPIErrorsTotal   *prometheus.CounterVec
	ExternalAPIDuration      *prometheus.HistogramVec

	// Database metrics
	DBQueryDuration *prometheus.HistogramVec
	DBQueryTotal    *prometheus.CounterVec
	DBErrorsTotal   *prometheus.CounterVec

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Circuit breaker metrics
	CircuitBreakerState *prometheus.GaugeVec
	CircuitBreakerTrips *prometheus.CounterVec
}

// defaultBuckets are the default histogram buckets for duration metrics (in seconds)
var defaultBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}

// runBuckets cover whole screening runs, which span minutes for large universes
var runBuckets = []float64{1, 5, 15, 30, 60, 120, 300, 600, 1200, 1800, 3600}

// scoreBuckets are histogram buckets for 0-100 scores
var scoreBuckets = []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100}

// globalMetrics is the global metrics instance
var globalMetrics *Metrics

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)

	m := &Metrics{
		RunsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "stock_scout",
				Subsystem: "screening",
				Name:      "runs_total",
				Help:      "Total number of screening runs by terminal status",
			},
			[]string{"status"},
		),
		RunDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "stock_scout",
				Subsystem: "screening",
				Name:      "run_duration_seconds",
				Help:      "Duration of full screening runs in seconds",
				Buckets:   runBuckets,
			},
		),
		TickersScreened: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "stock_scout",
				Subsystem: "screening",
				Name:      "tickers_total",
				Help:      "Total number of tickers screened by outcome",
			},
			[]string{"outcome"},
		),
		LastQualifiedSize: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "stock_scout",
				Subsystem: "screening",
				Name:      "last_qualified_size",
				Help:      "Number of qualifying tickers in the most recent run",
			},
		),
		TickerDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "stock_scout",
				Subsystem: "screening",
				Name:      "ticker_duration_seconds",
				Help:      "Duration of per-ticker stages in seconds",
				Buckets:   defaultBuckets,
			},
			[]string{"stage"},
		),
		TickerFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "stock_scout",
				Subsystem: "screening",
				Name:      "ticker_failures_total",
				Help:      "Total number of per-ticker failures by reason",
			},
			[]string{"reason"},
		),
		FinalScores: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "stock_scout",
				Subsystem: "scoring",
				Name:      "final_score",
				Help:      "Distribution of final scores",
				Buckets:   scoreBuckets,
			},
		),
		ComponentScores: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "stock_scout",
				Subsystem: "scoring",
				Name:      "component_score",
				Help:      "Distribution of component scores",
				Buckets:   scoreBuckets,
			},
			[]string{"component"},
		),
		UniverseSize: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "stock_scout",
				Subsystem: "universe",
				Name:      "size",
				Help:      "Size of the most recently resolved universe by mode",
			},
			[]string{"mode"},
		),
		UniverseSource: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "stock_scout",
				Subsystem: "universe",
				Name:      "resolutions_total",
				Help:      "Universe resolutions by mode and supplying source",
			},
			[]string{"mode", "source"},
		),

		// External API metrics
		ExternalAPIRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "stock_scout",
				Subsystem: "external_api",
				Name:      "requests_total",
				Help:      "Total number of external API requests",
			},
			[]string{"service", "operation"},
		),
		ExternalAPIErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "stock_scout",
				Subsystem: "external_api",
				Name:      "errors_total",
				Help:      "Total number of external API errors",
			},
			[]string{"service", "operation", "error_type"},
		),
		ExternalAPIDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "stock_scout",
				Subsystem: "external_api",
				Name:      "duration_seconds",
				Help:      "Duration of external API calls in seconds",
				Buckets:   defaultBuckets,
			},
			[]string{"service", "operation"},
		),

		// Database metrics
		DBQueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "stock_scout",
				Subsystem: "database",
				Name:      "query_duration_seconds",
				Help:      "Duration of database queries in seconds",
				Buckets:   defaultBuckets,
			},
			[]string{"operation", "table"},
		),
		DBQueryTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "stock_scout",
				Subsystem: "database",
				Name:      "queries_total",
				Help:      "Total number of database queries",
			},
			[]string{"operation", "table"},
		),
		DBErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "stock_scout",
				Subsystem: "database",
				Name:      "errors_total",
				Help:      "Total number of database errors",
			},
			[]string{"operation", "table"},
		),

		// HTTP metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "stock_scout",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "stock_scout",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   defaultBuckets,
			},
			[]string{"method", "path"},
		),

		// Circuit breaker metrics
		CircuitBreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "stock_scout",
				Subsystem: "circuit_breaker",
				Name:      "state",
				Help:      "Current state of circuit breakers (0=closed, 1=half-open, 2=open)",
			},
			[]string{"service"},
		),
		CircuitBreakerTrips: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "stock_scout",
				Subsystem: "circuit_breaker",
				Name:      "trips_total",
				Help:      "Total number of circuit breaker trips",
			},
			[]string{"service"},
		),
	}

	return m
}

// InitMetrics initializes the global metrics instance
func InitMetrics() *Metrics {
	globalMetrics = NewMetrics(nil)
	return globalMetrics
}

// GetMetrics returns the global metrics instance
func GetMetrics() *Metrics {
	if globalMetrics == nil {
		return InitMetrics()
	}
	return globalMetrics
}

// RecordRun records a completed screening run
func (m *Metrics) RecordRun(status string, duration time.Duration, qualified int) {
	m.RunsTotal.WithLabelValues(status).Inc()
	m.RunDuration.Observe(duration.Seconds())
	m.LastQualifiedSize.Set(float64(qualified))
}

// RecordTicker records a screened ticker by outcome (qualified, below_threshold, failed)
func (m *Metrics) RecordTicker(outcome string) {
	m.TickersScreened.WithLabelValues(outcome).Inc()
}

// RecordTickerFailure records a per-ticker failure by reason
func (m *Metrics) RecordTickerFailure(reason string) {
	m.TickerFailures.WithLabelValues(reason).Inc()
}

// RecordScores records final and component score distributions
func (m *Metrics) RecordScores(final float64, components map[string]float64) {
	m.FinalScores.Observe(final)
	for component, score := range components {
		m.ComponentScores.WithLabelValues(component).Observe(score)
	}
}

// RecordUniverse records a resolved universe
func (m *Metrics) RecordUniverse(mode, source string, size int) {
	m.UniverseSize.WithLabelValues(mode).Set(float64(size))
	m.UniverseSource.WithLabelValues(mode, source).Inc()
}

// RecordExternalAPIRequest records an external API request
func (m *Metrics) RecordExternalAPIRequest(service, operation string) {
	m.ExternalAPIRequestsTotal.WithLabelValues(service, operation).Inc()
}

// RecordExternalAPIError records an external API error
func (m *Metrics) RecordExternalAPIError(service, operation, errorType string) {
	m.ExternalAPIErrorsTotal.WithLabelValues(service, operation, errorType).Inc()
}

// RecordExternalAPIDuration records the duration of an external API call
func (m *Metrics) RecordExternalAPIDuration(service, operation string, duration time.Duration) {
	m.ExternalAPIDuration.WithLabelValues(service, operation).Observe(duration.Seconds())
}

// RecordDBQuery records a database query
func (m *Metrics) RecordDBQuery(operation, table string, duration time.Duration) {
	m.DBQueryTotal.WithLabelValues(operation, table).Inc()
	m.DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

// RecordDBError records a database error
func (m *Metrics) RecordDBError(operation, table string) {
	m.DBErrorsTotal.WithLabelValues(operation, table).Inc()
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, statusCode string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, statusCode).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// SetCircuitBreakerState sets the current state of a circuit breaker
func (m *Metrics) SetCircuitBreakerState(service string, state int) {
	m.CircuitBreakerState.WithLabelValues(service).Set(float64(state))
}

// RecordCircuitBreakerTrip records a circuit breaker trip
func (m *Metrics) RecordCircuitBreakerTrip(service string) {
	m.CircuitBreakerTrips.WithLabelValues(service).Inc()
}

// Timer is a helper for timing operations
type Timer struct {
	start   time.Time
	metrics *Metrics
}

// NewTimer creates a new timer
func (m *Metrics) NewTimer() *Timer {
	return &Timer{
		start:   time.Now(),
		metrics: m,
	}
}

// ObserveTicker records the per-ticker stage duration
func (t *Timer) ObserveTicker(stage string) {
	t.metrics.TickerDuration.WithLabelValues(stage).Observe(time.Since(t.start).Seconds())
}

// ObserveExternalAPI records the external API duration
func (t *Timer) ObserveExternalAPI(service, operation string) {
	t.metrics.RecordExternalAPIDuration(service, operation, time.Since(t.start))
}

// ObserveDB records the database query duration
func (t *Timer) ObserveDB(operation, table string) {
	t.metrics.RecordDBQuery(operation, table, time.Since(t.start))
}

// Duration returns the elapsed time
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
