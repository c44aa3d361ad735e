package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oxtobyd/panelplanner/internal/validation"
)

const namespace = "panelplanner"

// Metrics owns a private registry so tests can build as many as they like.
// Every method is safe on a nil receiver.
type Metrics struct {
	registry *prometheus.Registry

	validationRuns     *prometheus.CounterVec
	validationIssues   *prometheus.CounterVec
	validationDuration prometheus.Histogram
	holidayFetches     *prometheus.CounterVec
	holidaysLoaded     prometheus.Gauge
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
}

// New registers every collector plus the Go and process collectors.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.validationRuns = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "season_validations_total",
		Help:      "Season validation runs by outcome",
	}, []string{"outcome"})
	m.validationIssues = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "season_issues_total",
		Help:      "Issues reported by season validation, by rule and severity",
	}, []string{"rule", "severity"})
	m.validationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "season_validation_duration_seconds",
		Help:      "Time spent evaluating the season rules",
		Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
	})
	m.holidayFetches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bank_holiday_fetches_total",
		Help:      "Bank holiday feed fetch attempts by outcome",
	}, []string{"outcome"})
	m.holidaysLoaded = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "bank_holidays_loaded",
		Help:      "Number of bank holiday dates currently cached",
	})
	m.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})
	m.httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	m.registry.MustRegister(
		m.validationRuns, m.validationIssues, m.validationDuration,
		m.holidayFetches, m.holidaysLoaded,
		m.httpRequests, m.httpDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveValidation records one season validation run.
func (m *Metrics) ObserveValidation(issues []validation.Issue, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	if err != nil {
		m.validationRuns.WithLabelValues("input_error").Inc()
		return
	}
	m.validationRuns.WithLabelValues("ok").Inc()
	m.validationDuration.Observe(elapsed.Seconds())
	for _, is := range issues {
		m.validationIssues.WithLabelValues(string(is.Rule), string(is.Severity)).Inc()
	}
}

// ObserveHolidayFetch records a bank holiday feed attempt and the cache size
// after it.
func (m *Metrics) ObserveHolidayFetch(err error, loaded int) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.holidayFetches.WithLabelValues(outcome).Inc()
	m.holidaysLoaded.Set(float64(loaded))
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
