package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API and the scheduler.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLookups    *prometheus.CounterVec
	cacheLatency    prometheus.Observer

	generationRuns     *prometheus.CounterVec
	generationDuration prometheus.Observer
	sessionsGenerated  prometheus.Counter
	sessionsShortfall  prometheus.Counter
	jobsTotal          *prometheus.CounterVec
	jobsInFlight       prometheus.Gauge
}

// NewMetricsService registers the collectors on a dedicated registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cache_lookups_total",
		Help: "Cache lookups by result",
	}, []string{"result"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache operations",
		Buckets: prometheus.DefBuckets,
	})

	generationRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scheduler_generation_runs_total",
		Help: "Schedule generation runs by outcome",
	}, []string{"outcome"})

	generationDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "scheduler_generation_duration_seconds",
		Help:    "Wall time of schedule generation runs",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	})

	sessionsGenerated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scheduler_sessions_generated_total",
		Help: "Sessions persisted by successful generation runs",
	})

	sessionsShortfall := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "scheduler_sessions_shortfall_total",
		Help: "Requested sessions that could not be placed",
	})

	jobsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scheduler_jobs_total",
		Help: "Asynchronous generation jobs by final status",
	}, []string{"status"})

	jobsInFlight := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "scheduler_jobs_in_flight",
		Help: "Asynchronous generation jobs currently running",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(
		requestDuration, requestTotal, cacheLookups, cacheLatency,
		generationRuns, generationDuration, sessionsGenerated, sessionsShortfall,
		jobsTotal, jobsInFlight, goroutines,
	)

	return &MetricsService{
		registry:           registry,
		handler:            promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:    requestDuration,
		requestTotal:       requestTotal,
		cacheLookups:       cacheLookups,
		cacheLatency:       cacheLatency,
		generationRuns:     generationRuns,
		generationDuration: generationDuration,
		sessionsGenerated:  sessionsGenerated,
		sessionsShortfall:  sessionsShortfall,
		jobsTotal:          jobsTotal,
		jobsInFlight:       jobsInFlight,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry returns the underlying registry, mainly for tests.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records a cache lookup.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// ObserveGeneration records one generation run.
func (m *MetricsService) ObserveGeneration(outcome string, sessions, shortfall int, duration time.Duration) {
	if m == nil {
		return
	}
	m.generationRuns.WithLabelValues(outcome).Inc()
	m.generationDuration.Observe(duration.Seconds())
	if sessions > 0 {
		m.sessionsGenerated.Add(float64(sessions))
	}
	if shortfall > 0 {
		m.sessionsShortfall.Add(float64(shortfall))
	}
}

// JobStarted marks an asynchronous job as running.
func (m *MetricsService) JobStarted() {
	if m == nil {
		return
	}
	m.jobsInFlight.Inc()
}

// JobFinished records the final status of an asynchronous job.
func (m *MetricsService) JobFinished(status string) {
	if m == nil {
		return
	}
	m.jobsInFlight.Dec()
	m.jobsTotal.WithLabelValues(status).Inc()
}
