package service

import (
	"net/http"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/alumni-tracking-api/internal/models"
)

const metricsNamespace = "alumni_api"

// runningTotals backs the JSON snapshot; Prometheus keeps the full series.
type runningTotals struct {
	requests     atomic.Uint64
	requestNanos atomic.Uint64
	serverErrors atomic.Uint64
	cacheHits    atomic.Uint64
	cacheMisses  atomic.Uint64
	dbQueries    atomic.Uint64
	dbQueryNanos atomic.Uint64
}

// MetricsService owns the Prometheus registry and keeps running totals for
// the JSON snapshot served to administrators. A nil *MetricsService is a no-op.
type MetricsService struct {
	registry *prometheus.Registry
	handler  http.Handler

	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	cacheLookups  *prometheus.CounterVec
	cacheLookup   prometheus.Histogram
	cacheWrite    prometheus.Histogram
	cacheHitRatio prometheus.Gauge
	dbQuery       *prometheus.HistogramVec
	mutations     *prometheus.CounterVec

	totals    runningTotals
	startedAt time.Time
	now       func() time.Time
}

// NewMetricsService registers the API collectors plus the Go runtime and process collectors.
func NewMetricsService() *MetricsService {
	m := &MetricsService{
		registry:  prometheus.NewRegistry(),
		startedAt: time.Now(),
		now:       time.Now,
	}

	m.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route template and status.",
	}, []string{"method", "route", "status"})
	m.httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
	m.cacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "analytics_cache_lookups_total",
		Help:      "Analytics cache lookups by result.",
	}, []string{"result"})
	m.cacheLookup = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "analytics_cache_lookup_seconds",
		Help:      "Analytics cache read latency.",
		Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1},
	})
	m.cacheWrite = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "analytics_cache_write_seconds",
		Help:      "Analytics cache write latency.",
		Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1},
	})
	m.cacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "analytics_cache_hit_ratio",
		Help:      "Share of analytics cache lookups served from cache.",
	})
	m.dbQuery = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "db_query_duration_seconds",
		Help:      "Latency of instrumented store calls.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"query"})
	m.mutations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "alumni_mutations_total",
		Help:      "Alumni records created, updated or deleted.",
	}, []string{"operation"})

	m.registry.MustRegister(
		m.httpRequests, m.httpDuration,
		m.cacheLookups, m.cacheLookup, m.cacheWrite, m.cacheHitRatio,
		m.dbQuery, m.mutations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m.handler = promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return m
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

// ObserveHTTPRequest records one served request. route should be the router
// template, not the raw path, to keep label cardinality bounded.
func (m *MetricsService) ObserveHTTPRequest(method, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
	m.totals.requests.Add(1)
	m.totals.requestNanos.Add(uint64(duration.Nanoseconds()))
	if status >= http.StatusInternalServerError {
		m.totals.serverErrors.Add(1)
	}
}

// RecordAlumniMutation counts a successful create, update or delete.
func (m *MetricsService) RecordAlumniMutation(operation string) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(operation).Inc()
}

// RecordCacheOperation records an analytics cache lookup.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLookup.Observe(duration.Seconds())
	result := "miss"
	if hit {
		result = "hit"
		m.totals.cacheHits.Add(1)
	} else {
		m.totals.cacheMisses.Add(1)
	}
	m.cacheLookups.WithLabelValues(result).Inc()
	m.cacheHitRatio.Set(ratio(m.totals.cacheHits.Load(), m.totals.cacheMisses.Load()))
}

// ObserveCacheWrite tracks the duration of a cache write.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveDBQuery records the latency of a labelled store call.
func (m *MetricsService) ObserveDBQuery(label string, duration time.Duration) {
	if m == nil {
		return
	}
	m.dbQuery.WithLabelValues(label).Observe(duration.Seconds())
	m.totals.dbQueries.Add(1)
	m.totals.dbQueryNanos.Add(uint64(duration.Nanoseconds()))
}

// Snapshot returns the running totals for the system analytics endpoint.
func (m *MetricsService) Snapshot() models.SystemMetrics {
	if m == nil {
		return models.SystemMetrics{}
	}
	hits, misses := m.totals.cacheHits.Load(), m.totals.cacheMisses.Load()
	requests := m.totals.requests.Load()
	queries := m.totals.dbQueries.Load()
	now := m.now()

	return models.SystemMetrics{
		RequestsTotal:            requests,
		ErrorResponses:           m.totals.serverErrors.Load(),
		AverageRequestDurationMs: averageMillis(m.totals.requestNanos.Load(), requests),
		DBQueryCount:             queries,
		AverageDBQueryDurationMs: averageMillis(m.totals.dbQueryNanos.Load(), queries),
		CacheHits:                hits,
		CacheMisses:              misses,
		CacheHitRatio:            ratio(hits, misses),
		Goroutines:               runtime.NumGoroutine(),
		UptimeSeconds:            now.Sub(m.startedAt).Seconds(),
		GeneratedAt:              now.UTC(),
	}
}

func ratio(hits, misses uint64) float64 {
	if hits+misses == 0 {
		return 0
	}
	return float64(hits) / float64(hits+misses)
}

func averageMillis(totalNanos, count uint64) float64 {
	if count == 0 {
		return 0
	}
	return float64(totalNanos) / float64(count) / float64(time.Millisecond)
}
