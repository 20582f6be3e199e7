package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/student-mental-health-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for API consumption.
// Every method is safe on a nil receiver.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	cacheHitRatio   prometheus.Gauge
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	renderDuration  *prometheus.HistogramVec
	staleRenders    *prometheus.CounterVec
	selections      *prometheus.CounterVec
	hoverEvents     *prometheus.CounterVec
	viewChanges     *prometheus.CounterVec
	skippedRows     prometheus.Counter

	cacheHitCount        uint64
	cacheMissCount       uint64
	requestCount         uint64
	requestDurationTotal uint64
	renderCount          uint64
	renderDurationTotal  uint64
	staleRenderCount     uint64
	selectionCount       uint64
	hoverCount           uint64
}

// NewMetricsService registers core Prometheus collectors.
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

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cache_hit_ratio",
		Help: "Ratio of cache hits to total cache lookups",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	renderDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "chart_render_duration_seconds",
		Help:    "Duration of chart renders",
		Buckets: prometheus.DefBuckets,
	}, []string{"chart"})

	staleRenders := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "chart_stale_renders_total",
		Help: "Renders dropped because the chart was remounted",
	}, []string{"chart"})

	selections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_selections_total",
		Help: "Filter selections by dimension and action",
	}, []string{"dimension", "action"})

	hoverEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_hover_events_total",
		Help: "Hovered elements by element kind",
	}, []string{"kind"})

	viewChanges := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "dashboard_view_changes_total",
		Help: "Active view changes by target view",
	}, []string{"view"})

	skippedRows := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "dataset_skipped_rows_total",
		Help: "Malformed dataset rows skipped while loading",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheHitRatio, cacheHits, cacheMisses,
		renderDuration, staleRenders, selections, hoverEvents, viewChanges, skippedRows, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheLatency:    cacheLatency,
		cacheWrite:      cacheWrite,
		cacheHitRatio:   cacheHitRatio,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
		renderDuration:  renderDuration,
		staleRenders:    staleRenders,
		selections:      selections,
		hoverEvents:     hoverEvents,
		viewChanges:     viewChanges,
		skippedRows:     skippedRows,
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

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationTotal, uint64(duration.Nanoseconds()))
}

// RecordCacheOperation records cache hit/miss metrics and updates hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	if m.cacheLatency != nil {
		m.cacheLatency.Observe(duration.Seconds())
	}
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	total := hits + misses
	if total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil || m.cacheWrite == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveRender records a completed chart render.
func (m *MetricsService) ObserveRender(chart string, duration time.Duration) {
	if m == nil {
		return
	}
	m.renderDuration.WithLabelValues(chart).Observe(duration.Seconds())
	atomic.AddUint64(&m.renderCount, 1)
	atomic.AddUint64(&m.renderDurationTotal, uint64(duration.Nanoseconds()))
}

// RecordStaleRender counts a render dropped after a remount.
func (m *MetricsService) RecordStaleRender(chart string) {
	if m == nil {
		return
	}
	m.staleRenders.WithLabelValues(chart).Inc()
	atomic.AddUint64(&m.staleRenderCount, 1)
}

// RecordSelection counts a filter mutation.
func (m *MetricsService) RecordSelection(dimension, action string) {
	if m == nil {
		return
	}
	m.selections.WithLabelValues(dimension, action).Inc()
	atomic.AddUint64(&m.selectionCount, 1)
}

// RecordHover counts a hovered element.
func (m *MetricsService) RecordHover(kind string) {
	if m == nil {
		return
	}
	m.hoverEvents.WithLabelValues(kind).Inc()
	atomic.AddUint64(&m.hoverCount, 1)
}

// RecordViewChange counts a switch of the active view.
func (m *MetricsService) RecordViewChange(view string) {
	if m == nil {
		return
	}
	m.viewChanges.WithLabelValues(view).Inc()
}

// RecordSkippedRows counts malformed dataset rows.
func (m *MetricsService) RecordSkippedRows(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.skippedRows.Add(float64(n))
}

// Snapshot returns aggregated metrics suitable for the metrics summary endpoint.
func (m *MetricsService) Snapshot() models.SystemMetrics {
	if m == nil {
		return models.SystemMetrics{}
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	requests := atomic.LoadUint64(&m.requestCount)
	reqDuration := atomic.LoadUint64(&m.requestDurationTotal)
	renders := atomic.LoadUint64(&m.renderCount)
	renderDuration := atomic.LoadUint64(&m.renderDurationTotal)

	var cacheRatio float64
	totalLookups := hits + misses
	if totalLookups > 0 {
		cacheRatio = float64(hits) / float64(totalLookups)
	}

	var avgRequestMs float64
	if requests > 0 {
		avgRequestMs = float64(reqDuration) / float64(requests) / float64(time.Millisecond)
	}

	var avgRenderMs float64
	if renders > 0 {
		avgRenderMs = float64(renderDuration) / float64(renders) / float64(time.Millisecond)
	}

	return models.SystemMetrics{
		CacheHitRatio:            cacheRatio,
		CacheHits:                hits,
		CacheMisses:              misses,
		RequestsTotal:            requests,
		AverageRequestDurationMs: avgRequestMs,
		Renders:                  renders,
		AverageRenderDurationMs:  avgRenderMs,
		StaleRenders:             atomic.LoadUint64(&m.staleRenderCount),
		Selections:               atomic.LoadUint64(&m.selectionCount),
		HoverEvents:              atomic.LoadUint64(&m.hoverCount),
		Goroutines:               runtime.NumGoroutine(),
		GeneratedAt:              time.Now().UTC(),
	}
}
