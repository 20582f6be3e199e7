package models

import "time"

// SystemMetrics is a point in time summary of the instrumentation counters.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	Renders                  uint64    `json:"renders"`
	AverageRenderDurationMs  float64   `json:"average_render_duration_ms"`
	StaleRenders             uint64    `json:"stale_renders"`
	Selections               uint64    `json:"selections"`
	HoverEvents              uint64    `json:"hover_events"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
