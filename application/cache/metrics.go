package cache

import (
	"sync"
	"time"
)

// latencyTarget is the response-time budget requests are measured against.
const latencyTarget = 200 * time.Millisecond

// PerformanceMetrics accumulates request latency statistics. Updates are
// O(1) and guarded by a dedicated mutex so they never block the data paths.
type PerformanceMetrics struct {
	mu            sync.Mutex
	totalRequests int64
	totalLatency  time.Duration
	minLatency    time.Duration
	maxLatency    time.Duration
	underTarget   int64
}

// NewPerformanceMetrics creates an empty metrics accumulator.
func NewPerformanceMetrics() *PerformanceMetrics {
	return &PerformanceMetrics{}
}

// Record adds one request latency measurement.
func (m *PerformanceMetrics) Record(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.totalRequests == 0 || d < m.minLatency {
		m.minLatency = d
	}
	if d > m.maxLatency {
		m.maxLatency = d
	}
	m.totalRequests++
	m.totalLatency += d
	if d < latencyTarget {
		m.underTarget++
	}
}

// PerformanceStats is the exported view of the accumulated metrics.
type PerformanceStats struct {
	TotalRequests         int64   `json:"total_requests"`
	AverageResponseTimeMS float64 `json:"average_response_time_ms"`
	MinResponseTimeMS     float64 `json:"min_response_time_ms"`
	MaxResponseTimeMS     float64 `json:"max_response_time_ms"`
	RequestsUnderTarget   int64   `json:"requests_under_200ms"`
	PerformancePercentage float64 `json:"performance_percentage"`
}

// Snapshot returns the current statistics. With no requests recorded the
// percentage reads 100 so an idle service does not look unhealthy.
func (m *PerformanceMetrics) Snapshot() PerformanceStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := PerformanceStats{
		TotalRequests:         m.totalRequests,
		RequestsUnderTarget:   m.underTarget,
		PerformancePercentage: 100,
	}
	if m.totalRequests == 0 {
		return stats
	}

	stats.AverageResponseTimeMS = float64(m.totalLatency.Microseconds()) / float64(m.totalRequests) / 1000
	stats.MinResponseTimeMS = float64(m.minLatency.Microseconds()) / 1000
	stats.MaxResponseTimeMS = float64(m.maxLatency.Microseconds()) / 1000
	stats.PerformancePercentage = float64(m.underTarget) / float64(m.totalRequests) * 100
	return stats
}
