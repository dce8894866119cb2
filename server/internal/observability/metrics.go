package observability

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics collects counters for the widget server.
type Metrics struct {
	mu sync.Mutex

	requestTotal  atomic.Int64
	requestFailed atomic.Int64
	rateLimited   atomic.Int64

	// Upstream fetch failures keyed by source ("timetable", "homework").
	upstreamErrors map[string]*atomic.Int64

	// Per-endpoint counters keyed by route path.
	endpointMetrics map[string]*EndpointMetrics

	// Sliding window of recent request durations.
	durations    []time.Duration
	maxDurations int
}

// EndpointMetrics represents counters for a single route.
type EndpointMetrics struct {
	requestCount    atomic.Int64
	errorCount      atomic.Int64
	totalDurationMs atomic.Int64
}

// NewMetrics creates a new metrics collector keeping at most maxDurations
// recent request durations.
func NewMetrics(maxDurations int) *Metrics {
	if maxDurations <= 0 {
		maxDurations = 1000
	}
	return &Metrics{
		upstreamErrors:  make(map[string]*atomic.Int64),
		endpointMetrics: make(map[string]*EndpointMetrics),
		durations:       make([]time.Duration, 0, maxDurations),
		maxDurations:    maxDurations,
	}
}

// Global metrics instance.
var globalMetrics = NewMetrics(1000)

// GlobalMetrics returns the global metrics instance.
func GlobalMetrics() *Metrics {
	return globalMetrics
}

// RecordRequest records an inbound request against an endpoint.
func (m *Metrics) RecordRequest(endpoint string) {
	m.requestTotal.Add(1)
	m.getEndpointMetrics(endpoint).requestCount.Add(1)
}

// RecordFailure records a failed request against an endpoint.
func (m *Metrics) RecordFailure(endpoint string) {
	m.requestFailed.Add(1)
	m.getEndpointMetrics(endpoint).errorCount.Add(1)
}

// RecordRateLimited records a request rejected by the rate limiter.
func (m *Metrics) RecordRateLimited() {
	m.rateLimited.Add(1)
}

// RecordUpstreamError records a failed upstream fetch by source.
func (m *Metrics) RecordUpstreamError(source string) {
	m.mu.Lock()
	counter, ok := m.upstreamErrors[source]
	if !ok {
		counter = &atomic.Int64{}
		m.upstreamErrors[source] = counter
	}
	m.mu.Unlock()
	counter.Add(1)
}

// RecordDuration records a request duration against an endpoint.
func (m *Metrics) RecordDuration(endpoint string, duration time.Duration) {
	m.mu.Lock()
	if len(m.durations) >= m.maxDurations {
		m.durations = m.durations[1:]
	}
	m.durations = append(m.durations, duration)
	m.mu.Unlock()

	m.getEndpointMetrics(endpoint).totalDurationMs.Add(duration.Milliseconds())
}

// getEndpointMetrics gets or creates the counters for an endpoint.
func (m *Metrics) getEndpointMetrics(endpoint string) *EndpointMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	em, ok := m.endpointMetrics[endpoint]
	if !ok {
		em = &EndpointMetrics{}
		m.endpointMetrics[endpoint] = em
	}
	return em
}

// Reset resets all metrics. Used by tests.
func (m *Metrics) Reset() {
	m.requestTotal.Store(0)
	m.requestFailed.Store(0)
	m.rateLimited.Store(0)

	m.mu.Lock()
	m.upstreamErrors = make(map[string]*atomic.Int64)
	m.endpointMetrics = make(map[string]*EndpointMetrics)
	m.durations = make([]time.Duration, 0, m.maxDurations)
	m.mu.Unlock()
}

// Snapshot returns a point-in-time copy of all counters.
func (m *Metrics) Snapshot() *MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	endpoints := make(map[string]*EndpointSnapshot, len(m.endpointMetrics))
	for endpoint, em := range m.endpointMetrics {
		count := em.requestCount.Load()
		snapshot := &EndpointSnapshot{
			RequestCount: count,
			ErrorCount:   em.errorCount.Load(),
		}
		if count > 0 {
			snapshot.AverageDurationMs = em.totalDurationMs.Load() / count
		}
		endpoints[endpoint] = snapshot
	}

	upstream := make(map[string]int64, len(m.upstreamErrors))
	for source, counter := range m.upstreamErrors {
		upstream[source] = counter.Load()
	}

	var totalDuration time.Duration
	for _, d := range m.durations {
		totalDuration += d
	}
	var averageMs int64
	if len(m.durations) > 0 {
		averageMs = (totalDuration / time.Duration(len(m.durations))).Milliseconds()
	}

	sorted := make([]time.Duration, len(m.durations))
	copy(sorted, m.durations)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	return &MetricsSnapshot{
		RequestTotal:      m.requestTotal.Load(),
		RequestFailed:     m.requestFailed.Load(),
		RateLimited:       m.rateLimited.Load(),
		UpstreamErrors:    upstream,
		Endpoints:         endpoints,
		AverageDurationMs: averageMs,
		P50DurationMs:     percentile(sorted, 50).Milliseconds(),
		P95DurationMs:     percentile(sorted, 95).Milliseconds(),
		DurationSamples:   len(m.durations),
	}
}

// percentile returns the pct-th percentile of sorted samples by nearest rank.
func percentile(sorted []time.Duration, pct int) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := len(sorted) * pct / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// MetricsSnapshot represents a point-in-time snapshot of metrics.
type MetricsSnapshot struct {
	RequestTotal      int64                        `json:"request_total"`
	RequestFailed     int64                        `json:"request_failed"`
	RateLimited       int64                        `json:"rate_limited"`
	UpstreamErrors    map[string]int64             `json:"upstream_errors"`
	Endpoints         map[string]*EndpointSnapshot `json:"endpoints"`
	AverageDurationMs int64                        `json:"average_duration_ms"`
	P50DurationMs     int64                        `json:"p50_duration_ms"`
	P95DurationMs     int64                        `json:"p95_duration_ms"`
	DurationSamples   int                          `json:"duration_samples"`
}

// EndpointSnapshot represents counters for a single route.
type EndpointSnapshot struct {
	RequestCount      int64 `json:"request_count"`
	ErrorCount        int64 `json:"error_count"`
	AverageDurationMs int64 `json:"average_duration_ms"`
}

// SuccessRate returns the success rate as a percentage (0-100).
func (s *MetricsSnapshot) SuccessRate() float64 {
	if s.RequestTotal == 0 {
		return 100.0
	}
	return float64(s.RequestTotal-s.RequestFailed) / float64(s.RequestTotal) * 100.0
}
