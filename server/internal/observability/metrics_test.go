package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics(10)

	m.RecordRequest("/widget")
	m.RecordRequest("/widget")
	m.RecordRequest("/feed")
	m.RecordFailure("/widget")
	m.RecordRateLimited()
	m.RecordUpstreamError("timetable")
	m.RecordUpstreamError("timetable")
	m.RecordUpstreamError("homework")
	m.RecordDuration("/widget", 100*time.Millisecond)
	m.RecordDuration("/widget", 300*time.Millisecond)

	s := m.Snapshot()
	assert.Equal(t, int64(3), s.RequestTotal)
	assert.Equal(t, int64(1), s.RequestFailed)
	assert.Equal(t, int64(1), s.RateLimited)
	assert.Equal(t, int64(2), s.UpstreamErrors["timetable"])
	assert.Equal(t, int64(1), s.UpstreamErrors["homework"])

	require.Contains(t, s.Endpoints, "/widget")
	assert.Equal(t, int64(2), s.Endpoints["/widget"].RequestCount)
	assert.Equal(t, int64(1), s.Endpoints["/widget"].ErrorCount)
	assert.Equal(t, int64(200), s.Endpoints["/widget"].AverageDurationMs)

	assert.Equal(t, int64(200), s.AverageDurationMs)
	assert.Equal(t, 2, s.DurationSamples)
}

func TestMetricsDurationWindow(t *testing.T) {
	m := NewMetrics(3)

	for i := 0; i < 5; i++ {
		m.RecordDuration("/widget", time.Duration(i)*time.Millisecond)
	}

	s := m.Snapshot()
	assert.Equal(t, 3, s.DurationSamples)
	// Only the last three samples (2ms, 3ms, 4ms) remain.
	assert.Equal(t, int64(3), s.AverageDurationMs)
}

func TestMetricsPercentiles(t *testing.T) {
	m := NewMetrics(100)

	// Recorded out of order; Snapshot sorts before picking ranks.
	for _, ms := range []int{200, 10, 150, 50, 100} {
		m.RecordDuration("/widget", time.Duration(ms)*time.Millisecond)
	}

	s := m.Snapshot()
	assert.Equal(t, int64(100), s.P50DurationMs)
	assert.Equal(t, int64(200), s.P95DurationMs)

	empty := NewMetrics(10).Snapshot()
	assert.Zero(t, empty.P50DurationMs)
	assert.Zero(t, empty.P95DurationMs)
}

func TestMetricsSuccessRate(t *testing.T) {
	m := NewMetrics(10)

	assert.Equal(t, 100.0, m.Snapshot().SuccessRate())

	m.RecordRequest("/widget")
	m.RecordRequest("/widget")
	m.RecordRequest("/widget")
	m.RecordRequest("/widget")
	m.RecordFailure("/widget")

	assert.Equal(t, 75.0, m.Snapshot().SuccessRate())
}

func TestMetricsReset(t *testing.T) {
	m := NewMetrics(10)
	m.RecordRequest("/widget")
	m.RecordFailure("/widget")
	m.RecordUpstreamError("timetable")

	m.Reset()

	s := m.Snapshot()
	assert.Equal(t, int64(0), s.RequestTotal)
	assert.Equal(t, int64(0), s.RequestFailed)
	assert.Empty(t, s.UpstreamErrors)
	assert.Empty(t, s.Endpoints)
}
