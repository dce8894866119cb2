package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/schoolglance/server/internal/observability"
)

// HealthzResponse is the liveness payload.
type HealthzResponse struct {
	Status     string `json:"status"`
	Version    string `json:"version"`
	InstanceID string `json:"instance_id"`
	Timezone   string `json:"timezone"`
}

// GetHealthz reports liveness. It never calls Satchel, so a healthy server
// with a broken upstream still answers ok here.
// GET /healthz
func (s *APIV1Service) GetHealthz(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthzResponse{
		Status:     "ok",
		Version:    s.Profile.Version,
		InstanceID: s.instanceID,
		Timezone:   s.Profile.Timezone,
	})
}

// MetricsOverviewResponse summarises the in-process request counters.
type MetricsOverviewResponse struct {
	TotalRequests  int64                                      `json:"total_requests"`
	SuccessRate    float64                                    `json:"success_rate"`
	ErrorCount     int64                                      `json:"error_count"`
	RateLimited    int64                                      `json:"rate_limited"`
	AvgLatencyMs   int64                                      `json:"avg_latency_ms"`
	P50LatencyMs   int64                                      `json:"p50_latency_ms"`
	P95LatencyMs   int64                                      `json:"p95_latency_ms"`
	UpstreamErrors map[string]int64                           `json:"upstream_errors"`
	Endpoints      map[string]*observability.EndpointSnapshot `json:"endpoints"`
}

// GetMetricsOverview returns the request counters since the last restart.
// GET /metrics
func (s *APIV1Service) GetMetricsOverview(c echo.Context) error {
	snapshot := s.Metrics.Snapshot()
	return c.JSON(http.StatusOK, MetricsOverviewResponse{
		TotalRequests:  snapshot.RequestTotal,
		SuccessRate:    snapshot.SuccessRate(),
		ErrorCount:     snapshot.RequestFailed,
		RateLimited:    snapshot.RateLimited,
		AvgLatencyMs:   snapshot.AverageDurationMs,
		P50LatencyMs:   snapshot.P50DurationMs,
		P95LatencyMs:   snapshot.P95DurationMs,
		UpstreamErrors: snapshot.UpstreamErrors,
		Endpoints:      snapshot.Endpoints,
	})
}
