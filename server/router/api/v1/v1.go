// Package v1 exposes the widget HTTP API: the widget record itself, an RSS
// feed of upcoming homework, and the monitoring routes.
package v1

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hrygo/schoolglance/internal/profile"
	"github.com/hrygo/schoolglance/server/internal/observability"
	"github.com/hrygo/schoolglance/server/middleware"
	"github.com/hrygo/schoolglance/server/service/widget"
)

// APIV1Service bundles the handlers for the v1 widget routes.
type APIV1Service struct {
	Profile *profile.Profile
	Widget  *widget.Service
	Metrics *observability.Metrics

	// instanceID distinguishes server instances in health output; it is
	// regenerated on every start.
	instanceID string
	limiter    *middleware.RateLimiter
}

// NewAPIV1Service creates the v1 API surface.
func NewAPIV1Service(prof *profile.Profile, widgetService *widget.Service, metrics *observability.Metrics, limiter *middleware.RateLimiter) *APIV1Service {
	return &APIV1Service{
		Profile:    prof,
		Widget:     widgetService,
		Metrics:    metrics,
		instanceID: uuid.NewString(),
		limiter:    limiter,
	}
}

// RegisterRoutes registers the widget routes with the given echo instance.
// The credentialed routes share a per-student rate limit; the monitoring
// routes stay unlimited so dashboards keep working while a student is
// throttled.
func (s *APIV1Service) RegisterRoutes(echoServer *echo.Echo) {
	limited := echoServer.Group("", middleware.RateLimit(s.limiter, credentialKey, s.Metrics))
	limited.GET("/widget", s.GetWidget)
	limited.GET("/feed", s.GetFeed)

	echoServer.GET("/healthz", s.GetHealthz)
	echoServer.GET("/metrics", s.GetMetricsOverview)
}
