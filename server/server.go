// Package server assembles the widget HTTP server: the Satchel client, the
// record builder, the rate limiter, and the echo routes.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/hrygo/schoolglance/internal/profile"
	"github.com/hrygo/schoolglance/plugin/satchel"
	"github.com/hrygo/schoolglance/server/internal/observability"
	"github.com/hrygo/schoolglance/server/middleware"
	apiv1 "github.com/hrygo/schoolglance/server/router/api/v1"
	"github.com/hrygo/schoolglance/server/service/widget"
	"github.com/hrygo/schoolglance/server/timezone"
)

// housekeepingInterval is how often idle per-student limiters get dropped.
const housekeepingInterval = 5 * time.Minute

// Server wraps the HTTP surface plus its housekeeping loop.
type Server struct {
	Profile *profile.Profile
	Metrics *observability.Metrics

	echoServer *echo.Echo
	limiter    *middleware.RateLimiter
}

// NewServer creates the widget server from a validated profile.
func NewServer(prof *profile.Profile) (*Server, error) {
	loc, err := timezone.ParseTimezone(prof.Timezone)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load timezone")
	}

	client := satchel.NewClient(&satchel.Config{
		BaseURL: prof.UpstreamURL,
		Timeout: prof.UpstreamTimeout,
	})
	widgetService := widget.NewService(client, loc)
	metrics := observability.GlobalMetrics()
	limiter := middleware.NewRateLimiter(prof.RateLimitRPS, prof.RateLimitBurst)

	echoServer := echo.New()
	echoServer.HideBanner = true
	echoServer.HidePort = true
	echoServer.Debug = prof.IsDev()

	echoServer.Use(echomw.Recover())
	echoServer.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderAuthorization, "X-User-Id", "X-School-Id", "User-Id", "School-Id"},
	}))
	// Widget launchers poll on a timer; a cached response would freeze the
	// clock, so every response opts out of caching.
	echoServer.Use(middleware.NoStore())
	echoServer.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(_ echo.Context, v echomw.RequestLoggerValues) error {
			slog.Info("http request",
				slog.String("method", v.Method),
				slog.String(observability.LogFieldPath, v.URI),
				slog.Int(observability.LogFieldStatus, v.Status),
				slog.Int64(observability.LogFieldDuration, v.Latency.Milliseconds()))
			return nil
		},
	}))

	// A widget request makes two upstream calls back to back.
	echoServer.Server.ReadTimeout = 30 * time.Second
	echoServer.Server.WriteTimeout = 2*prof.UpstreamTimeout + 10*time.Second

	apiService := apiv1.NewAPIV1Service(prof, widgetService, metrics, limiter)
	apiService.RegisterRoutes(echoServer)

	return &Server{
		Profile:    prof,
		Metrics:    metrics,
		echoServer: echoServer,
		limiter:    limiter,
	}, nil
}

// Start runs the HTTP listener and the limiter housekeeping loop. It blocks
// until the listener stops.
func (s *Server) Start(ctx context.Context) error {
	go s.housekeeping(ctx)

	slog.Info("schoolglance started",
		slog.String("addr", s.Profile.ListenAddr()),
		slog.String("version", s.Profile.Version),
		slog.String("mode", s.Profile.Mode),
		slog.String("timezone", s.Profile.Timezone),
		slog.String("upstream", s.Profile.UpstreamURL))
	return s.echoServer.Start(s.Profile.ListenAddr())
}

// Shutdown stops the listener gracefully.
func (s *Server) Shutdown(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := s.echoServer.Shutdown(ctx); err != nil {
		slog.Error("failed to shutdown server gracefully", slog.String("error", err.Error()))
	}
	slog.Info("schoolglance stopped properly")
}

// housekeeping drops idle per-student limiters so the map does not grow with
// every student id ever seen.
func (s *Server) housekeeping(ctx context.Context) {
	ticker := time.NewTicker(housekeepingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if pruned := s.limiter.Prune(); pruned > 0 {
				slog.Debug("pruned idle rate limiters", slog.Int("count", pruned))
			}
		}
	}
}
