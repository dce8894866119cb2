package v1

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/schoolglance/plugin/satchel"
	"github.com/hrygo/schoolglance/server/internal/observability"
	"github.com/hrygo/schoolglance/server/service/widget"
)

// tokenExpiryWarnWindow is how close to expiry the forwarded bearer token
// can get before requests start logging a warning.
const tokenExpiryWarnWindow = 24 * time.Hour

// GetWidget builds and returns the widget record for the student identified
// by the request headers.
// GET /widget
func (s *APIV1Service) GetWidget(c echo.Context) error {
	endpoint := c.Path()
	s.Metrics.RecordRequest(endpoint)

	creds, ok := credentialsFromRequest(c.Request())
	if !ok {
		s.Metrics.RecordFailure(endpoint)
		return c.JSON(http.StatusBadRequest, widget.NewErrorRecord(missingHeadersMessage))
	}

	reqCtx := observability.NewRequestContext(slog.Default(), creds.UserID, creds.SchoolID)
	defer func() {
		s.Metrics.RecordDuration(endpoint, reqCtx.Duration())
	}()
	warnNearTokenExpiry(reqCtx, creds.Bearer)

	record, err := s.Widget.BuildRecord(c.Request().Context(), creds)
	if err != nil {
		return s.upstreamFailure(c, reqCtx, endpoint, err)
	}

	reqCtx.Info("widget record served",
		slog.String(observability.LogFieldPath, endpoint),
		slog.Int("homework_count", record.HomeworkCount),
		slog.Int("refresh_seconds", record.RefreshSeconds),
		slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()))
	return c.JSON(http.StatusOK, record)
}

// upstreamFailure maps a record build failure to the 502 error record. The
// response keeps the exact two-key shape widget clients parse.
func (s *APIV1Service) upstreamFailure(c echo.Context, reqCtx *observability.RequestContext, endpoint string, err error) error {
	s.Metrics.RecordFailure(endpoint)

	var upstreamErr *widget.UpstreamError
	if errors.As(err, &upstreamErr) {
		s.Metrics.RecordUpstreamError(upstreamErr.Source)
		reqCtx.Error("upstream fetch failed", err,
			slog.String(observability.LogFieldPath, endpoint),
			slog.String(observability.LogFieldSource, upstreamErr.Source))
		return c.JSON(http.StatusBadGateway, widget.NewErrorRecord(upstreamErr.Message()))
	}

	reqCtx.Error("widget build failed", err, slog.String(observability.LogFieldPath, endpoint))
	return c.JSON(http.StatusBadGateway, widget.NewErrorRecord(err.Error()))
}

// warnNearTokenExpiry logs when the forwarded bearer token is expired or
// close to it, which is the usual cause of upstream 401 responses. Tokens
// that do not decode as JWTs are simply skipped.
func warnNearTokenExpiry(reqCtx *observability.RequestContext, bearer string) {
	expiry, ok := satchel.TokenExpiry(bearer)
	if !ok {
		return
	}
	until := time.Until(expiry)
	switch {
	case until <= 0:
		reqCtx.Warn("bearer token has expired", slog.Time("expired_at", expiry))
	case until < tokenExpiryWarnWindow:
		reqCtx.Warn("bearer token expires soon", slog.Time("expires_at", expiry))
	}
}
