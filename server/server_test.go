package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hrygo/schoolglance/internal/profile"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	prof := &profile.Profile{Mode: "dev", Port: 8000, Version: "test"}
	require.NoError(t, prof.Validate())

	s, err := NewServer(prof)
	require.NoError(t, err)
	return s
}

func serve(s *Server, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.echoServer.ServeHTTP(rec, req)
	return rec
}

func TestNewServerRejectsUnknownTimezone(t *testing.T) {
	prof := &profile.Profile{Mode: "dev", Port: 8000, Timezone: "Mars/Olympus"}
	_, err := NewServer(prof)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timezone")
}

func TestHealthzRoute(t *testing.T) {
	s := newTestServer(t)

	rec := serve(s, http.MethodGet, "/healthz", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "test", body["version"])
}

func TestWidgetRouteRequiresHeaders(t *testing.T) {
	s := newTestServer(t)

	rec := serve(s, http.MethodGet, "/widget", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "Missing required headers: Authorization, X-User-Id, X-School-Id", body["message"])
}

func TestEveryResponseIsUncacheable(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		path string
	}{
		{"widget without headers", "/widget"},
		{"feed without headers", "/feed"},
		{"healthz", "/healthz"},
		{"metrics", "/metrics"},
		{"unknown path", "/nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(s, http.MethodGet, tt.path, nil)
			assert.Equal(t, "no-store, no-cache, must-revalidate, max-age=0", rec.Header().Get("Cache-Control"))
			assert.Equal(t, "no-cache", rec.Header().Get("Pragma"))
			assert.Equal(t, "0", rec.Header().Get("Expires"))
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	rec := serve(s, http.MethodOptions, "/widget", map[string]string{
		"Origin":                         "http://localhost",
		"Access-Control-Request-Method":  http.MethodGet,
		"Access-Control-Request-Headers": "Authorization, X-User-Id, X-School-Id",
	})
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
