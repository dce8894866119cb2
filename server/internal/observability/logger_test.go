package observability

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestContextCarriesIdentity(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	reqCtx := NewRequestContext(logger, "42", "7")
	require.NotEmpty(t, reqCtx.RequestID)

	reqCtx.Info("record built", slog.Int("homework_count", 2))

	out := buf.String()
	assert.Contains(t, out, "record built")
	assert.Contains(t, out, "request_id="+reqCtx.RequestID)
	assert.Contains(t, out, "user_id=42")
	assert.Contains(t, out, "school_id=7")
	assert.Contains(t, out, "homework_count=2")
}

func TestRequestContextErrorIncludesCause(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	reqCtx := NewRequestContext(logger, "42", "7")
	reqCtx.Error("upstream fetch failed", errors.New("connection refused"))

	out := buf.String()
	assert.Contains(t, out, "upstream fetch failed")
	assert.Contains(t, out, "connection refused")
}

func TestRequestContextIDsAreUnique(t *testing.T) {
	logger := slog.Default()
	a := NewRequestContext(logger, "42", "7")
	b := NewRequestContext(logger, "42", "7")
	assert.NotEqual(t, a.RequestID, b.RequestID)
}
