package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/remindr/internal/logger"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	return out
}

func TestNewWithWriter_Extractors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, logger.Config{Format: "json", Level: "info"},
		logger.RunIDExtractor(), logger.RequestIDExtractor(), nil)

	ctx := logger.WithRunID(context.Background(), "run-1")
	log.InfoContext(ctx, "hello", slog.Int("n", 1))

	rec := decode(t, &buf)
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "run-1", rec["run_id"])
	assert.NotContains(t, rec, "request_id")
}

func TestNewWithWriter_WithAttrsKeepsExtractors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, logger.Config{}, logger.RequestIDExtractor()).
		With(slog.String("component", "http"))

	log.InfoContext(logger.WithRequestID(context.Background(), "req-9"), "served")

	rec := decode(t, &buf)
	assert.Equal(t, "http", rec["component"])
	assert.Equal(t, "req-9", rec["request_id"])
}

func TestNewWithWriter_Level(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.NewWithWriter(&buf, logger.Config{Level: "warn", Format: "text"})

	log.Info("dropped")
	assert.Zero(t, buf.Len())

	log.Warn("kept")
	assert.Contains(t, buf.String(), "msg=kept")
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.LevelDebug, logger.ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, logger.ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, logger.ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, logger.ParseLevel("bogus"))
}

func TestContextHelpers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	assert.Empty(t, logger.RunID(ctx))
	assert.Empty(t, logger.RequestID(ctx))

	ctx = logger.WithRequestID(logger.WithRunID(ctx, "r"), "q")
	assert.Equal(t, "r", logger.RunID(ctx))
	assert.Equal(t, "q", logger.RequestID(ctx))
}

func TestNewNope(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() {
		logger.NewNope().Error("nothing")
	})
}
