package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFanoutHandler(t *testing.T) {
	t.Parallel()

	var info, warn bytes.Buffer

	handler := newFanoutHandler(
		slog.NewTextHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewTextHandler(&warn, &slog.HandlerOptions{Level: slog.LevelWarn}),
	)

	logger := slog.New(handler).With("sort_id", "abc").WithGroup("worker")

	logger.Info("woke", "value", 6)
	logger.Warn("late", "value", 12783)

	assert.Contains(t, info.String(), "woke")
	assert.Contains(t, info.String(), "late")
	assert.Contains(t, info.String(), "sort_id=abc")
	assert.Contains(t, info.String(), "worker.value=6")

	assert.NotContains(t, warn.String(), "woke")
	assert.Contains(t, warn.String(), "late")
}

func TestFanoutHandler_Enabled(t *testing.T) {
	t.Parallel()

	handler := newFanoutHandler(
		slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}),
		slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelWarn}),
	)

	assert.True(t, handler.Enabled(t.Context(), slog.LevelWarn))
	assert.False(t, handler.Enabled(t.Context(), slog.LevelInfo))
}
