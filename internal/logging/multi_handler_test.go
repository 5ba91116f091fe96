package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMultiHandler_FansOutToEveryHandler(t *testing.T) {
	var a, b bytes.Buffer
	handler := NewMultiHandler(
		slog.NewJSONHandler(&a, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&b, &slog.HandlerOptions{Level: slog.LevelInfo}),
	)

	logger := slog.New(handler)
	logger.Info("note created", "note_id", 42)

	assert.Contains(t, a.String(), "note created")
	assert.Contains(t, b.String(), "note created")
}

func TestMultiHandler_RespectsPerHandlerLevels(t *testing.T) {
	var info, errOnly bytes.Buffer
	handler := NewMultiHandler(
		slog.NewJSONHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&errOnly, &slog.HandlerOptions{Level: slog.LevelError}),
	)

	logger := slog.New(handler)
	logger.Info("routine")
	logger.Error("broken")

	assert.Contains(t, info.String(), "routine")
	assert.NotContains(t, errOnly.String(), "routine")
	assert.Contains(t, errOnly.String(), "broken")
}

func TestMultiHandler_EnabledWhenAnyHandlerIs(t *testing.T) {
	var buf bytes.Buffer
	handler := NewMultiHandler(
		slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelError}),
	)

	assert.False(t, handler.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, handler.Enabled(context.Background(), slog.LevelError))
}
