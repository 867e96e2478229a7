package helper

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPrettyHandler(t *testing.T) {
	t.Run("Create PrettyHandler with empty options", func(t *testing.T) {
		var buf bytes.Buffer
		handler := NewPrettyHandler(&buf, PrettyHandlerOptions{})

		require.NotNil(t, handler, "Expected NewPrettyHandler to return a non-nil handler")
		assert.NotNil(t, handler.Handler, "Expected handler to wrap a slog handler")
		assert.NotNil(t, handler.l, "Expected handler to have a line logger")
	})

	t.Run("Level option is respected by Enabled", func(t *testing.T) {
		var buf bytes.Buffer
		handler := NewPrettyHandler(&buf, PrettyHandlerOptions{
			SlogOpts: slog.HandlerOptions{Level: slog.LevelWarn},
		})

		assert.False(t, handler.Enabled(context.Background(), slog.LevelInfo), "Expected info to be disabled at warn level")
		assert.True(t, handler.Enabled(context.Background(), slog.LevelError), "Expected error to be enabled at warn level")
	})
}

func TestPrettyHandlerHandle(t *testing.T) {
	ctx := context.Background()

	levels := []struct {
		level slog.Level
		label string
	}{
		{slog.LevelDebug, "DEBUG:"},
		{slog.LevelInfo, "INFO:"},
		{slog.LevelWarn, "WARN:"},
		{slog.LevelError, "ERROR:"},
	}

	for _, tc := range levels {
		t.Run("Handle "+tc.label+" record", func(t *testing.T) {
			var buf bytes.Buffer
			handler := NewPrettyHandler(&buf, PrettyHandlerOptions{})

			record := slog.NewRecord(time.Now(), tc.level, "dangling link endpoint", 0)
			record.AddAttrs(slog.String("id", "Carol"), slog.Int("link", 3))

			err := handler.Handle(ctx, record)
			require.NoError(t, err, "Expected Handle to not return an error")

			output := buf.String()
			assert.Contains(t, output, tc.label, "Expected output to contain the level label")
			assert.Contains(t, output, "dangling link endpoint", "Expected output to contain the message")
			assert.Contains(t, output, `"id": "Carol"`, "Expected output to contain the string attribute as JSON")
			assert.Contains(t, output, `"link": 3`, "Expected output to contain the int attribute as JSON")
		})
	}

	t.Run("Handle record without attributes", func(t *testing.T) {
		var buf bytes.Buffer
		handler := NewPrettyHandler(&buf, PrettyHandlerOptions{})

		err := handler.Handle(ctx, slog.NewRecord(time.Now(), slog.LevelInfo, "converted graph", 0))
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "{}", "Expected an empty JSON object for missing attributes")
	})

	t.Run("Handle formats timestamp with milliseconds", func(t *testing.T) {
		var buf bytes.Buffer
		handler := NewPrettyHandler(&buf, PrettyHandlerOptions{})

		err := handler.Handle(ctx, slog.NewRecord(time.Now(), slog.LevelInfo, "time test", 0))
		require.NoError(t, err)
		assert.Regexp(t, `\[\d{2}:\d{2}:\d{2}\.\d{3}\]`, buf.String(), "Expected [HH:MM:SS.mmm] timestamp")
	})
}

func TestNewLogger(t *testing.T) {
	t.Run("Logger drops records below level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger(&buf, slog.LevelInfo)

		logger.Debug("hidden")
		logger.Info("shown", slog.Int("nodes", 4))

		assert.NotContains(t, buf.String(), "hidden", "Expected debug record to be dropped")
		assert.Contains(t, buf.String(), "shown", "Expected info record to be written")
		assert.Contains(t, buf.String(), `"nodes": 4`)
	})
}
