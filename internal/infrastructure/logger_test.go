package infrastructure

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendpulse/internal/config"
)

func TestNewLogger(t *testing.T) {
	t.Run("json to stdout", func(t *testing.T) {
		logger, err := NewLogger(config.LoggingConfig{Level: "info", Format: "json", Output: "stdout"})
		require.NoError(t, err)
		assert.NotNil(t, logger)
	})

	t.Run("text handler", func(t *testing.T) {
		logger, err := NewLogger(config.LoggingConfig{Level: "debug", Format: "text", Output: "stderr"})
		require.NoError(t, err)
		assert.True(t, logger.Enabled(nil, slog.LevelDebug))
	})

	t.Run("level filtering", func(t *testing.T) {
		logger, err := NewLogger(config.LoggingConfig{Level: "warn", Format: "json", Output: "stdout"})
		require.NoError(t, err)
		assert.False(t, logger.Enabled(nil, slog.LevelInfo))
		assert.True(t, logger.Enabled(nil, slog.LevelWarn))
	})

	t.Run("file output creates the directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "app.log")
		logger, err := NewLogger(config.LoggingConfig{Level: "info", Format: "json", Output: path})
		require.NoError(t, err)

		logger.Info("test entry")
		_, err = os.Stat(path)
		assert.NoError(t, err)
	})

	t.Run("unknown level defaults to info", func(t *testing.T) {
		logger, err := NewLogger(config.LoggingConfig{Level: "whatever", Format: "json", Output: "stdout"})
		require.NoError(t, err)
		assert.True(t, logger.Enabled(nil, slog.LevelInfo))
		assert.False(t, logger.Enabled(nil, slog.LevelDebug))
	})
}
