package telemetry

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"neurohr-interview/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}

	for input, want := range tests {
		assert.Equal(t, want, ParseLevel(input), input)
	}
}

func TestInitLogger_WritesFile(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	file := filepath.Join(t.TempDir(), "logs", "app.log")
	logger, closeFn, err := InitLogger(config.LogConfig{Level: "info", File: file, MaxSizeMB: 1, MaxBackups: 1, MaxAgeDays: 1})
	require.NoError(t, err)

	logger.Info("проверка", "key", "value")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"проверка"`)
	assert.Contains(t, string(data), `"key":"value"`)
}

func TestInitTracing(t *testing.T) {
	shutdown, err := InitTracing(context.Background(), config.TracingConfig{Enabled: false}, "test")
	require.NoError(t, err)
	shutdown()

	previous := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(previous) })

	file := filepath.Join(t.TempDir(), "traces.log")
	shutdown, err = InitTracing(context.Background(), config.TracingConfig{Enabled: true, File: file}, "test")
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(context.Background(), "span")
	span.End()
	shutdown()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Name":"span"`)
}
