package cmd

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wavedig.dev/pkg/wavedig/internal/controller"
)

func TestConfigConstants(t *testing.T) {
	assert.Equal(t, "wavedig", configBaseName)
	assert.Equal(t, "wavedig.yaml", configFileName)
	assert.Equal(t, ".", configFolderPath)
	assert.Equal(t, "dialect", dialectFlagName)
	assert.Equal(t, "format", formatFlagName)
	assert.Equal(t, "parallel", batchParallelFlagName)
	assert.Equal(t, "batch.parallel", batchParallelConfigKey)
	assert.Equal(t, "query.lenient", lenientConfigKey)
	assert.Equal(t, "telemetry.enabled", telemetryEnabledKey)
	assert.Equal(t, "standard", defaultDialect)
	assert.Equal(t, "table", defaultFormat)
	assert.Equal(t, 4, defaultBatchParallel)
	assert.Equal(t, "WAVEDIG", envPrefix)
}

func TestConfigVersionConstants(t *testing.T) {
	assert.Equal(t, "version", configVersionKey)
	assert.Equal(t, 1, currentConfigVersion)
}

func TestParseSlogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{" WARN ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"-4", slog.LevelDebug},
		{"loud", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseSlogLevel(tt.in, slog.LevelInfo))
		})
	}
}

func TestConfigureLogger_WritesToFile(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	logPath := filepath.Join(t.TempDir(), "wavedig.log")

	writer := configureLogger(logPath, true)
	require.NotNil(t, writer)

	slog.Debug("logger configured", "component", "test")

	contents, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(contents), "logger configured")
	assert.Contains(t, string(contents), "component=test")
}

func TestConfiguredFormat(t *testing.T) {
	t.Setenv("WAVEDIG_FORMAT", "yaml")
	assert.Equal(t, controller.FormatYAML, configuredFormat())

	t.Setenv("WAVEDIG_FORMAT", "json")
	assert.Equal(t, controller.FormatTable, configuredFormat())
	assert.ErrorIs(t, validateOutput(), controller.ErrUnknownFormat)
}

func TestReadConfigFile(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() {
		slog.SetDefault(original)
		viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	})

	tests := []struct {
		name     string
		contents string
		create   bool
		warned   bool
	}{
		{"missing file", "", false, false},
		{"valid file", "batch:\n  parallel: 4\n", true, false},
		{"malformed file", "dialect: [standard\n", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			slog.SetDefault(slog.New(slog.NewTextHandler(&logs, nil)))

			path := filepath.Join(t.TempDir(), configFileName)
			if tt.create {
				require.NoError(t, os.WriteFile(path, []byte(tt.contents), 0o644))
			}

			viper.SetConfigFile(path)
			readConfigFile()

			if tt.warned {
				assert.Contains(t, logs.String(), "Ignoring unreadable config file")
				return
			}

			assert.Empty(t, logs.String())
		})
	}
}
