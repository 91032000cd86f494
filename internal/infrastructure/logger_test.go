package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"basketpulse/internal/config"
)

func TestInitializeLogger_FileOutput(t *testing.T) {
	ResetLoggerForTesting()
	defer ResetLoggerForTesting()

	logFile := filepath.Join(t.TempDir(), "logs", "test.log")
	logger, err := InitializeLogger(config.LoggingConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: logFile,
	})
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.Same(t, logger, GetLogger())

	logger.Info("test message", "key", "value")
	require.NoError(t, CloseLogFile())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(content), &entry))
	assert.Equal(t, "test message", entry["msg"])
	assert.Equal(t, "value", entry["key"])
}

func TestNewLogger_Formats(t *testing.T) {
	tests := []struct {
		name   string
		format string
		check  func(t *testing.T, line string)
	}{
		{"json", "json", func(t *testing.T, line string) {
			assert.True(t, json.Valid([]byte(line)))
		}},
		{"text", "text", func(t *testing.T, line string) {
			assert.Contains(t, line, `msg=hello`)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(config.LoggingConfig{Level: "info", Format: tt.format}, &buf)
			logger.Info("hello")
			tt.check(t, strings.TrimSpace(buf.String()))
		})
	}
}

func TestTraceIDInjection(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(config.LoggingConfig{Level: "info", Format: "json"}, &buf)

	ctx := WithTraceID(context.Background(), "trace-123")
	logger.InfoContext(ctx, "with trace")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "trace-123", entry["trace_id"])
}

func TestLogLevels(t *testing.T) {
	tests := []struct {
		level     string
		debugSeen bool
		infoSeen  bool
		warnSeen  bool
	}{
		{"debug", true, true, true},
		{"info", false, true, true},
		{"warn", false, false, true},
		{"error", false, false, false},
		{"bogus", false, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(config.LoggingConfig{Level: tt.level, Format: "json"}, &buf)

			logger.Debug("debug line")
			logger.Info("info line")
			logger.Warn("warn line")

			out := buf.String()
			assert.Equal(t, tt.debugSeen, strings.Contains(out, "debug line"))
			assert.Equal(t, tt.infoSeen, strings.Contains(out, "info line"))
			assert.Equal(t, tt.warnSeen, strings.Contains(out, "warn line"))
		})
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := EnsureTraceID(context.Background())
	traceID := GetTraceID(ctx)
	assert.Len(t, traceID, 36)

	assert.Equal(t, traceID, GetTraceID(EnsureTraceID(ctx)), "existing trace id is kept")
	assert.Empty(t, GetTraceID(context.Background()))
	assert.NotEqual(t, GenerateTraceID(), GenerateTraceID())
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := WithComponent(NewLogger(config.LoggingConfig{Level: "info", Format: "json"}, &buf), "loader")
	logger.Info("x")

	assert.Contains(t, buf.String(), `"component":"loader"`)
}
