package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelWarn,
		"loud":    slog.LevelWarn,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestNewLogger_JSONWithRunID(t *testing.T) {
	var buf bytes.Buffer
	logger := WithRunID(NewLogger(&buf, LoggerConfig{Format: "json", Level: slog.LevelInfo}))

	logger.Debug("hidden")
	logger.Info("shown", "k", 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Contains(t, rec, "timestamp")
	assert.NotContains(t, rec, "time")

	runID, ok := rec["run_id"].(string)
	require.True(t, ok)
	_, err := uuid.Parse(runID)
	assert.NoError(t, err)
}

func TestNewLogger_TextIsDefault(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, LoggerConfig{Level: slog.LevelInfo}).Info("hello")
	assert.Contains(t, buf.String(), "msg=hello")
}
