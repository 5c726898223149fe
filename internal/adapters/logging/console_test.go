package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Git-Cosmo/CloudOps/internal/ports"
)

func TestConsoleLogger_TextFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewConsoleLogger(WithOutput(&buf))

	logger.Info(context.Background(), "plan completed", ports.F("outcome", "changes"))

	out := buf.String()
	assert.Contains(t, out, "[INFO] plan completed")
	assert.Contains(t, out, "outcome=changes")
	assert.NotContains(t, out, ":") // no timestamp by default
}

func TestConsoleLogger_LevelFiltering(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewConsoleLogger(WithOutput(&buf), WithLevel(ports.LevelWarn))

	logger.Debug(context.Background(), "debug message")
	logger.Info(context.Background(), "info message")
	logger.Warn(context.Background(), "warn message")
	logger.Error(context.Background(), "error message")

	out := buf.String()
	assert.NotContains(t, out, "debug message")
	assert.NotContains(t, out, "info message")
	assert.Contains(t, out, "warn message")
	assert.Contains(t, out, "error message")
}

func TestConsoleLogger_JSONFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewConsoleLogger(WithOutput(&buf), WithJSONFormat(true))

	logger.Error(context.Background(), "apply failed", ports.F("exit_code", 1))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "apply failed", entry["msg"])
	assert.Equal(t, float64(1), entry["exit_code"])
}

func TestConsoleLogger_With(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewConsoleLogger(WithOutput(&buf))

	child := logger.With(ports.F("run_id", "abc"))
	child.Info(context.Background(), "step done", ports.F("step", "init"))

	out := buf.String()
	assert.Contains(t, out, "run_id=abc")
	assert.Contains(t, out, "step=init")

	buf.Reset()
	logger.Info(context.Background(), "parent unaffected")
	assert.NotContains(t, buf.String(), "run_id")
}

func TestConsoleLogger_SetLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewConsoleLogger(WithOutput(&buf))
	require.Equal(t, ports.LevelInfo, logger.Level())

	logger.SetLevel(ports.LevelError)
	logger.Info(context.Background(), "quiet now")
	assert.Empty(t, buf.String())
}

func TestNopLogger(t *testing.T) {
	t.Parallel()

	logger := NewNopLogger()
	logger.Info(context.Background(), "goes nowhere", ports.F("k", "v"))
	assert.NotNil(t, logger.With(ports.F("k", "v")))
}
