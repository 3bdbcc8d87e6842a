package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	logger := NewLogger(LevelInfo)
	if logger.Level() != LevelInfo {
		t.Errorf("expected level %s, got %s", LevelInfo, logger.Level())
	}
}

func TestLogger_Debug(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LevelDebug)
	logger.SetOutput(&buf)

	logger.Debug("test message", map[string]any{"key": "value"})

	output := buf.String()
	if !strings.Contains(output, `"level":"debug"`) {
		t.Errorf("expected debug level in output, got: %s", output)
	}
	if !strings.Contains(output, `"message":"test message"`) {
		t.Errorf("expected message in output, got: %s", output)
	}
	if !strings.Contains(output, `"key":"value"`) {
		t.Errorf("expected field in output, got: %s", output)
	}
}

func TestLogger_DebugFiltered(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LevelInfo)
	logger.SetOutput(&buf)

	logger.Debug("test message")

	if buf.Len() > 0 {
		t.Errorf("expected no output for debug when level is info, got: %s", buf.String())
	}
}

func TestLogger_WarnFilteredAtError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LevelError)
	logger.SetOutput(&buf)

	logger.Warn("quiet")
	logger.Info("quiet")
	assert.Zero(t, buf.Len())

	logger.Error("loud")
	assert.Contains(t, buf.String(), `"level":"error"`)
}

func TestLogger_ErrorErr(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LevelError)
	logger.SetOutput(&buf)

	logger.ErrorErr("operation failed", errors.New("test error"), map[string]any{"timer": "work"})

	output := buf.String()
	assert.Contains(t, output, `"error":"test error"`)
	assert.Contains(t, output, `"timer":"work"`)
}

func TestLogger_WithFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LevelInfo)
	logger.SetOutput(&buf)

	child := logger.WithFields(map[string]any{"command": "start"})
	child.Info("test message")

	assert.Contains(t, buf.String(), `"command":"start"`)

	buf.Reset()
	logger.Info("parent message")
	assert.NotContains(t, buf.String(), "command", "parent must not inherit child fields")
}

func TestLogger_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LevelInfo)
	logger.SetOutput(&buf)

	logger.Info("test message", map[string]any{"count": 42})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "test message", entry["message"])
	assert.Equal(t, float64(42), entry["count"])
	assert.NotEmpty(t, entry["time"])
}

func TestLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LevelInfo)
	logger.SetOutput(&buf)
	logger.SetFormat(FormatText)

	logger.Info("state saved", map[string]any{"timers": 2})

	output := buf.String()
	assert.Contains(t, output, "state saved")
	assert.Contains(t, output, "timers=2")
	assert.False(t, strings.HasPrefix(output, "{"), "text format must not be JSON")
}

func TestLogger_SetLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LevelError)
	logger.SetOutput(&buf)
	logger.SetLevel(LevelDebug)

	logger.Debug("now visible")
	assert.Contains(t, buf.String(), "now visible")
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		"INFO":    LevelInfo,
		"warn":    LevelWarn,
		"warning": LevelWarn,
		" error ": LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestGlobal_Info(t *testing.T) {
	var buf bytes.Buffer
	testLogger := NewLogger(LevelInfo)
	testLogger.SetOutput(&buf)

	prev := Global()
	SetGlobal(testLogger)
	defer SetGlobal(prev)

	Info("global info message")

	output := buf.String()
	assert.Contains(t, output, `"level":"info"`)
	assert.Contains(t, output, `"message":"global info message"`)
}
