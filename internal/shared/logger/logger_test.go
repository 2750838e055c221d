package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quickfeedback/config"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
}

func TestInitWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(config.LogConfig{Level: "warn", Format: "json"}, &buf)

	WithComponent("billing").Info("dropped")
	WithComponent("billing").Warn("kept", "plan", "pro")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "billing", entry["component"])
	assert.Equal(t, "pro", entry["plan"])
}

func TestInitWithWriter_TextHasNoColorOffTerminal(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(config.LogConfig{Level: "info", Format: "text"}, &buf)

	Get().Info("hello", "sites", 3)

	out := buf.String()
	assert.Contains(t, out, "hello")
	assert.Contains(t, out, "sites=3")
	assert.NotContains(t, out, "\x1b[")
}
