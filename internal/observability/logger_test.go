package observability

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("bogus"))
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "info", "json")

	logger.Debug("hidden")
	logger.Info("probe finished", "status", "connected")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "probe finished", line["msg"])
	assert.Equal(t, "connected", line["status"])
}

func TestNewLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "debug", "text")

	logger.Debug("raw model reply", "length", 12)
	assert.Contains(t, buf.String(), "msg=\"raw model reply\"")
	assert.Contains(t, buf.String(), "length=12")
}

func TestNewCLILogger(t *testing.T) {
	var buf bytes.Buffer
	NewCLILogger(&buf, false).Info("quiet")
	assert.Empty(t, buf.String())

	NewCLILogger(&buf, true).Debug("loud")
	assert.Contains(t, buf.String(), "msg=loud")
}
