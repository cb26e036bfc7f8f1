package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestJSONLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	l, done := build(Options{Level: "warn", JSON: true}, zapcore.AddSync(&buf))
	l.Info("dropped")
	l.Warn("kept", zap.String("id", "u1"))
	done()

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "u1", entry["id"])
	assert.Contains(t, entry, "ts")
}

func TestBadLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l, done := build(Options{Level: "loud", JSON: true}, zapcore.AddSync(&buf))
	l.Debug("hidden")
	l.Info("shown")
	done()
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestRotateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	var buf bytes.Buffer
	l, done := build(Options{Level: "info", Rotate: FileRotate{Enable: true, Filename: path, MaxSizeMB: 1}}, zapcore.AddSync(&buf))
	l.Info("to file")
	done()

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"to file"`)
}

func TestToWriter(t *testing.T) {
	var buf bytes.Buffer
	l, done := build(Options{Level: "info", JSON: true}, zapcore.AddSync(&buf))
	w := ToWriter(l, zapcore.InfoLevel)
	n, err := w.Write([]byte("gin says hi\n"))
	done()
	require.NoError(t, err)
	assert.Equal(t, 12, n)
	assert.Contains(t, buf.String(), `"msg":"gin says hi"`)
}
