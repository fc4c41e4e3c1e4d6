package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColorHandler_Format(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewColorHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	log.With("request_id", "r1").WithGroup("db").Info("Imported rows", "count", 2, "name", "John Doe")
	line := buf.String()

	assert.Contains(t, line, "INFO  Imported rows")
	assert.Contains(t, line, "request_id=r1")
	assert.Contains(t, line, "db.count=2")
	assert.Contains(t, line, `db.name="John Doe"`)
	assert.NotContains(t, line, "\033[", "no colour for non-terminals")
}

func TestColorHandler_Level(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewColorHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn}))

	log.Info("hidden")
	assert.Empty(t, buf.String())

	log.Warn("shown")
	assert.Contains(t, buf.String(), "WARN  shown")
}

func TestColorHandler_Colors(t *testing.T) {
	var buf bytes.Buffer
	h := NewColorHandler(&buf, nil).WithColor(true)
	log := slog.New(h)

	log.Error("failed")
	assert.Contains(t, buf.String(), colorRed+"failed"+colorReset)

	buf.Reset()
	log.Info("Merging employee")
	assert.Contains(t, buf.String(), colorGreen+"Merging employee"+colorReset)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nope"))
}
