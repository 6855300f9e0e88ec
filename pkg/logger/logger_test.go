package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewLogger(t *testing.T) {
	logger := NewLogger()
	assert.NotNil(t, logger)
	assert.IsType(t, &zerologLogger{}, logger)
}

func TestLevels(t *testing.T) {
	tests := []struct {
		level   string
		log     func(Logger)
		message string
		want    string
	}{
		{"debug", func(l Logger) { l.Debug("debug message") }, "debug message", `"level":"debug"`},
		{"info", func(l Logger) { l.Info("info message") }, "info message", `"level":"info"`},
		{"info", func(l Logger) { l.Warn("warn message") }, "warn message", `"level":"warn"`},
		{"error", func(l Logger) { l.Error("error message") }, "error message", `"level":"error"`},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(NewLoggerWithWriter(&buf, tt.level))
			assert.Contains(t, buf.String(), tt.message)
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

// We can't easily test Fatal without mocking os.Exit

func TestLogLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, "warn")
	logger.Debug("debug should be filtered")
	logger.Info("info should be filtered")
	logger.Warn("warn should be logged")

	assert.NotContains(t, buf.String(), "debug should be filtered")
	assert.NotContains(t, buf.String(), "info should be filtered")
	assert.Contains(t, buf.String(), "warn should be logged")
}

func TestUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, "chatty")
	logger.Debug("hidden")
	logger.Info("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestWithField(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, "info").
		WithField("campaign_id", "c1").
		WithField("int_field", 123).
		WithField("bool_field", true)
	logger.Info("message with fields")

	out := buf.String()
	assert.Contains(t, out, "message with fields")
	assert.Contains(t, out, `"campaign_id":"c1"`)
	assert.Contains(t, out, `"int_field":123`)
	assert.Contains(t, out, `"bool_field":true`)
}

func TestWithFieldsDoesNotLeak(t *testing.T) {
	var buf bytes.Buffer
	base := NewLoggerWithWriter(&buf, "info")
	child := base.WithFields(map[string]interface{}{"block_id": "b1"})

	child.Info("child")
	base.Info("parent")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	assert.Len(t, lines, 2)
	assert.Contains(t, string(lines[0]), `"block_id":"b1"`)
	assert.NotContains(t, string(lines[1]), "block_id")
}

func TestTestLogger_FieldsDoNotLeak(t *testing.T) {
	base := NewTestLogger(t).(*TestLogger)
	child := base.WithField("campaign_id", "c1").WithFields(map[string]interface{}{"revision_id": "r1"}).(*TestLogger)

	assert.Empty(t, base.fields)
	assert.Equal(t, map[string]interface{}{"campaign_id": "c1", "revision_id": "r1"}, child.fields)
	child.Info("routed to t.Logf")

	// nil T discards
	(&TestLogger{}).Error("silently dropped")
}
