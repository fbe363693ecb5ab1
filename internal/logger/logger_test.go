package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T, lvl zapcore.Level) *observer.ObservedLogs {
	t.Helper()

	previous := current()
	core, logs := observer.New(lvl)
	Use(zap.New(core))
	t.Cleanup(func() {
		mu.Lock()
		base = previous
		mu.Unlock()
	})
	return logs
}

func TestComponentLoggers(t *testing.T) {
	logs := observe(t, zapcore.DebugLevel)

	Bucket().WithField("bucket", "default").Info("executing %s", "query")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "executing query", entry.Message)
	assert.Equal(t, zapcore.InfoLevel, entry.Level)
	assert.Equal(t, map[string]interface{}{
		"component": "bucket",
		"bucket":    "default",
	}, entry.ContextMap())
}

func TestWithFields(t *testing.T) {
	logs := observe(t, zapcore.DebugLevel)

	WithFields(map[string]interface{}{"key": "doc-1", "attempt": 2}).Warn("retrying")

	require.Equal(t, 1, logs.Len())
	ctx := logs.All()[0].ContextMap()
	assert.Equal(t, "doc-1", ctx["key"])
	assert.EqualValues(t, 2, ctx["attempt"])
}

func TestLevelFiltering(t *testing.T) {
	logs := observe(t, zapcore.WarnLevel)

	Debug("hidden")
	Info("hidden")
	Warn("shown")
	Error("shown")

	assert.Equal(t, 2, logs.FilterMessage("shown").Len())
	assert.Equal(t, 0, logs.FilterMessage("hidden").Len())
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, DebugLevel, lvl)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}
