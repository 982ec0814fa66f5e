package logging

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger(level zapcore.Level) (*zapLogger, *observer.ObservedLogs) {
	atom := zap.NewAtomicLevelAt(level)
	core, logs := observer.New(atom)
	return &zapLogger{z: zap.New(core), level: atom}, logs
}

func TestNewLogger_Formats(t *testing.T) {
	for _, format := range []string{"json", "console", ""} {
		l, err := NewLogger(LogConfig{Level: "debug", Format: format})
		require.NoError(t, err, format)
		assert.NotNil(t, l)
	}
}

func TestNewLogger_BadOutputPath(t *testing.T) {
	l, err := NewLogger(LogConfig{OutputPaths: []string{"/nonexistent-dir/sub/atlas.log"}})
	assert.Error(t, err)
	assert.Nil(t, l)
}

func TestNewDefaultLogger_NotNil(t *testing.T) {
	assert.NotNil(t, NewDefaultLogger())
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	l.Debug("msg")
	l.Info("msg")
	l.Warn("msg")
	l.Error("msg")
	assert.Equal(t, l, l.With(String("k", "v")))
	assert.Equal(t, l, l.Named("x"))
}

func TestZapLogger_LevelsAndFields(t *testing.T) {
	l, logs := newObservedLogger(zapcore.DebugLevel)

	l.Debug("debug msg", Int("rows", 1000))
	l.Info("info msg", String("table", "global_plants"))
	l.Warn("warn msg", Float64("capacity", 12.5))
	l.Error("error msg", Err(errors.New("boom")))

	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, int64(1000), entries[0].ContextMap()["rows"])
	assert.Equal(t, "global_plants", entries[1].ContextMap()["table"])
	assert.Equal(t, 12.5, entries[2].ContextMap()["capacity"])
	assert.Equal(t, "boom", entries[3].ContextMap()["error"])
}

func TestZapLogger_WithAndNamed(t *testing.T) {
	l, logs := newObservedLogger(zapcore.InfoLevel)

	child := l.Named("explorer").With(String("component", "filter"), Duration("took", time.Second))
	child.Info("filtered")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "explorer", entries[0].LoggerName)
	assert.Equal(t, "filter", entries[0].ContextMap()["component"])
}

func TestZapLogger_SetLevel(t *testing.T) {
	l, logs := newObservedLogger(zapcore.InfoLevel)

	l.Debug("hidden")
	assert.Equal(t, 0, logs.Len())

	var setter LevelSetter = l
	setter.SetLevel("debug")
	l.Named("child").Debug("visible")
	assert.Equal(t, 1, logs.Len())

	setter.SetLevel("ERROR")
	l.Warn("hidden again")
	assert.Equal(t, 1, logs.Len())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel(" WARN "))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("nonsense"))
}

func TestSetDefault(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	l := NewNopLogger()
	SetDefault(l)
	assert.Equal(t, l, Default())

	SetDefault(nil)
	assert.Equal(t, l, Default())
}

//Personal.AI order the ending
