package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger_Environments(t *testing.T) {
	for _, env := range []string{"development", "production", ""} {
		l := NewLogger(env)
		require.NotNil(t, l, env)
		l.Info("hello")
	}
}

func TestNewLogger_LogLevelOverride(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	l := NewLogger("production")
	require.NotNil(t, l)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
}

func TestNewLogger_InvalidLogLevelIgnored(t *testing.T) {
	t.Setenv("LOG_LEVEL", "loud")
	l := NewLogger("production")
	require.NotNil(t, l)
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
}

func TestSetAndPackageHelpers(t *testing.T) {
	orig := Get()
	defer Set(orig)

	core, logs := observer.New(zapcore.DebugLevel)
	Set(zap.New(core))

	Debug("d")
	Info("i", zap.Int("n", 1))
	Warn("w")
	Error("e")
	With(zap.String("k", "v")).Info("scoped")

	entries := logs.All()
	require.Len(t, entries, 5)
	assert.Equal(t, "i", entries[1].Message)
	assert.Equal(t, int64(1), entries[1].ContextMap()["n"])
	assert.Equal(t, "v", entries[4].ContextMap()["k"])
	assert.NotPanics(t, func() { _ = Sync() })
}
