package logging

import (
	"testing"

	"github.com/goliatone/go-hr-auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var _ auth.Logger = (*Adapter)(nil)

func TestAdapterWritesKeyValues(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	a := NewAdapter(zap.New(core))

	a.Debug("token validation failed", "error", "bad signature")
	a.Info("login", "username", "admin")
	a.Warn("slow")
	a.Error("boom", "code", 500)

	entries := logs.All()
	require.Len(t, entries, 4)

	assert.Equal(t, zapcore.DebugLevel, entries[0].Level)
	assert.Equal(t, "bad signature", entries[0].ContextMap()["error"])
	assert.Equal(t, "admin", entries[1].ContextMap()["username"])
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
	assert.Equal(t, int64(500), entries[3].ContextMap()["code"])
}

func TestNilAdapterDiscards(t *testing.T) {
	assert.NotPanics(t, func() {
		NewAdapter(nil).Error("ignored")
	})
}

func TestNew(t *testing.T) {
	l, err := New("debug", false)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	l, err = New("warn", true)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))

	_, err = New("loud", false)
	assert.Error(t, err)
}
