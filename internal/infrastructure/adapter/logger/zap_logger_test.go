package logger

import (
	"testing"

	"github.com/amirhossein-jamali/arena-ledger/internal/domain/port/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want core.LogLevel
	}{
		{"debug", core.LogLevelDebug},
		{"INFO", core.LogLevelInfo},
		{"warn", core.LogLevelWarn},
		{"warning", core.LogLevelWarn},
		{"error", core.LogLevelError},
		{"silent", core.LogLevelError},
		{"", core.LogLevelInfo},
		{"bogus", core.LogLevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestZapLogger_SetLevel(t *testing.T) {
	l, err := NewZapLogger(Options{Level: "info", Format: "json", Output: "stderr"})
	require.NoError(t, err)

	zl := l.(*ZapLogger)
	assert.False(t, zl.atom.Enabled(toZapLevel(core.LogLevelDebug)))

	l.SetLevel(core.LogLevelDebug)
	assert.Equal(t, core.LogLevelDebug, l.GetLevel())
	assert.True(t, zl.atom.Enabled(toZapLevel(core.LogLevelDebug)))

	l.SetLevel(core.LogLevelError)
	assert.False(t, zl.atom.Enabled(toZapLevel(core.LogLevelWarn)))
}
