package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/phuslu/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	tests := map[string]log.Level{
		"trace":   log.TraceLevel,
		"DEBUG":   log.DebugLevel,
		"info":    log.InfoLevel,
		"warning": log.WarnLevel,
		"error":   log.ErrorLevel,
		"bogus":   log.InfoLevel,
		"":        log.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLogLevel(in), in)
	}
	assert.True(t, ValidLevel("Warn"))
	assert.False(t, ValidLevel("loud"))
}

func TestSetupBackgroundFile(t *testing.T) {
	saved := log.DefaultLogger
	t.Cleanup(func() { log.DefaultLogger = saved })

	path := filepath.Join(t.TempDir(), "logs", "htop-win.log")
	closeFn, err := SetupBackground(Options{Level: "debug", File: path})
	require.NoError(t, err)

	l := NewLoggerWithContext("test")
	l.Debug().Int("n", 7).Msg("hello")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"hello"`)
	assert.Contains(t, string(data), `"component":"test"`)
}

func TestSetupBackgroundDiscard(t *testing.T) {
	saved := log.DefaultLogger
	t.Cleanup(func() { log.DefaultLogger = saved })

	closeFn, err := SetupBackground(Options{Level: "error"})
	require.NoError(t, err)
	assert.Equal(t, log.ErrorLevel, log.DefaultLogger.Level)
	log.Error().Msg("dropped")
	assert.NoError(t, closeFn())
}
