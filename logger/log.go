// Package logger configures the global phuslu logger. Before the terminal
// UI starts, records go to stderr; once the UI owns the terminal they go to
// a log file or nowhere.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/phuslu/log"
)

// Options selects the level and the optional log file.
type Options struct {
	Level string
	File  string
	// MaxSizeMB rotates the file once it reaches this size.
	MaxSizeMB  int64
	MaxBackups int
}

// parseLogLevel converts string log level to log.Level
func parseLogLevel(levelStr string) log.Level {
	switch strings.ToLower(levelStr) {
	case "trace":
		return log.TraceLevel
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// ValidLevel reports whether s names a level parseLogLevel understands.
func ValidLevel(s string) bool {
	switch strings.ToLower(s) {
	case "trace", "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

// SetupConsole logs to stderr with colours when it is a terminal.
func SetupConsole(level string) {
	log.DefaultLogger = log.Logger{
		Level:      parseLogLevel(level),
		TimeFormat: "15:04:05",
		Writer: &log.ConsoleWriter{
			ColorOutput:    log.IsTerminal(os.Stderr.Fd()),
			QuoteString:    true,
			EndWithMessage: true,
			Writer:         os.Stderr,
		},
	}
}

// SetupBackground moves logging off the terminal: to opts.File when set,
// otherwise to a discarding writer. The returned function flushes and
// closes the file.
func SetupBackground(opts Options) (func() error, error) {
	if opts.File == "" {
		log.DefaultLogger = log.Logger{
			Level:  parseLogLevel(opts.Level),
			Writer: &log.IOWriter{Writer: io.Discard},
		}
		return func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
		return nil, err
	}
	maxSize := opts.MaxSizeMB
	if maxSize <= 0 {
		maxSize = 10
	}
	fw := &log.FileWriter{
		Filename:     opts.File,
		FileMode:     0o644,
		MaxSize:      maxSize * 1024 * 1024,
		MaxBackups:   max(1, opts.MaxBackups),
		LocalTime:    true,
		EnsureFolder: true,
	}
	log.DefaultLogger = log.Logger{
		Level:      parseLogLevel(opts.Level),
		Caller:     1,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		Writer:     fw,
	}
	log.Info().Str("file", opts.File).Str("level", opts.Level).Msg("logging to file")
	return fw.Close, nil
}

// NewLoggerWithContext copies the default logger and tags it with a
// component name.
func NewLoggerWithContext(component string) log.Logger {
	bl := &log.DefaultLogger
	return log.Logger{
		Level:      bl.Level,
		TimeField:  bl.TimeField,
		TimeFormat: bl.TimeFormat,
		Writer:     bl.Writer,
		Context:    log.NewContext(bl.Context).Str("component", component).Value(),
	}
}
