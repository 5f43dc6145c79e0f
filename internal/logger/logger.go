// Package logger builds the zerolog logger used by sidediff.
//
// The terminal belongs to the UI while it runs, so log output goes to a
// rotating file. Without a file, logging is discarded unless a fallback
// writer is supplied.
package logger

import (
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/pstuifzand/sidediff/internal/config"
)

// Format selects the encoding of log lines.
type Format string

const (
	FormatJSON    Format = "json"
	FormatConsole Format = "console"
)

// ParseLevel parses a level name, case-insensitively. Empty means info.
func ParseLevel(s string) (zerolog.Level, error) {
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil {
		return zerolog.InfoLevel, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// ParseFormat maps a format name to a Format, defaulting to JSON.
func ParseFormat(s string) Format {
	if strings.EqualFold(s, string(FormatConsole)) {
		return FormatConsole
	}
	return FormatJSON
}

// Logger owns the zerolog logger and the file it writes to.
type Logger struct {
	zerolog.Logger
	closer io.Closer
}

// Close flushes and closes the log file, if any.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// New builds a logger from cfg. When cfg.File is empty, output goes to
// fallback, or nowhere when fallback is nil. The standard library logger is
// redirected to the result so stray log.Printf calls are kept.
func New(cfg config.LogConfig, fallback io.Writer) (*Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	format := ParseFormat(cfg.Format)

	var out io.Writer = io.Discard
	var closer io.Closer
	switch {
	case cfg.File != "":
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
		lj := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			LocalTime:  true,
		}
		out, closer = lj, lj
		if format == FormatConsole {
			out = zerolog.ConsoleWriter{Out: lj, NoColor: true, TimeFormat: time.RFC3339}
		}
	case fallback != nil:
		out = fallback
		if format == FormatConsole {
			out = zerolog.ConsoleWriter{Out: fallback, TimeFormat: time.Kitchen}
		}
	}

	zl := zerolog.New(out).Level(level).With().Timestamp().Logger()

	stdlog.SetFlags(0)
	stdlog.SetOutput(zl)

	return &Logger{Logger: zl, closer: closer}, nil
}

// DefaultFile returns ~/.local/state/sidediff/sidediff.log.
func DefaultFile() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state", "sidediff", "sidediff.log"), nil
}
