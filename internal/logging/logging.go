// Package logging configures the process-wide structured logger.
//
// Console output belongs to the panel, so log entries go to a rotated file
// unless the file is "-", which selects stderr.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/phuslu/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	maxLogSizeMB  = 5
	maxLogBackups = 3
	maxLogAgeDays = 14
)

// ParseLevel maps a settings level name to a logger level. Unknown names map to info.
func ParseLevel(name string) log.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// Setup replaces log.DefaultLogger. The returned closer flushes the log file.
func Setup(level, file string) (io.Closer, error) {
	var w io.Writer
	var closer io.Closer = nopCloser{}

	switch file {
	case "":
		w = io.Discard
	case "-":
		w = os.Stderr
	default:
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			return closer, err
		}
		lj := &lumberjack.Logger{
			Filename:   file,
			MaxSize:    maxLogSizeMB,
			MaxBackups: maxLogBackups,
			MaxAge:     maxLogAgeDays,
		}
		w = lj
		closer = lj
	}

	log.DefaultLogger = log.Logger{
		Level:      ParseLevel(level),
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		Writer:     &log.IOWriter{Writer: w},
	}
	return closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
