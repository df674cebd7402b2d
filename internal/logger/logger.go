package logger

import (
	"strings"
	"sync"
)

// Log levels accepted in log.level.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

var (
	globalLogger *Logger
	once         sync.Once
)

// Get returns the process-wide logger. The level only matters on the first call.
func Get(level string) *Logger {
	once.Do(func() {
		globalLogger = newZapLogger(normalizeLevel(level))
	})
	return globalLogger
}

// Level picks the effective level for a configured value and the --verbose flag.
func Level(configured string, verbose bool) string {
	if verbose {
		return DebugLevel
	}
	return normalizeLevel(configured)
}

func normalizeLevel(s string) string {
	switch l := strings.ToLower(strings.TrimSpace(s)); l {
	case DebugLevel, InfoLevel, WarnLevel, ErrorLevel:
		return l
	case "warning":
		return WarnLevel
	default:
		return InfoLevel
	}
}
