// Package logger provides the shared zap logger for the thermostat daemon.
package logger

import (
	"sync"
)

// Log levels accepted in daemon configuration.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
)

var (
	global *Logger
	once   sync.Once
)

// Get returns the process-wide logger. The first call builds it at the given
// level; later calls ignore the argument and return the same instance.
func Get(level string) *Logger {
	once.Do(func() {
		global = newZapLogger(level)
	})
	return global
}
