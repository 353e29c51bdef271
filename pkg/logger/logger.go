// Package logger provides a tiny per-file logger, enabled by an environment
// variable, in the shape used throughout this module: var log = logger.New("pkg:file").
package logger

import (
	"fmt"
	"log"
	"os"
	"sync"
)

const debugEnvVar = "BLUEPRINT_DEBUG"

var (
	enabledOnce sync.Once
	enabled     bool
)

func debugEnabled() bool {
	enabledOnce.Do(func() {
		v := os.Getenv(debugEnvVar)
		enabled = v != "" && v != "0" && v != "false"
	})
	return enabled
}

// Logger prints debug output tagged with its component name, gated by
// BLUEPRINT_DEBUG. It is always safe to call; when disabled, calls are no-ops.
type Logger struct {
	name string
}

// New returns a Logger tagged with name, e.g. "pkg:file".
func New(name string) *Logger {
	return &Logger{name: name}
}

// Enabled reports whether debug logging is active for this process.
func (l *Logger) Enabled() bool {
	return debugEnabled()
}

// Printf logs a formatted message if debug logging is enabled.
func (l *Logger) Printf(format string, args ...any) {
	if !debugEnabled() {
		return
	}
	log.Output(2, fmt.Sprintf("[%s] %s", l.name, fmt.Sprintf(format, args...)))
}

// Print logs a message if debug logging is enabled.
func (l *Logger) Print(args ...any) {
	if !debugEnabled() {
		return
	}
	log.Output(2, fmt.Sprintf("[%s] %s", l.name, fmt.Sprint(args...)))
}
