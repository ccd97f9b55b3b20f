// Package logger provides the structured logging surface the runtime uses
// to report commits, aborts, and invariant violations. It is a thin,
// swappable interface over the standard library's log package rather than
// a third-party structured-logging dependency — see DESIGN.md for why
// that's a deliberate, not a default, choice.
package logger

import (
	"fmt"
	"log"
	"os"
	"path"
	"runtime"
	"sync"
)

var _ Logger = (*StdLogger)(nil)

var (
	mu      sync.RWMutex
	current = Logger(std)
)

const prefix = "orecstm "

var std = &StdLogger{
	Logger: log.New(os.Stderr, prefix, log.LstdFlags),
}

const calldepth = 2

// Logger is the level-oriented logging capability the runtime depends on.
// Debugf carries routine, expected events (a transaction aborting on
// conflict); Errorf and above carry conditions that indicate a programming
// error.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Fatalf(format string, args ...any)
	Panicf(format string, args ...any)
}

// Set replaces the process-wide default logger.
func Set(l Logger) {
	mu.Lock()
	defer mu.Unlock()
	current = l
}

// ResetDefault restores the standard-library-backed default logger.
func ResetDefault() {
	Set(std)
}

// Get returns the process-wide default logger.
func Get() Logger {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// StdLogger implements Logger on top of the standard library's *log.Logger.
// Debug output is suppressed unless EnableDebug has been called, matching
// the usual expectation that debug-level abort chatter is off by default
// in production.
type StdLogger struct {
	*log.Logger
	debug bool
}

// EnableDebug turns on Debugf output.
func (l *StdLogger) EnableDebug() {
	l.debug = true
}

func (l *StdLogger) Debugf(format string, args ...any) {
	if l.debug {
		_ = l.Output(calldepth, l.header("DEBUG", fmt.Sprintf(format, args...)))
	}
}

func (l *StdLogger) Infof(format string, args ...any) {
	_ = l.Output(calldepth, l.header("INFO", fmt.Sprintf(format, args...)))
}

func (l *StdLogger) Warnf(format string, args ...any) {
	_ = l.Output(calldepth, l.header("WARN", fmt.Sprintf(format, args...)))
}

func (l *StdLogger) Errorf(format string, args ...any) {
	_ = l.Output(calldepth, l.header("ERROR", fmt.Sprintf(format, args...)))
}

func (l *StdLogger) Fatalf(format string, args ...any) {
	_ = l.Output(calldepth, l.header("FATAL", fmt.Sprintf(format, args...)))
}

func (l *StdLogger) Panicf(format string, args ...any) {
	l.Logger.Panicf(format, args...)
}

func (l *StdLogger) header(lvl, msg string) string {
	_, file, line, ok := runtime.Caller(calldepth)
	if !ok {
		file = "unknown"
		line = 0
	} else {
		file = path.Base(file)
	}
	return fmt.Sprintf("%s:%d [%s] %s", file, line, lvl, msg)
}
