// Package logging provides the leveled, component-tagged logger shared by
// the CLI, the services and both presenters.
package logging

import (
	"io"
	"log"
	"sync"

	"github.com/fredcamaral/stepdeck/internal/domain/entities"
)

var levelRank = map[entities.LogLevel]int{
	entities.LogLevelDebug: 0,
	entities.LogLevelInfo:  1,
	entities.LogLevelWarn:  2,
	entities.LogLevelError: 3,
}

// Logger writes "[LEVEL] [component] message" lines through the standard logger
type Logger struct {
	mu        sync.RWMutex
	component string
	level     entities.LogLevel
	out       *log.Logger
}

// New creates a logger for a component at the given level
func New(component string, level entities.LogLevel) *Logger {
	if _, ok := levelRank[level]; !ok {
		level = entities.LogLevelInfo
	}
	return &Logger{
		component: component,
		level:     level,
	}
}

// FromConfig creates a logger honoring logging.level and logging.verbose.
// Verbose forces debug output.
func FromConfig(component string, cfg entities.LoggingConfig) *Logger {
	level := cfg.GetLevel()
	if cfg.Verbose {
		level = entities.LogLevelDebug
	}
	return New(component, level)
}

// Discard returns a logger that drops everything, for tests and quiet modes
func Discard() *Logger {
	l := New("discard", entities.LogLevelError)
	l.out = log.New(io.Discard, "", 0)
	return l
}

// With returns a logger for a sub-component sharing the same level and output
func (l *Logger) With(component string) *Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return &Logger{
		component: component,
		level:     l.level,
		out:       l.out,
	}
}

// SetOutput redirects the logger away from the standard logger
func (l *Logger) SetOutput(out *log.Logger) {
	l.mu.Lock()
	l.out = out
	l.mu.Unlock()
}

// SetLevel updates the logging level
func (l *Logger) SetLevel(level entities.LogLevel) {
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
}

// Level returns the current level
func (l *Logger) Level() entities.LogLevel {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

func (l *Logger) shouldLog(msgLevel entities.LogLevel) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return levelRank[msgLevel] >= levelRank[l.level]
}

func (l *Logger) printf(tag string, msg string, args []interface{}) {
	l.mu.RLock()
	out := l.out
	component := l.component
	l.mu.RUnlock()

	format := "[" + tag + "] [%s] " + msg
	all := append([]interface{}{component}, args...)
	if out != nil {
		out.Printf(format, all...)
		return
	}
	log.Printf(format, all...)
}

// Debug logs debug messages (only if debug level is enabled)
func (l *Logger) Debug(msg string, args ...interface{}) {
	if l.shouldLog(entities.LogLevelDebug) {
		l.printf("DEBUG", msg, args)
	}
}

// Info logs informational messages
func (l *Logger) Info(msg string, args ...interface{}) {
	if l.shouldLog(entities.LogLevelInfo) {
		l.printf("INFO", msg, args)
	}
}

// Warn logs warning messages
func (l *Logger) Warn(msg string, args ...interface{}) {
	if l.shouldLog(entities.LogLevelWarn) {
		l.printf("WARN", msg, args)
	}
}

// Error logs error messages
func (l *Logger) Error(msg string, args ...interface{}) {
	if l.shouldLog(entities.LogLevelError) {
		l.printf("ERROR", msg, args)
	}
}

// Success logs success messages at info level
func (l *Logger) Success(msg string, args ...interface{}) {
	if l.shouldLog(entities.LogLevelInfo) {
		l.printf("SUCCESS", msg, args)
	}
}
