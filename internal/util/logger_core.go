package util

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// LogLevel orders log severities
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
	levelOff
)

var levelNames = [...]string{"DEBUG", "INFO", "WARN", "ERROR"}

func (l LogLevel) String() string {
	if l < LevelDebug || l >= levelOff {
		return "UNKNOWN"
	}
	return levelNames[l]
}

// ParseLogLevel parses a level name, defaulting to info
func ParseLogLevel(levelStr string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Field is one structured key/value attached to a log line
type Field struct {
	Key   string
	Value interface{}
}

// F builds a Field
func F(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// LogFormat selects how entries are rendered
type LogFormat string

const (
	FormatText LogFormat = "text"
	FormatJSON LogFormat = "json"
)

// LogEntry is what outputs receive
type LogEntry struct {
	Timestamp time.Time              `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// Output is a log destination
type Output interface {
	Write(entry LogEntry) error
	Close() error
}

// LoggerInterface is the logging surface handed to components
type LoggerInterface interface {
	Debug(msg string, fields ...Field)
	Debugf(format string, args ...interface{})
	Info(msg string, fields ...Field)
	Infof(format string, args ...interface{})
	Warn(msg string, fields ...Field)
	Warnf(format string, args ...interface{})
	Error(msg string, fields ...Field)
	Errorf(format string, args ...interface{})
	With(fields ...Field) LoggerInterface
}

// sink is shared by a logger and every child created with With, so level
// changes and Close reach all of them.
type sink struct {
	mu      sync.RWMutex
	level   LogLevel
	outputs []Output
}

// Logger writes structured entries to its outputs
type Logger struct {
	sink   *sink
	fields []Field
}

// NewLogger creates a logger writing to logFile, and to stderr as well when
// debugToConsole is set. At least one destination is required.
func NewLogger(levelStr string, logFile string, debugToConsole bool, format LogFormat) (*Logger, error) {
	if logFile == "" && !debugToConsole {
		return nil, fmt.Errorf("log file must be specified when not in debug mode")
	}

	logger := newLogger(ParseLogLevel(levelStr))
	if debugToConsole {
		logger.AddOutput(NewConsoleOutput(os.Stderr, format))
	}
	if logFile != "" {
		if err := os.MkdirAll(filepath.Dir(logFile), 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		out, err := NewFileOutput(logFile, format, DefaultLogMaxBytes)
		if err != nil {
			return nil, fmt.Errorf("failed to create file output for %s: %w", logFile, err)
		}
		logger.AddOutput(out)
	}
	return logger, nil
}

func newLogger(level LogLevel) *Logger {
	return &Logger{sink: &sink{level: level}}
}

func (l *Logger) log(level LogLevel, msg string, fields []Field) {
	l.sink.mu.RLock()
	defer l.sink.mu.RUnlock()

	if level < l.sink.level || len(l.sink.outputs) == 0 {
		return
	}

	entry := LogEntry{Timestamp: time.Now(), Level: level.String(), Message: msg}
	if n := len(l.fields) + len(fields); n > 0 {
		entry.Fields = make(map[string]interface{}, n)
		// call-site fields win over inherited ones
		for _, f := range l.fields {
			entry.Fields[f.Key] = f.Value
		}
		for _, f := range fields {
			entry.Fields[f.Key] = f.Value
		}
	}

	for _, out := range l.sink.outputs {
		if err := out.Write(entry); err != nil {
			log.Printf("Failed to write log entry: %v", err)
		}
	}
}

func (l *Logger) Debug(msg string, fields ...Field) { l.log(LevelDebug, msg, fields) }
func (l *Logger) Info(msg string, fields ...Field)  { l.log(LevelInfo, msg, fields) }
func (l *Logger) Warn(msg string, fields ...Field)  { l.log(LevelWarn, msg, fields) }
func (l *Logger) Error(msg string, fields ...Field) { l.log(LevelError, msg, fields) }

func (l *Logger) Debugf(format string, args ...interface{}) {
	l.log(LevelDebug, fmt.Sprintf(format, args...), nil)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.log(LevelInfo, fmt.Sprintf(format, args...), nil)
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.log(LevelWarn, fmt.Sprintf(format, args...), nil)
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.log(LevelError, fmt.Sprintf(format, args...), nil)
}

// With returns a child logger that adds fields to every entry
func (l *Logger) With(fields ...Field) LoggerInterface {
	merged := make([]Field, 0, len(l.fields)+len(fields))
	merged = append(merged, l.fields...)
	merged = append(merged, fields...)
	return &Logger{sink: l.sink, fields: merged}
}

// SetLevel changes the level of this logger and all its children
func (l *Logger) SetLevel(level LogLevel) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.level = level
}

// AddOutput adds a destination
func (l *Logger) AddOutput(output Output) {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	l.sink.outputs = append(l.sink.outputs, output)
}

// Close closes every output. Children stop logging as well.
func (l *Logger) Close() error {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()

	var firstErr error
	for _, out := range l.sink.outputs {
		if err := out.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	l.sink.outputs = nil
	return firstErr
}
