package util

import (
	"sync"
)

var (
	globalLogger *Logger
	loggerMu     sync.RWMutex
)

// InitLogger initializes the global logger instance with debug mode support.
// Calling it again replaces the previous logger.
func InitLogger(logLevel, logFile string, debugToConsole bool, format LogFormat) error {
	logger, err := NewLogger(logLevel, logFile, debugToConsole, format)
	if err != nil {
		return err
	}

	loggerMu.Lock()
	previous := globalLogger
	globalLogger = logger
	loggerMu.Unlock()

	if previous != nil {
		_ = previous.Close()
	}
	return nil
}

// CloseLogger flushes and detaches the global logger
func CloseLogger() error {
	loggerMu.Lock()
	logger := globalLogger
	globalLogger = nil
	loggerMu.Unlock()

	if logger == nil {
		return nil
	}
	return logger.Close()
}

func current() *Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return globalLogger
}

// WithFields returns a child of the global logger, or a no-op logger before InitLogger
func WithFields(fields ...Field) LoggerInterface {
	if l := current(); l != nil {
		return l.With(fields...)
	}
	return newLogger(levelOff)
}

// LogInfo convenience functions for logging
func LogInfo(msg string) {
	if l := current(); l != nil {
		l.Info(msg)
	}
}

func LogInfof(format string, args ...interface{}) {
	if l := current(); l != nil {
		l.Infof(format, args...)
	}
}

func LogDebug(msg string) {
	if l := current(); l != nil {
		l.Debug(msg)
	}
}

func LogDebugf(format string, args ...interface{}) {
	if l := current(); l != nil {
		l.Debugf(format, args...)
	}
}

func LogWarn(msg string) {
	if l := current(); l != nil {
		l.Warn(msg)
	}
}

func LogWarnf(format string, args ...interface{}) {
	if l := current(); l != nil {
		l.Warnf(format, args...)
	}
}

func LogError(msg string) {
	if l := current(); l != nil {
		l.Error(msg)
	}
}

func LogErrorf(format string, args ...interface{}) {
	if l := current(); l != nil {
		l.Errorf(format, args...)
	}
}
