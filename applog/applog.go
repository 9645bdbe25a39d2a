// Package applog provides general-purpose application logging.
//
// Logs are structured JSON written to stderr, which Lambda forwards to
// CloudWatch. Covers: cold start, connections, requests and general events.
// Components that log a lot take a *zap.Logger explicitly; the package
// level helpers are for one-off lines.
package applog

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	logger = zap.NewNop()
)

// New builds a production logger at the given level ("debug", "info", ...).
// An unknown level falls back to info.
func New(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

// SetLogger replaces the process logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	mu.Lock()
	logger = l
	mu.Unlock()
}

// L returns the process logger. Never nil.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// OrNop returns l, or a no-op logger when l is nil.
func OrNop(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

// Info logs a general info message.
func Info(format string, args ...interface{}) {
	L().Info(fmt.Sprintf(format, args...))
}

// Error logs an error message.
func Error(format string, args ...interface{}) {
	L().Error(fmt.Sprintf(format, args...))
}

// Event logs a message tagged with a category.
func Event(category string, format string, args ...interface{}) {
	L().Info(fmt.Sprintf(format, args...), zap.String("category", category))
}

// Sync flushes buffered log entries.
func Sync() {
	_ = L().Sync()
}
