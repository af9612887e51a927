package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	globalLogger *zap.SugaredLogger
	mu           sync.Mutex
)

// Init builds the process logger. format is "json" for production output,
// anything else gives the colored console encoder.
func Init(level, format string) error {
	var cfg zap.Config
	if format == "json" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	cfg.DisableStacktrace = zapLevel > zapcore.DebugLevel

	l, err := cfg.Build()
	if err != nil {
		return err
	}

	mu.Lock()
	globalLogger = l.Sugar()
	mu.Unlock()
	return nil
}

// Get returns the process logger, falling back to a no-op logger before Init.
func Get() *zap.SugaredLogger {
	mu.Lock()
	defer mu.Unlock()
	if globalLogger == nil {
		globalLogger = zap.NewNop().Sugar()
	}
	return globalLogger
}

// Sync flushes buffered log entries.
func Sync() {
	_ = Get().Sync()
}
