package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process logger.
func New(env, level string, json bool) (*zap.Logger, error) {
	logger, err := newConfig(env, level, json).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}

// newConfig picks the encoder from json alone: LOG_JSON=false gives the
// console encoder in any environment. The dev environment only switches on
// development mode (stack traces on warn, DPanic panics).
func newConfig(env, level string, json bool) zap.Config {
	cfg := zap.NewProductionConfig()
	if env == "dev" {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Encoding = "json"
	if !json {
		cfg.Encoding = "console"
	}
	cfg.Level = zap.NewAtomicLevelAt(ParseLevel(level))
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg
}

// ParseLevel maps debug|info|warn|error to a zap level; anything else is info.
func ParseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
