package ded

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger = zap.NewNop()

// InitLogging routes diagnostics to stderr at the given level
// (debug, info, warn, error).
func InitLogging(level string) error {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.WarnLevel
	}

	config := zap.NewDevelopmentConfig()
	config.Level = zap.NewAtomicLevelAt(lvl)
	config.OutputPaths = []string{"stderr"}
	config.DisableStacktrace = true

	l, err := config.Build()
	if err != nil {
		return err
	}
	logger = l
	return nil
}

// L returns the package logger; it discards everything until InitLogging runs.
func L() *zap.Logger { return logger }

func SyncLogging() {
	_ = logger.Sync()
}
