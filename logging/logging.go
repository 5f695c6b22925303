// Package logging builds the zap logger shared by the trainkit commands.
package logging

import "fmt"

import "go.uber.org/zap"
import "go.uber.org/zap/zapcore"

// New builds a production logger at level, or at debug level when verbose is set.
func New(level string, verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}
	config.Level = zap.NewAtomicLevelAt(lvl)
	return config.Build()
}

// Install builds a logger with New and makes it the global zap logger used by
// the library packages. The returned function flushes and restores the previous logger.
func Install(level string, verbose bool) (func(), error) {
	logger, err := New(level, verbose)
	if err != nil {
		return nil, err
	}
	restore := zap.ReplaceGlobals(logger)
	return func() {
		_ = logger.Sync()
		restore()
	}, nil
}
