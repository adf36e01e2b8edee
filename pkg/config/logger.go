package config

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vantablack/tracer/pkg/core"
)

// zapLogger backs core.Logger with a zap.SugaredLogger. Trace logging (the
// integrator's per-path and the renderer's per-row Debugf calls) is gated by
// zap's own level check
// rather than a hand-rolled Verbose bool.
type zapLogger struct {
	sugar *zap.SugaredLogger
}

// NewLogger builds a core.Logger and returns a flush function the caller
// must invoke before exit.
func NewLogger(verbose bool) (core.Logger, func(), error) {
	var cfg zap.Config
	if verbose {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, nil, err
	}
	sugar := logger.Sugar()
	return &zapLogger{sugar: sugar}, func() { _ = logger.Sync() }, nil
}

func (z *zapLogger) Printf(format string, args ...interface{}) { z.sugar.Infof(format, args...) }
func (z *zapLogger) Debugf(format string, args ...interface{}) { z.sugar.Debugf(format, args...) }
