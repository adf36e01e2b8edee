package core

// Logger is the narrow logging interface threaded through the renderer and
// the path integrator, so call sites don't need to know about a concrete
// logging library. The production implementation (pkg/config.NewLogger)
// wraps a *zap.SugaredLogger, mapping Printf to its Infof and Debugf to its
// Debugf.
type Logger interface {
	Printf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// NopLogger discards everything. Used as the zero value so components never
// need a nil check before logging.
type NopLogger struct{}

func (NopLogger) Printf(string, ...interface{}) {}
func (NopLogger) Debugf(string, ...interface{}) {}
