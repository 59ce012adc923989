package obslog

import (
	"io"
	"log/slog"
	"sync"
)

var (
	loggers  sync.Map // map[string]*slog.Logger
	handlers sync.Map // map[string]*subsystemHandler

	globalLogger     *slog.Logger
	globalLoggerOnce sync.Once
)

// Logger returns the cached logger for subsystem, creating it (and its
// level, from UDPCLUSTER_LOG_LEVEL) on first use.
func Logger(subsystem string) *slog.Logger {
	if l, ok := loggers.Load(subsystem); ok {
		return l.(*slog.Logger)
	}

	cfg := ConfigFromEnv()
	level := cfg.LevelForSubsystem(subsystem)

	handler := newHandler(subsystem, level, cfg.Format)
	log := slog.New(handler)

	actual, _ := loggers.LoadOrStore(subsystem, log)
	if h, ok := handler.(*subsystemHandler); ok {
		handlers.Store(subsystem, h)
	}
	return actual.(*slog.Logger)
}

// GlobalLogger returns the logger for the "cluster" subsystem, used for
// messages that don't belong to one specific worker.
func GlobalLogger() *slog.Logger {
	globalLoggerOnce.Do(func() {
		globalLogger = Logger("cluster")
	})
	return globalLogger
}

// SetLevel adjusts a single subsystem's level at runtime.
func SetLevel(subsystem string, level slog.Level) {
	if h, ok := handlers.Load(subsystem); ok {
		h.(*subsystemHandler).SetLevel(level)
	}
}

// Discard returns a logger that drops everything — for tests that don't
// want worker chatter on stderr.
func Discard() *slog.Logger {
	return slog.New(DiscardHandler())
}

// SetOutput redirects every logger's output. Safe to call after loggers
// have already been created.
func SetOutput(w io.Writer) {
	globalOutputMu.Lock()
	globalOutput = w
	globalOutputMu.Unlock()
}
