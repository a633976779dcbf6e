package sketch

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gogpu/sketch/text"
)

// nopHandler is a slog.Handler that silently discards all log records.
// Enabled returns false so callers skip message formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

// loggerPtr stores the active logger. Accessed atomically so that
// SetLogger can be called concurrently with logging from any goroutine.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the logger for sketch and all its sub-packages.
// By default, sketch produces no log output. Pass nil to restore the
// silent default.
//
// Log levels used by sketch:
//   - [slog.LevelDebug]: cache and pipeline diagnostics
//   - [slog.LevelInfo]: lifecycle events (accelerator selected, window opened)
//   - [slog.LevelWarn]: filter fallbacks and one-time resource reports
//   - [slog.LevelError]: dropped frames
//
// Example:
//
//	sketch.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
	text.SetLogger(l)

	accelMu.RLock()
	a := accel
	accelMu.RUnlock()
	if a != nil {
		propagateLogger(a, l)
	}
}

// Logger returns the current logger used by sketch.
// Sub-packages (gpu/, gui/, driver/..., integration/gpucanvas/) call this
// to share the same logger configuration.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}

// loggerSetter is implemented by accelerators that accept a logger.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

func propagateLogger(a FilterAccelerator, l *slog.Logger) {
	if ls, ok := a.(loggerSetter); ok {
		ls.SetLogger(l)
	}
}

// reported holds the keys already passed to warnOnce.
var reported sync.Map

// warnOnce logs msg at Warn level the first time key is seen. It reports
// whether the message was logged.
func warnOnce(key, msg string, args ...any) bool {
	if _, loaded := reported.LoadOrStore(key, struct{}{}); loaded {
		return false
	}
	Logger().Warn(msg, args...)
	return true
}
