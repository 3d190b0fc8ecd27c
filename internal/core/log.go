package core

import (
	"log/slog"
	"sync/atomic"
)

// logger holds the logger installed with SetLogger. Nil means "use the
// default" (see defaultLogger).
var logger atomic.Pointer[slog.Logger]

// defaultLogger caches slog.Default() with the component attribute. A later
// slog.SetDefault is only picked up after SetLogger(nil) clears the cache.
var defaultLogger atomic.Pointer[slog.Logger]

// Logger returns the current package-level logger: the one set with
// SetLogger, or a cached logger derived from slog.Default(). It is safe to
// call from multiple goroutines.
func Logger() *slog.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	if l := defaultLogger.Load(); l != nil {
		return l
	}
	l := newDefaultLogger()
	if defaultLogger.CompareAndSwap(nil, l) {
		return l
	}
	// A concurrent SetLogger may have cleared the winner; never return nil.
	if l2 := defaultLogger.Load(); l2 != nil {
		return l2
	}
	return l
}

func newDefaultLogger() *slog.Logger {
	return slog.Default().With("component", "adbenv")
}

// SetLogger replaces the package-level logger. A nil l restores the default,
// re-derived from slog.Default() on the next Logger() call.
func SetLogger(l *slog.Logger) {
	logger.Store(l)
	defaultLogger.Store(nil)
}
