package adbenv

import (
	"log/slog"

	"github.com/giantswarm/adbenv/internal/core"
)

// SetLogger replaces the package-level logger used by adbenv.
// The provided logger should already have any desired attributes; adbenv only
// adds per-controller attributes (database, isolation_key).
//
// If l is nil, the logger resets to the default: slog.Default() with a
// "component" attribute, re-derived on the next use and then cached. Call
// SetLogger(nil) after slog.SetDefault() to pick up changes.
//
// Controllers capture the logger when they are created, so call SetLogger
// before NewController (e.g. in TestMain before m.Run).
//
// Example:
//
//	adbenv.SetLogger(myLogger.With("component", "adbenv"))
func SetLogger(l *slog.Logger) {
	core.SetLogger(l)
}
