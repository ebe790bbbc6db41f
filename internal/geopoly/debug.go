package geopoly

import (
	"log"
	"sync/atomic"
)

var debugEnabled atomic.Bool

var debugLogger = log.Default()

// SetDebug toggles the package-wide diagnostic flag: the runtime equivalent
// of the source extension's compile-time GEOPOLY_ENABLE_DEBUG flag
// (spec.md §5/§9).
func SetDebug(on bool) { debugEnabled.Store(on) }

// Debug reports whether diagnostics are currently enabled.
func Debug() bool { return debugEnabled.Load() }

// SetLogger redirects diagnostics to l instead of log.Default().
func SetLogger(l *log.Logger) { debugLogger = l }

// Debugf writes one diagnostic line when debugging is enabled, and is a
// no-op otherwise — mirrors the source's `GEODEBUG(X)` macro
// (`if(geo_debug)printf X`) in geopolyOverlap.
func Debugf(format string, args ...any) {
	if debugEnabled.Load() {
		debugLogger.Printf(format, args...)
	}
}
