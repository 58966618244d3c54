package cglib

import (
	"log/slog"

	"github.com/gogpu/cglib/internal/debug"
)

// SetLogger configures the logger for cglib and all its sub-packages.
// By default, cglib produces no log output. Call SetLogger to enable logging.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by cglib:
//   - [slog.LevelDebug]: debug notes of enabled categories (tile layout,
//     copy-on-write, program cache traffic)
//   - [slog.LevelWarn]: ignored misuse (invalid uniforms, mutating an
//     attached snippet, mipmap magnification filters)
//
// Example:
//
//	// Enable debug-level logging for full diagnostics:
//	cglib.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	debug.SetLogger(l)
}

// Logger returns the current logger used by cglib.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return debug.Logger()
}
