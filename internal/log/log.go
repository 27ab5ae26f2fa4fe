// Package log constructs the process's single zerolog.Logger and the
// per-component sub-loggers threaded through every other package via
// explicit constructor parameters — never a package-level global,
// matching the "every component consumes shared state through an
// explicit handle" design note (spec §9).
//
// Grounded on gio's own avoidance of ambient globals for its GL/EGL setup
// (app package takes no package-level state for its window context);
// zerolog itself comes from the pack's helixml-helix go.mod.
package log

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// New constructs the root logger, writing to w (typically a rotated log
// file opened by the caller via internal/xdgdirs.LogPath) as well as a
// console-formatted stream on stderr when console is true.
func New(w io.Writer, console bool) zerolog.Logger {
	if console {
		w = io.MultiWriter(w, zerolog.ConsoleWriter{Out: os.Stderr})
	}
	return zerolog.New(w).With().Timestamp().Logger()
}

// Component returns a sub-logger tagged with a "component" field, the
// pattern every package in this repo uses to identify its log lines
// (spec §4.8: coordinator, exhibitor, dispatcher, display, input).
func Component(base zerolog.Logger, name string) zerolog.Logger {
	return base.With().Str("component", name).Logger()
}
