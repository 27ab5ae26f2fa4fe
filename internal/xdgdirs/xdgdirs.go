// Package xdgdirs resolves the three directory rules spec §6
// "Directories" names, as pure functions over os.Getenv: a runtime root
// scoped to this process's start time, a rotated log path, and a
// configuration search path.
//
// Grounded on original_source/src/qualia/env.rs (cognitive/qualia/src/env.rs),
// which does exactly this XDG resolution for the original compositor; no
// third-party library is used here since no example repo wraps XDG lookup
// in a library and gio has no analogue (it targets cross-platform GUI
// apps, not a single Linux service with a runtime directory).
package xdgdirs

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const appName = "wlcore"

func stamp(t time.Time) string {
	return fmt.Sprintf("%02d-%d-%d-%d-%d", t.Day(), int(t.Month()), t.Hour(), t.Minute(), t.Second())
}

// RuntimeRoot returns $XDG_RUNTIME_DIR/<app>-<day>-<mon>-<hh>-<mm>-<ss>,
// unique per process start, falling back to os.TempDir if
// XDG_RUNTIME_DIR is unset.
func RuntimeRoot(start time.Time) string {
	base := os.Getenv("XDG_RUNTIME_DIR")
	if base == "" {
		base = os.TempDir()
	}
	return filepath.Join(base, fmt.Sprintf("%s-%s", appName, stamp(start)))
}

// CurrentLink returns the stable $XDG_RUNTIME_DIR/<app>-current path a
// companion CLI can resolve without knowing the server's start
// timestamp; compositord symlinks it to its actual timestamped
// RuntimeRoot on startup, replacing any stale link left by a prior run.
func CurrentLink() string {
	base := os.Getenv("XDG_RUNTIME_DIR")
	if base == "" {
		base = os.TempDir()
	}
	return filepath.Join(base, appName+"-current")
}

// LogPath returns $XDG_CACHE_HOME/<app>/log-<day>-<mon>-<hh>-<mm>-<ss>.log,
// falling back to $HOME/.cache/<app> if XDG_CACHE_HOME is unset.
func LogPath(start time.Time) string {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		base = filepath.Join(os.Getenv("HOME"), ".cache")
	}
	return filepath.Join(base, appName, fmt.Sprintf("log-%s.log", stamp(start)))
}

// LogRetention is how long a rotated log file is kept before it is
// eligible for cleanup (spec §6: "rotated out after two days").
const LogRetention = 48 * time.Hour

// ConfigSearchPath returns the ordered list of directories configuration
// is searched in: $XDG_CONFIG_HOME/<app> first, then /etc/<app>.
func ConfigSearchPath() []string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		base = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return []string{
		filepath.Join(base, appName),
		filepath.Join("/etc", appName),
	}
}
