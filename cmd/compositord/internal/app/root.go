// Package app wires the dependency chain spec §2 describes
// (timing → errors → dispatcher/signaler → memory → coordinator →
// frames → pointer → display → exhibitor → input gateway) behind a
// single cobra root command, grounded on helixml-helix's
// api/cmd/helix/root.go + runner.go split (an options struct populated
// from env defaults, overridable by flags, handed to a long-running run
// function).
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/wlcore/compositor/config"
	"github.com/wlcore/compositor/coordinator"
	"github.com/wlcore/compositor/dispatcher"
	"github.com/wlcore/compositor/exhibitor"
	"github.com/wlcore/compositor/input"
	"github.com/wlcore/compositor/internal/ipc"
	"github.com/wlcore/compositor/internal/log"
	"github.com/wlcore/compositor/internal/xdgdirs"
	"github.com/wlcore/compositor/pointer"
	"github.com/wlcore/compositor/timing"
)

// NewRootCmd builds the compositord command.
func NewRootCmd() *cobra.Command {
	var cfg config.Config
	var console bool

	cmd := &cobra.Command{
		Use:   "compositord",
		Short: "wlcore compositor core",
		Long:  "Runs the compositor policy engine, display redraw loops, and the introspection socket.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cfg, console)
		},
	}

	loaded, err := config.Load()
	if err == nil {
		cfg = loaded
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.BackgroundPath, "background", cfg.BackgroundPath, "path to the background image")
	flags.IntVar(&cfg.MoveStep, "move-step", cfg.MoveStep, "pixel step for move-* commands on floating frames")
	flags.StringVar(&cfg.ChooseTarget, "choose-target", cfg.ChooseTarget, "placement target strategy: anchored_but_popups|always_floating")
	flags.StringVar(&cfg.ChooseFloating, "choose-floating", cfg.ChooseFloating, "floating placement strategy: always_centered")
	flags.Float32Var(&cfg.TouchpadScale, "touchpad-scale", cfg.TouchpadScale, "touchpad motion scale factor")
	flags.Int32Var(&cfg.TouchpadPressureThreshold, "touchpad-pressure-threshold", cfg.TouchpadPressureThreshold, "minimum touch pressure to register motion")
	flags.Float32Var(&cfg.MouseScale, "mouse-scale", cfg.MouseScale, "mouse motion scale factor")
	flags.StringVar(&cfg.KeyboardLayout, "keyboard-layout", cfg.KeyboardLayout, "XKB keyboard layout")
	flags.StringVar(&cfg.KeyboardVariant, "keyboard-variant", cfg.KeyboardVariant, "XKB keyboard variant")
	flags.StringVar(&cfg.KeyBindings, "key-bindings", cfg.KeyBindings, "compact key binding encoding")
	flags.BoolVar(&console, "console", true, "also log human-readable output to stderr")

	return cmd
}

// run wires the dependency chain and blocks for the process lifetime.
func run(cfg config.Config, console bool) error {
	start := time.Now()

	logPath := xdgdirs.LogPath(start)
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return fmt.Errorf("compositord: create log dir: %w", err)
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("compositord: open log file: %w", err)
	}
	defer logFile.Close()

	logger := log.New(logFile, console)
	logger.Info().Str("log_path", logPath).Msg("starting compositord")

	bindings, err := config.ParseBindings(cfg.KeyBindings)
	if err != nil {
		return fmt.Errorf("compositord: %w", err)
	}

	clk := timing.NewClock()
	sig := dispatcher.NewSignaler()

	coord := coordinator.New(sig, clk, log.Component(logger, "coordinator"))
	ptr := pointer.New(clk)
	exh := exhibitor.New(coord, sig, ptr, cfg.ExhibitorConfig(), log.Component(logger, "exhibitor"))

	binds := newBindingTable(sig, bindings)
	// The raw device reader that would call gw.EmitKey/EmitMotion/... is
	// the evdev backend, out of scope per spec §1; gw is wired here so
	// that backend has somewhere to plug in.
	gw := input.New(binds, nil, sig, clk.Now)
	_ = gw

	runtimeRoot := xdgdirs.RuntimeRoot(start)
	if err := os.MkdirAll(runtimeRoot, 0o700); err != nil {
		return fmt.Errorf("compositord: create runtime dir: %w", err)
	}
	currentLink := xdgdirs.CurrentLink()
	_ = os.Remove(currentLink)
	if err := os.Symlink(runtimeRoot, currentLink); err != nil {
		logger.Warn().Err(err).Msg("could not create stable runtime-dir symlink, compositorctl will need --socket")
	}

	ipcSrv, err := ipc.Listen(filepath.Join(runtimeRoot, "ipc.sock"), exh, coord, log.Component(logger, "ipc"))
	if err != nil {
		return fmt.Errorf("compositord: %w", err)
	}
	defer ipcSrv.Close()
	go ipcSrv.Serve()
	logger.Info().Str("socket", ipcSrv.Addr()).Msg("introspection socket listening")

	// BlockFatalSignals blocks on the calling OS thread only, so the
	// goroutine that calls it and later runs RunUntilStopped must stay
	// pinned to that thread.
	runtime.LockOSThread()
	if err := dispatcher.BlockFatalSignals(); err != nil {
		return fmt.Errorf("compositord: block fatal signals: %w", err)
	}

	go dispatcher.Run(sig, exh.AsModule())
	go dispatcher.Run(sig, binds)

	// No display.Module is started here: display-created signals are not
	// consumed, because the concrete display.Driver (DRM/KMS, or any other
	// scanout backend) is intentionally not implemented
	// here — it is the out-of-scope plug-in point display.Driver exists
	// to isolate (spec §1's "software-rendered compositing fallback"
	// non-goal also rules out a stand-in backend for this entrypoint to
	// fall back to).
	d, err := dispatcher.New()
	if err != nil {
		return fmt.Errorf("compositord: %w", err)
	}
	stopper, err := dispatcher.NewSignalStop(d)
	if err != nil {
		return fmt.Errorf("compositord: %w", err)
	}
	defer stopper.Close()

	return d.RunUntilStopped()
}
