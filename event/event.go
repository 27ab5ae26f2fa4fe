// Package event defines the "perceptron": the closed, tagged-union set of
// payloads carried on the signal bus (package dispatcher), plus the
// process-wide identifiers (surface id, pool id, display id) those payloads
// reference.
package event

import (
	"image"
	"time"

	"github.com/wlcore/compositor/timing"
)

// SurfaceID addresses a Wayland surface for the lifetime of the process.
// The zero value is the invalid sentinel: no surface ever has id 0.
type SurfaceID uint64

// InvalidSurfaceID is the sentinel denoting "no surface".
const InvalidSurfaceID SurfaceID = 0

// PoolID addresses a memory pool.
type PoolID uint64

// ViewID addresses a memory view.
type ViewID uint64

// ImageID addresses a hardware image handle (EGL or dmabuf backed).
type ImageID uint64

// DisplayID addresses a physical output / its display frame.
type DisplayID uint64

// Kind identifies which perceptron variant a Payload carries. Kind values
// are the "small integer signal id" the bus is keyed by (spec §4.1).
type Kind uint8

const (
	KindNotify Kind = iota
	KindSuspend
	KindWakeUp
	KindPageFlip
	KindVerticalBlank
	KindOutputFound
	KindOutputLost
	KindCommand
	KindDisplayCreated
	KindPointerMotion
	KindPointerPosition
	KindPointerButton
	KindPointerAxis
	KindPointerPositionReset
	KindKeyboardKey
	KindSurfaceReady
	KindSurfaceDestroyed
	KindSurfaceReconfigured
	KindSurfaceFrame
	KindDockSurface
	KindCursorSurfaceChange
	KindBackgroundSurfaceChange
	KindPointerFocusChanged
	KindPointerRelativeMotion
	KindKeyboardFocusChanged
	KindTransferOffered
	KindTransferRequested
	KindTakeScreenshot
	KindScreenshotDone
	KindModeSwitched

	// numKinds is a sentinel used to size subscription bitsets; it must
	// stay last.
	numKinds
)

// NumKinds returns the number of distinct signal kinds, for callers sizing
// their own per-kind bookkeeping (dispatcher.Signaler keys its subscriber
// table by Kind in a map and does not use it).
func NumKinds() int { return int(numKinds) }

func (k Kind) String() string {
	names := [...]string{
		"notify", "suspend", "wake-up", "page-flip", "vertical-blank",
		"output-found", "output-lost", "command", "display-created",
		"pointer-motion", "pointer-position", "pointer-button", "pointer-axis",
		"pointer-position-reset", "keyboard-key", "surface-ready",
		"surface-destroyed", "surface-reconfigured", "surface-frame",
		"dock-surface", "cursor-surface-change", "background-surface-change",
		"pointer-focus-changed", "pointer-relative-motion",
		"keyboard-focus-changed", "transfer-offered", "transfer-requested",
		"take-screenshot", "screenshot-done", "mode-switched",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "unknown-kind"
}

// Payload is the marker interface implemented by every perceptron variant.
// Analogous to io/event.Event in gio's own input router: a closed set of
// concrete types switched on by receivers.
type Payload interface {
	Kind() Kind
}

// Clone returns a value-semantics copy suitable for fanning out to a
// subscriber. Payloads that hold only value fields (the common case) are
// already safe to copy by assignment; Clone exists so a payload carrying a
// large buffer (none currently do — see design note in spec.md §9) has a
// single place to special-case a counted-reference copy instead of a deep
// copy.
func Clone(p Payload) Payload { return p }

type Notify struct{}

func (Notify) Kind() Kind { return KindNotify }

type Suspend struct{}

func (Suspend) Kind() Kind { return KindSuspend }

type WakeUp struct{}

func (WakeUp) Kind() Kind { return KindWakeUp }

type PageFlip struct {
	Display DisplayID
}

func (PageFlip) Kind() Kind { return KindPageFlip }

type VerticalBlank struct {
	Display DisplayID
}

func (VerticalBlank) Kind() Kind { return KindVerticalBlank }

// OutputInfo mirrors spec §3 "Output info".
type OutputInfo struct {
	ID         DisplayID
	Area       image.Rectangle // pixel area on the virtual desktop
	PhysWidth  int             // millimeters
	PhysHeight int             // millimeters
	RefreshMHz int             // refresh rate in milli-hertz
	Make       string
	Model      string
}

type OutputFound struct {
	Output OutputInfo
}

func (OutputFound) Kind() Kind { return KindOutputFound }

type OutputLost struct {
	Display DisplayID
}

func (OutputLost) Kind() Kind { return KindOutputLost }

// Command is a compositor-policy request, e.g. from a key binding executor.
// Name identifies the action ("move-left", "exalt", "verticalize", ...);
// Arg carries an optional string argument (workspace name, direction).
type Command struct {
	Name string
	Arg  string
}

type CommandIssued struct {
	Command Command
}

func (CommandIssued) Kind() Kind { return KindCommand }

type DisplayCreated struct {
	Display DisplayID
	Info    OutputInfo
}

func (DisplayCreated) Kind() Kind { return KindDisplayCreated }

type PointerMotion struct {
	Delta image.Point
	Time  time.Duration
}

func (PointerMotion) Kind() Kind { return KindPointerMotion }

// PointerPosition carries an absolute touchpad position; either axis may be
// unset (represented with HasX/HasY) if the device only reports one axis
// in a given event.
type PointerPosition struct {
	X, Y       float32
	HasX, HasY bool
	Time       time.Duration
}

func (PointerPosition) Kind() Kind { return KindPointerPosition }

// Buttons is a bitset of pressed pointer buttons.
type Buttons uint8

const (
	ButtonLeft Buttons = 1 << iota
	ButtonRight
	ButtonMiddle
)

type PointerButton struct {
	Button  Buttons
	Pressed bool
	Time    time.Duration
}

func (PointerButton) Kind() Kind { return KindPointerButton }

type PointerAxis struct {
	Horizontal, Vertical float32
	Time                 time.Duration
}

func (PointerAxis) Kind() Kind { return KindPointerAxis }

type PointerPositionReset struct{}

func (PointerPositionReset) Kind() Kind { return KindPointerPositionReset }

type KeyboardKey struct {
	Code  uint16
	Value int32 // 0 released, 1 pressed, 2 repeat
	Time  time.Duration
}

func (KeyboardKey) Kind() Kind { return KindKeyboardKey }

type SurfaceReady struct {
	Surface SurfaceID
}

func (SurfaceReady) Kind() Kind { return KindSurfaceReady }

type SurfaceDestroyed struct {
	Surface SurfaceID
}

func (SurfaceDestroyed) Kind() Kind { return KindSurfaceDestroyed }

type SurfaceReconfigured struct {
	Surface SurfaceID
}

func (SurfaceReconfigured) Kind() Kind { return KindSurfaceReconfigured }

type SurfaceFrame struct {
	Surface SurfaceID
	AtMs    uint32
}

func (SurfaceFrame) Kind() Kind { return KindSurfaceFrame }

type DockSurface struct {
	Surface SurfaceID
	Size    image.Point
	Display DisplayID
}

func (DockSurface) Kind() Kind { return KindDockSurface }

type CursorSurfaceChange struct {
	Surface SurfaceID
}

func (CursorSurfaceChange) Kind() Kind { return KindCursorSurfaceChange }

type BackgroundSurfaceChange struct {
	Surface SurfaceID
}

func (BackgroundSurfaceChange) Kind() Kind { return KindBackgroundSurfaceChange }

type PointerFocusChanged struct {
	Old, New SurfaceID
	Position image.Point
}

func (PointerFocusChanged) Kind() Kind { return KindPointerFocusChanged }

type PointerRelativeMotion struct {
	Surface  SurfaceID
	Position image.Point
	AtMs     uint32
}

func (PointerRelativeMotion) Kind() Kind { return KindPointerRelativeMotion }

type KeyboardFocusChanged struct {
	Old, New SurfaceID
}

func (KeyboardFocusChanged) Kind() Kind { return KindKeyboardFocusChanged }

type TransferOffered struct {
	MimeTypes []string
}

func (TransferOffered) Kind() Kind { return KindTransferOffered }

type TransferRequested struct {
	MimeType string
	Fd       int
}

func (TransferRequested) Kind() Kind { return KindTransferRequested }

type TakeScreenshot struct {
	Display DisplayID
}

func (TakeScreenshot) Kind() Kind { return KindTakeScreenshot }

type ScreenshotDone struct{}

func (ScreenshotDone) Kind() Kind { return KindScreenshotDone }

// ModeSwitched signals the visual/normal mode toggle driving drag-to-move
// activation (spec §4.4 "on-mode-switched").
type ModeSwitched struct {
	Active bool
	Visual bool
}

func (ModeSwitched) Kind() Kind { return KindModeSwitched }

// TimeNow is a tiny indirection so packages can stamp events without each
// importing timing.Clock directly; kept here because every payload above
// that carries a Time field is stamped at the point of construction, not
// lazily.
func TimeNow(c timing.Clock) time.Duration { return c.Now() }
