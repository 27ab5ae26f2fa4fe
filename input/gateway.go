// Package input implements the input gateway (spec §4.7): a small state
// machine that consumes raw device events, tracks modifier keys, catches
// built-in key bindings (virtual-terminal switching), and forwards the
// remainder as semantic events on the bus.
//
// Grounded on original_source/cognitive/device_manager/src/input_gateway.rs
// (the catch/forward algorithm, transcribed from its emit_key/catch_key
// methods) and cognitive/inputs/src/keyboard_state.rs (the modifier bitset
// and its eight-key table); the semantic event vocabulary follows the
// teacher's io/key modifier set (io/key/key.go).
package input

import (
	"image"
	"time"

	"github.com/wlcore/compositor/dispatcher"
	"github.com/wlcore/compositor/event"
)

// Modifier is a bitset of the eight tracked modifier keys.
type Modifier uint8

const (
	ModLeftCtrl Modifier = 1 << iota
	ModRightCtrl
	ModLeftShift
	ModRightShift
	ModLeftAlt
	ModRightAlt
	ModLeftMeta
	ModRightMeta
)

const anyCtrlAlt = ModLeftAlt | ModLeftCtrl

// Raw evdev key codes this package reasons about directly. Values match
// linux/input-event-codes.h.
const (
	KeyLeftCtrl   uint16 = 29
	KeyRightCtrl  uint16 = 97
	KeyLeftShift  uint16 = 42
	KeyRightShift uint16 = 54
	KeyLeftAlt    uint16 = 56
	KeyRightAlt   uint16 = 100
	KeyLeftMeta   uint16 = 125
	KeyRightMeta  uint16 = 126

	KeyF1  uint16 = 59
	KeyF12 uint16 = 88
)

const (
	valueReleased int32 = 0
	valuePressed  int32 = 1
	// any other value (e.g. 2) is a repeat, discarded per spec §4.7 step 1.
)

var modifierKeys = [...]struct {
	code uint16
	bit  Modifier
}{
	{KeyLeftCtrl, ModLeftCtrl},
	{KeyRightCtrl, ModRightCtrl},
	{KeyLeftShift, ModLeftShift},
	{KeyRightShift, ModRightShift},
	{KeyLeftAlt, ModLeftAlt},
	{KeyRightAlt, ModRightAlt},
	{KeyLeftMeta, ModLeftMeta},
	{KeyRightMeta, ModRightMeta},
}

// CatchResult is whether a handler consumed an event or let it pass
// through to be forwarded.
type CatchResult uint8

const (
	Passed CatchResult = iota
	Caught
)

// Handler is the pluggable, implementation-defined binding table (spec
// §4.7 "input handler"): user key/button bindings consulted after
// built-ins.
type Handler interface {
	CatchKey(code uint16, value int32, mods Modifier) CatchResult
	CatchButton(code uint16, value int32, mods Modifier) CatchResult
}

// VT is the virtual-terminal handle the built-in F1-F12 binding switches
// to; nil if none was set up (spec §4.7 "optional virtual-terminal
// handle").
type VT interface {
	SwitchTo(num int) error
}

// Gateway is the input state machine (spec §4.7).
type Gateway struct {
	modifiers Modifier
	handler   Handler
	vt        VT
	sig       *dispatcher.Signaler
	clk       func() time.Duration
}

// New constructs a Gateway. vt may be nil.
func New(handler Handler, vt VT, sig *dispatcher.Signaler, clk func() time.Duration) *Gateway {
	return &Gateway{handler: handler, vt: vt, sig: sig, clk: clk}
}

// Modifiers returns the current modifier bitset.
func (g *Gateway) Modifiers() Modifier { return g.modifiers }

// updateModifiers applies a key event to the modifier bitset, implementing
// spec §4.7 step 2: setting an already-set modifier is caught (swallowed);
// releasing clears the bit; otherwise the bit is set and the event falls
// through.
func (g *Gateway) updateModifiers(code uint16, value int32) CatchResult {
	for _, m := range modifierKeys {
		if m.code != code {
			continue
		}
		if value == valuePressed {
			if g.modifiers&m.bit != 0 {
				return Caught
			}
			g.modifiers |= m.bit
		} else {
			g.modifiers &^= m.bit
		}
		return Passed
	}
	return Passed
}

// catchBuiltin is spec §4.7 step 3: F1-F12 with exactly {alt-any, ctrl-any}
// held switches virtual terminal on press.
func (g *Gateway) catchBuiltin(code uint16, value int32) CatchResult {
	if code < KeyF1 || code > KeyF12 {
		return Passed
	}
	switch g.modifiers {
	case ModLeftAlt | ModLeftCtrl, ModLeftAlt | ModRightCtrl,
		ModRightAlt | ModLeftCtrl, ModRightAlt | ModRightCtrl:
		if value == valuePressed {
			g.switchVT(int(code-KeyF1) + 1)
		}
		return Caught
	default:
		return Passed
	}
}

func (g *Gateway) switchVT(num int) {
	if g.vt == nil {
		return
	}
	_ = g.vt.SwitchTo(num) // best-effort: a failed VT switch is not fatal (spec §7)
}

// EmitKey is "emit-key" (spec §4.7 key-event algorithm).
func (g *Gateway) EmitKey(code uint16, value int32) {
	if value != valuePressed && value != valueReleased {
		return // discard repeats
	}
	if g.updateModifiers(code, value) != Passed {
		return
	}
	if g.catchBuiltin(code, value) != Passed {
		return
	}
	if g.handler.CatchKey(code, value, g.modifiers) != Passed {
		return
	}
	g.sig.Emit(event.KeyboardKey{Code: code, Value: value, Time: g.clk()})
}

// EmitButton delegates to the handler first, forwarding only if passed.
func (g *Gateway) EmitButton(button event.Buttons, pressed bool) {
	value := valueReleased
	if pressed {
		value = valuePressed
	}
	if g.handler.CatchButton(uint16(button), int32(value), g.modifiers) != Passed {
		return
	}
	g.sig.Emit(event.PointerButton{Button: button, Pressed: pressed, Time: g.clk()})
}

// EmitMotion forwards unconditionally.
func (g *Gateway) EmitMotion(delta image.Point) {
	g.sig.Emit(event.PointerMotion{Delta: delta, Time: g.clk()})
}

// EmitAxis forwards unconditionally.
func (g *Gateway) EmitAxis(horizontal, vertical float32) {
	g.sig.Emit(event.PointerAxis{Horizontal: horizontal, Vertical: vertical, Time: g.clk()})
}

// EmitPositionReset forwards unconditionally.
func (g *Gateway) EmitPositionReset() {
	g.sig.Emit(event.PointerPositionReset{})
}

// EmitPosition forwards an absolute touchpad position unconditionally;
// the pressure-threshold discard (spec §6) happens upstream of the
// gateway, where the touchpad driver reads the pressure axis.
func (g *Gateway) EmitPosition(x, y float32, hasX, hasY bool) {
	g.sig.Emit(event.PointerPosition{X: x, Y: y, HasX: hasX, HasY: hasY, Time: g.clk()})
}

// EmitSystemActivity is delivered on device hangup and forwarded as a
// wake-up so idle-suspend logic treats raw input as activity.
func (g *Gateway) EmitSystemActivity() {
	g.sig.Emit(event.WakeUp{})
}
