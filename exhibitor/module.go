package exhibitor

import "github.com/wlcore/compositor/event"

// AsModule adapts x to dispatcher.Module, subscribing to every signal kind
// the policy engine reacts to and dispatching each to the matching
// notification handler (spec §4.4's handler set, run as the "exhibitor"
// module per spec §4.1/§5).
func (x *Exhibitor) AsModule() *Module { return &Module{x: x} }

// Module is the dispatcher.Module wrapper around an Exhibitor. Kept as a
// distinct type (rather than implementing dispatcher.Module on Exhibitor
// itself) so tests can exercise Exhibitor's handlers directly without
// pulling in the Initialize/Execute/Finalize vocabulary.
type Module struct{ x *Exhibitor }

func (m *Module) Initialize() []event.Kind {
	return []event.Kind{
		event.KindNotify,
		event.KindWakeUp,
		event.KindOutputFound,
		event.KindOutputLost,
		event.KindPageFlip,
		event.KindCommand,
		event.KindCursorSurfaceChange,
		event.KindBackgroundSurfaceChange,
		event.KindSurfaceReady,
		event.KindDockSurface,
		event.KindSurfaceDestroyed,
		event.KindKeyboardFocusChanged,
		event.KindPointerMotion,
		event.KindPointerPosition,
		event.KindPointerButton,
		event.KindPointerPositionReset,
		event.KindModeSwitched,
	}
}

func (m *Module) Execute(p event.Payload) {
	x := m.x
	switch e := p.(type) {
	case event.Notify:
		x.OnNotify()
	case event.WakeUp:
		x.OnWakeUp()
	case event.OutputFound:
		x.OnOutputFound(e.Output)
	case event.OutputLost:
		x.OnOutputLost(e.Display)
	case event.PageFlip:
		x.OnPageFlip(e.Display)
	case event.CommandIssued:
		x.OnCommand(e.Command)
	case event.CursorSurfaceChange:
		x.OnCursorSurfaceChange(e.Surface)
	case event.BackgroundSurfaceChange:
		x.OnBackgroundSurfaceChange(e.Surface)
	case event.SurfaceReady:
		x.OnSurfaceReady(e.Surface)
	case event.DockSurface:
		x.OnDockSurface(e.Surface, e.Size, e.Display)
	case event.SurfaceDestroyed:
		x.OnSurfaceDestroyed(e.Surface)
	case event.KeyboardFocusChanged:
		x.OnKeyboardFocusChanged(e.Old, e.New)
	case event.PointerMotion:
		x.OnMotion(e.Delta)
	case event.PointerPosition:
		x.OnPosition(e.X, e.Y, e.HasX, e.HasY)
	case event.PointerButton:
		x.OnButton(e.Pressed)
	case event.PointerPositionReset:
		x.OnPositionReset()
	case event.ModeSwitched:
		x.OnModeSwitched(e.Active, e.Visual)
	}
}

func (m *Module) Finalize() {}
