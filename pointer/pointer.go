// Package pointer holds the single mutable pointer-state record the
// exhibitor drives (spec §4.5): global position, last absolute position,
// last surface-relative position, current display area, and the three
// focus ids. It has no internal concurrency of its own — the exhibitor
// serialises access through its own borrow discipline (spec §5).
//
// Grounded on original_source/src/exhibitor/pointer.rs and
// cognitive/exhibitor/src/pointer.rs for the field set, and on the
// teacher's io/pointer event-kind vocabulary (press/release/move/scroll,
// io/pointer/pointer.go) for naming.
package pointer

import (
	"image"

	"github.com/wlcore/compositor/event"
	"github.com/wlcore/compositor/timing"
)

// Pointer is the shared pointer-state record (spec §4.5).
type Pointer struct {
	Global image.Point

	hasLastX, hasLastY bool
	lastAbsolute       image.Point

	lastRelative image.Point

	DisplayArea image.Rectangle

	CursorSID    event.SurfaceID
	PointerFocus event.SurfaceID
	KeyboardFocus event.SurfaceID

	clk timing.Clock
}

// New constructs a Pointer with no focus and a zero display area.
func New(clk timing.Clock) *Pointer {
	return &Pointer{clk: clk}
}

// MoveBy adds delta to the global position (spec §4.4 "on-motion").
func (p *Pointer) MoveBy(delta image.Point) {
	p.Global = p.Global.Add(delta)
}

// SetLastAbsolute records an absolute touchpad axis update; only the axes
// present (hasX/hasY) are overwritten, matching spec §3 PointerPosition
// allowing either axis to be unset.
func (p *Pointer) SetLastAbsolute(x, y float32, hasX, hasY bool) {
	if hasX {
		p.lastAbsolute.X = int(x)
		p.hasLastX = true
	}
	if hasY {
		p.lastAbsolute.Y = int(y)
		p.hasLastY = true
	}
}

// DeltaFromAbsolute computes the implicit motion delta an absolute
// position update represents, given the previously recorded absolute
// position (spec §4.4 "on-position": "convert to an implicit delta from
// last position"). ok is false if there was no prior absolute position to
// diff against (first report).
func (p *Pointer) DeltaFromAbsolute(x, y float32, hasX, hasY bool) (delta image.Point, ok bool) {
	if !p.hasLastX || !p.hasLastY {
		return image.Point{}, false
	}
	next := p.lastAbsolute
	if hasX {
		next.X = int(x)
	}
	if hasY {
		next.Y = int(y)
	}
	delta = next.Sub(p.lastAbsolute)
	return delta, true
}

// ResetPosition clears the last recorded absolute position (spec §4.4
// "on-position-reset").
func (p *Pointer) ResetPosition() {
	p.hasLastX, p.hasLastY = false, false
	p.lastAbsolute = image.Point{}
}

// LastRelative returns the last surface-relative position recorded by
// SetRelative.
func (p *Pointer) LastRelative() image.Point { return p.lastRelative }

// SetRelative records the pointer's position relative to its focused
// surface's origin.
func (p *Pointer) SetRelative(pos image.Point) { p.lastRelative = pos }

// CastToDisplay implements the pointer-casting policy (spec §4.4): if the
// global position is inside the current display area, nothing changes;
// else candidates (other displays) are searched for one that contains it;
// if none does, the global position is clamped to the boundary of the
// current display.
func (p *Pointer) CastToDisplay(areas map[event.DisplayID]image.Rectangle, current event.DisplayID) event.DisplayID {
	if area, ok := areas[current]; ok && p.Global.In(area) {
		p.DisplayArea = area
		return current
	}
	for id, area := range areas {
		if p.Global.In(area) {
			p.DisplayArea = area
			return id
		}
	}
	if area, ok := areas[current]; ok {
		p.Global = clampToRect(p.Global, area)
		p.DisplayArea = area
	}
	return current
}

func clampToRect(pt image.Point, r image.Rectangle) image.Point {
	if pt.X < r.Min.X {
		pt.X = r.Min.X
	}
	if pt.X >= r.Max.X {
		pt.X = r.Max.X - 1
	}
	if pt.Y < r.Min.Y {
		pt.Y = r.Min.Y
	}
	if pt.Y >= r.Max.Y {
		pt.Y = r.Max.Y - 1
	}
	return pt
}

// NowMs stamps the pointer's reference clock for millisecond event fields.
func (p *Pointer) NowMs() uint32 { return p.clk.Millis() }
