// Package exhibitor implements compositor policy (spec §4.4): it owns the
// frame tree, the surface-to-frame mapping, the pointer, a display per
// output, and the optional drag descriptor, and reacts to bus signals by
// mutating them.
//
// Grounded on original_source/cognitive/exhibitor/src/exhibitor.rs for the
// event-handler set and its struct shape (compositor + pointer + displays
// + dragger), and on its test files (test_regressions_single_workspace.rs,
// test_simple_double_display_cases.rs, test_simple_docking.rs) for the
// scenarios exercised in exhibitor_test.go.
package exhibitor

import (
	"image"

	"github.com/rs/zerolog"

	"github.com/wlcore/compositor/coordinator"
	"github.com/wlcore/compositor/dispatcher"
	"github.com/wlcore/compositor/event"
	"github.com/wlcore/compositor/frames"
	"github.com/wlcore/compositor/pointer"
)

// TargetStrategy selects where a newly-managed surface is placed
// (spec §6 "exhibitor.strategist.choose_target").
type TargetStrategy uint8

const (
	AnchoredButPopups TargetStrategy = iota
	AlwaysFloating
)

// FloatingStrategy selects the geometry given to a newly floating surface
// (spec §6 "exhibitor.strategist.choose_floating").
type FloatingStrategy uint8

const (
	AlwaysCentered FloatingStrategy = iota
)

// Config is the subset of configuration the exhibitor consults directly.
type Config struct {
	MoveStep       int
	ChooseTarget   TargetStrategy
	ChooseFloating FloatingStrategy
}

type outputState struct {
	id         event.DisplayID
	display    frames.Frame // root of this output's subtree in the frame tree
	workspace  frames.Frame
	area       image.Rectangle
	background event.SurfaceID
}

type drag struct {
	surface event.SurfaceID
	last    image.Point
}

// Exhibitor is the compositor policy engine (spec §4.4).
type Exhibitor struct {
	coord *coordinator.Coordinator
	sig   *dispatcher.Signaler
	log   zerolog.Logger
	cfg   Config

	tree         *frames.Tree
	surfaceFrame map[event.SurfaceID]frames.Frame
	selection    frames.Frame // the currently focused/selected frame

	ptr      *pointer.Pointer
	outputs  map[event.DisplayID]*outputState
	dragging *drag
	visual   bool
}

// New constructs an empty Exhibitor.
func New(coord *coordinator.Coordinator, sig *dispatcher.Signaler, ptr *pointer.Pointer, cfg Config, log zerolog.Logger) *Exhibitor {
	x := &Exhibitor{
		coord:        coord,
		sig:          sig,
		log:          log.With().Str("component", "exhibitor").Logger(),
		cfg:          cfg,
		tree:         frames.New(),
		surfaceFrame: make(map[event.SurfaceID]frames.Frame),
		ptr:          ptr,
		outputs:      make(map[event.DisplayID]*outputState),
	}
	x.tree.SetReconfigureHook(x.reconfigureSurface)
	return x
}

// reconfigureSurface is the Tree's resize notification hook (spec §4.3
// "set_size" calling into the coordinator): whenever a frame's size
// changes, the surface it carries is told to redraw at the new size,
// keeping whatever regular/maximized state it already had.
func (x *Exhibitor) reconfigureSurface(sid frames.SurfaceID, size image.Point) {
	esid := event.SurfaceID(sid)
	state := coordinator.StateRegular
	if info, ok := x.coord.GetSurfaceInfo(esid); ok {
		state = info.State
	}
	x.coord.Reconfigure(esid, size, state)
}

func (x *Exhibitor) setSelection(f frames.Frame) {
	x.selection = f
	if f.Valid() {
		f.PopRecursively()
	}
}

// currentOutput returns the output whose area contains the pointer's
// global position, if any.
func (x *Exhibitor) currentOutput() (*outputState, bool) {
	for _, o := range x.outputs {
		if x.ptr.Global.In(o.area) {
			return o, true
		}
	}
	return nil, false
}

// --- notification handlers (spec §4.4) ---

// OnNotify is a pass-through hook; redraws are driven by display.Module,
// which subscribes to notify itself. Exhibitor only tracks frame-tree and
// output geometry here.
func (x *Exhibitor) OnNotify() {}

// OnWakeUp mirrors OnNotify's division of labor.
func (x *Exhibitor) OnWakeUp() {}

// OnOutputFound assigns the new output a position to the right of the
// rightmost existing display, creates its display and workspace frames,
// and emits display-created.
func (x *Exhibitor) OnOutputFound(info event.OutputInfo) {
	pos := x.chooseNewDisplayPosition()
	info.Area = info.Area.Sub(info.Area.Min).Add(pos)

	first := len(x.outputs) == 0

	displayFrame := x.tree.NewFrame(frames.ModeDisplay, frames.Horizontal, frames.Anchored, frames.InvalidSurfaceID)
	x.tree.Root().Append(displayFrame)
	displayFrame.SetPosition(info.Area.Min)
	displayFrame.SetSize(info.Area.Size())

	workspace := x.tree.NewFrame(frames.ModeWorkspace, frames.Stacked, frames.Anchored, frames.InvalidSurfaceID)
	displayFrame.Append(workspace)
	displayFrame.Relax()

	x.outputs[info.ID] = &outputState{id: info.ID, display: displayFrame, workspace: workspace, area: info.Area}

	if first {
		x.ptr.Global = info.Area.Min
		x.ptr.DisplayArea = info.Area
	}

	x.coord.Emit(event.DisplayCreated{Display: info.ID, Info: info})
}

// chooseNewDisplayPosition is spec §4.4 "new-display position": the
// leftmost x such that it is ≥ every existing display's right edge.
func (x *Exhibitor) chooseNewDisplayPosition() image.Point {
	maxRight := 0
	for _, o := range x.outputs {
		if o.area.Max.X > maxRight {
			maxRight = o.area.Max.X
		}
	}
	return image.Pt(maxRight, 0)
}

// OnOutputLost tears down the display's frame subtree and reclaims its
// screen-space for displays to its right, per the §9 open-question
// resolution recorded in DESIGN.md.
func (x *Exhibitor) OnOutputLost(id event.DisplayID) {
	o, ok := x.outputs[id]
	if !ok {
		return
	}
	width := o.area.Dx()
	o.display.Destroy()
	delete(x.outputs, id)

	// Frame positions are absolute, so the whole display subtree moves.
	var moveLeft func(f frames.Frame)
	moveLeft = func(f frames.Frame) {
		f.SetPosition(f.Position().Sub(image.Pt(width, 0)))
		for _, c := range f.SpatialChildren() {
			moveLeft(c)
		}
	}
	for _, other := range x.outputs {
		if other.area.Min.X > o.area.Min.X {
			other.area = other.area.Sub(image.Pt(width, 0))
			moveLeft(other.display)
		}
	}
}

// OnPageFlip is a pass-through hook; page flips are handled by
// display.Module, which subscribes to page-flip itself.
func (x *Exhibitor) OnPageFlip(id event.DisplayID) {}

// OnCommand executes a compositor-policy command (spec §4.4 "on-command").
func (x *Exhibitor) OnCommand(cmd event.Command) {
	x.execute(cmd)
}

// OnCursorSurfaceChange updates the pointer's cursor surface id.
func (x *Exhibitor) OnCursorSurfaceChange(sid event.SurfaceID) {
	x.ptr.CursorSID = sid
}

// OnBackgroundSurfaceChange updates the current display's background
// surface id.
func (x *Exhibitor) OnBackgroundSurfaceChange(sid event.SurfaceID) {
	if o, ok := x.currentOutput(); ok {
		o.background = sid
	}
}

// OnSurfaceReady inserts the surface into the tree via the placement
// strategist.
func (x *Exhibitor) OnSurfaceReady(sid event.SurfaceID) {
	x.manage(sid)
}

// OnDockSurface replaces the target display's frame with one containing
// the new dock (spec §4.4 "on-dock-surface", §8 scenario S4). The
// workspace subtree is ramified into its own Stacked container first, so
// that docking never disturbs the workspace's own area bookkeeping — only
// the container wrapping it shrinks to make room for the dock.
func (x *Exhibitor) OnDockSurface(sid event.SurfaceID, size image.Point, displayID event.DisplayID) {
	o, ok := x.outputs[displayID]
	if !ok {
		return
	}

	if o.workspace.Parent().Equal(o.display) {
		x.tree.Ramify(o.workspace, frames.Stacked)
	}

	dockFrame := x.tree.NewFrame(frames.ModeLeaf, frames.Stacked, frames.Anchored, frames.SurfaceID(sid))
	dockFrame.Dock(o.display, size)

	x.surfaceFrame[sid] = dockFrame
}

// OnSurfaceDestroyed unmanages sid: removes it from the tree, destroys its
// frame, collapses any container left empty or down to a single child by
// the removal, and picks a replacement selection if the old one is gone
// (spec §8 scenario S2: a ramified container that loses its only surface
// must not linger as a dangling empty frame).
func (x *Exhibitor) OnSurfaceDestroyed(sid event.SurfaceID) {
	f, ok := x.surfaceFrame[sid]
	if !ok {
		return
	}
	parent := f.Parent()

	f.Remove()
	f.Destroy()
	delete(x.surfaceFrame, sid)

	survivor := x.collapseEmptyContainers(parent)

	if !x.selection.Valid() {
		x.setSelection(mruLeaf(survivor))
	}

	if x.ptr.CursorSID == sid {
		x.ptr.CursorSID = event.InvalidSurfaceID
	}
	if x.ptr.PointerFocus == sid {
		x.ptr.PointerFocus = event.InvalidSurfaceID
	}
}

// collapseEmptyContainers walks up from cur, destroying containers left
// with no children and collapsing containers left with exactly one child
// (promoting that child up to cur's own former place), stopping at the
// first container that still has two or more children, or at a
// workspace/display/root. It returns the frame the walk stopped at, which
// is always still valid.
func (x *Exhibitor) collapseEmptyContainers(cur frames.Frame) frames.Frame {
	for cur.Valid() && cur.Mode() == frames.ModeContainer {
		switch cur.CountChildren() {
		case 0:
			parent := cur.Parent()
			cur.Destroy()
			cur = parent
		case 1:
			remaining := cur.FirstSpatialChild()
			parent := cur.Parent()
			remaining.Remove()
			if parent.Valid() {
				cur.Adjoin(remaining)
			}
			remaining.SetMobility(frames.Anchored)
			cur.Destroy()
			cur = remaining
			if parent.Valid() {
				parent.Relax()
			}
			return cur
		default:
			cur.Relax()
			return cur
		}
	}
	if cur.Valid() {
		cur.Relax()
	}
	return cur
}

// mruLeaf descends f through most-recently-used children until it reaches
// a leaf (or a childless frame), for picking a replacement selection after
// a destroy/collapse leaves the previous selection invalid.
func mruLeaf(f frames.Frame) frames.Frame {
	for f.Valid() && f.Mode() != frames.ModeLeaf {
		child := f.FirstTemporalChild()
		if !child.Valid() {
			return f
		}
		f = child
	}
	return f
}

// OnKeyboardFocusChanged forwards the new keyboard focus id to the pointer.
func (x *Exhibitor) OnKeyboardFocusChanged(old, new_ event.SurfaceID) {
	x.ptr.KeyboardFocus = new_
}

// OnMotion moves the pointer by delta, cast to the current display, moves
// a dragged surface if one is active, and asks the coordinator to
// refresh (spec §4.4 "on-motion").
func (x *Exhibitor) OnMotion(delta image.Point) {
	x.ptr.MoveBy(delta)
	x.castPointer()

	if x.dragging != nil {
		x.moveDraggedSurfaceBy(delta)
	} else {
		x.resolveHover()
	}
	x.coord.Notify()
}

// OnPosition handles an absolute touchpad position update: converts it to
// an implicit delta from the last reported position, then behaves like
// OnMotion (spec §4.4 "on-position").
func (x *Exhibitor) OnPosition(xPos, yPos float32, hasX, hasY bool) {
	delta, ok := x.ptr.DeltaFromAbsolute(xPos, yPos, hasX, hasY)
	x.ptr.SetLastAbsolute(xPos, yPos, hasX, hasY)
	if !ok {
		return
	}
	x.OnMotion(delta)
}

// OnButton handles a pointer button event: on press, if the pointer focus
// differs from the keyboard focus, the compositor pops that surface to
// refocus it (spec §4.4 "on-button").
func (x *Exhibitor) OnButton(pressed bool) {
	if !pressed {
		return
	}
	if x.ptr.PointerFocus == event.InvalidSurfaceID || x.ptr.PointerFocus == x.ptr.KeyboardFocus {
		return
	}
	if f, ok := x.surfaceFrame[x.ptr.PointerFocus]; ok {
		x.setSelection(f)
		x.coord.SetKeyboardFocus(x.ptr.PointerFocus)
	}
}

// OnPositionReset clears the pointer's last absolute position.
func (x *Exhibitor) OnPositionReset() {
	x.ptr.ResetPosition()
}

// OnModeSwitched activates/deactivates drag of the pointer-focused
// surface when visual mode toggles (spec §4.4 "on-mode-switched"):
// entering visual mode (active, visual) starts the drag; leaving it
// (!active, visual) or entering another mode (active, !visual) stops it.
func (x *Exhibitor) OnModeSwitched(active, visual bool) {
	if active && visual {
		x.visual = true
		if x.ptr.PointerFocus != event.InvalidSurfaceID {
			x.dragging = &drag{surface: x.ptr.PointerFocus, last: x.ptr.Global}
		}
		return
	}
	if active || visual {
		x.visual = false
		x.dragging = nil
	}
}

// TakeScreenshot parks the display's produced buffer into the
// coordinator's screenshot slot if one is available.
func (x *Exhibitor) TakeScreenshot(displayID event.DisplayID, img image.Image) {
	if img != nil {
		x.coord.SetScreenshotBuffer(displayID, img)
	}
}

// castPointer implements the pointer-casting policy (spec §4.4).
func (x *Exhibitor) castPointer() {
	areas := make(map[event.DisplayID]image.Rectangle, len(x.outputs))
	var current event.DisplayID
	for id, o := range x.outputs {
		areas[id] = o.area
		if x.ptr.Global.In(o.area) {
			current = id
		}
	}
	x.ptr.CastToDisplay(areas, current)
}

// moveDraggedSurfaceBy translates the dragged surface's frame by delta,
// resettling it onto the workspace of whichever display the pointer now
// sits over, preserving its size (spec §8 scenario S5). The frame tracks
// the pointer's motion rather than snapping its origin to the pointer's
// position, so a surface grabbed anywhere other than its top-left corner
// keeps that same grab offset as it moves.
func (x *Exhibitor) moveDraggedSurfaceBy(delta image.Point) {
	f, ok := x.surfaceFrame[x.dragging.surface]
	if !ok {
		return
	}
	newPos := f.Position().Add(delta)
	for _, o := range x.outputs {
		if !x.ptr.Global.In(o.area) {
			continue
		}
		if !f.Parent().Equal(o.workspace) {
			f.SetMobility(frames.Floating)
			f.Resettle(o.workspace)
		}
		f.SetPosition(newPos)
		break
	}
	x.dragging.last = x.ptr.Global
}

// resolveHover walks the surfaces on the current display in reverse draw
// order and assigns pointer focus to the first one whose rectangle
// contains the pointer (spec §4.4 "Hover resolution"). Frame positions
// are absolute desktop coordinates throughout the tree, so the pointer's
// global position is used directly rather than translated per-display.
func (x *Exhibitor) resolveHover() {
	current, ok := x.currentOutput()
	if !ok {
		return
	}
	pointed := current.display.FindPointed(x.ptr.Global)
	if pointed.Mode() != frames.ModeLeaf {
		x.coord.SetPointerFocus(event.InvalidSurfaceID, image.Point{})
		x.ptr.PointerFocus = event.InvalidSurfaceID
		return
	}
	sid := event.SurfaceID(pointed.SurfaceID())
	rel := x.ptr.Global.Sub(pointed.Position())
	x.ptr.PointerFocus = sid
	x.coord.SetPointerFocus(sid, rel)
}
