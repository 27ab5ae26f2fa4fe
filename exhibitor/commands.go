package exhibitor

import (
	"strconv"

	"github.com/wlcore/compositor/coordinator"
	"github.com/wlcore/compositor/event"
	"github.com/wlcore/compositor/frames"
)

// execute dispatches a compositor-policy command (spec §4.4 "on-command",
// spec §6 command vocabulary) to the frame currently selected. Unknown
// commands and commands with no current selection are silently ignored,
// the same lenient pattern gio's own event handlers use for unrecognised
// input rather than panicking.
func (x *Exhibitor) execute(cmd event.Command) {
	sel := x.selection
	if !sel.Valid() {
		return
	}

	switch cmd.Name {
	case "move-east":
		x.moveSelection(sel, frames.East)
	case "move-west":
		x.moveSelection(sel, frames.West)
	case "move-north":
		x.moveSelection(sel, frames.North)
	case "move-south":
		x.moveSelection(sel, frames.South)
	case "focus-east":
		x.focusDirection(sel, frames.East)
	case "focus-west":
		x.focusDirection(sel, frames.West)
	case "focus-north":
		x.focusDirection(sel, frames.North)
	case "focus-south":
		x.focusDirection(sel, frames.South)
	case "ramify":
		x.ramify(sel, frames.Stacked)
	case "ramify-horizontal":
		x.ramify(sel, frames.Horizontal)
	case "ramify-vertical":
		x.ramify(sel, frames.Vertical)
	case "ramify-stacked":
		x.ramify(sel, frames.Stacked)
	case "exalt", "dive-up":
		x.exalt(sel)
	case "dive", "focus-down":
		x.focusDown(sel)
	case "verticalize":
		x.changeGeometry(sel, frames.Vertical)
	case "horizontalize":
		x.changeGeometry(sel, frames.Horizontal)
	case "stackify":
		x.changeGeometry(sel, frames.Stacked)
	case "anchorize":
		sel.Anchorize()
	case "deanchorize":
		sel.Deanchorize(sel.Rectangle())
	case "dock":
		if parent := sel.Parent(); parent.Valid() {
			sel.Dock(parent, sel.Size())
		}
	case "jump-workspace":
		x.jumpToWorkspace(cmd.Arg)
	case "toggle-maximized":
		x.toggleMaximized(sel)
	}
}

// moveSelection swaps sel with its adjacent sibling in dir (spec §6 "move
// selection in direction"). sel is detached with Remove before being
// passed to adj's Prejoin/Adjoin, since those assume an unattached child.
func (x *Exhibitor) moveSelection(sel frames.Frame, dir frames.Direction) {
	adj, ok := sel.FindAdjacent(dir, 1)
	if !ok {
		return
	}
	parent := sel.Parent()
	sel.Remove()
	if dir == frames.East || dir == frames.South {
		adj.Adjoin(sel)
	} else {
		adj.Prejoin(sel)
	}
	if parent.Valid() {
		parent.Relax()
	}
}

// focusDirection moves the selection cursor (without reparenting) to the
// contiguous frame in dir (spec §6 "focus in direction").
func (x *Exhibitor) focusDirection(sel frames.Frame, dir frames.Direction) {
	next, ok := sel.FindContiguous(dir, 1)
	if !ok {
		return
	}
	leaf := next
	if leaf.Mode() != frames.ModeLeaf {
		if found, ok := leaf.Find(func(f frames.Frame) bool { return f.Mode() == frames.ModeLeaf }); ok {
			leaf = found
		}
	}
	x.setSelection(leaf)
	if sid := leaf.SurfaceID(); sid != frames.InvalidSurfaceID {
		x.coord.SetKeyboardFocus(event.SurfaceID(sid))
	}
}

// ramify wraps the selection in a new container of the given geometry
// (spec §4.3 "ramify").
func (x *Exhibitor) ramify(sel frames.Frame, geometry frames.Geometry) {
	container := x.tree.Ramify(sel, geometry)
	x.setSelection(container)
}

// exalt raises the selection by one level in the containment hierarchy
// (GLOSSARY "Exaltation"): sel is lifted out of its container to become a
// sibling of that container, within the same grandparent. Bounded to
// containers (never past a workspace/display boundary, so selecting a
// frame that already sits directly under its workspace is a no-op — the
// regression this guards is exalting past the last real container and
// landing among workspaces). The vacated container is torn down if it's
// now empty, or collapsed if exactly one child remains, so repeated
// exaltation never leaves single-child containers behind.
func (x *Exhibitor) exalt(sel frames.Frame) {
	parent := sel.Parent()
	if !parent.Valid() || parent.Mode() != frames.ModeContainer {
		return
	}
	grandparent := parent.Parent()
	if !grandparent.Valid() {
		return
	}

	sel.Remove()
	parent.Adjoin(sel)
	sel.SetMobility(frames.Anchored)

	switch parent.CountChildren() {
	case 0:
		parent.Destroy()
	case 1:
		remaining := parent.FirstSpatialChild()
		remaining.Remove()
		parent.Adjoin(remaining)
		remaining.SetMobility(frames.Anchored)
		parent.Destroy()
	}

	grandparent.Relax()
	x.setSelection(sel)
}

// focusDown moves the selection cursor one level deeper, onto sel's most
// recently used child, without reparenting anything (the tree-depth
// counterpart to focus-{direction}'s sibling traversal). No-op on a leaf.
func (x *Exhibitor) focusDown(sel frames.Frame) {
	child := sel.FirstTemporalChild()
	if !child.Valid() {
		return
	}
	x.setSelection(child)
	if sid := child.SurfaceID(); sid != frames.InvalidSurfaceID {
		x.coord.SetKeyboardFocus(event.SurfaceID(sid))
	}
}

// changeGeometry changes the selection's own children layout, falling
// back to the parent if the selection is a leaf (a leaf has no children
// to rearrange).
func (x *Exhibitor) changeGeometry(sel frames.Frame, g frames.Geometry) {
	target := sel
	if target.Mode() == frames.ModeLeaf {
		target = target.Parent()
	}
	if target.Valid() {
		target.ChangeGeometry(g)
	}
}

// jumpToWorkspace focuses the workspace on the display with the given
// zero-based index in display-id order, if one exists (spec §6 "jump to
// workspace").
func (x *Exhibitor) jumpToWorkspace(arg string) {
	idx, err := strconv.Atoi(arg)
	if err != nil {
		return
	}
	for _, o := range x.outputs {
		lower := 0
		for _, other := range x.outputs {
			if other.id < o.id {
				lower++
			}
		}
		if lower == idx {
			x.setSelection(o.workspace)
			return
		}
	}
}

// toggleMaximized flips the selected surface's state between regular and
// maximized via the coordinator (spec §6 "toggle maximized").
func (x *Exhibitor) toggleMaximized(sel frames.Frame) {
	sid := event.SurfaceID(sel.SurfaceID())
	if sid == event.InvalidSurfaceID {
		return
	}
	info, ok := x.coord.GetSurfaceInfo(sid)
	if !ok {
		return
	}
	newState := coordinator.StateRegular
	if info.State == coordinator.StateRegular {
		newState = coordinator.StateMaximized
	}
	x.coord.Reconfigure(sid, info.RequestedSize, newState)
}
