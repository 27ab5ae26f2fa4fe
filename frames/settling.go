package frames

import "image"

// isTop reports whether f is a frame that sits above ordinary containers in
// the hierarchy (root, display, or workspace) — the boundary Ramify won't
// wrap past and the boundary that gates whether a frame is "reanchorizable"
// (spec §4.3, GLOSSARY "Ramify"; perceptia/frames/settling.rs's is_top).
func (f Frame) isTop() bool {
	switch f.Mode() {
	case ModeRoot, ModeDisplay, ModeWorkspace:
		return true
	default:
		return false
	}
}

// Settle inserts f into the tree near target (spec §4.3 "settle"). If area
// is non-nil, f is marked floating at that area instead of joining target's
// layout. Otherwise: a buildable target (one that carries no surface of its
// own, so it can hold children directly) takes f as a child — prepended
// when target is Stacked, appended otherwise — and f is marked anchored;
// a non-buildable target instead gets f adjoined as a sibling right after
// it. Either way the affected container is relaxed afterward. This is the
// primitive the exhibitor's placement strategist drives when a new surface
// needs a home (spec §4.4 "placement"), grounded on
// perceptia/frames/settling.rs's settle.
func (f Frame) Settle(target Frame, area *image.Rectangle) {
	if area != nil {
		f.SetMobility(Floating)
		f.SetPosition(area.Min)
		f.setSizeRaw(area.Size())
	}

	buildable := target.FindBuildable()
	if buildable.Equal(target) {
		if area == nil {
			f.SetMobility(Anchored)
		}
		if buildable.Geometry() == Stacked {
			buildable.Prepend(f)
		} else {
			buildable.Append(f)
		}
		buildable.Relax()
		return
	}

	target.Adjoin(f)
	if area == nil {
		f.SetMobility(Anchored)
	}
	if parent := f.Parent(); parent.Valid() {
		parent.Relax()
	}
}

// Resettle moves f onto target, preserving f's current size when target is
// a workspace that f will now be floating against — the area f already
// occupies is re-derived from its own rectangle, not target's. Otherwise
// behaves like Settle with no area. Grounded on
// perceptia/frames/settling.rs's resettle.
func (f Frame) Resettle(target Frame) {
	oldParent := f.Parent()
	size := f.Size()
	f.Remove()
	if oldParent.Valid() {
		oldParent.Relax()
	}

	if target.Mode() == ModeWorkspace && f.Mobility() == Floating {
		area := image.Rectangle{Min: f.Position(), Max: f.Position().Add(size)}
		f.Settle(target, &area)
		return
	}
	f.Settle(target, nil)
}

// PopRecursively pops f to the front of its parent's temporal order, then
// does the same for the parent, grandparent, and so on up to the root —
// so that focusing a deeply nested frame makes every ancestor MRU within
// its own sibling group too (spec §4.3 "pop", applied transitively).
func (f Frame) PopRecursively() {
	for cur := f; cur.Valid(); cur = cur.Parent() {
		cur.Pop()
	}
}

// Ramify wraps f in a freshly created container frame with the given
// geometry, inserted in f's former place among its siblings; f becomes
// the new container's sole child and inherits the container's full
// rectangle once relaxed. Used to turn a leaf into a splittable container
// (spec §4.3 "ramify").
//
// Two idempotence guards, both skipped when f is itself a top frame, keep
// repeated ramify calls from nesting containers without bound: a frame
// that already holds exactly one child is returned as is (f is already as
// ramified as it can usefully be), and a frame that is the sole child of a
// non-top parent returns that parent instead of adding another layer
// around it. Grounded on perceptia/frames/settling.rs's ramify.
func (t *Tree) Ramify(f Frame, geometry Geometry) Frame {
	parent := f.Parent()
	if !parent.Valid() {
		return f
	}
	if !f.isTop() {
		if f.CountChildren() == 1 {
			return f
		}
		if parent.CountChildren() == 1 && !parent.isTop() {
			return parent
		}
	}

	distancer := t.NewFrame(ModeContainer, geometry, Anchored, InvalidSurfaceID)
	distancer.SetPosition(f.Position())
	distancer.setSizeRaw(f.Size())
	distancer.SetTitle(f.Title())

	f.Prejoin(distancer)
	f.Remove()
	f.SetMobility(Anchored)
	distancer.Prepend(f)
	distancer.Relax()
	return distancer
}

// Deramify is Ramify's inverse, applied to a frame with exactly one child
// (spec §4.3 "deramify"; perceptia/frames/settling.rs's deramify). Two
// shapes are collapsed:
//
//   - if that child itself has exactly one child, the grandchild is
//     promoted into f's place and the middle layer is destroyed;
//   - if that child is childless, f absorbs its mode and surface identity
//     and the child is destroyed, leaving f a leaf again.
//
// No-op (returns the zero Frame, false) if f doesn't have exactly one
// child.
func (f Frame) Deramify() (Frame, bool) {
	if f.CountChildren() != 1 {
		return Frame{}, false
	}
	first := f.FirstTemporalChild()

	switch first.CountChildren() {
	case 1:
		second := first.FirstTemporalChild()
		second.Remove()
		first.Remove()
		f.Prepend(second)
		first.Destroy()
		f.Relax()
		return second, true
	case 0:
		f.setMode(first.Mode())
		f.setSurfaceID(first.SurfaceID())
		first.Destroy()
		return f, true
	default:
		return Frame{}, false
	}
}

// Side identifies where Jumpin places f relative to a target frame.
type Side uint8

const (
	// Before places f immediately ahead of target among target's siblings.
	Before Side = iota
	// After places f immediately behind target among target's siblings.
	After
	// On settles f into target's contents (ramifying target first if it
	// is a bare leaf).
	On
)

// Jumpin moves f next to or into target depending on side, then relaxes
// whichever container ends up holding the moved frames (spec §4.3
// "jumpin"; perceptia/frames/settling.rs's jumpin).
func (f Frame) Jumpin(side Side, target Frame) {
	oldParent := f.Parent()
	f.Remove()
	if oldParent.Valid() {
		oldParent.Relax()
	}

	switch side {
	case Before:
		target.Prejoin(f)
		f.SetMobility(Anchored)
		if p := target.Parent(); p.Valid() {
			p.Relax()
		}
	case After:
		target.Adjoin(f)
		f.SetMobility(Anchored)
		if p := target.Parent(); p.Valid() {
			p.Relax()
		}
	case On:
		landing := target
		switch {
		case target.Parent().Valid() && !target.Parent().isTop() && target.Parent().CountChildren() == 1:
			landing = target.Parent()
		case target.Mode() == ModeLeaf:
			landing = target.t.Ramify(target, Stacked)
		}
		f.SetMobility(Anchored)
		landing.Append(f)
		landing.Relax()
	}
	f.Pop()
}

// Jump pops f to the front of its current parent's temporal order without
// reparenting it — bringing it to focus in place.
func (f Frame) Jump() { f.Pop() }

// Dock turns f into a fixed-size strip docked against target: target's own
// geometry becomes Vertical (a dock reserves a horizontal band), f is
// marked Docked with the given size at target's origin, f is prepended to
// target (so the dock occupies target's leading edge), and target is
// relaxed to push its remaining anchored children out of the reserved
// space. Grounded on perceptia/frames/settling.rs's dock.
func (f Frame) Dock(target Frame, size image.Point) {
	target.SetGeometry(Vertical)
	f.SetMobility(Docked)
	f.SetPosition(image.Point{})
	f.setSizeRaw(size)

	oldParent := f.Parent()
	f.Remove()
	if oldParent.Valid() && !oldParent.Equal(target) {
		oldParent.Relax()
	}
	target.Prepend(f)
	target.Relax()
}

// Anchorize turns a floating, reanchorizable (leaf) frame back into an
// ordinary anchored child: it is resized to its parent's size and moved to
// the origin, ready for the parent's next relax to place it properly.
// No-op for frames that aren't floating leaves. Grounded on
// perceptia/frames/settling.rs's anchorize.
func (f Frame) Anchorize() {
	if f.Mode() != ModeLeaf || f.Mobility() != Floating {
		return
	}
	parent := f.Parent()
	if !parent.Valid() {
		return
	}
	f.SetPosition(image.Point{})
	f.setSizeRaw(parent.Size())
	f.SetMobility(Anchored)
	parent.Relax()
}

// Deanchorize turns an anchored, reanchorizable (leaf) frame into a
// floating one at the given area, lifting it to be a direct child of its
// workspace first if it wasn't already one. No-op for frames that aren't
// anchored leaves. Grounded on perceptia/frames/settling.rs's deanchorize.
func (f Frame) Deanchorize(area image.Rectangle) {
	if f.Mode() != ModeLeaf || f.Mobility() != Anchored {
		return
	}
	workspace, ok := f.FindTop()
	if !ok {
		return
	}
	oldParent := f.Parent()
	if !oldParent.Equal(workspace) {
		f.Remove()
		workspace.Append(f)
		if oldParent.Valid() {
			oldParent.Relax()
		}
	}
	f.SetMobility(Floating)
	f.SetPosition(area.Min)
	f.setSizeRaw(area.Size())
}

// ChangeGeometry sets how f arranges its own children and relaxes them
// immediately.
func (f Frame) ChangeGeometry(g Geometry) {
	f.SetGeometry(g)
	f.Relax()
}
