package exhibitor

import (
	"image"

	"github.com/wlcore/compositor/event"
	"github.com/wlcore/compositor/frames"
)

// manage places a newly-ready surface into the tree, per the strategist
// config (spec §6 "exhibitor.strategist"): AnchoredButPopups settles a
// surface with no parent into the current workspace's anchored layout,
// and floats (centered) any surface that has a parent (a dialog/popup);
// AlwaysFloating centers every surface regardless of parentage.
func (x *Exhibitor) manage(sid event.SurfaceID) {
	if _, already := x.surfaceFrame[sid]; already {
		return
	}
	target, ok := x.currentOutput()
	if !ok {
		return
	}

	info, ok := x.coord.GetSurfaceInfo(sid)
	if !ok {
		return
	}

	floating := x.cfg.ChooseTarget == AlwaysFloating ||
		(x.cfg.ChooseTarget == AnchoredButPopups && info.Parent != event.InvalidSurfaceID)

	mobility := frames.Anchored
	if floating {
		mobility = frames.Floating
	}

	f := x.tree.NewFrame(frames.ModeLeaf, frames.Horizontal, mobility, frames.SurfaceID(sid))
	x.surfaceFrame[sid] = f

	if floating {
		size := info.RequestedSize
		if size.Eq(image.Point{}) {
			size = image.Pt(640, 480)
		}
		area := image.Rectangle{Min: x.chooseFloatingPosition(target.area, size), Max: image.Point{}}
		area.Max = area.Min.Add(size)
		f.Settle(target.workspace, &area)
	} else {
		f.Settle(target.workspace, nil)
	}

	x.setSelection(f)
	x.coord.SetKeyboardFocus(sid)
}

// chooseFloatingPosition is spec §6 "choose_floating": AlwaysCentered
// places the surface in the middle of area.
func (x *Exhibitor) chooseFloatingPosition(area image.Rectangle, size image.Point) image.Point {
	switch x.cfg.ChooseFloating {
	case AlwaysCentered:
		fallthrough
	default:
		return area.Min.Add(image.Pt((area.Dx()-size.X)/2, (area.Dy()-size.Y)/2))
	}
}
