package exhibitor

import (
	"github.com/wlcore/compositor/coordinator"
	"github.com/wlcore/compositor/event"
	"github.com/wlcore/compositor/frames"
)

// RendererEntries walks displayID's frame subtree in spatial (draw) order
// and flattens every managed leaf's satellites through the coordinator,
// producing the surface list display.Display.RequestRedraw needs (spec
// §4.6). Returns nil if displayID is not currently managed.
func (x *Exhibitor) RendererEntries(displayID event.DisplayID) []coordinator.RendererEntry {
	o, ok := x.outputs[displayID]
	if !ok {
		return nil
	}
	var out []coordinator.RendererEntry
	var walk func(f frames.Frame)
	walk = func(f frames.Frame) {
		if f.Mode() == frames.ModeLeaf && f.SurfaceID() != frames.InvalidSurfaceID {
			out = append(out, x.coord.GetRendererContext(event.SurfaceID(f.SurfaceID()), f.Position())...)
			return
		}
		for _, c := range f.SpatialChildren() {
			walk(c)
		}
	}
	walk(o.display)
	return out
}

// CursorEntry returns the renderer entry for the pointer's cursor surface,
// or nil if none is set.
func (x *Exhibitor) CursorEntry() *coordinator.RendererEntry {
	if x.ptr.CursorSID == event.InvalidSurfaceID {
		return nil
	}
	return &coordinator.RendererEntry{Surface: x.ptr.CursorSID, Position: x.ptr.Global}
}

// BackgroundEntry returns the renderer entry for displayID's background
// surface, or nil if none is set.
func (x *Exhibitor) BackgroundEntry(displayID event.DisplayID) *coordinator.RendererEntry {
	o, ok := x.outputs[displayID]
	if !ok || o.background == event.InvalidSurfaceID {
		return nil
	}
	return &coordinator.RendererEntry{Surface: o.background, Position: o.area.Min}
}
