package exhibitor

import (
	"github.com/wlcore/compositor/event"
	"github.com/wlcore/compositor/frames"
)

// OutputSnapshot describes one managed output for introspection
// (internal/ipc's "info" verb).
type OutputSnapshot struct {
	ID         event.DisplayID
	Area       string
	Background event.SurfaceID
	Tree       FrameSnapshot
}

// FrameSnapshot is a read-only, serialisable view of one frame tree node,
// recursively including its spatial children in draw order.
type FrameSnapshot struct {
	Mode      string
	Geometry  string
	Mobility  string
	SurfaceID event.SurfaceID
	Position  string
	Size      string
	Title     string
	Children  []FrameSnapshot
}

var modeNames = map[frames.Mode]string{
	frames.ModeRoot:      "root",
	frames.ModeDisplay:   "display",
	frames.ModeWorkspace: "workspace",
	frames.ModeContainer: "container",
	frames.ModeLeaf:      "leaf",
}

var geometryNames = map[frames.Geometry]string{
	frames.Horizontal: "horizontal",
	frames.Vertical:   "vertical",
	frames.Stacked:    "stacked",
}

var mobilityNames = map[frames.Mobility]string{
	frames.Anchored: "anchored",
	frames.Docked:   "docked",
	frames.Floating: "floating",
}

func snapshotFrame(f frames.Frame) FrameSnapshot {
	children := f.SpatialChildren()
	s := FrameSnapshot{
		Mode:      modeNames[f.Mode()],
		Geometry:  geometryNames[f.Geometry()],
		Mobility:  mobilityNames[f.Mobility()],
		SurfaceID: event.SurfaceID(f.SurfaceID()),
		Position:  f.Position().String(),
		Size:      f.Size().String(),
		Title:     f.Title(),
		Children:  make([]FrameSnapshot, 0, len(children)),
	}
	for _, c := range children {
		s.Children = append(s.Children, snapshotFrame(c))
	}
	return s
}

// Snapshot renders the current output and frame-tree state for the IPC
// introspection socket (spec §4.10's "info" verb, grounded on
// original_source/perceptia/perceptiactl/info.rs's device dump).
func (x *Exhibitor) Snapshot() []OutputSnapshot {
	out := make([]OutputSnapshot, 0, len(x.outputs))
	for _, o := range x.outputs {
		out = append(out, OutputSnapshot{
			ID:         o.id,
			Area:       o.area.String(),
			Background: o.background,
			Tree:       snapshotFrame(o.display),
		})
	}
	return out
}
