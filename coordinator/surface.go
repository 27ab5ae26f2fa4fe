package coordinator

import (
	"image"

	"github.com/wlcore/compositor/event"
	"github.com/wlcore/compositor/memory"
)

// StateFlags is a bitset of the surface window-state flags (spec §3).
type StateFlags uint8

const (
	StateRegular   StateFlags = 0
	StateMaximized StateFlags = 1 << 0
	StateFullscreen StateFlags = 1 << 1
	StateResizing  StateFlags = 1 << 2
)

// ShowReason is a bitset of the reasons a surface is eligible for display.
type ShowReason uint8

const (
	ShowDrawable ShowReason = 1 << iota
	ShowInShell
)

const readyReasons = ShowDrawable | ShowInShell

// SourceKind identifies which data source (if any) a Surface's pending or
// current contents come from.
type SourceKind uint8

const (
	SourceEmpty SourceKind = iota
	SourceShm
	SourceHWImage
	SourceDmabuf
)

// Source is one of a surface's two data sources (pending / current): empty,
// a shared-memory view, or a hardware image (EGL- or dmabuf-backed).
type Source struct {
	Kind SourceKind
	View *memory.View
	HW   *memory.HWImage
}

// Surface is the coordinator's record of one Wayland surface (spec §3).
type Surface struct {
	ID event.SurfaceID

	Offset        image.Point
	DesiredSize   image.Point
	RequestedSize image.Point

	Parent    event.SurfaceID
	Satellite []event.SurfaceID // index 0 is always ID itself

	RelativePosition image.Point // meaningful only if Parent != InvalidSurfaceID

	Pending Source
	Current Source

	State      StateFlags
	ShowReason ShowReason

	everCommitted bool
}

func newSurface(id event.SurfaceID) *Surface {
	return &Surface{
		ID:        id,
		Satellite: []event.SurfaceID{id},
	}
}

// Ready reports whether the surface carries every reason required for
// display (spec §3: "ready iff show-reasons ⊇ {drawable, in-shell}").
func (s *Surface) Ready() bool { return s.ShowReason&readyReasons == readyReasons }

// Rectangle is the surface's requested-size rectangle at the given draw
// position, used by hover resolution and the pointer-focus invariant
// (spec §8 invariant 4).
func (s *Surface) Rectangle(drawPosition image.Point) image.Rectangle {
	return image.Rectangle{Min: drawPosition, Max: drawPosition.Add(s.RequestedSize)}
}
