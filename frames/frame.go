// Package frames implements the layout tree (spec §3 "Frame", §4.3): a
// mutable tree of frames with independent spatial (drawing) and temporal
// (most-recently-used) sibling orderings, plus the packing (homogenize/
// relax/set_size) and settling (settle/resettle/ramify/...) operations
// built on top of it.
//
// Representation follows an arena + stable-index design: every link
// (parent, spatial/temporal prev/next, first/last child per ordering) is
// an index into a single slice, and destruction returns the slot to a
// free list. gio's scene graph is an immediate-mode op list, not a
// persistent tree, so this package has no direct analogue there; it is
// grounded instead on original_source/src/frames/settling.rs,
// cognitive/frames/src/packing.rs and cognitive/frames/src/searching.rs.
package frames

import "image"

// ID indexes a frame within a Tree. NoID denotes "no frame".
type ID int32

// NoID is the sentinel meaning "absent" wherever an ID is optional.
const NoID ID = -1

// Geometry is how a container's anchored children are arranged.
type Geometry uint8

const (
	Horizontal Geometry = iota
	Vertical
	Stacked
)

// Mobility is how a frame is positioned within its parent.
type Mobility uint8

const (
	Anchored Mobility = iota
	Docked
	Floating
)

// Mode classifies what kind of node a frame is.
type Mode uint8

const (
	ModeRoot Mode = iota
	ModeDisplay
	ModeWorkspace
	ModeContainer
	ModeLeaf
)

// SurfaceID mirrors event.SurfaceID without importing the event package,
// keeping frames free of a dependency on the signal vocabulary; the
// coordinator and exhibitor convert at their boundary.
type SurfaceID uint64

// InvalidSurfaceID is the sentinel for "no surface", matching
// event.InvalidSurfaceID's value.
const InvalidSurfaceID SurfaceID = 0

type node struct {
	live bool

	parent    ID
	mode      Mode
	geometry  Geometry
	mobility  Mobility
	surfaceID SurfaceID

	position image.Point
	size     image.Point
	title    string

	spatialPrev, spatialNext   ID
	temporalPrev, temporalNext ID

	firstSpatialChild, lastSpatialChild   ID
	firstTemporalChild, lastTemporalChild ID
	numChildren                           int
}

// Tree owns every frame's storage. The zero Tree is not usable; call New.
type Tree struct {
	nodes    []node
	freeList []ID
	root     ID

	// reconfigure is called by SetSize whenever a leaf's size changes, so
	// the owning coordinator can tell the client to redraw at the new
	// size. It mirrors the original's sa.reconfigure(sid, size, state)
	// call from packing.rs's set_size, without frames importing the
	// coordinator/event packages directly; nil until SetReconfigureHook
	// is called, in which case it is simply skipped.
	reconfigure func(SurfaceID, image.Point)
}

// SetReconfigureHook installs the callback SetSize uses to notify a leaf's
// owner that its size changed. Passing nil disables the notification.
func (t *Tree) SetReconfigureHook(fn func(SurfaceID, image.Point)) {
	t.reconfigure = fn
}

// New creates a Tree with a single root frame (mode Root, no parent).
func New() *Tree {
	t := &Tree{}
	t.root = t.alloc(NoID, ModeRoot, Horizontal, Anchored, InvalidSurfaceID)
	return t
}

// Root returns a handle to the tree's root frame.
func (t *Tree) Root() Frame { return Frame{t: t, id: t.root} }

// Frame is a lightweight handle (tree pointer + arena index) through which
// every per-frame operation in spec §4.3 is invoked.
type Frame struct {
	t  *Tree
	id ID
}

// ID returns the frame's stable arena index, usable as a map key or for
// equality comparison independent of the Frame's tree pointer identity.
func (f Frame) ID() ID { return f.id }

// Valid reports whether f refers to a live frame.
func (f Frame) Valid() bool {
	return f.t != nil && int(f.id) >= 0 && int(f.id) < len(f.t.nodes) && f.t.nodes[f.id].live
}

func (f Frame) n() *node { return &f.t.nodes[f.id] }

// Equal reports whether f and g refer to the same frame in the same tree.
func (f Frame) Equal(g Frame) bool { return f.t == g.t && f.id == g.id }

func (t *Tree) alloc(parent ID, mode Mode, geometry Geometry, mobility Mobility, sid SurfaceID) ID {
	n := node{
		live: true, parent: parent, mode: mode, geometry: geometry, mobility: mobility,
		surfaceID: sid,
		spatialPrev: NoID, spatialNext: NoID,
		temporalPrev: NoID, temporalNext: NoID,
		firstSpatialChild: NoID, lastSpatialChild: NoID,
		firstTemporalChild: NoID, lastTemporalChild: NoID,
	}
	if k := len(t.freeList); k > 0 {
		id := t.freeList[k-1]
		t.freeList = t.freeList[:k-1]
		t.nodes[id] = n
		return id
	}
	t.nodes = append(t.nodes, n)
	return ID(len(t.nodes) - 1)
}

// NewFrame allocates a detached frame (no parent yet); the caller attaches
// it with Append/Prepend/Adjoin/Prejoin.
func (t *Tree) NewFrame(mode Mode, geometry Geometry, mobility Mobility, sid SurfaceID) Frame {
	return Frame{t: t, id: t.alloc(NoID, mode, geometry, mobility, sid)}
}

// --- accessors ---

func (f Frame) SurfaceID() SurfaceID    { return f.n().surfaceID }
func (f Frame) Geometry() Geometry      { return f.n().geometry }
func (f Frame) Mobility() Mobility      { return f.n().mobility }
func (f Frame) Mode() Mode              { return f.n().mode }
func (f Frame) Position() image.Point   { return f.n().position }
func (f Frame) Size() image.Point       { return f.n().size }
func (f Frame) Title() string           { return f.n().title }
func (f Frame) NumChildren() int        { return f.n().numChildren }

func (f Frame) SetGeometry(g Geometry)    { f.n().geometry = g }
func (f Frame) SetMobility(m Mobility)    { f.n().mobility = m }
func (f Frame) SetTitle(s string)         { f.n().title = s }
func (f Frame) SetPosition(p image.Point) { f.n().position = p }
func (f Frame) setSizeRaw(s image.Point)  { f.n().size = s }

// setMode and setSurfaceID are used by Deramify's absorption case, where a
// frame takes on its sole child's identity before the child is destroyed.
func (f Frame) setMode(m Mode)          { f.n().mode = m }
func (f Frame) setSurfaceID(s SurfaceID) { f.n().surfaceID = s }

// Parent returns the frame's parent, or the zero Frame (Valid() == false)
// for the root.
func (f Frame) Parent() Frame {
	p := f.n().parent
	if p == NoID {
		return Frame{}
	}
	return Frame{t: f.t, id: p}
}

// IsRoot reports whether f has no parent.
func (f Frame) IsRoot() bool { return f.n().parent == NoID }

// Rectangle is the frame's absolute position+size as an image.Rectangle.
func (f Frame) Rectangle() image.Rectangle {
	n := f.n()
	return image.Rectangle{Min: n.position, Max: n.position.Add(n.size)}
}
