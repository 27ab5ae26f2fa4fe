package frames

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pt(x, y int) image.Point { return image.Pt(x, y) }

func leaf(t *Tree, sid SurfaceID) Frame {
	return t.NewFrame(ModeLeaf, Horizontal, Anchored, sid)
}

func TestAppendOrdersBothSpatialAndTemporalAtTheEnd(t *testing.T) {
	tree := New()
	root := tree.Root()
	v1, v2, v3 := leaf(tree, 1), leaf(tree, 2), leaf(tree, 3)

	root.Append(v1)
	root.Append(v2)
	root.Append(v3)

	assert.Equal(t, []SurfaceID{1, 2, 3}, sids(root.SpatialChildren()))
	assert.Equal(t, []SurfaceID{1, 2, 3}, sids(root.TemporalChildren()))
	assert.Equal(t, 3, root.CountChildren())
}

func TestPrependOrdersBothSpatialAndTemporalAtTheFront(t *testing.T) {
	tree := New()
	root := tree.Root()
	v1, v2, v3 := leaf(tree, 1), leaf(tree, 2), leaf(tree, 3)

	root.Prepend(v1)
	root.Prepend(v2)
	root.Prepend(v3)

	assert.Equal(t, []SurfaceID{3, 2, 1}, sids(root.SpatialChildren()))
	assert.Equal(t, []SurfaceID{3, 2, 1}, sids(root.TemporalChildren()))
}

func TestPopMovesToFrontOfTemporalOnlyLeavingSpatialUnchanged(t *testing.T) {
	tree := New()
	root := tree.Root()
	v1, v2, v3 := leaf(tree, 1), leaf(tree, 2), leaf(tree, 3)
	root.Append(v1)
	root.Append(v2)
	root.Append(v3)

	v3.Pop() // appended last, so it moves from the back to the front temporally
	assert.Equal(t, []SurfaceID{3, 1, 2}, sids(root.TemporalChildren()))

	v1.Pop()
	assert.Equal(t, []SurfaceID{1, 2, 3}, sids(root.SpatialChildren()), "pop must not touch spatial order")
	assert.Equal(t, []SurfaceID{1, 3, 2}, sids(root.TemporalChildren()), "v1 moves back to the front")

	v2.Pop()
	assert.Equal(t, []SurfaceID{1, 2, 3}, sids(root.SpatialChildren()))
	assert.Equal(t, []SurfaceID{2, 1, 3}, sids(root.TemporalChildren()))
}

func TestRemoveDetachesWithoutFreeingSlot(t *testing.T) {
	tree := New()
	root := tree.Root()
	v1, v2 := leaf(tree, 1), leaf(tree, 2)
	root.Append(v1)
	root.Append(v2)

	v1.Remove()
	assert.Equal(t, 1, root.CountChildren())
	assert.True(t, v1.Valid(), "remove detaches but does not free")
	assert.True(t, v1.IsRoot(), "a removed frame has no parent")
}

func TestDestroyFreesSlotForReuse(t *testing.T) {
	tree := New()
	root := tree.Root()
	v1 := leaf(tree, 1)
	root.Append(v1)
	id := v1.ID()

	v1.Remove()
	v1.Destroy()
	assert.False(t, v1.Valid())

	v2 := leaf(tree, 2)
	assert.Equal(t, id, v2.ID(), "freed slot should be reused")
}

func TestAdjoinAndPrejoinInsertAtTheRightSpot(t *testing.T) {
	tree := New()
	root := tree.Root()
	v1, v3 := leaf(tree, 1), leaf(tree, 3)
	root.Append(v1)
	root.Append(v3)

	v2 := leaf(tree, 2)
	v1.Adjoin(v2) // between v1 and v3
	assert.Equal(t, []SurfaceID{1, 2, 3}, sids(root.SpatialChildren()))

	v0 := leaf(tree, 0)
	v1.Prejoin(v0) // before v1
	assert.Equal(t, []SurfaceID{0, 1, 2, 3}, sids(root.SpatialChildren()))
}

func TestCountAnchoredChildren(t *testing.T) {
	tree := New()
	root := tree.Root()
	v1, v2, v3 := leaf(tree, 1), leaf(tree, 2), leaf(tree, 3)
	v2.SetMobility(Floating)
	root.Append(v1)
	root.Append(v2)
	root.Append(v3)

	assert.Equal(t, 2, root.CountAnchoredChildren())
}

func TestFindWithSidDepthFirstTemporal(t *testing.T) {
	tree := New()
	root := tree.Root()
	container := tree.NewFrame(ModeContainer, Horizontal, Anchored, InvalidSurfaceID)
	root.Append(container)
	v1 := leaf(tree, 42)
	container.Append(v1)

	found, ok := root.FindWithSid(42)
	require.True(t, ok)
	assert.Equal(t, v1.ID(), found.ID())

	_, ok = root.FindWithSid(999)
	assert.False(t, ok)
}

func TestFindTopWalksUpToWorkspace(t *testing.T) {
	tree := New()
	root := tree.Root()
	display := tree.NewFrame(ModeDisplay, Horizontal, Anchored, InvalidSurfaceID)
	workspace := tree.NewFrame(ModeWorkspace, Horizontal, Anchored, InvalidSurfaceID)
	v1 := leaf(tree, 1)
	root.Append(display)
	display.Append(workspace)
	workspace.Append(v1)

	top, ok := v1.FindTop()
	require.True(t, ok)
	assert.Equal(t, workspace.ID(), top.ID())
}

func TestFindBuildableReturnsSelfOrParent(t *testing.T) {
	tree := New()
	root := tree.Root()
	v1 := leaf(tree, 1)
	root.Append(v1)

	assert.Equal(t, root.ID(), root.FindBuildable().ID())
	assert.Equal(t, root.ID(), v1.FindBuildable().ID())
}

func TestFindPointedDescendsIntoContainingChild(t *testing.T) {
	tree := New()
	root := tree.Root()
	root.SetPosition(pt(0, 0))
	root.setSizeRaw(pt(100, 100))

	v1, v2 := leaf(tree, 1), leaf(tree, 2)
	root.Append(v1)
	root.Append(v2)
	root.Homogenize()

	found := root.FindPointed(pt(10, 10))
	assert.Equal(t, v1.ID(), found.ID())

	found = root.FindPointed(pt(90, 10))
	assert.Equal(t, v2.ID(), found.ID())
}

func TestFindAdjacentRespectsParentGeometry(t *testing.T) {
	tree := New()
	root := tree.Root()
	root.SetGeometry(Horizontal)
	v1, v2, v3 := leaf(tree, 1), leaf(tree, 2), leaf(tree, 3)
	root.Append(v1)
	root.Append(v2)
	root.Append(v3)

	next, ok := v1.FindAdjacent(East, 1)
	require.True(t, ok)
	assert.Equal(t, v2.ID(), next.ID())

	_, ok = v1.FindAdjacent(North, 1)
	assert.False(t, ok, "vertical direction doesn't match a horizontal parent")

	_, ok = v3.FindAdjacent(East, 1)
	assert.False(t, ok, "no sibling past the last one")
}

func TestFindContiguousCrossesContainerBoundaries(t *testing.T) {
	tree := New()
	root := tree.Root()
	root.SetGeometry(Horizontal)
	left := tree.NewFrame(ModeContainer, Vertical, Anchored, InvalidSurfaceID)
	right := leaf(tree, 2)
	root.Append(left)
	root.Append(right)

	inner := leaf(tree, 1)
	left.Append(inner)

	// East doesn't match left's Vertical geometry, so FindContiguous must
	// rise out of left before trying to move east.
	found, ok := inner.FindContiguous(East, 1)
	require.True(t, ok)
	assert.Equal(t, right.ID(), found.ID())
}

func sids(fs []Frame) []SurfaceID {
	out := make([]SurfaceID, len(fs))
	for i, f := range fs {
		out[i] = f.SurfaceID()
	}
	return out
}
