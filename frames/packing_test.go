package frames

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHomogenizeSplitsEquallyAlongMainAxis(t *testing.T) {
	tree := New()
	root := tree.Root()
	root.SetGeometry(Horizontal)
	root.SetPosition(image.Pt(0, 0))
	root.setSizeRaw(image.Pt(300, 100))

	v1, v2, v3 := leaf(tree, 1), leaf(tree, 2), leaf(tree, 3)
	root.Append(v1)
	root.Append(v2)
	root.Append(v3)

	root.Homogenize()

	assert.Equal(t, 100, v1.Size().X)
	assert.Equal(t, 100, v2.Size().X)
	assert.Equal(t, 100, v3.Size().X)
	for _, v := range []Frame{v1, v2, v3} {
		assert.Equal(t, 100, v.Size().Y)
	}
	assert.Equal(t, 0, v1.Position().X)
	assert.Equal(t, 100, v2.Position().X)
	assert.Equal(t, 200, v3.Position().X)
}

func TestRelaxReservesSpaceForDockedSiblings(t *testing.T) {
	tree := New()
	root := tree.Root()
	root.SetGeometry(Horizontal)
	root.SetPosition(image.Pt(0, 0))
	root.setSizeRaw(image.Pt(300, 100))

	bar := leaf(tree, 1)
	bar.SetMobility(Docked)
	bar.setSizeRaw(image.Pt(50, 100))
	root.Append(bar)

	v1, v2 := leaf(tree, 2), leaf(tree, 3)
	root.Append(v1)
	root.Append(v2)

	root.Relax()

	assert.Equal(t, 50, bar.Size().X, "docked child keeps its own length")
	sum := v1.Size().X + v2.Size().X
	assert.Equal(t, 250, sum, "anchored children fill parent length minus docked")
}

func TestRelaxLeavesFloatingChildrenUntouched(t *testing.T) {
	tree := New()
	root := tree.Root()
	root.SetGeometry(Horizontal)
	root.SetPosition(image.Pt(0, 0))
	root.setSizeRaw(image.Pt(300, 100))

	floater := leaf(tree, 1)
	floater.SetMobility(Floating)
	floater.SetPosition(image.Pt(10, 10))
	floater.setSizeRaw(image.Pt(20, 20))
	root.Append(floater)

	root.Relax()

	assert.Equal(t, image.Pt(10, 10), floater.Position())
	assert.Equal(t, image.Pt(20, 20), floater.Size())
}

func TestStackedGeometryGivesEveryChildTheFullRect(t *testing.T) {
	tree := New()
	root := tree.Root()
	root.SetGeometry(Stacked)
	root.SetPosition(image.Pt(5, 5))
	root.setSizeRaw(image.Pt(200, 150))

	v1, v2 := leaf(tree, 1), leaf(tree, 2)
	root.Append(v1)
	root.Append(v2)
	root.Relax()

	assert.Equal(t, root.Rectangle(), v1.Rectangle())
	assert.Equal(t, root.Rectangle(), v2.Rectangle())
}

func TestSetSizePropagatesToChildren(t *testing.T) {
	tree := New()
	root := tree.Root()
	root.SetGeometry(Horizontal)
	root.SetPosition(image.Pt(0, 0))

	v1, v2 := leaf(tree, 1), leaf(tree, 2)
	root.Append(v1)
	root.Append(v2)

	root.SetSize(image.Pt(400, 100))
	assert.Equal(t, 400, v1.Size().X+v2.Size().X)
}

func TestRemoveSelfReclaimsSpaceForSiblings(t *testing.T) {
	tree := New()
	root := tree.Root()
	root.SetGeometry(Horizontal)
	root.SetPosition(image.Pt(0, 0))
	root.setSizeRaw(image.Pt(300, 100))

	v1, v2, v3 := leaf(tree, 1), leaf(tree, 2), leaf(tree, 3)
	root.Append(v1)
	root.Append(v2)
	root.Append(v3)
	root.Homogenize()

	v2.RemoveSelf()

	assert.Equal(t, 2, root.CountChildren())
	assert.Equal(t, 300, v1.Size().X+v3.Size().X)
}
