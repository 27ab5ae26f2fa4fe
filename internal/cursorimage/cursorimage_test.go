package cursorimage

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScaleReturnsSameImageAtUnitScale(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 16, 16))
	got := Scale(src, 1)
	assert.Same(t, image.Image(src), got)
}

func TestScaleDoublesDimensions(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 16, 16))
	got := Scale(src, 2)
	b := got.Bounds()
	assert.Equal(t, 32, b.Dx())
	assert.Equal(t, 32, b.Dy())
}
