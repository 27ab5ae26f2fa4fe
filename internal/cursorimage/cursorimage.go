// Package cursorimage rescales a cursor image by an output's scale factor.
// No other package in this repository calls it. Grounded on
// friedelschoen-ctxmenu's menu.go rescaling of menu item icons via
// github.com/KononK/resize ("resize.Resize(size, size, img,
// resize.Bilinear)").
package cursorimage

import (
	"image"

	"github.com/KononK/resize"
)

// Scale multiplies both of img's dimensions by scale (truncated to whole
// pixels) and resamples bilinearly, the same resize call this is grounded
// on. A scale of 1, or one that truncates either dimension to zero,
// returns img unchanged.
func Scale(img image.Image, scale float64) image.Image {
	if scale == 1 {
		return img
	}
	b := img.Bounds()
	w := uint(float64(b.Dx()) * scale)
	h := uint(float64(b.Dy()) * scale)
	if w == 0 || h == 0 {
		return img
	}
	return resize.Resize(w, h, img, resize.Bilinear)
}
