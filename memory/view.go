package memory

import (
	"image"

	"github.com/daaku/swizzle"

	"github.com/wlcore/compositor/errs"
	"github.com/wlcore/compositor/event"
)

// PixelFormat identifies the pixel layout of a View, mirroring the small
// set of shm formats a Wayland compositor must understand.
type PixelFormat uint8

const (
	FormatARGB8888 PixelFormat = iota
	FormatXRGB8888
	FormatABGR8888
	FormatXBGR8888
)

// BytesPerPixel returns the pixel stride unit for f.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case FormatARGB8888, FormatXRGB8888, FormatABGR8888, FormatXBGR8888:
		return 4
	default:
		return 0
	}
}

func (f PixelFormat) valid() bool {
	return f.BytesPerPixel() > 0
}

// View is a non-owning window into a Pool, carrying a counted reference so
// it outlives pool-destruction requests (spec §3, invariant in spec §8
// item 6).
type View struct {
	ID     event.ViewID
	Pool   *Pool
	Format PixelFormat
	Offset int
	Width  int
	Height int
	Stride int

	// data is captured at creation time so a later Pool.Replace does not
	// retroactively change what an existing view reads.
	data []byte
}

// NewView validates and constructs a View into pool, retaining a
// reference on it.
func NewView(id event.ViewID, pool *Pool, format PixelFormat, offset, width, height, stride int) (*View, error) {
	const op = "memory.NewView"
	if !format.valid() {
		return nil, errs.New(op, errs.Protocol, "invalid pixel format")
	}
	if width <= 0 || height <= 0 || stride <= 0 {
		return nil, errs.New(op, errs.Protocol, "invalid dimensions")
	}
	if offset < 0 {
		return nil, errs.New(op, errs.Protocol, "negative offset")
	}
	need := offset + stride*height
	if need > len(pool.Data) {
		return nil, errs.New(op, errs.Protocol, "out of bounds: offset+stride*height exceeds pool size")
	}
	v := &View{
		ID: id, Pool: pool, Format: format,
		Offset: offset, Width: width, Height: height, Stride: stride,
		data: pool.Data[offset : offset+stride*height : offset+stride*height],
	}
	pool.Retain()
	return v, nil
}

// Destroy releases the view's reference on its pool. Callers must not use
// the view afterward.
func (v *View) Destroy() (poolDestroyedNow bool, err error) {
	return v.Pool.Release()
}

// Bytes returns the raw pixel bytes captured at creation time. Safe to
// call for the view's entire lifetime even if the pool has since been
// "destroyed" through the public API, per spec §8 invariant 6.
func (v *View) Bytes() []byte { return v.data }

// AsImage exposes the view's pixels as a standard library image.Image, so
// a consumer (e.g. the screenshot take-buffer path) can encode it without
// this package depending on a specific codec. BGR-ordered formats are
// channel-swapped on a copy via github.com/daaku/swizzle, the same
// in-place B/R swap jmigpin/editor's Wayland shm driver applies to its
// frame buffer before upload.
func (v *View) AsImage() (image.Image, error) {
	switch v.Format {
	case FormatARGB8888, FormatXRGB8888:
		cp := append([]byte(nil), v.data...)
		swizzle.BGRA(cp)
		return &image.NRGBA{
			Pix:    cp,
			Stride: v.Stride,
			Rect:   image.Rect(0, 0, v.Width, v.Height),
		}, nil
	case FormatABGR8888, FormatXBGR8888:
		return &image.NRGBA{
			Pix:    append([]byte(nil), v.data...),
			Stride: v.Stride,
			Rect:   image.Rect(0, 0, v.Width, v.Height),
		}, nil
	default:
		return nil, errs.New("memory.View.AsImage", errs.Protocol, "unsupported format")
	}
}
