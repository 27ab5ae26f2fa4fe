package memory

import (
	"golang.org/x/sys/unix"

	"github.com/wlcore/compositor/errs"
	"github.com/wlcore/compositor/event"
)

// maxPlanes is the largest number of dmabuf planes a hardware image may
// carry, per spec §3 ("up to three planes").
const maxPlanes = 3

// Plane is one dmabuf plane: a file descriptor plus its layout within
// that fd.
type Plane struct {
	Fd       int
	Offset   uint32
	Stride   uint32
	Set      bool
}

// EGLAttrs describes a GEM-name-backed image import.
type EGLAttrs struct {
	GEMName uint32
	Width   int32
	Height  int32
	Format  uint32
}

// DmabufAttrs describes a dmabuf-backed image import: up to three planes
// plus a single format, dimensions, and a 64-bit modifier shared by all
// planes (spec §3).
type DmabufAttrs struct {
	Planes   [maxPlanes]Plane
	Width    int32
	Height   int32
	Format   uint32
	Modifier uint64
}

// HWImage is an opaque handle to a GPU-side image, created from either a
// GEM name or a dmabuf (spec §3).
type HWImage struct {
	ID     event.ImageID
	FromEGL bool
	EGL     EGLAttrs
	Dmabuf  DmabufAttrs
}

func validFormat(f uint32) bool {
	// The set of fourcc codes the core understands; drivers may extend it,
	// but these are the ones the compositor core itself reasons about for
	// shm/screenshot interop (ARGB8888, XRGB8888, ABGR8888, XBGR8888).
	switch f {
	case 0x34325241, 0x34325258, 0x34324241, 0x34324258:
		return true
	default:
		return false
	}
}

func validDimensions(w, h int32) bool { return w > 0 && h > 0 }

// NewEGLImage validates attrs and constructs a GEM-backed HWImage.
func NewEGLImage(id event.ImageID, attrs EGLAttrs) (*HWImage, error) {
	const op = "memory.NewEGLImage"
	if !validFormat(attrs.Format) {
		return nil, errs.New(op, errs.Protocol, "invalid format")
	}
	if !validDimensions(attrs.Width, attrs.Height) {
		return nil, errs.New(op, errs.Protocol, "invalid dimensions")
	}
	return &HWImage{ID: id, FromEGL: true, EGL: attrs}, nil
}

// SetPlane validates and installs plane i of a dmabuf import in progress.
// Each of the distinct validation failures in spec §3 is returned as its
// own error kind/message so callers (and tests) can distinguish them.
func (a *DmabufAttrs) SetPlane(i int, fd int, offset, stride uint32) error {
	const op = "memory.DmabufAttrs.SetPlane"
	if i < 0 || i >= maxPlanes {
		return errs.New(op, errs.Protocol, "plane index out of bounds")
	}
	if a.Planes[i].Set {
		return errs.New(op, errs.Protocol, "plane already set")
	}
	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err == nil && st.Size > 0 {
		need := int64(offset) + int64(stride)*int64(a.Height)
		if need > st.Size {
			return errs.New(op, errs.Protocol, "out of bounds: offset+stride*height exceeds buffer size")
		}
	}
	a.Planes[i] = Plane{Fd: fd, Offset: offset, Stride: stride, Set: true}
	return nil
}

// planeCountFor reports how many planes a format requires. Single-plane
// is the default for every format this core recognises (spec §3's
// "incomplete planes" check only matters once multi-planar formats are
// added; today it degenerates to "plane 0 must be set").
func planeCountFor(format uint32) int { return 1 }

// ImportDmabuf validates attrs and constructs a dmabuf-backed HWImage.
func ImportDmabuf(id event.ImageID, attrs DmabufAttrs) (*HWImage, error) {
	const op = "memory.ImportDmabuf"
	if !validFormat(attrs.Format) {
		return nil, errs.New(op, errs.Protocol, "invalid format")
	}
	if !validDimensions(attrs.Width, attrs.Height) {
		return nil, errs.New(op, errs.Protocol, "invalid dimensions")
	}
	need := planeCountFor(attrs.Format)
	for i := 0; i < need; i++ {
		if !attrs.Planes[i].Set {
			return nil, errs.New(op, errs.Protocol, "incomplete planes")
		}
	}
	return &HWImage{ID: id, FromEGL: false, Dmabuf: attrs}, nil
}
