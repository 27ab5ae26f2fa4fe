// Package facade declares the Wayland wire boundary as a Go interface
// (spec §6): the set of operations a protocol-marshalling layer would
// call into this core with. Nothing in this repo implements Facade — a
// future wire-protocol adapter would — but defining it here keeps the
// contract explicit without pulling in any wire marshalling, matching the
// spec's framing of the Facade as "consumed, not implemented" by the
// core.
package facade

import (
	"image"

	"github.com/wlcore/compositor/coordinator"
	"github.com/wlcore/compositor/memory"

	"github.com/wlcore/compositor/event"
)

// Facade is the full set of operations spec §6 lists under "Wayland wire
// boundary". A client-facing protocol layer calls these; this repo's
// coordinator.Coordinator satisfies the surface/memory/focus-oriented
// subset of it directly; the remainder (positioner, data-device object
// bookkeeping, DRM authentication) is out of the core's concern and would
// be implemented by whatever owns the actual Wayland objects.
type Facade interface {
	CreateSurface() event.SurfaceID
	Attach(sid event.SurfaceID, view *memory.View, dx, dy int) error
	Commit(sid event.SurfaceID) error
	DestroySurface(sid event.SurfaceID)
	SetFrameCallback(sid event.SurfaceID, callbackObjectID uint32)
	Show(sid event.SurfaceID, shellSurfaceObjectIDs []uint32, reason coordinator.ShowReason) error
	Hide(sid event.SurfaceID, reason coordinator.ShowReason)

	SetOffset(sid event.SurfaceID, offset image.Point)
	SetRequestedSize(sid event.SurfaceID, size image.Point)
	SetRelativePosition(sid event.SurfaceID, pos image.Point)
	Relate(parent, child event.SurfaceID) error
	Unrelate(parent, child event.SurfaceID)

	CreateMemoryPool(fd int, size int) (event.PoolID, error)
	DestroyMemoryPool(id event.PoolID) error
	CreateMemoryView(poolID event.PoolID, format memory.PixelFormat, offset, width, height, stride int) (event.ViewID, error)
	DestroyMemoryView(id event.ViewID) error

	CreateEGLImage(attrs memory.EGLAttrs) (event.ImageID, error)
	ImportDmabuf(attrs memory.DmabufAttrs) (event.ImageID, error)
	DestroyHWImage(id event.ImageID) error

	DefineInputRegion(sid event.SurfaceID, regionObjectID uint32, rects []image.Rectangle)
	UndefineInputRegion(regionObjectID uint32)
	SetInputRegion(sid event.SurfaceID, regionObjectID uint32)

	AddPointerObject(objectID uint32)
	RemovePointerObject(objectID uint32)
	AddKeyboardObject(objectID uint32)
	RemoveKeyboardObject(objectID uint32)
	AddDataDeviceObject(objectID uint32)
	RemoveDataDeviceObject(objectID uint32)

	SetPositioner(objectID uint32, anchorRect image.Rectangle, size image.Point)
	GetPositioner(objectID uint32) (anchorRect image.Rectangle, size image.Point, ok bool)
	SelectTransfer(mimeTypes []string)
	RemoveTransfer()
	RequestTransfer(mimeType string, fd int)

	RelateOutput(outputObjectID uint32, displayID event.DisplayID)
	TakeScreenshot(screenshooterObjectID, outputObjectID, bufferObjectID uint32)

	AuthenticateDRM(magic uint32) error
	QueryDRMDevicePath() (string, error)
}
