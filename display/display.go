// Package display implements the per-output redraw loop (spec §4.6):
// page-flip gating, subtree flattening through the coordinator, and
// surface-frame callback emission.
//
// Grounded on original_source/src/exhibitor/display.rs for the gating
// state machine, and on gio's own app.Window.processFrame /
// validateAndProcess pattern (app/window.go) of deferring a redraw until
// the backend signals it is ready, generalized here from "GPU context
// ready" to "no page flip pending".
package display

import (
	"image"

	"github.com/wlcore/compositor/coordinator"
	"github.com/wlcore/compositor/event"
)

// Driver is the output backend a Display hands drawable content to.
// Concrete implementations (DRM/KMS, a virtual framebuffer, ...) are out
// of scope (spec §1); Display only depends on this interface.
type Driver interface {
	// Draw paints surfaces (in draw order) plus an optional cursor overlay
	// and background underlay, then schedules a page flip.
	Draw(surfaces []coordinator.RendererEntry, cursor, background *coordinator.RendererEntry) error
	// Reopen re-acquires the output after a suspend/wake-up cycle.
	Reopen() error
}

// FrameCapturer is a Driver that can additionally read back the frame it
// just drew. Implementing it is optional: a Driver that doesn't satisfy
// it just never produces a screenshot buffer for its display.
type FrameCapturer interface {
	CaptureFrame() (image.Image, error)
}

// Display drives one output's redraw loop.
type Display struct {
	ID     event.DisplayID
	driver Driver
	coord  *coordinator.Coordinator

	Root event.SurfaceID // the display frame's root surface, if any

	pageFlipScheduled bool
	redrawNeeded      bool
	screenshotOwed    bool

	BackgroundSID event.SurfaceID
	CursorSID     event.SurfaceID

	clockMs func() uint32
}

// New constructs a Display for the given output, bound to driver and the
// shared coordinator.
func New(id event.DisplayID, driver Driver, coord *coordinator.Coordinator, clockMs func() uint32) *Display {
	return &Display{ID: id, driver: driver, coord: coord, clockMs: clockMs}
}

// RequestRedraw is "on redraw request" (spec §4.6): if a page flip is
// pending, it only records that a redraw is owed; otherwise it draws the
// surface list the caller passed in, emits a surface-frame
// event per drawn surface, clears redraw-needed, and schedules the next
// page flip.
func (d *Display) RequestRedraw(surfaces []coordinator.RendererEntry, cursor, background *coordinator.RendererEntry) error {
	if d.pageFlipScheduled {
		d.redrawNeeded = true
		return nil
	}

	if err := d.driver.Draw(surfaces, cursor, background); err != nil {
		return err
	}

	if d.screenshotOwed {
		d.screenshotOwed = false
		if capturer, ok := d.driver.(FrameCapturer); ok {
			if img, err := capturer.CaptureFrame(); err == nil {
				d.coord.SetScreenshotBuffer(d.ID, img)
			}
		}
	}

	now := d.clockMs()
	for _, s := range surfaces {
		d.coord.Emit(event.SurfaceFrame{Surface: s.Surface, AtMs: now})
	}

	d.redrawNeeded = false
	d.pageFlipScheduled = true
	return nil
}

// OnPageFlip is "on page-flip received" (spec §4.6): clears the scheduled
// flag and, if a redraw was requested meanwhile, the caller should
// immediately call RequestRedraw again — OnPageFlip reports that via its
// return value rather than re-entering RequestRedraw itself, since it
// would need a fresh surface list from the caller.
func (d *Display) OnPageFlip() (redrawOwed bool) {
	d.pageFlipScheduled = false
	if d.redrawNeeded {
		return true
	}
	return false
}

// OnWakeUp is "on wake-up" (spec §4.6): reopens the output and reports
// that a redraw is owed.
func (d *Display) OnWakeUp() error {
	if err := d.driver.Reopen(); err != nil {
		return err
	}
	d.redrawNeeded = true
	return nil
}

// RequestScreenshot marks the next successfully drawn frame for capture
// into the coordinator's screenshot buffer, if the backing driver
// supports it.
func (d *Display) RequestScreenshot() {
	d.screenshotOwed = true
	d.redrawNeeded = true
}

// RedrawNeeded reports whether a redraw is currently owed.
func (d *Display) RedrawNeeded() bool { return d.redrawNeeded }

// PageFlipScheduled reports whether a page flip is currently pending.
func (d *Display) PageFlipScheduled() bool { return d.pageFlipScheduled }

// Area is a convenience for exhibitor code that needs the display's
// pixel area; display-frame geometry lives in the frames package, this
// just mirrors it for pointer-casting purposes.
type Area struct {
	ID   event.DisplayID
	Rect image.Rectangle
}
