// Package coordinator implements the single shared, mutable state store
// (spec §3, §4.2): surfaces, memory pools/views, hardware-image handles,
// and global focus/screenshot/transfer state. Every public method takes
// the embedded mutex for its duration; nothing is emitted on the signaler
// while the lock is held longer than the single call that triggered it
// (spec §4.2 "Protocol").
//
// Grounded on original_source/src/qualia/coordinator.rs and
// cognitive/qualia/src/traits.rs for the capability-group split; rendered
// as a single struct behind a sync.Mutex per the §9 design note (gio
// itself has no analogous shared-state object, since it is single
// threaded per window).
package coordinator

import (
	"image"
	"sync"

	"github.com/rs/zerolog"

	"github.com/wlcore/compositor/dispatcher"
	"github.com/wlcore/compositor/errs"
	"github.com/wlcore/compositor/event"
	"github.com/wlcore/compositor/memory"
	"github.com/wlcore/compositor/timing"
)

// RendererEntry is one (surface id, draw position) pair in a flattened
// draw-order surface context, as returned by GetRendererContext.
type RendererEntry struct {
	Surface  event.SurfaceID
	Position image.Point
}

// Coordinator is the shared state store. The zero value is not usable;
// construct with New.
type Coordinator struct {
	mu  sync.Mutex
	log zerolog.Logger
	sig *dispatcher.Signaler
	clk timing.Clock

	nextSurfaceID event.SurfaceID
	surfaces      map[event.SurfaceID]*Surface

	nextPoolID event.PoolID
	pools      map[event.PoolID]*memory.Pool

	nextViewID event.ViewID
	views      map[event.ViewID]*memory.View

	nextImageID event.ImageID
	images      map[event.ImageID]*memory.HWImage

	hwAccelAvailable bool

	keyboardFocus event.SurfaceID
	pointerFocus  event.SurfaceID
	pointerLocal  image.Point

	transferOffer []string

	screenshotBuffer map[event.DisplayID]image.Image
}

// New constructs an empty Coordinator. sig is used to emit state-change
// notifications; clk stamps frame-callback events.
func New(sig *dispatcher.Signaler, clk timing.Clock, log zerolog.Logger) *Coordinator {
	return &Coordinator{
		log:              log.With().Str("component", "coordinator").Logger(),
		sig:              sig,
		clk:              clk,
		nextSurfaceID:    1,
		surfaces:         make(map[event.SurfaceID]*Surface),
		nextPoolID:       1,
		pools:            make(map[event.PoolID]*memory.Pool),
		nextViewID:       1,
		views:            make(map[event.ViewID]*memory.View),
		nextImageID:      1,
		images:           make(map[event.ImageID]*memory.HWImage),
		screenshotBuffer: make(map[event.DisplayID]image.Image),
	}
}

// emit fans payload out on the signaler. Never called with mu held.
func (c *Coordinator) emit(p event.Payload) { c.sig.Emit(p) }

// --- surface management ---

// CreateSurface allocates a fresh surface id and its bookkeeping record.
func (c *Coordinator) CreateSurface() event.SurfaceID {
	c.mu.Lock()
	id := c.nextSurfaceID
	c.nextSurfaceID++
	c.surfaces[id] = newSurface(id)
	c.mu.Unlock()
	return id
}

func (c *Coordinator) surface(op string, id event.SurfaceID) (*Surface, error) {
	s, ok := c.surfaces[id]
	if !ok {
		return nil, errs.Newf(op, errs.InvalidArgument, "unknown surface %d", id)
	}
	return s, nil
}

// AttachShm sets the pending source to a shared-memory view.
func (c *Coordinator) AttachShm(id event.SurfaceID, v *memory.View) error {
	const op = "coordinator.AttachShm"
	c.mu.Lock()
	defer c.mu.Unlock()
	s, err := c.surface(op, id)
	if err != nil {
		c.log.Warn().Err(err).Msg("attach on unknown surface")
		return nil
	}
	s.Pending = Source{Kind: SourceShm, View: v}
	return nil
}

// AttachHWImage sets the pending source to an EGL/GEM-backed hardware image.
func (c *Coordinator) AttachHWImage(id event.SurfaceID, img *memory.HWImage) error {
	const op = "coordinator.AttachHWImage"
	c.mu.Lock()
	defer c.mu.Unlock()
	s, err := c.surface(op, id)
	if err != nil {
		c.log.Warn().Err(err).Msg("attach on unknown surface")
		return nil
	}
	s.Pending = Source{Kind: SourceHWImage, HW: img}
	return nil
}

// AttachDmabuf sets the pending source to a dmabuf-backed hardware image.
func (c *Coordinator) AttachDmabuf(id event.SurfaceID, img *memory.HWImage) error {
	const op = "coordinator.AttachDmabuf"
	c.mu.Lock()
	defer c.mu.Unlock()
	s, err := c.surface(op, id)
	if err != nil {
		c.log.Warn().Err(err).Msg("attach on unknown surface")
		return nil
	}
	s.Pending = Source{Kind: SourceDmabuf, HW: img}
	return nil
}

// Detach clears the pending source.
func (c *Coordinator) Detach(id event.SurfaceID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.surfaces[id]; ok {
		s.Pending = Source{}
	}
}

// sourceSize reports the pixel dimensions a source carries, or the zero
// point for an empty source.
func sourceSize(s Source) image.Point {
	switch s.Kind {
	case SourceShm:
		return image.Pt(s.View.Width, s.View.Height)
	case SourceHWImage, SourceDmabuf:
		if s.HW.FromEGL {
			return image.Pt(int(s.HW.EGL.Width), int(s.HW.EGL.Height))
		}
		return image.Pt(int(s.HW.Dmabuf.Width), int(s.HW.Dmabuf.Height))
	default:
		return image.Point{}
	}
}

// Commit swaps pending into current and, the first time the surface
// becomes ready, emits surface-ready (spec §3, §8 invariant 7). It also
// implements the first-commit sizing invariant (spec §3): if requested
// size is zero, it's set to the buffer size; if the surface has a parent,
// desired size is set to the buffer size too.
func (c *Coordinator) Commit(id event.SurfaceID) error {
	const op = "coordinator.Commit"
	c.mu.Lock()
	s, err := c.surface(op, id)
	if err != nil {
		c.mu.Unlock()
		c.log.Warn().Err(err).Msg("commit on unknown surface")
		return nil
	}

	if s.Pending == s.Current {
		c.mu.Unlock()
		return nil // no-op on unchanged pending, spec §8 round-trip property
	}

	wasReady := s.Ready() && s.everCommitted
	s.Current = s.Pending

	if !s.everCommitted && s.Current.Kind != SourceEmpty {
		size := sourceSize(s.Current)
		if s.RequestedSize == (image.Point{}) {
			s.RequestedSize = size
		}
		if s.Parent != event.InvalidSurfaceID {
			s.DesiredSize = size
		}
		s.everCommitted = true
	}

	nowReady := s.Ready() && s.everCommitted
	c.mu.Unlock()

	if nowReady && !wasReady {
		c.emit(event.SurfaceReady{Surface: id})
	}
	return nil
}

// Destroy removes the surface's bookkeeping and emits surface-destroyed.
func (c *Coordinator) Destroy(id event.SurfaceID) {
	c.mu.Lock()
	delete(c.surfaces, id)
	clearedKeyboard := c.keyboardFocus == id
	clearedPointer := c.pointerFocus == id
	if clearedKeyboard {
		c.keyboardFocus = event.InvalidSurfaceID
	}
	if clearedPointer {
		c.pointerFocus = event.InvalidSurfaceID
	}
	c.mu.Unlock()
	c.emit(event.SurfaceDestroyed{Surface: id})
}

// --- surface control ---

// Show sets reason in the surface's show-reasons word. Setting in-shell on
// a surface that already has a parent is rejected (spec §3, §8 invariant
// 3): a satellite cannot be a top-level.
func (c *Coordinator) Show(id event.SurfaceID, reason ShowReason) error {
	const op = "coordinator.Show"
	c.mu.Lock()
	defer c.mu.Unlock()
	s, err := c.surface(op, id)
	if err != nil {
		c.log.Warn().Err(err).Msg("show on unknown surface")
		return nil
	}
	if reason&ShowInShell != 0 && s.Parent != event.InvalidSurfaceID {
		return errs.New(op, errs.InvalidArgument, "cannot show in-shell a surface with a parent")
	}
	s.ShowReason |= reason
	return nil
}

// Hide clears reason in the surface's show-reasons word.
func (c *Coordinator) Hide(id event.SurfaceID, reason ShowReason) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.surfaces[id]; ok {
		s.ShowReason &^= reason
	}
}

// Dock emits dock-surface for the exhibitor to handle (spec §4.2).
func (c *Coordinator) Dock(id event.SurfaceID, size image.Point, display event.DisplayID) {
	c.emit(event.DockSurface{Surface: id, Size: size, Display: display})
}

// SetOffset sets a surface's buffer-to-surface origin, coerced non-negative.
func (c *Coordinator) SetOffset(id event.SurfaceID, offset image.Point) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.surfaces[id]
	if !ok {
		return
	}
	if offset.X < 0 {
		offset.X = 0
	}
	if offset.Y < 0 {
		offset.Y = 0
	}
	s.Offset = offset
}

// SetRequestedSize sets what the client asked for.
func (c *Coordinator) SetRequestedSize(id event.SurfaceID, size image.Point) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.surfaces[id]; ok {
		s.RequestedSize = size
	}
}

// SetRelativePosition sets the position relative to the parent surface.
func (c *Coordinator) SetRelativePosition(id event.SurfaceID, pos image.Point) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.surfaces[id]; ok {
		s.RelativePosition = pos
	}
}

// Relate makes child a satellite of parent.
func (c *Coordinator) Relate(parent, child event.SurfaceID) error {
	const op = "coordinator.Relate"
	c.mu.Lock()
	defer c.mu.Unlock()
	p, err := c.surface(op, parent)
	if err != nil {
		return err
	}
	ch, err := c.surface(op, child)
	if err != nil {
		return err
	}
	ch.Parent = parent
	p.Satellite = append(p.Satellite, child)
	return nil
}

// Unrelate removes child from parent's satellite list.
func (c *Coordinator) Unrelate(parent, child event.SurfaceID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch, ok := c.surfaces[child]
	if ok {
		ch.Parent = event.InvalidSurfaceID
	}
	p, ok := c.surfaces[parent]
	if !ok {
		return
	}
	for i, sid := range p.Satellite {
		if sid == child {
			p.Satellite = append(p.Satellite[:i], p.Satellite[i+1:]...)
			return
		}
	}
}

// --- viewing / listing ---

// SurfaceInfo is a read-only snapshot of a surface, safe to hold onto
// after the lock is released (spec §5: "values read under the lock are
// snapshots").
type SurfaceInfo struct {
	Surface
}

// GetSurfaceInfo returns a snapshot of the surface's state.
func (c *Coordinator) GetSurfaceInfo(id event.SurfaceID) (SurfaceInfo, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.surfaces[id]
	if !ok {
		return SurfaceInfo{}, false
	}
	return SurfaceInfo{Surface: *s}, true
}

// GetRendererContext returns the flattened (id, position) list for id and
// its satellites in draw order, each satellite positioned relative to the
// root surface's drawPosition.
func (c *Coordinator) GetRendererContext(id event.SurfaceID, drawPosition image.Point) []RendererEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.surfaces[id]
	if !ok {
		return nil
	}
	out := make([]RendererEntry, 0, len(s.Satellite))
	for _, sid := range s.Satellite {
		pos := drawPosition
		if sat, ok := c.surfaces[sid]; ok && sid != id {
			pos = drawPosition.Add(sat.RelativePosition)
		}
		out = append(out, RendererEntry{Surface: sid, Position: pos})
	}
	return out
}

// --- surface access ---

// Reconfigure tells a client its new geometry; size (0,0) means "do not
// resize". Emits surface-reconfigured.
func (c *Coordinator) Reconfigure(id event.SurfaceID, size image.Point, state StateFlags) {
	c.mu.Lock()
	s, ok := c.surfaces[id]
	if !ok {
		c.mu.Unlock()
		return
	}
	if size != (image.Point{}) {
		s.DesiredSize = size
	}
	s.State = state
	c.mu.Unlock()
	c.emit(event.SurfaceReconfigured{Surface: id})
}

// --- focusing ---

// GetKeyboardFocus returns the currently keyboard-focused surface id.
func (c *Coordinator) GetKeyboardFocus() event.SurfaceID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.keyboardFocus
}

// SetKeyboardFocus changes the keyboard-focused surface id and emits
// keyboard-focus-changed carrying both the old and new id.
func (c *Coordinator) SetKeyboardFocus(id event.SurfaceID) {
	c.mu.Lock()
	old := c.keyboardFocus
	c.keyboardFocus = id
	c.mu.Unlock()
	if old != id {
		c.emit(event.KeyboardFocusChanged{Old: old, New: id})
	}
}

// GetPointerFocus returns the currently pointer-focused surface id plus
// its surface-local position.
func (c *Coordinator) GetPointerFocus() (event.SurfaceID, image.Point) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pointerFocus, c.pointerLocal
}

// SetPointerFocus changes the pointer-focused surface id and local
// position, emitting pointer-focus-changed on an id transition.
func (c *Coordinator) SetPointerFocus(id event.SurfaceID, local image.Point) {
	c.mu.Lock()
	old := c.pointerFocus
	c.pointerFocus = id
	c.pointerLocal = local
	c.mu.Unlock()
	if old != id {
		c.emit(event.PointerFocusChanged{Old: old, New: id, Position: local})
	}
}

// --- memory management ---

// CreatePoolFromMapped creates a pool owning a foreign-fd mapping.
func (c *Coordinator) CreatePoolFromMapped(fd int, size int) (event.PoolID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextPoolID
	pool, err := memory.NewFromMappedFd(id, fd, size)
	if err != nil {
		return 0, err
	}
	c.nextPoolID++
	c.pools[id] = pool
	return id, nil
}

// CreatePoolFromBuffer creates a non-owning pool over a local buffer.
func (c *Coordinator) CreatePoolFromBuffer(buf []byte) event.PoolID {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextPoolID
	c.nextPoolID++
	c.pools[id] = memory.NewFromBuffer(id, buf)
	return id
}

// DestroyPool requests destruction of the pool, honored lazily if views
// still reference it (spec §5).
func (c *Coordinator) DestroyPool(id event.PoolID) error {
	const op = "coordinator.DestroyPool"
	c.mu.Lock()
	defer c.mu.Unlock()
	pool, ok := c.pools[id]
	if !ok {
		return errs.Newf(op, errs.InvalidArgument, "unknown pool %d", id)
	}
	destroyedNow, err := pool.RequestDestroy()
	if err != nil {
		return err
	}
	if destroyedNow {
		delete(c.pools, id)
	}
	return nil
}

// ReplacePool re-maps an existing pool for a client resize.
func (c *Coordinator) ReplacePool(id event.PoolID, fd int, size int) error {
	const op = "coordinator.ReplacePool"
	c.mu.Lock()
	defer c.mu.Unlock()
	pool, ok := c.pools[id]
	if !ok {
		return errs.Newf(op, errs.InvalidArgument, "unknown pool %d", id)
	}
	return pool.Replace(fd, size)
}

// CreateView creates a memory view into pool.
func (c *Coordinator) CreateView(poolID event.PoolID, format memory.PixelFormat, offset, width, height, stride int) (event.ViewID, error) {
	const op = "coordinator.CreateView"
	c.mu.Lock()
	defer c.mu.Unlock()
	pool, ok := c.pools[poolID]
	if !ok {
		return 0, errs.Newf(op, errs.InvalidArgument, "unknown pool %d", poolID)
	}
	id := c.nextViewID
	v, err := memory.NewView(id, pool, format, offset, width, height, stride)
	if err != nil {
		return 0, err
	}
	c.nextViewID++
	c.views[id] = v
	return id, nil
}

// DestroyView releases the view's reference on its pool.
func (c *Coordinator) DestroyView(id event.ViewID) error {
	const op = "coordinator.DestroyView"
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.views[id]
	if !ok {
		return errs.Newf(op, errs.InvalidArgument, "unknown view %d", id)
	}
	destroyedNow, err := v.Destroy()
	if err != nil {
		return err
	}
	delete(c.views, id)
	if destroyedNow {
		delete(c.pools, v.Pool.ID)
	}
	return nil
}

// --- hardware graphics ---

// CreateEGLImage imports a GEM-name-backed hardware image.
func (c *Coordinator) CreateEGLImage(attrs memory.EGLAttrs) (event.ImageID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextImageID
	img, err := memory.NewEGLImage(id, attrs)
	if err != nil {
		return 0, err
	}
	c.nextImageID++
	c.images[id] = img
	return id, nil
}

// ImportDmabuf imports a dmabuf-backed hardware image.
func (c *Coordinator) ImportDmabuf(attrs memory.DmabufAttrs) (event.ImageID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextImageID
	img, err := memory.ImportDmabuf(id, attrs)
	if err != nil {
		return 0, err
	}
	c.nextImageID++
	c.images[id] = img
	return id, nil
}

// DestroyHWImage drops a hardware image handle.
func (c *Coordinator) DestroyHWImage(id event.ImageID) error {
	const op = "coordinator.DestroyHWImage"
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.images[id]; !ok {
		return errs.Newf(op, errs.InvalidArgument, "unknown image %d", id)
	}
	delete(c.images, id)
	return nil
}

// HWAccelAvailable reports whether a graphics-manager implementation has
// been injected (SetHWAccelAvailable).
func (c *Coordinator) HWAccelAvailable() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hwAccelAvailable
}

// SetHWAccelAvailable injects whether a graphics-manager implementation is
// available; called once during startup by whatever driver layer backs
// hardware image creation (out of scope here — see spec §1 "concrete
// output drivers").
func (c *Coordinator) SetHWAccelAvailable(available bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hwAccelAvailable = available
}

// --- screenshooting ---

// RequestScreenshot emits take-screenshot for the given display.
func (c *Coordinator) RequestScreenshot(display event.DisplayID) {
	c.emit(event.TakeScreenshot{Display: display})
}

// SetScreenshotBuffer is the producer side: a display loop parks its
// drawn frame here after a take-screenshot request.
func (c *Coordinator) SetScreenshotBuffer(display event.DisplayID, img image.Image) {
	c.mu.Lock()
	c.screenshotBuffer[display] = img
	c.mu.Unlock()
	c.emit(event.ScreenshotDone{})
}

// TakeScreenshotBuffer is the consumer side: retrieves and clears the
// parked buffer for display, if any.
func (c *Coordinator) TakeScreenshotBuffer(display event.DisplayID) (image.Image, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	img, ok := c.screenshotBuffer[display]
	if ok {
		delete(c.screenshotBuffer, display)
	}
	return img, ok
}

// --- state publishing ---

// Emit fans an arbitrary payload out on the signaler.
func (c *Coordinator) Emit(p event.Payload) { c.emit(p) }

// Notify schedules a refresh (spec §4.2 "notify").
func (c *Coordinator) Notify() { c.emit(event.Notify{}) }

// Suspend announces that the server is suspending.
func (c *Coordinator) Suspend() { c.emit(event.Suspend{}) }

// WakeUp announces that the server has resumed from suspend.
func (c *Coordinator) WakeUp() { c.emit(event.WakeUp{}) }

// PublishOutput emits output-found for a newly discovered output.
func (c *Coordinator) PublishOutput(info event.OutputInfo) {
	c.emit(event.OutputFound{Output: info})
}

// EmitVerticalBlank emits vertical-blank(display).
func (c *Coordinator) EmitVerticalBlank(display event.DisplayID) {
	c.emit(event.VerticalBlank{Display: display})
}

// EmitPageFlip emits page-flip(display).
func (c *Coordinator) EmitPageFlip(display event.DisplayID) {
	c.emit(event.PageFlip{Display: display})
}
