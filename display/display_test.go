package display

import (
	"image"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wlcore/compositor/coordinator"
	"github.com/wlcore/compositor/dispatcher"
	"github.com/wlcore/compositor/event"
	"github.com/wlcore/compositor/timing"
)

type fakeDriver struct {
	drawCalls   int
	reopenCalls int
	drawErr     error
}

func (f *fakeDriver) Draw(surfaces []coordinator.RendererEntry, cursor, background *coordinator.RendererEntry) error {
	f.drawCalls++
	return f.drawErr
}

func (f *fakeDriver) Reopen() error {
	f.reopenCalls++
	return nil
}

func newTestDisplay(t *testing.T) (*Display, *fakeDriver, *dispatcher.Signaler) {
	t.Helper()
	sig := dispatcher.NewSignaler()
	coord := coordinator.New(sig, timing.NewClock(), zerolog.Nop())
	drv := &fakeDriver{}
	d := New(1, drv, coord, func() uint32 { return 42 })
	return d, drv, sig
}

func TestRequestRedrawDrawsAndSchedulesPageFlip(t *testing.T) {
	d, drv, sig := newTestDisplay(t)
	rx := sig.Subscribe(event.KindSurfaceFrame)

	sid := event.SurfaceID(1)
	require.NoError(t, d.RequestRedraw([]coordinator.RendererEntry{{Surface: sid}}, nil, nil))

	assert.Equal(t, 1, drv.drawCalls)
	assert.True(t, d.PageFlipScheduled())
	assert.False(t, d.RedrawNeeded())

	p, ok := rx.Recv()
	require.True(t, ok)
	assert.Equal(t, event.SurfaceFrame{Surface: sid, AtMs: 42}, p)
}

func TestRequestRedrawWhilePageFlipPendingOnlyRecordsNeed(t *testing.T) {
	d, drv, _ := newTestDisplay(t)
	require.NoError(t, d.RequestRedraw(nil, nil, nil))
	assert.True(t, d.PageFlipScheduled())

	require.NoError(t, d.RequestRedraw(nil, nil, nil))
	assert.Equal(t, 1, drv.drawCalls, "second redraw should be deferred, not drawn")
	assert.True(t, d.RedrawNeeded())
}

func TestOnPageFlipReportsRedrawOwed(t *testing.T) {
	d, _, _ := newTestDisplay(t)
	require.NoError(t, d.RequestRedraw(nil, nil, nil))
	require.NoError(t, d.RequestRedraw(nil, nil, nil)) // sets redrawNeeded

	owed := d.OnPageFlip()
	assert.True(t, owed)
	assert.False(t, d.PageFlipScheduled())
}

func TestOnWakeUpReopensAndMarksRedrawNeeded(t *testing.T) {
	d, drv, _ := newTestDisplay(t)
	require.NoError(t, d.OnWakeUp())
	assert.Equal(t, 1, drv.reopenCalls)
	assert.True(t, d.RedrawNeeded())
}

type capturingDriver struct {
	fakeDriver
	frame image.Image
}

func (c *capturingDriver) CaptureFrame() (image.Image, error) { return c.frame, nil }

func TestRequestScreenshotParksCapturedFrameOnNextRedraw(t *testing.T) {
	sig := dispatcher.NewSignaler()
	coord := coordinator.New(sig, timing.NewClock(), zerolog.Nop())
	frame := image.NewRGBA(image.Rect(0, 0, 2, 2))
	drv := &capturingDriver{frame: frame}
	d := New(1, drv, coord, func() uint32 { return 0 })

	d.RequestScreenshot()
	require.NoError(t, d.RequestRedraw(nil, nil, nil))

	got, ok := coord.TakeScreenshotBuffer(1)
	require.True(t, ok)
	assert.Same(t, frame, got)
}

func TestRequestScreenshotNoOpWithoutFrameCapturer(t *testing.T) {
	d, _, _ := newTestDisplay(t)
	d.RequestScreenshot()
	require.NoError(t, d.RequestRedraw(nil, nil, nil))
	assert.False(t, d.RedrawNeeded())
}
