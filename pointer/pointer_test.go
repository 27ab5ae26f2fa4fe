package pointer

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wlcore/compositor/event"
	"github.com/wlcore/compositor/timing"
)

func TestMoveByAccumulatesGlobalPosition(t *testing.T) {
	p := New(timing.NewClock())
	p.MoveBy(image.Pt(10, 5))
	p.MoveBy(image.Pt(-2, 3))
	assert.Equal(t, image.Pt(8, 8), p.Global)
}

func TestDeltaFromAbsoluteRequiresPriorReport(t *testing.T) {
	p := New(timing.NewClock())
	_, ok := p.DeltaFromAbsolute(10, 10, true, true)
	assert.False(t, ok)

	p.SetLastAbsolute(10, 10, true, true)
	delta, ok := p.DeltaFromAbsolute(15, 12, true, true)
	require.True(t, ok)
	assert.Equal(t, image.Pt(5, 2), delta)
}

func TestResetPositionClearsLastAbsolute(t *testing.T) {
	p := New(timing.NewClock())
	p.SetLastAbsolute(10, 10, true, true)
	p.ResetPosition()
	_, ok := p.DeltaFromAbsolute(1, 1, true, true)
	assert.False(t, ok)
}

func TestCastToDisplayStaysOnCurrentIfStillInside(t *testing.T) {
	p := New(timing.NewClock())
	areas := map[event.DisplayID]image.Rectangle{
		1: image.Rect(0, 0, 100, 100),
		2: image.Rect(100, 0, 300, 200),
	}
	p.Global = image.Pt(50, 50)
	got := p.CastToDisplay(areas, 1)
	assert.Equal(t, event.DisplayID(1), got)
}

func TestCastToDisplaySwitchesWhenPositionEntersAnotherDisplay(t *testing.T) {
	p := New(timing.NewClock())
	areas := map[event.DisplayID]image.Rectangle{
		1: image.Rect(0, 0, 100, 100),
		2: image.Rect(100, 0, 300, 200),
	}
	p.Global = image.Pt(150, 50)
	got := p.CastToDisplay(areas, 1)
	assert.Equal(t, event.DisplayID(2), got)
}

func TestCastToDisplaySnapsToBoundaryWhenNoDisplayContainsPosition(t *testing.T) {
	p := New(timing.NewClock())
	areas := map[event.DisplayID]image.Rectangle{
		1: image.Rect(0, 0, 100, 100),
	}
	p.Global = image.Pt(-10, 50)
	got := p.CastToDisplay(areas, 1)
	assert.Equal(t, event.DisplayID(1), got)
	assert.Equal(t, 0, p.Global.X)
}
