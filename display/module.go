// Module wraps a Display as a dispatcher.Module, driving its redraw loop
// off the signal bus (spec §4.6, §4.1) rather than requiring its owner to
// poll RedrawNeeded/PageFlipScheduled by hand.
package display

import (
	"github.com/rs/zerolog"

	"github.com/wlcore/compositor/coordinator"
	"github.com/wlcore/compositor/event"
)

// SurfaceSource supplies the flattened draw list and overlay entries for
// one output at redraw time; *exhibitor.Exhibitor satisfies it.
type SurfaceSource interface {
	RendererEntries(displayID event.DisplayID) []coordinator.RendererEntry
	CursorEntry() *coordinator.RendererEntry
	BackgroundEntry(displayID event.DisplayID) *coordinator.RendererEntry
}

// Module drives one Display's redraw loop from the bus: a notify signal
// triggers RequestRedraw with a freshly flattened surface list, a
// page-flip signal clears the pending flag and immediately redraws again
// if one was owed meanwhile, and a wake-up reopens the backend.
type Module struct {
	d   *Display
	src SurfaceSource
	log zerolog.Logger
}

// NewModule builds a Module driving d, pulling its surface list from src.
func NewModule(d *Display, src SurfaceSource, log zerolog.Logger) *Module {
	return &Module{d: d, src: src, log: log.With().Uint64("display", uint64(d.ID)).Logger()}
}

func (m *Module) Initialize() []event.Kind {
	return []event.Kind{event.KindNotify, event.KindPageFlip, event.KindWakeUp, event.KindSuspend, event.KindTakeScreenshot}
}

func (m *Module) redraw() {
	surfaces := m.src.RendererEntries(m.d.ID)
	if err := m.d.RequestRedraw(surfaces, m.src.CursorEntry(), m.src.BackgroundEntry(m.d.ID)); err != nil {
		m.log.Error().Err(err).Msg("redraw failed")
	}
}

func (m *Module) Execute(p event.Payload) {
	switch e := p.(type) {
	case event.Notify:
		m.redraw()
	case event.PageFlip:
		if e.Display != m.d.ID {
			return
		}
		if m.d.OnPageFlip() {
			m.redraw()
		}
	case event.WakeUp:
		if err := m.d.OnWakeUp(); err != nil {
			m.log.Error().Err(err).Msg("wake-up reopen failed")
			return
		}
		m.redraw()
	case event.Suspend:
	case event.TakeScreenshot:
		if e.Display != m.d.ID {
			return
		}
		m.d.RequestScreenshot()
		m.redraw()
	}
}

func (m *Module) Finalize() {}
