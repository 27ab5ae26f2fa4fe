package dispatcher

import (
	"github.com/wlcore/compositor/event"
)

// Module is a unit of work running in exactly one goroutine, communicating
// only through a Signaler (spec §4.1). Modules do not share memory.
type Module interface {
	// Initialize returns the set of signal kinds this module wants
	// delivered to Execute. Called once, before the first Execute.
	Initialize() []event.Kind
	// Execute is called once per delivered signal.
	Execute(p event.Payload)
	// Finalize is called exactly once, at orderly shutdown.
	Finalize()
}

// Run drives m's worker loop against sig until a terminate control
// command is received, then calls m.Finalize and returns. Callers run Run
// in its own goroutine (and typically pin it with runtime.LockOSThread,
// per spec §5's "each driving one cooperative event loop" on its own OS
// thread).
func Run(sig *Signaler, m Module) {
	kinds := m.Initialize()
	recv := sig.Subscribe(kinds...)
	defer m.Finalize()
	for {
		p, ok := recv.Recv()
		if !ok {
			return
		}
		m.Execute(p)
	}
}
