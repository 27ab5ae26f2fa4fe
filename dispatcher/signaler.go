package dispatcher

import (
	"sync"

	"github.com/wlcore/compositor/event"
)

// subscriberBuffer is the per-receiver channel depth. It only needs to
// absorb a burst between two schedule points of the receiving module;
// modules are expected to drain promptly (spec §5 "Suspension points").
const subscriberBuffer = 256

// envelope is what actually travels down a subscriber channel: either a
// payload, or the terminate control command (spec §4.1, §5).
type envelope struct {
	terminate bool
	payload   event.Payload
}

// Receiver is the channel-shaped handle a module reads from. It is
// returned by Signaler.Subscribe.
type Receiver struct {
	ch <-chan envelope
}

// Recv blocks for the next delivered payload. ok is false once a
// terminate control command has been received; the caller's worker loop
// must exit without calling Recv again.
func (r Receiver) Recv() (p event.Payload, ok bool) {
	e, open := <-r.ch
	if !open || e.terminate {
		return nil, false
	}
	return e.payload, true
}

// Chan exposes the raw channel for callers that want to select on it
// alongside other sources (e.g. a module with its own timers).
func (r Receiver) Chan() <-chan envelope { return r.ch }

// Signaler is the typed publish/subscribe bus (spec §4.1). A Receiver
// registers for zero or more Kinds; Emit fans out a clone of the payload
// to every receiver currently subscribed to that payload's Kind.
type Signaler struct {
	mu          sync.RWMutex
	subscribers map[event.Kind][]chan envelope
	all         []chan envelope // every live subscriber channel, for Terminate
}

// NewSignaler creates an empty bus.
func NewSignaler() *Signaler {
	return &Signaler{subscribers: make(map[event.Kind][]chan envelope)}
}

// Subscribe registers a new Receiver for the given signal kinds. Passing
// no kinds is valid: the receiver will only ever see a terminate command.
func (s *Signaler) Subscribe(kinds ...event.Kind) Receiver {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan envelope, subscriberBuffer)
	for _, k := range kinds {
		s.subscribers[k] = append(s.subscribers[k], ch)
	}
	s.all = append(s.all, ch)
	return Receiver{ch: ch}
}

// Emit fans a clone of p out to every receiver subscribed to p.Kind(). Per
// spec §5, delivery order to a given receiver matches emission order
// because each receiver has its own ordered channel; Emit never blocks
// under a caller-held lock beyond this call, and it is the caller's
// responsibility (per spec §4.2) not to call Emit while holding the
// coordinator's lock for longer than this single call.
func (s *Signaler) Emit(p event.Payload) {
	s.mu.RLock()
	chans := s.subscribers[p.Kind()]
	// Copy the slice header under the lock, then send outside it, so a
	// concurrent Subscribe doesn't race with the range below.
	snapshot := make([]chan envelope, len(chans))
	copy(snapshot, chans)
	s.mu.RUnlock()

	env := envelope{payload: event.Clone(p)}
	for _, ch := range snapshot {
		ch <- env
	}
}

// Terminate broadcasts the terminate control command to every subscriber,
// regardless of the kinds they registered for. Every worker loop reading
// from a Receiver exits after finishing its current callback (spec §5).
func (s *Signaler) Terminate() {
	s.mu.RLock()
	snapshot := make([]chan envelope, len(s.all))
	copy(snapshot, s.all)
	s.mu.RUnlock()

	for _, ch := range snapshot {
		ch <- envelope{terminate: true}
	}
}
