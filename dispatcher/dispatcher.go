// Package dispatcher implements the readiness multiplexer (Dispatcher) and
// the typed publish/subscribe bus (Signaler) described in spec §4.1 and
// §5. The poll(2)-plus-self-pipe idiom mirrors gio's own event pump in
// app/internal/window/os_x11.go, generalized from "X11 fd + wakeup pipe"
// to "N registered handler fds + wakeup pipe".
//
//go:build linux

package dispatcher

import (
	"fmt"
	"sync"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

// Readiness is a bitset of the conditions a Handler can be notified about.
// Hangup is always implicitly delivered, matching spec §4.1.
type Readiness uint8

const (
	Readable Readiness = 1 << iota
	Writable
	Hangup
)

// Handler is registered with a Dispatcher to be notified when its fd
// becomes ready for one of the requested Readiness kinds.
type Handler interface {
	Fd() int
	ProcessEvent(kinds Readiness)
}

// HandlerID identifies a registered Handler so it can later be removed.
type HandlerID uint32

type registration struct {
	id      HandlerID
	handler Handler
	kinds   Readiness
}

// Dispatcher multiplexes readiness across file descriptors on a single
// thread and hands off readiness notifications synchronously to the
// registered Handler. It runs in exactly one goroutine for its lifetime
// (spec §5: "dispatcher thread").
type Dispatcher struct {
	mu     sync.Mutex
	regs   map[HandlerID]*registration
	nextID HandlerID

	stopped atomic.Bool
	// wake is a self-pipe used to break out of Poll when handlers change
	// or Stop is called, the same notify-pipe idiom gio uses.
	wake [2]int
}

// New creates a Dispatcher. The returned Dispatcher owns its wakeup pipe;
// RunUntilStopped does not close it, so the pipe stays open after the loop
// returns.
func New() (*Dispatcher, error) {
	d := &Dispatcher{regs: make(map[HandlerID]*registration)}
	pipe := make([]int, 2)
	if err := unix.Pipe2(pipe, unix.O_NONBLOCK|unix.O_CLOEXEC); err != nil {
		return nil, fmt.Errorf("dispatcher.New: pipe2: %w", err)
	}
	d.wake[0], d.wake[1] = pipe[0], pipe[1]
	return d, nil
}

// AddHandler registers handler for the given readiness kinds and returns
// an id that can later be passed to RemoveHandler.
func (d *Dispatcher) AddHandler(h Handler, kinds Readiness) HandlerID {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.nextID++
	id := d.nextID
	d.regs[id] = &registration{id: id, handler: h, kinds: kinds}
	d.poke()
	return id
}

// RemoveHandler unregisters a previously added handler. It is a no-op if
// the id is unknown (already removed).
func (d *Dispatcher) RemoveHandler(id HandlerID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.regs, id)
	d.poke()
}

// poke wakes a blocked Poll call so it re-reads the handler set. Must be
// called with d.mu held.
func (d *Dispatcher) poke() {
	_, err := unix.Write(d.wake[1], []byte{0})
	if err != nil && err != unix.EAGAIN {
		// The self-pipe is non-blocking and best-effort: a lost wakeup
		// only delays the registration change by one poll timeout.
		_ = err
	}
}

// Stop requests that RunUntilStopped return as soon as it next wakes.
// Safe to call from any goroutine.
func (d *Dispatcher) Stop() {
	d.stopped.Store(true)
	d.mu.Lock()
	d.poke()
	d.mu.Unlock()
}

// BlockFatalSignals blocks the interrupt, terminate, and quit signals on
// the calling OS thread, per spec §5 ("fatal signal numbers ... blocked on
// every worker thread and handled in one place"). It must be called from
// the goroutine that will run RunUntilStopped, pinned with
// runtime.LockOSThread by the caller. SIGABRT is not blocked.
// SIGSEGV is deliberately not blocked:
// it is synchronous and blocking it would only turn a crash into an
// infinite fault loop; catching it is the province of the out-of-scope
// signal-housekeeping subsystem (spec §1).
func BlockFatalSignals() error {
	set := &unix.Sigset_t{}
	for _, sig := range []unix.Signal{unix.SIGINT, unix.SIGTERM, unix.SIGQUIT} {
		addSignal(set, sig)
	}
	return unix.PthreadSigmask(unix.SIG_BLOCK, set, nil)
}

// RunUntilStopped blocks, servicing readiness on every registered handler,
// until Stop is called. It returns nil when stopped cleanly.
func (d *Dispatcher) RunUntilStopped() error {
	const wakeTimeoutMs = 1000 // poll with a short timeout so Stop is observed promptly (spec §5 "Timeouts")
	for !d.stopped.Load() {
		d.mu.Lock()
		pollfds := make([]unix.PollFd, 0, len(d.regs)+1)
		order := make([]*registration, 0, len(d.regs))
		for _, r := range d.regs {
			var events int16
			if r.kinds&Readable != 0 {
				events |= unix.POLLIN
			}
			if r.kinds&Writable != 0 {
				events |= unix.POLLOUT
			}
			pollfds = append(pollfds, unix.PollFd{Fd: int32(r.handler.Fd()), Events: events})
			order = append(order, r)
		}
		wakeIdx := len(pollfds)
		pollfds = append(pollfds, unix.PollFd{Fd: int32(d.wake[0]), Events: unix.POLLIN})
		d.mu.Unlock()

		_, err := unix.Poll(pollfds, wakeTimeoutMs)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return fmt.Errorf("dispatcher.RunUntilStopped: poll: %w", err)
		}

		if pollfds[wakeIdx].Revents != 0 {
			drainWakePipe(d.wake[0])
		}
		for i, pfd := range pollfds[:wakeIdx] {
			if pfd.Revents == 0 {
				continue
			}
			var kinds Readiness
			if pfd.Revents&unix.POLLIN != 0 {
				kinds |= Readable
			}
			if pfd.Revents&unix.POLLOUT != 0 {
				kinds |= Writable
			}
			if pfd.Revents&(unix.POLLHUP|unix.POLLERR) != 0 {
				kinds |= Hangup
			}
			if kinds != 0 {
				order[i].handler.ProcessEvent(kinds)
			}
		}
	}
	return nil
}

func drainWakePipe(fd int) {
	var buf [64]byte
	for {
		n, err := unix.Read(fd, buf[:])
		if n <= 0 || err != nil {
			return
		}
	}
}

// addSignal sets sig's bit in a Linux Sigset_t, which is a flat array of
// 64-bit words; signal numbers are 1-based.
func addSignal(set *unix.Sigset_t, sig unix.Signal) {
	word := (sig - 1) / 64
	bit := uint((sig - 1) % 64)
	if int(word) < len(set.Val) {
		set.Val[word] |= 1 << bit
	}
}
