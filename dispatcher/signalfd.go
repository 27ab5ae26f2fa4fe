package dispatcher

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// SignalStop is a Handler that turns the fatal signals BlockFatalSignals
// blocked into a call to Dispatcher.Stop, so Ctrl+C and a service
// manager's SIGTERM reach RunUntilStopped instead of being silently
// swallowed (spec §5: blocked on every thread and "handled in one
// place" — this is that place).
type SignalStop struct {
	fd int
	d  *Dispatcher
}

// NewSignalStop opens a signalfd over the interrupt, terminate, and quit
// signals and registers it with d. The calling goroutine must already
// have called BlockFatalSignals, since a signal delivered to a thread
// that hasn't blocked it bypasses the signalfd entirely.
func NewSignalStop(d *Dispatcher) (*SignalStop, error) {
	set := &unix.Sigset_t{}
	for _, sig := range []unix.Signal{unix.SIGINT, unix.SIGTERM, unix.SIGQUIT} {
		addSignal(set, sig)
	}
	fd, err := unix.Signalfd(-1, set, unix.SFD_NONBLOCK|unix.SFD_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("dispatcher.NewSignalStop: signalfd: %w", err)
	}
	s := &SignalStop{fd: fd, d: d}
	d.AddHandler(s, Readable)
	return s, nil
}

func (s *SignalStop) Fd() int { return s.fd }

// ProcessEvent drains the signalfd and stops the dispatcher. It does not
// distinguish which of the three signals arrived: all three mean
// "shut down".
func (s *SignalStop) ProcessEvent(kinds Readiness) {
	var buf [128]byte
	for {
		n, err := unix.Read(s.fd, buf[:])
		if n <= 0 || err != nil {
			break
		}
	}
	s.d.Stop()
}

// Close releases the signalfd. The signals remain blocked; a second
// SignalStop can be created to resume handling them.
func (s *SignalStop) Close() error {
	return unix.Close(s.fd)
}
