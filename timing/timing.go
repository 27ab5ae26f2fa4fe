// Package timing provides the small time primitives shared by every other
// package: a monotonic instant type and millisecond stamps for wire events.
package timing

import "time"

// Clock hands out instants relative to a single reference point, so that
// event timestamps (e.g. surface-frame callbacks) are stable across the
// life of the process regardless of wall-clock adjustments.
type Clock struct {
	start time.Time
}

// NewClock returns a Clock referenced to the current time.
func NewClock() Clock {
	return Clock{start: time.Now()}
}

// Now returns the elapsed time since the clock was created.
func (c Clock) Now() time.Duration {
	return time.Since(c.start)
}

// Millis returns the elapsed time since the clock was created, in
// milliseconds, as used by surface-frame and input event timestamps.
func (c Clock) Millis() uint32 {
	return uint32(c.Now() / time.Millisecond)
}

// MillisAt converts an absolute duration since the clock's reference point
// into the millisecond stamp format used on the wire.
func MillisAt(d time.Duration) uint32 {
	return uint32(d / time.Millisecond)
}
