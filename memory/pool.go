// Package memory implements the reference-counted memory pool / view model
// and the hardware-image handle validation described in spec §3 and the
// "Memory management" / "Hardware graphics" capability groups of §4.2.
//
// Grounded on original_source/src/qualia/memory.rs and
// cognitive/qualia/src/memory.rs; the fd-backed mapping path uses
// golang.org/x/sys/unix (Mmap/Munmap/Fstat), kept from gio's own go.mod
// where it backs app/internal/window's native buffer handling.
package memory

import (
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/wlcore/compositor/errs"
	"github.com/wlcore/compositor/event"
)

// Pool is a reference-counted window into either a foreign-mapped file
// descriptor (owning) or a borrowed raw buffer (non-owning), per spec §3.
type Pool struct {
	ID   event.PoolID
	Data []byte

	owning      bool
	fd          int
	refs        int
	destroyReqd bool
}

// NewFromMappedFd maps size bytes of fd and returns an owning Pool. The
// mapping is unmapped on the pool's last release, per spec §3.
func NewFromMappedFd(id event.PoolID, fd int, size int) (*Pool, error) {
	if size <= 0 {
		return nil, errs.New("memory.NewFromMappedFd", errs.InvalidArgument, "size must be positive")
	}
	data, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, errs.Wrap("memory.NewFromMappedFd", errs.IO, err)
	}
	return &Pool{ID: id, Data: data, owning: true, fd: fd}, nil
}

// NewFromBuffer wraps a locally allocated, caller-owned buffer in a
// non-owning Pool. The buffer is never unmapped by Release.
func NewFromBuffer(id event.PoolID, buf []byte) *Pool {
	return &Pool{ID: id, Data: buf, owning: false}
}

// Retain adds a reference, typically called when a View is created
// against this pool.
func (p *Pool) Retain() { p.refs++ }

// Release drops a reference. If destruction was requested and this was
// the last reference, the underlying mapping is torn down and true is
// returned.
func (p *Pool) Release() (destroyedNow bool, err error) {
	if p.refs > 0 {
		p.refs--
	}
	if p.refs == 0 && p.destroyReqd {
		return true, p.teardown()
	}
	return false, nil
}

// RequestDestroy marks the pool for destruction. If no view currently
// references it, the mapping is torn down immediately and destroyedNow is
// true; otherwise destruction is deferred to the last Release, per spec
// §3 ("the pool is destroyed when no memory view references it") and §4.2
// ("Explicit destruction requests are honored lazily").
func (p *Pool) RequestDestroy() (destroyedNow bool, err error) {
	p.destroyReqd = true
	if p.refs == 0 {
		return true, p.teardown()
	}
	return false, nil
}

// Replace swaps the pool's backing mapping for a client resize
// (spec §4.2 "replace-pool"). Existing views keep referencing the old
// slice header they captured; callers that need the resized contents must
// re-create their views, matching the "callers must re-read" rule in
// spec §5.
func (p *Pool) Replace(fd int, size int) error {
	if p.owning {
		if err := unix.Munmap(p.Data); err != nil {
			return errs.Wrap("memory.Pool.Replace", errs.IO, err)
		}
	}
	data, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return errs.Wrap("memory.Pool.Replace", errs.IO, err)
	}
	p.Data = data
	p.owning = true
	p.fd = fd
	return nil
}

func (p *Pool) teardown() error {
	if !p.owning || p.Data == nil {
		return nil
	}
	data := p.Data
	p.Data = nil
	if err := unix.Munmap(data); err != nil {
		return errs.Wrap("memory.Pool.teardown", errs.IO, err)
	}
	return nil
}

func (p *Pool) String() string {
	return fmt.Sprintf("Pool{id=%d owning=%v refs=%d len=%d}", p.ID, p.owning, p.refs, len(p.Data))
}
