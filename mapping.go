package nativeio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sync/atomic"
	"time"
	"unsafe"

	"github.com/hupe1980/nativeio/internal/platform"
	"github.com/hupe1980/nativeio/internal/sys"
)

const (
	mappingLive uint32 = iota + 1
	mappingReleased
)

// Mapping is a read-only, shared memory mapping of a whole file.
//
// The length is the file size at map time and never changes; growth of the
// file after mapping is not visible. A Mapping owns its Handle: releasing
// the mapping closes the descriptor. Advice and reads may run concurrently,
// but not concurrently with Release.
type Mapping struct {
	fs       *FS
	h        *Handle
	addr     unsafe.Pointer
	length   int64
	reserved int64
	state    atomic.Uint32
}

// MapReadOnly maps the whole file at path read-only and shared.
//
// A zero-length file yields a Mapping with Addr 0 and Len 0 that still owns
// an open descriptor. Open and stat failures are KindIO; a failed mmap or an
// exhausted mapped-bytes budget is KindOutOfMemory. No descriptor or
// reservation survives a failure.
func (fs *FS) MapReadOnly(path string) (*Mapping, error) {
	start := time.Now()
	m, err := fs.mapReadOnly(path)
	d := time.Since(start)

	var length int64
	if m != nil {
		length = m.length
	}
	fs.metrics.RecordMap(length, d, err)
	fs.logger.LogMap(bg, path, length, d, err)
	return m, err
}

func (fs *FS) mapReadOnly(path string) (_ *Mapping, err error) {
	h, err := fs.open("open", path, sys.FlagsMapReadOnly, 0, false, true)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			if cerr := h.Close(); cerr != nil {
				err = errors.Join(err, cerr)
			}
		}
	}()

	size, err := fs.sys.Fstat(h.fd)
	if err != nil {
		return nil, ioError("fstat", path, err)
	}
	if size == 0 {
		return fs.newMapping(h, nil, 0, 0), nil
	}
	if size < 0 || uint64(size) > math.MaxInt {
		return nil, oomError("mmap", path, fmt.Errorf("file size %d exceeds address space", size))
	}

	if err := fs.resources.ReserveMapped(size); err != nil {
		return nil, oomError("mmap", path, err)
	}
	addr, err := fs.sys.Mmap(h.fd, uintptr(size))
	if err != nil {
		fs.resources.ReleaseMapped(size)
		return nil, oomError("mmap", path, err)
	}
	return fs.newMapping(h, addr, size, size), nil
}

func (fs *FS) newMapping(h *Handle, addr unsafe.Pointer, length, reserved int64) *Mapping {
	m := &Mapping{
		fs:       fs,
		h:        h,
		addr:     addr,
		length:   length,
		reserved: reserved,
	}
	m.state.Store(mappingLive)
	return m
}

func (m *Mapping) live() bool {
	return m != nil && m.state.Load() == mappingLive
}

// Addr returns the base address, or 0 for an empty or released mapping.
func (m *Mapping) Addr() uintptr {
	if !m.live() {
		return 0
	}
	return uintptr(m.addr)
}

// Len returns the mapped length in bytes, or 0 once released.
func (m *Mapping) Len() int64 {
	if !m.live() {
		return 0
	}
	return m.length
}

// Handle returns the descriptor owned by the mapping. It must not be closed
// directly; Release closes it.
func (m *Mapping) Handle() *Handle {
	if m == nil {
		return nil
	}
	return m.h
}

// Path returns the path of the mapped file.
func (m *Mapping) Path() string {
	return m.Handle().Path()
}

// IsLive reports whether the mapping has not been released.
func (m *Mapping) IsLive() bool {
	return m.live()
}

// Bytes returns the mapped memory. The slice is read-only; writing to it
// faults. It is valid only until Release and is nil for empty mappings.
func (m *Mapping) Bytes() []byte {
	if !m.live() {
		return nil
	}
	return bytesAt(m.addr, int(m.length))
}

// ReadAt implements io.ReaderAt over the mapped memory.
func (m *Mapping) ReadAt(p []byte, off int64) (int, error) {
	if !m.live() {
		return 0, invalidHandle("read", m.Path())
	}
	if off < 0 {
		return 0, invalidArgument("read", m.Path(), "negative offset %d", off)
	}
	if off >= m.length {
		return 0, io.EOF
	}
	n := copy(p, m.Bytes()[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Advise issues memory-level advice for [offset, offset+length) of the
// mapping. The range is widened to whole pages: the start is rounded down
// and the end rounded up to the page size.
//
// Unknown advice codes fail with KindInvalidArgument without reaching the
// OS. Advice on an empty mapping is accepted and does nothing.
func (m *Mapping) Advise(offset, length int64, advice MemoryAdvice) error {
	const op = "madvise"
	if !m.live() {
		return invalidHandle(op, m.Path())
	}
	path := m.h.path
	if offset < 0 || length < 0 || length > m.length-offset {
		return invalidArgument(op, path, "range [offset=%d length=%d] outside mapping of %d bytes", offset, length, m.length)
	}
	osAdvice, ok := advice.sysValue()
	if !ok {
		return invalidArgument(op, path, "unsupported memory advice %d", int(advice))
	}
	if m.addr == nil {
		return nil
	}

	addr, size := m.adviseRange(offset, length)
	start := time.Now()
	err := m.fs.sys.Madvise(addr, size, osAdvice)
	if err != nil {
		err = ioError(op, path, err)
	}
	m.fs.metrics.RecordAdvise("memory", time.Since(start), err)
	m.fs.logger.LogAdvise(bg, "memory", path, advice.String(), offset, length, err)
	return err
}

// adviseRange returns the page-aligned span covering [offset, offset+length).
func (m *Mapping) adviseRange(offset, length int64) (unsafe.Pointer, uintptr) {
	ps := uintptr(m.fs.pageSize)
	base := uintptr(m.addr)
	lo := base + uintptr(offset)
	start := platform.AlignDown(lo, ps)
	end := platform.AlignUp(lo+uintptr(length), ps)
	return unsafe.Add(m.addr, int(start)-int(base)), end - start
}

// preloadSink keeps the page touches in Preload from being optimized away.
var preloadSink atomic.Uint32

// Preload asks the kernel to read the whole mapping ahead and then touches
// one byte per page so the pages are resident when Preload returns.
func (m *Mapping) Preload() error {
	if err := m.Advise(0, m.Len(), MemWillNeed); err != nil {
		return err
	}
	data := m.Bytes()
	var sum byte
	for i := 0; i < len(data); i += m.fs.pageSize {
		sum += data[i]
	}
	preloadSink.Store(uint32(sum))
	return nil
}

// Release unmaps the memory and closes the owned descriptor. After Release
// every other method fails with KindInvalidHandle or returns zero values.
// Errors from unmapping and closing are joined; the mapping counts as
// released either way. Releasing twice is a no-op.
func (m *Mapping) Release() error {
	if m == nil || !m.state.CompareAndSwap(mappingLive, mappingReleased) {
		return nil
	}

	var errs []error
	if m.addr != nil {
		if err := m.fs.sys.Munmap(m.addr, uintptr(m.length)); err != nil {
			errs = append(errs, ioError("munmap", m.h.path, err))
		}
	}
	if m.fs.dropCacheOnRelease {
		// Logged by Advise; a failed hint does not fail the release.
		_ = m.h.Advise(0, 0, FileDontNeed)
	}
	if err := m.h.Close(); err != nil {
		errs = append(errs, err)
	}
	m.fs.resources.ReleaseMapped(m.reserved)

	err := errors.Join(errs...)
	m.fs.metrics.RecordRelease(m.length, err)
	m.fs.logger.LogRelease(bg, m.h.path, m.length, err)
	return err
}

// Close implements io.Closer. It is equivalent to Release.
func (m *Mapping) Close() error {
	return m.Release()
}
