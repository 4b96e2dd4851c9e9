package nativeio

import (
	"math"
	"sync/atomic"
	"unsafe"

	"github.com/hupe1980/nativeio/internal/platform"
)

// AlignedBuffer is page-aligned memory backed by an anonymous private
// mapping. Its address and length satisfy direct I/O alignment.
type AlignedBuffer struct {
	fs    *FS
	addr  unsafe.Pointer
	size  int
	data  []byte
	freed atomic.Bool
}

// AllocAligned allocates at least size bytes of page-aligned, zeroed memory.
// The length is rounded up to a whole number of pages.
func (fs *FS) AllocAligned(size int) (*AlignedBuffer, error) {
	const op = "alloc"
	if size <= 0 {
		return nil, invalidArgument(op, "", "size must be positive, got %d", size)
	}
	if size > math.MaxInt-fs.pageSize+1 {
		return nil, invalidArgument(op, "", "size %d overflows page rounding", size)
	}
	n := int(platform.AlignUp(uintptr(size), uintptr(fs.pageSize)))
	addr, err := fs.sys.MmapAnon(uintptr(n))
	if err != nil {
		return nil, oomError(op, "", err)
	}
	return &AlignedBuffer{
		fs:   fs,
		addr: addr,
		size: n,
		data: bytesAt(addr, n),
	}, nil
}

// Bytes returns the buffer, or nil after Free.
func (b *AlignedBuffer) Bytes() []byte {
	if b.freed.Load() {
		return nil
	}
	return b.data
}

// Len returns the buffer length, a multiple of the page size.
func (b *AlignedBuffer) Len() int {
	return b.size
}

// Free unmaps the buffer. Freeing twice is a no-op.
func (b *AlignedBuffer) Free() error {
	if b == nil || !b.freed.CompareAndSwap(false, true) {
		return nil
	}
	b.data = nil
	if err := b.fs.sys.Munmap(b.addr, uintptr(b.size)); err != nil {
		return ioError("munmap", "", err)
	}
	return nil
}
