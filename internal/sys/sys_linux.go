//go:build linux

package sys

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// Supported reports whether the native implementation is functional.
const Supported = true

// Open flags.
const (
	FlagsDirectReadOnly  = unix.O_RDONLY | unix.O_DIRECT | unix.O_NOATIME | unix.O_CLOEXEC
	FlagsDirectReadWrite = unix.O_RDWR | unix.O_CREAT | unix.O_DIRECT | unix.O_NOATIME | unix.O_CLOEXEC
	FlagsMapReadOnly     = unix.O_RDONLY | unix.O_NOATIME | unix.O_CLOEXEC
)

// posix_fadvise values.
const (
	FadvNormal     = unix.FADV_NORMAL
	FadvRandom     = unix.FADV_RANDOM
	FadvSequential = unix.FADV_SEQUENTIAL // doubles readahead, evicts nothing
	FadvWillNeed   = unix.FADV_WILLNEED
	FadvDontNeed   = unix.FADV_DONTNEED // partial pages are kept
	FadvNoReuse    = unix.FADV_NOREUSE  // no-op on Linux
)

// madvise values.
const (
	MadvNormal     = unix.MADV_NORMAL
	MadvSequential = unix.MADV_SEQUENTIAL
	MadvRandom     = unix.MADV_RANDOM
	MadvWillNeed   = unix.MADV_WILLNEED
	MadvDontNeed   = unix.MADV_DONTNEED
)

type native struct{}

func (native) Open(path string, flags int, perm uint32) (int, error) {
	return unix.Open(path, flags, perm)
}

func (native) Close(fd int) error {
	return unix.Close(fd)
}

func (native) Fstat(fd int) (int64, error) {
	var st unix.Stat_t
	if err := unix.Fstat(fd, &st); err != nil {
		return 0, err
	}
	return st.Size, nil
}

func (native) Pread(fd int, p []byte, off int64) (int, error) {
	return unix.Pread(fd, p, off)
}

func (native) Pwrite(fd int, p []byte, off int64) (int, error) {
	return unix.Pwrite(fd, p, off)
}

func (native) Ftruncate(fd int, size int64) error {
	return unix.Ftruncate(fd, size)
}

func (native) Fadvise(fd int, offset, length int64, advice int) error {
	return unix.Fadvise(fd, offset, length, advice)
}

func (native) Mmap(fd int, length uintptr) (unsafe.Pointer, error) {
	return unix.MmapPtr(fd, 0, nil, length, unix.PROT_READ, unix.MAP_SHARED)
}

func (native) MmapAnon(length uintptr) (unsafe.Pointer, error) {
	return unix.MmapPtr(-1, 0, nil, length, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
}

func (native) Munmap(addr unsafe.Pointer, length uintptr) error {
	return unix.MunmapPtr(addr, length)
}

func (native) Madvise(addr unsafe.Pointer, length uintptr, advice int) error {
	return unix.Madvise(unsafe.Slice((*byte)(addr), length), advice)
}
