package sys

import "unsafe"

// Syscalls abstracts the OS calls used by nativeio for testability.
//
// Errors are returned exactly as the OS reported them (typically a
// unix.Errno); translation into the caller-visible taxonomy happens one layer
// up.
type Syscalls interface {
	Open(path string, flags int, perm uint32) (int, error)
	Close(fd int) error
	Fstat(fd int) (size int64, err error)
	Pread(fd int, p []byte, off int64) (int, error)
	Pwrite(fd int, p []byte, off int64) (int, error)
	Ftruncate(fd int, size int64) error
	Fadvise(fd int, offset, length int64, advice int) error

	// Mmap maps length bytes of fd read-only and shared, starting at offset 0.
	Mmap(fd int, length uintptr) (addr unsafe.Pointer, err error)
	// MmapAnon maps length bytes of private, zeroed, read-write memory.
	MmapAnon(length uintptr) (addr unsafe.Pointer, err error)
	Munmap(addr unsafe.Pointer, length uintptr) error
	Madvise(addr unsafe.Pointer, length uintptr, advice int) error
}

// Default is the native implementation for the current platform.
var Default Syscalls = native{}
