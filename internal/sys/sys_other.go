//go:build !linux

package sys

import (
	"errors"
	"unsafe"
)

// Supported reports whether the native implementation is functional.
const Supported = false

// Open flags. O_DIRECT and O_NOATIME have no portable equivalent.
const (
	FlagsDirectReadOnly  = 0
	FlagsDirectReadWrite = 0
	FlagsMapReadOnly     = 0
)

// Advice values mirror the Linux numbering so advice tables stay total.
const (
	FadvNormal     = 0
	FadvRandom     = 1
	FadvSequential = 2
	FadvWillNeed   = 3
	FadvDontNeed   = 4
	FadvNoReuse    = 5

	MadvNormal     = 0
	MadvRandom     = 1
	MadvSequential = 2
	MadvWillNeed   = 3
	MadvDontNeed   = 4
)

var errUnsupported = errors.ErrUnsupported

type native struct{}

func (native) Open(string, int, uint32) (int, error)  { return -1, errUnsupported }
func (native) Close(int) error                        { return errUnsupported }
func (native) Fstat(int) (int64, error)               { return 0, errUnsupported }
func (native) Pread(int, []byte, int64) (int, error)  { return 0, errUnsupported }
func (native) Pwrite(int, []byte, int64) (int, error) { return 0, errUnsupported }
func (native) Ftruncate(int, int64) error             { return errUnsupported }
func (native) Fadvise(int, int64, int64, int) error   { return errUnsupported }
func (native) Mmap(int, uintptr) (unsafe.Pointer, error) {
	return nil, errUnsupported
}

func (native) MmapAnon(uintptr) (unsafe.Pointer, error) {
	return nil, errUnsupported
}

func (native) Munmap(unsafe.Pointer, uintptr) error       { return errUnsupported }
func (native) Madvise(unsafe.Pointer, uintptr, int) error { return errUnsupported }
