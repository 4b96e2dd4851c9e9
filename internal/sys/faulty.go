package sys

import (
	"fmt"
	"sync"
	"unsafe"
)

// Op names a syscall for fault injection and call accounting.
type Op string

const (
	OpOpen      Op = "open"
	OpClose     Op = "close"
	OpFstat     Op = "fstat"
	OpPread     Op = "pread"
	OpPwrite    Op = "pwrite"
	OpFtruncate Op = "ftruncate"
	OpFadvise   Op = "fadvise"
	OpMmap      Op = "mmap"
	OpMmapAnon  Op = "mmap_anon"
	OpMunmap    Op = "munmap"
	OpMadvise   Op = "madvise"
)

// Fault defines the failure injected for one operation.
type Fault struct {
	Err error
	// Remaining is the number of calls that still fail. Negative means every
	// call fails until the fault is cleared.
	Remaining int
}

// Faulty is a Syscalls wrapper that can inject errors and counts calls.
//
// Close and Munmap faults still perform the real call before reporting the
// injected error, so tests do not leak descriptors or mappings.
type Faulty struct {
	Sys Syscalls

	mu     sync.Mutex
	faults map[Op]*Fault
	calls  map[Op]int
}

// NewFaulty creates a Faulty wrapping s (or Default if nil).
func NewFaulty(s Syscalls) *Faulty {
	if s == nil {
		s = Default
	}
	return &Faulty{
		Sys:    s,
		faults: make(map[Op]*Fault),
		calls:  make(map[Op]int),
	}
}

// Inject makes every subsequent call of op fail with err.
func (f *Faulty) Inject(op Op, err error) {
	f.set(op, err, -1)
}

// InjectOnce makes the next call of op fail with err.
func (f *Faulty) InjectOnce(op Op, err error) {
	f.set(op, err, 1)
}

// Clear removes the fault registered for op.
func (f *Faulty) Clear(op Op) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.faults, op)
}

// Calls returns how many times op was invoked, including failed calls.
func (f *Faulty) Calls(op Op) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *Faulty) set(op Op, err error, n int) {
	if err == nil {
		err = fmt.Errorf("injected %s error", op)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.faults[op] = &Fault{Err: err, Remaining: n}
}

// hit records a call of op and returns the injected error, if any.
func (f *Faulty) hit(op Op) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	fault, ok := f.faults[op]
	if !ok {
		return nil
	}
	if fault.Remaining > 0 {
		fault.Remaining--
		if fault.Remaining == 0 {
			delete(f.faults, op)
		}
	}
	return fault.Err
}

func (f *Faulty) Open(path string, flags int, perm uint32) (int, error) {
	if err := f.hit(OpOpen); err != nil {
		return -1, err
	}
	return f.Sys.Open(path, flags, perm)
}

func (f *Faulty) Close(fd int) error {
	if err := f.hit(OpClose); err != nil {
		_ = f.Sys.Close(fd)
		return err
	}
	return f.Sys.Close(fd)
}

func (f *Faulty) Fstat(fd int) (int64, error) {
	if err := f.hit(OpFstat); err != nil {
		return 0, err
	}
	return f.Sys.Fstat(fd)
}

func (f *Faulty) Pread(fd int, p []byte, off int64) (int, error) {
	if err := f.hit(OpPread); err != nil {
		return 0, err
	}
	return f.Sys.Pread(fd, p, off)
}

func (f *Faulty) Pwrite(fd int, p []byte, off int64) (int, error) {
	if err := f.hit(OpPwrite); err != nil {
		return 0, err
	}
	return f.Sys.Pwrite(fd, p, off)
}

func (f *Faulty) Ftruncate(fd int, size int64) error {
	if err := f.hit(OpFtruncate); err != nil {
		return err
	}
	return f.Sys.Ftruncate(fd, size)
}

func (f *Faulty) Fadvise(fd int, offset, length int64, advice int) error {
	if err := f.hit(OpFadvise); err != nil {
		return err
	}
	return f.Sys.Fadvise(fd, offset, length, advice)
}

func (f *Faulty) Mmap(fd int, length uintptr) (unsafe.Pointer, error) {
	if err := f.hit(OpMmap); err != nil {
		return nil, err
	}
	return f.Sys.Mmap(fd, length)
}

func (f *Faulty) MmapAnon(length uintptr) (unsafe.Pointer, error) {
	if err := f.hit(OpMmapAnon); err != nil {
		return nil, err
	}
	return f.Sys.MmapAnon(length)
}

func (f *Faulty) Munmap(addr unsafe.Pointer, length uintptr) error {
	if err := f.hit(OpMunmap); err != nil {
		_ = f.Sys.Munmap(addr, length)
		return err
	}
	return f.Sys.Munmap(addr, length)
}

func (f *Faulty) Madvise(addr unsafe.Pointer, length uintptr, advice int) error {
	if err := f.hit(OpMadvise); err != nil {
		return err
	}
	return f.Sys.Madvise(addr, length, advice)
}
