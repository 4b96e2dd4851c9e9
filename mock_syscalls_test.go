package nativeio

import (
	"unsafe"

	"github.com/stretchr/testify/mock"
)

// MockSyscalls is a testify mock of sys.Syscalls.
type MockSyscalls struct {
	mock.Mock
}

func (m *MockSyscalls) Open(path string, flags int, perm uint32) (int, error) {
	args := m.Called(path, flags, perm)
	return args.Int(0), args.Error(1)
}

func (m *MockSyscalls) Close(fd int) error {
	args := m.Called(fd)
	return args.Error(0)
}

func (m *MockSyscalls) Fstat(fd int) (int64, error) {
	args := m.Called(fd)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSyscalls) Pread(fd int, p []byte, off int64) (int, error) {
	args := m.Called(fd, p, off)
	return args.Int(0), args.Error(1)
}

func (m *MockSyscalls) Pwrite(fd int, p []byte, off int64) (int, error) {
	args := m.Called(fd, p, off)
	return args.Int(0), args.Error(1)
}

func (m *MockSyscalls) Ftruncate(fd int, size int64) error {
	args := m.Called(fd, size)
	return args.Error(0)
}

func (m *MockSyscalls) Fadvise(fd int, offset, length int64, advice int) error {
	args := m.Called(fd, offset, length, advice)
	return args.Error(0)
}

func (m *MockSyscalls) Mmap(fd int, length uintptr) (unsafe.Pointer, error) {
	args := m.Called(fd, length)
	return args.Get(0).(unsafe.Pointer), args.Error(1)
}

func (m *MockSyscalls) MmapAnon(length uintptr) (unsafe.Pointer, error) {
	args := m.Called(length)
	return args.Get(0).(unsafe.Pointer), args.Error(1)
}

func (m *MockSyscalls) Munmap(addr unsafe.Pointer, length uintptr) error {
	args := m.Called(addr, length)
	return args.Error(0)
}

func (m *MockSyscalls) Madvise(addr unsafe.Pointer, length uintptr, advice int) error {
	args := m.Called(addr, length, advice)
	return args.Error(0)
}
