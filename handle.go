package nativeio

import (
	"io"
	"sync/atomic"
	"time"

	"github.com/hupe1980/nativeio/internal/sys"
)

type handleState uint32

const (
	stateInvalid handleState = iota
	stateOpen
	stateClosed
)

// Handle owns one OS file descriptor.
//
// The descriptor is closed exactly once: Close is idempotent and every other
// method fails with KindInvalidHandle after it. Reads, writes and advice may
// run concurrently with each other, but not with Close.
type Handle struct {
	fs     *FS
	path   string
	fd     int
	direct bool
	state  atomic.Uint32
}

// OpenDirect opens path for direct I/O, bypassing the page cache and without
// updating the access time.
//
// With readOnly the file must exist. Otherwise it is opened read-write and
// created with mode 0666 (before umask) if missing.
//
// Direct I/O requires buffers, offsets and lengths aligned to the device's
// logical block size; the page size from PageSize is always sufficient.
// Filesystems without O_DIRECT support (tmpfs) fail with KindIO wrapping EINVAL.
func (fs *FS) OpenDirect(path string, readOnly bool) (*Handle, error) {
	if readOnly {
		return fs.open("open", path, sys.FlagsDirectReadOnly, 0, true, readOnly)
	}
	return fs.open("open", path, sys.FlagsDirectReadWrite, 0o666, true, readOnly)
}

// Open opens path read-only through the page cache, with the same flags
// MapReadOnly uses. It serves callers that only need to issue advice or
// read without alignment constraints.
func (fs *FS) Open(path string) (*Handle, error) {
	return fs.open("open", path, sys.FlagsMapReadOnly, 0, false, true)
}

func (fs *FS) open(op, path string, flags int, perm uint32, direct, readOnly bool) (*Handle, error) {
	start := time.Now()
	fd, err := fs.sys.Open(path, flags, perm)
	d := time.Since(start)
	fs.metrics.RecordOpen(direct, d, err)
	if err != nil {
		err = ioError(op, path, err)
		fs.logger.LogOpen(bg, path, direct, readOnly, -1, d, err)
		return nil, err
	}

	h := &Handle{fs: fs, path: path, fd: fd, direct: direct}
	h.state.Store(uint32(stateOpen))
	fs.tracker.Add(fd)
	fs.logger.LogOpen(bg, path, direct, readOnly, fd, d, nil)
	return h, nil
}

// Path returns the path the handle was opened with.
func (h *Handle) Path() string {
	if h == nil {
		return ""
	}
	return h.path
}

// Direct reports whether the handle was opened for direct I/O.
func (h *Handle) Direct() bool {
	return h != nil && h.direct
}

// IsOpen reports whether the descriptor is still owned by h.
func (h *Handle) IsOpen() bool {
	return h != nil && handleState(h.state.Load()) == stateOpen
}

// Fd returns the raw descriptor. It fails with KindInvalidHandle once the
// handle is closed. The descriptor must not be closed by the caller.
func (h *Handle) Fd() (int, error) {
	return h.fdFor("fd")
}

func (h *Handle) fdFor(op string) (int, error) {
	if h == nil {
		return -1, invalidHandle(op, "")
	}
	if handleState(h.state.Load()) != stateOpen {
		return -1, invalidHandle(op, h.path)
	}
	return h.fd, nil
}

// Close releases the descriptor. Closing an already closed handle is a no-op.
func (h *Handle) Close() error {
	if h == nil || !h.state.CompareAndSwap(uint32(stateOpen), uint32(stateClosed)) {
		return nil
	}

	h.fs.tracker.Remove(h.fd)
	err := h.fs.sys.Close(h.fd)
	if err != nil {
		err = ioError("close", h.path, err)
	}
	h.fs.metrics.RecordClose(err)
	h.fs.logger.LogClose(bg, h.path, h.fd, err)
	return err
}

// ReadAt implements io.ReaderAt with pread. For direct handles p and off
// must satisfy the alignment rules described on OpenDirect.
func (h *Handle) ReadAt(p []byte, off int64) (int, error) {
	const op = "pread"
	fd, err := h.fdFor(op)
	if err != nil {
		return 0, err
	}
	if off < 0 {
		return 0, invalidArgument(op, h.path, "negative offset %d", off)
	}

	n := 0
	for n < len(p) {
		m, err := h.fs.sys.Pread(fd, p[n:], off+int64(n))
		if err != nil {
			return n, ioError(op, h.path, err)
		}
		if m == 0 {
			return n, io.EOF
		}
		n += m
		// A short direct read ends at EOF; the next offset would be unaligned.
		if h.direct && n < len(p) {
			return n, io.EOF
		}
	}
	return n, nil
}

// WriteAt implements io.WriterAt with pwrite.
func (h *Handle) WriteAt(p []byte, off int64) (int, error) {
	const op = "pwrite"
	fd, err := h.fdFor(op)
	if err != nil {
		return 0, err
	}
	if off < 0 {
		return 0, invalidArgument(op, h.path, "negative offset %d", off)
	}

	n := 0
	for n < len(p) {
		m, err := h.fs.sys.Pwrite(fd, p[n:], off+int64(n))
		if err != nil {
			return n, ioError(op, h.path, err)
		}
		if m == 0 {
			return n, ioError(op, h.path, io.ErrShortWrite)
		}
		n += m
	}
	return n, nil
}

// Truncate changes the file size.
func (h *Handle) Truncate(size int64) error {
	const op = "ftruncate"
	fd, err := h.fdFor(op)
	if err != nil {
		return err
	}
	if size < 0 {
		return invalidArgument(op, h.path, "negative size %d", size)
	}
	if err := h.fs.sys.Ftruncate(fd, size); err != nil {
		return ioError(op, h.path, err)
	}
	return nil
}

// Size returns the current file size.
func (h *Handle) Size() (int64, error) {
	const op = "fstat"
	fd, err := h.fdFor(op)
	if err != nil {
		return 0, err
	}
	size, err := h.fs.sys.Fstat(fd)
	if err != nil {
		return 0, ioError(op, h.path, err)
	}
	return size, nil
}
