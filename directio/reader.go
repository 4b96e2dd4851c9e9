package directio

import (
	"errors"
	"io"
	"sync"

	"github.com/hupe1980/nativeio"
)

// Reader reads a file with direct I/O through an aligned block buffer.
//
// ReadAt is safe for concurrent use; Read and Seek share a cursor and are not.
// The size is captured at Open.
type Reader struct {
	h    *nativeio.Handle
	size int64

	mu       sync.Mutex
	buf      *nativeio.AlignedBuffer
	data     []byte
	bufStart int64 // file offset of data[0]
	bufLen   int   // valid bytes in data, 0 when empty
	closed   bool

	pos int64
}

// Open opens path read-only and returns a Reader buffering bufSize bytes,
// rounded up to the page size.
func Open(fs *nativeio.FS, path string, bufSize int) (*Reader, error) {
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}

	h, err := fs.OpenDirect(path, true)
	if err != nil {
		return nil, err
	}
	size, err := h.Size()
	if err != nil {
		return nil, errors.Join(err, h.Close())
	}
	buf, err := fs.AllocAligned(bufSize)
	if err != nil {
		return nil, errors.Join(err, h.Close())
	}

	return &Reader{
		h:    h,
		size: size,
		buf:  buf,
		data: buf.Bytes(),
	}, nil
}

// Size returns the file size at open time.
func (r *Reader) Size() int64 {
	return r.size
}

// Path returns the file path.
func (r *Reader) Path() string {
	return r.h.Path()
}

// ReadAt implements io.ReaderAt.
func (r *Reader) ReadAt(p []byte, off int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.readAt(p, off)
}

func (r *Reader) readAt(p []byte, off int64) (int, error) {
	if r.closed {
		return 0, &nativeio.Error{Op: "read", Path: r.h.Path(), Kind: nativeio.KindInvalidHandle}
	}
	if off < 0 {
		return 0, &nativeio.Error{Op: "read", Path: r.h.Path(), Kind: nativeio.KindInvalidArgument}
	}

	n := 0
	for n < len(p) {
		cur := off + int64(n)
		if cur >= r.size {
			return n, io.EOF
		}
		if cur < r.bufStart || cur >= r.bufStart+int64(r.bufLen) {
			if err := r.fill(cur); err != nil {
				return n, err
			}
		}
		n += copy(p[n:], r.data[cur-r.bufStart:r.bufLen])
	}
	return n, nil
}

// fill loads the aligned block containing off.
func (r *Reader) fill(off int64) error {
	start := off &^ int64(nativeio.PageSize()-1)
	n, err := r.h.ReadAt(r.data, start)
	if err != nil && !errors.Is(err, io.EOF) {
		r.bufLen = 0
		return err
	}
	r.bufStart = start
	r.bufLen = n
	if off >= start+int64(n) {
		// File shrank since Open.
		return io.ErrUnexpectedEOF
	}
	return nil
}

// Read implements io.Reader.
func (r *Reader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, err := r.readAt(p, r.pos)
	r.pos += int64(n)
	if errors.Is(err, io.EOF) && n > 0 {
		err = nil
	}
	return n, err
}

// Seek implements io.Seeker.
func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = r.pos + offset
	case io.SeekEnd:
		abs = r.size + offset
	default:
		return 0, &nativeio.Error{Op: "seek", Path: r.h.Path(), Kind: nativeio.KindInvalidArgument}
	}
	if abs < 0 {
		return 0, &nativeio.Error{Op: "seek", Path: r.h.Path(), Kind: nativeio.KindInvalidArgument}
	}
	r.pos = abs
	return abs, nil
}

// Close releases the descriptor and buffer. Closing twice is a no-op.
func (r *Reader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	r.data = nil
	return errors.Join(r.h.Close(), r.buf.Free())
}
