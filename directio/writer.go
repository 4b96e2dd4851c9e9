package directio

import (
	"errors"
	"hash"

	"github.com/hupe1980/nativeio"
	"github.com/klauspost/crc32"
)

// DefaultBufferSize is used when a non-positive buffer size is requested.
const DefaultBufferSize = 128 << 10

// Writer writes a file sequentially with direct I/O.
//
// Only whole aligned blocks reach the file while writing. Close pads the
// final partial block with zeros, writes it, and truncates the file to the
// number of bytes written. A Writer is not safe for concurrent use.
type Writer struct {
	h       *nativeio.Handle
	buf     *nativeio.AlignedBuffer
	data    []byte
	pos     int   // bytes buffered
	fileOff int64 // file offset of data[0]
	crc     hash.Hash32
	closed  bool
}

// Create creates or truncates path and returns a Writer buffering bufSize
// bytes, rounded up to the page size.
func Create(fs *nativeio.FS, path string, bufSize int) (*Writer, error) {
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}

	h, err := fs.OpenDirect(path, false)
	if err != nil {
		return nil, err
	}
	if err := h.Truncate(0); err != nil {
		return nil, errors.Join(err, h.Close())
	}
	buf, err := fs.AllocAligned(bufSize)
	if err != nil {
		return nil, errors.Join(err, h.Close())
	}

	return &Writer{
		h:    h,
		buf:  buf,
		data: buf.Bytes(),
		crc:  crc32.NewIEEE(),
	}, nil
}

// Write implements io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	if w.closed {
		return 0, &nativeio.Error{Op: "write", Path: w.h.Path(), Kind: nativeio.KindInvalidHandle}
	}

	written := 0
	for len(p) > 0 {
		n := copy(w.data[w.pos:], p)
		w.crc.Write(p[:n])
		w.pos += n
		written += n
		p = p[n:]

		if w.pos == len(w.data) {
			if err := w.flush(); err != nil {
				return written, err
			}
		}
	}
	return written, nil
}

// flush writes the full buffer at the current file offset.
func (w *Writer) flush() error {
	n, err := w.h.WriteAt(w.data, w.fileOff)
	if err != nil {
		return err
	}
	w.fileOff += int64(n)
	w.pos = 0
	return nil
}

// Offset returns the number of bytes written so far.
func (w *Writer) Offset() int64 {
	return w.fileOff + int64(w.pos)
}

// Checksum returns the CRC-32 (IEEE) of the bytes written so far.
func (w *Writer) Checksum() uint32 {
	return w.crc.Sum32()
}

// Path returns the file path.
func (w *Writer) Path() string {
	return w.h.Path()
}

// Close writes the buffered tail, trims the file to Offset and releases the
// descriptor and buffer. Closing twice is a no-op.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	var errs []error
	if w.pos > 0 {
		length := w.Offset()
		block := alignUp(w.pos, nativeio.PageSize())
		clear(w.data[w.pos:block])
		if _, err := w.h.WriteAt(w.data[:block], w.fileOff); err != nil {
			errs = append(errs, err)
		} else if err := w.h.Truncate(length); err != nil {
			errs = append(errs, err)
		}
	}
	errs = append(errs, w.h.Close(), w.buf.Free())
	w.data = nil
	return errors.Join(errs...)
}

func alignUp(n, align int) int {
	return (n + align - 1) &^ (align - 1)
}
