package store

import (
	"errors"
	"io"
	"os"
)

// ErrNotFound is returned when a file does not exist.
// It satisfies errors.Is(err, os.ErrNotExist).
var ErrNotFound = os.ErrNotExist

// ErrClosed is returned by Mappable.Bytes after the input is closed.
var ErrClosed = errors.New("store: input closed")

// Input is a read-only file.
type Input interface {
	io.ReaderAt
	io.Closer
	// Size returns the size of the file in bytes.
	Size() int64
}

// Mappable is implemented by inputs backed by a memory mapping.
type Mappable interface {
	// Bytes returns the mapped file. The slice is valid until the input is
	// closed and must not be written to.
	Bytes() ([]byte, error)
}

// Output is a file being written sequentially.
type Output interface {
	io.WriteCloser
	// Offset returns the number of bytes written.
	Offset() int64
	// Checksum returns the CRC-32 (IEEE) of the bytes written.
	Checksum() uint32
}
