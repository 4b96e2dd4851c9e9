package store

import (
	"bufio"
	"context"
	"errors"
	"hash"
	"os"

	"github.com/hupe1980/nativeio"
	"github.com/hupe1980/nativeio/resource"
	"github.com/klauspost/crc32"
)

type bufferedOutput struct {
	f      *os.File
	w      *bufio.Writer
	crc    hash.Hash32
	off    int64
	closed bool
}

func newBufferedOutput(f *os.File, bufSize int) *bufferedOutput {
	return &bufferedOutput{
		f:   f,
		w:   bufio.NewWriterSize(f, bufSize),
		crc: crc32.NewIEEE(),
	}
}

func (o *bufferedOutput) Write(p []byte) (int, error) {
	if o.closed {
		return 0, &nativeio.Error{Op: "write", Path: o.f.Name(), Kind: nativeio.KindInvalidHandle}
	}
	n, err := o.w.Write(p)
	o.crc.Write(p[:n])
	o.off += int64(n)
	return n, err
}

func (o *bufferedOutput) Offset() int64 {
	return o.off
}

func (o *bufferedOutput) Checksum() uint32 {
	return o.crc.Sum32()
}

func (o *bufferedOutput) Close() error {
	if o.closed {
		return nil
	}
	o.closed = true
	return errors.Join(o.w.Flush(), o.f.Close())
}

// throttledOutput charges writes against the controller's IO limit.
type throttledOutput struct {
	Output
	w *resource.RateLimitedWriter
}

func newThrottledOutput(ctx context.Context, out Output, rc *resource.Controller) *throttledOutput {
	return &throttledOutput{
		Output: out,
		w:      resource.NewRateLimitedWriter(ctx, out, rc),
	}
}

func (o *throttledOutput) Write(p []byte) (int, error) {
	return o.w.Write(p)
}
