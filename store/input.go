package store

import (
	"context"
	"os"

	"github.com/hupe1980/nativeio"
	"github.com/hupe1980/nativeio/resource"
)

type mappedInput struct {
	m *nativeio.Mapping
}

func (in *mappedInput) ReadAt(p []byte, off int64) (int, error) {
	return in.m.ReadAt(p, off)
}

func (in *mappedInput) Size() int64 {
	return in.m.Len()
}

func (in *mappedInput) Bytes() ([]byte, error) {
	if !in.m.IsLive() {
		return nil, ErrClosed
	}
	return in.m.Bytes(), nil
}

func (in *mappedInput) Close() error {
	return in.m.Release()
}

// Mapping exposes the underlying mapping for advice.
func (in *mappedInput) Mapping() *nativeio.Mapping {
	return in.m
}

type bufferedInput struct {
	f    *os.File
	size int64
}

func (in *bufferedInput) ReadAt(p []byte, off int64) (int, error) {
	return in.f.ReadAt(p, off)
}

func (in *bufferedInput) Size() int64 {
	return in.size
}

func (in *bufferedInput) Close() error {
	return in.f.Close()
}

// throttledInput charges reads against the controller's IO limit.
type throttledInput struct {
	Input
	r *resource.RateLimitedReaderAt
}

func newThrottledInput(ctx context.Context, in Input, rc *resource.Controller) *throttledInput {
	return &throttledInput{
		Input: in,
		r:     resource.NewRateLimitedReaderAt(ctx, in, rc),
	}
}

func (in *throttledInput) ReadAt(p []byte, off int64) (int, error) {
	return in.r.ReadAt(p, off)
}
