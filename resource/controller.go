package resource

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// ErrMemoryLimitExceeded is returned when a mapping would exceed the mapped-bytes budget.
var ErrMemoryLimitExceeded = errors.New("mapped bytes limit exceeded")

// Config holds resource limits.
type Config struct {
	// MaxMappedBytes is the hard limit for bytes held by live mappings.
	// If 0, no hard limit is enforced (only tracking).
	MaxMappedBytes int64 `mapstructure:"max_mapped_bytes"`

	// MaxBackgroundWorkers is the maximum number of concurrent background jobs.
	// If 0, defaults to 1.
	MaxBackgroundWorkers int64 `mapstructure:"max_background_workers"`

	// IOLimitBytesPerSec is the maximum throughput for throttled IO.
	// If 0, unlimited.
	IOLimitBytesPerSec int64 `mapstructure:"io_limit_bytes_per_sec"`
}

// Controller manages process-wide resources.
type Controller struct {
	cfg Config

	mappedSem  *semaphore.Weighted // nil if unlimited
	mappedUsed atomic.Int64

	bgSem *semaphore.Weighted

	ioLimiter *rate.Limiter
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	if cfg.MaxBackgroundWorkers <= 0 {
		cfg.MaxBackgroundWorkers = 1
	}

	c := &Controller{
		cfg:   cfg,
		bgSem: semaphore.NewWeighted(cfg.MaxBackgroundWorkers),
	}

	if cfg.MaxMappedBytes > 0 {
		c.mappedSem = semaphore.NewWeighted(cfg.MaxMappedBytes)
	}

	if cfg.IOLimitBytesPerSec > 0 {
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), int(cfg.IOLimitBytesPerSec))
	}

	return c
}

// ReserveMapped reserves address space for a mapping of the given size.
// Returns ErrMemoryLimitExceeded if the limit would be exceeded.
// Non-blocking: mapping never waits for another mapping to be released.
func (c *Controller) ReserveMapped(bytes int64) error {
	if c == nil || bytes <= 0 {
		return nil
	}

	if c.mappedSem != nil {
		if !c.mappedSem.TryAcquire(bytes) {
			return ErrMemoryLimitExceeded
		}
	}

	c.mappedUsed.Add(bytes)
	return nil
}

// ReleaseMapped returns a reservation made with ReserveMapped.
func (c *Controller) ReleaseMapped(bytes int64) {
	if c == nil || bytes <= 0 {
		return
	}

	if c.mappedSem != nil {
		c.mappedSem.Release(bytes)
	}
	c.mappedUsed.Add(-bytes)
}

// MappedBytes returns the bytes currently reserved by live mappings.
func (c *Controller) MappedBytes() int64 {
	if c == nil {
		return 0
	}
	return c.mappedUsed.Load()
}

// MappedLimit returns the configured mapped-bytes limit (0 if unlimited).
func (c *Controller) MappedLimit() int64 {
	if c == nil {
		return 0
	}
	return c.cfg.MaxMappedBytes
}

// AcquireBackground reserves a background worker slot.
// Blocks if all slots are busy.
func (c *Controller) AcquireBackground(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.bgSem.Acquire(ctx, 1)
}

// TryAcquireBackground reserves a background worker slot without blocking.
func (c *Controller) TryAcquireBackground() bool {
	if c == nil {
		return true
	}
	return c.bgSem.TryAcquire(1)
}

// ReleaseBackground releases a background worker slot.
func (c *Controller) ReleaseBackground() {
	if c == nil {
		return
	}
	c.bgSem.Release(1)
}

// AcquireIO waits until the IO limit allows the specified number of bytes.
// Requests larger than the bucket are paid for in bucket-sized installments.
func (c *Controller) AcquireIO(ctx context.Context, bytes int) error {
	if c == nil || c.ioLimiter == nil {
		return nil
	}
	burst := c.ioLimiter.Burst()
	for bytes > 0 {
		n := min(bytes, burst)
		if err := c.ioLimiter.WaitN(ctx, n); err != nil {
			return err
		}
		bytes -= n
	}
	return nil
}

// TryAcquireIO attempts to acquire IO tokens without blocking.
func (c *Controller) TryAcquireIO(bytes int) bool {
	if c == nil || c.ioLimiter == nil {
		return true
	}
	return c.ioLimiter.AllowN(time.Now(), bytes)
}
