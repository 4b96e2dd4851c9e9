package nativeio

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; the
// metrics/prom package provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordOpen is called after each descriptor open.
	// direct is true for direct-I/O opens, false for mapping opens.
	RecordOpen(direct bool, duration time.Duration, err error)

	// RecordClose is called after each descriptor close that reached the OS.
	RecordClose(err error)

	// RecordMap is called after each MapReadOnly. bytes is the mapped length.
	RecordMap(bytes int64, duration time.Duration, err error)

	// RecordRelease is called after each mapping teardown.
	RecordRelease(bytes int64, err error)

	// RecordAdvise is called after each advisory call that reached validation.
	// scope is "file" or "memory".
	RecordAdvise(scope string, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordOpen(bool, time.Duration, error)     {}
func (NoopMetricsCollector) RecordClose(error)                         {}
func (NoopMetricsCollector) RecordMap(int64, time.Duration, error)     {}
func (NoopMetricsCollector) RecordRelease(int64, error)                {}
func (NoopMetricsCollector) RecordAdvise(string, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and tests without external dependencies.
type BasicMetricsCollector struct {
	OpenCount     atomic.Int64
	OpenDirect    atomic.Int64
	OpenErrors    atomic.Int64
	CloseCount    atomic.Int64
	CloseErrors   atomic.Int64
	MapCount      atomic.Int64
	MapErrors     atomic.Int64
	MapTotalNanos atomic.Int64
	MappedBytes   atomic.Int64
	ReleaseCount  atomic.Int64
	ReleaseErrors atomic.Int64
	AdviseCount   atomic.Int64
	AdviseErrors  atomic.Int64
}

// RecordOpen implements MetricsCollector.
func (b *BasicMetricsCollector) RecordOpen(direct bool, _ time.Duration, err error) {
	b.OpenCount.Add(1)
	if direct {
		b.OpenDirect.Add(1)
	}
	if err != nil {
		b.OpenErrors.Add(1)
	}
}

// RecordClose implements MetricsCollector.
func (b *BasicMetricsCollector) RecordClose(err error) {
	b.CloseCount.Add(1)
	if err != nil {
		b.CloseErrors.Add(1)
	}
}

// RecordMap implements MetricsCollector.
func (b *BasicMetricsCollector) RecordMap(bytes int64, duration time.Duration, err error) {
	b.MapCount.Add(1)
	b.MapTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.MapErrors.Add(1)
		return
	}
	b.MappedBytes.Add(bytes)
}

// RecordRelease implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRelease(bytes int64, err error) {
	b.ReleaseCount.Add(1)
	b.MappedBytes.Add(-bytes)
	if err != nil {
		b.ReleaseErrors.Add(1)
	}
}

// RecordAdvise implements MetricsCollector.
func (b *BasicMetricsCollector) RecordAdvise(_ string, _ time.Duration, err error) {
	b.AdviseCount.Add(1)
	if err != nil {
		b.AdviseErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		OpenCount:     b.OpenCount.Load(),
		OpenDirect:    b.OpenDirect.Load(),
		OpenErrors:    b.OpenErrors.Load(),
		CloseCount:    b.CloseCount.Load(),
		CloseErrors:   b.CloseErrors.Load(),
		MapCount:      b.MapCount.Load(),
		MapErrors:     b.MapErrors.Load(),
		MapAvgNanos:   b.getAvgMapNanos(),
		MappedBytes:   b.MappedBytes.Load(),
		ReleaseCount:  b.ReleaseCount.Load(),
		ReleaseErrors: b.ReleaseErrors.Load(),
		AdviseCount:   b.AdviseCount.Load(),
		AdviseErrors:  b.AdviseErrors.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgMapNanos() int64 {
	count := b.MapCount.Load()
	if count == 0 {
		return 0
	}
	return b.MapTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	OpenCount     int64
	OpenDirect    int64
	OpenErrors    int64
	CloseCount    int64
	CloseErrors   int64
	MapCount      int64
	MapErrors     int64
	MapAvgNanos   int64
	MappedBytes   int64
	ReleaseCount  int64
	ReleaseErrors int64
	AdviseCount   int64
	AdviseErrors  int64
}
