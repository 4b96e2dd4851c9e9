package nativeio

import (
	"context"

	"github.com/hupe1980/nativeio/internal/fdtrack"
	"github.com/hupe1980/nativeio/internal/platform"
	"github.com/hupe1980/nativeio/internal/sys"
	"github.com/hupe1980/nativeio/resource"
)

// FS issues native file operations and owns their shared configuration:
// the syscall adapter, logger, metrics, the optional resource controller and
// the ledger of live descriptors.
//
// An FS is safe for concurrent use. The handles and mappings it returns are
// not; see Handle and Mapping.
type FS struct {
	sys                sys.Syscalls
	logger             *Logger
	metrics            MetricsCollector
	resources          *resource.Controller
	tracker            *fdtrack.Tracker
	pageSize           int
	dropCacheOnRelease bool
}

// New creates an FS.
func New(optFns ...Option) *FS {
	o := applyOptions(optFns)
	return &FS{
		sys:                o.sys,
		logger:             o.logger,
		metrics:            o.metricsCollector,
		resources:          o.resources,
		tracker:            fdtrack.New(),
		pageSize:           platform.PageSize(),
		dropCacheOnRelease: o.dropCacheOnRelease,
	}
}

// Default is the FS used by the package-level functions.
var Default = New()

// Supported reports whether native I/O is available on this platform.
// When false, every operation fails with KindIO wrapping errors.ErrUnsupported.
func Supported() bool {
	return sys.Supported
}

// PageSize returns the platform's memory page size. It is queried once and
// cached for the lifetime of the process.
func PageSize() int {
	return platform.PageSize()
}

// LiveDescriptors returns the descriptors currently owned by open handles of
// this FS, in ascending order.
func (fs *FS) LiveDescriptors() []int {
	return fs.tracker.Snapshot()
}

// Resources returns the resource controller, or nil if none is configured.
func (fs *FS) Resources() *resource.Controller {
	return fs.resources
}

// Logger returns the configured logger.
func (fs *FS) Logger() *Logger {
	return fs.logger
}

// OpenDirect opens path for direct I/O using Default.
func OpenDirect(path string, readOnly bool) (*Handle, error) {
	return Default.OpenDirect(path, readOnly)
}

// MapReadOnly maps path into memory using Default.
func MapReadOnly(path string) (*Mapping, error) {
	return Default.MapReadOnly(path)
}

// Fadvise issues file-level advice for a range of h.
func Fadvise(h *Handle, offset, length int64, advice FileAdvice) error {
	return h.Advise(offset, length, advice)
}

// AllocAligned allocates a page-aligned buffer using Default.
func AllocAligned(size int) (*AlignedBuffer, error) {
	return Default.AllocAligned(size)
}

// The core has no cancellation; logging still takes a context.
var bg = context.Background()
