// Package nativeio exposes OS-level file I/O primitives: direct I/O file
// handles, read-only whole-file memory mappings, and range-scoped kernel
// advice (posix_fadvise and madvise).
//
// The package manages descriptors, mappings and hints only. It does no
// caching, batching or interpretation of file contents; higher layers such
// as the directio and store packages build on it.
//
// # Quick Start
//
//	h, err := nativeio.OpenDirect("/data/segment.bin", true)
//	if err != nil {
//		return err
//	}
//	defer h.Close()
//
//	m, err := nativeio.MapReadOnly("/data/segment.idx")
//	if err != nil {
//		return err
//	}
//	defer m.Release()
//
//	_ = m.Advise(0, m.Len(), nativeio.MemRandom)
//
// # Configuration
//
// The package-level functions use Default. Use New with options to attach a
// logger, a metrics collector or a resource controller:
//
//	fs := nativeio.New(
//		nativeio.WithLogger(nativeio.NewJSONLogger(slog.LevelInfo)),
//		nativeio.WithResourceController(resource.NewController(resource.Config{
//			MaxMappedBytes: 8 << 30,
//		})),
//	)
//
// # Errors
//
// Every failure is an *Error carrying a Kind. Match kinds with errors.Is and
// the sentinels (ErrIO, ErrOutOfMemory, ErrInvalidArgument,
// ErrInvalidHandle), or match the underlying errno directly:
//
//	if errors.Is(err, unix.ENOENT) { ... }
//
// # Lifetimes
//
// Handle.Close and Mapping.Release are idempotent and release their OS
// resource exactly once. Using a handle or mapping concurrently with its
// own Close or Release is not supported.
//
// Native I/O is implemented for Linux. On other platforms Supported reports
// false and every operation fails with KindIO.
package nativeio
