// Package sys is the narrow syscall adapter underneath nativeio.
//
// Every OS-facing call the module makes (open, close, fstat, pread, pwrite,
// ftruncate, posix_fadvise, mmap, munmap, madvise) goes through the
// [Syscalls] interface. The platform-specific constants the callers need
// (open flags, advice values) live here as well, so the rest of the module is
// free of build tags.
//
// # Implementations
//
//   - [Default]: the native implementation (x/sys/unix on Linux, an
//     always-failing stub elsewhere)
//   - [Faulty]: test utility that wraps another implementation, counts calls
//     and injects errors per operation
//
// # Design Notes
//
// Memory regions are passed as address/length pairs rather than byte slices.
// Callers own the address; this package never keeps a reference to it.
//
// No method takes a context.Context: each call is a single blocking syscall
// that cannot be interrupted from user space.
package sys
