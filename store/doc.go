// Package store provides a Directory of files that picks an I/O strategy per
// open: memory mapping for cached random reads, direct I/O for large
// sequential transfers such as merges, and plain buffered I/O otherwise.
//
// The strategy depends on the Config and on the IOContext passed with each
// OpenInput and CreateOutput call.
package store
