package nativeio

import "unsafe"

// bytesAt views n bytes of memory at addr, which must come from mmap.
func bytesAt(addr unsafe.Pointer, n int) []byte {
	if addr == nil || n == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(addr), n)
}
