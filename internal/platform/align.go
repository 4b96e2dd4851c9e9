package platform

// AlignDown rounds x down to a multiple of align by clearing its low bits.
// align must be a power of two.
func AlignDown(x, align uintptr) uintptr {
	return x &^ (align - 1)
}

// AlignUp rounds x up to a multiple of align (add, then clear the low bits).
// align must be a power of two.
func AlignUp(x, align uintptr) uintptr {
	return (x + align - 1) &^ (align - 1)
}

// IsAligned reports whether x is a multiple of align.
func IsAligned(x, align uintptr) bool {
	return x&(align-1) == 0
}

// IsPowerOfTwo reports whether n is a positive power of two.
func IsPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}
