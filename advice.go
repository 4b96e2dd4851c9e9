package nativeio

import (
	"fmt"
	"strings"

	"github.com/hupe1980/nativeio/internal/sys"
)

// FileAdvice is a hint about future access to a byte range of an open file
// (posix_fadvise). The numeric codes are fixed.
type FileAdvice int

const (
	// FileNormal removes any previous advice.
	FileNormal FileAdvice = iota
	// FileRandom disables readahead.
	FileRandom
	// FileSequential increases readahead. It does not evict pages on Linux.
	FileSequential
	// FileWillNeed starts reading the range into the page cache.
	FileWillNeed
	// FileDontNeed drops the range from the page cache. Only whole pages
	// inside the range are dropped, so offset and length should be
	// page-aligned for full effect.
	FileDontNeed
	// FileNoReuse marks the range as accessed once. It is a no-op on Linux
	// and still reports success.
	FileNoReuse
)

var fileAdvice = [...]struct {
	name string
	sys  int
}{
	FileNormal:     {"normal", sys.FadvNormal},
	FileRandom:     {"random", sys.FadvRandom},
	FileSequential: {"sequential", sys.FadvSequential},
	FileWillNeed:   {"willneed", sys.FadvWillNeed},
	FileDontNeed:   {"dontneed", sys.FadvDontNeed},
	FileNoReuse:    {"noreuse", sys.FadvNoReuse},
}

// Valid reports whether a is a known advice code.
func (a FileAdvice) Valid() bool {
	return a >= 0 && int(a) < len(fileAdvice)
}

func (a FileAdvice) String() string {
	if !a.Valid() {
		return fmt.Sprintf("FileAdvice(%d)", int(a))
	}
	return fileAdvice[a].name
}

func (a FileAdvice) sysValue() (int, bool) {
	if !a.Valid() {
		return 0, false
	}
	return fileAdvice[a].sys, true
}

// ParseFileAdvice parses a FileAdvice name such as "dontneed".
func ParseFileAdvice(s string) (FileAdvice, error) {
	name := normalizeAdviceName(s)
	for i, a := range fileAdvice {
		if a.name == name {
			return FileAdvice(i), nil
		}
	}
	return 0, invalidArgument("parse", "", "unknown file advice %q", s)
}

// MemoryAdvice is a hint about future access to a range of a mapping
// (madvise). The numeric codes are fixed.
type MemoryAdvice int

const (
	// MemNormal removes any previous advice.
	MemNormal MemoryAdvice = iota
	// MemSequential expects sequential access. It does not evict pages on Linux.
	MemSequential
	// MemRandom disables readahead on page faults.
	MemRandom
	// MemWillNeed starts faulting the range in.
	MemWillNeed
	// MemDontNeed lets the kernel drop the range's pages from this mapping.
	MemDontNeed

	// memAdviceUnsupported is a retired code. It is rejected like any unknown code.
	memAdviceUnsupported
)

var memoryAdvice = [...]struct {
	name string
	sys  int
}{
	MemNormal:     {"normal", sys.MadvNormal},
	MemSequential: {"sequential", sys.MadvSequential},
	MemRandom:     {"random", sys.MadvRandom},
	MemWillNeed:   {"willneed", sys.MadvWillNeed},
	MemDontNeed:   {"dontneed", sys.MadvDontNeed},
}

// Valid reports whether a is a supported advice code.
func (a MemoryAdvice) Valid() bool {
	return a >= 0 && int(a) < len(memoryAdvice)
}

func (a MemoryAdvice) String() string {
	if !a.Valid() {
		return fmt.Sprintf("MemoryAdvice(%d)", int(a))
	}
	return memoryAdvice[a].name
}

func (a MemoryAdvice) sysValue() (int, bool) {
	if !a.Valid() {
		return 0, false
	}
	return memoryAdvice[a].sys, true
}

// ParseMemoryAdvice parses a MemoryAdvice name such as "random".
func ParseMemoryAdvice(s string) (MemoryAdvice, error) {
	name := normalizeAdviceName(s)
	for i, a := range memoryAdvice {
		if a.name == name {
			return MemoryAdvice(i), nil
		}
	}
	return 0, invalidArgument("parse", "", "unknown memory advice %q", s)
}

// normalizeAdviceName accepts "DONTNEED", "dont-need", "dont_need" and "dontneed".
func normalizeAdviceName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", "", "_", "").Replace(s)
}
