package store

// Usage describes why a file is opened.
type Usage int

const (
	// UsageDefault is any access not covered by the other usages.
	UsageDefault Usage = iota
	// UsageRead is repeated, cached reading such as searches.
	UsageRead
	// UsageReadOnce is a single sequential pass.
	UsageReadOnce
	// UsageMerge is bulk reading or writing while merging files.
	UsageMerge
)

func (u Usage) String() string {
	switch u {
	case UsageDefault:
		return "default"
	case UsageRead:
		return "read"
	case UsageReadOnce:
		return "read_once"
	case UsageMerge:
		return "merge"
	default:
		return "unknown"
	}
}

// IOContext accompanies every open.
type IOContext struct {
	Usage Usage
	// EstimatedBytes is the expected transfer size of a merge.
	EstimatedBytes int64
}

var (
	// ContextDefault is the zero IOContext.
	ContextDefault = IOContext{Usage: UsageDefault}
	// ContextRead is for cached reads.
	ContextRead = IOContext{Usage: UsageRead}
	// ContextReadOnce is for a single pass.
	ContextReadOnce = IOContext{Usage: UsageReadOnce}
)

// MergeContext returns the context of a merge expected to move estimatedBytes.
func MergeContext(estimatedBytes int64) IOContext {
	return IOContext{Usage: UsageMerge, EstimatedBytes: estimatedBytes}
}

// Strategy is the I/O mechanism chosen for a file.
type Strategy int

const (
	StrategyBuffered Strategy = iota
	StrategyMmap
	StrategyDirect
)

func (s Strategy) String() string {
	switch s {
	case StrategyMmap:
		return "mmap"
	case StrategyDirect:
		return "direct"
	default:
		return "buffered"
	}
}
