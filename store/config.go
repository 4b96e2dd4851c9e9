package store

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
)

// ForceIO overrides the per-context strategy selection.
type ForceIO string

const (
	// ForceNone selects the strategy from the IOContext.
	ForceNone ForceIO = "none"
	// ForceDirect uses direct I/O for every input and output.
	ForceDirect ForceIO = "direct"
	// ForceMmap maps every input. Outputs are unaffected.
	ForceMmap ForceIO = "mmap"
)

const (
	// DefaultDirectBufferSize is the default direct I/O buffer size.
	DefaultDirectBufferSize = 128 << 10
	// DefaultMinBytesDirect is the default size from which direct I/O is used.
	DefaultMinBytesDirect = 10 << 20
)

// Config configures a Directory.
type Config struct {
	// MmapEnabled maps inputs opened for cached reads.
	MmapEnabled bool `mapstructure:"mmap_enabled"`
	// MmapReadAhead keeps kernel readahead for mapped inputs. When false,
	// mapped inputs are advised MemRandom.
	MmapReadAhead bool `mapstructure:"mmap_read_ahead"`

	DirectReadEnabled     bool `mapstructure:"direct_read_enabled"`
	DirectWriteEnabled    bool `mapstructure:"direct_write_enabled"`
	DirectReadBufferSize  int  `mapstructure:"direct_read_buffer_size"`
	DirectWriteBufferSize int  `mapstructure:"direct_write_buffer_size"`

	// MinBytesDirect is the file or merge size from which direct I/O is used.
	MinBytesDirect int64 `mapstructure:"min_bytes_direct"`

	// MaxBytesPreload bounds preloading of mapped inputs: when non-zero,
	// only files of at least this size are preloaded.
	MaxBytesPreload int64 `mapstructure:"max_bytes_preload"`

	// PreloadExtensions lists file extensions (without the dot) whose
	// mapped inputs are preloaded. "*" matches every file.
	PreloadExtensions []string `mapstructure:"preload_extensions"`

	ForceIO ForceIO `mapstructure:"force_io"`

	// DropCacheOnClose drops a mapped file's page cache when its input is closed.
	DropCacheOnClose bool `mapstructure:"drop_cache_on_close"`

	// IOLimitBytesPerSec throttles merge traffic. 0 means unlimited.
	IOLimitBytesPerSec int64 `mapstructure:"io_limit_bytes_per_sec"`
	// MaxMappedBytes bounds the bytes held by mapped inputs. 0 means unlimited.
	MaxMappedBytes int64 `mapstructure:"max_mapped_bytes"`
	// WarmConcurrency bounds the files preloaded at once by Warm.
	WarmConcurrency int64 `mapstructure:"warm_concurrency"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		MmapEnabled:           true,
		DirectReadBufferSize:  DefaultDirectBufferSize,
		DirectWriteBufferSize: DefaultDirectBufferSize,
		MinBytesDirect:        DefaultMinBytesDirect,
		ForceIO:               ForceNone,
		WarmConcurrency:       4,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	switch c.ForceIO {
	case "", ForceNone, ForceDirect, ForceMmap:
	default:
		return fmt.Errorf("store: invalid force_io %q (want none, direct or mmap)", c.ForceIO)
	}
	if c.DirectReadBufferSize < 0 || c.DirectWriteBufferSize < 0 {
		return fmt.Errorf("store: direct buffer sizes must not be negative")
	}
	if c.MinBytesDirect < 0 || c.MaxBytesPreload < 0 {
		return fmt.Errorf("store: byte thresholds must not be negative")
	}
	if c.IOLimitBytesPerSec < 0 || c.MaxMappedBytes < 0 || c.WarmConcurrency < 0 {
		return fmt.Errorf("store: resource limits must not be negative")
	}
	return nil
}

// shouldPreload reports whether a mapped input of the given size is preloaded.
func (c Config) shouldPreload(name string, size int64) bool {
	ext := extension(name)
	if !slices.Contains(c.PreloadExtensions, "*") && !slices.Contains(c.PreloadExtensions, ext) {
		return false
	}
	return c.MaxBytesPreload == 0 || c.MaxBytesPreload <= size
}

// extension returns the file extension without the dot.
func extension(name string) string {
	return strings.TrimPrefix(filepath.Ext(name), ".")
}
