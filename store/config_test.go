package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.ForceIO = "sometimes"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.MinBytesDirect = -1
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.MaxMappedBytes = -1
	assert.Error(t, cfg.Validate())
}

func TestConfig_ShouldPreload(t *testing.T) {
	tests := []struct {
		name       string
		exts       []string
		maxPreload int64
		file       string
		size       int64
		want       bool
	}{
		{"NoExtensions", nil, 0, "a.tim", 10, false},
		{"Matching", []string{"tim", "doc"}, 0, "a.tim", 10, true},
		{"NotMatching", []string{"doc"}, 0, "a.tim", 10, false},
		{"Wildcard", []string{"*"}, 0, "a.bin", 10, true},
		{"BelowThreshold", []string{"*"}, 100, "a.bin", 10, false},
		{"AtThreshold", []string{"*"}, 100, "a.bin", 100, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.PreloadExtensions = tt.exts
			cfg.MaxBytesPreload = tt.maxPreload
			assert.Equal(t, tt.want, cfg.shouldPreload(tt.file, tt.size))
		})
	}
}

func TestUsage_String(t *testing.T) {
	assert.Equal(t, "merge", UsageMerge.String())
	assert.Equal(t, "read_once", ContextReadOnce.Usage.String())
	assert.Equal(t, "direct", StrategyDirect.String())
}
