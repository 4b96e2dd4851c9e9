//go:build linux

package prom

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hupe1980/nativeio"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_WithFS(t *testing.T) {
	c, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "f")
	require.NoError(t, os.WriteFile(path, make([]byte, 10000), 0o600))

	fs := nativeio.New(nativeio.WithMetricsCollector(c))
	m, err := fs.MapReadOnly(path)
	require.NoError(t, err)
	assert.Equal(t, float64(10000), testutil.ToFloat64(c.mappedBytes))

	require.NoError(t, m.Advise(0, m.Len(), nativeio.MemWillNeed))
	require.NoError(t, m.Release())
	assert.Zero(t, testutil.ToFloat64(c.mappedBytes))
	assert.Zero(t, testutil.ToFloat64(c.liveMaps))
}
