package prom

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(reg)
	require.NoError(t, err)

	boom := errors.New("boom")
	c.RecordOpen(true, time.Millisecond, nil)
	c.RecordOpen(false, time.Millisecond, boom)
	c.RecordMap(4096, time.Millisecond, nil)
	c.RecordMap(8192, time.Millisecond, nil)
	c.RecordMap(0, time.Millisecond, boom)
	c.RecordRelease(4096, nil)
	c.RecordAdvise("memory", time.Microsecond, nil)
	c.RecordAdvise("file", time.Microsecond, boom)
	c.RecordClose(boom)

	assert.Equal(t, float64(8192), testutil.ToFloat64(c.mappedBytes))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.liveMaps))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.opens.WithLabelValues("direct")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.opens.WithLabelValues("cached")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.errors.WithLabelValues("map")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.errors.WithLabelValues("file_advise")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.errors.WithLabelValues("close")))
	assert.Equal(t, 6, testutil.CollectAndCount(c.opLatency))
}

func TestNew_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)

	_, err = New(reg)
	assert.Error(t, err)
}
