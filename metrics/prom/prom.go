// Package prom exports nativeio metrics to Prometheus.
package prom

import (
	"time"

	"github.com/hupe1980/nativeio"
	"github.com/prometheus/client_golang/prometheus"
)

// Collector implements nativeio.MetricsCollector with Prometheus metrics.
type Collector struct {
	opLatency   *prometheus.HistogramVec
	errors      *prometheus.CounterVec
	opens       *prometheus.CounterVec
	mappedBytes prometheus.Gauge
	liveMaps    prometheus.Gauge
}

var _ nativeio.MetricsCollector = (*Collector)(nil)

// New creates a Collector and registers its metrics with reg. A nil reg
// uses prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "nativeio_operation_latency_seconds",
			Help:    "Latency of native file operations",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
		}, []string{"op", "status"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nativeio_errors_total",
			Help: "Total failed native file operations",
		}, []string{"op"}),
		opens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nativeio_opens_total",
			Help: "Total descriptor opens",
		}, []string{"mode"}),
		mappedBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "nativeio_mapped_bytes",
			Help: "Bytes held by live mappings",
		}),
		liveMaps: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "nativeio_live_mappings",
			Help: "Number of live mappings",
		}),
	}

	for _, col := range []prometheus.Collector{c.opLatency, c.errors, c.opens, c.mappedBytes, c.liveMaps} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func (c *Collector) observe(op string, d time.Duration, err error) {
	c.opLatency.WithLabelValues(op, status(err)).Observe(d.Seconds())
	if err != nil {
		c.errors.WithLabelValues(op).Inc()
	}
}

// RecordOpen implements nativeio.MetricsCollector.
func (c *Collector) RecordOpen(direct bool, d time.Duration, err error) {
	mode := "cached"
	if direct {
		mode = "direct"
	}
	c.opens.WithLabelValues(mode).Inc()
	c.observe("open", d, err)
}

// RecordClose implements nativeio.MetricsCollector.
func (c *Collector) RecordClose(err error) {
	if err != nil {
		c.errors.WithLabelValues("close").Inc()
	}
}

// RecordMap implements nativeio.MetricsCollector.
func (c *Collector) RecordMap(bytes int64, d time.Duration, err error) {
	c.observe("map", d, err)
	if err == nil {
		c.mappedBytes.Add(float64(bytes))
		c.liveMaps.Inc()
	}
}

// RecordRelease implements nativeio.MetricsCollector.
func (c *Collector) RecordRelease(bytes int64, err error) {
	c.mappedBytes.Sub(float64(bytes))
	c.liveMaps.Dec()
	if err != nil {
		c.errors.WithLabelValues("release").Inc()
	}
}

// RecordAdvise implements nativeio.MetricsCollector.
func (c *Collector) RecordAdvise(scope string, d time.Duration, err error) {
	c.observe(scope+"_advise", d, err)
}
