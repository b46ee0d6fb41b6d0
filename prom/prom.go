// Package prom exports multi-buffer metrics to Prometheus.
package prom

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/multibuffer"
)

// Collector implements multibuffer.MetricsCollector with Prometheus
// metrics.
type Collector struct {
	opLatency *prometheus.HistogramVec
	ranges    prometheus.Counter
	excerpts  prometheus.Gauge
	buffers   *prometheus.CounterVec
	dropped   prometheus.Counter
}

var _ multibuffer.MetricsCollector = (*Collector)(nil)

// NewCollector creates a Collector and registers its metrics with reg.
// A nil reg uses the default registerer.
func NewCollector(reg prometheus.Registerer, namespace string) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_latency_seconds",
			Help:      "Latency of multi-buffer operations",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}, []string{"op"}),
		ranges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inserted_ranges_total",
			Help:      "Total ranges passed to InsertExcerpts",
		}),
		excerpts: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "excerpts",
			Help:      "Number of excerpts after the last insert",
		}),
		buffers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "synced_buffers_total",
			Help:      "Buffers whose changes were applied by a sync",
		}, []string{"change"}),
		dropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_excerpts_total",
			Help:      "Excerpts removed because edits emptied them",
		}),
	}

	reg.MustRegister(c.opLatency, c.ranges, c.excerpts, c.buffers, c.dropped)
	return c
}

// RecordInsert implements multibuffer.MetricsCollector.
func (c *Collector) RecordInsert(ranges, excerpts int, d time.Duration) {
	c.opLatency.WithLabelValues("insert").Observe(d.Seconds())
	c.ranges.Add(float64(ranges))
	c.excerpts.Set(float64(excerpts))
}

// RecordSync implements multibuffer.MetricsCollector.
func (c *Collector) RecordSync(edited, renamed int, d time.Duration) {
	c.opLatency.WithLabelValues("sync").Observe(d.Seconds())
	c.buffers.WithLabelValues("edited").Add(float64(edited))
	c.buffers.WithLabelValues("renamed").Add(float64(renamed))
}

// RecordDropped implements multibuffer.MetricsCollector.
func (c *Collector) RecordDropped(n int) {
	c.dropped.Add(float64(n))
}
