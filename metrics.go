package multibuffer

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; the prom
// package provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordInsert is called after each InsertExcerpts call. ranges is the
	// number of ranges passed in, excerpts the number of excerpts in the
	// index afterwards.
	RecordInsert(ranges, excerpts int, duration time.Duration)

	// RecordSync is called after each synchronization against the source
	// buffers, with the number of buffers whose content or path changed.
	RecordSync(edited, renamed int, duration time.Duration)

	// RecordDropped is called when edits collapse excerpts to empty ranges.
	RecordDropped(n int)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordInsert(int, int, time.Duration) {}
func (NoopMetricsCollector) RecordSync(int, int, time.Duration)   {}
func (NoopMetricsCollector) RecordDropped(int)                    {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	InsertCount      atomic.Int64
	InsertRanges     atomic.Int64
	InsertTotalNanos atomic.Int64
	Excerpts         atomic.Int64
	SyncCount        atomic.Int64
	SyncEdited       atomic.Int64
	SyncRenamed      atomic.Int64
	SyncTotalNanos   atomic.Int64
	Dropped          atomic.Int64
}

// RecordInsert implements MetricsCollector.
func (b *BasicMetricsCollector) RecordInsert(ranges, excerpts int, duration time.Duration) {
	b.InsertCount.Add(1)
	b.InsertRanges.Add(int64(ranges))
	b.InsertTotalNanos.Add(duration.Nanoseconds())
	b.Excerpts.Store(int64(excerpts))
}

// RecordSync implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSync(edited, renamed int, duration time.Duration) {
	b.SyncCount.Add(1)
	b.SyncEdited.Add(int64(edited))
	b.SyncRenamed.Add(int64(renamed))
	b.SyncTotalNanos.Add(duration.Nanoseconds())
}

// RecordDropped implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDropped(n int) {
	b.Dropped.Add(int64(n))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		InsertCount:    b.InsertCount.Load(),
		InsertRanges:   b.InsertRanges.Load(),
		InsertAvgNanos: avg(b.InsertTotalNanos.Load(), b.InsertCount.Load()),
		Excerpts:       b.Excerpts.Load(),
		SyncCount:      b.SyncCount.Load(),
		SyncEdited:     b.SyncEdited.Load(),
		SyncRenamed:    b.SyncRenamed.Load(),
		SyncAvgNanos:   avg(b.SyncTotalNanos.Load(), b.SyncCount.Load()),
		Dropped:        b.Dropped.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	InsertCount    int64
	InsertRanges   int64
	InsertAvgNanos int64
	Excerpts       int64
	SyncCount      int64
	SyncEdited     int64
	SyncRenamed    int64
	SyncAvgNanos   int64
	Dropped        int64
}
