package fatfs

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    writeBytes prometheus.Counter
//	    readLatency prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordWrite(n int, duration time.Duration, err error) {
//	    p.writeBytes.Add(float64(n))
//	    // ... record error state, duration, etc.
//	}
type MetricsCollector interface {
	// RecordCreate is called after a file or directory was created or
	// opened. created is false when an existing file was opened.
	RecordCreate(kind Kind, created bool, err error)

	// RecordErase is called after a file or directory was removed.
	RecordErase(kind Kind, err error)

	// RecordRead is called after each File.Read. n is the number of bytes
	// returned. Reaching the end of a file is not an error.
	RecordRead(n int, duration time.Duration, err error)

	// RecordWrite is called after each File.Write.
	RecordWrite(n int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordCreate(Kind, bool, error)        {}
func (NoopMetricsCollector) RecordErase(Kind, error)               {}
func (NoopMetricsCollector) RecordRead(int, time.Duration, error)  {}
func (NoopMetricsCollector) RecordWrite(int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	FileCreates     atomic.Int64
	DirCreates      atomic.Int64
	Opens           atomic.Int64
	CreateErrors    atomic.Int64
	EraseCount      atomic.Int64
	EraseErrors     atomic.Int64
	ReadCount       atomic.Int64
	ReadBytes       atomic.Int64
	ReadErrors      atomic.Int64
	ReadTotalNanos  atomic.Int64
	WriteCount      atomic.Int64
	WriteBytes      atomic.Int64
	WriteErrors     atomic.Int64
	WriteTotalNanos atomic.Int64
}

// RecordCreate implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCreate(kind Kind, created bool, err error) {
	switch {
	case err != nil:
		b.CreateErrors.Add(1)
	case !created:
		b.Opens.Add(1)
	case kind == KindDirectory:
		b.DirCreates.Add(1)
	default:
		b.FileCreates.Add(1)
	}
}

// RecordErase implements MetricsCollector.
func (b *BasicMetricsCollector) RecordErase(kind Kind, err error) {
	b.EraseCount.Add(1)
	if err != nil {
		b.EraseErrors.Add(1)
	}
}

// RecordRead implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRead(n int, duration time.Duration, err error) {
	b.ReadCount.Add(1)
	b.ReadBytes.Add(int64(n))
	b.ReadTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.ReadErrors.Add(1)
	}
}

// RecordWrite implements MetricsCollector.
func (b *BasicMetricsCollector) RecordWrite(n int, duration time.Duration, err error) {
	b.WriteCount.Add(1)
	b.WriteBytes.Add(int64(n))
	b.WriteTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.WriteErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		FileCreates:   b.FileCreates.Load(),
		DirCreates:    b.DirCreates.Load(),
		Opens:         b.Opens.Load(),
		CreateErrors:  b.CreateErrors.Load(),
		EraseCount:    b.EraseCount.Load(),
		EraseErrors:   b.EraseErrors.Load(),
		ReadCount:     b.ReadCount.Load(),
		ReadBytes:     b.ReadBytes.Load(),
		ReadErrors:    b.ReadErrors.Load(),
		ReadAvgNanos:  avg(b.ReadTotalNanos.Load(), b.ReadCount.Load()),
		WriteCount:    b.WriteCount.Load(),
		WriteBytes:    b.WriteBytes.Load(),
		WriteErrors:   b.WriteErrors.Load(),
		WriteAvgNanos: avg(b.WriteTotalNanos.Load(), b.WriteCount.Load()),
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
	FileCreates   int64
	DirCreates    int64
	Opens         int64
	CreateErrors  int64
	EraseCount    int64
	EraseErrors   int64
	ReadCount     int64
	ReadBytes     int64
	ReadErrors    int64
	ReadAvgNanos  int64
	WriteCount    int64
	WriteBytes    int64
	WriteErrors   int64
	WriteAvgNanos int64
}
