// interfaces.go: public interfaces for Xanthos
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

import "github.com/agilira/go-timecache"

// Stats provides a snapshot of map activity counters.
type Stats struct {
	// Hits is the number of Get calls that found a live entry
	Hits uint64

	// Misses is the number of Get calls that found nothing
	Misses uint64

	// Sets is the number of successful Put/PutIfAbsent/Replace installs
	Sets uint64

	// Deletes is the number of removals requested by callers
	Deletes uint64

	// Evictions is the number of entries dropped by the eviction policy
	Evictions uint64

	// Size is the current number of entries in the map
	Size int

	// WeightedSize is the combined weight of entries as of the last drain
	WeightedSize int64

	// Capacity is the configured weight budget
	Capacity int64
}

// HitRatio returns the hit ratio as a percentage (0-100).
// Returns 0.0 if no Get operations have been performed yet.
func (s Stats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// Logger defines a minimal logging interface with zero overhead.
// Implementations should use structured logging and be allocation-free.
type Logger interface {
	// Debug logs a debug message with optional key-value pairs.
	Debug(msg string, keyvals ...interface{})

	// Info logs an info message with optional key-value pairs.
	Info(msg string, keyvals ...interface{})

	// Warn logs a warning message with optional key-value pairs.
	Warn(msg string, keyvals ...interface{})

	// Error logs an error message with optional key-value pairs.
	Error(msg string, keyvals ...interface{})
}

// NoOpLogger is a logger that does nothing. Used as default to avoid nil checks.
type NoOpLogger struct{}

// Debug does nothing (no-op implementation).
func (NoOpLogger) Debug(msg string, keyvals ...interface{}) {}

// Info does nothing (no-op implementation).
func (NoOpLogger) Info(msg string, keyvals ...interface{}) {}

// Warn does nothing (no-op implementation).
func (NoOpLogger) Warn(msg string, keyvals ...interface{}) {}

// Error does nothing (no-op implementation).
func (NoOpLogger) Error(msg string, keyvals ...interface{}) {}

// TimeProvider provides current time with caching for performance.
// This interface allows injecting optimized time implementations.
type TimeProvider interface {
	// Now returns the current time in nanoseconds since epoch.
	// This method must be very fast and allocation-free.
	Now() int64
}

// systemTimeProvider is the default time provider using go-timecache.
// This avoids a time.Now() syscall on every instrumented operation.
type systemTimeProvider struct{}

func (t *systemTimeProvider) Now() int64 {
	return timecache.CachedTimeNano()
}

// MetricsCollector defines an interface for collecting map operation metrics.
// Implementations can send metrics to Prometheus, DataDog, StatsD, or other
// monitoring systems. Designed for zero overhead when unset.
//
// Thread-safety: all methods must be safe for concurrent use.
type MetricsCollector interface {
	// RecordGet records a Get operation with its latency and hit/miss result.
	RecordGet(latencyNs int64, hit bool)

	// RecordSet records a Put/Replace operation with its latency.
	RecordSet(latencyNs int64)

	// RecordDelete records a Remove operation with its latency.
	RecordDelete(latencyNs int64)

	// RecordEviction records an eviction event.
	RecordEviction()
}

// NoOpMetricsCollector is a metrics collector that does nothing.
// Used as default to avoid nil checks and ensure zero overhead.
type NoOpMetricsCollector struct{}

// RecordGet does nothing. Inlined by compiler.
func (NoOpMetricsCollector) RecordGet(latencyNs int64, hit bool) {}

// RecordSet does nothing. Inlined by compiler.
func (NoOpMetricsCollector) RecordSet(latencyNs int64) {}

// RecordDelete does nothing. Inlined by compiler.
func (NoOpMetricsCollector) RecordDelete(latencyNs int64) {}

// RecordEviction does nothing. Inlined by compiler.
func (NoOpMetricsCollector) RecordEviction() {}
