// config.go: builder-style configuration for Xanthos maps
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

import "reflect"

// Builder assembles the configuration of a Map. Setters are chainable and
// never validate; Build performs all validation so that an invalid argument
// fails at configuration time instead of being silently clamped.
//
// Example:
//
//	m, err := xanthos.NewBuilder[string, []byte]().
//		MaximumCapacity(1 << 16).
//		ConcurrencyLevel(32).
//		Build()
type Builder[K comparable, V any] struct {
	maximumCapacity  int64
	capacitySet      bool
	concurrencyLevel int
	initialCapacity  int
	weigher          func(K, V) int
	weigherSet       bool
	valueEquals      func(a, b V) bool
	onEvict          func(K, V)
	logger           Logger
	timeProvider     TimeProvider
	metrics          MetricsCollector
}

// NewBuilder returns a Builder with the defaults applied.
func NewBuilder[K comparable, V any]() *Builder[K, V] {
	return &Builder[K, V]{
		concurrencyLevel: DefaultConcurrencyLevel,
		initialCapacity:  DefaultInitialCapacity,
	}
}

// MaximumCapacity sets the weight budget the map is bounded to. Required.
// Must be >= 0; a zero capacity produces a map that evicts everything on the
// next maintenance pass.
func (b *Builder[K, V]) MaximumCapacity(capacity int64) *Builder[K, V] {
	b.maximumCapacity = capacity
	b.capacitySet = true
	return b
}

// ConcurrencyLevel hints the number of goroutines expected to access the map
// concurrently. It sizes the striped read buffers (rounded up to a power of
// two). Must be > 0. Default: DefaultConcurrencyLevel.
func (b *Builder[K, V]) ConcurrencyLevel(level int) *Builder[K, V] {
	b.concurrencyLevel = level
	return b
}

// InitialCapacity presizes the backing table. Must be >= 0.
// Default: DefaultInitialCapacity.
func (b *Builder[K, V]) InitialCapacity(capacity int) *Builder[K, V] {
	b.initialCapacity = capacity
	return b
}

// Weigher sets the function used to compute an entry's weight. Weights are
// clamped to [1, math.MaxInt32]; an entry never weighs less than 1 so it can
// always be accounted for by the eviction policy. Default: every entry
// weighs 1.
func (b *Builder[K, V]) Weigher(weigher func(key K, value V) int) *Builder[K, V] {
	b.weigher = weigher
	b.weigherSet = true
	return b
}

// ValueEquals sets the equality predicate used by RemoveValue,
// CompareAndReplace and ContainsValue. Default: reflect.DeepEqual.
func (b *Builder[K, V]) ValueEquals(equals func(a, b V) bool) *Builder[K, V] {
	b.valueEquals = equals
	return b
}

// OnEvict registers a listener invoked when an entry is evicted under
// capacity pressure. It is called synchronously by whichever goroutine
// performs the eviction, so it must be fast and non-blocking and must not
// call back into the map.
func (b *Builder[K, V]) OnEvict(listener func(key K, value V)) *Builder[K, V] {
	b.onEvict = listener
	return b
}

// Logger sets the logger used for capacity changes and administrative
// operations. Default: NoOpLogger.
func (b *Builder[K, V]) Logger(logger Logger) *Builder[K, V] {
	b.logger = logger
	return b
}

// TimeProvider sets the clock used for metrics latencies.
// Default: a go-timecache backed provider.
func (b *Builder[K, V]) TimeProvider(provider TimeProvider) *Builder[K, V] {
	b.timeProvider = provider
	return b
}

// MetricsCollector sets the collector for operation metrics.
// Default: NoOpMetricsCollector (zero overhead).
func (b *Builder[K, V]) MetricsCollector(collector MetricsCollector) *Builder[K, V] {
	b.metrics = collector
	return b
}

// Build validates the configuration and constructs the map.
func (b *Builder[K, V]) Build() (*Map[K, V], error) {
	if !b.capacitySet {
		return nil, NewErrCapacityNotSet()
	}
	if b.maximumCapacity < 0 {
		return nil, NewErrInvalidCapacity(b.maximumCapacity)
	}
	if b.concurrencyLevel <= 0 {
		return nil, NewErrInvalidConcurrencyLevel(b.concurrencyLevel)
	}
	if b.initialCapacity < 0 {
		return nil, NewErrInvalidInitialCapacity(b.initialCapacity)
	}
	if b.weigherSet && b.weigher == nil {
		return nil, NewErrInvalidWeigher()
	}
	return newMap(b), nil
}

// defaultValueEquals compares values with reflect.DeepEqual, which handles
// uncomparable types (slices, maps) without panicking.
func defaultValueEquals[V any](a, b V) bool {
	return reflect.DeepEqual(a, b)
}
