// Package xanthos provides a bounded, thread-safe, in-memory map with
// recency-based (LRU) eviction and amortized maintenance.
//
// # Overview
//
// Xanthos is designed as a building block for metadata caches (resolved
// types, compiled handlers, derived configuration) where the working set
// must be bounded but per-operation locking is unacceptable:
//   - Presence is immediately consistent: Get/Put/Remove act directly on a
//     lock-free backing table
//   - Eviction order is eventually consistent: accesses are buffered and
//     folded into the LRU order in batches
//   - No operation blocks on maintenance: bookkeeping runs behind a try-lock
//     on whichever goroutine happens to trip a drain threshold
//
// # Quick Start
//
//	import "github.com/agilira/xanthos"
//
//	func main() {
//	    m, err := xanthos.NewBuilder[string, int]().
//	        MaximumCapacity(10_000).
//	        Build()
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    m.Put("answer", 42)
//	    if v, found := m.Get("answer"); found {
//	        fmt.Println(v)
//	    }
//	}
//
// # Concurrency Model
//
// The backing table (a lock-free hash map) is the single source of truth for
// which keys are present. Every entry carries an atomically swapped
// (value, weight) pair whose sign encodes a monotonic lifecycle:
//
//	alive (weight > 0) -> retired (weight < 0) -> dead (weight == 0)
//
// Value updates, conditional removals and replacements are all CAS retry
// loops over that pair; contention is never surfaced to the caller.
//
// Recency bookkeeping is decoupled from the hot path:
//   - Reads append the entry to one of a small, fixed number of lossy ring
//     buffers (striped to keep concurrent readers apart)
//   - Writes push an add/removal/update task onto an unbounded MPSC queue
//   - A maintenance pass, taken opportunistically via TryLock, drains both
//     into an intrusive LRU deque and evicts while over budget
//
// Only Clear, CleanUp and SetCapacity acquire the maintenance mutex
// unconditionally, and their hold time is bounded.
//
// # Capacity and Weights
//
// The map is bounded by total weight, not entry count. By default every
// entry weighs 1, so MaximumCapacity is an entry limit; a custom Weigher
// turns it into an arbitrary cost budget. The weighted size may transiently
// overshoot the budget between drains and converges back after the next
// maintenance pass.
//
// Capacity is mutable at runtime:
//
//	m.SetCapacity(500) // evicts down to the new bound immediately
//
// and can be driven from a watched configuration file via HotCapacity
// (Argus integration):
//
//	hc, err := xanthos.NewHotCapacity(m, xanthos.HotCapacityOptions{
//	    ConfigPath: "/etc/myapp/cache.yaml",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	_ = hc.Start()
//	defer hc.Stop()
//
// # Observability
//
// Built-in counters:
//
//	stats := m.Stats()
//	fmt.Printf("hit ratio: %.2f%%\n", stats.HitRatio())
//
// For Prometheus, the xanthos/prom package adapts a registry to the
// MetricsCollector interface:
//
//	collector := prom.New(nil, "myapp", "typecache", nil)
//	m, err := xanthos.NewBuilder[string, int]().
//	    MaximumCapacity(10_000).
//	    MetricsCollector(collector).
//	    Build()
//
// # Error Handling
//
// Configuration and iterator misuse produce structured errors with error
// codes (github.com/agilira/go-errors):
//   - XANTHOS_CAPACITY_NOT_SET: Build without MaximumCapacity
//   - XANTHOS_INVALID_CONCURRENCY_LEVEL: non-positive concurrency level
//   - XANTHOS_INVALID_INITIAL_CAPACITY: negative initial capacity
//   - XANTHOS_INVALID_CAPACITY: negative maximum capacity
//   - XANTHOS_ITERATOR_STATE: EntryIterator.Remove before Next or twice
//
// Nothing else errors: concurrency conflicts are retried internally and at
// worst leave a transient accounting skew that self-corrects on the next
// maintenance pass.
//
// # Packages
//
//   - github.com/agilira/xanthos: core map implementation
//   - github.com/agilira/xanthos/prom: Prometheus metrics adapter
//
// # License
//
// See LICENSE file in the repository.
//
// Contributions welcome at https://github.com/agilira/xanthos
package xanthos
