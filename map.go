// map.go: bounded concurrent map with amortized recency-based eviction
//
// The backing table is the single source of truth for key presence and is
// never locked. Eviction-order bookkeeping runs behind it: reads are recorded
// into striped lossy buffers, structural writes into an MPSC queue, and both
// are drained in batches into the eviction deque under a single maintenance
// mutex that is only ever try-locked from the hot path. Ordering is therefore
// eventually consistent while presence is immediately consistent.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

import (
	"math"
	"math/rand/v2"
	"sync"
	"sync/atomic"

	"github.com/puzpuzpuz/xsync/v3"
)

// Drain status of the maintenance coordinator.
const (
	// drainIdle: no maintenance pending; reads drain only past the stripe
	// threshold.
	drainIdle int32 = iota
	// drainRequired: a structural write is buffered; drain at the next
	// opportunity.
	drainRequired
	// drainProcessing: a maintenance pass is running; do not re-enter.
	drainProcessing
)

// writeBufferDrainMax bounds how many structural tasks one maintenance pass
// applies.
const writeBufferDrainMax = 16

// Map is a bounded, thread-safe map with least-recently-used eviction.
// All methods are safe for concurrent use by multiple goroutines. The zero
// value is not usable; construct through NewBuilder.
type Map[K comparable, V any] struct {
	drainStatus atomic.Int32

	data *xsync.MapOf[K, *node[K, V]]

	capacity     atomic.Int64
	weightedSize atomic.Int64

	readBuffers []*readBuffer[K, V]
	stripeMask  uint32

	writeBuffer *writeQueue[K, V]

	// evictionMu guards the deque, the write-buffer consumer side and the
	// read-buffer drain cursors. Acquired with TryLock everywhere except
	// Clear, CleanUp and SetCapacity.
	evictionMu sync.Mutex

	// guarded by evictionMu
	deque evictionDeque[K, V]

	weigher     func(K, V) int
	valueEquals func(a, b V) bool
	onEvict     func(K, V)
	logger      Logger
	time        TimeProvider
	metrics     MetricsCollector
	withMetrics bool

	hits      atomic.Int64
	misses    atomic.Int64
	sets      atomic.Int64
	deletes   atomic.Int64
	evictions atomic.Int64
}

func newMap[K comparable, V any](b *Builder[K, V]) *Map[K, V] {
	stripes := nextPowerOf2(b.concurrencyLevel)
	m := &Map[K, V]{
		data:        xsync.NewMapOf[K, *node[K, V]](xsync.WithPresize(b.initialCapacity)),
		readBuffers: make([]*readBuffer[K, V], stripes),
		stripeMask:  uint32(stripes - 1), // #nosec G115 - stripes is a small power of 2
		writeBuffer: newWriteQueue[K, V](),
		weigher:     b.weigher,
		valueEquals: b.valueEquals,
		onEvict:     b.onEvict,
		logger:      b.logger,
		time:        b.timeProvider,
		metrics:     b.metrics,
	}
	for i := range m.readBuffers {
		m.readBuffers[i] = &readBuffer[K, V]{}
	}
	m.capacity.Store(b.maximumCapacity)
	if m.valueEquals == nil {
		m.valueEquals = defaultValueEquals[V]
	}
	if m.logger == nil {
		m.logger = NoOpLogger{}
	}
	if m.time == nil {
		m.time = &systemTimeProvider{}
	}
	if m.metrics == nil {
		m.metrics = NoOpMetricsCollector{}
	} else {
		m.withMetrics = true
	}
	return m
}

// ---- read path ----

// Get returns the value associated with key and whether it was present.
// A hit records a read event; promotion to most-recently-used happens on a
// later drain, not synchronously.
func (m *Map[K, V]) Get(key K) (V, bool) {
	var start int64
	if m.withMetrics {
		start = m.time.Now()
	}

	n, ok := m.data.Load(key)
	if !ok {
		m.misses.Add(1)
		if m.withMetrics {
			m.metrics.RecordGet(m.time.Now()-start, false)
		}
		var zero V
		return zero, false
	}

	m.hits.Add(1)
	m.afterRead(n)
	v := n.value()
	if m.withMetrics {
		m.metrics.RecordGet(m.time.Now()-start, true)
	}
	return v, true
}

// ContainsKey reports whether key is present, without touching the eviction
// order.
func (m *Map[K, V]) ContainsKey(key K) bool {
	_, ok := m.data.Load(key)
	return ok
}

// ContainsValue reports whether any live entry currently holds value,
// compared with the configured equality predicate. Linear in the map size.
func (m *Map[K, V]) ContainsValue(value V) bool {
	found := false
	m.data.Range(func(_ K, n *node[K, V]) bool {
		wv := n.state.Load()
		if wv.isAlive() && m.valueEquals(wv.value, value) {
			found = true
			return false
		}
		return true
	})
	return found
}

// Len returns the number of entries. Table membership is authoritative,
// not the eviction deque.
func (m *Map[K, V]) Len() int {
	return m.data.Size()
}

// IsEmpty reports whether the map holds no entries.
func (m *Map[K, V]) IsEmpty() bool {
	return m.data.Size() == 0
}

// Capacity returns the configured weight budget.
func (m *Map[K, V]) Capacity() int64 {
	return m.capacity.Load()
}

// WeightedSize returns the combined weight of entries as of the last drain.
// It may transiently exceed Capacity between drains.
func (m *Map[K, V]) WeightedSize() int64 {
	return m.weightedSize.Load()
}

// ---- write path ----

// Put associates value with key. Returns the previous value and whether one
// was replaced.
func (m *Map[K, V]) Put(key K, value V) (V, bool) {
	return m.put(key, value, false)
}

// PutIfAbsent associates value with key only if no live mapping exists.
// Returns the existing value and true when the key was already present.
func (m *Map[K, V]) PutIfAbsent(key K, value V) (V, bool) {
	return m.put(key, value, true)
}

func (m *Map[K, V]) put(key K, value V, onlyIfAbsent bool) (V, bool) {
	var start int64
	if m.withMetrics {
		start = m.time.Now()
	}

	weight := m.weightOf(key, value)
	wv := &weightedValue[V]{value: value, weight: weight}
	n := &node[K, V]{key: key}
	n.state.Store(wv)

	for {
		prior, loaded := m.data.LoadOrStore(key, n)
		if !loaded {
			m.afterWrite(&writeTask[K, V]{node: n, kind: taskAdd, weightDelta: weight})
			m.sets.Add(1)
			if m.withMetrics {
				m.metrics.RecordSet(m.time.Now() - start)
			}
			var zero V
			return zero, false
		}
		if onlyIfAbsent {
			// mirror the permissive read-only semantics: the racing value
			// is returned even if it is concurrently retiring
			m.afterRead(prior)
			return prior.value(), true
		}
		for {
			old := prior.state.Load()
			if !old.isAlive() {
				// lost a race with a concurrent remove/evict of this node;
				// restart from the table lookup
				break
			}
			if prior.state.CompareAndSwap(old, wv) {
				m.afterValueUpdate(prior, weight-old.weight)
				m.sets.Add(1)
				if m.withMetrics {
					m.metrics.RecordSet(m.time.Now() - start)
				}
				return old.value, true
			}
		}
	}
}

// Replace associates value with key only if a live mapping exists. Returns
// the previous value and whether the replacement happened.
func (m *Map[K, V]) Replace(key K, value V) (V, bool) {
	var start int64
	if m.withMetrics {
		start = m.time.Now()
	}

	weight := m.weightOf(key, value)
	wv := &weightedValue[V]{value: value, weight: weight}

	n, ok := m.data.Load(key)
	if !ok {
		var zero V
		return zero, false
	}
	for {
		old := n.state.Load()
		if !old.isAlive() {
			var zero V
			return zero, false
		}
		if n.state.CompareAndSwap(old, wv) {
			m.afterValueUpdate(n, weight-old.weight)
			m.sets.Add(1)
			if m.withMetrics {
				m.metrics.RecordSet(m.time.Now() - start)
			}
			return old.value, true
		}
	}
}

// CompareAndReplace associates newValue with key only if the live mapping
// currently equals oldValue. Returns whether the replacement happened.
func (m *Map[K, V]) CompareAndReplace(key K, oldValue, newValue V) bool {
	var start int64
	if m.withMetrics {
		start = m.time.Now()
	}

	weight := m.weightOf(key, newValue)
	wv := &weightedValue[V]{value: newValue, weight: weight}

	n, ok := m.data.Load(key)
	if !ok {
		return false
	}
	for {
		old := n.state.Load()
		if !old.isAlive() || !m.valueEquals(old.value, oldValue) {
			return false
		}
		if n.state.CompareAndSwap(old, wv) {
			m.afterValueUpdate(n, weight-old.weight)
			m.sets.Add(1)
			if m.withMetrics {
				m.metrics.RecordSet(m.time.Now() - start)
			}
			return true
		}
	}
}

// afterValueUpdate records the bookkeeping for an in-place value swap.
// Equal weights degenerate to a read event; otherwise the weight delta is
// carried by an update task.
func (m *Map[K, V]) afterValueUpdate(n *node[K, V], weightDelta int32) {
	if weightDelta == 0 {
		m.afterRead(n)
		return
	}
	m.afterWrite(&writeTask[K, V]{node: n, kind: taskUpdate, weightDelta: weightDelta})
}

// Remove deletes the mapping for key. Returns the previous value and whether
// a mapping existed.
func (m *Map[K, V]) Remove(key K) (V, bool) {
	var start int64
	if m.withMetrics {
		start = m.time.Now()
	}

	n, ok := m.data.LoadAndDelete(key)
	if !ok {
		var zero V
		return zero, false
	}
	n.makeRetired()
	m.afterWrite(&writeTask[K, V]{node: n, kind: taskRemoval})
	m.deletes.Add(1)
	if m.withMetrics {
		m.metrics.RecordDelete(m.time.Now() - start)
	}
	// the retired state still carries the value that was removed
	return n.value(), true
}

// RemoveValue deletes the mapping for key only if its live value equals
// value. The key is detached from the table up front, mirroring the
// permissive semantics of the lookup table being authoritative: even on a
// value mismatch the key stays removed, and the detached entry is retired so
// the next drain unlinks it and releases its weight.
func (m *Map[K, V]) RemoveValue(key K, value V) bool {
	n, ok := m.data.LoadAndDelete(key)
	if !ok {
		return false
	}
	for {
		wv := n.state.Load()
		if m.valueEquals(wv.value, value) {
			if n.tryToRetire(wv) {
				m.removeByIdentity(n)
				m.afterWrite(&writeTask[K, V]{node: n, kind: taskRemoval})
				m.deletes.Add(1)
				return true
			}
			// retirement lost a CAS; retry only while the entry is alive,
			// as a concurrent evict may have claimed the node
			if n.isAlive() {
				continue
			}
			return false
		}
		// mismatch: the node is already gone from the table, so it must not
		// stay linked with its weight counted; retire it and enqueue the
		// unlink before reporting failure
		if !wv.isAlive() {
			return false
		}
		if n.tryToRetire(wv) {
			m.afterWrite(&writeTask[K, V]{node: n, kind: taskRemoval})
			return false
		}
	}
}

// removeByIdentity detaches n from the table only if the key still maps to
// this exact node, so a newer entry for the same key is never clobbered.
func (m *Map[K, V]) removeByIdentity(n *node[K, V]) {
	m.data.Compute(n.key, func(cur *node[K, V], loaded bool) (*node[K, V], bool) {
		if loaded && cur == n {
			return nil, true
		}
		return cur, !loaded
	})
}

// Clear removes every entry. Unlike the lock-free operations, Clear holds
// the maintenance mutex for the whole sweep.
func (m *Map[K, V]) Clear() {
	m.evictionMu.Lock()
	defer m.evictionMu.Unlock()

	m.drainStatus.Store(drainProcessing)
	// Apply pending structural tasks first so that buffered adds are linked
	// into the deque and swept below instead of surviving the clear.
	for {
		t := m.writeBuffer.pop()
		if t == nil {
			break
		}
		m.runTask(t)
	}
	for {
		n := m.deque.popFront()
		if n == nil {
			break
		}
		m.removeByIdentity(n)
		m.makeDead(n)
	}
	for _, b := range m.readBuffers {
		b.clear()
	}
	m.drainStatus.CompareAndSwap(drainProcessing, drainIdle)
	m.logger.Debug("map cleared")
}

// ---- maintenance ----

func (m *Map[K, V]) weightOf(key K, value V) int32 {
	if m.weigher == nil {
		return 1
	}
	w := m.weigher(key, value)
	if w < 1 {
		w = 1
	}
	if w > math.MaxInt32 {
		w = math.MaxInt32
	}
	return int32(w)
}

// afterRead records a read event on a randomly selected stripe and attempts
// a drain when the stripe has accumulated enough pending events or a drain
// is already required.
func (m *Map[K, V]) afterRead(n *node[K, V]) {
	b := m.readBuffers[rand.Uint32()&m.stripeMask]
	pending := b.record(n)
	delayable := pending < readBufferThreshold
	if m.shouldDrainBuffers(delayable) {
		m.tryToDrainBuffers()
	}
}

// afterWrite enqueues a structural task and marks maintenance required.
func (m *Map[K, V]) afterWrite(t *writeTask[K, V]) {
	m.writeBuffer.push(t)
	m.drainStatus.Store(drainRequired)
	m.tryToDrainBuffers()
}

func (m *Map[K, V]) shouldDrainBuffers(delayable bool) bool {
	switch m.drainStatus.Load() {
	case drainIdle:
		return !delayable
	case drainRequired:
		return true
	default: // drainProcessing
		return false
	}
}

// tryToDrainBuffers runs a bounded maintenance pass if the maintenance mutex
// is free. Callers never block here: if another goroutine holds the mutex it
// is already making progress on our behalf.
func (m *Map[K, V]) tryToDrainBuffers() {
	if m.evictionMu.TryLock() {
		m.maintenance()
		m.evictionMu.Unlock()
	}
}

// maintenance drains a bounded batch from every read stripe and from the
// write buffer. Caller must hold the maintenance mutex. The final CAS keeps
// the status at required if another writer posted work concurrently.
func (m *Map[K, V]) maintenance() {
	m.drainStatus.Store(drainProcessing)
	m.drainReadBuffers()
	m.drainWriteBuffer(writeBufferDrainMax)
	m.drainStatus.CompareAndSwap(drainProcessing, drainIdle)
}

func (m *Map[K, V]) drainReadBuffers() {
	for _, b := range m.readBuffers {
		b.drain(m.applyRead)
	}
}

func (m *Map[K, V]) drainWriteBuffer(max int) {
	for i := 0; i < max; i++ {
		t := m.writeBuffer.pop()
		if t == nil {
			return
		}
		m.runTask(t)
	}
}

// applyRead promotes an entry to most-recently-used, but only if it is
// currently linked; entries whose add task has not drained yet are skipped,
// not requeued.
func (m *Map[K, V]) applyRead(n *node[K, V]) {
	if m.deque.contains(n) {
		m.deque.moveToBack(n)
	}
}

func (m *Map[K, V]) runTask(t *writeTask[K, V]) {
	switch t.kind {
	case taskAdd:
		m.weightedSize.Add(int64(t.weightDelta))
		if t.node.isAlive() {
			m.deque.pushBack(t.node)
		}
		m.evict()
	case taskRemoval:
		m.deque.remove(t.node)
		m.makeDead(t.node)
	case taskUpdate:
		m.weightedSize.Add(int64(t.weightDelta))
		m.applyRead(t.node)
		m.evict()
	}
}

// makeDead transitions n to dead and debits its weight exactly once.
func (m *Map[K, V]) makeDead(n *node[K, V]) {
	if debit := n.makeDead(); debit != 0 {
		m.weightedSize.Add(-int64(debit))
	}
}

func (m *Map[K, V]) hasOverflowed() bool {
	return m.weightedSize.Load() > m.capacity.Load()
}

// evict pops least-recently-used entries while the map is over its weight
// budget. Runs only with the maintenance mutex held, so deque mutation stays
// single-writer.
func (m *Map[K, V]) evict() {
	for m.hasOverflowed() {
		n := m.deque.popFront()
		if n == nil {
			return
		}
		m.removeByIdentity(n)
		m.makeDead(n)
		m.evictions.Add(1)
		m.metrics.RecordEviction()
		if m.onEvict != nil {
			m.onEvict(n.key, n.value())
		}
	}
}

// CleanUp forces a full drain of the read and write buffers and evicts down
// to the capacity bound. Unlike the opportunistic maintenance on the hot
// path, CleanUp blocks until quiescent. Useful before inspecting the
// eviction order or the weighted size.
func (m *Map[K, V]) CleanUp() {
	m.evictionMu.Lock()
	defer m.evictionMu.Unlock()
	m.drainAll()
}

// drainAll loops until both buffers are observably empty.
// Caller must hold the maintenance mutex.
func (m *Map[K, V]) drainAll() {
	m.drainStatus.Store(drainProcessing)
	for {
		m.drainReadBuffers()
		m.drainWriteBuffer(writeBufferDrainMax)
		if m.buffersEmpty() {
			break
		}
	}
	m.evict()
	m.drainStatus.CompareAndSwap(drainProcessing, drainIdle)
}

func (m *Map[K, V]) buffersEmpty() bool {
	for _, b := range m.readBuffers {
		if !b.isDrained() {
			return false
		}
	}
	return m.writeBuffer.isEmpty()
}

// SetCapacity changes the weight budget at runtime and immediately shrinks
// the map to the new bound.
func (m *Map[K, V]) SetCapacity(capacity int64) error {
	if capacity < 0 {
		return NewErrInvalidCapacity(capacity)
	}
	m.evictionMu.Lock()
	m.capacity.Store(capacity)
	m.drainAll()
	m.evictionMu.Unlock()
	m.logger.Info("capacity updated", "capacity", capacity)
	return nil
}

// Stats returns map statistics.
func (m *Map[K, V]) Stats() Stats {
	return Stats{
		Hits:         uint64(m.hits.Load()),      // #nosec G115 - counters are always positive
		Misses:       uint64(m.misses.Load()),    // #nosec G115 - counters are always positive
		Sets:         uint64(m.sets.Load()),      // #nosec G115 - counters are always positive
		Deletes:      uint64(m.deletes.Load()),   // #nosec G115 - counters are always positive
		Evictions:    uint64(m.evictions.Load()), // #nosec G115 - counters are always positive
		Size:         m.data.Size(),
		WeightedSize: m.weightedSize.Load(),
		Capacity:     m.capacity.Load(),
	}
}
