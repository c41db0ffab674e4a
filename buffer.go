// buffer.go: striped lossy ring buffers for recording read events
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

import "sync/atomic"

const (
	// readBufferSize is the capacity of a single read buffer stripe.
	// Must be a power of two.
	readBufferSize = 128

	readBufferIndexMask = readBufferSize - 1

	// readBufferThreshold is the number of undrained reads a stripe may
	// accumulate before a drain is attempted.
	readBufferThreshold = 32

	// readBufferDrainMax bounds how many buffered reads a single drain
	// applies per stripe.
	readBufferDrainMax = 2 * readBufferSize
)

// readBuffer is one stripe of the lossy read-event recording. Writers append
// entries at writeCount positions without coordination; when concurrent
// writers land on the same slot the older event is simply dropped, which is
// acceptable because read events only refine the eviction order. The drain
// side (readCount, guarded by the maintenance mutex) consumes slots in FIFO
// order and stops at the first empty slot.
type readBuffer[K comparable, V any] struct {
	writeCount   atomic.Int64
	drainedCount atomic.Int64

	// guarded by Map.evictionMu
	readCount int64

	slots [readBufferSize]atomic.Pointer[node[K, V]]
}

// record appends a read event for n and returns the number of events
// recorded on this stripe since it was last drained. The counter increment
// is deliberately not atomic with the slot store; the buffer is lossy.
func (b *readBuffer[K, V]) record(n *node[K, V]) int64 {
	writes := b.writeCount.Load()
	b.writeCount.Store(writes + 1)
	b.slots[writes&readBufferIndexMask].Store(n)
	return writes + 1 - b.drainedCount.Load()
}

// drain applies up to readBufferDrainMax buffered reads in FIFO order.
// Caller must hold the maintenance mutex.
func (b *readBuffer[K, V]) drain(apply func(*node[K, V])) {
	writes := b.writeCount.Load()
	for i := 0; i < readBufferDrainMax; i++ {
		slot := &b.slots[b.readCount&readBufferIndexMask]
		n := slot.Load()
		if n == nil {
			break
		}
		slot.Store(nil)
		apply(n)
		b.readCount++
	}
	b.drainedCount.Store(writes)
}

// isDrained reports whether no buffered read is waiting at the drain cursor.
// Caller must hold the maintenance mutex.
func (b *readBuffer[K, V]) isDrained() bool {
	return b.slots[b.readCount&readBufferIndexMask].Load() == nil
}

// clear nulls out all slots. Caller must hold the maintenance mutex.
func (b *readBuffer[K, V]) clear() {
	for i := range b.slots {
		b.slots[i].Store(nil)
	}
}

// nextPowerOf2 returns the next power of 2 greater than or equal to n.
func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	return n + 1
}
