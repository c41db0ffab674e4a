// entry.go: map entries and their atomic lifecycle state machine
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

import "sync/atomic"

// weightedValue pairs a value with a signed weight that encodes the entry
// lifecycle: weight > 0 means alive (visible, counted toward the capacity
// budget), weight < 0 means retired (unlinked from the table but possibly
// still observed by a concurrent reader), weight == 0 means dead (fully
// decommissioned). Transitions are monotonic: alive -> retired -> dead.
// A weightedValue is immutable and always swapped as a whole.
type weightedValue[V any] struct {
	value  V
	weight int32
}

func (wv *weightedValue[V]) isAlive() bool {
	return wv.weight > 0
}

// node is the identity-stable holder of a key and its atomically swapped
// weightedValue. prev/next link the node into the eviction deque and are
// mutated only while holding the maintenance mutex.
type node[K comparable, V any] struct {
	key   K
	state atomic.Pointer[weightedValue[V]]

	// guarded by Map.evictionMu
	prev, next *node[K, V]
}

func newNode[K comparable, V any](key K, value V, weight int32) *node[K, V] {
	n := &node[K, V]{key: key}
	n.state.Store(&weightedValue[V]{value: value, weight: weight})
	return n
}

// value returns the current value, re-reading the atomic state so callers
// never see a stale snapshot.
func (n *node[K, V]) value() V {
	return n.state.Load().value
}

func (n *node[K, V]) isAlive() bool {
	return n.state.Load().isAlive()
}

// tryToRetire attempts the alive -> retired transition against the expected
// state. Returns whether the CAS won.
func (n *node[K, V]) tryToRetire(expect *weightedValue[V]) bool {
	if !expect.isAlive() {
		return false
	}
	retired := &weightedValue[V]{value: expect.value, weight: -expect.weight}
	return n.state.CompareAndSwap(expect, retired)
}

// makeRetired loops until the node is retired from whatever alive state it
// currently holds. No-op if the node already left the alive state.
func (n *node[K, V]) makeRetired() {
	for {
		cur := n.state.Load()
		if !cur.isAlive() {
			return
		}
		retired := &weightedValue[V]{value: cur.value, weight: -cur.weight}
		if n.state.CompareAndSwap(cur, retired) {
			return
		}
	}
}

// makeDead loops until the node holds a zero-weight dead value and returns
// the absolute weight that must be debited from the weighted-size counter.
// The debit is handed out exactly once per transition into dead; later calls
// observe weight 0 and return 0.
func (n *node[K, V]) makeDead() int32 {
	for {
		cur := n.state.Load()
		if cur.weight == 0 {
			return 0
		}
		dead := &weightedValue[V]{value: cur.value, weight: 0}
		if n.state.CompareAndSwap(cur, dead) {
			if cur.weight < 0 {
				return -cur.weight
			}
			return cur.weight
		}
	}
}
