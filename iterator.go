// iterator.go: key, value and entry views over the map
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

import "iter"

// All returns a weakly consistent iterator over live key/value pairs,
// usable with range-over-func. Concurrent mutations may or may not be
// reflected during iteration.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		m.data.Range(func(key K, n *node[K, V]) bool {
			wv := n.state.Load()
			if !wv.isAlive() {
				return true
			}
			return yield(key, wv.value)
		})
	}
}

// Keys returns a weakly consistent iterator over keys. The view is
// read-only; removal during iteration goes through Entries.
func (m *Map[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for k := range m.All() {
			if !yield(k) {
				return
			}
		}
	}
}

// Values returns a weakly consistent iterator over values. The view is
// read-only; removal during iteration goes through Entries.
func (m *Map[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for _, v := range m.All() {
			if !yield(v) {
				return
			}
		}
	}
}

// EntryIterator walks a snapshot of the map's entries and supports mutating
// the map through Remove and SetValue. Values are re-read from the live
// entry on access, so SetValue by another goroutine is visible; entries
// removed after the snapshot was taken are skipped.
//
// Not safe for concurrent use by multiple goroutines.
type EntryIterator[K comparable, V any] struct {
	m       *Map[K, V]
	nodes   []*node[K, V]
	index   int
	current *node[K, V]
}

// Entries returns an iterator positioned before the first entry.
func (m *Map[K, V]) Entries() *EntryIterator[K, V] {
	nodes := make([]*node[K, V], 0, m.data.Size())
	m.data.Range(func(_ K, n *node[K, V]) bool {
		nodes = append(nodes, n)
		return true
	})
	return &EntryIterator[K, V]{m: m, nodes: nodes}
}

// Next advances to the next live entry. Returns false when the iterator is
// exhausted.
func (it *EntryIterator[K, V]) Next() bool {
	for it.index < len(it.nodes) {
		n := it.nodes[it.index]
		it.index++
		if n.isAlive() {
			it.current = n
			return true
		}
	}
	it.current = nil
	return false
}

// Key returns the key of the current entry. Only valid after a successful
// Next.
func (it *EntryIterator[K, V]) Key() K {
	return it.current.key
}

// Value returns the current value of the current entry, re-read from the
// live state.
func (it *EntryIterator[K, V]) Value() V {
	return it.current.value()
}

// Remove deletes the current entry from the map. Calling Remove before Next,
// after the iterator is exhausted, or twice for the same entry returns an
// iterator-state error.
func (it *EntryIterator[K, V]) Remove() error {
	if it.current == nil {
		return NewErrIteratorState("remove")
	}
	it.m.Remove(it.current.key)
	it.current = nil
	return nil
}

// SetValue writes value through to the map for the current entry and
// returns the previous value. Calling SetValue without a current entry
// returns an iterator-state error.
func (it *EntryIterator[K, V]) SetValue(value V) (V, error) {
	if it.current == nil {
		var zero V
		return zero, NewErrIteratorState("set_value")
	}
	prev, _ := it.m.Put(it.current.key, value)
	return prev, nil
}
