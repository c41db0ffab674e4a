// deque.go: intrusive access-order deque used by the eviction policy
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

// evictionDeque is an intrusive doubly linked list over live nodes kept in
// least-to-most-recently-used order (head = LRU victim, tail = MRU). It has
// a single writer: only the goroutine holding the maintenance mutex may call
// any of these methods.
type evictionDeque[K comparable, V any] struct {
	head *node[K, V]
	tail *node[K, V]
}

// contains reports whether n is currently linked. Nodes are unlinked with
// both pointers nil, so a node with any link set (or that is the sole head)
// is a member.
func (d *evictionDeque[K, V]) contains(n *node[K, V]) bool {
	return n.prev != nil || n.next != nil || n == d.head
}

// pushBack links n at the MRU position.
func (d *evictionDeque[K, V]) pushBack(n *node[K, V]) {
	n.prev = d.tail
	n.next = nil
	if d.tail != nil {
		d.tail.next = n
	} else {
		d.head = n
	}
	d.tail = n
}

// moveToBack relinks an already linked n at the MRU position.
func (d *evictionDeque[K, V]) moveToBack(n *node[K, V]) {
	if n == d.tail {
		return
	}
	d.unlink(n)
	d.pushBack(n)
}

// remove unlinks n if it is a member.
func (d *evictionDeque[K, V]) remove(n *node[K, V]) {
	if !d.contains(n) {
		return
	}
	d.unlink(n)
}

// popFront unlinks and returns the LRU node, or nil if the deque is empty.
func (d *evictionDeque[K, V]) popFront() *node[K, V] {
	n := d.head
	if n == nil {
		return nil
	}
	d.unlink(n)
	return n
}

func (d *evictionDeque[K, V]) unlink(n *node[K, V]) {
	if n.prev != nil {
		n.prev.next = n.next
	} else if d.head == n {
		d.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else if d.tail == n {
		d.tail = n.prev
	}
	n.prev, n.next = nil, nil
}

func (d *evictionDeque[K, V]) isEmpty() bool {
	return d.head == nil
}
