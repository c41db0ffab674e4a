// queue.go: structural write tasks and the unbounded MPSC queue feeding maintenance
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

import "sync/atomic"

// taskKind discriminates the structural operations applied to the eviction
// deque during a drain. A closed tagged union keeps task application
// branch-based instead of paying for indirect dispatch.
type taskKind int8

const (
	taskAdd taskKind = iota
	taskRemoval
	taskUpdate
)

// writeTask is a pending structural operation produced by a mutating call
// and consumed, in FIFO order, under the maintenance mutex.
type writeTask[K comparable, V any] struct {
	next        atomic.Pointer[writeTask[K, V]]
	node        *node[K, V]
	kind        taskKind
	weightDelta int32
}

// writeQueue is an unbounded multi-producer single-consumer queue (Vyukov
// scheme with a stub node). push is lock-free; pop may only be called while
// holding the maintenance mutex.
//
// A producer that is preempted between swapping the tail and linking its
// predecessor leaves the queue observably empty for a moment. That is fine:
// the producer marks the drain status required after pushing, so the task is
// picked up by a later maintenance pass.
type writeQueue[K comparable, V any] struct {
	tail atomic.Pointer[writeTask[K, V]]

	// guarded by Map.evictionMu
	head *writeTask[K, V]

	stub writeTask[K, V]
}

func newWriteQueue[K comparable, V any]() *writeQueue[K, V] {
	q := &writeQueue[K, V]{}
	q.head = &q.stub
	q.tail.Store(&q.stub)
	return q
}

// push appends t. Safe for concurrent use by any number of producers.
func (q *writeQueue[K, V]) push(t *writeTask[K, V]) {
	t.next.Store(nil)
	prev := q.tail.Swap(t)
	prev.next.Store(t)
}

// isEmpty reports whether no task is observable.
// Caller must hold the maintenance mutex.
func (q *writeQueue[K, V]) isEmpty() bool {
	return q.head == &q.stub && q.head.next.Load() == nil && q.tail.Load() == q.head
}

// pop removes and returns the oldest task, or nil if none is observable.
// Caller must hold the maintenance mutex.
func (q *writeQueue[K, V]) pop() *writeTask[K, V] {
	head := q.head
	next := head.next.Load()
	if head == &q.stub {
		if next == nil {
			return nil
		}
		q.head = next
		head = next
		next = head.next.Load()
	}
	if next != nil {
		q.head = next
		return head
	}
	if head != q.tail.Load() {
		// a producer is mid-push; treat as empty for now
		return nil
	}
	// head is the last element: re-park the stub behind it so head can be
	// handed out
	q.push(&q.stub)
	next = head.next.Load()
	if next == nil {
		return nil
	}
	q.head = next
	return head
}
