// queue_test.go: tests for the MPSC write queue
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package xanthos

import (
	"sync"
	"testing"
)

func TestWriteQueue_FIFO(t *testing.T) {
	q := newWriteQueue[string, int]()
	if !q.isEmpty() {
		t.Fatal("new queue must be empty")
	}

	nodes := make([]*node[string, int], 5)
	for i := range nodes {
		nodes[i] = newNode("k", i, 1)
		q.push(&writeTask[string, int]{node: nodes[i], kind: taskAdd})
	}

	for i := range nodes {
		task := q.pop()
		if task == nil {
			t.Fatalf("expected a task at position %d", i)
		}
		if task.node != nodes[i] {
			t.Fatalf("expected FIFO order at position %d", i)
		}
	}
	if q.pop() != nil {
		t.Error("expected nil from an empty queue")
	}
	if !q.isEmpty() {
		t.Error("queue must report empty after draining")
	}
}

func TestWriteQueue_InterleavedPushPop(t *testing.T) {
	q := newWriteQueue[string, int]()

	q.push(&writeTask[string, int]{kind: taskAdd})
	if q.pop() == nil {
		t.Fatal("expected the pushed task")
	}
	q.push(&writeTask[string, int]{kind: taskRemoval})
	q.push(&writeTask[string, int]{kind: taskUpdate})

	first := q.pop()
	second := q.pop()
	if first == nil || first.kind != taskRemoval {
		t.Error("expected the removal task first")
	}
	if second == nil || second.kind != taskUpdate {
		t.Error("expected the update task second")
	}
	if q.pop() != nil {
		t.Error("expected an empty queue")
	}
}

func TestWriteQueue_ConcurrentProducers(t *testing.T) {
	q := newWriteQueue[string, int]()
	const producers = 8
	const perProducer = 1000

	var wg sync.WaitGroup
	wg.Add(producers)
	for p := 0; p < producers; p++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				q.push(&writeTask[string, int]{kind: taskAdd})
			}
		}()
	}
	wg.Wait()

	count := 0
	for q.pop() != nil {
		count++
	}
	if count != producers*perProducer {
		t.Errorf("expected %d tasks, drained %d", producers*perProducer, count)
	}
}
