// entry_test.go: tests for the entry lifecycle state machine
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package xanthos

import "testing"

func TestNode_AliveState(t *testing.T) {
	n := newNode("key", 42, 1)
	if !n.isAlive() {
		t.Error("a new node must be alive")
	}
	if n.value() != 42 {
		t.Errorf("expected value 42, got %d", n.value())
	}
}

func TestNode_TryToRetire(t *testing.T) {
	n := newNode("key", 42, 3)
	wv := n.state.Load()

	if !n.tryToRetire(wv) {
		t.Fatal("tryToRetire must win against the current alive state")
	}
	retired := n.state.Load()
	if retired.isAlive() {
		t.Error("retired node must not be alive")
	}
	if retired.weight != -3 {
		t.Errorf("retired weight must be negated, got %d", retired.weight)
	}
	if retired.value != 42 {
		t.Error("retirement must preserve the value")
	}

	// A stale expected state never wins.
	if n.tryToRetire(wv) {
		t.Error("tryToRetire must fail against a stale state")
	}
}

func TestNode_TryToRetire_NonAlive(t *testing.T) {
	n := newNode("key", 1, 1)
	n.makeRetired()
	if n.tryToRetire(n.state.Load()) {
		t.Error("tryToRetire must refuse a non-alive expected state")
	}
}

func TestNode_MakeRetired_Idempotent(t *testing.T) {
	n := newNode("key", 1, 2)
	n.makeRetired()
	first := n.state.Load()
	n.makeRetired()
	if n.state.Load() != first {
		t.Error("makeRetired must be a no-op on a retired node")
	}
}

func TestNode_MakeDead_DebitsOnce(t *testing.T) {
	n := newNode("key", 1, 5)

	if debit := n.makeDead(); debit != 5 {
		t.Errorf("expected debit 5, got %d", debit)
	}
	if debit := n.makeDead(); debit != 0 {
		t.Errorf("second makeDead must debit 0, got %d", debit)
	}
	if n.state.Load().weight != 0 {
		t.Error("dead node must have zero weight")
	}
}

func TestNode_MakeDead_FromRetired(t *testing.T) {
	n := newNode("key", 1, 4)
	n.makeRetired()

	if debit := n.makeDead(); debit != 4 {
		t.Errorf("expected the absolute weight 4, got %d", debit)
	}
}

func TestNode_ReplaceKeepsIdentity(t *testing.T) {
	n := newNode("key", 1, 1)
	old := n.state.Load()
	if !n.state.CompareAndSwap(old, &weightedValue[int]{value: 2, weight: 1}) {
		t.Fatal("CAS against the current state must succeed")
	}
	if n.value() != 2 {
		t.Errorf("expected 2, got %d", n.value())
	}
	if !n.isAlive() {
		t.Error("an in-place replace keeps the node alive")
	}
}
