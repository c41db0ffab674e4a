// prom_test.go: tests for the Prometheus metrics adapter
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package prom

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/agilira/xanthos"
)

func TestAdapter_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	a := New(reg, "xanthos", "map", nil)

	a.RecordGet(120, true)
	a.RecordGet(80, true)
	a.RecordGet(500, false)
	a.RecordEviction()

	if got := testutil.ToFloat64(a.hits); got != 2 {
		t.Errorf("expected 2 hits, got %v", got)
	}
	if got := testutil.ToFloat64(a.misses); got != 1 {
		t.Errorf("expected 1 miss, got %v", got)
	}
	if got := testutil.ToFloat64(a.evictions); got != 1 {
		t.Errorf("expected 1 eviction, got %v", got)
	}
}

func TestAdapter_Histograms(t *testing.T) {
	reg := prometheus.NewRegistry()
	a := New(reg, "xanthos", "map", nil)

	a.RecordSet(200)
	a.RecordDelete(300)
	a.RecordGet(100, true)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}
	want := map[string]uint64{
		"xanthos_map_get_latency_ns":    1,
		"xanthos_map_set_latency_ns":    1,
		"xanthos_map_delete_latency_ns": 1,
	}
	for _, fam := range families {
		if expected, ok := want[fam.GetName()]; ok {
			if count := fam.GetMetric()[0].GetHistogram().GetSampleCount(); count != expected {
				t.Errorf("%s: expected %d observations, got %d", fam.GetName(), expected, count)
			}
			delete(want, fam.GetName())
		}
	}
	for name := range want {
		t.Errorf("histogram %s was not registered", name)
	}
}

func TestAdapter_WiredIntoMap(t *testing.T) {
	reg := prometheus.NewRegistry()
	a := New(reg, "xanthos", "map", prometheus.Labels{"instance": "test"})

	m, err := xanthos.NewBuilder[string, int]().
		MaximumCapacity(1).
		MetricsCollector(a).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	m.Put("a", 1)
	m.Put("b", 2)
	m.Get("a")
	m.Get("b")
	m.CleanUp()

	if got := testutil.ToFloat64(a.evictions); got < 1 {
		t.Errorf("expected at least 1 eviction recorded, got %v", got)
	}
	hits := testutil.ToFloat64(a.hits)
	misses := testutil.ToFloat64(a.misses)
	if hits+misses != 2 {
		t.Errorf("expected 2 lookups recorded, got %v hits and %v misses", hits, misses)
	}
}
