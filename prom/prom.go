// prom.go: Prometheus adapter for the xanthos MetricsCollector interface
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package prom

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/agilira/xanthos"
)

// Adapter implements xanthos.MetricsCollector and exports Prometheus
// counters/histograms. Safe for concurrent use; all Prometheus metric types
// are goroutine-safe.
type Adapter struct {
	hits       prometheus.Counter
	misses     prometheus.Counter
	evictions  prometheus.Counter
	getLatency prometheus.Histogram
	setLatency prometheus.Histogram
	delLatency prometheus.Histogram
}

// New constructs a Prometheus metrics adapter.
//   - reg:          registry to register metrics with (nil => prometheus.DefaultRegisterer)
//   - ns, sub:      Prometheus namespace and subsystem
//   - constLabels:  static labels applied to all metrics (may be nil)
func New(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *Adapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	latencyBuckets := prometheus.ExponentialBuckets(100, 4, 8) // 100ns .. ~1.6ms
	a := &Adapter{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "hits_total",
			Help:        "Map hits",
			ConstLabels: constLabels,
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "misses_total",
			Help:        "Map misses",
			ConstLabels: constLabels,
		}),
		evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "evictions_total",
			Help:        "Entries evicted under capacity pressure",
			ConstLabels: constLabels,
		}),
		getLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "get_latency_ns",
			Help:        "Get latency in nanoseconds",
			Buckets:     latencyBuckets,
			ConstLabels: constLabels,
		}),
		setLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "set_latency_ns",
			Help:        "Put latency in nanoseconds",
			Buckets:     latencyBuckets,
			ConstLabels: constLabels,
		}),
		delLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "delete_latency_ns",
			Help:        "Remove latency in nanoseconds",
			Buckets:     latencyBuckets,
			ConstLabels: constLabels,
		}),
	}
	reg.MustRegister(a.hits, a.misses, a.evictions, a.getLatency, a.setLatency, a.delLatency)
	return a
}

// RecordGet observes the latency and outcome of a Get.
func (a *Adapter) RecordGet(latencyNs int64, hit bool) {
	if hit {
		a.hits.Inc()
	} else {
		a.misses.Inc()
	}
	a.getLatency.Observe(float64(latencyNs))
}

// RecordSet observes the latency of a Put.
func (a *Adapter) RecordSet(latencyNs int64) {
	a.setLatency.Observe(float64(latencyNs))
}

// RecordDelete observes the latency of a Remove.
func (a *Adapter) RecordDelete(latencyNs int64) {
	a.delLatency.Observe(float64(latencyNs))
}

// RecordEviction increments the eviction counter.
func (a *Adapter) RecordEviction() {
	a.evictions.Inc()
}

// Compile-time check: ensure Adapter implements xanthos.MetricsCollector.
var _ xanthos.MetricsCollector = (*Adapter)(nil)
