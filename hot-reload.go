// hot-reload.go: dynamic capacity reconfiguration with Argus integration
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthos

import (
	"sync"
	"time"

	"github.com/agilira/argus"
	"github.com/agilira/go-errors"
)

// Resizable is the slice of the map surface the watcher needs. *Map
// satisfies it for any key/value types.
type Resizable interface {
	Capacity() int64
	SetCapacity(capacity int64) error
}

// HotCapacity watches a configuration file and applies capacity changes to a
// running map. Because SetCapacity takes effect immediately (the map
// re-evicts down to the new bound under the maintenance lock), every change
// in the file is fully effective without reconstruction.
type HotCapacity struct {
	target  Resizable
	watcher *argus.Watcher
	logger  Logger
	mu      sync.RWMutex
	current int64

	// OnReload is called after a capacity change is successfully applied.
	// This callback is optional and must be fast and non-blocking.
	OnReload func(oldCapacity, newCapacity int64)
}

// HotCapacityOptions configures hot reload behavior.
type HotCapacityOptions struct {
	// ConfigPath is the path to the configuration file to watch.
	// Supports JSON, YAML, TOML, HCL, INI, Properties formats.
	ConfigPath string

	// PollInterval is how often to check for configuration changes.
	// Default: 1 second. Minimum: 100ms.
	PollInterval time.Duration

	// OnReload is called after a capacity change is successfully applied.
	OnReload func(oldCapacity, newCapacity int64)

	// Logger for hot reload operations. If nil, NoOpLogger is used.
	Logger Logger
}

// NewHotCapacity creates a watcher that keeps the map's capacity in sync
// with a configuration file.
//
// Example configuration file (YAML):
//
//	map:
//	  capacity: 10000
//
// Supported configuration keys:
//   - map.capacity (int): weight budget, applied via SetCapacity
func NewHotCapacity(target Resizable, opts HotCapacityOptions) (*HotCapacity, error) {
	if opts.ConfigPath == "" {
		return nil, errors.NewWithField(ErrCodeInvalidConfig, "config path is required", "option", "ConfigPath")
	}

	if opts.PollInterval == 0 {
		opts.PollInterval = 1 * time.Second
	} else if opts.PollInterval < 100*time.Millisecond {
		opts.PollInterval = 100 * time.Millisecond
	}

	if opts.Logger == nil {
		opts.Logger = NoOpLogger{}
	}

	hc := &HotCapacity{
		target:   target,
		logger:   opts.Logger,
		current:  target.Capacity(),
		OnReload: opts.OnReload,
	}

	argusConfig := argus.Config{
		PollInterval: opts.PollInterval,
	}

	watcher, err := argus.UniversalConfigWatcherWithConfig(opts.ConfigPath, hc.handleConfigChange, argusConfig)
	if err != nil {
		return nil, err
	}
	hc.watcher = watcher

	return hc, nil
}

// Start begins watching the configuration file for changes.
func (hc *HotCapacity) Start() error {
	if hc.watcher.IsRunning() {
		return nil // Already started
	}
	return hc.watcher.Start()
}

// Stop stops watching the configuration file.
func (hc *HotCapacity) Stop() error {
	return hc.watcher.Stop()
}

// Current returns the last applied capacity (thread-safe).
func (hc *HotCapacity) Current() int64 {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	return hc.current
}

// handleConfigChange is called by Argus when configuration changes.
func (hc *HotCapacity) handleConfigChange(configData map[string]interface{}) {
	capacity, ok := parseCapacity(configData)
	if !ok {
		hc.logger.Warn("ignoring config change without a valid map.capacity")
		return
	}

	hc.mu.Lock()
	old := hc.current
	if capacity == old {
		hc.mu.Unlock()
		return
	}
	hc.current = capacity
	hc.mu.Unlock()

	if err := hc.target.SetCapacity(capacity); err != nil {
		hc.logger.Error("failed to apply capacity change", "capacity", capacity, "error", err)
		return
	}
	hc.logger.Info("capacity reloaded", "old", old, "new", capacity)

	if hc.OnReload != nil {
		hc.OnReload(old, capacity)
	}
}

// parseCapacity extracts map.capacity from Argus config data. The section
// may be nested under "map" or provided flat (format dependent).
func parseCapacity(data map[string]interface{}) (int64, bool) {
	section, ok := data["map"].(map[string]interface{})
	if !ok {
		if _, flat := data["capacity"]; flat {
			section = data
		} else {
			return 0, false
		}
	}
	return parseNonNegativeInt64(section["capacity"])
}

// parseNonNegativeInt64 extracts a non-negative integer from an interface{}
// value. Supports both int and float64 (YAML/JSON may vary).
func parseNonNegativeInt64(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case int:
		if v >= 0 {
			return int64(v), true
		}
	case int64:
		if v >= 0 {
			return v, true
		}
	case float64:
		if v >= 0 {
			return int64(v), true
		}
	}
	return 0, false
}
