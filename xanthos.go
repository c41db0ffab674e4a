// xanthos.go: version and default constants
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package xanthos

const (
	// Version of Xanthos map library
	Version = "v0.1.0-dev"

	// DefaultConcurrencyLevel is the default estimate of concurrently
	// updating goroutines, used to size the striped read buffers
	DefaultConcurrencyLevel = 16

	// DefaultInitialCapacity is the default presize hint for the backing table
	DefaultInitialCapacity = 16
)
