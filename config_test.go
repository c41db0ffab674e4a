// config_test.go: tests for builder validation
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package xanthos

import (
	"testing"

	"github.com/agilira/go-errors"
)

func TestBuilder_Defaults(t *testing.T) {
	m, err := NewBuilder[string, int]().MaximumCapacity(100).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if m.Capacity() != 100 {
		t.Errorf("expected capacity 100, got %d", m.Capacity())
	}
	if len(m.readBuffers) != nextPowerOf2(DefaultConcurrencyLevel) {
		t.Errorf("expected %d read buffer stripes, got %d",
			nextPowerOf2(DefaultConcurrencyLevel), len(m.readBuffers))
	}
}

func TestBuilder_Validation(t *testing.T) {
	tests := []struct {
		name         string
		builder      *Builder[string, int]
		expectedCode errors.ErrorCode
	}{
		{
			name:         "CapacityNotSet",
			builder:      NewBuilder[string, int](),
			expectedCode: ErrCodeCapacityNotSet,
		},
		{
			name:         "NegativeCapacity",
			builder:      NewBuilder[string, int]().MaximumCapacity(-1),
			expectedCode: ErrCodeInvalidCapacity,
		},
		{
			name:         "ZeroConcurrencyLevel",
			builder:      NewBuilder[string, int]().MaximumCapacity(10).ConcurrencyLevel(0),
			expectedCode: ErrCodeInvalidConcurrencyLevel,
		},
		{
			name:         "NegativeConcurrencyLevel",
			builder:      NewBuilder[string, int]().MaximumCapacity(10).ConcurrencyLevel(-4),
			expectedCode: ErrCodeInvalidConcurrencyLevel,
		},
		{
			name:         "NegativeInitialCapacity",
			builder:      NewBuilder[string, int]().MaximumCapacity(10).InitialCapacity(-1),
			expectedCode: ErrCodeInvalidInitialCapacity,
		},
		{
			name:         "NilWeigher",
			builder:      NewBuilder[string, int]().MaximumCapacity(10).Weigher(nil),
			expectedCode: ErrCodeInvalidWeigher,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := tt.builder.Build()
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if m != nil {
				t.Error("expected a nil map on validation failure")
			}
			if code := GetErrorCode(err); code != tt.expectedCode {
				t.Errorf("expected code %s, got %s", tt.expectedCode, code)
			}
			if !IsConfigError(err) {
				t.Error("expected IsConfigError to be true")
			}
		})
	}
}

func TestBuilder_ZeroCapacityAllowed(t *testing.T) {
	m, err := NewBuilder[string, int]().MaximumCapacity(0).Build()
	if err != nil {
		t.Fatalf("a zero maximum capacity is valid, got: %v", err)
	}
	if m.Capacity() != 0 {
		t.Errorf("expected capacity 0, got %d", m.Capacity())
	}
}

func TestBuilder_ConcurrencyLevelRounding(t *testing.T) {
	m, err := NewBuilder[string, int]().
		MaximumCapacity(10).
		ConcurrencyLevel(5).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(m.readBuffers) != 8 {
		t.Errorf("expected 8 stripes for concurrency level 5, got %d", len(m.readBuffers))
	}
}

func TestBuilder_ValueEquals(t *testing.T) {
	// Compare only the first rune so "apple" equals "avocado".
	m, err := NewBuilder[string, string]().
		MaximumCapacity(10).
		ValueEquals(func(a, b string) bool { return a[0] == b[0] }).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	m.Put("fruit", "apple")
	if !m.ContainsValue("avocado") {
		t.Error("expected the custom equality predicate to be used")
	}
}
