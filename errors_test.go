// errors_test.go: tests for structured error handling
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package xanthos

import (
	"testing"

	"github.com/agilira/go-errors"
)

func TestErrorCodes(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode errors.ErrorCode
	}{
		{"InvalidConcurrencyLevel", NewErrInvalidConcurrencyLevel(0), ErrCodeInvalidConcurrencyLevel},
		{"InvalidInitialCapacity", NewErrInvalidInitialCapacity(-1), ErrCodeInvalidInitialCapacity},
		{"InvalidCapacity", NewErrInvalidCapacity(-5), ErrCodeInvalidCapacity},
		{"CapacityNotSet", NewErrCapacityNotSet(), ErrCodeCapacityNotSet},
		{"InvalidWeigher", NewErrInvalidWeigher(), ErrCodeInvalidWeigher},
		{"IteratorState", NewErrIteratorState("remove"), ErrCodeIteratorState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code := GetErrorCode(tt.err); code != tt.expectedCode {
				t.Errorf("expected code %s, got %s", tt.expectedCode, code)
			}
			if !errors.HasCode(tt.err, tt.expectedCode) {
				t.Error("HasCode must match the code the constructor assigned")
			}
		})
	}
}

func TestErrorClassification(t *testing.T) {
	if !IsConfigError(NewErrInvalidCapacity(-1)) {
		t.Error("a capacity error is a config error")
	}
	if IsConfigError(NewErrIteratorState("next")) {
		t.Error("an iterator error is not a config error")
	}
	if !IsIteratorError(NewErrIteratorState("set_value")) {
		t.Error("expected IsIteratorError to be true")
	}
	if IsIteratorError(nil) {
		t.Error("nil is never an iterator error")
	}
	if IsConfigError(nil) {
		t.Error("nil is never a config error")
	}
}

func TestErrorContext(t *testing.T) {
	err := NewErrInvalidConcurrencyLevel(-3)
	ctx := GetErrorContext(err)
	if ctx == nil {
		t.Fatal("expected context on the error")
	}
	if ctx["provided_level"] != -3 {
		t.Errorf("expected provided_level -3, got %v", ctx["provided_level"])
	}
	if ctx["minimum_required"] != 1 {
		t.Errorf("expected minimum_required 1, got %v", ctx["minimum_required"])
	}
}

func TestErrorContext_Nil(t *testing.T) {
	if GetErrorContext(nil) != nil {
		t.Error("expected nil context for a nil error")
	}
	if GetErrorCode(nil) != "" {
		t.Error("expected an empty code for a nil error")
	}
}
