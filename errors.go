// errors.go: structured error handling for xanthos map operations
//
// This file provides structured error types using the go-errors library,
// enabling rich error context, categorization, and standardized error codes
// for configuration and iterator misuse failures. Concurrency conflicts are
// never surfaced as errors; they are resolved internally by retry loops.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0
package xanthos

import (
	goerrors "errors"

	"github.com/agilira/go-errors"
)

// Error codes for Xanthos map operations
const (
	// Configuration errors (1xxx)
	ErrCodeInvalidConfig           errors.ErrorCode = "XANTHOS_INVALID_CONFIG"
	ErrCodeInvalidConcurrencyLevel errors.ErrorCode = "XANTHOS_INVALID_CONCURRENCY_LEVEL"
	ErrCodeInvalidInitialCapacity  errors.ErrorCode = "XANTHOS_INVALID_INITIAL_CAPACITY"
	ErrCodeInvalidCapacity         errors.ErrorCode = "XANTHOS_INVALID_CAPACITY"
	ErrCodeCapacityNotSet          errors.ErrorCode = "XANTHOS_CAPACITY_NOT_SET"
	ErrCodeInvalidWeigher          errors.ErrorCode = "XANTHOS_INVALID_WEIGHER"

	// Usage errors (2xxx)
	ErrCodeIteratorState errors.ErrorCode = "XANTHOS_ITERATOR_STATE"
)

// Common error messages
const (
	msgInvalidConcurrencyLevel = "invalid concurrency level: must be greater than 0"
	msgInvalidInitialCapacity  = "invalid initial capacity: must be non-negative"
	msgInvalidCapacity         = "invalid maximum capacity: must be non-negative"
	msgCapacityNotSet          = "maximum capacity was never set"
	msgInvalidWeigher          = "weigher function cannot be nil"
	msgIteratorState           = "iterator is not positioned on an entry"
)

// NewErrInvalidConcurrencyLevel creates an error for a non-positive concurrency level
func NewErrInvalidConcurrencyLevel(level int) error {
	return errors.NewWithContext(ErrCodeInvalidConcurrencyLevel, msgInvalidConcurrencyLevel, map[string]interface{}{
		"provided_level":   level,
		"minimum_required": 1,
	})
}

// NewErrInvalidInitialCapacity creates an error for a negative initial capacity
func NewErrInvalidInitialCapacity(capacity int) error {
	return errors.NewWithContext(ErrCodeInvalidInitialCapacity, msgInvalidInitialCapacity, map[string]interface{}{
		"provided_capacity": capacity,
		"minimum_required":  0,
	})
}

// NewErrInvalidCapacity creates an error for a negative maximum capacity
func NewErrInvalidCapacity(capacity int64) error {
	return errors.NewWithContext(ErrCodeInvalidCapacity, msgInvalidCapacity, map[string]interface{}{
		"provided_capacity": capacity,
		"minimum_required":  0,
	})
}

// NewErrCapacityNotSet creates an error for Build without a maximum capacity
func NewErrCapacityNotSet() error {
	return errors.New(ErrCodeCapacityNotSet, msgCapacityNotSet)
}

// NewErrInvalidWeigher creates an error for a nil weigher function
func NewErrInvalidWeigher() error {
	return errors.New(ErrCodeInvalidWeigher, msgInvalidWeigher)
}

// NewErrIteratorState creates an error for iterator misuse, such as calling
// Remove before Next or twice in a row.
func NewErrIteratorState(operation string) error {
	return errors.NewWithField(ErrCodeIteratorState, msgIteratorState, "operation", operation)
}

// IsConfigError checks if error is a configuration error
func IsConfigError(err error) bool {
	if err == nil {
		return false
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		code := coder.ErrorCode()
		return code == ErrCodeInvalidConfig || code == ErrCodeInvalidConcurrencyLevel ||
			code == ErrCodeInvalidInitialCapacity || code == ErrCodeInvalidCapacity ||
			code == ErrCodeCapacityNotSet || code == ErrCodeInvalidWeigher
	}
	return false
}

// IsIteratorError checks if error is an iterator misuse error
func IsIteratorError(err error) bool {
	return errors.HasCode(err, ErrCodeIteratorState)
}

// GetErrorCode extracts the error code from an error
func GetErrorCode(err error) errors.ErrorCode {
	if err == nil {
		return ""
	}
	var coder errors.ErrorCoder
	if goerrors.As(err, &coder) {
		return coder.ErrorCode()
	}
	return ""
}

// GetErrorContext extracts context from an error
func GetErrorContext(err error) map[string]interface{} {
	if err == nil {
		return nil
	}
	var xerr *errors.Error
	if goerrors.As(err, &xerr) {
		return xerr.Context
	}
	return nil
}
