package store

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorFormat(t *testing.T) {
	testCases := []struct {
		err      *Error
		expected string
	}{
		{NewError(RetCKeyNotFound, "humans"), "Key not found: humans"},
		{NewError(RetCInvalidResourceType, "alice"), "Invalid resource type: alice"},
		{NewError(RetCIoFailure, "disk full"), "IO error: disk full"},
		{NewError(RetCSerializationFailure, "bad"), "JSON error: bad"},
		{NewError(RetCLockFailure, ""), "Lock error"},
	}

	for _, tc := range testCases {
		if tc.err.Error() != tc.expected {
			t.Errorf("Expected %q, got %q", tc.expected, tc.err.Error())
		}
	}
}

func TestErrorIs(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", NewError(RetCKeyNotFound, "k"))

	if !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("Expected wrapped error to match ErrKeyNotFound")
	}
	if errors.Is(err, ErrInvalidResourceType) {
		t.Errorf("Expected wrapped error not to match ErrInvalidResourceType")
	}

	var storeErr *Error
	if !errors.As(err, &storeErr) || storeErr.Msg != "k" {
		t.Errorf("Expected errors.As to find the store error, got %v", storeErr)
	}
}

func TestParseRetCode(t *testing.T) {
	for c := RetCIoFailure; c <= RetCLockFailure; c++ {
		msg := NewError(c, "detail").Error()
		parsed, ok := ParseRetCode(msg)
		if !ok || parsed != c {
			t.Errorf("Expected %s to parse back to code %d, got %d (ok=%t)", msg, c, parsed, ok)
		}
	}

	if _, ok := ParseRetCode("something else"); ok {
		t.Errorf("Expected unknown label not to parse")
	}
}
