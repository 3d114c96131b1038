package store

import (
	"fmt"
	"github.com/ValentinKolb/uKV/lib/resource"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// IStore is the generic interface for interacting with a resource store.
// All write operations return only an error (nil on success),
// while read operations return the requested data along with an error (nil on success).
// Errors returned by implementations should be of type *Error.
type IStore[T comparable] interface {
	// Create inserts or overwrites the resource for a key (unconditional upsert).
	Create(key string, res resource.Resource[T]) (err error)
	// Read returns a copy of the resource for a key. The boolean return value indicates whether the key was found.
	Read(key string) (res resource.Resource[T], loaded bool, err error)
	// Update inserts or overwrites the resource for a key. It behaves exactly like Create.
	Update(key string, res resource.Resource[T]) (err error)
	// Delete removes a key. Deleting a key that does not exist is not an error.
	Delete(key string) (err error)
	// AppendToList adds items at the tail of the list stored under key.
	// It fails with RetCKeyNotFound if the key is absent and with RetCInvalidResourceType if the resource is not a list.
	AppendToList(key string, items []T) (err error)
	// RemoveFromList removes every element equal to item from the list stored under key.
	// Removing an item that is not in the list is not an error.
	// It fails with RetCKeyNotFound if the key is absent and with RetCInvalidResourceType if the resource is not a list.
	RemoveFromList(key string, item T) (err error)
	// GetInfo returns metadata about the store.
	// It is not guaranteed that all fields are filled in or that the information is up-to-date!
	GetInfo() (info Info, err error)
}

// Info holds metadata about a store
type Info struct {
	Keys          int    `json:"keys"`
	Singles       int    `json:"singles"`
	Lists         int    `json:"lists"`
	ListItems     int    `json:"list_items"`
	Persistent    bool   `json:"persistent"`
	Path          string `json:"path,omitempty"`
	SnapshotBytes int    `json:"snapshot_bytes"`
	SnapshotCount uint64 `json:"snapshot_count"`
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode)
// and an error message.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message.
}

// Error implements the error interface.
// The format is "<label>: <msg>" or just "<label>" if there is no message.
func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Code.String()
	}
	return fmt.Sprintf("%s: %s", e.Code.String(), e.Msg)
}

// Is reports whether target is an *Error with the same code.
// This allows errors.Is(err, store.ErrKeyNotFound).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewError creates a new store error with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// Sentinel errors for use with errors.Is
var (
	ErrIoFailure            = &Error{Code: RetCIoFailure}
	ErrSerializationFailure = &Error{Code: RetCSerializationFailure}
	ErrKeyNotFound          = &Error{Code: RetCKeyNotFound}
	ErrInvalidResourceType  = &Error{Code: RetCInvalidResourceType}
	ErrLockFailure          = &Error{Code: RetCLockFailure}
)

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess              RetCode = iota // 0: Command executed successfully.
	RetCInternalError                       // 1: Command failed due to an internal error.
	RetCIoFailure                           // 2: Reading or writing the snapshot file failed.
	RetCSerializationFailure                // 3: Encoding or decoding failed.
	RetCKeyNotFound                         // 4: The key does not exist.
	RetCInvalidResourceType                 // 5: The operation is not compatible with the stored variant.
	RetCLockFailure                         // 6: The store lock is unusable.
)

// String returns the label of the return code. The labels are part of the
// textual wire format ("Error: <label>: <msg>") and must not change.
func (c RetCode) String() string {
	switch c {
	case RetCSuccess:
		return "Success"
	case RetCIoFailure:
		return "IO error"
	case RetCSerializationFailure:
		return "JSON error"
	case RetCKeyNotFound:
		return "Key not found"
	case RetCInvalidResourceType:
		return "Invalid resource type"
	case RetCLockFailure:
		return "Lock error"
	default:
		return "Internal error"
	}
}

// ParseRetCode finds the return code whose label prefixes s.
// It returns RetCInternalError and false if no label matches.
func ParseRetCode(s string) (RetCode, bool) {
	for c := RetCIoFailure; c <= RetCLockFailure; c++ {
		label := c.String()
		if len(s) >= len(label) && s[:len(label)] == label {
			return c, true
		}
	}
	return RetCInternalError, false
}
