// Package store provides a high-level, generic interface for resource storage
// operations with unified error handling. It defines the contract that every
// uKV store implementation (local or remote) has to fulfil.
//
// The package focuses on:
//   - A unified interface (IStore) for resource operations across different backends
//   - A typed error system shared by the store, the wire protocol and the client
//
// Key Components:
//
//   - IStore Interface: The core abstraction defining operations for interacting with
//     a resource store: Create, Read, Update, Delete, AppendToList and RemoveFromList.
//     The interface is parameterized over the payload type T of the stored
//     resource.Resource values. Create and Update are both unconditional upserts.
//
//   - Error System: A structured error reporting mechanism using typed return codes
//     (RetCode) and descriptive messages. The label of each code is part of the
//     textual wire protocol ("Error: Key not found: humans"), which allows remote
//     clients to reconstruct the typed error. Errors can be matched with errors.Is
//     against the exported sentinels (ErrKeyNotFound, ErrInvalidResourceType, ...).
//
// Implementations:
//
//	- JSON Store (jstore): A local store guarded by a single mutex that
//	  optionally persists the complete map as a JSON snapshot after every
//	  successful mutation.
//	  Available in the "github.com/ValentinKolb/uKV/lib/store/jstore" package.
//
//	- RPC Store (rpc/client): A remote implementation that forwards every
//	  operation as a text command over UDP to a ukv server.
//	  Available in the "github.com/ValentinKolb/uKV/rpc/client" package.
//
// A reusable conformance test suite for implementations lives in
// "github.com/ValentinKolb/uKV/lib/store/testing".
package store
