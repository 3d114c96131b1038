// Package jstore provides the local implementation of store.IStore.
//
// All resources are held in a single map guarded by one mutex. After every
// successful mutating call (Create, Update, Delete, AppendToList,
// RemoveFromList) the complete map is serialized as one JSON object and
// written to the snapshot file while the lock is still held:
//
//	{"alice":{"Single":{"name":"Alice"}},"team":{"List":[{"name":"Bob"}]}}
//
// A slow disk therefore stalls every other request. This is accepted, the
// store is meant for small data sets.
//
// Persistence:
//
//   - The snapshot is loaded once in NewJSONStore. A missing or empty file
//     starts an empty store, a file with invalid content is logged as a
//     warning and ignored.
//   - The path ":memory:" (MemoryPath) disables all file I/O.
//   - By default the file is truncated and rewritten in place. A crash during
//     the write can leave a truncated file behind. Options.AtomicReplace
//     switches to write-temp-then-rename.
//   - If a mutation succeeded but the snapshot could not be written, the
//     change stays in memory and the I/O error is returned to the caller.
//
// Reads return deep copies, callers can never modify stored lists.
//
// Usage:
//
//	s, err := jstore.NewJSONStore[resource.Human](jstore.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	_ = s.Create("alice", resource.NewSingle(resource.Human{Name: "Alice"}))
package jstore
