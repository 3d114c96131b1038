// Package testing provides a standardised test suite for store
// implementations that satisfy the store.IStore interface.
//
// The suite checks the observable contract of a store: round trips of both
// resource variants, upsert semantics of Create and Update, idempotent
// deletes, list append order, removal of all matching list elements, typed
// errors for missing keys and variant mismatches, deep copies on read and
// concurrent access to distinct keys.
//
// It is run against the local JSON store and against the RPC client talking
// to a live server, so both implementations are held to the same behaviour.
//
// Example usage:
//
//	factory := func(t *testing.T) store.IStore[resource.Human] {
//		s, err := jstore.NewJSONStore[resource.Human](jstore.Options{Path: jstore.MemoryPath})
//		if err != nil {
//			t.Fatal(err)
//		}
//		return s
//	}
//
//	storetesting.RunIStoreTests(t, "JSONStore", factory)
package testing
