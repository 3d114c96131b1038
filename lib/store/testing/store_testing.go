package testing

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/ValentinKolb/uKV/lib/resource"
	"github.com/ValentinKolb/uKV/lib/store"
)

// StoreFactory creates a new, empty instance of an IStore implementation.
// Implementations that hold resources (files, sockets) should register their
// cleanup with t.Cleanup.
type StoreFactory func(t *testing.T) store.IStore[resource.Human]

// RunIStoreTests runs a comprehensive test suite for an IStore implementation.
func RunIStoreTests(t *testing.T, name string, factory StoreFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("RoundTrip", func(t *testing.T) {
			testRoundTrip(t, factory(t))
		})

		t.Run("Upsert", func(t *testing.T) {
			testUpsert(t, factory(t))
		})

		t.Run("Delete", func(t *testing.T) {
			testDelete(t, factory(t))
		})

		t.Run("AppendOrder", func(t *testing.T) {
			testAppendOrder(t, factory(t))
		})

		t.Run("RemoveAllMatches", func(t *testing.T) {
			testRemoveAllMatches(t, factory(t))
		})

		t.Run("TypeMismatch", func(t *testing.T) {
			testTypeMismatch(t, factory(t))
		})

		t.Run("MissingKey", func(t *testing.T) {
			testMissingKey(t, factory(t))
		})

		t.Run("ReadReturnsCopy", func(t *testing.T) {
			testReadReturnsCopy(t, factory(t))
		})

		t.Run("EdgeCases", func(t *testing.T) {
			testEdgeCases(t, factory(t))
		})

		t.Run("ConcurrentDistinctKeys", func(t *testing.T) {
			testConcurrentDistinctKeys(t, factory(t))
		})
	})
}

// --------------------------------------------------------------------------
// Helper functions
// --------------------------------------------------------------------------

func human(name string) resource.Human {
	return resource.Human{Name: name}
}

// mustRead reads a key and fails the test if it is absent or the read fails
func mustRead(t *testing.T, s store.IStore[resource.Human], key string) resource.Resource[resource.Human] {
	t.Helper()
	res, loaded, err := s.Read(key)
	if err != nil {
		t.Fatalf("Read(%s) failed: %v", key, err)
	}
	if !loaded {
		t.Fatalf("Expected key %s to exist", key)
	}
	return res
}

// expectResource reads a key and compares it to the expected resource
func expectResource(t *testing.T, s store.IStore[resource.Human], key string, expected resource.Resource[resource.Human]) {
	t.Helper()
	res := mustRead(t, s, key)
	if !res.Equal(expected) {
		t.Errorf("Expected %s for key %s, got %s", expected, key, res)
	}
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testRoundTrip(t *testing.T, s store.IStore[resource.Human]) {
	single := resource.NewSingle(human("Alice"))
	if err := s.Create("alice", single); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	expectResource(t, s, "alice", single)

	list := resource.NewList(human("Alice"), human("Bob"))
	if err := s.Create("team", list); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	expectResource(t, s, "team", list)

	empty := resource.NewList[resource.Human]()
	if err := s.Create("empty", empty); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	expectResource(t, s, "empty", empty)
}

func testUpsert(t *testing.T, s store.IStore[resource.Human]) {
	if err := s.Update("k", resource.NewSingle(human("Alice"))); err != nil {
		t.Fatalf("Update of absent key failed: %v", err)
	}
	expectResource(t, s, "k", resource.NewSingle(human("Alice")))

	if err := s.Create("k", resource.NewList(human("Bob"))); err != nil {
		t.Fatalf("Create over existing key failed: %v", err)
	}
	expectResource(t, s, "k", resource.NewList(human("Bob")))

	if err := s.Update("k", resource.NewSingle(human("Carol"))); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	expectResource(t, s, "k", resource.NewSingle(human("Carol")))
}

func testDelete(t *testing.T, s store.IStore[resource.Human]) {
	if err := s.Create("k", resource.NewSingle(human("Alice"))); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := s.Delete("k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, loaded, err := s.Read("k"); err != nil || loaded {
		t.Errorf("Expected deleted key to be absent, got loaded=%t err=%v", loaded, err)
	}

	// deleting an absent key is not an error
	if err := s.Delete("k"); err != nil {
		t.Errorf("Expected Delete of absent key to succeed, got %v", err)
	}
	if err := s.Delete("never-existed"); err != nil {
		t.Errorf("Expected Delete of absent key to succeed, got %v", err)
	}
}

func testAppendOrder(t *testing.T, s store.IStore[resource.Human]) {
	if err := s.Create("team", resource.NewList(human("Alice"))); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := s.AppendToList("team", []resource.Human{human("Bob"), human("Carol")}); err != nil {
		t.Fatalf("AppendToList failed: %v", err)
	}
	if err := s.AppendToList("team", []resource.Human{human("Alice")}); err != nil {
		t.Fatalf("AppendToList failed: %v", err)
	}
	expectResource(t, s, "team", resource.NewList(human("Alice"), human("Bob"), human("Carol"), human("Alice")))

	// appending nothing keeps the list unchanged
	if err := s.AppendToList("team", []resource.Human{}); err != nil {
		t.Fatalf("AppendToList with no items failed: %v", err)
	}
	expectResource(t, s, "team", resource.NewList(human("Alice"), human("Bob"), human("Carol"), human("Alice")))
}

func testRemoveAllMatches(t *testing.T, s store.IStore[resource.Human]) {
	if err := s.Create("team", resource.NewList(human("Alice"), human("Bob"), human("Alice"), human("Carol"))); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := s.RemoveFromList("team", human("Alice")); err != nil {
		t.Fatalf("RemoveFromList failed: %v", err)
	}
	expectResource(t, s, "team", resource.NewList(human("Bob"), human("Carol")))

	// removing an item that is not in the list is a no-op
	if err := s.RemoveFromList("team", human("Nobody")); err != nil {
		t.Fatalf("RemoveFromList of missing item failed: %v", err)
	}
	expectResource(t, s, "team", resource.NewList(human("Bob"), human("Carol")))

	// removing the last elements leaves an empty list, not an absent key
	_ = s.RemoveFromList("team", human("Bob"))
	_ = s.RemoveFromList("team", human("Carol"))
	expectResource(t, s, "team", resource.NewList[resource.Human]())
}

func testTypeMismatch(t *testing.T, s store.IStore[resource.Human]) {
	single := resource.NewSingle(human("Alice"))
	if err := s.Create("alice", single); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	err := s.AppendToList("alice", []resource.Human{human("Bob")})
	if !errors.Is(err, store.ErrInvalidResourceType) {
		t.Errorf("Expected ErrInvalidResourceType from AppendToList, got %v", err)
	}

	err = s.RemoveFromList("alice", human("Alice"))
	if !errors.Is(err, store.ErrInvalidResourceType) {
		t.Errorf("Expected ErrInvalidResourceType from RemoveFromList, got %v", err)
	}

	// the failed calls must not change the stored resource
	expectResource(t, s, "alice", single)
}

func testMissingKey(t *testing.T, s store.IStore[resource.Human]) {
	err := s.AppendToList("missing", []resource.Human{human("Bob")})
	if !errors.Is(err, store.ErrKeyNotFound) {
		t.Errorf("Expected ErrKeyNotFound from AppendToList, got %v", err)
	}

	err = s.RemoveFromList("missing", human("Bob"))
	if !errors.Is(err, store.ErrKeyNotFound) {
		t.Errorf("Expected ErrKeyNotFound from RemoveFromList, got %v", err)
	}

	if _, loaded, err := s.Read("missing"); err != nil || loaded {
		t.Errorf("Expected missing key to stay absent, got loaded=%t err=%v", loaded, err)
	}
}

func testReadReturnsCopy(t *testing.T, s store.IStore[resource.Human]) {
	items := []resource.Human{human("Alice"), human("Bob")}
	if err := s.Create("team", resource.NewList(items...)); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// mutating the input slice must not affect the store
	items[0] = human("Mallory")

	res := mustRead(t, s, "team")
	list, ok := res.List()
	if !ok {
		t.Fatalf("Expected a list, got %s", res)
	}
	list[1] = human("Eve")

	expectResource(t, s, "team", resource.NewList(human("Alice"), human("Bob")))
}

func testEdgeCases(t *testing.T, s store.IStore[resource.Human]) {
	keys := []string{
		"UPPER",
		"upper",
		"ünïcödé",
		"with/slash",
		"key:with:colons",
	}

	// keys are case sensitive and may contain any non space characters
	for i, key := range keys {
		if err := s.Create(key, resource.NewSingle(human(fmt.Sprintf("h%d", i)))); err != nil {
			t.Fatalf("Create(%s) failed: %v", key, err)
		}
	}
	for i, key := range keys {
		expectResource(t, s, key, resource.NewSingle(human(fmt.Sprintf("h%d", i))))
	}

	// names with spaces and an empty name are valid payloads
	if err := s.Create("spaces", resource.NewList(human("first last"), human(""))); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	expectResource(t, s, "spaces", resource.NewList(human("first last"), human("")))
}

func testConcurrentDistinctKeys(t *testing.T, s store.IStore[resource.Human]) {
	const numWorkers = 32

	var wg sync.WaitGroup
	errs := make(chan error, numWorkers)

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", id)
			if err := s.Create(key, resource.NewList(human(fmt.Sprintf("worker-%d", id)))); err != nil {
				errs <- fmt.Errorf("create %s: %w", key, err)
				return
			}
			if err := s.AppendToList(key, []resource.Human{human("extra")}); err != nil {
				errs <- fmt.Errorf("append %s: %w", key, err)
			}
		}(i)
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		t.Errorf("Concurrent operation failed: %v", err)
	}

	for i := 0; i < numWorkers; i++ {
		key := fmt.Sprintf("key-%d", i)
		expectResource(t, s, key, resource.NewList(human(fmt.Sprintf("worker-%d", i)), human("extra")))
	}
}
