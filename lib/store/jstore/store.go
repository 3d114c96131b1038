package jstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ValentinKolb/uKV/lib/resource"
	"github.com/ValentinKolb/uKV/lib/store"
	"github.com/VictoriaMetrics/metrics"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("store")

// MemoryPath is the sentinel path that disables all file I/O
const MemoryPath = ":memory:"

// DefaultPath is the snapshot file used when nothing else is configured
const DefaultPath = "db.json"

var (
	snapshotWrites   = metrics.GetOrCreateCounter("ukv_store_snapshot_writes_total")
	snapshotFailures = metrics.GetOrCreateCounter("ukv_store_snapshot_failures_total")
	snapshotDuration = metrics.GetOrCreateHistogram("ukv_store_snapshot_duration_seconds")
)

// Options configures a JSON store
type Options struct {
	// Path of the snapshot file. MemoryPath or an empty string disable persistence.
	Path string
	// AtomicReplace writes the snapshot to a temporary file in the same directory,
	// syncs it and renames it over Path instead of truncating Path in place.
	AtomicReplace bool
}

// DefaultOptions returns the default options (DefaultPath, in-place overwrite)
func DefaultOptions() Options {
	return Options{
		Path:          DefaultPath,
		AtomicReplace: false,
	}
}

// persistent reports whether the options enable file I/O
func (o Options) persistent() bool {
	return o.Path != "" && o.Path != MemoryPath
}

type storeImpl[T comparable] struct {
	mu   sync.Mutex
	opts Options
	data map[string]resource.Resource[T]

	snapshotBytes int
	snapshotCount uint64
}

// NewJSONStore creates a new store that keeps all resources in memory and
// rewrites the complete map as a JSON object to opts.Path after every
// successful mutation.
//
// The snapshot is loaded once: a missing or empty file yields an empty store,
// a file with invalid content is logged and ignored, a file that can not be
// read at all fails with a RetCIoFailure error.
func NewJSONStore[T comparable](opts Options) (store.IStore[T], error) {
	s := &storeImpl[T]{
		opts: opts,
		data: make(map[string]resource.Resource[T]),
	}

	if !opts.persistent() {
		Logger.Infof("json store running in memory only")
		return s, nil
	}

	if err := s.load(); err != nil {
		return nil, err
	}
	Logger.Infof("json store loaded %d keys from %s", len(s.data), opts.Path)
	return s, nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl[T]) Create(key string, res resource.Resource[T]) error {
	return s.put(key, res)
}

func (s *storeImpl[T]) Read(key string) (resource.Resource[T], bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, ok := s.data[key]
	if !ok {
		return resource.Resource[T]{}, false, nil
	}
	return res.Clone(), true, nil
}

func (s *storeImpl[T]) Update(key string, res resource.Resource[T]) error {
	return s.put(key, res)
}

func (s *storeImpl[T]) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.data, key)
	return s.persist()
}

func (s *storeImpl[T]) AppendToList(key string, items []T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.list(key)
	if err != nil {
		return err
	}

	updated, err := current.Append(items...)
	if err != nil {
		return store.NewError(store.RetCInvalidResourceType, key)
	}
	s.data[key] = updated
	return s.persist()
}

func (s *storeImpl[T]) RemoveFromList(key string, item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.list(key)
	if err != nil {
		return err
	}

	updated, _, err := current.RemoveAll(item)
	if err != nil {
		return store.NewError(store.RetCInvalidResourceType, key)
	}
	s.data[key] = updated
	return s.persist()
}

func (s *storeImpl[T]) GetInfo() (store.Info, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	info := store.Info{
		Keys:          len(s.data),
		Persistent:    s.opts.persistent(),
		SnapshotBytes: s.snapshotBytes,
		SnapshotCount: s.snapshotCount,
	}
	if info.Persistent {
		info.Path = s.opts.Path
	}
	for _, res := range s.data {
		switch res.Kind() {
		case resource.KindSingle:
			info.Singles++
		case resource.KindList:
			info.Lists++
			info.ListItems += res.Len()
		}
	}
	return info, nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// put stores a copy of res under key and persists the map
func (s *storeImpl[T]) put(key string, res resource.Resource[T]) error {
	if res.Kind() == resource.KindInvalid {
		return store.NewError(store.RetCSerializationFailure, fmt.Sprintf("resource for %s has no variant", key))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = res.Clone()
	return s.persist()
}

// list returns the resource under key if it is a List.
// The caller must hold s.mu.
func (s *storeImpl[T]) list(key string) (resource.Resource[T], error) {
	res, ok := s.data[key]
	if !ok {
		return res, store.NewError(store.RetCKeyNotFound, key)
	}
	if res.Kind() != resource.KindList {
		return res, store.NewError(store.RetCInvalidResourceType, key)
	}
	return res, nil
}

// load reads the snapshot file into s.data
func (s *storeImpl[T]) load() error {
	content, err := os.ReadFile(s.opts.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return store.NewError(store.RetCIoFailure, err.Error())
	}
	if len(bytes.TrimSpace(content)) == 0 {
		return nil
	}

	var data map[string]resource.Resource[T]
	if err := json.Unmarshal(content, &data); err != nil {
		Logger.Warningf("ignoring unreadable snapshot %s, starting with an empty store: %v", s.opts.Path, err)
		return nil
	}
	if data != nil {
		s.data = data
	}
	return nil
}

// persist writes the complete map to the snapshot file.
// The caller must hold s.mu. In memory changes are kept if the write fails.
func (s *storeImpl[T]) persist() error {
	if !s.opts.persistent() {
		return nil
	}

	start := time.Now()
	content, err := resource.EncodeJSON(s.data)
	if err != nil {
		snapshotFailures.Inc()
		return store.NewError(store.RetCSerializationFailure, err.Error())
	}

	if s.opts.AtomicReplace {
		err = writeFileAtomic(s.opts.Path, content)
	} else {
		err = os.WriteFile(s.opts.Path, content, 0o644)
	}
	if err != nil {
		snapshotFailures.Inc()
		Logger.Errorf("failed to write snapshot %s: %v", s.opts.Path, err)
		return store.NewError(store.RetCIoFailure, err.Error())
	}

	s.snapshotBytes = len(content)
	s.snapshotCount++
	snapshotWrites.Inc()
	snapshotDuration.Update(time.Since(start).Seconds())
	return nil
}

// writeFileAtomic writes content to a temporary file next to path and renames it over path
func writeFileAtomic(path string, content []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	// cleanup on any failure before the rename
	fail := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}

	if _, err := tmp.Write(content); err != nil {
		return fail(err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	return nil
}
