package store

import (
	"bytes"
	"sync"

	"github.com/google/btree"
)

// degree mirrors the corpus's own btree.New(2) call in
// kv/test_raftstore's region-range index.
const degree = 2

type entry struct {
	key   []byte
	value []byte
}

func (e *entry) Less(than btree.Item) bool {
	return bytes.Compare(e.key, than.(*entry).key) < 0
}

// MemStore is an in-memory ordered key-value store used by tests and
// by callers that don't need real persistence. Writes are applied
// directly (it has no transaction log of its own); reads go through a
// Snapshot taken with NewSnapshot, which copy-on-write clones the
// underlying tree so concurrent writes never perturb an
// already-acquired snapshot.
type MemStore struct {
	mu   sync.Mutex
	tree *btree.BTree
}

func NewMemStore() *MemStore {
	return &MemStore{tree: btree.New(degree)}
}

// Set inserts or overwrites key with value.
func (s *MemStore) Set(key, value []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tree.ReplaceOrInsert(&entry{key: append([]byte(nil), key...), value: append([]byte(nil), value...)})
}

// Delete removes key, if present.
func (s *MemStore) Delete(key []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tree.Delete(&entry{key: key})
}

func (s *MemStore) NewSnapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &memSnapshot{tree: s.tree.Clone()}
}

type memSnapshot struct {
	tree *btree.BTree
}

func (s *memSnapshot) NewIterator() Iterator {
	return &memIterator{tree: s.tree}
}

func (s *memSnapshot) Release() {}

// memIterator walks a frozen btree snapshot. Unlike the corpus's llrb-
// backed MemStorage iterator (kv/storage/mem_storage.go), it holds its
// current key/value directly rather than re-deriving them from the
// underlying item on every access, since the snapshot is immutable for
// the iterator's lifetime.
type memIterator struct {
	tree    *btree.BTree
	item    *entry
	present bool
}

func (it *memIterator) SeekToFirst() {
	it.present = false
	it.tree.Ascend(func(i btree.Item) bool {
		it.item = i.(*entry)
		it.present = true
		return false
	})
}

func (it *memIterator) Seek(key []byte) {
	it.present = false
	it.tree.AscendGreaterOrEqual(&entry{key: key}, func(i btree.Item) bool {
		it.item = i.(*entry)
		it.present = true
		return false
	})
}

func (it *memIterator) Next() {
	if !it.present {
		return
	}
	last := it.item
	it.present = false
	first := true
	it.tree.AscendGreaterOrEqual(last, func(i btree.Item) bool {
		if first {
			first = false
			return true
		}
		it.item = i.(*entry)
		it.present = true
		return false
	})
}

func (it *memIterator) Valid() bool { return it.present }

func (it *memIterator) Key() []byte { return it.item.key }

func (it *memIterator) Value() ([]byte, error) { return it.item.value, nil }

func (it *memIterator) Close() {}
