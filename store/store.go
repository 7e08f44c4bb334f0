// Package store defines the ordered-store contract the row-wise
// iterator consumes (spec.md §6). The underlying LSM engine is
// treated as an opaque collaborator: this package only states the
// interface and ships an in-memory implementation used by tests and
// by callers that don't need real persistence.
package store

// Iterator is a forward, seekable cursor over an ordered key space.
// It mirrors the corpus's own DBIterator contract (kv/util/engine_util),
// generalized to the plain (key, value) shape the docdb package needs
// rather than a column-family-prefixed one.
type Iterator interface {
	// Seek positions the iterator at the first entry >= key.
	Seek(key []byte)
	// SeekToFirst positions the iterator at the smallest key.
	SeekToFirst()
	// Next advances the iterator by one entry. Valid() must be checked
	// afterwards.
	Next()
	// Valid reports whether the iterator is currently positioned at an
	// entry.
	Valid() bool
	// Key returns the current entry's key. Only valid to call when
	// Valid() is true. The returned slice must not be retained past the
	// next mutating call on the iterator.
	Key() []byte
	// Value returns the current entry's value, or an error if the
	// underlying store failed to fetch it (e.g. an I/O error).
	Value() ([]byte, error)
	// Close releases resources held by the iterator.
	Close()
}

// Snapshot is a pinned, consistent view of the store, acquired once
// and read from for the iterator's whole lifetime (spec.md §5).
type Snapshot interface {
	// NewIterator returns a fresh Iterator over this snapshot.
	NewIterator() Iterator
	// Release returns the snapshot's resources. Idempotent.
	Release()
}

// Store is the handle the iterator facade is constructed with. A real
// implementation pins an LSM snapshot; the in-memory implementation in
// this package pins a point-in-time copy of a btree.
type Store interface {
	NewSnapshot() Snapshot
}
