// Package docdb implements the row-wise iterator's visibility core
// (spec.md): decoding the key/value byte layout of a versioned,
// document-structured key-value store, filtering interleaved
// versions, tombstones, TTLs and transactional intents down to a
// single committed value per cell, and assembling the result into
// projected rows.
//
// The package owns no persistent state of its own. It is handed a
// store.Store, a schema.Table, a Projection and a ReadContext, and it
// is used once, forward-only, by exactly one goroutine (spec.md §5).
package docdb

import "github.com/ariesdevil/yugabyte-db/hlc"

// HybridTimestamp, WriteIndex and Version are re-exported from hlc so
// that callers of this package never need to import hlc directly.
type (
	HybridTimestamp = hlc.HybridTimestamp
	WriteIndex      = hlc.WriteIndex
	Version         = hlc.Version
)

var (
	MinTimestamp     = hlc.MinTimestamp
	InvalidTimestamp = hlc.InvalidTimestamp
	MaxTimestamp     = hlc.MaxTimestamp
)
