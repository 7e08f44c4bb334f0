package docdb

import "github.com/ariesdevil/yugabyte-db/oracle"

// CellEntry is one version of a single (doc_key, sub_path) cell, as
// fed to the visibility filter by the document walker (C5) in the
// order the underlying store yields them: newest first (spec.md
// §4.4). Intent entries carry their own TxnID; the walker decodes
// intent values with DecodeIntentValue before constructing one of
// these, and regular entries with DecodeRegularValue.
type CellEntry struct {
	Kind     EntryKind
	Strength IntentStrength
	Version  Version
	TxnID    oracle.TxnID // meaningful only when Kind == KindIntent
	Payload  Payload
}

// CellResult is the visibility filter's verdict for one cell.
type CellResult struct {
	// Value is the visible primitive, or nil if the cell is NULL.
	Value *Primitive
	// TombstoneTS is the effective time of the tombstone that shadowed
	// this cell, valid only when Value == nil && HasTombstone.
	TombstoneTS HybridTimestamp
	HasTombstone bool
}

// cellPuller yields the next version of one (doc_key, sub_path) cell
// in newest-first order. ok is false once the cell is exhausted. The
// document walker collects a cell's versions from the store iterator
// and backs this with slicePuller over them; tests use slicePuller
// directly.
type cellPuller func() (entry CellEntry, ok bool, err error)

// slicePuller adapts a pre-collected slice to the cellPuller shape,
// for unit tests that don't need a live store.
func slicePuller(entries []CellEntry) cellPuller {
	i := 0
	return func() (CellEntry, bool, error) {
		if i >= len(entries) {
			return CellEntry{}, false, nil
		}
		e := entries[i]
		i++
		return e, true, nil
	}
}

// evaluateCell runs the per-cell visibility algorithm of spec.md
// §4.4: scanning versions newest-first, resolving intents lazily,
// honoring tombstones, TTL expiry and the inherited document-tombstone
// threshold, and stopping at the first visible value or shadow. Pull
// is not called again once the cell's fate is decided; the caller
// (the document walker) is responsible for skipping any versions the
// puller never yielded.
func evaluateCell(pull cellPuller, readTS HybridTimestamp, docThreshold HybridTimestamp, resolver *intentResolver) (CellResult, error) {
	cellTombstoneTS := docThreshold

	for {
		e, ok, err := pull()
		if err != nil {
			return CellResult{}, err
		}
		if !ok {
			break
		}

		effectiveTime := e.Version.Timestamp
		payload := e.Payload

		if e.Kind == KindIntent {
			if e.Strength == StrengthWeak {
				// Weak intents are informational only (spec.md §4.5); they
				// never carry a payload and never shadow anything.
				continue
			}
			outcome, err := resolver.resolve(e.TxnID, readTS)
			if err != nil {
				return CellResult{}, err
			}
			switch outcome.kind {
			case outcomeInvisible:
				continue
			case outcomeRetry:
				return CellResult{}, &RetryError{TxnID: string(e.TxnID), SeenAt: readTS, causeKind: outcome.retryKind}
			case outcomeCommitted:
				effectiveTime = outcome.effectiveTime
			}
		}

		if effectiveTime.Greater(readTS) {
			continue // future write
		}
		if effectiveTime.LessEqual(cellTombstoneTS) {
			break // shadowed by an already-established tombstone threshold
		}

		if payload.Tombstone || payload.Expired(effectiveTime, readTS) {
			cellTombstoneTS = effectiveTime
			break // newest-first scan: first visible tombstone finalizes NULL
		}

		v := payload.Primitive
		return CellResult{Value: &v}, nil
	}

	if cellTombstoneTS.Greater(docThreshold) {
		return CellResult{HasTombstone: true, TombstoneTS: cellTombstoneTS}, nil
	}
	return CellResult{}, nil
}
