// Package oracle defines the transaction-status oracle contract the
// intent resolver consumes (spec.md §6, §4.3): given a transaction id
// and a read timestamp, answer whether that transaction is committed
// (and at what commit time), still pending, or terminated without
// committing.
package oracle

import "github.com/ariesdevil/yugabyte-db/hlc"

// TxnID identifies a transaction. Opaque to the iterator core.
type TxnID string

// StatusKind is the oracle's answer shape (spec.md §4.3).
type StatusKind int

const (
	// Committed means the transaction committed at Status.CommitTimestamp.
	Committed StatusKind = iota
	// Pending means the transaction is still in flight.
	Pending
	// Aborted means the transaction rolled back and will never commit.
	Aborted
	// Unknown means the oracle has no record of the transaction (e.g.
	// its status record has been garbage collected). The intent resolver
	// answers it with TryAgain, as it does Pending; it is never treated
	// as Aborted (spec.md §4.3).
	Unknown
)

func (k StatusKind) String() string {
	switch k {
	case Committed:
		return "committed"
	case Pending:
		return "pending"
	case Aborted:
		return "aborted"
	case Unknown:
		return "unknown"
	default:
		return "invalid"
	}
}

// Status is the oracle's answer for one (txn, read_ts) query.
type Status struct {
	Kind           StatusKind
	CommitTimestamp hlc.HybridTimestamp
}

// Oracle is the transaction-status contract. It must be safe for
// concurrent use by multiple iterators (spec.md §5).
type Oracle interface {
	// Status answers whether txn is committed as of readTS, still
	// pending, or terminated without committing.
	Status(txn TxnID, readTS hlc.HybridTimestamp) (Status, error)
	// LocalCommitTime is a fast path: if the commit record for txn is
	// available locally (e.g. cached from a prior Status call on the
	// same node), it is returned directly without a lookup. Returns
	// (hlc.InvalidTimestamp, false) if not locally known.
	LocalCommitTime(txn TxnID) (hlc.HybridTimestamp, bool)
}
