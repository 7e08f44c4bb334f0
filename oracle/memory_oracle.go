package oracle

import (
	"sync"

	"github.com/ariesdevil/yugabyte-db/hlc"
)

// MemoryOracle is a simple thread-safe transaction-status registry for
// tests and for embedders that manage transaction status themselves
// in memory rather than through a cluster-wide service. Transactions
// default to Pending until explicitly committed or aborted.
type MemoryOracle struct {
	mu    sync.RWMutex
	txns  map[TxnID]Status
}

func NewMemoryOracle() *MemoryOracle {
	return &MemoryOracle{txns: make(map[TxnID]Status)}
}

// Commit records txn as committed at commitTS.
func (o *MemoryOracle) Commit(txn TxnID, commitTS hlc.HybridTimestamp) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.txns[txn] = Status{Kind: Committed, CommitTimestamp: commitTS}
}

// Abort records txn as aborted.
func (o *MemoryOracle) Abort(txn TxnID) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.txns[txn] = Status{Kind: Aborted}
}

// Status implements Oracle. A transaction with no recorded status is
// Pending: it has neither committed nor aborted yet.
func (o *MemoryOracle) Status(txn TxnID, _ hlc.HybridTimestamp) (Status, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	status, ok := o.txns[txn]
	if !ok {
		return Status{Kind: Pending}, nil
	}
	return status, nil
}

// LocalCommitTime implements Oracle's fast path by consulting the same
// in-memory table Status does; there is no separate local cache here.
func (o *MemoryOracle) LocalCommitTime(txn TxnID) (hlc.HybridTimestamp, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	status, ok := o.txns[txn]
	if !ok || status.Kind != Committed {
		return hlc.InvalidTimestamp, false
	}
	return status.CommitTimestamp, true
}
