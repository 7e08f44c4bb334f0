package docdb

import (
	"time"

	"github.com/ariesdevil/yugabyte-db/oracle"
)

// intentOutcomeKind classifies how an intent resolves for one read
// timestamp (spec.md §4.3).
type intentOutcomeKind int

const (
	outcomeCommitted intentOutcomeKind = iota
	outcomeInvisible
	outcomeRetry
)

// intentOutcome is the resolver's verdict for a single intent.
type intentOutcome struct {
	kind          intentOutcomeKind
	effectiveTime HybridTimestamp // valid only when kind == outcomeCommitted
	retryKind     string          // "pending" or "unknown", for RetryError.causeKind
}

// intentResolver consults the transaction-status oracle to decide the
// fate of transactional intents, memoizing by txn_id for the lifetime
// of one NextRow call (spec.md §4.3, §5: "no caching persists across
// rows").
type intentResolver struct {
	oracle  oracle.Oracle
	timeout time.Duration
	cache   map[oracle.TxnID]intentOutcome
}

func newIntentResolver(o oracle.Oracle) *intentResolver {
	return &intentResolver{oracle: o, cache: make(map[oracle.TxnID]intentOutcome)}
}

// withTimeout bounds every oracle.Status call this resolver makes to
// at most d (config.Config.OracleTimeout): the oracle is expected to
// be synchronous from the iterator's viewpoint, but a wedged RPC must
// not wedge the reader with it (spec.md §5). Zero disables the bound.
func (r *intentResolver) withTimeout(d time.Duration) *intentResolver {
	r.timeout = d
	return r
}

// resetForRow drops the per-row memoization cache. Call once per
// NextRow invocation before examining any intents.
func (r *intentResolver) resetForRow() {
	r.cache = make(map[oracle.TxnID]intentOutcome)
}

// resolve decides the fate of an intent written by txn, for a read at
// readTS (spec.md §4.3).
func (r *intentResolver) resolve(txn oracle.TxnID, readTS HybridTimestamp) (intentOutcome, error) {
	if cached, ok := r.cache[txn]; ok {
		return cached, nil
	}

	if commitTS, ok := r.oracle.LocalCommitTime(txn); ok {
		outcome := r.outcomeForCommit(commitTS, readTS)
		r.cache[txn] = outcome
		return outcome, nil
	}

	status, err := r.callOracle(txn, readTS)
	if err != nil {
		return intentOutcome{}, err
	}

	var outcome intentOutcome
	switch status.Kind {
	case oracle.Committed:
		outcome = r.outcomeForCommit(status.CommitTimestamp, readTS)
	case oracle.Pending:
		outcome = intentOutcome{kind: outcomeRetry, retryKind: "pending"}
	case oracle.Aborted:
		outcome = intentOutcome{kind: outcomeInvisible}
	case oracle.Unknown:
		outcome = intentOutcome{kind: outcomeRetry, retryKind: "unknown"}
	default:
		return intentOutcome{}, newCorruptionError("intent: oracle returned unrecognized status kind %d", status.Kind)
	}

	r.cache[txn] = outcome
	return outcome, nil
}

// outcomeForCommit turns a known commit timestamp into an outcome: a
// commit visible at readTS resolves the intent in place, a commit
// still in the future makes it invisible (spec.md §4.3). Shared by the
// LocalCommitTime fast path and the oracle.Committed case from Status,
// since both answer the identical question once a commit timestamp is
// in hand.
func (r *intentResolver) outcomeForCommit(commitTS, readTS HybridTimestamp) intentOutcome {
	if commitTS.LessEqual(readTS) {
		return intentOutcome{kind: outcomeCommitted, effectiveTime: commitTS}
	}
	return intentOutcome{kind: outcomeInvisible}
}

// callOracle invokes the oracle's Status RPC, bounding it by r.timeout
// when set. The oracle contract offers no internal await (spec.md
// §5), so a timeout is enforced from the caller's side: a wedged
// call surfaces as oracle.Unknown rather than blocking the reader
// forever.
func (r *intentResolver) callOracle(txn oracle.TxnID, readTS HybridTimestamp) (oracle.Status, error) {
	if r.timeout <= 0 {
		return r.oracle.Status(txn, readTS)
	}

	type result struct {
		status oracle.Status
		err    error
	}
	done := make(chan result, 1)
	go func() {
		status, err := r.oracle.Status(txn, readTS)
		done <- result{status, err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return oracle.Status{}, wrapIOError(res.err)
		}
		return res.status, nil
	case <-time.After(r.timeout):
		return oracle.Status{Kind: oracle.Unknown}, nil
	}
}
