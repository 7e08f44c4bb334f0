package docdb

import (
	"testing"
	"time"

	"github.com/ariesdevil/yugabyte-db/oracle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntentResolverCommittedBeforeRead(t *testing.T) {
	o := oracle.NewMemoryOracle()
	o.Commit("txn1", HybridTimestamp{Physical: 1000})

	r := newIntentResolver(o)
	out, err := r.resolve("txn1", HybridTimestamp{Physical: 2000})
	require.NoError(t, err)
	assert.Equal(t, outcomeCommitted, out.kind)
	assert.Equal(t, HybridTimestamp{Physical: 1000}, out.effectiveTime)
}

func TestIntentResolverCommittedAfterRead(t *testing.T) {
	o := oracle.NewMemoryOracle()
	o.Commit("txn1", HybridTimestamp{Physical: 5000})

	r := newIntentResolver(o)
	out, err := r.resolve("txn1", HybridTimestamp{Physical: 2000})
	require.NoError(t, err)
	assert.Equal(t, outcomeInvisible, out.kind)
}

func TestIntentResolverPendingIsRetry(t *testing.T) {
	o := oracle.NewMemoryOracle()
	r := newIntentResolver(o)
	out, err := r.resolve("txn-pending", HybridTimestamp{Physical: 100})
	require.NoError(t, err)
	assert.Equal(t, outcomeRetry, out.kind)
	assert.Equal(t, "pending", out.retryKind)
}

func TestIntentResolverAbortedIsInvisible(t *testing.T) {
	o := oracle.NewMemoryOracle()
	o.Abort("txn-abort")
	r := newIntentResolver(o)
	out, err := r.resolve("txn-abort", HybridTimestamp{Physical: 100})
	require.NoError(t, err)
	assert.Equal(t, outcomeInvisible, out.kind)
}

// Memoization is exercised against a still-pending transaction:
// LocalCommitTime never short-circuits the call for a txn with no
// recorded commit, so every Status call the resolver makes is
// observable through countingOracle.
func TestIntentResolverMemoizesWithinRow(t *testing.T) {
	counting := &countingOracle{MemoryOracle: oracle.NewMemoryOracle()}

	r := newIntentResolver(counting)
	_, err := r.resolve("txn-pending", HybridTimestamp{Physical: 2000})
	require.NoError(t, err)
	_, err = r.resolve("txn-pending", HybridTimestamp{Physical: 2000})
	require.NoError(t, err)

	assert.Equal(t, 1, counting.calls)
}

func TestIntentResolverClearsCacheAcrossRows(t *testing.T) {
	counting := &countingOracle{MemoryOracle: oracle.NewMemoryOracle()}

	r := newIntentResolver(counting)
	_, err := r.resolve("txn-pending", HybridTimestamp{Physical: 2000})
	require.NoError(t, err)

	r.resetForRow()
	_, err = r.resolve("txn-pending", HybridTimestamp{Physical: 2000})
	require.NoError(t, err)

	assert.Equal(t, 2, counting.calls)
}

// TestIntentResolverUsesLocalCommitTimeFastPath asserts that a known
// local commit time bypasses Status entirely (spec.md §6's fast path).
func TestIntentResolverUsesLocalCommitTimeFastPath(t *testing.T) {
	counting := &countingOracle{MemoryOracle: oracle.NewMemoryOracle()}
	counting.Commit("txn1", HybridTimestamp{Physical: 1000})

	r := newIntentResolver(counting)
	out, err := r.resolve("txn1", HybridTimestamp{Physical: 2000})
	require.NoError(t, err)
	assert.Equal(t, outcomeCommitted, out.kind)
	assert.Equal(t, HybridTimestamp{Physical: 1000}, out.effectiveTime)
	assert.Equal(t, 0, counting.calls)
}

// countingOracle wraps a MemoryOracle to count Status calls, letting
// tests assert on the resolver's per-row memoization.
type countingOracle struct {
	*oracle.MemoryOracle
	calls int
}

func (c *countingOracle) Status(txn oracle.TxnID, readTS HybridTimestamp) (oracle.Status, error) {
	c.calls++
	return c.MemoryOracle.Status(txn, readTS)
}

// stuckOracle never returns, modeling a wedged RPC (spec.md §5).
type stuckOracle struct{}

func (stuckOracle) Status(oracle.TxnID, HybridTimestamp) (oracle.Status, error) {
	select {}
}

func (stuckOracle) LocalCommitTime(oracle.TxnID) (HybridTimestamp, bool) {
	return HybridTimestamp{}, false
}

func TestIntentResolverTimesOutOnWedgedOracle(t *testing.T) {
	r := newIntentResolver(stuckOracle{}).withTimeout(10 * time.Millisecond)
	out, err := r.resolve("txn1", HybridTimestamp{Physical: 100})
	require.NoError(t, err)
	assert.Equal(t, outcomeRetry, out.kind)
	assert.Equal(t, "unknown", out.retryKind)
}
