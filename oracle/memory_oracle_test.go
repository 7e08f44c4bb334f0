package oracle

import (
	"testing"

	"github.com/ariesdevil/yugabyte-db/hlc"
	"github.com/stretchr/testify/assert"
)

func TestMemoryOracleDefaultsToPending(t *testing.T) {
	o := NewMemoryOracle()
	status, err := o.Status("txn1", hlc.HybridTimestamp{Physical: 100})
	assert.NoError(t, err)
	assert.Equal(t, Pending, status.Kind)
}

func TestMemoryOracleCommit(t *testing.T) {
	o := NewMemoryOracle()
	commitTS := hlc.HybridTimestamp{Physical: 3500}
	o.Commit("txn1", commitTS)

	status, err := o.Status("txn1", hlc.HybridTimestamp{Physical: 9000})
	assert.NoError(t, err)
	assert.Equal(t, Committed, status.Kind)
	assert.Equal(t, commitTS, status.CommitTimestamp)

	ts, ok := o.LocalCommitTime("txn1")
	assert.True(t, ok)
	assert.Equal(t, commitTS, ts)
}

func TestMemoryOracleAbort(t *testing.T) {
	o := NewMemoryOracle()
	o.Abort("txn2")

	status, err := o.Status("txn2", hlc.HybridTimestamp{Physical: 1})
	assert.NoError(t, err)
	assert.Equal(t, Aborted, status.Kind)

	_, ok := o.LocalCommitTime("txn2")
	assert.False(t, ok)
}
