package docdb

import (
	"context"
	"testing"

	"github.com/ariesdevil/yugabyte-db/oracle"
	"github.com/ariesdevil/yugabyte-db/schema"
	"github.com/ariesdevil/yugabyte-db/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func oneRowStore(t *testing.T, table *schema.Table) (store.Store, []byte) {
	t.Helper()
	st := store.NewMemStore()
	docKey := docKeyFor(t, table, "row1", 11111)
	putRegular(st, docKey, []schema.ColumnID{30}, 1000, strPayload("c"))
	return st, docKey
}

// P6: HasNext is idempotent across repeated calls without NextRow.
func TestIteratorHasNextIsIdempotent(t *testing.T) {
	table := scenarioTable()
	st, _ := oneRowStore(t, table)
	proj, err := schema.NewProjection(table, []string{"c"}, 0)
	require.NoError(t, err)

	it := NewIterator(proj, table, ReadContext{ReadTimestamp: HybridTimestamp{Physical: 5000}}, st, nil)
	require.NoError(t, it.Init())
	defer it.Close()

	has1, err := it.HasNext()
	require.NoError(t, err)
	has2, err := it.HasNext()
	require.NoError(t, err)
	assert.Equal(t, has1, has2)
	assert.True(t, has1)

	var row Row
	require.NoError(t, it.NextRow(&row))
	assert.Equal(t, []interface{}{"c"}, row.Values)

	has3, err := it.HasNext()
	require.NoError(t, err)
	assert.False(t, has3)
}

// NextRow without a preceding HasNext call behaves as though HasNext
// had been called first (spec.md §4.7).
func TestIteratorNextRowWithoutHasNext(t *testing.T) {
	table := scenarioTable()
	st, _ := oneRowStore(t, table)
	proj, err := schema.NewProjection(table, []string{"c"}, 0)
	require.NoError(t, err)

	it := NewIterator(proj, table, ReadContext{ReadTimestamp: HybridTimestamp{Physical: 5000}}, st, nil)
	require.NoError(t, it.Init())
	defer it.Close()

	var row Row
	require.NoError(t, it.NextRow(&row))
	assert.Equal(t, []interface{}{"c"}, row.Values)
}

// Once HasNext reports false, it keeps doing so and NextRow fails
// with ExhaustedError (spec.md §4.7 "Terminal states").
func TestIteratorExhaustionIsTerminal(t *testing.T) {
	table := scenarioTable()
	st := store.NewMemStore()
	proj, err := schema.NewProjection(table, []string{"c"}, 0)
	require.NoError(t, err)

	it := NewIterator(proj, table, ReadContext{ReadTimestamp: HybridTimestamp{Physical: 5000}}, st, nil)
	require.NoError(t, it.Init())
	defer it.Close()

	has, err := it.HasNext()
	require.NoError(t, err)
	assert.False(t, has)

	has, err = it.HasNext()
	require.NoError(t, err)
	assert.False(t, has)

	var row Row
	err = it.NextRow(&row)
	assert.True(t, IsExhausted(err))
}

// Cancellation is checked between documents (spec.md §5).
func TestIteratorCancellationSurfacesBetweenDocuments(t *testing.T) {
	table := scenarioTable()
	st := store.NewMemStore()
	row1 := docKeyFor(t, table, "row1", 11111)
	putRegular(st, row1, []schema.ColumnID{30}, 1000, strPayload("c"))

	proj, err := schema.NewProjection(table, []string{"c"}, 0)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	it := NewIterator(proj, table, ReadContext{ReadTimestamp: HybridTimestamp{Physical: 5000}, Ctx: ctx}, st, nil)
	require.NoError(t, it.Init())
	defer it.Close()

	_, err = it.HasNext()
	assert.True(t, IsCancelled(err))
}

// A pending intent that would affect the current row's result
// surfaces as a RetryError, and the iterator's position is invalid
// afterward (spec.md §7).
func TestIteratorPendingIntentSurfacesRetry(t *testing.T) {
	table := scenarioTable()
	st := store.NewMemStore()
	o := oracle.NewMemoryOracle()
	row1 := docKeyFor(t, table, "row1", 11111)
	putIntent(st, row1, []schema.ColumnID{30}, StrengthStrong, 1000, "txn-pending", strPayload("c"))

	proj, err := schema.NewProjection(table, []string{"c"}, 0)
	require.NoError(t, err)

	it := NewIterator(proj, table, ReadContext{ReadTimestamp: HybridTimestamp{Physical: 5000}, Transactional: true}, st, o)
	require.NoError(t, it.Init())
	defer it.Close()

	_, err = it.HasNext()
	assert.True(t, IsRetry(err))

	var row Row
	err = it.NextRow(&row)
	assert.True(t, IsRetry(err))
}
