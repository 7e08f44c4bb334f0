package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rowTable() *Table {
	return &Table{
		KeyColumnCount: 2,
		Columns: []Column{
			{ID: 10, Name: "a", Type: TypeString, IsKey: true},
			{ID: 20, Name: "b", Type: TypeInt64, IsKey: true},
			{ID: 30, Name: "c", Type: TypeString},
			{ID: 40, Name: "d", Type: TypeInt64},
			{ID: 50, Name: "e", Type: TypeString},
		},
	}
}

func TestTableValidate(t *testing.T) {
	tbl := rowTable()
	assert.NoError(t, tbl.Validate())

	bad := rowTable()
	bad.KeyColumnCount = 10
	assert.Error(t, bad.Validate())
}

func TestEncodeDecodeDocKeyRoundTrip(t *testing.T) {
	tbl := rowTable()
	docKey, err := tbl.EncodeDocKey([]interface{}{"row1", int64(11111)})
	require.NoError(t, err)

	values, err := tbl.DecodeDocKey(docKey)
	require.NoError(t, err)
	assert.Equal(t, "row1", values[ColumnID(10)])
	assert.Equal(t, int64(11111), values[ColumnID(20)])
}

func TestDocKeyOrderingMatchesColumnOrder(t *testing.T) {
	tbl := rowTable()
	k1, err := tbl.EncodeDocKey([]interface{}{"row1", int64(1)})
	require.NoError(t, err)
	k2, err := tbl.EncodeDocKey([]interface{}{"row2", int64(1)})
	require.NoError(t, err)
	assert.True(t, string(k1) < string(k2))
}

func TestInt64KeyValueOrderingIsSigned(t *testing.T) {
	neg, err := EncodeKeyValue(TypeInt64, int64(-5))
	require.NoError(t, err)
	pos, err := EncodeKeyValue(TypeInt64, int64(5))
	require.NoError(t, err)
	assert.True(t, string(neg) < string(pos))
}

func TestNewProjectionWithKeyPrefix(t *testing.T) {
	tbl := rowTable()
	proj, err := NewProjection(tbl, []string{"a", "b", "c", "d", "e"}, 2)
	require.NoError(t, err)
	assert.Len(t, proj.Columns, 5)
	assert.False(t, proj.KeyOnly())
	assert.Len(t, proj.NonKeyColumns(), 3)
}

func TestNewProjectionKeyOnly(t *testing.T) {
	tbl := rowTable()
	proj, err := NewProjection(tbl, []string{"a", "b"}, 2)
	require.NoError(t, err)
	assert.True(t, proj.KeyOnly())
	assert.Empty(t, proj.NonKeyColumns())
}

func TestNewProjectionRejectsOversizedKeyPrefix(t *testing.T) {
	tbl := rowTable()
	_, err := NewProjection(tbl, []string{"a", "b", "c"}, 3)
	assert.Error(t, err)
}

func TestNewProjectionRejectsUnknownColumn(t *testing.T) {
	tbl := rowTable()
	_, err := NewProjection(tbl, []string{"nope"}, 0)
	assert.Error(t, err)
}
