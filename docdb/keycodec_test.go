package docdb

import (
	"bytes"
	"testing"

	"github.com/ariesdevil/yugabyte-db/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRegularKeyRoundTrip(t *testing.T) {
	docKey := []byte("row1")
	subPath := []schema.ColumnID{40}
	v := Version{Timestamp: HybridTimestamp{Physical: 1000}, WriteIndex: 0}

	key := EncodeRegularKey(docKey, subPath, v)
	decoded, err := DecodeKey(key)
	require.NoError(t, err)

	assert.Equal(t, docKey, decoded.DocKey)
	assert.Equal(t, subPath, decoded.SubPath)
	assert.Equal(t, KindRegular, decoded.Kind)
	assert.Equal(t, v, decoded.Version)
}

func TestEncodeDecodeIntentKeyRoundTrip(t *testing.T) {
	docKey := []byte("row1")
	subPath := []schema.ColumnID{50}
	v := Version{Timestamp: HybridTimestamp{Physical: 500}, WriteIndex: 2}

	key := EncodeIntentKey(docKey, subPath, StrengthStrong, v)
	decoded, err := DecodeKey(key)
	require.NoError(t, err)

	assert.Equal(t, KindIntent, decoded.Kind)
	assert.Equal(t, StrengthStrong, decoded.Strength)
	assert.Equal(t, v, decoded.Version)
}

func TestDocumentLevelTombstoneHasEmptySubPath(t *testing.T) {
	key := EncodeRegularKey([]byte("row1"), nil, Version{Timestamp: HybridTimestamp{Physical: 2500}})
	decoded, err := DecodeKey(key)
	require.NoError(t, err)
	assert.Empty(t, decoded.SubPath)
}

func TestNewestVersionSortsFirst(t *testing.T) {
	docKey := []byte("row1")
	subPath := []schema.ColumnID{40}
	older := EncodeRegularKey(docKey, subPath, Version{Timestamp: HybridTimestamp{Physical: 1000}})
	newer := EncodeRegularKey(docKey, subPath, Version{Timestamp: HybridTimestamp{Physical: 2000}})

	assert.True(t, bytes.Compare(newer, older) < 0, "newer version must sort before older within a path")
}

func TestDocKeysSortAscending(t *testing.T) {
	subPath := []schema.ColumnID{40}
	v := Version{Timestamp: HybridTimestamp{Physical: 1000}}
	row1 := EncodeRegularKey([]byte("row1"), subPath, v)
	row2 := EncodeRegularKey([]byte("row2"), subPath, v)
	assert.True(t, bytes.Compare(row1, row2) < 0)
}

func TestDocKeyPrefixMatchesAllEntriesOfDocument(t *testing.T) {
	docKey := []byte("row1")
	prefix := DocKeyPrefix(docKey)

	k1 := EncodeRegularKey(docKey, []schema.ColumnID{40}, Version{Timestamp: HybridTimestamp{Physical: 1000}})
	k2 := EncodeIntentKey(docKey, nil, StrengthWeak, Version{Timestamp: HybridTimestamp{Physical: 500}})
	other := EncodeRegularKey([]byte("row2"), []schema.ColumnID{40}, Version{Timestamp: HybridTimestamp{Physical: 1000}})

	assert.True(t, bytes.HasPrefix(k1, prefix))
	assert.True(t, bytes.HasPrefix(k2, prefix))
	assert.False(t, bytes.HasPrefix(other, prefix))
}

func TestPathPrefixDistinguishesSubPaths(t *testing.T) {
	docKey := []byte("row1")
	p1 := PathPrefix(docKey, []schema.ColumnID{40})
	p2 := PathPrefix(docKey, []schema.ColumnID{50})
	assert.NotEqual(t, p1, p2)

	k := EncodeRegularKey(docKey, []schema.ColumnID{40}, Version{Timestamp: HybridTimestamp{Physical: 1000}})
	assert.True(t, bytes.HasPrefix(k, p1))
	assert.False(t, bytes.HasPrefix(k, p2))
}

func TestDecodeKeyRejectsTruncated(t *testing.T) {
	key := EncodeRegularKey([]byte("row1"), []schema.ColumnID{40}, Version{Timestamp: HybridTimestamp{Physical: 1000}})
	_, err := DecodeKey(key[:len(key)-2])
	assert.Error(t, err)
}

func TestDecodeKeyRejectsUnknownKind(t *testing.T) {
	key := EncodeRegularKey([]byte("row1"), []schema.ColumnID{40}, Version{Timestamp: HybridTimestamp{Physical: 1000}})
	// Corrupt the entry-kind byte that immediately follows the sub-path.
	corrupt := append([]byte(nil), key...)
	idx := len(corrupt) - (1 + tsLen + wiLen + 1)
	corrupt[idx] = 0x7f
	_, err := DecodeKey(corrupt)
	assert.Error(t, err)
}
