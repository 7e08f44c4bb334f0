package schema

import (
	"encoding/binary"
	"math"

	"github.com/ariesdevil/yugabyte-db/util/codec"
	"github.com/pingcap/errors"
)

// EncodeKeyValue renders one primary-key column's value as an order-
// preserving byte string, to be wrapped in codec.EncodeBytes alongside
// its sibling key columns to build a full document key.
func EncodeKeyValue(t Type, v interface{}) ([]byte, error) {
	switch t {
	case TypeInt64:
		i, ok := v.(int64)
		if !ok {
			return nil, errors.Errorf("schema: expected int64 key value, got %T", v)
		}
		buf := make([]byte, 8)
		// Flip the sign bit so that signed integers compare correctly as
		// unsigned big-endian bytes.
		binary.BigEndian.PutUint64(buf, uint64(i)^signBit)
		return buf, nil
	case TypeString:
		s, ok := v.(string)
		if !ok {
			return nil, errors.Errorf("schema: expected string key value, got %T", v)
		}
		return []byte(s), nil
	case TypeBytes:
		b, ok := v.([]byte)
		if !ok {
			return nil, errors.Errorf("schema: expected []byte key value, got %T", v)
		}
		return b, nil
	case TypeBool:
		b, ok := v.(bool)
		if !ok {
			return nil, errors.Errorf("schema: expected bool key value, got %T", v)
		}
		if b {
			return []byte{1}, nil
		}
		return []byte{0}, nil
	case TypeDouble:
		f, ok := v.(float64)
		if !ok {
			return nil, errors.Errorf("schema: expected float64 key value, got %T", v)
		}
		bits := math.Float64bits(f)
		if f >= 0 {
			bits ^= signBit
		} else {
			bits = ^bits
		}
		buf := make([]byte, 8)
		binary.BigEndian.PutUint64(buf, bits)
		return buf, nil
	default:
		return nil, errors.Errorf("schema: unsupported key column type %v", t)
	}
}

const signBit = uint64(1) << 63

// DecodeKeyValue is EncodeKeyValue's inverse.
func DecodeKeyValue(t Type, raw []byte) (interface{}, error) {
	switch t {
	case TypeInt64:
		if len(raw) != 8 {
			return nil, errors.Errorf("schema: int64 key value must be 8 bytes, got %d", len(raw))
		}
		return int64(binary.BigEndian.Uint64(raw) ^ signBit), nil
	case TypeString:
		return string(raw), nil
	case TypeBytes:
		return append([]byte(nil), raw...), nil
	case TypeBool:
		if len(raw) != 1 {
			return nil, errors.Errorf("schema: bool key value must be 1 byte, got %d", len(raw))
		}
		return raw[0] != 0, nil
	case TypeDouble:
		if len(raw) != 8 {
			return nil, errors.Errorf("schema: double key value must be 8 bytes, got %d", len(raw))
		}
		bits := binary.BigEndian.Uint64(raw)
		if bits&signBit != 0 {
			bits ^= signBit
		} else {
			bits = ^bits
		}
		return math.Float64frombits(bits), nil
	default:
		return nil, errors.Errorf("schema: unsupported key column type %v", t)
	}
}

// EncodeDocKey encodes an ordered list of primary-key column values
// into the document-key byte string (spec.md §3's "Document key").
func (t *Table) EncodeDocKey(values []interface{}) ([]byte, error) {
	keyCols := t.KeyColumns()
	if len(values) != len(keyCols) {
		return nil, errors.Errorf("schema: expected %d key values, got %d", len(keyCols), len(values))
	}
	var out []byte
	for i, col := range keyCols {
		raw, err := EncodeKeyValue(col.Type, values[i])
		if err != nil {
			return nil, errors.WithMessage(err, "schema: encoding key column "+col.Name)
		}
		out = append(out, codec.EncodeBytes(raw)...)
	}
	return out, nil
}

// DecodeDocKey decodes a document key's primary-key column values,
// keyed by column id (spec.md §4.6: "decode D's primary-key columns
// from the document-key bytes").
func (t *Table) DecodeDocKey(docKey []byte) (map[ColumnID]interface{}, error) {
	keyCols := t.KeyColumns()
	out := make(map[ColumnID]interface{}, len(keyCols))
	rest := docKey
	for _, col := range keyCols {
		var raw []byte
		var err error
		rest, raw, err = codec.DecodeBytes(rest)
		if err != nil {
			return nil, errors.WithMessage(err, "schema: decoding key column "+col.Name)
		}
		v, err := DecodeKeyValue(col.Type, raw)
		if err != nil {
			return nil, err
		}
		out[col.ID] = v
	}
	if len(rest) != 0 {
		return nil, errors.Errorf("schema: %d trailing bytes after decoding document key", len(rest))
	}
	return out, nil
}
