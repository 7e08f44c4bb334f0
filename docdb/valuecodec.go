package docdb

import (
	"encoding/binary"
	"math"
	"time"

	"github.com/ariesdevil/yugabyte-db/oracle"
	"github.com/ariesdevil/yugabyte-db/schema"
)

// Primitive is a decoded column value, tagged with its declared type
// (spec.md §4.2).
type Primitive struct {
	Type   schema.Type
	Int64  int64
	Str    string
	Bool   bool
	Bytes  []byte
	Double float64
}

// Payload is the decoded shape of a stored value: either a tombstone
// or a primitive, with an optional per-version TTL (spec.md §4.2,
// §3's TTL invariant).
type Payload struct {
	Tombstone bool
	Primitive Primitive
	TTL       *time.Duration // nil means no expiry
}

// Expired reports whether a value written at writeTime with this
// payload's TTL has expired as of readTime (spec.md §3: "R - T >= TTL").
func (p Payload) Expired(writeTime HybridTimestamp, readTime HybridTimestamp) bool {
	if p.TTL == nil {
		return false
	}
	elapsed := time.Duration(readTime.Physical-writeTime.Physical) * time.Microsecond
	return elapsed >= *p.TTL
}

const (
	flagTombstone byte = 1 << 0
	flagHasTTL    byte = 1 << 1
)

// EncodeRegularValue renders a Payload as the bytes stored for a
// regular (non-intent) entry.
func EncodeRegularValue(p Payload) []byte {
	var flags byte
	if p.Tombstone {
		flags |= flagTombstone
	}
	if p.TTL != nil {
		flags |= flagHasTTL
	}
	out := []byte{flags}
	if p.TTL != nil {
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], uint64(*p.TTL))
		out = append(out, buf[:]...)
	}
	if !p.Tombstone {
		out = append(out, encodePrimitive(p.Primitive)...)
	}
	return out
}

// DecodeRegularValue is EncodeRegularValue's inverse (spec.md §4.2).
func DecodeRegularValue(raw []byte) (Payload, error) {
	if len(raw) == 0 {
		return Payload{}, newCorruptionError("valuecodec: empty value")
	}
	flags := raw[0]
	rest := raw[1:]

	var p Payload
	p.Tombstone = flags&flagTombstone != 0
	if flags&flagHasTTL != 0 {
		if len(rest) < 8 {
			return Payload{}, newCorruptionError("valuecodec: truncated TTL field")
		}
		ttl := time.Duration(binary.BigEndian.Uint64(rest[:8]))
		p.TTL = &ttl
		rest = rest[8:]
	}
	if p.Tombstone {
		return p, nil
	}
	primitive, err := decodePrimitive(rest)
	if err != nil {
		return Payload{}, err
	}
	p.Primitive = primitive
	return p, nil
}

// EncodeIntentValue renders an intent's (transaction id, payload)
// pair as bytes stored alongside an intent key (spec.md §3).
func EncodeIntentValue(txn oracle.TxnID, p Payload) []byte {
	txnBytes := []byte(txn)
	var lenBuf [2]byte
	binary.BigEndian.PutUint16(lenBuf[:], uint16(len(txnBytes)))
	out := append([]byte{}, lenBuf[:]...)
	out = append(out, txnBytes...)
	out = append(out, EncodeRegularValue(p)...)
	return out
}

// DecodeIntentValue is EncodeIntentValue's inverse.
func DecodeIntentValue(raw []byte) (oracle.TxnID, Payload, error) {
	if len(raw) < 2 {
		return "", Payload{}, newCorruptionError("valuecodec: intent value truncated before txn id length")
	}
	txnLen := int(binary.BigEndian.Uint16(raw[:2]))
	raw = raw[2:]
	if len(raw) < txnLen {
		return "", Payload{}, newCorruptionError("valuecodec: intent value truncated within txn id")
	}
	txn := oracle.TxnID(raw[:txnLen])
	payload, err := DecodeRegularValue(raw[txnLen:])
	if err != nil {
		return "", Payload{}, err
	}
	return txn, payload, nil
}

func encodePrimitive(v Primitive) []byte {
	out := []byte{byte(v.Type)}
	switch v.Type {
	case schema.TypeInt64:
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], uint64(v.Int64))
		return append(out, buf[:]...)
	case schema.TypeBool:
		if v.Bool {
			return append(out, 1)
		}
		return append(out, 0)
	case schema.TypeDouble:
		var buf [8]byte
		binary.BigEndian.PutUint64(buf[:], math.Float64bits(v.Double))
		return append(out, buf[:]...)
	case schema.TypeString:
		return appendLengthPrefixed(out, []byte(v.Str))
	case schema.TypeBytes:
		return appendLengthPrefixed(out, v.Bytes)
	default:
		return out
	}
}

func appendLengthPrefixed(out []byte, data []byte) []byte {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(data)))
	out = append(out, lenBuf[:]...)
	return append(out, data...)
}

func decodePrimitive(raw []byte) (Primitive, error) {
	if len(raw) == 0 {
		return Primitive{}, newCorruptionError("valuecodec: empty primitive")
	}
	t := schema.Type(raw[0])
	rest := raw[1:]
	switch t {
	case schema.TypeInt64:
		if len(rest) != 8 {
			return Primitive{}, newCorruptionError("valuecodec: int64 primitive must be 8 bytes, got %d", len(rest))
		}
		return Primitive{Type: t, Int64: int64(binary.BigEndian.Uint64(rest))}, nil
	case schema.TypeBool:
		if len(rest) != 1 {
			return Primitive{}, newCorruptionError("valuecodec: bool primitive must be 1 byte, got %d", len(rest))
		}
		return Primitive{Type: t, Bool: rest[0] != 0}, nil
	case schema.TypeDouble:
		if len(rest) != 8 {
			return Primitive{}, newCorruptionError("valuecodec: double primitive must be 8 bytes, got %d", len(rest))
		}
		return Primitive{Type: t, Double: math.Float64frombits(binary.BigEndian.Uint64(rest))}, nil
	case schema.TypeString:
		data, err := readLengthPrefixed(rest)
		if err != nil {
			return Primitive{}, err
		}
		return Primitive{Type: t, Str: string(data)}, nil
	case schema.TypeBytes:
		data, err := readLengthPrefixed(rest)
		if err != nil {
			return Primitive{}, err
		}
		return Primitive{Type: t, Bytes: data}, nil
	default:
		return Primitive{}, newCorruptionError("valuecodec: unknown type tag 0x%02x", raw[0])
	}
}

func readLengthPrefixed(raw []byte) ([]byte, error) {
	if len(raw) < 4 {
		return nil, newCorruptionError("valuecodec: truncated length prefix")
	}
	n := binary.BigEndian.Uint32(raw[:4])
	raw = raw[4:]
	if uint32(len(raw)) != n {
		return nil, newCorruptionError("valuecodec: length prefix says %d bytes, got %d", n, len(raw))
	}
	return append([]byte(nil), raw...), nil
}
