package docdb

import (
	"encoding/binary"

	"github.com/ariesdevil/yugabyte-db/schema"
	"github.com/ariesdevil/yugabyte-db/util/codec"
)

// EntryKind distinguishes a regular stored entry from an intent
// (provisional write) entry (spec.md §3, §6).
type EntryKind byte

const (
	KindRegular EntryKind = 0x01
	KindIntent  EntryKind = 0x02
)

// IntentStrength distinguishes a weak intent (an ancestor-path
// placeholder) from a strong intent (carries the actual payload)
// (spec.md §3).
type IntentStrength byte

const (
	StrengthWeak   IntentStrength = 0x00
	StrengthStrong IntentStrength = 0x01
)

const tsLen = 12 // 8 bytes physical + 4 bytes logical, inverted
const wiLen = 4

// separator is purely cosmetic: codec.EncodeBytes already
// self-delimits the document-key group, so any byte works here. Kept
// as a literal field per the key layout in spec.md §6.
const separator = 0x00

// DecodedKey is the result of decoding one stored entry's key bytes
// (spec.md §4.1).
type DecodedKey struct {
	DocKey     []byte
	SubPath    []schema.ColumnID
	Kind       EntryKind
	Strength   IntentStrength // only meaningful when Kind == KindIntent
	Version    Version
}

// EncodeRegularKey builds the key bytes for a regular stored entry at
// (docKey, subPath, version) per spec.md §6's key byte layout.
func EncodeRegularKey(docKey []byte, subPath []schema.ColumnID, version Version) []byte {
	out := encodePrefix(docKey, subPath)
	out = append(out, byte(KindRegular))
	out = appendVersion(out, version)
	out = append(out, byte(KindRegular))
	return out
}

// EncodeIntentKey builds the key bytes for an intent entry at
// (docKey, subPath, strength, version).
func EncodeIntentKey(docKey []byte, subPath []schema.ColumnID, strength IntentStrength, version Version) []byte {
	out := encodePrefix(docKey, subPath)
	out = append(out, byte(KindIntent))
	out = append(out, byte(strength))
	out = appendVersion(out, version)
	out = append(out, byte(KindIntent))
	return out
}

func encodePrefix(docKey []byte, subPath []schema.ColumnID) []byte {
	out := codec.EncodeBytes(docKey)
	out = append(out, separator)
	out = append(out, codec.EncodeBytes(encodeSubPath(subPath))...)
	return out
}

func encodeSubPath(subPath []schema.ColumnID) []byte {
	raw := make([]byte, 1, 1+4*len(subPath))
	raw[0] = byte(len(subPath))
	for _, c := range subPath {
		var b [4]byte
		binary.BigEndian.PutUint32(b[:], uint32(c))
		raw = append(raw, b[:]...)
	}
	return raw
}

func decodeSubPath(raw []byte) ([]schema.ColumnID, error) {
	if len(raw) == 0 {
		return nil, newCorruptionError("keycodec: empty sub-path encoding")
	}
	count := int(raw[0])
	rest := raw[1:]
	if len(rest) != 4*count {
		return nil, newCorruptionError("keycodec: sub-path declares %d components but has %d trailing bytes", count, len(rest))
	}
	if count == 0 {
		return nil, nil
	}
	out := make([]schema.ColumnID, count)
	for i := 0; i < count; i++ {
		out[i] = schema.ColumnID(binary.BigEndian.Uint32(rest[4*i : 4*i+4]))
	}
	return out, nil
}

// appendVersion writes the inverted (timestamp, write_index) pair so
// that descending logical order becomes ascending byte order (spec.md
// §6).
func appendVersion(out []byte, v Version) []byte {
	var buf [tsLen + wiLen]byte
	binary.BigEndian.PutUint64(buf[0:8], ^v.Timestamp.Physical)
	binary.BigEndian.PutUint32(buf[8:12], ^v.Timestamp.Logical)
	binary.BigEndian.PutUint32(buf[12:16], ^uint32(v.WriteIndex))
	return append(out, buf[:]...)
}

func decodeVersion(raw []byte) (Version, error) {
	if len(raw) != tsLen+wiLen {
		return Version{}, newCorruptionError("keycodec: version field must be %d bytes, got %d", tsLen+wiLen, len(raw))
	}
	physical := ^binary.BigEndian.Uint64(raw[0:8])
	logical := ^binary.BigEndian.Uint32(raw[8:12])
	wi := ^binary.BigEndian.Uint32(raw[12:16])
	return Version{
		Timestamp:  HybridTimestamp{Physical: physical, Logical: logical},
		WriteIndex: WriteIndex(wi),
	}, nil
}

// DecodeKey decodes a stored entry's key bytes into its components
// (spec.md §4.1). It rejects malformed keys with a CorruptionError.
func DecodeKey(key []byte) (DecodedKey, error) {
	rest, docKey, err := codec.DecodeBytes(key)
	if err != nil {
		return DecodedKey{}, wrapCorruption(err)
	}
	if len(rest) == 0 || rest[0] != separator {
		return DecodedKey{}, newCorruptionError("keycodec: missing separator after document key")
	}
	rest = rest[1:]

	rest, subPathRaw, err := codec.DecodeBytes(rest)
	if err != nil {
		return DecodedKey{}, wrapCorruption(err)
	}
	subPath, err := decodeSubPath(subPathRaw)
	if err != nil {
		return DecodedKey{}, err
	}

	if len(rest) == 0 {
		return DecodedKey{}, newCorruptionError("keycodec: key truncated after sub-path")
	}
	kind := EntryKind(rest[0])
	rest = rest[1:]

	switch kind {
	case KindRegular:
		if len(rest) != tsLen+wiLen+1 {
			return DecodedKey{}, newCorruptionError("keycodec: regular key has wrong trailer length %d", len(rest))
		}
		version, err := decodeVersion(rest[:tsLen+wiLen])
		if err != nil {
			return DecodedKey{}, err
		}
		if EntryKind(rest[len(rest)-1]) != KindRegular {
			return DecodedKey{}, newCorruptionError("keycodec: regular key trailing kind tag mismatch")
		}
		return DecodedKey{DocKey: docKey, SubPath: subPath, Kind: KindRegular, Version: version}, nil

	case KindIntent:
		if len(rest) != 1+tsLen+wiLen+1 {
			return DecodedKey{}, newCorruptionError("keycodec: intent key has wrong trailer length %d", len(rest))
		}
		strength := IntentStrength(rest[0])
		version, err := decodeVersion(rest[1 : 1+tsLen+wiLen])
		if err != nil {
			return DecodedKey{}, err
		}
		if EntryKind(rest[len(rest)-1]) != KindIntent {
			return DecodedKey{}, newCorruptionError("keycodec: intent key trailing kind tag mismatch")
		}
		return DecodedKey{DocKey: docKey, SubPath: subPath, Kind: KindIntent, Strength: strength, Version: version}, nil

	default:
		return DecodedKey{}, newCorruptionError("keycodec: unknown entry kind byte 0x%02x", byte(kind))
	}
}

// DocKeyPrefix returns the byte prefix shared by every entry of the
// document that docKey identifies — the encoded document key plus its
// separator — letting a caller test "still inside document D" with a
// bytes.HasPrefix (spec.md §4.1).
func DocKeyPrefix(docKey []byte) []byte {
	out := codec.EncodeBytes(docKey)
	return append(out, separator)
}

// PathPrefix returns the byte prefix shared by every version of one
// (docKey, subPath) pair (spec.md §4.1).
func PathPrefix(docKey []byte, subPath []schema.ColumnID) []byte {
	return encodePrefix(docKey, subPath)
}
