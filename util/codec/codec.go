// Package codec provides an order-preserving byte encoding for
// arbitrary byte strings, used as the building block for the
// document-key and sub-path components of the row-wise iterator's key
// layout (see docdb/keycodec.go).
package codec

import (
	"bytes"

	"github.com/pingcap/errors"
)

// EncodeBytes uses escape encoding rather than fixed-size group
// padding: every literal 0x00 byte in data is escaped to the two-byte
// sequence [0x00, 0xFF], and the whole encoding is terminated by
// [0x00, 0x01]. Because a terminator's second byte (0x01) sorts before
// an escaped-zero's second byte (0xFF), a string that ends where
// another merely continues past a zero byte always sorts first — the
// same "does the shorter string terminate or keep going" property the
// fixed-group scheme gets from its padding-count marker, without a
// fixed group size or padding.
//
// Refer: https://github.com/facebook/mysql-5.6/wiki/MyRocks-record-format#memcomparable-format
//
// Unlike a raw length-prefixed encoding, this keeps the byte-order of
// the encoded form identical to the byte-order of the original data,
// which is what lets two adjacent key components (e.g. doc_key then
// sub_path) be concatenated and still compare correctly component by
// component.
const (
	escByte        = 0x00
	escapedZeroTag = 0xFF
	terminatorTag  = 0x01
)

func EncodeBytes(data []byte) []byte {
	// Worst case is every byte a literal zero, doubling the length, plus
	// the two-byte terminator.
	result := make([]byte, 0, len(data)*2+2)
	for _, b := range data {
		if b == escByte {
			result = append(result, escByte, escapedZeroTag)
		} else {
			result = append(result, b)
		}
	}
	result = append(result, escByte, terminatorTag)
	return result
}

// DecodeBytes decodes a value encoded by EncodeBytes, returning the
// leftover bytes (whatever followed the encoded value) and the decoded
// value.
func DecodeBytes(b []byte) ([]byte, []byte, error) {
	data := make([]byte, 0, len(b))
	for {
		idx := bytes.IndexByte(b, escByte)
		if idx == -1 {
			return nil, nil, errors.New("codec: missing terminator while decoding value")
		}
		data = append(data, b[:idx]...)
		if idx+1 >= len(b) {
			return nil, nil, errors.New("codec: truncated escape sequence while decoding value")
		}

		switch tag := b[idx+1]; tag {
		case terminatorTag:
			return b[idx+2:], data, nil
		case escapedZeroTag:
			data = append(data, escByte)
			b = b[idx+2:]
		default:
			return nil, nil, errors.Errorf("codec: invalid escape tag %#x while decoding value", tag)
		}
	}
}
