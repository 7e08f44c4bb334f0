package codec

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeBytesOrderPreserving(t *testing.T) {
	cases := [][]byte{
		{},
		{0},
		{1},
		{1, 2, 3},
		{1, 2, 3, 0},
		{1, 2, 3, 4, 5, 6, 7, 8},
		{1, 2, 3, 4, 5, 6, 7, 8, 9},
		{255},
	}
	for i := 0; i < len(cases); i++ {
		for j := 0; j < len(cases); j++ {
			want := bytes.Compare(cases[i], cases[j])
			got := bytes.Compare(EncodeBytes(cases[i]), EncodeBytes(cases[j]))
			assert.Equal(t, want, got, "case %v vs %v", cases[i], cases[j])
		}
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := [][]byte{
		{},
		{0},
		{1, 2, 3},
		{1, 2, 3, 4, 5, 6, 7, 8},
		{1, 2, 3, 4, 5, 6, 7, 8, 9, 10},
	}
	for _, c := range cases {
		encoded := EncodeBytes(c)
		rest, decoded, err := DecodeBytes(encoded)
		assert.NoError(t, err)
		assert.Empty(t, rest)
		assert.Equal(t, c, decoded)
	}
}

func TestDecodeBytesRejectsTruncated(t *testing.T) {
	encoded := EncodeBytes([]byte("hello"))
	_, _, err := DecodeBytes(encoded[:3])
	assert.Error(t, err)
}

func TestDecodeBytesRejectsInvalidEscapeTag(t *testing.T) {
	encoded := EncodeBytes([]byte{1, 2, 3})
	encoded[len(encoded)-1] = 0x7 // clobber the terminator's tag byte
	_, _, err := DecodeBytes(encoded)
	assert.Error(t, err)
}
