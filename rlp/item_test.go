package rlp

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeHex(in string) []byte {
	payload, err := hex.DecodeString(in)
	if err != nil {
		panic(err)
	}
	return payload
}

var itemVectors = []struct {
	name string
	item Item
	hex  string
}{
	{"empty string", String{}, "80"},
	{"single low byte", String{0x00}, "00"},
	{"single byte 0x0f", String{0x0f}, "0f"},
	{"single byte 0x7f", String{0x7f}, "7f"},
	{"single high byte", String{0x80}, "8180"},
	{"short string dog", String("dog"), "83646f67"},
	{"empty list", List{}, "c0"},
	{"list of two strings", List{String("cat"), String("dog")}, "c88363617483646f67"},
	{"nested list", List{List{}, List{List{}}, List{List{}, List{List{}}}}, "c7c0c1c0c3c0c1c0"},
}

func TestEncodeItemVectors(t *testing.T) {
	for _, tt := range itemVectors {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.hex, hex.EncodeToString(EncodeItem(tt.item)))
		})
	}
}

func TestDecodeItemVectors(t *testing.T) {
	for _, tt := range itemVectors {
		t.Run(tt.name, func(t *testing.T) {
			got, n, err := DecodeItem(decodeHex(tt.hex))
			require.NoError(t, err)
			assert.Equal(t, len(decodeHex(tt.hex)), n)
			assert.Equal(t, tt.item, got)
		})
	}
}

func TestDecodeItemRoundTrip(t *testing.T) {
	for _, tt := range itemVectors {
		t.Run(tt.name, func(t *testing.T) {
			enc := EncodeItem(tt.item)
			got, n, err := DecodeItem(enc)
			require.NoError(t, err)
			assert.Equal(t, len(enc), n)
			assert.Equal(t, tt.item, got)
		})
	}
}

func TestDecodeItemRejectsNonCanonicalSingleByte(t *testing.T) {
	// 0x0f should be encoded as the bare byte 0f, not as a length-1 string 810f.
	_, _, err := DecodeItem(decodeHex("810f"))
	require.ErrorIs(t, err, ErrNonCanonicalSize)
}

func TestDecodeItemRejectsNonCanonicalLongForm(t *testing.T) {
	// a 1-byte string length encoded with the long form is never canonical.
	_, _, err := DecodeItem(decodeHex("b801" + "61"))
	require.ErrorIs(t, err, ErrNonCanonicalSize)
}

func TestDecodeItemRejectsTruncatedInput(t *testing.T) {
	_, _, err := DecodeItem(decodeHex("83646f"))
	require.ErrorIs(t, err, ErrElemTooLarge)
}

func TestDecodeItemRejectsExcessiveDepth(t *testing.T) {
	var nested Item = List{}
	for i := 0; i < MaxListDepth+2; i++ {
		nested = List{nested}
	}
	_, _, err := DecodeItem(EncodeItem(nested))
	require.ErrorIs(t, err, ErrMaxDepth)
}
