package rlp

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeStringToHex(t *testing.T, s []byte) string {
	t.Helper()
	var buf bytes.Buffer
	b := make([]byte, 9)
	require.NoError(t, EncodeString(s, &buf, b))
	return hex.EncodeToString(buf.Bytes())
}

var stringVectors = []struct {
	name string
	in   []byte
	hex  string
}{
	{"empty", nil, "80"},
	{"single low byte", []byte{0x00}, "00"},
	{"single byte 0x7f", []byte{0x7f}, "7f"},
	{"single high byte", []byte{0x80}, "8180"},
	{"short string dog", []byte("dog"), "83646f67"},
	{"55 bytes, still short form", bytes.Repeat([]byte{0x61}, 55), "b7" + hex.EncodeToString(bytes.Repeat([]byte{0x61}, 55))},
	{"56 bytes, long form", bytes.Repeat([]byte{0x61}, 56), "b838" + hex.EncodeToString(bytes.Repeat([]byte{0x61}, 56))},
}

func TestEncodeString(t *testing.T) {
	for _, tt := range stringVectors {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.hex, encodeStringToHex(t, tt.in))
		})
	}
}

func TestStringLenMatchesEncodeString(t *testing.T) {
	for _, tt := range stringVectors {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, len(tt.hex)/2, StringLen(tt.in))
		})
	}
}

func TestEncodeUint256(t *testing.T) {
	cases := []struct {
		name string
		val  *uint256.Int
		hex  string
	}{
		{"zero", uint256.NewInt(0), "80"},
		{"below header boundary", uint256.NewInt(0x7f), "7f"},
		{"at header boundary", uint256.NewInt(0x80), "8180"},
		{"two bytes", uint256.NewInt(0x1234), "821234"},
		{"max uint64", uint256.NewInt(^uint64(0)), "88ffffffffffffffff"},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			b := make([]byte, 33)
			require.NoError(t, EncodeUint256(tt.val, &buf, b))
			assert.Equal(t, tt.hex, hex.EncodeToString(buf.Bytes()))
			assert.Equal(t, len(tt.hex)/2-1, Uint256LenExcludingHead(tt.val))
		})
	}
}

func TestEncodeUint256NilIsZero(t *testing.T) {
	var buf bytes.Buffer
	b := make([]byte, 33)
	require.NoError(t, EncodeUint256(nil, &buf, b))
	assert.Equal(t, "80", hex.EncodeToString(buf.Bytes()))
}

func TestEncodeAddress(t *testing.T) {
	addr := bytes.Repeat([]byte{0xab}, 20)
	var buf bytes.Buffer
	b := make([]byte, 21)
	require.NoError(t, EncodeAddress(addr, &buf, b))
	assert.Equal(t, "94"+hex.EncodeToString(addr), hex.EncodeToString(buf.Bytes()))
}

func TestEncodeOptionalAddressNil(t *testing.T) {
	var buf bytes.Buffer
	b := make([]byte, 21)
	require.NoError(t, EncodeOptionalAddress(nil, &buf, b))
	assert.Equal(t, "80", hex.EncodeToString(buf.Bytes()))
}

func TestListPrefixLenAndEncodeListPrefix(t *testing.T) {
	cases := []struct {
		size int
		hex  string
	}{
		{0, "c0"},
		{5, "c5"},
		{55, "f7"},
		{56, "f838"},
	}
	for _, tt := range cases {
		b := make([]byte, 9)
		n := EncodeListPrefix(tt.size, b)
		assert.Equal(t, tt.hex, hex.EncodeToString(b[:n]))
		assert.Equal(t, len(tt.hex)/2, ListPrefixLen(tt.size))
	}
}

func TestEncodeIntMatchesU64Len(t *testing.T) {
	values := []uint64{0, 1, 0x7f, 0x80, 0xff, 0x1234, ^uint64(0)}
	for _, v := range values {
		var buf bytes.Buffer
		b := make([]byte, 9)
		require.NoError(t, EncodeInt(v, &buf, b))
		assert.Equal(t, U64Len(v), buf.Len())
	}
}
