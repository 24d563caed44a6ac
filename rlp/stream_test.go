package rlp

import (
	"bytes"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func TestStreamDecodesListOfIntegers(t *testing.T) {
	// [1024, 7, 0]
	enc := decodeHex("c58204000780")
	s := NewStream(enc)

	size, err := s.List()
	require.NoError(t, err)
	require.Equal(t, 5, size)

	v1, err := s.Uint()
	require.NoError(t, err)
	require.EqualValues(t, 1024, v1)

	v2, err := s.Uint()
	require.NoError(t, err)
	require.EqualValues(t, 7, v2)

	v3, err := s.Uint()
	require.NoError(t, err)
	require.EqualValues(t, 0, v3)

	_, _, err = s.Kind()
	require.ErrorIs(t, err, EOL)

	require.NoError(t, s.ListEnd())
	require.Equal(t, len(enc), s.Pos())
}

func TestStreamReadBytesFixedWidth(t *testing.T) {
	hash := make([]byte, 32)
	for i := range hash {
		hash[i] = byte(i)
	}
	var buf [33]byte
	n := EncodeHash(hash, buf[:])
	s := NewStream(buf[:n])

	var out [32]byte
	require.NoError(t, s.ReadBytes(out[:]))
	require.Equal(t, hash, out[:])
}

func TestStreamReadBytesRejectsWrongLength(t *testing.T) {
	s := NewStream(decodeHex("83646f67"))
	var out [4]byte
	require.Error(t, s.ReadBytes(out[:]))
}

func TestStreamUint256Bytes(t *testing.T) {
	x, err := uint256.FromHex("0xdeadbeef")
	require.NoError(t, err)

	var buf bytes.Buffer
	var scratch [33]byte
	require.NoError(t, EncodeUint256(x, &buf, scratch[:]))

	s := NewStream(buf.Bytes())
	got, err := s.Uint256Bytes()
	require.NoError(t, err)

	back := new(uint256.Int).SetBytes(got)
	require.True(t, x.Eq(back))
}

func TestStreamUintRejectsLeadingZero(t *testing.T) {
	// length-2 string "00 01" is a non-canonical encoding of the integer 1.
	s := NewStream(decodeHex("820001"))
	_, err := s.Uint()
	require.ErrorIs(t, err, ErrNonCanonicalInteger)
}

func TestStreamNestedListsRespectContainment(t *testing.T) {
	// [[1, 2], 3]
	enc := decodeHex("c4c2010203")
	s := NewStream(enc)

	outer, err := s.List()
	require.NoError(t, err)
	require.Equal(t, 4, outer)

	inner, err := s.List()
	require.NoError(t, err)
	require.Equal(t, 2, inner)

	v, err := s.Uint()
	require.NoError(t, err)
	require.EqualValues(t, 1, v)
	v, err = s.Uint()
	require.NoError(t, err)
	require.EqualValues(t, 2, v)
	require.NoError(t, s.ListEnd())

	v, err = s.Uint()
	require.NoError(t, err)
	require.EqualValues(t, 3, v)
	require.NoError(t, s.ListEnd())
}

func TestStreamListEndRejectsUnconsumedBytes(t *testing.T) {
	enc := decodeHex("c3010203")
	s := NewStream(enc)
	_, err := s.List()
	require.NoError(t, err)
	_, err = s.Uint()
	require.NoError(t, err)
	require.Error(t, s.ListEnd())
}
