/*
   Copyright 2021 Erigon contributors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package rlp

import (
	"encoding/binary"
	"io"
	"math/bits"

	"github.com/holiman/uint256"
)

// General design:
//      - rlp package doesn't manage memory - and Caller must ensure buffers are big enough.
//      - no io.Writer for the length/prefix helpers, because they're incompatible with
//        binary.BigEndian functions and a Writer can't double as scratch space
//
// Composition:
//     - each xxxLen function is pure and cheap to call repeatedly while summing up a payload size
//     - each Encode* writer emits one item (string or list header); the ones that fill a byte
//       slice (EncodeU64, EncodeListPrefix, EncodeHash, ...) return the number of bytes written,
//       the io.Writer-based ones return the write error
//     - higher-level helpers (EncodeHash, EncodeUint256, EncodeOptionalAddress, ...) build on the
//       string/list primitives for the shapes the transaction codec needs most often
//

// ListPrefixLen returns the length, in bytes, of the list header needed to
// introduce a payload of dataLen bytes.
func ListPrefixLen(dataLen int) int {
	if dataLen >= 56 {
		return 1 + (bits.Len64(uint64(dataLen))+7)/8
	}
	return 1
}

// EncodeListPrefix writes a list header for a payload of dataLen bytes into to
// and returns the number of bytes written.
func EncodeListPrefix(dataLen int, to []byte) int {
	if dataLen >= 56 {
		_ = to[8]
		beLen := (bits.Len64(uint64(dataLen)) + 7) / 8
		binary.BigEndian.PutUint64(to[1:], uint64(dataLen))
		to[8-beLen] = 247 + byte(beLen)
		copy(to, to[8-beLen:9])
		return 1 + beLen
	}
	to[0] = 192 + byte(dataLen)
	return 1
}

// EncodeStructSizePrefix writes a list header for a struct/payload of size
// bytes directly to w, using b as scratch space.
func EncodeStructSizePrefix(size int, w io.Writer, b []byte) error {
	n := EncodeListPrefix(size, b)
	_, err := w.Write(b[:n])
	return err
}

// U64Len returns the RLP-encoded length of i when i is treated as an
// unsigned big-endian integer string. Values in [0,0x7f] occupy a single
// byte that doubles as its own header; everything else needs a string
// header plus its minimal big-endian body.
func U64Len(i uint64) int {
	if i >= 128 {
		return 1 + (bits.Len64(i)+7)/8
	}
	return 1
}

// EncodeU64 writes the canonical RLP encoding of i into to and returns the
// number of bytes written.
func EncodeU64(i uint64, to []byte) int {
	if i >= 128 {
		beLen := (bits.Len64(i) + 7) / 8
		to[0] = 128 + byte(beLen)
		binary.BigEndian.PutUint64(to[1:], i)
		copy(to[1:], to[1+8-beLen:1+8])
		return 1 + beLen
	}
	if i == 0 {
		to[0] = 128
		return 1
	}
	to[0] = byte(i)
	return 1
}

// IntLenExcludingHead returns the number of body bytes that EncodeInt writes
// beyond the single header byte every caller reserves up front. It is 0
// whenever the value fits entirely in that header byte (i < 0x80).
func IntLenExcludingHead(i uint64) int {
	if i >= 128 {
		return (bits.Len64(i) + 7) / 8
	}
	return 0
}

// EncodeInt writes the canonical RLP encoding of i to w using b as scratch
// space.
func EncodeInt(i uint64, w io.Writer, b []byte) error {
	n := EncodeU64(i, b)
	_, err := w.Write(b[:n])
	return err
}

// StringLen returns the RLP-encoded length of the byte string s.
func StringLen(s []byte) int {
	switch {
	case len(s) == 0:
		return 1
	case len(s) == 1:
		if s[0] >= 128 {
			return 2
		}
		return 1
	case len(s) < 56:
		return 1 + len(s)
	default:
		return 1 + (bits.Len64(uint64(len(s)))+7)/8 + len(s)
	}
}

// EncodeString writes the canonical RLP encoding of s to w, using b as
// scratch space for the header. Unlike the fixed-width Encode* helpers,
// s itself may be arbitrarily long, so its body is written to w directly
// rather than staged through b.
func EncodeString(s []byte, w io.Writer, b []byte) error {
	switch {
	case len(s) == 0:
		b[0] = 128
		_, err := w.Write(b[:1])
		return err
	case len(s) == 1:
		if s[0] < 128 {
			b[0] = s[0]
			_, err := w.Write(b[:1])
			return err
		}
		b[0] = 129
		b[1] = s[0]
		_, err := w.Write(b[:2])
		return err
	case len(s) < 56:
		b[0] = byte(len(s)) + 128
		if _, err := w.Write(b[:1]); err != nil {
			return err
		}
		_, err := w.Write(s)
		return err
	default:
		beLen := (bits.Len64(uint64(len(s))) + 7) / 8
		binary.BigEndian.PutUint64(b[1:], uint64(len(s)))
		b[8-beLen] = byte(beLen) + 183
		copy(b, b[8-beLen:9])
		if _, err := w.Write(b[:1+beLen]); err != nil {
			return err
		}
		_, err := w.Write(s)
		return err
	}
}

// EncodeStringSizePrefix writes just the string header for a body of size
// bytes, used when the body itself (e.g. an already-encoded typed
// transaction) is written separately.
func EncodeStringSizePrefix(size int, w io.Writer, b []byte) error {
	switch {
	case size == 0:
		b[0] = 128
		_, err := w.Write(b[:1])
		return err
	case size == 1:
		return nil // caller writes the single raw byte itself, no header needed
	case size < 56:
		b[0] = byte(size) + 128
		_, err := w.Write(b[:1])
		return err
	default:
		beLen := (bits.Len64(uint64(size)) + 7) / 8
		binary.BigEndian.PutUint64(b[1:], uint64(size))
		b[8-beLen] = byte(beLen) + 183
		copy(b, b[8-beLen:9])
		_, err := w.Write(b[:1+beLen])
		return err
	}
}

// EncodeHash writes the 33-byte RLP encoding of the 32-byte hash h into to,
// which must be at least 33 bytes long, and returns 33.
func EncodeHash(h, to []byte) int {
	_ = to[32] // early bounds check to guarantee safety of writes below
	to[0] = 128 + 32
	copy(to[1:33], h[:32])
	return 33
}

func EncodeHashes(hashes []byte, encodeBuf []byte) int {
	pos := 0
	hashesLen := len(hashes) / 32 * 33
	pos += EncodeListPrefix(hashesLen, encodeBuf)
	for i := 0; i < len(hashes); i += 32 {
		pos += EncodeHash(hashes[i:], encodeBuf[pos:])
	}
	return pos
}

// Uint256LenExcludingHead mirrors IntLenExcludingHead for 256-bit integers:
// it returns the number of big-endian body bytes beyond the reserved header
// byte, with the same "fits in the header itself" shortcut for values < 0x80.
func Uint256LenExcludingHead(x *uint256.Int) int {
	if x == nil || x.IsZero() {
		return 0
	}
	byteLen := (x.BitLen() + 7) / 8
	if byteLen == 1 && x.Uint64() < 128 {
		return 0
	}
	return byteLen
}

// EncodeUint256 writes the canonical RLP encoding of x to w using b as
// scratch space.
func EncodeUint256(x *uint256.Int, w io.Writer, b []byte) error {
	if x == nil || x.IsZero() {
		_, err := w.Write([]byte{128})
		return err
	}
	byteLen := (x.BitLen() + 7) / 8
	if byteLen == 1 {
		v := byte(x.Uint64())
		if v < 128 {
			_, err := w.Write([]byte{v})
			return err
		}
	}
	b[0] = byte(byteLen) + 128
	copy(b[1:1+byteLen], x.Bytes())
	_, err := w.Write(b[:1+byteLen])
	return err
}

// EncodeAddress writes the canonical 21-byte RLP string encoding of addr
// (header byte 0x94 followed by the 20 address bytes) to w.
func EncodeAddress(addr []byte, w io.Writer, b []byte) error {
	_ = b[20]
	b[0] = 128 + 20
	copy(b[1:21], addr)
	_, err := w.Write(b[:21])
	return err
}

// EncodeOptionalAddress writes addr if non-nil, or the empty string (0x80)
// if addr is nil. This is the "absent" encoding used by CREATE-style
// transactions whose To field may be empty.
func EncodeOptionalAddress(addr *[20]byte, w io.Writer, b []byte) error {
	if addr == nil {
		_, err := w.Write([]byte{128})
		return err
	}
	return EncodeAddress(addr[:], w, b)
}
