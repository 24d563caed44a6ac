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
	"fmt"
)

// Kind identifies the RLP item a Stream cursor is currently positioned on.
type Kind int

const (
	KindByte Kind = iota
	KindString
	KindList
)

func (k Kind) String() string {
	switch k {
	case KindByte:
		return "Byte"
	case KindString:
		return "String"
	case KindList:
		return "List"
	default:
		return "Invalid"
	}
}

// MaxListDepth bounds how deeply Stream will descend into nested lists.
// A transaction envelope never needs more than a handful of levels; this
// ceiling exists purely to give maliciously-crafted input a hard stop.
const MaxListDepth = 16

// Stream is a cursor-based RLP decoder over an in-memory byte slice. It
// never allocates a parse tree: callers navigate List/ListEnd themselves,
// mirroring the struct they are decoding into.
//
// Every List and Bytes call rejects non-canonical prefixes (a length
// encoded with more bytes than necessary, or a single byte below 0x80
// wrapped in a string header) and reports its own position so a caller can
// thread the error back out as a decode failure. Uint and Uint256Bytes
// additionally reject an integer string carrying a leading zero byte.
type Stream struct {
	b     []byte
	pos   int
	stack []int // end offset of each enclosing list, innermost last
}

// NewStream returns a Stream that decodes b from the start.
func NewStream(b []byte) *Stream {
	return &Stream{b: b}
}

// Pos returns the current absolute byte offset into the input.
func (s *Stream) Pos() int { return s.pos }

func (s *Stream) limit() int {
	if len(s.stack) == 0 {
		return len(s.b)
	}
	return s.stack[len(s.stack)-1]
}

func (s *Stream) atListEnd() bool {
	return s.pos == s.limit()
}

// header describes the next RLP item without consuming it.
type header struct {
	kind         Kind
	contentStart int
	contentLen   int
	itemEnd      int
}

func (s *Stream) peekHeader() (header, error) {
	limit := s.limit()
	if s.pos >= limit {
		return header{}, fmt.Errorf("rlp: %w at offset %d", ErrTruncated, s.pos)
	}
	b0 := s.b[s.pos]

	switch {
	case b0 < 0x80:
		return header{kind: KindByte, contentStart: s.pos, contentLen: 1, itemEnd: s.pos + 1}, nil

	case b0 <= 0xb7:
		n := int(b0 - 0x80)
		start := s.pos + 1
		end := start + n
		if end > limit {
			return header{}, fmt.Errorf("rlp: %w at offset %d", ErrElemTooLarge, s.pos)
		}
		if n == 1 && s.b[start] < 0x80 {
			return header{}, fmt.Errorf("rlp: %w at offset %d", ErrNonCanonicalSize, s.pos)
		}
		return header{kind: KindString, contentStart: start, contentLen: n, itemEnd: end}, nil

	case b0 <= 0xbf:
		lenOfLen := int(b0 - 0xb7)
		lenStart := s.pos + 1
		lenEnd := lenStart + lenOfLen
		if lenEnd > limit {
			return header{}, fmt.Errorf("rlp: %w at offset %d", ErrElemTooLarge, s.pos)
		}
		if s.b[lenStart] == 0 {
			return header{}, fmt.Errorf("rlp: %w at offset %d", ErrNonCanonicalSize, s.pos)
		}
		n, err := decodeBigEndianLen(s.b[lenStart:lenEnd])
		if err != nil {
			return header{}, err
		}
		if n < 56 {
			return header{}, fmt.Errorf("rlp: %w at offset %d", ErrNonCanonicalSize, s.pos)
		}
		end := lenEnd + n
		if end > limit || end < 0 {
			return header{}, fmt.Errorf("rlp: %w at offset %d", ErrElemTooLarge, s.pos)
		}
		return header{kind: KindString, contentStart: lenEnd, contentLen: n, itemEnd: end}, nil

	case b0 <= 0xf7:
		n := int(b0 - 0xc0)
		start := s.pos + 1
		end := start + n
		if end > limit {
			return header{}, fmt.Errorf("rlp: %w at offset %d", ErrElemTooLarge, s.pos)
		}
		return header{kind: KindList, contentStart: start, contentLen: n, itemEnd: end}, nil

	default:
		lenOfLen := int(b0 - 0xf7)
		lenStart := s.pos + 1
		lenEnd := lenStart + lenOfLen
		if lenEnd > limit {
			return header{}, fmt.Errorf("rlp: %w at offset %d", ErrElemTooLarge, s.pos)
		}
		if s.b[lenStart] == 0 {
			return header{}, fmt.Errorf("rlp: %w at offset %d", ErrNonCanonicalSize, s.pos)
		}
		n, err := decodeBigEndianLen(s.b[lenStart:lenEnd])
		if err != nil {
			return header{}, err
		}
		if n < 56 {
			return header{}, fmt.Errorf("rlp: %w at offset %d", ErrNonCanonicalSize, s.pos)
		}
		end := lenEnd + n
		if end > limit || end < 0 {
			return header{}, fmt.Errorf("rlp: %w at offset %d", ErrElemTooLarge, s.pos)
		}
		return header{kind: KindList, contentStart: lenEnd, contentLen: n, itemEnd: end}, nil
	}
}

func decodeBigEndianLen(b []byte) (int, error) {
	if len(b) > 8 {
		return 0, ErrUintOverflow
	}
	var buf [8]byte
	copy(buf[8-len(b):], b)
	v := binary.BigEndian.Uint64(buf[:])
	if v > 0x7fffffff {
		return 0, ErrElemTooLarge
	}
	return int(v), nil
}

// Kind reports the type and content length of the next item without
// consuming it.
func (s *Stream) Kind() (Kind, int, error) {
	if s.atListEnd() {
		return 0, 0, EOL
	}
	h, err := s.peekHeader()
	if err != nil {
		return 0, 0, err
	}
	return h.kind, h.contentLen, nil
}

// List enters a list item, returning its content length in bytes. Callers
// must balance every List with a matching ListEnd.
func (s *Stream) List() (int, error) {
	if s.atListEnd() {
		return 0, EOL
	}
	if len(s.stack) >= MaxListDepth {
		return 0, ErrMaxDepth
	}
	h, err := s.peekHeader()
	if err != nil {
		return 0, err
	}
	if h.kind != KindList {
		return 0, fmt.Errorf("rlp: %w at offset %d", ErrExpectedList, s.pos)
	}
	s.pos = h.contentStart
	s.stack = append(s.stack, h.itemEnd)
	return h.contentLen, nil
}

// ListEnd leaves the list entered by the matching List call. It is an
// error to call ListEnd before every element of the list has been read.
func (s *Stream) ListEnd() error {
	if len(s.stack) == 0 {
		return fmt.Errorf("rlp: ListEnd called outside of a list")
	}
	top := s.stack[len(s.stack)-1]
	if s.pos != top {
		return fmt.Errorf("rlp: %d unread bytes remain in list at offset %d", top-s.pos, s.pos)
	}
	s.stack = s.stack[:len(s.stack)-1]
	return nil
}

// Bytes returns the content of the next string item and advances past it.
func (s *Stream) Bytes() ([]byte, error) {
	if s.atListEnd() {
		return nil, EOL
	}
	h, err := s.peekHeader()
	if err != nil {
		return nil, err
	}
	if h.kind == KindList {
		return nil, fmt.Errorf("rlp: %w at offset %d", ErrExpectedString, s.pos)
	}
	out := s.b[h.contentStart:h.itemEnd]
	s.pos = h.itemEnd
	return out, nil
}

// ReadBytes decodes the next string item directly into buf, which must
// already be sized to the expected fixed length (e.g. 20 for an address,
// 32 for a hash).
func (s *Stream) ReadBytes(buf []byte) error {
	b, err := s.Bytes()
	if err != nil {
		return err
	}
	if len(b) != len(buf) {
		return fmt.Errorf("rlp: expected %d-byte string, got %d", len(buf), len(b))
	}
	copy(buf, b)
	return nil
}

// Uint decodes the next string item as a canonical unsigned integer of up
// to 64 bits. A leading zero byte in the string is rejected as
// non-canonical, matching the encoder's minimal-length guarantee.
func (s *Stream) Uint() (uint64, error) {
	b, err := s.Bytes()
	if err != nil {
		return 0, err
	}
	if len(b) > 8 {
		return 0, ErrUintOverflow
	}
	if len(b) > 0 && b[0] == 0 {
		return 0, ErrNonCanonicalInteger
	}
	var buf [8]byte
	copy(buf[8-len(b):], b)
	return binary.BigEndian.Uint64(buf[:]), nil
}

// Uint256Bytes decodes the next string item as a canonical unsigned
// integer of up to 256 bits, returning its minimal big-endian bytes for
// the caller to feed into uint256.Int.SetBytes.
func (s *Stream) Uint256Bytes() ([]byte, error) {
	b, err := s.Bytes()
	if err != nil {
		return nil, err
	}
	if len(b) > 32 {
		return nil, ErrUintOverflow
	}
	if len(b) > 0 && b[0] == 0 {
		return nil, ErrNonCanonicalInteger
	}
	return b, nil
}

// Raw returns the complete encoding (header and content) of the next item
// without interpreting it, advancing the cursor past it.
func (s *Stream) Raw() ([]byte, error) {
	if s.atListEnd() {
		return nil, EOL
	}
	h, err := s.peekHeader()
	if err != nil {
		return nil, err
	}
	out := s.b[s.pos:h.itemEnd]
	s.pos = h.itemEnd
	return out, nil
}

// Remaining reports how many bytes are left to read in the innermost
// currently-open list (or the whole input, at the top level).
func (s *Stream) Remaining() int {
	return s.limit() - s.pos
}

// AtEOL reports whether the cursor has reached the end of the innermost
// currently-open list.
func (s *Stream) AtEOL() bool {
	return s.atListEnd()
}
