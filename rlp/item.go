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
	"bytes"
	"fmt"
	"io"
)

// Item is the generic RLP value: either a String (a byte string) or a List
// (an ordered sequence of Items). Everything else in this package exists to
// move data in and out of this shape efficiently for a known schema; Item
// is the escape hatch for generic, schema-less encoding and decoding, and
// for property tests that want to generate arbitrary well-formed trees.
type Item interface {
	isItem()
}

// String is a terminal RLP byte string.
type String []byte

func (String) isItem() {}

// List is an ordered sequence of RLP items.
type List []Item

func (List) isItem() {}

// Encoder is implemented by types that know how to write their own RLP
// encoding. EncodeRLP must write exactly one RLP item to w.
type Encoder interface {
	EncodeRLP(w io.Writer) error
}

// ByteWriter has the same method set as io.Writer, so any io.Writer
// satisfies it.
type ByteWriter interface {
	Write(p []byte) (int, error)
}

// Decoder is implemented by types that know how to read their own RLP
// encoding from a Stream positioned at the start of their item.
type Decoder interface {
	DecodeRLP(s *Stream) error
}

// EncodeItem returns the canonical RLP encoding of an Item tree.
func EncodeItem(it Item) []byte {
	var buf bytes.Buffer
	encodeItem(&buf, it)
	return buf.Bytes()
}

func encodeItem(buf *bytes.Buffer, it Item) {
	switch v := it.(type) {
	case String:
		var hdr [9]byte
		_ = EncodeString(v, buf, hdr[:])
	case List:
		var body bytes.Buffer
		for _, child := range v {
			encodeItem(&body, child)
		}
		var hdr [9]byte
		n := EncodeListPrefix(body.Len(), hdr[:])
		buf.Write(hdr[:n])
		buf.Write(body.Bytes())
	default:
		panic(fmt.Sprintf("rlp: unknown Item implementation %T", it))
	}
}

// DecodeItem parses a single canonical RLP item from b, returning the item
// and the number of bytes consumed.
func DecodeItem(b []byte) (Item, int, error) {
	return decodeItemDepth(b, 0)
}

func decodeItemDepth(b []byte, depth int) (Item, int, error) {
	if depth > MaxListDepth {
		return nil, 0, ErrMaxDepth
	}
	s := NewStream(b)
	kind, _, err := s.Kind()
	if err != nil {
		return nil, 0, err
	}
	if kind == KindList {
		size, err := s.List()
		if err != nil {
			return nil, 0, err
		}
		end := s.pos + size
		out := List{}
		for s.pos < end {
			child, n, err := decodeItemDepth(b[s.pos:end], depth+1)
			if err != nil {
				return nil, 0, err
			}
			out = append(out, child)
			s.pos += n
		}
		if err := s.ListEnd(); err != nil {
			return nil, 0, err
		}
		return out, s.pos, nil
	}
	raw, err := s.Bytes()
	if err != nil {
		return nil, 0, err
	}
	return String(raw), s.pos, nil
}

// Encode returns the canonical RLP encoding of val, which must implement
// Encoder.
func Encode(val Encoder) ([]byte, error) {
	var buf bytes.Buffer
	if err := val.EncodeRLP(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses b into val, which must implement Decoder. It is an error
// for b to contain trailing bytes after val's item.
func Decode(b []byte, val Decoder) error {
	s := NewStream(b)
	if err := val.DecodeRLP(s); err != nil {
		return err
	}
	if s.pos != len(b) {
		return fmt.Errorf("rlp: %d trailing bytes after decoded value", len(b)-s.pos)
	}
	return nil
}
