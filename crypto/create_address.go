// Copyright 2014 The go-ethereum Authors
// (original work)
// Copyright 2024 The Erigon Authors
// (modifications)
// This file is part of Erigon.
//
// Erigon is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Erigon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Erigon. If not, see <http://www.gnu.org/licenses/>.

package crypto

import (
	"bytes"

	"github.com/ethcodec/txcodec/common"
	"github.com/ethcodec/txcodec/rlp"
)

// CreateAddress derives the address of a contract created by a plain CREATE:
// the last 20 bytes of Keccak256(rlp([sender, nonce])).
func CreateAddress(a common.Address, nonce uint64) common.Address {
	var nonceBuf [9]byte
	n := rlp.EncodeU64(nonce, nonceBuf[:])

	listLen := 21 + n
	var hdr [9]byte
	hn := rlp.EncodeListPrefix(listLen, hdr[:])

	var buf bytes.Buffer
	buf.Write(hdr[:hn])
	var scratch [21]byte
	_ = rlp.EncodeAddress(a[:], &buf, scratch[:])
	buf.Write(nonceBuf[:n])

	return common.BytesToAddress(Keccak256(buf.Bytes())[12:])
}

// CreateAddress2 derives the address of a contract created by CREATE2: the
// last 20 bytes of Keccak256(0xff || sender || salt || init-code-hash).
func CreateAddress2(b common.Address, salt [32]byte, inithash []byte) common.Address {
	return common.BytesToAddress(Keccak256([]byte{0xff}, b.Bytes(), salt[:], inithash)[12:])
}
