// Copyright 2014 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package crypto

import (
	"golang.org/x/crypto/sha3"

	"github.com/ethcodec/txcodec/common"
)

// Keccak256 hashes the concatenation of data with the Keccak-256 algorithm
// (the pre-standardization variant used throughout Ethereum; note it does
// not use the NIST SHA3 padding).
func Keccak256(data ...[]byte) []byte {
	b := make([]byte, 32)
	d := sha3.NewLegacyKeccak256()
	for _, b2 := range data {
		d.Write(b2)
	}
	d.Sum(b[:0])
	return b
}

// Keccak256Hash hashes the concatenation of data and returns it as a Hash.
func Keccak256Hash(data ...[]byte) (h common.Hash) {
	d := NewKeccakState()
	defer ReturnHasherToPool(d)
	for _, b := range data {
		d.Write(b)
	}
	d.Read(h[:])
	return h
}

// Keccak512 hashes the concatenation of data with the Keccak-512 algorithm.
func Keccak512(data ...[]byte) []byte {
	d := sha3.NewLegacyKeccak512()
	b := make([]byte, 64)
	for _, b2 := range data {
		d.Write(b2)
	}
	d.Sum(b[:0])
	return b
}
