// Copyright 2024 The Erigon Authors
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
	"hash"
	"sync"

	"golang.org/x/crypto/sha3"

	"github.com/ethcodec/txcodec/common"
)

// KeccakState wraps sha3.state. In addition to the usual hash methods, it
// also supports Read to get a variable amount of data from the hash state.
// Read is faster than Sum because it doesn't copy the internal state, but
// also modifies the internal state.
type KeccakState interface {
	hash.Hash
	Read([]byte) (int, error)
}

var keccakStatePool = sync.Pool{
	New: func() any {
		return sha3.NewLegacyKeccak256().(KeccakState)
	},
}

// NewKeccakState returns a reset Keccak-256 state, reused from an internal
// pool to avoid the allocation sha3.NewLegacyKeccak256 makes on every call.
// The caller should return it with ReturnHasherToPool once done.
func NewKeccakState() KeccakState {
	ks := keccakStatePool.Get().(KeccakState)
	ks.Reset()
	return ks
}

// ReturnHasherToPool returns a KeccakState obtained from NewKeccakState to
// the pool for reuse.
func ReturnHasherToPool(ks KeccakState) { keccakStatePool.Put(ks) }

// HashData hashes data using the supplied KeccakState, resetting it first,
// and returns the result without affecting the caller's ownership of ks.
func HashData(kh KeccakState, data []byte) common.Hash {
	kh.Reset()
	kh.Write(data)
	var h common.Hash
	kh.Read(h[:])
	return h
}
