// Copyright 2015 The go-ethereum Authors
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

package common

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/sha3"
)

// AddressLength is the expected length of an Ethereum account address.
const AddressLength = 20

// Address represents the 20-byte address of an Ethereum account.
type Address [AddressLength]byte

// BytesToAddress returns Address with the last 20 bytes of b. If b is
// shorter, it is left-padded with zeros.
func BytesToAddress(b []byte) Address {
	var a Address
	a.SetBytes(b)
	return a
}

// HexToAddress returns Address with the bytes decoded from the hex string s,
// which may or may not carry a 0x prefix.
func HexToAddress(s string) Address {
	return BytesToAddress(FromHex(s))
}

// IsHexAddress verifies that s is a valid hex-encoded 20-byte address,
// accepting an optional 0x prefix.
func IsHexAddress(s string) bool {
	if has0xPrefix(s) {
		s = s[2:]
	}
	return len(s) == 2*AddressLength && isHex(s)
}

// SetBytes sets the address to the value of b. If b is larger than
// AddressLength, it is truncated from the left.
func (a *Address) SetBytes(b []byte) {
	if len(b) > len(a) {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
}

// Bytes returns the raw bytes of the address.
func (a Address) Bytes() []byte { return a[:] }

// Hex returns the EIP-55 mixed-case checksum hex encoding of a.
func (a Address) Hex() string {
	return checksumHex(a[:])
}

// String implements fmt.Stringer.
func (a Address) String() string { return a.Hex() }

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(input []byte) error {
	s := string(input)
	if has0xPrefix(s) {
		s = s[2:]
	}
	if len(s) != 2*AddressLength {
		return fmt.Errorf("common: invalid address length %d", len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("common: invalid address hex: %w", err)
	}
	copy(a[:], b)
	return nil
}

// checksumHex renders addr as an EIP-55 mixed-case checksum address. It
// calls Keccak-256 directly, rather than importing the crypto package,
// because crypto in turn depends on common for the Address and Hash types
// it operates on.
func checksumHex(addr []byte) string {
	lower := hex.EncodeToString(addr)

	hasher := sha3.NewLegacyKeccak256()
	hasher.Write([]byte(lower))
	hash := hasher.Sum(nil)

	out := []byte(lower)
	for i, c := range out {
		if c < 'a' {
			continue
		}
		hashByte := hash[i/2]
		if i%2 == 0 {
			hashByte >>= 4
		} else {
			hashByte &= 0xf
		}
		if hashByte >= 8 {
			out[i] = c - 'a' + 'A'
		}
	}
	return "0x" + string(out)
}
