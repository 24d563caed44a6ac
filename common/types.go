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
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// UnprefixedHash allows marshaling a Hash without 0x prefix.
type UnprefixedHash Hash

// UnmarshalText decodes the hash from hex. The 0x prefix is optional.
func (h *UnprefixedHash) UnmarshalText(input []byte) error {
	dec := FromHex(string(input))
	if len(dec) != HashLength {
		return fmt.Errorf("common: invalid unprefixed hash length %d", len(dec))
	}
	copy(h[:], dec)
	return nil
}

// MarshalText encodes the hash as hex.
func (h UnprefixedHash) MarshalText() ([]byte, error) {
	return []byte(hex.EncodeToString(h[:])), nil
}

// UnprefixedAddress allows marshaling an Address without 0x prefix.
type UnprefixedAddress Address

// UnmarshalText decodes the address from hex. The 0x prefix is optional.
func (a *UnprefixedAddress) UnmarshalText(input []byte) error {
	dec := FromHex(string(input))
	if len(dec) != AddressLength {
		return fmt.Errorf("common: invalid unprefixed address length %d", len(dec))
	}
	copy(a[:], dec)
	return nil
}

// MarshalText encodes the address as hex.
func (a UnprefixedAddress) MarshalText() ([]byte, error) {
	return []byte(hex.EncodeToString(a[:])), nil
}

// MixedcaseAddress retains the original string, which may or may not be
// correctly checksummed.
type MixedcaseAddress struct {
	addr     Address
	original string
}

// NewMixedcaseAddress constructor (mainly for testing).
func NewMixedcaseAddress(addr Address) MixedcaseAddress {
	return MixedcaseAddress{addr: addr, original: addr.Hex()}
}

// NewMixedcaseAddressFromString is mainly meant for unit-testing.
func NewMixedcaseAddressFromString(hexaddr string) (*MixedcaseAddress, error) {
	if !IsHexAddress(hexaddr) {
		return nil, errors.New("invalid address")
	}
	return &MixedcaseAddress{addr: HexToAddress(hexaddr), original: hexaddr}, nil
}

// UnmarshalJSON parses MixedcaseAddress.
func (ma *MixedcaseAddress) UnmarshalJSON(input []byte) error {
	var s string
	if err := json.Unmarshal(input, &s); err != nil {
		return err
	}
	if err := ma.addr.UnmarshalText([]byte(s)); err != nil {
		return err
	}
	ma.original = s
	return nil
}

// MarshalJSON marshals the original value.
func (ma *MixedcaseAddress) MarshalJSON() ([]byte, error) {
	if strings.HasPrefix(ma.original, "0x") || strings.HasPrefix(ma.original, "0X") {
		return json.Marshal(fmt.Sprintf("0x%s", ma.original[2:]))
	}
	return json.Marshal(fmt.Sprintf("0x%s", ma.original))
}

// Address returns the address.
func (ma *MixedcaseAddress) Address() Address {
	return ma.addr
}

// String implements fmt.Stringer.
func (ma *MixedcaseAddress) String() string {
	if ma.ValidChecksum() {
		return fmt.Sprintf("%s [chksum ok]", ma.original)
	}
	return fmt.Sprintf("%s [chksum INVALID]", ma.original)
}

// ValidChecksum returns true if the address has valid EIP-55 checksum.
func (ma *MixedcaseAddress) ValidChecksum() bool {
	return ma.original == ma.addr.Hex()
}

// Original returns the mixed-case input string.
func (ma *MixedcaseAddress) Original() string {
	return ma.original
}

// Addresses is a slice of Address, implementing sort.Interface.
type Addresses []Address

func (addrs Addresses) Len() int { return len(addrs) }
func (addrs Addresses) Less(i, j int) bool {
	return bytes.Compare(addrs[i][:], addrs[j][:]) == -1
}
func (addrs Addresses) Swap(i, j int) { addrs[i], addrs[j] = addrs[j], addrs[i] }

// Hashes is a slice of Hash, implementing sort.Interface.
type Hashes []Hash

func (hashes Hashes) Len() int { return len(hashes) }
func (hashes Hashes) Less(i, j int) bool {
	return bytes.Compare(hashes[i][:], hashes[j][:]) == -1
}
func (hashes Hashes) Swap(i, j int) { hashes[i], hashes[j] = hashes[j], hashes[i] }

// StorageKeyLen is the length of a StorageKey: two concatenated hashes.
const StorageKeyLen = 2 * HashLength

// StorageKey is the representation of the address of a contract storage
// item. It consists of two 32-byte hashes: the hash of the contract's
// address and the hash of the item's key.
type StorageKey [StorageKeyLen]byte

// StorageKeys is a slice of StorageKey, implementing sort.Interface.
type StorageKeys []StorageKey

func (keys StorageKeys) Len() int { return len(keys) }
func (keys StorageKeys) Less(i, j int) bool {
	return bytes.Compare(keys[i][:], keys[j][:]) == -1
}
func (keys StorageKeys) Swap(i, j int) { keys[i], keys[j] = keys[j], keys[i] }
