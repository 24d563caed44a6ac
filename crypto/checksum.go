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

package crypto

import (
	"strings"

	"github.com/ethcodec/txcodec/common"
)

// ChecksumEncode renders addr using the EIP-55 mixed-case checksum.
func ChecksumEncode(addr common.Address) string {
	return addr.Hex()
}

// ChecksumVerify reports whether s is a syntactically valid address whose
// casing is either uniform (all lowercase or all uppercase, which carries
// no checksum) or matches its EIP-55 checksum exactly.
func ChecksumVerify(s string) bool {
	if !common.IsHexAddress(s) {
		return false
	}
	body := s[len(s)-2*common.AddressLength:]
	if body == strings.ToLower(body) || body == strings.ToUpper(body) {
		return true
	}
	return common.HexToAddress(s).Hex() == s
}
