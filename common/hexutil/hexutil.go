// Package hexutil provides hex encoding helpers compatible with the
// 0x-prefixed conventions used across the Ethereum ecosystem.
package hexutil

import (
	"encoding/hex"
	"math/big"
	"strings"
)

// FromHex decodes s, stripping an optional 0x/0X prefix and padding an odd
// number of hex digits with a leading zero.
func FromHex(s string) []byte {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil
	}
	return b
}

// MustDecodeBig decodes a 0x-prefixed hex string into a big.Int, panicking
// on malformed input. It is intended for use with trusted constants, such
// as those appearing in tests.
func MustDecodeBig(s string) *big.Int {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
	}
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("hexutil: invalid big integer hex string " + s)
	}
	return v
}
