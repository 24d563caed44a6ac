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
	"crypto/elliptic"
	"math/big"

	"github.com/holiman/uint256"
)

func hexBig(s string) *big.Int {
	v, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("crypto: bad curve constant " + s)
	}
	return v
}

// secp256k1Curve carries the domain parameters of the curve used
// throughout Ethereum, expressed as a stdlib elliptic.CurveParams so that
// keys can be held as crypto/ecdsa values. The generic point arithmetic of
// elliptic.CurveParams assumes a curve with a = -3 and does not hold for
// secp256k1 (a = 0), so no point operation in this package goes through
// it: key derivation, point parsing, signing and recovery all use the
// decred secp256k1 implementation.
var secp256k1Curve = &elliptic.CurveParams{
	P:       hexBig("fffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f"),
	N:       hexBig("fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141"),
	B:       hexBig("0000000000000000000000000000000000000000000000000000000000000007"),
	Gx:      hexBig("79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"),
	Gy:      hexBig("483ada7726a3c4655da4fbfc0e1108a8fd17b448a68554199c47d08ffb10d4b8"),
	BitSize: 256,
	Name:    "secp256k1",
}

// S256 returns the secp256k1 curve.
func S256() elliptic.Curve {
	return secp256k1Curve
}

var (
	secp256k1N     = new(uint256.Int).SetBytes(secp256k1Curve.N.Bytes())
	secp256k1halfN = new(uint256.Int).Rsh(secp256k1N, 1)
)
