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
	"crypto/ecdsa"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"os"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// HexToECDSA parses a secp256k1 private key from its hex representation,
// which may or may not carry a 0x prefix.
func HexToECDSA(hexkey string) (*ecdsa.PrivateKey, error) {
	s := hexkey
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		var byteErr hex.InvalidByteError
		if errors.As(err, &byteErr) {
			return nil, fmt.Errorf("invalid hex character %q in private key", rune(byteErr))
		}
		return nil, errors.New("invalid hex data for private key")
	}
	return ToECDSA(b)
}

// ToECDSA constructs a private key from its 32-byte big-endian
// representation, validating that it lies in (0, N).
func ToECDSA(d []byte) (*ecdsa.PrivateKey, error) {
	priv := new(ecdsa.PrivateKey)
	priv.PublicKey.Curve = S256()
	if 8*len(d) != priv.Params().BitSize {
		return nil, fmt.Errorf("invalid length, need %d bits", priv.Params().BitSize)
	}
	priv.D = new(big.Int).SetBytes(d)

	if priv.D.Sign() <= 0 || priv.D.Cmp(secp256k1Curve.N) >= 0 {
		return nil, errors.New("invalid private key, not in [1, N-1]")
	}
	pub := secp256k1.PrivKeyFromBytes(d).PubKey()
	priv.PublicKey.X, priv.PublicKey.Y = pub.X(), pub.Y()
	return priv, nil
}

// FromECDSA exports a private key into its 32-byte big-endian form.
func FromECDSA(priv *ecdsa.PrivateKey) []byte {
	if priv == nil || priv.D == nil {
		return nil
	}
	return padTo32(priv.D.Bytes())
}

// LoadECDSA reads a private key, encoded as 64 hex characters optionally
// followed by up to two line-break characters (\n or \r, in any order),
// from file.
func LoadECDSA(file string) (*ecdsa.PrivateKey, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	body, breaks := splitTrailingLineBreaks(string(data))
	if len(breaks) > 2 {
		return nil, errors.New("key file too long, want 64 hex characters")
	}
	if len(body) < 64 {
		return nil, errors.New("key file too short, want 64 hex characters")
	}
	if len(body) > 64 {
		return nil, fmt.Errorf("invalid character %q at end of key file", rune(body[64]))
	}
	b, err := hex.DecodeString(body)
	if err != nil {
		var byteErr hex.InvalidByteError
		if errors.As(err, &byteErr) {
			return nil, fmt.Errorf("invalid hex character %q in private key", rune(byteErr))
		}
		return nil, err
	}
	return ToECDSA(b)
}

// SaveECDSA writes key to file as 64 hex characters, with 0600 permissions.
func SaveECDSA(file string, key *ecdsa.PrivateKey) error {
	k := hex.EncodeToString(FromECDSA(key))
	return os.WriteFile(file, []byte(k), 0600)
}

// splitTrailingLineBreaks pulls any trailing run of \n/\r characters off
// the end of s, returning the remainder and the run separately.
func splitTrailingLineBreaks(s string) (body, breaks string) {
	i := len(s)
	for i > 0 && (s[i-1] == '\n' || s[i-1] == '\r') {
		i--
	}
	return s[:i], s[i:]
}
