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
	"errors"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	dcrecdsa "github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/holiman/uint256"

	"github.com/ethcodec/txcodec/common"
)

// DigestLength is the expected length, in bytes, of a hash passed to Sign
// and Ecrecover.
const DigestLength = 32

// SignatureLength is the length of an Ethereum signature: R || S || V.
const SignatureLength = 64 + 1

var errInvalidPubkey = errors.New("crypto: invalid secp256k1 public key")

// Signature is a decoded ECDSA signature over secp256k1, using the
// recovery-id V convention (0 or 1) rather than a raw curve point.
type Signature struct {
	R *uint256.Int
	S *uint256.Int
	V byte
}

// Sign produces an Ethereum-style signature (R || S || V, 65 bytes) of the
// 32-byte digest using prv. The signature is returned in canonical
// low-S form.
func Sign(digestHash []byte, prv *ecdsa.PrivateKey) ([]byte, error) {
	if len(digestHash) != DigestLength {
		return nil, fmt.Errorf("crypto: hash is required to be exactly %d bytes (%d)", DigestLength, len(digestHash))
	}
	if prv == nil || prv.D == nil {
		return nil, errors.New("crypto: private key is nil")
	}

	dprv := secp256k1.PrivKeyFromBytes(padTo32(prv.D.Bytes()))
	defer dprv.Zero()

	compact := dcrecdsa.SignCompact(dprv, digestHash, false)
	sig := make([]byte, SignatureLength)
	copy(sig[0:32], compact[1:33])
	copy(sig[32:64], compact[33:65])
	sig[64] = (compact[0] - 27) & 3
	return sig, nil
}

// Ecrecover returns the uncompressed public key (65 bytes, 0x04 prefix)
// that produced sig over hash.
func Ecrecover(hash, sig []byte) ([]byte, error) {
	pub, err := recoverPublicKey(hash, sig)
	if err != nil {
		return nil, err
	}
	return pub.SerializeUncompressed(), nil
}

func recoverPublicKey(hash, sig []byte) (*secp256k1.PublicKey, error) {
	if len(sig) != SignatureLength {
		return nil, fmt.Errorf("crypto: invalid signature length %d", len(sig))
	}
	if sig[64] > 3 {
		return nil, errors.New("crypto: invalid recovery id")
	}
	compact := make([]byte, 65)
	compact[0] = 27 + sig[64]
	copy(compact[1:33], sig[0:32])
	copy(compact[33:65], sig[32:64])

	pub, _, err := dcrecdsa.RecoverCompact(compact, hash)
	if err != nil {
		return nil, fmt.Errorf("crypto: %w", err)
	}
	return pub, nil
}

// SigToPub recovers the public key that produced sig over hash.
func SigToPub(hash, sig []byte) (*ecdsa.PublicKey, error) {
	pub, err := Ecrecover(hash, sig)
	if err != nil {
		return nil, err
	}
	return UnmarshalPubkeyStd(pub)
}

// RecoverAddress recovers the signer address that produced sig over hash.
func RecoverAddress(hash, sig []byte) (common.Address, error) {
	pub, err := SigToPub(hash, sig)
	if err != nil {
		return common.Address{}, err
	}
	return PubkeyToAddress(*pub), nil
}

// UnmarshalPubkeyStd parses a standard-encoding public key (65-byte
// uncompressed or 33-byte compressed SEC1 point).
func UnmarshalPubkeyStd(pub []byte) (*ecdsa.PublicKey, error) {
	pk, err := secp256k1.ParsePubKey(pub)
	if err != nil {
		return nil, errInvalidPubkey
	}
	return &ecdsa.PublicKey{Curve: S256(), X: pk.X(), Y: pk.Y()}, nil
}

// UnmarshalPubkey parses a 64-byte raw public key (X || Y, without the
// leading 0x04 byte used by the standard SEC1 encoding) — the loose format
// used for addresses and peer identities throughout Ethereum.
func UnmarshalPubkey(pub []byte) (*ecdsa.PublicKey, error) {
	if len(pub) != 64 {
		return nil, errInvalidPubkey
	}
	withPrefix := make([]byte, 65)
	withPrefix[0] = 4
	copy(withPrefix[1:], pub)
	return UnmarshalPubkeyStd(withPrefix)
}

// MarshalPubkey encodes pub in the 64-byte raw format (X || Y).
func MarshalPubkey(pub *ecdsa.PublicKey) []byte {
	out := make([]byte, 64)
	pub.X.FillBytes(out[:32])
	pub.Y.FillBytes(out[32:])
	return out
}

// PubkeyToAddress derives the 20-byte Ethereum address from a public key:
// the last 20 bytes of Keccak256(X || Y).
func PubkeyToAddress(p ecdsa.PublicKey) common.Address {
	return common.BytesToAddress(Keccak256(MarshalPubkey(&p))[12:])
}

// NormalizeSignature folds s into its canonical low-S form per EIP-2,
// returning the normalized value and whether a flip was applied.
func NormalizeSignature(s *uint256.Int) (*uint256.Int, bool) {
	if s.Cmp(secp256k1halfN) <= 0 {
		return new(uint256.Int).Set(s), false
	}
	return new(uint256.Int).Sub(secp256k1N, s), true
}

// TransactionSignatureIsValid reports whether (v, r, s) are within the
// valid range for a secp256k1 ECDSA signature: r and s must be non-zero
// and less than the curve order, and v must be a recovery id of 0 or 1.
func TransactionSignatureIsValid(v byte, r, s *uint256.Int, homestead bool) bool {
	if r.IsZero() || s.IsZero() {
		return false
	}
	if r.Cmp(secp256k1N) >= 0 || s.Cmp(secp256k1N) >= 0 {
		return false
	}
	_ = homestead
	return v == 0 || v == 1
}

func padTo32(b []byte) []byte {
	if len(b) >= 32 {
		return b[len(b)-32:]
	}
	out := make([]byte, 32)
	copy(out[32-len(b):], b)
	return out
}
