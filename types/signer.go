// Copyright 2016 The go-ethereum Authors
// (modifications, generalized for the typed envelope family)
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

package types

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/holiman/uint256"

	"github.com/ethcodec/txcodec/common"
	"github.com/ethcodec/txcodec/crypto"
)

// Signer encapsulates the transaction signing and sender-recovery rules for
// one envelope family. Legacy transactions route through Frontier,
// Homestead, or EIP155 depending on whether V is folded with a chain id;
// every typed envelope (AccessList, DynamicFee, Blob, SetCode) shares a
// single y_parity-based rule via LatestSigner.
type Signer interface {
	// Sender returns the address that produced tx's signature.
	Sender(tx Transaction) (common.Address, error)
	// SignatureValues translates a 65-byte [R || S || V] signature into the
	// (v, r, s) triple tx's wire encoding expects.
	SignatureValues(tx Transaction, sig []byte) (v, r, s *uint256.Int, err error)
	// ChainID returns the chain id this signer binds transactions to, or a
	// zero value for a signer with no chain-id binding (Frontier, Homestead).
	ChainID() *uint256.Int
	// Equal reports whether other applies the same rules as this signer.
	Equal(other Signer) bool
}

// SignTx signs tx's signing hash with prv and returns the signed copy.
func SignTx(tx Transaction, s Signer, prv *ecdsa.PrivateKey) (Transaction, error) {
	h := signingHashFor(tx, s)
	sig, err := crypto.Sign(h[:], prv)
	if err != nil {
		return nil, err
	}
	return tx.WithSignature(s, sig)
}

func signingHashFor(tx Transaction, s Signer) common.Hash {
	if tx.Type() == LegacyTxType {
		return tx.SigningHash(s.ChainID())
	}
	return tx.SigningHash(nil)
}

// LatestSigner handles every typed envelope (AccessList, DynamicFee, Blob,
// SetCode): each carries chain_id in its own unsigned fields and signs with
// a direct y_parity (0 or 1), never the legacy v = 27/28/2*chainID+35+y
// folding.
type LatestSigner struct {
	chainID *uint256.Int
}

func NewLatestSigner(chainID *uint256.Int) LatestSigner {
	id := new(uint256.Int)
	if chainID != nil {
		id.Set(chainID)
	}
	return LatestSigner{chainID: id}
}

func (s LatestSigner) ChainID() *uint256.Int { return s.chainID }

func (s LatestSigner) Equal(other Signer) bool {
	o, ok := other.(LatestSigner)
	return ok && o.chainID.Cmp(s.chainID) == 0
}

func (s LatestSigner) SignatureValues(tx Transaction, sig []byte) (v, r, sVal *uint256.Int, err error) {
	if len(sig) != crypto.SignatureLength {
		return nil, nil, nil, fmt.Errorf("%w: got %d bytes, want %d", ErrMalformedSignature, len(sig), crypto.SignatureLength)
	}
	r = new(uint256.Int).SetBytes(sig[:32])
	sVal = new(uint256.Int).SetBytes(sig[32:64])
	v = new(uint256.Int).SetUint64(uint64(sig[64]))
	return v, r, sVal, nil
}

func (s LatestSigner) Sender(tx Transaction) (common.Address, error) {
	if tx.Type() == LegacyTxType {
		return HomesteadSigner{}.Sender(tx)
	}
	chainID := tx.GetChainID()
	if chainID == nil || !chainID.Eq(s.chainID) {
		return common.Address{}, ErrInvalidChainID
	}
	v, r, sv := tx.RawSignatureValues()
	if v.BitLen() > 8 {
		return common.Address{}, ErrInvalidSig
	}
	return recoverSender(tx.SigningHash(nil), r, sv, byte(v.Uint64()), true)
}

// EIP155Signer implements the legacy chain-id-folded signing rule: when the
// transaction is protected (V is not 27 or 28) the preimage and recovered
// V incorporate chainID per EIP-155; unprotected transactions fall back to
// Homestead.
type EIP155Signer struct {
	chainID    *uint256.Int
	chainIDMul *uint256.Int
}

func NewEIP155Signer(chainID *uint256.Int) EIP155Signer {
	id := new(uint256.Int)
	if chainID != nil {
		id.Set(chainID)
	}
	return EIP155Signer{
		chainID:    id,
		chainIDMul: new(uint256.Int).Mul(id, uint256.NewInt(2)),
	}
}

func (s EIP155Signer) ChainID() *uint256.Int { return s.chainID }

func (s EIP155Signer) Equal(other Signer) bool {
	o, ok := other.(EIP155Signer)
	return ok && o.chainID.Cmp(s.chainID) == 0
}

func (s EIP155Signer) Sender(tx Transaction) (common.Address, error) {
	if !tx.Protected() {
		return HomesteadSigner{}.Sender(tx)
	}
	chainID := tx.GetChainID()
	if chainID == nil || !chainID.Eq(s.chainID) {
		return common.Address{}, ErrInvalidChainID
	}
	v, r, sv := tx.RawSignatureValues()
	V := new(uint256.Int).Sub(v, s.chainIDMul)
	V.Sub(V, uint256.NewInt(35))
	if V.BitLen() > 8 {
		return common.Address{}, ErrInvalidSig
	}
	return recoverSender(tx.SigningHash(s.chainID), r, sv, byte(V.Uint64()), true)
}

func (s EIP155Signer) SignatureValues(tx Transaction, sig []byte) (v, r, sVal *uint256.Int, err error) {
	v, r, sVal, err = HomesteadSigner{}.SignatureValues(tx, sig)
	if err != nil {
		return nil, nil, nil, err
	}
	if s.chainID.Sign() != 0 {
		v = new(uint256.Int).SetUint64(uint64(sig[64]) + 35)
		v.Add(v, s.chainIDMul)
	}
	return v, r, sVal, nil
}

// HomesteadSigner implements the Homestead signing rule: a plain V of 27 or
// 28. Recovery passes homestead=true to crypto.TransactionSignatureIsValid,
// which ignores that flag, so a high S value is accepted here as well.
type HomesteadSigner struct{ FrontierSigner }

func (hs HomesteadSigner) Equal(other Signer) bool {
	_, ok := other.(HomesteadSigner)
	return ok
}

func (hs HomesteadSigner) SignatureValues(tx Transaction, sig []byte) (v, r, s *uint256.Int, err error) {
	return hs.FrontierSigner.SignatureValues(tx, sig)
}

func (hs HomesteadSigner) Sender(tx Transaction) (common.Address, error) {
	v, r, s := tx.RawSignatureValues()
	if v.BitLen() > 8 {
		return common.Address{}, ErrInvalidSig
	}
	V := byte(v.Uint64() - 27)
	return recoverSender(tx.SigningHash(nil), r, s, V, true)
}

// FrontierSigner implements the original, pre-Homestead signing rule: a
// plain V of 27 or 28, with high-S accepted on recovery.
type FrontierSigner struct{}

func (fs FrontierSigner) Equal(other Signer) bool {
	_, ok := other.(FrontierSigner)
	return ok
}

func (fs FrontierSigner) ChainID() *uint256.Int { return new(uint256.Int) }

func (fs FrontierSigner) SignatureValues(tx Transaction, sig []byte) (v, r, s *uint256.Int, err error) {
	if len(sig) != crypto.SignatureLength {
		return nil, nil, nil, fmt.Errorf("%w: got %d bytes, want %d", ErrMalformedSignature, len(sig), crypto.SignatureLength)
	}
	r = new(uint256.Int).SetBytes(sig[:32])
	s = new(uint256.Int).SetBytes(sig[32:64])
	v = new(uint256.Int).SetUint64(uint64(sig[64]) + 27)
	return v, r, s, nil
}

func (fs FrontierSigner) Sender(tx Transaction) (common.Address, error) {
	v, r, s := tx.RawSignatureValues()
	if v.BitLen() > 8 {
		return common.Address{}, ErrInvalidSig
	}
	V := byte(v.Uint64() - 27)
	return recoverSender(tx.SigningHash(nil), r, s, V, false)
}

func recoverSender(sighash common.Hash, r, s *uint256.Int, v byte, homestead bool) (common.Address, error) {
	if !crypto.TransactionSignatureIsValid(v, r, s, homestead) {
		return common.Address{}, ErrInvalidSig
	}
	rb, sb := r.Bytes(), s.Bytes()
	sig := make([]byte, crypto.SignatureLength)
	copy(sig[32-len(rb):32], rb)
	copy(sig[64-len(sb):64], sb)
	sig[64] = v
	return crypto.RecoverAddress(sighash[:], sig)
}
