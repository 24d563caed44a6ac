// Copyright 2021 The Erigon Authors
// (modifications, generalized for this codec)
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

package types

import (
	"bytes"
	"fmt"
	"io"

	"github.com/holiman/uint256"

	"github.com/ethcodec/txcodec/common"
	"github.com/ethcodec/txcodec/rlp"
)

// DelegateDesignationCodeSize is the length of the delegation-designation
// bytecode an EIP-7702 authorization installs: a 3-byte prefix plus a
// 20-byte address.
const DelegateDesignationCodeSize = 23

// DelegatedDesignationPrefix is the magic bytecode prefix (EIP-7702) that
// marks an account's code as a delegation to another address rather than
// ordinary bytecode.
var DelegatedDesignationPrefix = []byte{0xef, 0x01, 0x00}

// SetCodeTransaction is the data of an EIP-7702 transaction: a DynamicFeeTx
// extended with a list of authorization tuples, each of which can install
// delegated code on an EOA for the duration of the transaction.
type SetCodeTransaction struct {
	DynamicFeeTx
	Authorizations []Authorization
}

func (tx *SetCodeTransaction) Type() byte { return SetCodeTxType }

func (tx *SetCodeTransaction) Unwrap() Transaction { return tx }

func (tx *SetCodeTransaction) GetAuthorizations() []Authorization { return tx.Authorizations }

func (tx *SetCodeTransaction) copy() *SetCodeTransaction {
	cpy := &SetCodeTransaction{
		DynamicFeeTx:   *tx.DynamicFeeTx.copy(),
		Authorizations: make([]Authorization, len(tx.Authorizations)),
	}
	for i := range tx.Authorizations {
		cpy.Authorizations[i] = *tx.Authorizations[i].copy()
	}
	return cpy
}

func (tx *SetCodeTransaction) payloadSize() (payloadSize, nonceLen, gasLen, accessListLen, authorizationsLen int) {
	payloadSize, nonceLen, gasLen, accessListLen = tx.DynamicFeeTx.payloadSizeWithoutSignature()
	authorizationsLen = authorizationsSize(tx.Authorizations)
	payloadSize += rlp.ListPrefixLen(authorizationsLen) + authorizationsLen
	payloadSize++
	payloadSize += rlp.Uint256LenExcludingHead(&tx.V)
	payloadSize++
	payloadSize += rlp.Uint256LenExcludingHead(&tx.R)
	payloadSize++
	payloadSize += rlp.Uint256LenExcludingHead(&tx.S)
	return
}

func (tx *SetCodeTransaction) EncodingSize() int {
	payloadSize, _, _, _, _ := tx.payloadSize()
	return 1 + rlp.ListPrefixLen(payloadSize) + payloadSize
}

func (tx *SetCodeTransaction) encodePayload(w io.Writer, b []byte, payloadSize, nonceLen, gasLen, accessListLen, authorizationsLen int) error {
	if err := rlp.EncodeStructSizePrefix(payloadSize, w, b); err != nil {
		return err
	}
	if err := tx.DynamicFeeTx.encodeUnsignedFields(w, b, nonceLen, gasLen, accessListLen); err != nil {
		return err
	}
	if err := rlp.EncodeStructSizePrefix(authorizationsLen, w, b); err != nil {
		return err
	}
	if err := encodeAuthorizations(tx.Authorizations, w, b); err != nil {
		return err
	}
	if err := rlp.EncodeUint256(&tx.V, w, b); err != nil {
		return err
	}
	if err := rlp.EncodeUint256(&tx.R, w, b); err != nil {
		return err
	}
	return rlp.EncodeUint256(&tx.S, w, b)
}

func (tx *SetCodeTransaction) MarshalBinary(w io.Writer) error {
	payloadSize, nonceLen, gasLen, accessListLen, authorizationsLen := tx.payloadSize()
	b := newEncodingBuf()
	defer pooledBuf.Put(b)
	b[0] = SetCodeTxType
	if _, err := w.Write(b[:1]); err != nil {
		return err
	}
	return tx.encodePayload(w, b[:], payloadSize, nonceLen, gasLen, accessListLen, authorizationsLen)
}

func (tx *SetCodeTransaction) EncodeRLP(w io.Writer) error {
	payloadSize, nonceLen, gasLen, accessListLen, authorizationsLen := tx.payloadSize()
	envelopeSize := 1 + rlp.ListPrefixLen(payloadSize) + payloadSize
	b := newEncodingBuf()
	defer pooledBuf.Put(b)
	if err := rlp.EncodeStringSizePrefix(envelopeSize, w, b[:]); err != nil {
		return err
	}
	b[0] = SetCodeTxType
	if _, err := w.Write(b[:1]); err != nil {
		return err
	}
	return tx.encodePayload(w, b[:], payloadSize, nonceLen, gasLen, accessListLen, authorizationsLen)
}

func (tx *SetCodeTransaction) DecodeRLP(s *rlp.Stream) error {
	if _, err := s.List(); err != nil {
		return err
	}
	if err := tx.DynamicFeeTx.decodeUnsignedFields(s); err != nil {
		return err
	}
	tx.Authorizations = make([]Authorization, 0)
	if err := decodeAuthorizations(&tx.Authorizations, s); err != nil {
		return fmt.Errorf("read Authorizations: %w", err)
	}
	var b []byte
	var err error
	if b, err = s.Uint256Bytes(); err != nil {
		return fmt.Errorf("read V: %w", err)
	}
	tx.V.SetBytes(b)
	if b, err = s.Uint256Bytes(); err != nil {
		return fmt.Errorf("read R: %w", err)
	}
	tx.R.SetBytes(b)
	if b, err = s.Uint256Bytes(); err != nil {
		return fmt.Errorf("read S: %w", err)
	}
	tx.S.SetBytes(b)
	return s.ListEnd()
}

func (tx *SetCodeTransaction) WithSignature(signer Signer, sig []byte) (Transaction, error) {
	if tx.GasLimit < TxGasLimitMinimum {
		return nil, fmt.Errorf("%w: %d", ErrGasLimitTooLow, tx.GasLimit)
	}
	cpy := tx.copy()
	v, r, s, err := signer.SignatureValues(tx, sig)
	if err != nil {
		return nil, err
	}
	cpy.V.Set(v)
	cpy.R.Set(r)
	cpy.S.Set(s)
	cpy.ChainID = signer.ChainID()
	return cpy, nil
}

func (tx *SetCodeTransaction) Hash() common.Hash {
	if hash := tx.hash.Load(); hash != nil {
		return *hash
	}
	hash := prefixedRlpHash(SetCodeTxType, []interface{}{
		tx.ChainID, tx.Nonce, tx.Tip, tx.FeeCap, tx.GasLimit, tx.To, tx.Value, tx.Data,
		tx.AccessList, tx.Authorizations, tx.V, tx.R, tx.S,
	})
	tx.hash.Store(&hash)
	return hash
}

func (tx *SetCodeTransaction) SigningHash(chainID *uint256.Int) common.Hash {
	return prefixedRlpHash(SetCodeTxType, []interface{}{
		chainID, tx.Nonce, tx.Tip, tx.FeeCap, tx.GasLimit, tx.To, tx.Value, tx.Data,
		tx.AccessList, tx.Authorizations,
	})
}

func (tx *SetCodeTransaction) Sender(signer Signer) (common.Address, error) {
	if from := tx.from.Load(); from != nil {
		if *from != zeroAddr {
			return *from, nil
		}
	}
	addr, err := signer.Sender(tx)
	if err != nil {
		return common.Address{}, err
	}
	tx.from.Store(&addr)
	return addr, nil
}

// ParseDelegation reports the delegate address encoded in an account's code,
// if that code is a valid EIP-7702 delegation designation.
func ParseDelegation(code []byte) (common.Address, bool) {
	if len(code) != DelegateDesignationCodeSize || !bytes.HasPrefix(code, DelegatedDesignationPrefix) {
		return common.Address{}, false
	}
	var addr common.Address
	copy(addr[:], code[len(DelegatedDesignationPrefix):])
	return addr, true
}

// AddressToDelegation builds the delegation-designation bytecode pointing
// at addr.
func AddressToDelegation(addr common.Address) []byte {
	code := make([]byte, 0, DelegateDesignationCodeSize)
	code = append(code, DelegatedDesignationPrefix...)
	code = append(code, addr.Bytes()...)
	return code
}
