// Copyright 2022 The go-ethereum Authors
// (original work)
// Copyright 2024 The Erigon Authors
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
	"fmt"
	"io"

	"github.com/holiman/uint256"

	"github.com/ethcodec/txcodec/common"
	"github.com/ethcodec/txcodec/rlp"
)

// DynamicFeeTx is the data of an EIP-1559 transaction: replaces Legacy's
// single gas_price with a priority-fee/fee-cap pair and adds an access
// list. BlobTx and SetCodeTransaction both embed this shape and extend it.
type DynamicFeeTx struct {
	CommonTx
	ChainID    *uint256.Int
	Tip        *uint256.Int // max_priority_fee_per_gas
	FeeCap     *uint256.Int // max_fee_per_gas
	AccessList AccessList
	V, R, S    uint256.Int
}

func (tx *DynamicFeeTx) Type() byte { return DynamicFeeTxType }

func (tx *DynamicFeeTx) Unwrap() Transaction { return tx }

func (tx *DynamicFeeTx) GetChainID() *uint256.Int { return tx.ChainID }

func (tx *DynamicFeeTx) GetAccessList() AccessList { return tx.AccessList }

func (tx *DynamicFeeTx) GetAuthorizations() []Authorization { return nil }

func (tx *DynamicFeeTx) Protected() bool { return true }

func (tx *DynamicFeeTx) RawSignatureValues() (v, r, s *uint256.Int) {
	return &tx.V, &tx.R, &tx.S
}

func (tx *DynamicFeeTx) copy() *DynamicFeeTx {
	cpy := &DynamicFeeTx{
		CommonTx: CommonTx{
			Nonce:    tx.Nonce,
			To:       tx.To,
			Data:     common.CopyBytes(tx.Data),
			GasLimit: tx.GasLimit,
			Value:    new(uint256.Int),
		},
		ChainID:    new(uint256.Int),
		Tip:        new(uint256.Int),
		FeeCap:     new(uint256.Int),
		AccessList: make(AccessList, len(tx.AccessList)),
	}
	copy(cpy.AccessList, tx.AccessList)
	if tx.Value != nil {
		cpy.Value.Set(tx.Value)
	}
	if tx.ChainID != nil {
		cpy.ChainID.Set(tx.ChainID)
	}
	if tx.Tip != nil {
		cpy.Tip.Set(tx.Tip)
	}
	if tx.FeeCap != nil {
		cpy.FeeCap.Set(tx.FeeCap)
	}
	cpy.V.Set(&tx.V)
	cpy.R.Set(&tx.R)
	cpy.S.Set(&tx.S)
	return cpy
}

// payloadSizeWithoutSignature computes the size of the unsigned field block
// (chain_id through access_list) shared verbatim by BlobTx and
// SetCodeTransaction ahead of their own extra fields and signature.
func (tx *DynamicFeeTx) payloadSizeWithoutSignature() (payloadSize, nonceLen, gasLen, accessListLen int) {
	payloadSize++
	payloadSize += rlp.Uint256LenExcludingHead(tx.ChainID)
	payloadSize++
	nonceLen = rlp.IntLenExcludingHead(tx.Nonce)
	payloadSize += nonceLen
	payloadSize++
	payloadSize += rlp.Uint256LenExcludingHead(tx.Tip)
	payloadSize++
	payloadSize += rlp.Uint256LenExcludingHead(tx.FeeCap)
	payloadSize++
	gasLen = rlp.IntLenExcludingHead(tx.GasLimit)
	payloadSize += gasLen
	payloadSize++
	if tx.To != nil {
		payloadSize += 20
	}
	payloadSize++
	payloadSize += rlp.Uint256LenExcludingHead(tx.Value)
	payloadSize += rlp.StringLen(tx.Data)
	accessListLen = accessListSize(tx.AccessList)
	payloadSize += rlp.ListPrefixLen(accessListLen) + accessListLen
	return
}

func (tx *DynamicFeeTx) payloadSize() (payloadSize, nonceLen, gasLen, accessListLen int) {
	payloadSize, nonceLen, gasLen, accessListLen = tx.payloadSizeWithoutSignature()
	payloadSize++
	payloadSize += rlp.Uint256LenExcludingHead(&tx.V)
	payloadSize++
	payloadSize += rlp.Uint256LenExcludingHead(&tx.R)
	payloadSize++
	payloadSize += rlp.Uint256LenExcludingHead(&tx.S)
	return
}

func (tx *DynamicFeeTx) EncodingSize() int {
	payloadSize, _, _, _ := tx.payloadSize()
	return 1 + rlp.ListPrefixLen(payloadSize) + payloadSize
}

// encodeUnsignedFields writes chain_id through access_list without a list
// prefix — the caller has already written the enclosing struct's size
// prefix, since BlobTx and SetCodeTransaction insert extra fields after
// access_list and before the signature.
func (tx *DynamicFeeTx) encodeUnsignedFields(w io.Writer, b []byte, _, _, accessListLen int) error {
	if err := rlp.EncodeUint256(tx.ChainID, w, b); err != nil {
		return err
	}
	if err := rlp.EncodeInt(tx.Nonce, w, b); err != nil {
		return err
	}
	if err := rlp.EncodeUint256(tx.Tip, w, b); err != nil {
		return err
	}
	if err := rlp.EncodeUint256(tx.FeeCap, w, b); err != nil {
		return err
	}
	if err := rlp.EncodeInt(tx.GasLimit, w, b); err != nil {
		return err
	}
	if tx.To == nil {
		b[0] = 128
	} else {
		b[0] = 128 + 20
	}
	if _, err := w.Write(b[:1]); err != nil {
		return err
	}
	if tx.To != nil {
		if _, err := w.Write(tx.To[:]); err != nil {
			return err
		}
	}
	if err := rlp.EncodeUint256(tx.Value, w, b); err != nil {
		return err
	}
	if err := rlp.EncodeString(tx.Data, w, b); err != nil {
		return err
	}
	if err := rlp.EncodeStructSizePrefix(accessListLen, w, b); err != nil {
		return err
	}
	return encodeAccessList(tx.AccessList, w, b)
}

func (tx *DynamicFeeTx) encodePayload(w io.Writer, b []byte, payloadSize, nonceLen, gasLen, accessListLen int) error {
	if err := rlp.EncodeStructSizePrefix(payloadSize, w, b); err != nil {
		return err
	}
	if err := tx.encodeUnsignedFields(w, b, nonceLen, gasLen, accessListLen); err != nil {
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

func (tx *DynamicFeeTx) MarshalBinary(w io.Writer) error {
	payloadSize, nonceLen, gasLen, accessListLen := tx.payloadSize()
	b := newEncodingBuf()
	defer pooledBuf.Put(b)
	b[0] = DynamicFeeTxType
	if _, err := w.Write(b[:1]); err != nil {
		return err
	}
	return tx.encodePayload(w, b[:], payloadSize, nonceLen, gasLen, accessListLen)
}

func (tx *DynamicFeeTx) EncodeRLP(w io.Writer) error {
	payloadSize, nonceLen, gasLen, accessListLen := tx.payloadSize()
	envelopeSize := 1 + rlp.ListPrefixLen(payloadSize) + payloadSize
	b := newEncodingBuf()
	defer pooledBuf.Put(b)
	if err := rlp.EncodeStringSizePrefix(envelopeSize, w, b[:]); err != nil {
		return err
	}
	b[0] = DynamicFeeTxType
	if _, err := w.Write(b[:1]); err != nil {
		return err
	}
	return tx.encodePayload(w, b[:], payloadSize, nonceLen, gasLen, accessListLen)
}

// decodeUnsignedFields reads chain_id through access_list. The caller has
// already opened the enclosing list with s.List() and is responsible for
// whatever fields follow (extra fields, then signature, then s.ListEnd()).
func (tx *DynamicFeeTx) decodeUnsignedFields(s *rlp.Stream) error {
	var err error
	var b []byte
	if b, err = s.Uint256Bytes(); err != nil {
		return fmt.Errorf("read ChainID: %w", err)
	}
	tx.ChainID = new(uint256.Int).SetBytes(b)
	if tx.Nonce, err = s.Uint(); err != nil {
		return fmt.Errorf("read Nonce: %w", err)
	}
	if b, err = s.Uint256Bytes(); err != nil {
		return fmt.Errorf("read Tip: %w", err)
	}
	tx.Tip = new(uint256.Int).SetBytes(b)
	if b, err = s.Uint256Bytes(); err != nil {
		return fmt.Errorf("read FeeCap: %w", err)
	}
	tx.FeeCap = new(uint256.Int).SetBytes(b)
	if tx.GasLimit, err = s.Uint(); err != nil {
		return fmt.Errorf("read GasLimit: %w", err)
	}
	if b, err = s.Bytes(); err != nil {
		return fmt.Errorf("read To: %w", err)
	}
	if len(b) > 0 && len(b) != 20 {
		return fmt.Errorf("%w: wrong size for To: %d", ErrWrongFieldCount, len(b))
	}
	if len(b) > 0 {
		tx.To = &common.Address{}
		copy((*tx.To)[:], b)
	}
	if b, err = s.Uint256Bytes(); err != nil {
		return fmt.Errorf("read Value: %w", err)
	}
	tx.Value = new(uint256.Int).SetBytes(b)
	if tx.Data, err = s.Bytes(); err != nil {
		return fmt.Errorf("read Data: %w", err)
	}
	tx.AccessList = AccessList{}
	if err = decodeAccessList(&tx.AccessList, s); err != nil {
		return fmt.Errorf("read AccessList: %w", err)
	}
	return nil
}

func (tx *DynamicFeeTx) DecodeRLP(s *rlp.Stream) error {
	if _, err := s.List(); err != nil {
		return err
	}
	if err := tx.decodeUnsignedFields(s); err != nil {
		return err
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

func (tx *DynamicFeeTx) WithSignature(signer Signer, sig []byte) (Transaction, error) {
	if tx.GasLimit < TxGasLimitMinimum {
		return nil, fmt.Errorf("%w: %d", ErrGasLimitTooLow, tx.GasLimit)
	}
	cpy := tx.copy()
	v, r, s, err := signer.SignatureValues(tx, sig)
	if err != nil {
		return nil, err
	}
	cpy.R.Set(r)
	cpy.S.Set(s)
	cpy.V.Set(v)
	cpy.ChainID = signer.ChainID()
	return cpy, nil
}

func (tx *DynamicFeeTx) Hash() common.Hash {
	if hash := tx.hash.Load(); hash != nil {
		return *hash
	}
	hash := prefixedRlpHash(DynamicFeeTxType, []interface{}{
		tx.ChainID, tx.Nonce, tx.Tip, tx.FeeCap, tx.GasLimit, tx.To, tx.Value, tx.Data,
		tx.AccessList, tx.V, tx.R, tx.S,
	})
	tx.hash.Store(&hash)
	return hash
}

func (tx *DynamicFeeTx) SigningHash(chainID *uint256.Int) common.Hash {
	return prefixedRlpHash(DynamicFeeTxType, []interface{}{
		chainID, tx.Nonce, tx.Tip, tx.FeeCap, tx.GasLimit, tx.To, tx.Value, tx.Data, tx.AccessList,
	})
}

func (tx *DynamicFeeTx) Sender(signer Signer) (common.Address, error) {
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
