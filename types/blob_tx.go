// Copyright 2022 The go-ethereum Authors
// (original work)
// Copyright 2024 The Erigon Authors
// (modifications, trimmed to wire fields only)
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
	"errors"
	"fmt"
	"io"

	"github.com/holiman/uint256"

	"github.com/ethcodec/txcodec/common"
	"github.com/ethcodec/txcodec/rlp"
)

// BlobTx is the data of an EIP-4844 transaction. It carries
// max_fee_per_blob_gas and blob_versioned_hashes as opaque wire fields only
// — KZG commitment/proof verification is state-execution territory and out
// of scope here (see DESIGN.md for the dropped go-kzg-4844 dependency).
type BlobTx struct {
	DynamicFeeTx
	MaxFeePerBlobGas    *uint256.Int
	BlobVersionedHashes []common.Hash
}

func (tx *BlobTx) Type() byte { return BlobTxType }

func (tx *BlobTx) Unwrap() Transaction { return tx }

func (tx *BlobTx) GetBlobHashes() []common.Hash { return tx.BlobVersionedHashes }

func (tx *BlobTx) copy() *BlobTx {
	cpy := &BlobTx{
		DynamicFeeTx:        *tx.DynamicFeeTx.copy(),
		MaxFeePerBlobGas:    new(uint256.Int),
		BlobVersionedHashes: make([]common.Hash, len(tx.BlobVersionedHashes)),
	}
	copy(cpy.BlobVersionedHashes, tx.BlobVersionedHashes)
	if tx.MaxFeePerBlobGas != nil {
		cpy.MaxFeePerBlobGas.Set(tx.MaxFeePerBlobGas)
	}
	return cpy
}

func (tx *BlobTx) payloadSize() (payloadSize, nonceLen, gasLen, accessListLen, blobHashesLen int) {
	payloadSize, nonceLen, gasLen, accessListLen = tx.DynamicFeeTx.payloadSizeWithoutSignature()
	payloadSize++
	payloadSize += rlp.Uint256LenExcludingHead(tx.MaxFeePerBlobGas)
	blobHashesLen = 33 * len(tx.BlobVersionedHashes)
	payloadSize += rlp.ListPrefixLen(blobHashesLen) + blobHashesLen
	payloadSize++
	payloadSize += rlp.Uint256LenExcludingHead(&tx.V)
	payloadSize++
	payloadSize += rlp.Uint256LenExcludingHead(&tx.R)
	payloadSize++
	payloadSize += rlp.Uint256LenExcludingHead(&tx.S)
	return
}

func (tx *BlobTx) EncodingSize() int {
	payloadSize, _, _, _, _ := tx.payloadSize()
	return 1 + rlp.ListPrefixLen(payloadSize) + payloadSize
}

func encodeBlobHashes(hashes []common.Hash, w io.Writer, b []byte) error {
	b[0] = 128 + 32
	for i := range hashes {
		if _, err := w.Write(b[:1]); err != nil {
			return err
		}
		if _, err := w.Write(hashes[i][:]); err != nil {
			return err
		}
	}
	return nil
}

func decodeBlobHashes(hashes *[]common.Hash, s *rlp.Stream) error {
	_, err := s.List()
	if err != nil {
		return fmt.Errorf("open BlobVersionedHashes: %w", err)
	}
	var b []byte
	for b, err = s.Bytes(); err == nil; b, err = s.Bytes() {
		if len(b) != 32 {
			return fmt.Errorf("%w: wrong size for blob versioned hash: %d", ErrWrongFieldCount, len(b))
		}
		var h common.Hash
		copy(h[:], b)
		*hashes = append(*hashes, h)
	}
	if !errors.Is(err, rlp.EOL) {
		return fmt.Errorf("read BlobVersionedHashes: %w", err)
	}
	return s.ListEnd()
}

func (tx *BlobTx) encodePayload(w io.Writer, b []byte, payloadSize, nonceLen, gasLen, accessListLen, blobHashesLen int) error {
	if err := rlp.EncodeStructSizePrefix(payloadSize, w, b); err != nil {
		return err
	}
	if err := tx.DynamicFeeTx.encodeUnsignedFields(w, b, nonceLen, gasLen, accessListLen); err != nil {
		return err
	}
	if err := rlp.EncodeUint256(tx.MaxFeePerBlobGas, w, b); err != nil {
		return err
	}
	if err := rlp.EncodeStructSizePrefix(blobHashesLen, w, b); err != nil {
		return err
	}
	if err := encodeBlobHashes(tx.BlobVersionedHashes, w, b); err != nil {
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

func (tx *BlobTx) MarshalBinary(w io.Writer) error {
	payloadSize, nonceLen, gasLen, accessListLen, blobHashesLen := tx.payloadSize()
	b := newEncodingBuf()
	defer pooledBuf.Put(b)
	b[0] = BlobTxType
	if _, err := w.Write(b[:1]); err != nil {
		return err
	}
	return tx.encodePayload(w, b[:], payloadSize, nonceLen, gasLen, accessListLen, blobHashesLen)
}

func (tx *BlobTx) EncodeRLP(w io.Writer) error {
	payloadSize, nonceLen, gasLen, accessListLen, blobHashesLen := tx.payloadSize()
	envelopeSize := 1 + rlp.ListPrefixLen(payloadSize) + payloadSize
	b := newEncodingBuf()
	defer pooledBuf.Put(b)
	if err := rlp.EncodeStringSizePrefix(envelopeSize, w, b[:]); err != nil {
		return err
	}
	b[0] = BlobTxType
	if _, err := w.Write(b[:1]); err != nil {
		return err
	}
	return tx.encodePayload(w, b[:], payloadSize, nonceLen, gasLen, accessListLen, blobHashesLen)
}

func (tx *BlobTx) DecodeRLP(s *rlp.Stream) error {
	_, err := s.List()
	if err != nil {
		return err
	}
	if err := tx.DynamicFeeTx.decodeUnsignedFields(s); err != nil {
		return err
	}
	var b []byte
	if b, err = s.Uint256Bytes(); err != nil {
		return fmt.Errorf("read MaxFeePerBlobGas: %w", err)
	}
	tx.MaxFeePerBlobGas = new(uint256.Int).SetBytes(b)
	tx.BlobVersionedHashes = nil
	if err := decodeBlobHashes(&tx.BlobVersionedHashes, s); err != nil {
		return err
	}
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

func (tx *BlobTx) WithSignature(signer Signer, sig []byte) (Transaction, error) {
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

func (tx *BlobTx) Hash() common.Hash {
	if hash := tx.hash.Load(); hash != nil {
		return *hash
	}
	hash := prefixedRlpHash(BlobTxType, []interface{}{
		tx.ChainID, tx.Nonce, tx.Tip, tx.FeeCap, tx.GasLimit, tx.To, tx.Value, tx.Data,
		tx.AccessList, tx.MaxFeePerBlobGas, tx.BlobVersionedHashes, tx.V, tx.R, tx.S,
	})
	tx.hash.Store(&hash)
	return hash
}

func (tx *BlobTx) SigningHash(chainID *uint256.Int) common.Hash {
	return prefixedRlpHash(BlobTxType, []interface{}{
		chainID, tx.Nonce, tx.Tip, tx.FeeCap, tx.GasLimit, tx.To, tx.Value, tx.Data,
		tx.AccessList, tx.MaxFeePerBlobGas, tx.BlobVersionedHashes,
	})
}

func (tx *BlobTx) Sender(signer Signer) (common.Address, error) {
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
