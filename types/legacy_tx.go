// Copyright 2014 The go-ethereum Authors
// (original work)
// Copyright 2024 The Erigon Authors
// (modifications)
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
	"sync/atomic"

	"github.com/holiman/uint256"

	"github.com/ethcodec/txcodec/common"
	"github.com/ethcodec/txcodec/rlp"
)

var zeroAddr = common.Address{}

// TransactionMisc holds the fields every variant memoizes without extra
// locking: the lazily-computed transaction hash and recovered sender,
// cached via atomic pointer swaps so concurrent readers never block.
type TransactionMisc struct {
	hash atomic.Pointer[common.Hash]
	from atomic.Pointer[common.Address]
}

// CommonTx holds the fields shared by every transaction variant.
type CommonTx struct {
	TransactionMisc
	Nonce    uint64
	To       *common.Address
	Value    *uint256.Int
	Data     []byte
	GasLimit uint64
}

func (ct *CommonTx) GetNonce() uint64                    { return ct.Nonce }
func (ct *CommonTx) GetTo() *common.Address               { return ct.To }
func (ct *CommonTx) GetValue() *uint256.Int               { return ct.Value }
func (ct *CommonTx) GetData() []byte                      { return ct.Data }
func (ct *CommonTx) GetGasLimit() uint64                  { return ct.GasLimit }
func (ct *CommonTx) GetAccessList() AccessList            { return nil }
func (ct *CommonTx) GetAuthorizations() []Authorization   { return nil }
func (ct *CommonTx) GetBlobHashes() []common.Hash         { return nil }

func (ct *CommonTx) cachedSender() (sender common.Address, ok bool) {
	s := ct.from.Load()
	if s == nil {
		return sender, false
	}
	return *s, true
}

// LegacyTx is the pre-EIP-2718 envelope: a bare RLP list with no type byte,
// dispatched by its leading list-header byte.
type LegacyTx struct {
	CommonTx
	GasPrice *uint256.Int
	V, R, S  uint256.Int
}

func (tx *LegacyTx) Type() byte { return LegacyTxType }

func (tx *LegacyTx) Unwrap() Transaction { return tx }

// GetChainID recovers the EIP-155 chain id folded into V, or 0 for a
// pre-EIP-155 (unprotected) legacy transaction.
func (tx *LegacyTx) GetChainID() *uint256.Int {
	return deriveChainID(&tx.V)
}

func (tx *LegacyTx) Protected() bool {
	return isProtectedV(&tx.V)
}

func (tx *LegacyTx) RawSignatureValues() (v, r, s *uint256.Int) {
	return &tx.V, &tx.R, &tx.S
}

func (tx *LegacyTx) copy() *LegacyTx {
	cpy := &LegacyTx{
		CommonTx: CommonTx{
			Nonce:    tx.Nonce,
			To:       tx.To,
			Data:     common.CopyBytes(tx.Data),
			GasLimit: tx.GasLimit,
			Value:    new(uint256.Int),
		},
		GasPrice: new(uint256.Int),
	}
	if tx.Value != nil {
		cpy.Value.Set(tx.Value)
	}
	if tx.GasPrice != nil {
		cpy.GasPrice.Set(tx.GasPrice)
	}
	cpy.V.Set(&tx.V)
	cpy.R.Set(&tx.R)
	cpy.S.Set(&tx.S)
	return cpy
}

func (tx *LegacyTx) payloadSize() (payloadSize, nonceLen, gasLen int) {
	payloadSize++
	nonceLen = rlp.IntLenExcludingHead(tx.Nonce)
	payloadSize += nonceLen
	payloadSize++
	payloadSize += rlp.Uint256LenExcludingHead(tx.GasPrice)
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
	payloadSize++
	payloadSize += rlp.Uint256LenExcludingHead(&tx.V)
	payloadSize++
	payloadSize += rlp.Uint256LenExcludingHead(&tx.R)
	payloadSize++
	payloadSize += rlp.Uint256LenExcludingHead(&tx.S)
	return
}

func (tx *LegacyTx) EncodingSize() int {
	payloadSize, _, _ := tx.payloadSize()
	return rlp.ListPrefixLen(payloadSize) + payloadSize
}

func (tx *LegacyTx) encodePayload(w io.Writer, b []byte) error {
	payloadSize, _, _ := tx.payloadSize()
	if err := rlp.EncodeStructSizePrefix(payloadSize, w, b); err != nil {
		return err
	}
	if err := rlp.EncodeInt(tx.Nonce, w, b); err != nil {
		return err
	}
	if err := rlp.EncodeUint256(tx.GasPrice, w, b); err != nil {
		return err
	}
	if err := rlp.EncodeInt(tx.GasLimit, w, b); err != nil {
		return err
	}
	if err := rlp.EncodeOptionalAddress(optionalAddr(tx.To), w, b); err != nil {
		return err
	}
	if err := rlp.EncodeUint256(tx.Value, w, b); err != nil {
		return err
	}
	if err := rlp.EncodeString(tx.Data, w, b); err != nil {
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

// EncodeRLP and MarshalBinary coincide for Legacy: the wire form is already
// a bare RLP list, with no type byte or outer envelope wrapper.
func (tx *LegacyTx) EncodeRLP(w io.Writer) error {
	b := newEncodingBuf()
	defer pooledBuf.Put(b)
	return tx.encodePayload(w, b)
}

func (tx *LegacyTx) MarshalBinary(w io.Writer) error {
	return tx.EncodeRLP(w)
}

func (tx *LegacyTx) DecodeRLP(s *rlp.Stream) error {
	if _, err := s.List(); err != nil {
		return err
	}
	var err error
	var b []byte
	if tx.Nonce, err = s.Uint(); err != nil {
		return fmt.Errorf("read Nonce: %w", err)
	}
	if b, err = s.Uint256Bytes(); err != nil {
		return fmt.Errorf("read GasPrice: %w", err)
	}
	tx.GasPrice = new(uint256.Int).SetBytes(b)
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

// Hash returns the Keccak-256 hash over the full signed RLP list — the
// transaction hash rule for Legacy per §4.4.
func (tx *LegacyTx) Hash() common.Hash {
	if hash := tx.hash.Load(); hash != nil {
		return *hash
	}
	hash := rlpHash([]interface{}{
		tx.Nonce, tx.GasPrice, tx.GasLimit, tx.To, tx.Value, tx.Data, tx.V, tx.R, tx.S,
	})
	tx.hash.Store(&hash)
	return hash
}

// SigningHash implements both signing preimages from §4.4: pre-EIP-155
// when chainID is nil or zero, EIP-155 (six fields plus chain_id, 0, 0)
// otherwise.
func (tx *LegacyTx) SigningHash(chainID *uint256.Int) common.Hash {
	if chainID == nil || chainID.IsZero() {
		return rlpHash([]interface{}{tx.Nonce, tx.GasPrice, tx.GasLimit, tx.To, tx.Value, tx.Data})
	}
	return rlpHash([]interface{}{
		tx.Nonce, tx.GasPrice, tx.GasLimit, tx.To, tx.Value, tx.Data,
		chainID, uint64(0), uint64(0),
	})
}

func (tx *LegacyTx) WithSignature(signer Signer, sig []byte) (Transaction, error) {
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
	return cpy, nil
}

func (tx *LegacyTx) Sender(signer Signer) (common.Address, error) {
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

func optionalAddr(a *common.Address) *[20]byte {
	if a == nil {
		return nil
	}
	return (*[20]byte)(a)
}

// deriveChainID recovers the chain id folded into a legacy V value per
// EIP-155: v = chain_id*2 + 35 + y. Pre-EIP-155 values {27, 28} have no
// chain id and return 0.
func deriveChainID(v *uint256.Int) *uint256.Int {
	if v.IsUint64() {
		vv := v.Uint64()
		if vv == 27 || vv == 28 {
			return new(uint256.Int)
		}
		if vv < 35 {
			return new(uint256.Int)
		}
		return new(uint256.Int).SetUint64((vv - 35) / 2)
	}
	x := new(uint256.Int).Sub(v, uint256.NewInt(35))
	return x.Div(x, uint256.NewInt(2))
}

func isProtectedV(v *uint256.Int) bool {
	if !v.IsUint64() {
		return true
	}
	vv := v.Uint64()
	return vv != 27 && vv != 28
}
