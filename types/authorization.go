package types

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/holiman/uint256"

	"github.com/ethcodec/txcodec/common"
	"github.com/ethcodec/txcodec/crypto"
	"github.com/ethcodec/txcodec/rlp"
)

// SetCodeMagic is the EIP-7702 domain separator prepended to an
// authorization tuple's signing preimage, distinguishing it from a
// transaction's own signing hash.
const SetCodeMagic = 0x05

// Authorization is one EIP-7702 authorization tuple: an account's
// delegation of its code to Address, signed independently of the
// transaction that carries it. Nonce is nil for the empty RLP list (no
// nonce constraint) and non-nil for a one-item list — the two forms are
// semantically distinct, not interchangeable encodings of the same value.
type Authorization struct {
	ChainID uint256.Int
	Address common.Address
	Nonce   *uint64
	YParity uint8
	R       uint256.Int
	S       uint256.Int
}

func (a *Authorization) copy() *Authorization {
	cpy := &Authorization{
		ChainID: a.ChainID,
		Address: a.Address,
		YParity: a.YParity,
		R:       a.R,
		S:       a.S,
	}
	if a.Nonce != nil {
		n := *a.Nonce
		cpy.Nonce = &n
	}
	return cpy
}

func (a *Authorization) toItem() rlp.Item {
	return rlp.List{
		toItem(a.ChainID),
		toItem(a.Address),
		toItem(a.Nonce),
		toItem(a.YParity),
		toItem(a.R),
		toItem(a.S),
	}
}

// sigHash computes the authorization's signing preimage:
// Keccak256(MAGIC || rlp([chain_id, address, nonce])). buf is reused across
// repeated calls to avoid a fresh allocation per authorization.
func (a *Authorization) sigHash(buf *bytes.Buffer) common.Hash {
	buf.Reset()
	buf.WriteByte(SetCodeMagic)
	buf.Write(rlp.EncodeItem(rlp.List{toItem(a.ChainID), toItem(a.Address), toItem(a.Nonce)}))
	return crypto.Keccak256Hash(buf.Bytes())
}

// RecoverSigner recovers the address (the "authority") that produced this
// tuple's (r, s, y_parity) signature. buf and scratch are caller-owned
// reusable buffers: buf backs the RLP preimage, scratch (at least 32 bytes)
// pads R and S into fixed-width big-endian form for the signature engine.
func (a *Authorization) RecoverSigner(buf *bytes.Buffer, scratch []byte) (*common.Address, error) {
	if len(scratch) < 32 {
		return nil, fmt.Errorf("%w: scratch buffer too small", ErrInvalidAuthorization)
	}
	sighash := a.sigHash(buf)

	sig := make([]byte, 65)
	for i := range scratch[:32] {
		scratch[i] = 0
	}
	rb := a.R.Bytes()
	copy(scratch[32-len(rb):32], rb)
	copy(sig[0:32], scratch[:32])

	for i := range scratch[:32] {
		scratch[i] = 0
	}
	sb := a.S.Bytes()
	copy(scratch[32-len(sb):32], sb)
	copy(sig[32:64], scratch[:32])

	sig[64] = a.YParity

	pub, err := crypto.Ecrecover(sighash[:], sig)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAuthorization, err)
	}
	pubkey, err := crypto.UnmarshalPubkeyStd(pub)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAuthorization, err)
	}
	addr := crypto.PubkeyToAddress(*pubkey)
	return &addr, nil
}

func authorizationsSize(auths []Authorization) int {
	var size int
	for _, a := range auths {
		tupleLen := authorizationTupleLen(&a)
		size += rlp.ListPrefixLen(tupleLen) + tupleLen
	}
	return size
}

func authorizationTupleLen(a *Authorization) int {
	size := rlp.Uint256LenExcludingHead(&a.ChainID) + 1
	size += 21 // address
	if a.Nonce == nil {
		size++ // empty list, 0xc0
	} else {
		nonceItemLen := rlp.U64Len(*a.Nonce)
		size += rlp.ListPrefixLen(nonceItemLen) + nonceItemLen
	}
	yParitySize := a.YParitySizeHelper()
	size += rlp.Uint256LenExcludingHead(&yParitySize) + 1
	size += rlp.Uint256LenExcludingHead(&a.R) + 1
	size += rlp.Uint256LenExcludingHead(&a.S) + 1
	return size
}

// YParitySizeHelper exposes YParity as a uint256.Int so that both
// Uint256LenExcludingHead (size accounting) and EncodeUint256 (encoding)
// can be reused for it; y_parity is always a single byte on the wire.
func (a *Authorization) YParitySizeHelper() uint256.Int {
	return *uint256.NewInt(uint64(a.YParity))
}

func encodeAuthorizations(auths []Authorization, w io.Writer, b []byte) error {
	for i := range auths {
		a := &auths[i]
		tupleLen := authorizationTupleLen(a)
		if err := rlp.EncodeStructSizePrefix(tupleLen, w, b); err != nil {
			return err
		}
		if err := rlp.EncodeUint256(&a.ChainID, w, b); err != nil {
			return err
		}
		if err := rlp.EncodeAddress(a.Address[:], w, b); err != nil {
			return err
		}
		if a.Nonce == nil {
			if _, err := w.Write([]byte{0xc0}); err != nil {
				return err
			}
		} else {
			nonceItemLen := rlp.U64Len(*a.Nonce)
			if err := rlp.EncodeStructSizePrefix(nonceItemLen, w, b); err != nil {
				return err
			}
			if err := rlp.EncodeInt(*a.Nonce, w, b); err != nil {
				return err
			}
		}
		yParity := a.YParitySizeHelper()
		if err := rlp.EncodeUint256(&yParity, w, b); err != nil {
			return err
		}
		if err := rlp.EncodeUint256(&a.R, w, b); err != nil {
			return err
		}
		if err := rlp.EncodeUint256(&a.S, w, b); err != nil {
			return err
		}
	}
	return nil
}

func decodeAuthorizations(auths *[]Authorization, s *rlp.Stream) error {
	_, err := s.List()
	if err != nil {
		return fmt.Errorf("%w: open authorizationList: %v", ErrInvalidAuthorization, err)
	}
	for _, err = s.List(); err == nil; _, err = s.List() {
		*auths = append(*auths, Authorization{})
		a := &(*auths)[len(*auths)-1]
		var b []byte
		if b, err = s.Uint256Bytes(); err != nil {
			return fmt.Errorf("%w: read ChainID: %v", ErrInvalidAuthorization, err)
		}
		a.ChainID.SetBytes(b)
		if err = s.ReadBytes(a.Address[:]); err != nil {
			return fmt.Errorf("%w: read Address: %v", ErrInvalidAuthorization, err)
		}
		if _, err = s.List(); err != nil {
			return fmt.Errorf("%w: open Nonce: %v", ErrInvalidAuthorization, err)
		}
		var nonce uint64
		if nonce, err = s.Uint(); err == nil {
			a.Nonce = &nonce
		} else if !errors.Is(err, rlp.EOL) {
			return fmt.Errorf("%w: read Nonce: %v", ErrInvalidAuthorization, err)
		}
		if err = s.ListEnd(); err != nil {
			return fmt.Errorf("%w: close Nonce: %v", ErrInvalidAuthorization, err)
		}
		var yParity uint64
		if yParity, err = s.Uint(); err != nil {
			return fmt.Errorf("%w: read YParity: %v", ErrInvalidAuthorization, err)
		}
		if yParity > 1 {
			return fmt.Errorf("%w: YParity out of range: %d", ErrInvalidAuthorization, yParity)
		}
		a.YParity = uint8(yParity)
		if b, err = s.Uint256Bytes(); err != nil {
			return fmt.Errorf("%w: read R: %v", ErrInvalidAuthorization, err)
		}
		a.R.SetBytes(b)
		if b, err = s.Uint256Bytes(); err != nil {
			return fmt.Errorf("%w: read S: %v", ErrInvalidAuthorization, err)
		}
		a.S.SetBytes(b)
		if err = s.ListEnd(); err != nil {
			return fmt.Errorf("%w: close authorization tuple: %v", ErrInvalidAuthorization, err)
		}
	}
	if !errors.Is(err, rlp.EOL) {
		return fmt.Errorf("%w: open authorization tuple: %v", ErrInvalidAuthorization, err)
	}
	return s.ListEnd()
}
