package types

import (
	"bytes"
	"fmt"
	"io"

	"github.com/holiman/uint256"

	"github.com/ethcodec/txcodec/common"
	"github.com/ethcodec/txcodec/rlp"
)

// Envelope type bytes. Legacy has no explicit type byte of its own: it is
// recognized by its leading byte being an RLP list header (>= 0xc0).
const (
	LegacyTxType     = 0x00
	AccessListTxType = 0x01
	DynamicFeeTxType = 0x02
	BlobTxType       = 0x03
	SetCodeTxType    = 0x04
)

// Transaction is the sum type over the five wire envelopes. Each concrete
// type (LegacyTx, AccessListTx, DynamicFeeTx, BlobTx, SetCodeTransaction)
// implements every method; there is no shared base type with optional
// fields — dispatch is by Type() byte, not virtual lookup.
type Transaction interface {
	Type() byte
	GetChainID() *uint256.Int
	GetNonce() uint64
	GetTo() *common.Address
	GetValue() *uint256.Int
	GetData() []byte
	GetGasLimit() uint64
	GetAccessList() AccessList
	GetAuthorizations() []Authorization
	GetBlobHashes() []common.Hash
	RawSignatureValues() (v, r, s *uint256.Int)
	Protected() bool

	Hash() common.Hash
	SigningHash(chainID *uint256.Int) common.Hash
	Sender(signer Signer) (common.Address, error)
	WithSignature(signer Signer, sig []byte) (Transaction, error)

	EncodingSize() int
	EncodeRLP(w io.Writer) error
	DecodeRLP(s *rlp.Stream) error
	MarshalBinary(w io.Writer) error

	Unwrap() Transaction
}

// DecodeTransaction dispatches on the first byte of data exactly as §4.4
// describes: an RLP list header selects Legacy, a typed byte in [0x01,0x04]
// selects the matching envelope, and anything else is ErrUnknownEnvelope.
func DecodeTransaction(data []byte) (Transaction, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrTruncated)
	}

	switch {
	case data[0] >= 0xc0:
		tx := new(LegacyTx)
		if err := tx.DecodeRLP(rlp.NewStream(data)); err != nil {
			return nil, err
		}
		return tx, nil
	case data[0] == AccessListTxType:
		tx := new(AccessListTx)
		if err := tx.DecodeRLP(rlp.NewStream(data[1:])); err != nil {
			return nil, err
		}
		return tx, nil
	case data[0] == DynamicFeeTxType:
		tx := new(DynamicFeeTx)
		if err := tx.DecodeRLP(rlp.NewStream(data[1:])); err != nil {
			return nil, err
		}
		return tx, nil
	case data[0] == BlobTxType:
		tx := new(BlobTx)
		if err := tx.DecodeRLP(rlp.NewStream(data[1:])); err != nil {
			return nil, err
		}
		return tx, nil
	case data[0] == SetCodeTxType:
		tx := new(SetCodeTransaction)
		if err := tx.DecodeRLP(rlp.NewStream(data[1:])); err != nil {
			return nil, err
		}
		return tx, nil
	default:
		return nil, fmt.Errorf("%w: leading byte 0x%02x", ErrUnknownEnvelope, data[0])
	}
}

// EncodeTransaction returns the canonical wire encoding of tx: the raw RLP
// list for Legacy, or the type byte followed by the RLP payload list for a
// typed envelope.
func EncodeTransaction(tx Transaction) ([]byte, error) {
	var buf bytes.Buffer
	if err := tx.MarshalBinary(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
