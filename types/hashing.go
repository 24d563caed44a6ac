package types

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/ethcodec/txcodec/common"
	"github.com/ethcodec/txcodec/crypto"
	"github.com/ethcodec/txcodec/rlp"
)

// rlpHash returns the Keccak-256 hash of the RLP encoding of items.
func rlpHash(items []interface{}) common.Hash {
	return crypto.Keccak256Hash(rlp.EncodeItem(toItemList(items)))
}

// prefixedRlpHash returns the Keccak-256 hash of prefix followed by the RLP
// encoding of items — the preimage shape every typed envelope's signing
// hash and transaction hash share: Keccak(type_byte || RLP([fields...])).
func prefixedRlpHash(prefix byte, items []interface{}) common.Hash {
	enc := rlp.EncodeItem(toItemList(items))
	buf := make([]byte, 0, len(enc)+1)
	buf = append(buf, prefix)
	buf = append(buf, enc...)
	return crypto.Keccak256Hash(buf)
}

func toItemList(items []interface{}) rlp.List {
	list := make(rlp.List, len(items))
	for i, it := range items {
		list[i] = toItem(it)
	}
	return list
}

// toItem converts a Go value used across the transaction codec's signing
// and hashing preimages into its RLP Item shape. Supported types mirror the
// field types that appear in a transaction's unsigned/signed field lists.
func toItem(v interface{}) rlp.Item {
	switch x := v.(type) {
	case nil:
		return rlp.String(nil)
	case byte:
		return rlp.String(minimalBytes(uint64(x)))
	case uint64:
		return rlp.String(minimalBytes(x))
	case *uint64:
		if x == nil {
			return rlp.List{}
		}
		return rlp.List{toItem(*x)}
	case []byte:
		return rlp.String(x)
	case *uint256.Int:
		if x == nil {
			return rlp.String(nil)
		}
		return rlp.String(x.Bytes())
	case uint256.Int:
		return rlp.String(x.Bytes())
	case *common.Address:
		if x == nil {
			return rlp.String(nil)
		}
		b := make([]byte, common.AddressLength)
		copy(b, x[:])
		return rlp.String(b)
	case common.Address:
		b := make([]byte, common.AddressLength)
		copy(b, x[:])
		return rlp.String(b)
	case common.Hash:
		b := make([]byte, common.HashLength)
		copy(b, x[:])
		return rlp.String(b)
	case []common.Hash:
		list := make(rlp.List, len(x))
		for i, h := range x {
			list[i] = toItem(h)
		}
		return list
	case AccessList:
		list := make(rlp.List, len(x))
		for i, t := range x {
			keys := make(rlp.List, len(t.StorageKeys))
			for j, k := range t.StorageKeys {
				keys[j] = toItem(k)
			}
			list[i] = rlp.List{toItem(t.Address), keys}
		}
		return list
	case []Authorization:
		list := make(rlp.List, len(x))
		for i, a := range x {
			list[i] = a.toItem()
		}
		return list
	default:
		panic(fmt.Sprintf("types: rlpHash: unsupported field type %T", v))
	}
}

// minimalBytes returns the minimal big-endian byte representation of i,
// with zero encoding to the empty byte string per §4.1's integer rules.
func minimalBytes(i uint64) []byte {
	if i == 0 {
		return nil
	}
	return uint256.NewInt(i).Bytes()
}
