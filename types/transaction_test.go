package types

import (
	"bytes"
	"crypto/ecdsa"
	"errors"
	"testing"

	"github.com/holiman/uint256"

	"github.com/ethcodec/txcodec/common"
	"github.com/ethcodec/txcodec/common/hex"
	"github.com/ethcodec/txcodec/crypto"
)

func mustHash(hexDigits string) common.Hash {
	var h common.Hash
	copy(h[:], hex.MustDecodeString(hexDigits))
	return h
}

func testKey(t *testing.T) *ecdsa.PrivateKey {
	t.Helper()
	key, err := crypto.HexToECDSA("0101010101010101010101010101010101010101010101010101010101010101")
	if err != nil {
		t.Fatalf("load test key: %v", err)
	}
	return key
}

func mustAddr(s string) common.Address { return common.HexToAddress(s) }

func signAndRoundTrip(t *testing.T, tx Transaction, signer Signer) Transaction {
	t.Helper()
	key := testKey(t)
	signed, err := SignTx(tx, signer, key)
	if err != nil {
		t.Fatalf("SignTx: %v", err)
	}

	raw, err := EncodeTransaction(signed)
	if err != nil {
		t.Fatalf("EncodeTransaction: %v", err)
	}

	decoded, err := DecodeTransaction(raw)
	if err != nil {
		t.Fatalf("DecodeTransaction: %v", err)
	}
	if decoded.Type() != signed.Type() {
		t.Fatalf("type mismatch: got %d, want %d", decoded.Type(), signed.Type())
	}
	if decoded.Hash() != signed.Hash() {
		t.Fatalf("hash mismatch after round trip: got %x, want %x", decoded.Hash(), signed.Hash())
	}

	wantAddr := crypto.PubkeyToAddress(key.PublicKey)
	gotAddr, err := decoded.Sender(signer)
	if err != nil {
		t.Fatalf("Sender: %v", err)
	}
	if gotAddr != wantAddr {
		t.Fatalf("recovered sender mismatch: got %x, want %x", gotAddr, wantAddr)
	}
	return decoded
}

func TestLegacyTxRoundTrip(t *testing.T) {
	t.Parallel()
	to := mustAddr("0x0000000000000000000000000000000000001234")
	tx := &LegacyTx{
		CommonTx: CommonTx{
			Nonce:    3,
			To:       &to,
			Value:    uint256.NewInt(1000),
			Data:     []byte{1, 2, 3},
			GasLimit: 21000,
		},
		GasPrice: uint256.NewInt(1_000_000_000),
	}
	signAndRoundTrip(t, tx, NewEIP155Signer(uint256.NewInt(1)))
}

func TestLegacyTxContractCreation(t *testing.T) {
	t.Parallel()
	tx := &LegacyTx{
		CommonTx: CommonTx{
			Nonce:    0,
			To:       nil,
			Value:    uint256.NewInt(0),
			Data:     []byte{0x60, 0x80, 0x60, 0x40},
			GasLimit: 500000,
		},
		GasPrice: uint256.NewInt(2_000_000_000),
	}
	decoded := signAndRoundTrip(t, tx, NewEIP155Signer(uint256.NewInt(5)))
	if decoded.GetTo() != nil {
		t.Fatalf("expected nil To for contract creation, got %v", decoded.GetTo())
	}
}

func TestLegacyTxUnprotected(t *testing.T) {
	t.Parallel()
	to := mustAddr("0x0000000000000000000000000000000000005678")
	tx := &LegacyTx{
		CommonTx: CommonTx{
			Nonce:    0,
			To:       &to,
			Value:    uint256.NewInt(1),
			GasLimit: 21000,
		},
		GasPrice: uint256.NewInt(1),
	}
	key := testKey(t)
	signed, err := SignTx(tx, FrontierSigner{}, key)
	if err != nil {
		t.Fatalf("SignTx: %v", err)
	}
	if signed.Protected() {
		t.Fatal("expected unprotected legacy tx after Frontier signing")
	}
	addr, err := signed.Sender(FrontierSigner{})
	if err != nil {
		t.Fatalf("Sender: %v", err)
	}
	if addr != crypto.PubkeyToAddress(key.PublicKey) {
		t.Fatal("sender mismatch")
	}
}

func TestAccessListTxRoundTrip(t *testing.T) {
	t.Parallel()
	to := mustAddr("0x0000000000000000000000000000000000001234")
	tx := &AccessListTx{
		LegacyTx: LegacyTx{
			CommonTx: CommonTx{
				Nonce:    7,
				To:       &to,
				Value:    uint256.NewInt(42),
				Data:     []byte("hello"),
				GasLimit: 50000,
			},
			GasPrice: uint256.NewInt(3_000_000_000),
		},
		ChainID: uint256.NewInt(1),
		AccessList: AccessList{
			{
				Address:     mustAddr("0x00000000000000000000000000000000000001"),
				StorageKeys: []common.Hash{{1}, {2}},
			},
		},
	}
	decoded := signAndRoundTrip(t, tx, NewLatestSigner(uint256.NewInt(1)))
	al := decoded.GetAccessList()
	if len(al) != 1 || len(al[0].StorageKeys) != 2 {
		t.Fatalf("access list did not round trip: %+v", al)
	}
}

func TestDynamicFeeTxRoundTrip(t *testing.T) {
	t.Parallel()
	to := mustAddr("0x0000000000000000000000000000000000004321")
	tx := &DynamicFeeTx{
		CommonTx: CommonTx{
			Nonce:    1,
			To:       &to,
			Value:    uint256.NewInt(9),
			GasLimit: 30000,
		},
		ChainID:    uint256.NewInt(1),
		Tip:        uint256.NewInt(1_000_000_000),
		FeeCap:     uint256.NewInt(5_000_000_000),
		AccessList: nil,
	}
	signAndRoundTrip(t, tx, NewLatestSigner(uint256.NewInt(1)))
}

func TestBlobTxRoundTrip(t *testing.T) {
	t.Parallel()
	to := mustAddr("0x0000000000000000000000000000000000009999")
	tx := &BlobTx{
		DynamicFeeTx: DynamicFeeTx{
			CommonTx: CommonTx{
				Nonce:    2,
				To:       &to,
				Value:    uint256.NewInt(0),
				GasLimit: 100000,
			},
			ChainID: uint256.NewInt(1),
			Tip:     uint256.NewInt(1_000_000_000),
			FeeCap:  uint256.NewInt(10_000_000_000),
		},
		MaxFeePerBlobGas: uint256.NewInt(1),
		BlobVersionedHashes: []common.Hash{
			mustHash("01aa000000000000000000000000000000000000000000000000000000000000"),
			mustHash("01bb000000000000000000000000000000000000000000000000000000000000"),
		},
	}
	decoded := signAndRoundTrip(t, tx, NewLatestSigner(uint256.NewInt(1)))
	if len(decoded.GetBlobHashes()) != 2 {
		t.Fatalf("blob hashes did not round trip: %+v", decoded.GetBlobHashes())
	}
}

func TestSetCodeTxRoundTrip(t *testing.T) {
	t.Parallel()
	to := mustAddr("0x0000000000000000000000000000000000001111")
	nonce := uint64(4)
	tx := &SetCodeTransaction{
		DynamicFeeTx: DynamicFeeTx{
			CommonTx: CommonTx{
				Nonce:    3,
				To:       &to,
				Value:    uint256.NewInt(0),
				GasLimit: 80000,
			},
			ChainID: uint256.NewInt(1),
			Tip:     uint256.NewInt(1_000_000_000),
			FeeCap:  uint256.NewInt(10_000_000_000),
		},
		Authorizations: []Authorization{
			{
				ChainID: *uint256.NewInt(1),
				Address: mustAddr("0x0000000000000000000000000000000000002222"),
				Nonce:   &nonce,
				YParity: 0,
				R:       *uint256.NewInt(1),
				S:       *uint256.NewInt(1),
			},
		},
	}
	decoded := signAndRoundTrip(t, tx, NewLatestSigner(uint256.NewInt(1)))
	auths := decoded.GetAuthorizations()
	if len(auths) != 1 || auths[0].Nonce == nil || *auths[0].Nonce != 4 {
		t.Fatalf("authorizations did not round trip: %+v", auths)
	}
}

func TestSetCodeTxAuthorizationEmptyNonce(t *testing.T) {
	t.Parallel()
	tx := &SetCodeTransaction{
		DynamicFeeTx: DynamicFeeTx{
			CommonTx: CommonTx{
				Nonce:    0,
				Value:    uint256.NewInt(0),
				GasLimit: 80000,
			},
			ChainID: uint256.NewInt(1),
			Tip:     uint256.NewInt(1),
			FeeCap:  uint256.NewInt(1),
		},
		Authorizations: []Authorization{
			{
				ChainID: *uint256.NewInt(1),
				Address: mustAddr("0x0000000000000000000000000000000000002222"),
				Nonce:   nil,
				YParity: 1,
				R:       *uint256.NewInt(2),
				S:       *uint256.NewInt(3),
			},
		},
	}
	decoded := signAndRoundTrip(t, tx, NewLatestSigner(uint256.NewInt(1)))
	auths := decoded.GetAuthorizations()
	if len(auths) != 1 || auths[0].Nonce != nil {
		t.Fatalf("expected nil nonce to round trip as nil, got %+v", auths)
	}
}

func TestDecodeTransactionUnknownEnvelope(t *testing.T) {
	t.Parallel()
	_, err := DecodeTransaction([]byte{0x05})
	if err == nil {
		t.Fatal("expected error for unknown envelope type")
	}
}

func TestDecodeTransactionEmpty(t *testing.T) {
	t.Parallel()
	if _, err := DecodeTransaction(nil); err == nil {
		t.Fatal("expected error decoding empty input")
	}
}

func TestEncodeTransactionEnvelopeBytePrefix(t *testing.T) {
	t.Parallel()
	to := mustAddr("0x0000000000000000000000000000000000001234")
	tx := &DynamicFeeTx{
		CommonTx: CommonTx{
			Nonce:    0,
			To:       &to,
			Value:    uint256.NewInt(0),
			GasLimit: 21000,
		},
		ChainID: uint256.NewInt(1),
		Tip:     uint256.NewInt(1),
		FeeCap:  uint256.NewInt(1),
	}
	key := testKey(t)
	signed, err := SignTx(tx, NewLatestSigner(uint256.NewInt(1)), key)
	if err != nil {
		t.Fatalf("SignTx: %v", err)
	}
	raw, err := EncodeTransaction(signed)
	if err != nil {
		t.Fatalf("EncodeTransaction: %v", err)
	}
	if raw[0] != DynamicFeeTxType {
		t.Fatalf("expected leading type byte 0x%02x, got 0x%02x", DynamicFeeTxType, raw[0])
	}
}

func TestHashIsMemoized(t *testing.T) {
	t.Parallel()
	to := mustAddr("0x0000000000000000000000000000000000001234")
	tx := &LegacyTx{
		CommonTx: CommonTx{
			Nonce:    0,
			To:       &to,
			Value:    uint256.NewInt(0),
			GasLimit: 21000,
		},
		GasPrice: uint256.NewInt(1),
	}
	h1 := tx.Hash()
	h2 := tx.Hash()
	if h1 != h2 {
		t.Fatal("Hash() should be memoized and stable across calls")
	}
}

func TestWithSignatureRejectsGasLimitBelowMinimum(t *testing.T) {
	t.Parallel()
	to := mustAddr("0x0000000000000000000000000000000000001234")
	key := testKey(t)
	signer := NewEIP155Signer(uint256.NewInt(1))

	tx := &LegacyTx{
		CommonTx: CommonTx{
			Nonce:    0,
			To:       &to,
			Value:    uint256.NewInt(0),
			GasLimit: TxGasLimitMinimum - 1,
		},
		GasPrice: uint256.NewInt(1),
	}
	if _, err := SignTx(tx, signer, key); !errors.Is(err, ErrGasLimitTooLow) {
		t.Fatalf("SignTx with gas_limit=%d: got %v, want ErrGasLimitTooLow", tx.GasLimit, err)
	}

	tx.GasLimit = TxGasLimitMinimum
	if _, err := SignTx(tx, signer, key); err != nil {
		t.Fatalf("SignTx at the gas_limit floor (%d) should succeed: %v", TxGasLimitMinimum, err)
	}
}

func TestWithSignatureDoesNotMutateOriginal(t *testing.T) {
	t.Parallel()
	to := mustAddr("0x0000000000000000000000000000000000001234")
	tx := &LegacyTx{
		CommonTx: CommonTx{
			Nonce:    0,
			To:       &to,
			Value:    uint256.NewInt(0),
			GasLimit: 21000,
		},
		GasPrice: uint256.NewInt(1),
	}
	before := tx.V
	key := testKey(t)
	if _, err := SignTx(tx, NewEIP155Signer(uint256.NewInt(1)), key); err != nil {
		t.Fatalf("SignTx: %v", err)
	}
	if tx.V.Cmp(&before) != 0 {
		t.Fatal("SignTx must not mutate the original transaction")
	}
}

func TestEncodeRLPEmbedsAsString(t *testing.T) {
	t.Parallel()
	to := mustAddr("0x0000000000000000000000000000000000001234")
	tx := &DynamicFeeTx{
		CommonTx: CommonTx{
			Nonce:    0,
			To:       &to,
			Value:    uint256.NewInt(0),
			GasLimit: 21000,
		},
		ChainID: uint256.NewInt(1),
		Tip:     uint256.NewInt(1),
		FeeCap:  uint256.NewInt(1),
	}
	key := testKey(t)
	signed, err := SignTx(tx, NewLatestSigner(uint256.NewInt(1)), key)
	if err != nil {
		t.Fatalf("SignTx: %v", err)
	}
	var buf bytes.Buffer
	if err := signed.EncodeRLP(&buf); err != nil {
		t.Fatalf("EncodeRLP: %v", err)
	}
	// A typed envelope embedded via EncodeRLP is wrapped as an RLP string,
	// so its first byte is a string-length prefix, not the type byte.
	if buf.Bytes()[0] == DynamicFeeTxType {
		t.Fatal("EncodeRLP output should be prefixed as an RLP string, not the bare type byte")
	}
}
