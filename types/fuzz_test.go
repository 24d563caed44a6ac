package types

import (
	"testing"

	fuzz "github.com/google/gofuzz"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/ethcodec/txcodec/common"
	"github.com/ethcodec/txcodec/crypto"
)

// FuzzDecodeTransaction feeds arbitrary bytes to DecodeTransaction: no
// input, however malformed, may panic. A decode error is expected for
// almost every input; a crash is not.
func FuzzDecodeTransaction(f *testing.F) {
	to := mustAddr("0x0000000000000000000000000000000000001234")
	seed := &LegacyTx{
		CommonTx: CommonTx{Nonce: 1, To: &to, Value: uint256.NewInt(1), GasLimit: 21000},
		GasPrice: uint256.NewInt(1),
	}
	seedRaw, err := EncodeTransaction(seed)
	if err == nil {
		f.Add(seedRaw)
	}
	f.Add([]byte{0x01, 0xc0})
	f.Add([]byte{0x02})
	f.Add([]byte{})
	f.Fuzz(func(t *testing.T, data []byte) {
		_, _ = DecodeTransaction(data)
	})
}

// genBoundedUint256 builds a value of at most 128 bits from two fuzzed
// 64-bit words; the property run uses it for the Value and GasPrice fields.
func genBoundedUint256(f *fuzz.Fuzzer) *uint256.Int {
	var hi, lo uint64
	f.Fuzz(&hi)
	f.Fuzz(&lo)
	result := new(uint256.Int).SetUint64(hi)
	result.Lsh(result, 64)
	result.Or(result, new(uint256.Int).SetUint64(lo))
	return result
}

// TestLegacyTxRoundTripProperty is the property-based analogue of
// TestLegacyTxRoundTrip: gofuzz drives the nonce/value/gas/data fields
// instead of one fixed example, checking the encode-sign-decode-recover
// cycle holds for any combination.
func TestLegacyTxRoundTripProperty(t *testing.T) {
	f := fuzz.New().NilChance(0)
	key := testKey(t)
	signer := NewEIP155Signer(uint256.NewInt(1))

	for i := 0; i < 50; i++ {
		var nonce, gasLimit uint64
		f.Fuzz(&nonce)
		f.Fuzz(&gasLimit)
		gasLimit = gasLimit%1_000_000 + TxGasLimitMinimum
		var toAddr [20]byte
		f.Fuzz(&toAddr)
		var data []byte
		f.Fuzz(&data)
		if len(data) > 256 {
			data = data[:256]
		}

		to := common.Address(toAddr)
		tx := &LegacyTx{
			CommonTx: CommonTx{
				Nonce:    nonce,
				To:       &to,
				Value:    genBoundedUint256(f),
				Data:     data,
				GasLimit: gasLimit,
			},
			GasPrice: genBoundedUint256(f),
		}

		signed, err := SignTx(tx, signer, key)
		require.NoError(t, err)

		raw, err := EncodeTransaction(signed)
		require.NoError(t, err)

		decoded, err := DecodeTransaction(raw)
		require.NoError(t, err)
		require.Equal(t, signed.Hash(), decoded.Hash())

		addr, err := decoded.Sender(signer)
		require.NoError(t, err)
		require.Equal(t, crypto.PubkeyToAddress(key.PublicKey), addr)
	}
}
