package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ethcodec/txcodec/common"
)

// EIP-55 worked examples.
var checksumVectors = []string{
	"0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
	"0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359",
	"0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB",
	"0xD1220A0cf47c7B9Be7A2E6BA89F429762e7b9aDb",
}

func TestChecksumEncodeMatchesKnownVectors(t *testing.T) {
	for _, v := range checksumVectors {
		addr := common.HexToAddress(v)
		assert.Equal(t, v, ChecksumEncode(addr))
	}
}

func TestChecksumVerify(t *testing.T) {
	for _, v := range checksumVectors {
		assert.True(t, ChecksumVerify(v))
	}
}

func TestChecksumVerifyRejectsWrongCasing(t *testing.T) {
	for _, v := range checksumVectors {
		mangled := flipOneLetterCase(v)
		assert.False(t, ChecksumVerify(mangled))
	}
}

func TestChecksumVerifyAcceptsAllLowerAndAllUpper(t *testing.T) {
	// All-lowercase and all-uppercase addresses are explicitly valid
	// inputs per EIP-55 (no casing information to verify), so
	// ChecksumVerify accepts them without comparing against a checksum.
	addr := common.HexToAddress(checksumVectors[0])
	lower := "0x" + hexLower(addr.Bytes())
	assert.True(t, ChecksumVerify(lower))
	upper := "0x" + strings.ToUpper(hexLower(addr.Bytes()))
	assert.True(t, ChecksumVerify(upper))
}

func flipOneLetterCase(addr string) string {
	b := []byte(addr)
	for i, c := range b {
		if c >= 'a' && c <= 'f' {
			b[i] = c - 'a' + 'A'
			return string(b)
		}
		if c >= 'A' && c <= 'F' {
			b[i] = c - 'A' + 'a'
			return string(b)
		}
	}
	return addr
}

func hexLower(b []byte) string {
	const digits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, c := range b {
		out[i*2] = digits[c>>4]
		out[i*2+1] = digits[c&0xf]
	}
	return string(out)
}
