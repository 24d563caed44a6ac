package types

import (
	"errors"

	"github.com/ethcodec/txcodec/rlp"
)

// Error taxonomy for transaction decode/validation failures. Most are
// wrapped with additional context via fmt.Errorf("%w: ...") at the call site
// that detects them; ErrInvalidSig and ErrInvalidChainID are returned as is.
// ErrNonCanonicalRLP and ErrNonCanonicalInteger are the rlp package's own
// sentinels, which rlp.Stream reports for a non-minimal length prefix and
// for an integer with a leading zero byte.
var (
	ErrTruncated            = errors.New("types: truncated transaction input")
	ErrNonCanonicalRLP      = rlp.ErrNonCanonicalSize
	ErrNonCanonicalInteger  = rlp.ErrNonCanonicalInteger
	ErrUnknownEnvelope      = errors.New("types: unknown transaction envelope")
	ErrWrongFieldCount      = errors.New("types: wrong number of transaction fields")
	ErrInvalidAccessList    = errors.New("types: invalid access list")
	ErrInvalidAuthorization = errors.New("types: invalid authorization tuple")
	ErrMalformedSignature   = errors.New("types: malformed signature")
	ErrInvalidSig           = errors.New("types: invalid transaction signature")
	ErrInvalidChainID       = errors.New("types: invalid chain id for signer")
	ErrGasLimitTooLow       = errors.New("types: gas limit below intrinsic minimum")
)

// TxGasLimitMinimum is the minimum gas_limit a signed transaction may carry,
// per the wire-level invariant in §3 ("gas_limit ≥ 21000 whenever the
// transaction is signed") — not an EVM gas schedule computation.
const TxGasLimitMinimum = 21000
