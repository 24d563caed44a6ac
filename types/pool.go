package types

import "sync"

// pooledBuf recycles the scratch buffers every typed transaction's
// encodePayload uses for RLP length prefixes, avoiding an allocation per
// encoded field on the hot encode path.
var pooledBuf = sync.Pool{
	New: func() any {
		return make([]byte, 33)
	},
}

func newEncodingBuf() []byte {
	return pooledBuf.Get().([]byte)
}
