// Package u256 holds shared uint256.Int constants used throughout the
// codec and its tests, avoiding repeated allocation of common small values.
package u256

import "github.com/holiman/uint256"

var (
	N0 = uint256.NewInt(0)
	N1 = uint256.NewInt(1)
	N2 = uint256.NewInt(2)
)
