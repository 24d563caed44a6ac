/*
   Copyright 2021 Erigon contributors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package rlp

import "errors"

var (
	// EOL is returned by Stream methods when the end of the current list has
	// been reached. It is not a fatal decoding error; callers inspect it with
	// errors.Is to know when to stop iterating a list.
	EOL = errors.New("rlp: end of list")

	ErrTruncated           = errors.New("rlp: value truncated")
	ErrExpectedString      = errors.New("rlp: expected string, got list")
	ErrExpectedList        = errors.New("rlp: expected list, got string")
	ErrNonCanonicalSize    = errors.New("rlp: non-canonical size prefix")
	ErrNonCanonicalInteger = errors.New("rlp: non-canonical integer (leading zero byte)")
	ErrElemTooLarge        = errors.New("rlp: element larger than containing list")
	ErrMaxDepth            = errors.New("rlp: list nesting exceeds maximum depth")
	ErrUintOverflow        = errors.New("rlp: integer larger than 64 bits")
)
