// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transactionrecord

import (
	"encoding/hex"

	"github.com/bitmark-inc/msigd/fault"
)

// HexBytes - binary data that appears as hex in JSON
type HexBytes []byte

func (b HexBytes) String() string {
	return hex.EncodeToString(b)
}

func (b HexBytes) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

func (b *HexBytes) UnmarshalText(s []byte) error {
	if 0 == len(s) {
		*b = nil
		return nil
	}
	buffer := make([]byte, hex.DecodedLen(len(s)))
	if _, err := hex.Decode(buffer, s); nil != err {
		return fault.InvalidHex
	}
	*b = buffer
	return nil
}
