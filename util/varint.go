// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util

// VarUint32MaximumBytes - maximum possible number of bytes in VarUint32
const VarUint32MaximumBytes = 5

// ToVarUint32 - convert a 32 bit unsigned integer to a LEB128 varint
//
// Structure of the result
// byte 1:  ext | B06 | B05 | B04 | B03 | B02 | B01 | B00
// byte 2:  ext | B13 | B12 | B11 | B10 | B09 | B08 | B07
// byte 3:  ext | B20 | B19 | B18 | B17 | B16 | B15 | B14
// byte 4:  ext | B27 | B26 | B25 | B24 | B23 | B22 | B21
// byte 5:   0  |  0  |  0  |  0  | B31 | B30 | B29 | B28
func ToVarUint32(value uint32) []byte {
	result := make([]byte, 0, VarUint32MaximumBytes)
	for {
		b := byte(value & 0x7f)
		value >>= 7
		if 0 == value {
			return append(result, b)
		}
		result = append(result, b|0x80)
	}
}

// FromVarUint32 - convert an array of up to VarUint32MaximumBytes to a uint32
//
// also return the number of bytes used as second value
// returns 0, 0 if the buffer is truncated or the value overflows
func FromVarUint32(buffer []byte) (uint32, int) {
	result := uint32(0)
	shift := uint(0)

	for count := 0; count < len(buffer) && count < VarUint32MaximumBytes; count += 1 {
		currentByte := buffer[count]
		if VarUint32MaximumBytes-1 == count && currentByte > 0x0f {
			return 0, 0
		}
		result |= uint32(currentByte&0x7f) << shift
		if 0 == currentByte&0x80 {
			return result, count + 1
		}
		shift += 7
	}
	return 0, 0
}
