// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package util_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/msigd/util"
)

var varUint32Tests = []struct {
	value   uint32
	encoded []byte
}{
	{0, []byte{0x00}},
	{1, []byte{0x01}},
	{127, []byte{0x7f}},
	{128, []byte{0x80, 0x01}},
	{137, []byte{0x89, 0x01}},
	{255, []byte{0xff, 0x01}},
	{256, []byte{0x80, 0x02}},
	{16383, []byte{0xff, 0x7f}},
	{16384, []byte{0x80, 0x80, 0x01}},
	{0x0fffffff, []byte{0xff, 0xff, 0xff, 0x7f}},
	{0x10000000, []byte{0x80, 0x80, 0x80, 0x80, 0x01}},
	{0xffffffff, []byte{0xff, 0xff, 0xff, 0xff, 0x0f}},
}

var varUint32InvalidTests = [][]byte{
	{},
	{0x80},
	{0xff},
	{0x80, 0x80},
	{0xff, 0xff, 0xff, 0xff},
	{0xff, 0xff, 0xff, 0xff, 0x10},
	{0x80, 0x80, 0x80, 0x80, 0x80, 0x01},
}

func TestToVarUint32(t *testing.T) {
	for i, item := range varUint32Tests {
		assert.Equal(t, item.encoded, util.ToVarUint32(item.value), "%d: ToVarUint32(%d)", i, item.value)
	}
}

func TestFromVarUint32(t *testing.T) {
	for i, item := range varUint32Tests {
		suffix := []byte{0xff, 0x97, 0x23}
		b := append(append([]byte{}, item.encoded...), suffix...)

		value, count := util.FromVarUint32(b)
		assert.Equal(t, item.value, value, "%d: value", i)
		assert.Equal(t, len(item.encoded), count, "%d: count", i)
		assert.Equal(t, suffix, b[count:], "%d: suffix", i)
	}

	for i, item := range varUint32InvalidTests {
		value, count := util.FromVarUint32(item)
		assert.Equal(t, uint32(0), value, "%d: value for: %x", i, item)
		assert.Equal(t, 0, count, "%d: count for: %x", i, item)
	}
}
