// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package limitedset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/msigd/codec"
	"github.com/bitmark-inc/msigd/limitedset"
)

func id(n byte) codec.Checksum256 {
	c := codec.Checksum256{}
	c[3] = n
	c[31] = 0xff - n
	return c
}

func TestAddition(t *testing.T) {

	items := []byte{1, 2, 3, 3, 3, 3, 4, 5, 6, 7, 8}
	newItem := []bool{true, true, true, false, false, false, true, true, true, true, true}

	ls := limitedset.New(5)

	for i, n := range items {
		assert.Equal(t, newItem[i], ls.Add(id(n)), "%d: add: %d", i, n)
	}

	assert.Equal(t, 5, ls.Len(), "length")

	// present items are not added again
	for n := byte(4); n <= 8; n += 1 {
		assert.False(t, ls.Add(id(n)), "present: %d", n)
	}
	assert.Equal(t, 5, ls.Len(), "length after repeats")

	// an evicted item can be added again and pushes out the oldest
	assert.True(t, ls.Add(id(1)), "re-add evicted")
	assert.True(t, ls.Add(id(4)), "oldest evicted by re-add")
	assert.False(t, ls.Add(id(8)), "newest still present")
	assert.Equal(t, 5, ls.Len(), "length after eviction")
}

func TestMinimumSize(t *testing.T) {
	ls := limitedset.New(0)
	assert.True(t, ls.Add(id(1)), "add")
	assert.True(t, ls.Add(id(2)), "add")
	assert.False(t, ls.Add(id(2)), "latest kept")
	assert.Equal(t, 1, ls.Len(), "size one set")
}
