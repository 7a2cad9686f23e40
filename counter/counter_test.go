// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package counter_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/msigd/counter"
)

// test incrementing/decrementing a counter
func TestCounter(t *testing.T) {

	var c1 counter.Counter

	assert.True(t, c1.IsZero(), "zero at start")

	for i := 0; i < 5; i += 1 {
		c1.Increment()
	}
	assert.Equal(t, uint64(5), c1.Uint64(), "after incrementing")

	c1.Decrement()
	assert.Equal(t, uint64(4), c1.Uint64(), "after decrementing")

	for i := 0; i < 4; i += 1 {
		c1.Decrement()
	}
	assert.True(t, c1.IsZero(), "back to zero")

	c1.Decrement()

	// check against underflow, i.e. twos complement -1
	assert.Equal(t, ^uint64(0), c1.Uint64(), "underflow")
}

func TestSet(t *testing.T) {
	var s counter.Set

	assert.Equal(t, map[string]uint64{}, s.Snapshot(), "empty snapshot")

	var wg sync.WaitGroup
	for i := 0; i < 10; i += 1 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Increment("approve")
			s.Increment("propose")
			s.Increment("approve")
		}()
	}
	wg.Wait()

	assert.Equal(t, map[string]uint64{"approve": 20, "propose": 10}, s.Snapshot(), "snapshot")
	assert.True(t, s.Get("cancel").IsZero(), "new counter")
}
