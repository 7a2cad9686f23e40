// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package limitedset

import (
	"container/ring"
	"sync"

	"github.com/bitmark-inc/msigd/codec"
)

// LimitedSet - the most recently added ids, oldest are dropped first
type LimitedSet struct {
	sync.Mutex
	size int
	ring *ring.Ring
	hash map[codec.Checksum256]*ring.Ring
}

// New - create a new limited set that holds up to 'n' items
func New(n int) *LimitedSet {
	if n < 1 {
		n = 1
	}
	return &LimitedSet{
		size: n,
		ring: ring.New(n),
		hash: make(map[codec.Checksum256]*ring.Ring, n),
	}
}

// Add - add an item to the set
//
// returns false if the item was already present
func (ls *LimitedSet) Add(item codec.Checksum256) bool {
	ls.Lock()
	defer ls.Unlock()
	if _, ok := ls.hash[item]; ok {
		return false
	}
	if oldItem, ok := ls.ring.Value.(codec.Checksum256); ok {
		delete(ls.hash, oldItem)
	}
	ls.ring.Value = item
	ls.hash[item] = ls.ring
	ls.ring = ls.ring.Next()
	return true
}

// Len - number of items held
func (ls *LimitedSet) Len() int {
	ls.Lock()
	defer ls.Unlock()
	return len(ls.hash)
}
