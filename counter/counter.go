// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package counter

import (
	"sync"
	"sync/atomic"
)

// Counter - a 64 bit unsigned integer that can be incremented or
// decremented from several goroutines
type Counter uint64

// Increment - add 1 to a counter, returns new value
func (ic *Counter) Increment() uint64 {
	return atomic.AddUint64((*uint64)(ic), 1)
}

// Decrement - subtract 1 from a counter, returns new value
func (ic *Counter) Decrement() uint64 {
	return atomic.AddUint64((*uint64)(ic), ^uint64(0))
}

// Uint64 - returns current value
func (ic *Counter) Uint64() uint64 {
	return atomic.LoadUint64((*uint64)(ic))
}

// IsZero - check if zero
func (ic *Counter) IsZero() bool {
	return 0 == ic.Uint64()
}

// Set - counters created on first use, one per label
type Set struct {
	sync.RWMutex
	counters map[string]*Counter
}

// Get - the counter for label, created if absent
func (s *Set) Get(label string) *Counter {
	s.RLock()
	c, ok := s.counters[label]
	s.RUnlock()
	if ok {
		return c
	}

	s.Lock()
	defer s.Unlock()
	if nil == s.counters {
		s.counters = make(map[string]*Counter)
	}
	if c, ok = s.counters[label]; !ok {
		c = new(Counter)
		s.counters[label] = c
	}
	return c
}

// Increment - add 1 to the counter for label
func (s *Set) Increment(label string) uint64 {
	return s.Get(label).Increment()
}

// Snapshot - current value of every counter
func (s *Set) Snapshot() map[string]uint64 {
	s.RLock()
	defer s.RUnlock()
	result := make(map[string]uint64, len(s.counters))
	for label, c := range s.counters {
		result[label] = c.Uint64()
	}
	return result
}
