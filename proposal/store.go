// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package proposal

import (
	"context"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/msigd/account"
	"github.com/bitmark-inc/msigd/codec"
	"github.com/bitmark-inc/msigd/fault"
	"github.com/bitmark-inc/msigd/storage"
)

// Resolver - expands accounts to everything they can authorize
//
// on error the returned closure is the part that could be resolved
type Resolver interface {
	Resolve(ctx context.Context, seed []account.Name) ([]account.Name, error)
}

// Store - handle to the proposal records
type Store struct {
	sync.Mutex // serialises writers

	log      *logger.L
	pool     *storage.PoolHandle
	resolver Resolver
	now      func() time.Time
}

// New - create a store over a storage pool
func New(pool *storage.PoolHandle, resolver Resolver) *Store {
	return &Store{
		log:      logger.New("proposal"),
		pool:     pool,
		resolver: resolver,
		now:      time.Now,
	}
}

// Add - insert a new record, an existing key is an error
func (s *Store) Add(r *Record) error {
	s.Lock()
	defer s.Unlock()

	key := r.Key.bytes()
	found, err := s.pool.Has(key)
	if nil != err {
		return err
	}
	if found {
		return fault.ProposalExists
	}

	value, err := codec.Marshal(r)
	if nil != err {
		return err
	}

	s.log.Debugf("add: %s  requested: %d", r.Key, len(r.Requested))
	return s.pool.Put(key, value)
}

// Remove - delete a record, returns false if there was none
func (s *Store) Remove(key Key) (bool, error) {
	s.Lock()
	defer s.Unlock()

	k := key.bytes()
	found, err := s.pool.Has(k)
	if nil != err || !found {
		return false, err
	}

	s.log.Debugf("remove: %s", key)
	return true, s.pool.Delete(k)
}

// Has - check if a record exists
func (s *Store) Has(key Key) (bool, error) {
	return s.pool.Has(key.bytes())
}

// Get - fetch a copy of a record
func (s *Store) Get(key Key) (*Record, error) {
	k := key.bytes()
	value, err := s.pool.Get(k)
	if nil != err {
		return nil, err
	}
	if nil == value {
		return nil, fault.NoSuchProposal
	}
	return decodeRecord(k, value)
}

// Reset - remove every record
func (s *Store) Reset() error {
	s.Lock()
	defer s.Unlock()

	s.log.Debug("reset")
	return s.pool.Clear()
}

// Count - number of records
func (s *Store) Count() (int, error) {
	return s.pool.Count()
}

// AddApproval - append a provided approval, duplicates are kept
func (s *Store) AddApproval(key Key, level account.PermissionLevel) (bool, error) {
	return s.update(key, func(r *Record) bool {
		r.Provided = append(r.Provided, level)
		return true
	})
}

// RemoveApproval - remove one provided approval equal to level
//
// returns false if the record or the level is not present
func (s *Store) RemoveApproval(key Key, level account.PermissionLevel) (bool, error) {
	return s.update(key, func(r *Record) bool {
		for i, p := range r.Provided {
			if p == level {
				r.Provided = append(r.Provided[:i], r.Provided[i+1:]...)
				return true
			}
		}
		return false
	})
}

// SetStatus - change the status of a record
func (s *Store) SetStatus(key Key, status Status) (bool, error) {
	return s.update(key, func(r *Record) bool {
		if r.Status == status {
			return false
		}
		r.Status = status
		return true
	})
}

// read-modify-write of one record, modify returns false to leave the
// record unchanged
func (s *Store) update(key Key, modify func(r *Record) bool) (bool, error) {
	s.Lock()
	defer s.Unlock()

	k := key.bytes()
	value, err := s.pool.Get(k)
	if nil != err || nil == value {
		return false, err
	}

	r, err := decodeRecord(k, value)
	if nil != err {
		return false, err
	}
	if !modify(r) {
		return false, nil
	}

	value, err = codec.Marshal(r)
	if nil != err {
		return false, err
	}
	return true, s.pool.Put(k, value)
}

// All - every record in key order
func (s *Store) All() ([]*Record, error) {
	return s.filter(func(*Record) bool { return true })
}

// Query - records needing approval from an account
//
// a nil account returns all records.  Otherwise only unexpired
// records (unless includeExpired) requesting approval from an account
// in the authorization closure of the given account are returned.
// complete is false if the closure could only be partly resolved.
func (s *Store) Query(ctx context.Context, acct *account.Name, includeExpired bool) (records []*Record, complete bool, err error) {
	if nil == acct {
		records, err = s.All()
		return records, true, err
	}

	complete = true
	closure, err := s.resolver.Resolve(ctx, []account.Name{*acct})
	if nil != err {
		s.log.Warnf("closure of: %s  incomplete: %s", *acct, err)
		complete = false
	}

	actors := make(map[account.Name]struct{}, len(closure)+1)
	actors[*acct] = struct{}{}
	for _, a := range closure {
		actors[a] = struct{}{}
	}
	s.log.Debugf("account: %s  closure: %d", *acct, len(actors))

	now := codec.TimePointSec(s.now().Unix())
	records, err = s.filter(func(r *Record) bool {
		if !includeExpired && r.Expired(now) {
			return false
		}
		return r.RequestedFrom(actors)
	})
	return records, complete, err
}

func (s *Store) filter(keep func(*Record) bool) ([]*Record, error) {
	records := make([]*Record, 0, 16)
	err := s.pool.Each(func(e storage.Element) error {
		r, err := decodeRecord(e.Key, e.Value)
		if nil != err {
			return err
		}
		if keep(r) {
			records = append(records, r)
		}
		return nil
	})
	if nil != err {
		return nil, err
	}
	return records, nil
}
