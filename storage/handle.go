// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"github.com/syndtr/goleveldb/leveldb"
	ldb_util "github.com/syndtr/goleveldb/leveldb/util"

	"github.com/bitmark-inc/msigd/fault"
)

// PoolHandle - one prefixed region of the database
type PoolHandle struct {
	prefix byte
	limit  []byte
	db     *Database
}

// Element - a binary data item
type Element struct {
	Key   []byte
	Value []byte
}

// prepend the prefix onto the key
func (p *PoolHandle) prefixKey(key []byte) []byte {
	prefixedKey := make([]byte, 1, len(key)+1)
	prefixedKey[0] = p.prefix
	return append(prefixedKey, key...)
}

func (p *PoolHandle) fullRange() *ldb_util.Range {
	return &ldb_util.Range{
		Start: []byte{p.prefix}, // Start of key range, included in the range
		Limit: p.limit,          // Limit of key range, excluded from the range
	}
}

// Put - store a key/value bytes pair to the database
func (p *PoolHandle) Put(key []byte, value []byte) error {
	p.db.RLock()
	defer p.db.RUnlock()
	if nil == p.db.database {
		return fault.NotInitialised
	}
	return p.db.database.Put(p.prefixKey(key), value, nil)
}

// Delete - remove a key from the database
func (p *PoolHandle) Delete(key []byte) error {
	p.db.RLock()
	defer p.db.RUnlock()
	if nil == p.db.database {
		return fault.NotInitialised
	}
	return p.db.database.Delete(p.prefixKey(key), nil)
}

// Get - read a value for a given key
//
// returns nil if the key is not present
func (p *PoolHandle) Get(key []byte) ([]byte, error) {
	p.db.RLock()
	defer p.db.RUnlock()
	if nil == p.db.database {
		return nil, fault.NotInitialised
	}
	value, err := p.db.database.Get(p.prefixKey(key), nil)
	if leveldb.ErrNotFound == err {
		return nil, nil
	}
	return value, err
}

// Has - check if a key exists
func (p *PoolHandle) Has(key []byte) (bool, error) {
	p.db.RLock()
	defer p.db.RUnlock()
	if nil == p.db.database {
		return false, fault.NotInitialised
	}
	return p.db.database.Has(p.prefixKey(key), nil)
}

// Count - number of keys in the pool
func (p *PoolHandle) Count() (int, error) {
	n := 0
	err := p.Each(func(Element) error {
		n += 1
		return nil
	})
	return n, err
}

// Clear - delete every key of the pool in one batch
func (p *PoolHandle) Clear() error {
	p.db.RLock()
	defer p.db.RUnlock()
	if nil == p.db.database {
		return fault.NotInitialised
	}

	batch := new(leveldb.Batch)
	iter := p.db.database.NewIterator(p.fullRange(), nil)
	for iter.Next() {
		key := make([]byte, len(iter.Key()))
		copy(key, iter.Key())
		batch.Delete(key)
	}
	iter.Release()
	if err := iter.Error(); nil != err {
		return err
	}
	return p.db.database.Write(batch, nil)
}

// Each - call f for every element of a consistent snapshot in key order
//
// the element slices are copies and may be retained; a non-nil error
// from f stops the iteration and is returned
func (p *PoolHandle) Each(f func(Element) error) error {
	p.db.RLock()
	if nil == p.db.database {
		p.db.RUnlock()
		return fault.NotInitialised
	}
	snapshot, err := p.db.database.GetSnapshot()
	p.db.RUnlock()
	if nil != err {
		return err
	}
	defer snapshot.Release()

	iter := snapshot.NewIterator(p.fullRange(), nil)
	defer iter.Release()

	for iter.Next() {

		// contents of the returned slice must not be modified, and are
		// only valid until the next call to Next
		key := iter.Key()
		value := iter.Value()

		dataKey := make([]byte, len(key)-1) // strip the prefix
		copy(dataKey, key[1:])              // ...

		dataValue := make([]byte, len(value))
		copy(dataValue, value)

		err := f(Element{
			Key:   dataKey,
			Value: dataValue,
		})
		if nil != err {
			return err
		}
	}
	return iter.Error()
}
