// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	ldb_storage "github.com/syndtr/goleveldb/leveldb/storage"

	"github.com/bitmark-inc/logger"
)

// Pools - the set of exported pools
//
// note all must be exported (i.e. initial capital) or initialisation will panic
type Pools struct {
	Proposals *PoolHandle `prefix:"P"`
	TestData  *PoolHandle `prefix:"Z"`
}

// Database - handle to one in-memory database and its pools
type Database struct {
	sync.RWMutex
	Pools

	log      *logger.L
	database *leveldb.DB
}

// New - open a fresh in-memory database and set up all pools
func New() (*Database, error) {
	db, err := leveldb.Open(ldb_storage.NewMemStorage(), nil)
	if nil != err {
		return nil, err
	}

	d := &Database{
		log:      logger.New("storage"),
		database: db,
	}

	poolType := reflect.TypeOf(d.Pools)

	// get write access by using pointer + Elem()
	poolValue := reflect.ValueOf(&d.Pools).Elem()

	// scan each field
	for i := 0; i < poolType.NumField(); i += 1 {

		fieldInfo := poolType.Field(i)

		prefixTag := fieldInfo.Tag.Get("prefix")
		if 1 != len(prefixTag) {
			db.Close()
			return nil, fmt.Errorf("pool: %v has invalid prefix: %q", fieldInfo.Name, prefixTag)
		}

		prefix := prefixTag[0]
		limit := []byte(nil)
		if prefix < 255 {
			limit = []byte{prefix + 1}
		}

		p := &PoolHandle{
			prefix: prefix,
			limit:  limit,
			db:     d,
		}
		poolValue.Field(i).Set(reflect.ValueOf(p))
	}

	d.log.Info("in-memory database opened")
	return d, nil
}

// Close - release the database, all pools become unusable
func (d *Database) Close() error {
	d.Lock()
	defer d.Unlock()

	if nil == d.database {
		return nil
	}
	err := d.database.Close()
	d.database = nil
	d.log.Info("database closed")
	return err
}
