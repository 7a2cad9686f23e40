// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - in-memory key/value pools
//
// a single leveldb instance on memory storage is split into pools,
// each pool owning a one byte key prefix.  No data survives a restart.
package storage
