// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package bootstrap - rebuild all proposals from the contract tables
//
// the whole load is repeated from the start after any failure until
// one complete pass succeeds
package bootstrap
