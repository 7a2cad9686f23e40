// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package transactionrecord - chain transactions, actions and the
// records of the multisig contract
//
// Every type here is a codec.Record so it can be packed to, and
// unpacked from, the chain's binary format.
package transactionrecord
