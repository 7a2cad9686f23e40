// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package proposal - the live set of multisig proposals
//
// records are keyed by (proposer, proposal name) and stored codec
// encoded in a storage pool; a record exists from propose (or
// bootstrap) until cancel, executed records are kept
package proposal
