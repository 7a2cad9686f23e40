// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package blockrecord - signed blocks as streamed by a chain peer
//
// A block number is not carried in the header, it is one more than
// the big endian number in the first four bytes of the previous block
// id.  A block id is the SHA-256 of the packed header with its first
// four bytes replaced by the block number.
package blockrecord
