// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package codec - the chain's canonical binary serialisation
//
// Fixed width integers are little endian, lengths and counts are
// LEB128 varints.  A struct is described by an ordered list of Field
// descriptors returned from its Schema method, the generic Pack and
// Unpack routines walk that list.  Fields marked as extensions are
// optional trailing fields: when the input is exhausted they are
// absent, and once one is absent no later field may be present.
package codec
