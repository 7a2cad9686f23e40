// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package account - chain account names and permission levels
//
// An account name is a 64 bit value holding up to 13 characters from
// the alphabet ".12345abcdefghijklmnopqrstuvwxyz", the first 12
// characters use 5 bits each and the 13th character uses the low 4
// bits.
package account
