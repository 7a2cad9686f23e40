// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package authorization - closure of the "can act for" relation
//
// starting from a set of accounts, repeatedly ask the chain which
// accounts list them as authorizers until no new accounts appear
package authorization
