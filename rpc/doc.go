// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package rpc - the read only HTTP API
//
// GET /proposals/{account}?expired={bool} lists the proposals that
// an account can act on, directly or through permissions delegated
// to it.  GET /msigd/details reports the state of the service.
//
// every reply is JSON, errors are {"code":…, "error":…}
package rpc
