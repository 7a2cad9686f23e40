// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package chainapi - read queries against a chain node's HTTP API
//
// Transport and HTTP status failures are returned as fault.QueryError
// class errors, table data that is not valid hex is a
// fault.MalformedError.
package chainapi
