// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package peer - follows the chain over a single P2P connection
//
// session side:
//
// * handshake and request the blocks missed since the last position
// * stream blocks and pass their transactions to the dispatcher
// * answer time messages to keep the connection alive
// * reconnect after a fixed delay whenever the connection fails
package peer
