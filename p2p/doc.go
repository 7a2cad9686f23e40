// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package p2p - messages of the chain's peer protocol and their framing
//
// A frame is a four byte little endian length followed by that many
// bytes: a one byte message type then the packed message.
package p2p
