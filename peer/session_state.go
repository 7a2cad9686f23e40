// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

// a state type for the session
type sessionState int

// state of the session process
const (
	// connection lost, wait before reconnecting
	sStateDisconnected sessionState = iota

	// open the TCP connection
	sStateConnecting

	// introduce ourselves with a signed handshake
	sStateHandshaking

	// request the blocks missed since the last position
	sStateSyncing

	// apply blocks as they arrive
	sStateStreaming
)

func (state sessionState) String() string {
	switch state {
	case sStateDisconnected:
		return "Disconnected"
	case sStateConnecting:
		return "Connecting"
	case sStateHandshaking:
		return "Handshaking"
	case sStateSyncing:
		return "Syncing"
	case sStateStreaming:
		return "Streaming"
	default:
		return "*Unknown*"
	}
}
