// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"sync"

	"github.com/bitmark-inc/msigd/chainapi"
	"github.com/bitmark-inc/msigd/codec"
)

// block interval in microseconds
const blockInterval = 500000

// ChainPosition - the most recent block seen
type ChainPosition struct {
	HeadID  codec.Checksum256 `json:"head_id"`
	HeadNum uint32            `json:"head_num"`
	LibID   codec.Checksum256 `json:"lib_id"`
	LibNum  uint32            `json:"lib_num"`
	Time    codec.TimePoint   `json:"time"`
}

// Position - chain id and position shared between the session and readers
type Position struct {
	sync.RWMutex
	chainID     codec.Checksum256
	current     ChainPosition
	initialised bool
}

// NewPosition - an uninitialised position
func NewPosition() *Position {
	return &Position{}
}

// Initialise - start from the head reported by a node
func (p *Position) Initialise(info *chainapi.Info) {
	p.Lock()
	defer p.Unlock()

	p.chainID = info.ChainID
	p.current = ChainPosition{
		HeadID:  info.HeadBlockID,
		HeadNum: info.HeadBlockNum,
		LibID:   info.LastIrreversibleBlockID,
		LibNum:  info.LastIrreversibleBlockNum,
		Time:    info.HeadBlockTime,
	}
	p.initialised = true
}

// IsInitialised - true once a chain head is known
func (p *Position) IsInitialised() bool {
	p.RLock()
	defer p.RUnlock()
	return p.initialised
}

// ChainID - the chain being followed
func (p *Position) ChainID() codec.Checksum256 {
	p.RLock()
	defer p.RUnlock()
	return p.chainID
}

// Get - a copy of the current position
func (p *Position) Get() ChainPosition {
	p.RLock()
	defer p.RUnlock()
	return p.current
}

// the streamed block is treated as both head and irreversible
func (p *Position) advance(id codec.Checksum256, num uint32) {
	p.Lock()
	defer p.Unlock()

	p.current = ChainPosition{
		HeadID:  id,
		HeadNum: num,
		LibID:   id,
		LibNum:  num,
		Time:    p.current.Time + blockInterval,
	}
}
