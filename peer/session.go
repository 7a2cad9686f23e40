// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package peer

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/msigd/blockrecord"
	"github.com/bitmark-inc/msigd/chainapi"
	"github.com/bitmark-inc/msigd/counter"
	"github.com/bitmark-inc/msigd/fault"
	"github.com/bitmark-inc/msigd/limitedset"
	"github.com/bitmark-inc/msigd/mode"
	"github.com/bitmark-inc/msigd/p2p"
	"github.com/bitmark-inc/msigd/peer/upstream"
	"github.com/bitmark-inc/msigd/transactionrecord"
)

// defaults
const (
	DefaultReconnectDelay = 3 * time.Second
	DefaultP2PAddress     = "none"

	// recently applied block ids
	recentBlocks = 1000
)

// Dispatcher - receives every complete transaction of a block
type Dispatcher interface {
	HandleTransaction(tx *transactionrecord.Transaction)
}

// Configuration - session settings
type Configuration struct {
	Host           string
	Port           int
	P2PAddress     string
	Agent          string
	ReconnectDelay time.Duration
}

// Session - the single P2P connection state machine
type Session struct {
	sync.RWMutex

	log        *logger.L
	address    string
	p2pAddress string
	agent      string
	delay      time.Duration

	position   *Position
	dispatcher Dispatcher
	chain      chainapi.Client
	mode       *mode.State
	client     upstream.Upstream
	ready      <-chan struct{}
	recent     *limitedset.LimitedSet

	state        sessionState
	peerHead     uint32
	blocks       counter.Counter
	transactions counter.Counter
	reconnects   counter.Counter
}

// Statistics - counts for the details endpoint
type Statistics struct {
	State        string `json:"state"`
	Connected    bool   `json:"connected"`
	PeerHead     uint32 `json:"peer_head"`
	RecentBlocks int    `json:"recent_blocks"`
	Blocks       uint64 `json:"blocks"`
	Transactions uint64 `json:"transactions"`
	Reconnects   uint64 `json:"reconnects"`
}

// New - create a session, it waits for ready to be closed before
// connecting
func New(
	configuration Configuration,
	position *Position,
	dispatcher Dispatcher,
	chain chainapi.Client,
	state *mode.State,
	client upstream.Upstream,
	ready <-chan struct{},
) (*Session, error) {

	if "" == configuration.Host || configuration.Port <= 0 || configuration.Port > 65535 {
		return nil, fmt.Errorf("%w: %q:%d", fault.InvalidPeerAddress, configuration.Host, configuration.Port)
	}

	delay := configuration.ReconnectDelay
	if delay <= 0 {
		delay = DefaultReconnectDelay
	}
	p2pAddress := configuration.P2PAddress
	if "" == p2pAddress {
		p2pAddress = DefaultP2PAddress
	}

	return &Session{
		log:        logger.New("session"),
		address:    net.JoinHostPort(configuration.Host, strconv.Itoa(configuration.Port)),
		p2pAddress: p2pAddress,
		agent:      configuration.Agent,
		delay:      delay,
		position:   position,
		dispatcher: dispatcher,
		chain:      chain,
		mode:       state,
		client:     client,
		ready:      ready,
		recent:     limitedset.New(recentBlocks),
		state:      sStateConnecting,
	}, nil
}

// Statistics - current state and counters
func (s *Session) Statistics() Statistics {
	s.RLock()
	state := s.state
	peerHead := s.peerHead
	s.RUnlock()
	return Statistics{
		State:        state.String(),
		Connected:    s.client.IsConnected(),
		PeerHead:     peerHead,
		RecentBlocks: s.recent.Len(),
		Blocks:       s.blocks.Uint64(),
		Transactions: s.transactions.Uint64(),
		Reconnects:   s.reconnects.Uint64(),
	}
}

// Run - background process
func (s *Session) Run(args interface{}, shutdown <-chan struct{}) {
	log := s.log

	log.Info("starting…")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// closing the connection unblocks a pending read
	go func() {
		select {
		case <-shutdown:
			cancel()
			s.client.Close()
		case <-ctx.Done():
		}
	}()

	if !s.initialise(ctx, shutdown) {
		log.Info("stopped before start")
		return
	}

	log.Info("waiting for bootstrap…")
	select {
	case <-shutdown:
		log.Info("stopped before start")
		return
	case <-s.ready:
	}

	s.nextState(sStateConnecting)

loop:
	for {
		select {
		case <-shutdown:
			break loop
		default:
		}

		if s.runStateMachine(ctx) {
			continue loop
		}

		// paused: wait before reconnecting
		select {
		case <-shutdown:
			break loop
		case <-time.After(s.delay):
			s.reconnects.Increment()
			s.nextState(sStateConnecting)
		}
	}

	log.Info("shutting down…")
	s.client.Close()
	s.mode.Set(mode.Stopped)
	log.Info("stopped")
}

// fetch the starting position, retrying until success or shutdown
func (s *Session) initialise(ctx context.Context, shutdown <-chan struct{}) bool {
	for !s.position.IsInitialised() {
		info, err := s.chain.GetInfo(ctx)
		if nil == err {
			s.position.Initialise(info)
			s.log.Infof("chain: %s  head: %d", info.ChainID, info.HeadBlockNum)
			break
		}
		s.log.Errorf("get info error: %s", err)

		select {
		case <-shutdown:
			return false
		case <-time.After(s.delay):
		}
	}
	return true
}

// run state machine
//
// returns true if want more cycles or false to pause before
// reconnecting
func (s *Session) runStateMachine(ctx context.Context) bool {
	log := s.log

	log.Debugf("current state: %s", s.currentState())

	continueLooping := true

	switch s.currentState() {
	case sStateDisconnected:
		s.client.Close()
		continueLooping = false

	case sStateConnecting:
		err := s.client.Connect(s.address)
		if nil != err {
			log.Errorf("connect to: %s  error: %s", s.address, err)
			s.nextState(sStateDisconnected)
			break
		}
		s.nextState(sStateHandshaking)

	case sStateHandshaking:
		position := s.position.Get()
		handshake, err := newHandshake(s.position.ChainID(), position, s.p2pAddress, s.agent)
		if nil != err {
			log.Errorf("handshake error: %s", err)
			s.nextState(sStateDisconnected)
			break
		}
		err = s.client.Send(handshake)
		if nil != err {
			log.Errorf("send handshake error: %s", err)
			s.nextState(sStateDisconnected)
			break
		}
		log.Infof("handshake sent  head: %d", position.HeadNum)
		s.nextState(sStateSyncing)

	case sStateSyncing:
		info, err := s.chain.GetInfo(ctx)
		if nil != err {
			log.Errorf("get info error: %s", err)
			s.nextState(sStateDisconnected)
			break
		}
		if info.ChainID != s.position.ChainID() {
			log.Criticalf("%s: expected: %s  actual: %s", fault.ChainIdMismatch, s.position.ChainID(), info.ChainID)
			s.nextState(sStateDisconnected)
			break
		}

		request := &p2p.SyncRequestMessage{
			StartBlock: s.position.Get().HeadNum,
			EndBlock:   info.HeadBlockNum,
		}
		err = s.client.Send(request)
		if nil != err {
			log.Errorf("send sync request error: %s", err)
			s.nextState(sStateDisconnected)
			break
		}
		log.Infof("sync from: %d  to: %d", request.StartBlock, request.EndBlock)
		s.nextState(sStateStreaming)

	case sStateStreaming:
		frame, err := s.client.ReadFrame()
		if errors.Is(err, fault.FrameTooSmall) {
			log.Warnf("drop frame: %s", err)
			break
		}
		if nil != err {
			log.Errorf("read error: %s", err)
			s.nextState(sStateDisconnected)
			break
		}
		err = s.handleFrame(frame)
		if nil != err {
			log.Warnf("frame: %s  error: %s", frame.Type, err)
			s.nextState(sStateDisconnected)
		}
	}
	return continueLooping
}

func (s *Session) currentState() sessionState {
	s.RLock()
	defer s.RUnlock()
	return s.state
}

// change state and mirror it into the service mode
func (s *Session) nextState(newState sessionState) {
	s.Lock()
	s.state = newState
	s.Unlock()

	s.log.Infof("next state: %s", newState)

	if sStateStreaming == newState {
		s.mode.Set(mode.Normal)
	} else {
		s.mode.Set(mode.Resynchronise)
	}
}

// returns an error only when the connection must be dropped
func (s *Session) handleFrame(frame *p2p.Frame) error {
	switch frame.Type {

	case p2p.TimeMessageType:
		m, err := p2p.UnpackTime(frame.Payload)
		if nil != err {
			return err
		}
		s.log.Debugf("time: xmt: %d", m.Xmt)
		reply := &p2p.TimeMessage{
			Org: time.Now().UnixNano(),
		}
		return s.client.Send(reply)

	case p2p.HandshakeMessageType:
		return s.handleHandshake(frame.Payload)

	case p2p.SignedBlockMessageType:
		s.handleBlock(frame.Payload)
		return nil

	case p2p.GoAwayMessageType:
		m, err := p2p.UnpackGoAway(frame.Payload)
		if nil != err {
			return err
		}
		s.log.Warnf("go away: %s", m.Reason)
		return fault.PeerGoAway

	default:
		s.log.Debugf("ignore: %s  bytes: %d", frame.Type, len(frame.Payload))
		return nil
	}
}

// the peer's handshake must be for the same chain
func (s *Session) handleHandshake(payload []byte) error {
	log := s.log

	m, err := p2p.UnpackHandshake(payload)
	if nil != err {
		return err
	}
	if m.ChainID != s.position.ChainID() {
		log.Criticalf("%s: expected: %s  peer: %s", fault.ChainIdMismatch, s.position.ChainID(), m.ChainID)
		return fault.ChainIdMismatch
	}
	if n := blockrecord.NumberFromID(m.HeadID); n != m.HeadNum {
		log.Warnf("peer head: %d  does not match id: %s", m.HeadNum, m.HeadID)
	}

	s.Lock()
	s.peerHead = m.HeadNum
	s.Unlock()

	log.Infof("peer: %q  agent: %q  head: %d  lib: %d", m.P2PAddress, m.Agent, m.HeadNum, m.LastIrreversibleBlockNum)
	return nil
}

func (s *Session) handleBlock(payload []byte) {
	log := s.log

	block, err := blockrecord.PackedBlock(payload).Unpack()
	if nil != err {
		log.Errorf("block decode error: %s", err)
		return
	}

	id, err := block.ID()
	if nil != err {
		log.Errorf("block id error: %s", err)
		return
	}
	num := block.Number()

	if !s.recent.Add(id) {
		log.Debugf("skip repeated block: %d  id: %s", num, id)
		return
	}

	s.position.advance(id, num)
	s.blocks.Increment()
	log.Debugf("block: %d  transactions: %d", num, len(block.Transactions))

	for i := range block.Transactions {
		receipt := &block.Transactions[i]
		if !receipt.IsPacked() {
			log.Debugf("block: %d  receipt: %d  id only: %s", num, i, receipt.ID)
			continue
		}
		tx, err := receipt.Packed.Transaction()
		if nil != err {
			log.Warnf("block: %d  receipt: %d  transaction error: %s", num, i, err)
			continue
		}
		s.transactions.Increment()
		s.dispatcher.HandleTransaction(tx)
	}
}
