// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p2p_test

import (
	"bytes"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/msigd/blockrecord"
	"github.com/bitmark-inc/msigd/codec"
	"github.com/bitmark-inc/msigd/fault"
	"github.com/bitmark-inc/msigd/p2p"
)

func TestPackSyncRequest(t *testing.T) {
	buffer, err := p2p.Pack(&p2p.SyncRequestMessage{StartBlock: 100, EndBlock: 0x01020304})
	assert.Nil(t, err, "pack")
	assert.Equal(t, []byte{
		// length
		9, 0, 0, 0,
		// sync_request
		6,
		// start block
		100, 0, 0, 0,
		// end block
		4, 3, 2, 1,
	}, buffer, "framed")
}

func TestReadFramesOneByteAtATime(t *testing.T) {
	m1 := &p2p.TimeMessage{Org: 1, Rec: 2, Xmt: 3, Dst: 4}
	m2 := &p2p.SyncRequestMessage{StartBlock: 7, EndBlock: 9}

	f1, err := p2p.Pack(m1)
	assert.Nil(t, err, "pack 1")
	f2, err := p2p.Pack(m2)
	assert.Nil(t, err, "pack 2")

	stream := iotest.OneByteReader(bytes.NewReader(append(f1, f2...)))
	r := p2p.NewReader(stream)

	frame, err := r.ReadFrame()
	assert.Nil(t, err, "read 1")
	assert.Equal(t, p2p.TimeMessageType, frame.Type, "type 1")
	tm, err := p2p.UnpackTime(frame.Payload)
	assert.Nil(t, err, "unpack 1")
	assert.Equal(t, m1, tm, "message 1")

	frame, err = r.ReadFrame()
	assert.Nil(t, err, "read 2")
	assert.Equal(t, p2p.SyncRequestMessageType, frame.Type, "type 2")
	sr := &p2p.SyncRequestMessage{}
	err = codec.Unmarshal(frame.Payload, sr)
	assert.Nil(t, err, "unpack 2")
	assert.Equal(t, m2, sr, "message 2")

	_, err = r.ReadFrame()
	assert.Equal(t, fault.PeerClosed, err, "end of stream")
}

func TestPartialFrame(t *testing.T) {
	f, err := p2p.Pack(&p2p.TimeMessage{Org: 1})
	assert.Nil(t, err, "pack")

	for n := 1; n < len(f); n += 1 {
		r := p2p.NewReader(bytes.NewReader(f[:n]))
		_, err := r.ReadFrame()
		assert.True(t, fault.IsErrTransport(err), "%d: partial: %v", n, err)
	}
}

func TestFrameLimits(t *testing.T) {
	r := p2p.NewReader(bytes.NewReader([]byte{0, 0, 0, 0}))
	_, err := r.ReadFrame()
	assert.Equal(t, fault.FrameTooSmall, err, "zero length")
	assert.True(t, fault.IsErrProtocol(err), "protocol class")

	r = p2p.NewReader(bytes.NewReader([]byte{0, 0, 0x81, 0x00, 7}))
	_, err = r.ReadFrame()
	assert.Equal(t, fault.FrameTooLarge, err, "too large")
	assert.True(t, fault.IsErrProtocol(err), "protocol class")
}

func TestZeroLengthFrameKeepsStreamAligned(t *testing.T) {
	f, err := p2p.Pack(&p2p.TimeMessage{Org: 5})
	assert.Nil(t, err, "pack")

	stream := append([]byte{0, 0, 0, 0}, f...)
	r := p2p.NewReader(bytes.NewReader(stream))

	_, err = r.ReadFrame()
	assert.Equal(t, fault.FrameTooSmall, err, "zero length")

	frame, err := r.ReadFrame()
	assert.Nil(t, err, "next frame")
	assert.Equal(t, p2p.TimeMessageType, frame.Type, "type")
	tm, err := p2p.UnpackTime(frame.Payload)
	assert.Nil(t, err, "unpack")
	assert.Equal(t, int64(5), tm.Org, "org")
}

func TestHandshakeRoundTrip(t *testing.T) {
	h := &p2p.HandshakeMessage{
		NetworkVersion:           p2p.NetworkVersion,
		ChainID:                  codec.Checksum256{1},
		NodeID:                   codec.Checksum256{2},
		Key:                      blockrecord.PublicKey{Type: blockrecord.K1, Data: [33]byte{3}},
		Time:                     1600000000000000000,
		Token:                    codec.Checksum256{4},
		Signature:                blockrecord.Signature{Type: blockrecord.K1, Data: [65]byte{0x20}},
		P2PAddress:               "msigd:9876",
		LastIrreversibleBlockNum: 10,
		LastIrreversibleBlockID:  codec.Checksum256{0, 0, 0, 10},
		HeadNum:                  10,
		HeadID:                   codec.Checksum256{0, 0, 0, 10},
		OS:                       "linux",
		Agent:                    "msigd:test",
		Generation:               p2p.Generation,
	}

	f, err := p2p.Pack(h)
	assert.Nil(t, err, "pack")

	frame, err := p2p.NewReader(bytes.NewReader(f)).ReadFrame()
	assert.Nil(t, err, "read")
	assert.Equal(t, p2p.HandshakeMessageType, frame.Type, "type")

	u, err := p2p.UnpackHandshake(frame.Payload)
	assert.Nil(t, err, "unpack")
	assert.Equal(t, h, u, "round trip")
}

func TestGoAway(t *testing.T) {
	g, err := p2p.UnpackGoAway([]byte{3, 0, 0})
	assert.Nil(t, err, "unpack")
	assert.Equal(t, "wrong chain", g.Reason.String(), "reason")

	_, err = p2p.UnpackGoAway(nil)
	assert.True(t, fault.IsErrMalformed(err), "empty")

	assert.Equal(t, "*Unknown*", p2p.GoAwayReason(99).String(), "unknown")
}

func TestMessageTypeNames(t *testing.T) {
	assert.Equal(t, "signed_block", p2p.SignedBlockMessageType.String())
	assert.Equal(t, "*Unknown*", p2p.MessageType(200).String())
}
