// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p2p

import (
	"github.com/bitmark-inc/msigd/blockrecord"
	"github.com/bitmark-inc/msigd/codec"
	"github.com/bitmark-inc/msigd/fault"
)

// MessageType - discriminant byte of a frame
type MessageType uint8

// all message types, in protocol order
const (
	HandshakeMessageType         MessageType = 0
	ChainSizeMessageType         MessageType = 1
	GoAwayMessageType            MessageType = 2
	TimeMessageType              MessageType = 3
	NoticeMessageType            MessageType = 4
	RequestMessageType           MessageType = 5
	SyncRequestMessageType       MessageType = 6
	SignedBlockMessageType       MessageType = 7
	PackedTransactionMessageType MessageType = 8
)

// protocol constants for the handshake
const (
	NetworkVersion = 0xfe
	Generation     = 4
)

func (t MessageType) String() string {
	switch t {
	case HandshakeMessageType:
		return "handshake"
	case ChainSizeMessageType:
		return "chain_size"
	case GoAwayMessageType:
		return "go_away"
	case TimeMessageType:
		return "time"
	case NoticeMessageType:
		return "notice"
	case RequestMessageType:
		return "request"
	case SyncRequestMessageType:
		return "sync_request"
	case SignedBlockMessageType:
		return "signed_block"
	case PackedTransactionMessageType:
		return "packed_transaction"
	default:
		return "*Unknown*"
	}
}

// Message - anything that can be sent in a frame
type Message interface {
	codec.Record
	MessageType() MessageType
}

// HandshakeMessage - first message on a new connection
type HandshakeMessage struct {
	NetworkVersion           uint16
	ChainID                  codec.Checksum256
	NodeID                   codec.Checksum256
	Key                      blockrecord.PublicKey
	Time                     int64 // nanoseconds
	Token                    codec.Checksum256
	Signature                blockrecord.Signature
	P2PAddress               string
	LastIrreversibleBlockNum uint32
	LastIrreversibleBlockID  codec.Checksum256
	HeadNum                  uint32
	HeadID                   codec.Checksum256
	OS                       string
	Agent                    string
	Generation               int16
}

// TimeMessage - keep alive and clock sampling
type TimeMessage struct {
	Org int64
	Rec int64
	Xmt int64
	Dst int64
}

// SyncRequestMessage - ask for a range of blocks
type SyncRequestMessage struct {
	StartBlock uint32
	EndBlock   uint32
}

// GoAwayMessage - peer is about to disconnect
//
// only the reason is decoded
type GoAwayMessage struct {
	Reason GoAwayReason
}

// GoAwayReason - why a peer is disconnecting
type GoAwayReason uint8

func (r GoAwayReason) String() string {
	reasons := []string{
		"no reason", "self connect", "duplicate", "wrong chain", "wrong version",
		"forked", "unlinkable", "bad transaction", "validation", "benign other",
		"fatal other", "authentication",
	}
	if int(r) < len(reasons) {
		return reasons[r]
	}
	return "*Unknown*"
}

func (*HandshakeMessage) MessageType() MessageType   { return HandshakeMessageType }
func (*TimeMessage) MessageType() MessageType        { return TimeMessageType }
func (*SyncRequestMessage) MessageType() MessageType { return SyncRequestMessageType }

func (h *HandshakeMessage) Schema() []codec.Field {
	return []codec.Field{
		codec.Uint16("network_version", &h.NetworkVersion),
		codec.Checksum("chain_id", &h.ChainID),
		codec.Checksum("node_id", &h.NodeID),
		codec.Struct("key", "public_key", &h.Key),
		codec.Int64("time", &h.Time),
		codec.Checksum("token", &h.Token),
		codec.Struct("sig", "signature", &h.Signature),
		codec.String("p2p_address", &h.P2PAddress),
		codec.Uint32("last_irreversible_block_num", &h.LastIrreversibleBlockNum),
		codec.Checksum("last_irreversible_block_id", &h.LastIrreversibleBlockID),
		codec.Uint32("head_num", &h.HeadNum),
		codec.Checksum("head_id", &h.HeadID),
		codec.String("os", &h.OS),
		codec.String("agent", &h.Agent),
		codec.Int16("generation", &h.Generation),
	}
}

func (m *TimeMessage) Schema() []codec.Field {
	return []codec.Field{
		codec.Int64("org", &m.Org),
		codec.Int64("rec", &m.Rec),
		codec.Int64("xmt", &m.Xmt),
		codec.Int64("dst", &m.Dst),
	}
}

func (s *SyncRequestMessage) Schema() []codec.Field {
	return []codec.Field{
		codec.Uint32("start_block", &s.StartBlock),
		codec.Uint32("end_block", &s.EndBlock),
	}
}

// UnpackGoAway - the reason from a go away payload
func UnpackGoAway(payload []byte) (*GoAwayMessage, error) {
	if 0 == len(payload) {
		return nil, fault.NotEnoughBytes
	}
	return &GoAwayMessage{Reason: GoAwayReason(payload[0])}, nil
}

// UnpackTime - decode a time message payload
func UnpackTime(payload []byte) (*TimeMessage, error) {
	m := &TimeMessage{}
	if err := codec.Unmarshal(payload, m); nil != err {
		return nil, err
	}
	return m, nil
}

// UnpackHandshake - decode a handshake message payload
func UnpackHandshake(payload []byte) (*HandshakeMessage, error) {
	m := &HandshakeMessage{}
	if err := codec.Unmarshal(payload, m); nil != err {
		return nil, err
	}
	return m, nil
}
