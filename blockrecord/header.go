// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockrecord

import (
	"encoding/binary"
	"time"

	"github.com/minio/sha256-simd"

	"github.com/bitmark-inc/msigd/account"
	"github.com/bitmark-inc/msigd/codec"
	"github.com/bitmark-inc/msigd/transactionrecord"
)

// block timestamps count half second slots from this epoch
const (
	blockTimestampEpoch = 946684800000 // 2000-01-01T00:00:00Z in milliseconds
	blockIntervalMS     = 500
)

// BlockTimestamp - slot number of a block
type BlockTimestamp uint32

func (b BlockTimestamp) Time() time.Time {
	ms := blockTimestampEpoch + int64(b)*blockIntervalMS
	return time.Unix(0, ms*int64(time.Millisecond)).UTC()
}

// ProducerKey - a producer and its signing key
type ProducerKey struct {
	ProducerName    account.Name
	BlockSigningKey PublicKey
}

// ProducerSchedule - legacy producer schedule carried in a header
type ProducerSchedule struct {
	Version   uint32
	Producers []ProducerKey
}

// Header - the part of a block covered by the block id
type Header struct {
	Timestamp        BlockTimestamp
	Producer         account.Name
	Confirmed        uint16
	Previous         codec.Checksum256
	TransactionMRoot codec.Checksum256
	ActionMRoot      codec.Checksum256
	ScheduleVersion  uint32
	HasNewProducers  bool
	NewProducers     ProducerSchedule
	HeaderExtensions []transactionrecord.Extension
}

func (p *ProducerKey) Schema() []codec.Field {
	return []codec.Field{
		codec.Name("producer_name", &p.ProducerName),
		codec.Struct("block_signing_key", "public_key", &p.BlockSigningKey),
	}
}

func (s *ProducerSchedule) Schema() []codec.Field {
	return []codec.Field{
		codec.Uint32("version", &s.Version),
		codec.List("producers", "producer_key",
			func() int { return len(s.Producers) },
			func(i int) codec.Record {
				if 0 == i {
					s.Producers = nil
				}
				s.Producers = append(s.Producers, ProducerKey{})
				return &s.Producers[i]
			},
			func(i int) codec.Record { return &s.Producers[i] },
		),
	}
}

func (h *Header) Schema() []codec.Field {
	return []codec.Field{
		codec.Custom("timestamp", "block_timestamp_type",
			func(e *codec.Encoder) error { e.WriteUint32(uint32(h.Timestamp)); return nil },
			func(d *codec.Decoder) error { t, err := d.ReadUint32(); h.Timestamp = BlockTimestamp(t); return err },
		),
		codec.Name("producer", &h.Producer),
		codec.Uint16("confirmed", &h.Confirmed),
		codec.Checksum("previous", &h.Previous),
		codec.Checksum("transaction_mroot", &h.TransactionMRoot),
		codec.Checksum("action_mroot", &h.ActionMRoot),
		codec.Uint32("schedule_version", &h.ScheduleVersion),
		codec.Optional(codec.Struct("new_producers", "producer_schedule", &h.NewProducers), &h.HasNewProducers),
		extensionList("header_extensions", &h.HeaderExtensions),
	}
}

// Number - one more than the number embedded in the previous id
func (h *Header) Number() uint32 {
	return binary.BigEndian.Uint32(h.Previous[:4]) + 1
}

// ID - hash of the packed header with the block number in the first
// four bytes
func (h *Header) ID() (codec.Checksum256, error) {
	packed, err := codec.Marshal(h)
	if nil != err {
		return codec.Checksum256{}, err
	}
	id := codec.Checksum256(sha256.Sum256(packed))
	binary.BigEndian.PutUint32(id[:4], h.Number())
	return id, nil
}

// NumberFromID - the block number embedded in a block id
func NumberFromID(id codec.Checksum256) uint32 {
	return binary.BigEndian.Uint32(id[:4])
}

func extensionList(name string, list *[]transactionrecord.Extension) codec.Field {
	return codec.List(name, "extension",
		func() int { return len(*list) },
		func(i int) codec.Record {
			if 0 == i {
				*list = nil
			}
			*list = append(*list, transactionrecord.Extension{})
			return &(*list)[i]
		},
		func(i int) codec.Record { return &(*list)[i] },
	)
}
