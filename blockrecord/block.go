// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockrecord

import (
	"github.com/bitmark-inc/msigd/codec"
	"github.com/bitmark-inc/msigd/fault"
	"github.com/bitmark-inc/msigd/transactionrecord"
)

// PackedBlock - packed records are just a byte slice
type PackedBlock []byte

// ReceiptStatus - outcome of a transaction in a block
type ReceiptStatus uint8

// transaction outcomes
const (
	Executed ReceiptStatus = 0
	SoftFail ReceiptStatus = 1
	HardFail ReceiptStatus = 2
	Delayed  ReceiptStatus = 3
	Expired  ReceiptStatus = 4
)

// variants of a receipt's transaction
const (
	TransactionIDVariant     = 0
	PackedTransactionVariant = 1
)

// SignedBlock - a complete block
type SignedBlock struct {
	Header
	ProducerSignature Signature
	Transactions      []TransactionReceipt
	BlockExtensions   []transactionrecord.Extension
}

// TransactionReceipt - a transaction included in a block, either
// just its id or the complete packed transaction
type TransactionReceipt struct {
	Status        ReceiptStatus
	CPUUsageUS    uint32
	NetUsageWords uint32
	Variant       uint32
	ID            codec.Checksum256
	Packed        PackedTransaction
}

func (b *SignedBlock) Schema() []codec.Field {
	return append(b.Header.Schema(),
		codec.Struct("producer_signature", "signature", &b.ProducerSignature),
		codec.List("transactions", "transaction_receipt",
			func() int { return len(b.Transactions) },
			func(i int) codec.Record {
				if 0 == i {
					b.Transactions = nil
				}
				b.Transactions = append(b.Transactions, TransactionReceipt{})
				return &b.Transactions[i]
			},
			func(i int) codec.Record { return &b.Transactions[i] },
		),
		extensionList("block_extensions", &b.BlockExtensions),
	)
}

func (r *TransactionReceipt) Schema() []codec.Field {
	return []codec.Field{
		codec.Custom("status", "uint8",
			func(e *codec.Encoder) error { e.WriteUint8(uint8(r.Status)); return nil },
			func(d *codec.Decoder) error { s, err := d.ReadUint8(); r.Status = ReceiptStatus(s); return err },
		),
		codec.Uint32("cpu_usage_us", &r.CPUUsageUS),
		codec.VarUint32("net_usage_words", &r.NetUsageWords),
		codec.Custom("trx", "transaction_id|packed_transaction",
			func(e *codec.Encoder) error {
				e.WriteVarUint32(r.Variant)
				switch r.Variant {
				case TransactionIDVariant:
					e.WriteChecksum256(r.ID)
					return nil
				case PackedTransactionVariant:
					return codec.Pack(e, &r.Packed)
				default:
					return fault.UnknownVariant
				}
			},
			func(d *codec.Decoder) (err error) {
				if r.Variant, err = d.ReadVarUint32(); nil != err {
					return err
				}
				switch r.Variant {
				case TransactionIDVariant:
					r.ID, err = d.ReadChecksum256()
					return err
				case PackedTransactionVariant:
					return codec.Unpack(d, &r.Packed)
				default:
					return fault.UnknownVariant
				}
			},
		),
	}
}

// IsPacked - true if the receipt carries the complete transaction
func (r *TransactionReceipt) IsPacked() bool {
	return PackedTransactionVariant == r.Variant
}

// Unpack - decode a complete block
func (record PackedBlock) Unpack() (*SignedBlock, error) {
	b := &SignedBlock{}
	if err := codec.Unmarshal(record, b); nil != err {
		return nil, err
	}
	return b, nil
}

// Pack - encode a complete block
func (b *SignedBlock) Pack() (PackedBlock, error) {
	return codec.Marshal(b)
}
