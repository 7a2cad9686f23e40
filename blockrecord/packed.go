// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockrecord

import (
	"bytes"
	"io"
	"io/ioutil"

	"github.com/klauspost/compress/zlib"

	"github.com/bitmark-inc/msigd/codec"
	"github.com/bitmark-inc/msigd/fault"
	"github.com/bitmark-inc/msigd/transactionrecord"
)

// Compression - how the transaction body is stored
type Compression uint8

// compression types
const (
	NoCompression   Compression = 0
	ZlibCompression Compression = 1
)

// limit decompressed transaction size
const maximumUncompressedSize = 8 * 1024 * 1024

// PackedTransaction - signatures plus a possibly compressed body
type PackedTransaction struct {
	Signatures            []Signature
	Compression           Compression
	PackedContextFreeData []byte
	PackedTrx             []byte
}

func (p *PackedTransaction) Schema() []codec.Field {
	return []codec.Field{
		codec.List("signatures", "signature",
			func() int { return len(p.Signatures) },
			func(i int) codec.Record {
				if 0 == i {
					p.Signatures = nil
				}
				p.Signatures = append(p.Signatures, Signature{})
				return &p.Signatures[i]
			},
			func(i int) codec.Record { return &p.Signatures[i] },
		),
		codec.Custom("compression", "uint8",
			func(e *codec.Encoder) error { e.WriteUint8(uint8(p.Compression)); return nil },
			func(d *codec.Decoder) error { c, err := d.ReadUint8(); p.Compression = Compression(c); return err },
		),
		codec.Bytes("packed_context_free_data", &p.PackedContextFreeData),
		codec.Bytes("packed_trx", &p.PackedTrx),
	}
}

// Transaction - decompress if necessary and decode the body
func (p *PackedTransaction) Transaction() (*transactionrecord.Transaction, error) {
	switch p.Compression {
	case NoCompression:
		return transactionrecord.Packed(p.PackedTrx).Unpack()

	case ZlibCompression:
		r, err := zlib.NewReader(bytes.NewReader(p.PackedTrx))
		if nil != err {
			return nil, fault.Malformed("zlib", fault.InvalidCompression)
		}
		defer r.Close()

		buffer, err := ioutil.ReadAll(io.LimitReader(r, maximumUncompressedSize+1))
		if nil != err {
			return nil, fault.Malformed("zlib", fault.InvalidCompression)
		}
		if len(buffer) > maximumUncompressedSize {
			return nil, fault.Malformed("zlib", fault.LengthOutOfRange)
		}
		return transactionrecord.Packed(buffer).Unpack()

	default:
		return nil, fault.InvalidCompression
	}
}
