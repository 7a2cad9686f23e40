// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package codec

import (
	"encoding/binary"

	"github.com/bitmark-inc/msigd/account"
	"github.com/bitmark-inc/msigd/fault"
	"github.com/bitmark-inc/msigd/util"
)

// Decoder - read primitives from a byte buffer
type Decoder struct {
	buffer []byte
	offset int
}

// NewDecoder - decoder positioned at the start of buffer
func NewDecoder(buffer []byte) *Decoder {
	return &Decoder{
		buffer: buffer,
	}
}

// Remaining - number of unread bytes
func (d *Decoder) Remaining() int {
	return len(d.buffer) - d.offset
}

// Offset - number of bytes consumed so far
func (d *Decoder) Offset() int {
	return d.offset
}

// ReadFixed - the next n bytes, the result shares the input buffer
func (d *Decoder) ReadFixed(n int) ([]byte, error) {
	if n < 0 || n > d.Remaining() {
		return nil, fault.NotEnoughBytes
	}
	b := d.buffer[d.offset : d.offset+n]
	d.offset += n
	return b, nil
}

func (d *Decoder) ReadUint8() (uint8, error) {
	b, err := d.ReadFixed(1)
	if nil != err {
		return 0, err
	}
	return b[0], nil
}

func (d *Decoder) ReadUint16() (uint16, error) {
	b, err := d.ReadFixed(2)
	if nil != err {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (d *Decoder) ReadUint32() (uint32, error) {
	b, err := d.ReadFixed(4)
	if nil != err {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (d *Decoder) ReadUint64() (uint64, error) {
	b, err := d.ReadFixed(8)
	if nil != err {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (d *Decoder) ReadInt16() (int16, error) {
	v, err := d.ReadUint16()
	return int16(v), err
}

func (d *Decoder) ReadInt64() (int64, error) {
	v, err := d.ReadUint64()
	return int64(v), err
}

// ReadVarUint32 - LEB128 encoded value
func (d *Decoder) ReadVarUint32() (uint32, error) {
	value, count := util.FromVarUint32(d.buffer[d.offset:])
	if 0 == count {
		if d.Remaining() < util.VarUint32MaximumBytes {
			return 0, fault.NotEnoughBytes
		}
		return 0, fault.LengthOutOfRange
	}
	d.offset += count
	return value, nil
}

// ReadCount - a varint count that must not exceed the remaining
// bytes, each element takes at least one byte
func (d *Decoder) ReadCount() (int, error) {
	n, err := d.ReadVarUint32()
	if nil != err {
		return 0, err
	}
	if uint64(n) > uint64(d.Remaining()) {
		return 0, fault.LengthOutOfRange
	}
	return int(n), nil
}

// ReadBytes - varint length followed by the data
//
// zero length gives nil, otherwise the result is a copy
func (d *Decoder) ReadBytes() ([]byte, error) {
	n, err := d.ReadCount()
	if nil != err {
		return nil, err
	}
	if 0 == n {
		return nil, nil
	}
	b, err := d.ReadFixed(n)
	if nil != err {
		return nil, err
	}
	return append([]byte{}, b...), nil
}

func (d *Decoder) ReadString() (string, error) {
	b, err := d.ReadBytes()
	return string(b), err
}

func (d *Decoder) ReadName() (account.Name, error) {
	v, err := d.ReadUint64()
	return account.Name(v), err
}

func (d *Decoder) ReadChecksum256() (Checksum256, error) {
	c := Checksum256{}
	b, err := d.ReadFixed(len(c))
	if nil != err {
		return c, err
	}
	copy(c[:], b)
	return c, nil
}

// ReadBool - a single byte that must be 0 or 1
func (d *Decoder) ReadBool() (bool, error) {
	b, err := d.ReadUint8()
	if nil != err {
		return false, err
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fault.UnknownVariant
	}
}
