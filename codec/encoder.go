// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package codec

import (
	"encoding/binary"

	"github.com/bitmark-inc/msigd/account"
	"github.com/bitmark-inc/msigd/util"
)

// Encoder - accumulate encoded primitives
type Encoder struct {
	buffer []byte
}

// NewEncoder - empty encoder
func NewEncoder() *Encoder {
	return &Encoder{
		buffer: make([]byte, 0, 256),
	}
}

// Bytes - everything written so far
func (e *Encoder) Bytes() []byte {
	return e.buffer
}

// Len - number of bytes written so far
func (e *Encoder) Len() int {
	return len(e.buffer)
}

func (e *Encoder) WriteFixed(b []byte) {
	e.buffer = append(e.buffer, b...)
}

func (e *Encoder) WriteUint8(v uint8) {
	e.buffer = append(e.buffer, v)
}

func (e *Encoder) WriteUint16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	e.buffer = append(e.buffer, b[:]...)
}

func (e *Encoder) WriteUint32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	e.buffer = append(e.buffer, b[:]...)
}

func (e *Encoder) WriteUint64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	e.buffer = append(e.buffer, b[:]...)
}

func (e *Encoder) WriteInt16(v int16) {
	e.WriteUint16(uint16(v))
}

func (e *Encoder) WriteInt64(v int64) {
	e.WriteUint64(uint64(v))
}

func (e *Encoder) WriteVarUint32(v uint32) {
	e.buffer = append(e.buffer, util.ToVarUint32(v)...)
}

// WriteBytes - varint length followed by the data
func (e *Encoder) WriteBytes(b []byte) {
	e.WriteVarUint32(uint32(len(b)))
	e.buffer = append(e.buffer, b...)
}

func (e *Encoder) WriteString(s string) {
	e.WriteBytes([]byte(s))
}

func (e *Encoder) WriteName(n account.Name) {
	e.WriteUint64(uint64(n))
}

func (e *Encoder) WriteChecksum256(c Checksum256) {
	e.buffer = append(e.buffer, c[:]...)
}

func (e *Encoder) WriteBool(b bool) {
	if b {
		e.WriteUint8(1)
	} else {
		e.WriteUint8(0)
	}
}
