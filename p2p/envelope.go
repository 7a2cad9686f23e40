// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package p2p

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/bitmark-inc/msigd/codec"
	"github.com/bitmark-inc/msigd/fault"
)

// limits on frames
const (
	lengthSize       = 4
	MaximumFrameSize = 8 * 1024 * 1024
)

// Frame - one complete message
type Frame struct {
	Type    MessageType
	Payload []byte
}

// Pack - frame a message for sending
func Pack(m Message) ([]byte, error) {
	e := codec.NewEncoder()
	e.WriteUint32(0) // placeholder for length
	e.WriteUint8(uint8(m.MessageType()))
	if err := codec.Pack(e, m); nil != err {
		return nil, err
	}
	buffer := e.Bytes()
	binary.LittleEndian.PutUint32(buffer[:lengthSize], uint32(len(buffer)-lengthSize))
	return buffer, nil
}

// Reader - split a byte stream into frames
type Reader struct {
	r *bufio.Reader
}

// NewReader - frame reader for a stream
func NewReader(r io.Reader) *Reader {
	return &Reader{
		r: bufio.NewReaderSize(r, 65536),
	}
}

// ReadFrame - block until a complete frame is available
//
// a clean end of stream between frames gives fault.PeerClosed, any
// other read failure is a transport error. fault.FrameTooSmall leaves
// the stream at the next frame, fault.FrameTooLarge does not
func (fr *Reader) ReadFrame() (*Frame, error) {
	var header [lengthSize]byte
	if _, err := io.ReadFull(fr.r, header[:]); nil != err {
		if io.EOF == err {
			return nil, fault.PeerClosed
		}
		return nil, fmt.Errorf("%w: %s", fault.NotConnected, err)
	}

	length := binary.LittleEndian.Uint32(header[:])
	if 0 == length {
		return nil, fault.FrameTooSmall
	}
	if length > MaximumFrameSize {
		return nil, fault.FrameTooLarge
	}

	buffer := make([]byte, length)
	if _, err := io.ReadFull(fr.r, buffer); nil != err {
		return nil, fmt.Errorf("%w: %s", fault.NotConnected, err)
	}

	return &Frame{
		Type:    MessageType(buffer[0]),
		Payload: buffer[1:],
	}, nil
}
