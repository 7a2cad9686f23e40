// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package upstream

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/msigd/counter"
	"github.com/bitmark-inc/msigd/fault"
	"github.com/bitmark-inc/msigd/p2p"
)

// Upstream - a reusable connection: Connect, exchange frames, Close,
// then Connect again
type Upstream interface {
	Connect(address string) error
	Send(m p2p.Message) error
	ReadFrame() (*p2p.Frame, error)
	Close() error
	IsConnected() bool
	Name() string
}

// atomically incremented counter for log names
var upstreamCounter counter.Counter

type upstream struct {
	sync.Mutex

	log     *logger.L
	name    string
	timeout time.Duration
	conn    net.Conn
	reader  *p2p.Reader
}

// New - create an unconnected upstream, timeout only limits dialing
func New(timeout time.Duration) Upstream {
	n := upstreamCounter.Increment()
	name := fmt.Sprintf("upstream@%d", n)
	return &upstream{
		log:     logger.New(name),
		name:    name,
		timeout: timeout,
	}
}

// Name - name used for logging
func (u *upstream) Name() string {
	return u.name
}

// Connect - dial host:port, any previous connection is closed first
func (u *upstream) Connect(address string) error {
	if _, _, err := net.SplitHostPort(address); nil != err {
		return fmt.Errorf("%w: %q: %s", fault.InvalidPeerAddress, address, err)
	}

	u.Lock()
	defer u.Unlock()

	if nil != u.conn {
		u.conn.Close()
		u.conn = nil
		u.reader = nil
	}

	u.log.Infof("connecting to: %s", address)
	conn, err := net.DialTimeout("tcp", address, u.timeout)
	if nil != err {
		return fmt.Errorf("%w: %s", fault.NotConnected, err)
	}

	u.conn = conn
	u.reader = p2p.NewReader(conn)
	u.log.Infof("connected to: %s", conn.RemoteAddr())
	return nil
}

// Send - write one framed message
func (u *upstream) Send(m p2p.Message) error {
	buffer, err := p2p.Pack(m)
	if nil != err {
		return err
	}

	u.Lock()
	defer u.Unlock()

	if nil == u.conn {
		return fault.NotConnected
	}
	u.log.Debugf("send: %s  bytes: %d", m.MessageType(), len(buffer))
	if _, err := u.conn.Write(buffer); nil != err {
		return fmt.Errorf("%w: %s", fault.NotConnected, err)
	}
	return nil
}

// ReadFrame - block until the next frame arrives
//
// only one goroutine may read; Close from another goroutine unblocks it
func (u *upstream) ReadFrame() (*p2p.Frame, error) {
	u.Lock()
	reader := u.reader
	u.Unlock()

	if nil == reader {
		return nil, fault.NotConnected
	}
	return reader.ReadFrame()
}

// Close - drop the connection
func (u *upstream) Close() error {
	u.Lock()
	defer u.Unlock()

	if nil == u.conn {
		return nil
	}
	u.log.Info("closing")
	err := u.conn.Close()
	u.conn = nil
	u.reader = nil
	return err
}

// IsConnected - true between a successful Connect and Close
func (u *upstream) IsConnected() bool {
	u.Lock()
	defer u.Unlock()
	return nil != u.conn
}
