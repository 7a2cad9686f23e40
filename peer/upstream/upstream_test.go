// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package upstream_test

import (
	"net"
	"os"
	"testing"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/msigd/fault"
	"github.com/bitmark-inc/msigd/p2p"
	"github.com/bitmark-inc/msigd/peer/upstream"
)

const (
	testingDirName = "testing"
)

func TestMain(m *testing.M) {
	_ = os.RemoveAll(testingDirName)
	_ = os.Mkdir(testingDirName, 0700)
	_ = logger.Initialise(logger.Configuration{
		Directory: testingDirName,
		File:      "testing.log",
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	})
	rc := m.Run()
	logger.Finalise()
	_ = os.RemoveAll(testingDirName)
	os.Exit(rc)
}

func TestExchange(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if !assert.Nil(t, err, "listen") {
		t.FailNow()
	}
	defer listener.Close()

	// echo one time message back with rec filled in
	go func() {
		conn, err := listener.Accept()
		if nil != err {
			return
		}
		defer conn.Close()
		frame, err := p2p.NewReader(conn).ReadFrame()
		if nil != err {
			return
		}
		m, err := p2p.UnpackTime(frame.Payload)
		if nil != err {
			return
		}
		m.Rec = m.Org + 1
		buffer, _ := p2p.Pack(m)
		_, _ = conn.Write(buffer)
		time.Sleep(100 * time.Millisecond)
	}()

	u := upstream.New(time.Second)
	assert.False(t, u.IsConnected(), "initially unconnected")

	err = u.Connect(listener.Addr().String())
	assert.Nil(t, err, "connect")
	assert.True(t, u.IsConnected(), "connected")

	err = u.Send(&p2p.TimeMessage{Org: 1000})
	assert.Nil(t, err, "send")

	frame, err := u.ReadFrame()
	assert.Nil(t, err, "read")
	assert.Equal(t, p2p.TimeMessageType, frame.Type, "frame type")

	m, err := p2p.UnpackTime(frame.Payload)
	assert.Nil(t, err, "unpack")
	assert.Equal(t, int64(1001), m.Rec, "echoed")

	// peer closes after the reply
	_, err = u.ReadFrame()
	assert.True(t, fault.IsErrTransport(err), "peer closed")

	assert.Nil(t, u.Close(), "close")
	assert.False(t, u.IsConnected(), "closed")
}

func TestCloseUnblocksRead(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if !assert.Nil(t, err, "listen") {
		t.FailNow()
	}
	defer listener.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := listener.Accept()
		if nil == err {
			accepted <- conn
		}
	}()

	u := upstream.New(time.Second)
	assert.Nil(t, u.Connect(listener.Addr().String()), "connect")
	conn := <-accepted
	defer conn.Close()

	result := make(chan error, 1)
	go func() {
		_, err := u.ReadFrame()
		result <- err
	}()

	time.Sleep(20 * time.Millisecond)
	assert.Nil(t, u.Close(), "close")

	select {
	case err := <-result:
		assert.True(t, fault.IsErrTransport(err), "transport error")
	case <-time.After(2 * time.Second):
		t.Fatal("read not unblocked")
	}
}

func TestNotConnected(t *testing.T) {
	u := upstream.New(time.Second)

	err := u.Send(&p2p.TimeMessage{})
	assert.Equal(t, fault.NotConnected, err, "send")

	_, err = u.ReadFrame()
	assert.Equal(t, fault.NotConnected, err, "read")

	err = u.Connect("no-port")
	assert.True(t, fault.IsErrInvalid(err), "bad address")

	assert.Nil(t, u.Close(), "close unconnected")
}
