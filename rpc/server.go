// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/msigd/fault"
	"github.com/bitmark-inc/msigd/rpc/ratelimit"
)

// defaults
const (
	DefaultMaximumConnections = 100
	DefaultRateLimit          = 200.0
	DefaultBurst              = 100

	shutdownTimeout = 5 * time.Second
)

// Configuration - configuration file data for the HTTP API
type Configuration struct {
	Listen             []string `gluamapper:"listen" json:"listen"`
	MaximumConnections uint64   `gluamapper:"maximum_connections" json:"maximum_connections"`
	RateLimit          float64  `gluamapper:"rate_limit" json:"rate_limit"`
	Burst              int      `gluamapper:"burst" json:"burst"`
}

// Server - HTTP listeners sharing one handler
type Server struct {
	sync.Mutex

	log       *logger.L
	handler   *httpHandler
	listeners []net.Listener
	servers   []*http.Server
}

// New - bind all listen addresses
//
// binding happens here so that configuration errors are reported
// before any background process starts
func New(configuration *Configuration, sources Sources, version string) (*Server, error) {
	log := logger.New("rpc")

	if configuration.MaximumConnections < 1 {
		log.Errorf("invalid maximum connection limit: %d", configuration.MaximumConnections)
		return nil, fault.MissingParameters
	}

	limiter := ratelimit.New(configuration.RateLimit, configuration.Burst)
	handler := newHandler(log, sources, version, limiter, configuration.MaximumConnections)

	s := &Server{
		log:     log,
		handler: handler,
	}

	for _, listen := range configuration.Listen {
		if strings.HasPrefix(listen, "*:") {
			// change "*:PORT" to "[::]:PORT"
			// on the assumption that this will listen on tcp4 and tcp6
			listen = "[::]" + listen[1:]
		}
		ln, err := net.Listen("tcp", listen)
		if nil != err {
			log.Errorf("listen on: %q  error: %s", listen, err)
			s.closeListeners()
			return nil, err
		}
		log.Infof("listen on: %s", ln.Addr())
		s.listeners = append(s.listeners, tcpKeepAliveListener{ln.(*net.TCPListener)})
	}
	if 0 == len(s.listeners) {
		log.Warn("no listeners: API disabled")
	}

	return s, nil
}

// Addresses - the bound addresses
func (s *Server) Addresses() []string {
	addresses := make([]string, len(s.listeners))
	for i, ln := range s.listeners {
		addresses[i] = ln.Addr().String()
	}
	return addresses
}

// Run - background process
func (s *Server) Run(args interface{}, shutdown <-chan struct{}) {
	log := s.log

	log.Info("starting…")

	mux := s.handler.mux()

	s.Lock()
	for _, ln := range s.listeners {
		server := &http.Server{
			Handler:        mux,
			ReadTimeout:    10 * time.Second,
			WriteTimeout:   10 * time.Second,
			MaxHeaderBytes: 1 << 20,
		}
		s.servers = append(s.servers, server)
		go func(ln net.Listener) {
			err := server.Serve(ln)
			if nil != err && http.ErrServerClosed != err {
				log.Errorf("serve: %s  error: %s", ln.Addr(), err)
			}
		}(ln)
	}
	s.Unlock()

	<-shutdown

	log.Info("shutting down…")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.Lock()
	for _, server := range s.servers {
		if err := server.Shutdown(ctx); nil != err {
			log.Warnf("shutdown error: %s", err)
		}
	}
	s.Unlock()

	log.Info("stopped")
}

func (s *Server) closeListeners() {
	for _, ln := range s.listeners {
		ln.Close()
	}
}

type tcpKeepAliveListener struct {
	*net.TCPListener
}

func (ln tcpKeepAliveListener) Accept() (c net.Conn, err error) {
	tc, err := ln.AcceptTCP()
	if err != nil {
		return
	}
	tc.SetKeepAlive(true)
	tc.SetKeepAlivePeriod(3 * time.Minute)
	return tc, nil
}
