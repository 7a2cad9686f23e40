// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bitmark-inc/logger"
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/msigd/account"
	"github.com/bitmark-inc/msigd/codec"
	"github.com/bitmark-inc/msigd/counter"
	"github.com/bitmark-inc/msigd/mode"
	"github.com/bitmark-inc/msigd/peer"
	"github.com/bitmark-inc/msigd/proposal"
	"github.com/bitmark-inc/msigd/rpc/ratelimit"
)

const proposalsPath = "/proposals/"

// Proposals - the queries the API needs from the store
type Proposals interface {
	Query(ctx context.Context, acct *account.Name, includeExpired bool) ([]*proposal.Record, bool, error)
	Count() (int, error)
}

// Position - where the session is in the chain
type Position interface {
	ChainID() codec.Checksum256
	Get() peer.ChainPosition
}

// Counters - labelled counts
type Counters interface {
	Counts() map[string]uint64
}

// Statistics - session state and counts
type Statistics interface {
	Statistics() peer.Statistics
}

// Bootstrap - progress of the initial load
type Bootstrap interface {
	Passes() uint64
}

// Sources - everything the handlers read from
type Sources struct {
	Proposals Proposals
	Position  Position
	Mode      *mode.State
	Actions   Counters
	Session   Statistics
	Bootstrap Bootstrap
}

// the argument passed to the handlers
type httpHandler struct {
	log                *logger.L
	sources            Sources
	start              time.Time
	version            string
	limiter            *rate.Limiter
	maximumConnections uint64
	inFlight           counter.Counter
}

func newHandler(log *logger.L, sources Sources, version string, limiter *rate.Limiter, maximumConnections uint64) *httpHandler {
	return &httpHandler{
		log:                log,
		sources:            sources,
		start:              time.Now(),
		version:            version,
		limiter:            limiter,
		maximumConnections: maximumConnections,
	}
}

func (s *httpHandler) mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc(proposalsPath, s.proposals)
	mux.HandleFunc("/msigd/details", s.details)
	mux.HandleFunc("/", s.root)
	return mux
}

// this matches anything not matched and returns error
func (s *httpHandler) root(w http.ResponseWriter, r *http.Request) {
	sendNotFound(w)
}

// count the request and apply limits
//
// returns false if a reply was already sent
func (s *httpHandler) enter(w http.ResponseWriter) bool {
	if s.inFlight.Increment() > s.maximumConnections {
		s.inFlight.Decrement()
		sendTooManyRequests(w)
		return false
	}
	if err := ratelimit.Limit(s.limiter); nil != err {
		s.inFlight.Decrement()
		sendTooManyRequests(w)
		return false
	}
	return true
}

func (s *httpHandler) leave() {
	s.inFlight.Decrement()
}

type proposalsReply struct {
	ChainID   codec.Checksum256  `json:"chain_id"`
	Height    uint32             `json:"height"`
	Time      codec.TimePoint    `json:"time"`
	Mode      mode.Mode          `json:"mode"`
	Stale     bool               `json:"stale"`
	Proposals []*proposal.Record `json:"proposals"`
}

// GET the proposals an account can approve
//
// the query parameter expired=<bool> includes expired proposals, the
// default is false
func (s *httpHandler) proposals(w http.ResponseWriter, r *http.Request) {
	if http.MethodGet != r.Method {
		sendMethodNotAllowed(w)
		return
	}

	name := strings.TrimPrefix(r.URL.Path, proposalsPath)
	if "" == name || strings.Contains(name, "/") {
		sendBadRequest(w, "invalid account name")
		return
	}
	acct, err := account.NameFromString(name)
	if nil != err {
		sendBadRequest(w, err.Error())
		return
	}

	expired, err := strconv.ParseBool(r.URL.Query().Get("expired"))
	if nil != err {
		expired = false
	}

	if !s.enter(w) {
		return
	}
	defer s.leave()

	current, _ := s.sources.Mode.Current()
	position := s.sources.Position.Get()

	records, complete, err := s.sources.Proposals.Query(r.Context(), &acct, expired)
	if nil != err {
		s.log.Errorf("query: %s  error: %s", acct, err)
		sendInternalServerError(w)
		return
	}

	s.log.Debugf("query: %s  expired: %t  results: %d  complete: %t", acct, expired, len(records), complete)

	sendReply(w, proposalsReply{
		ChainID:   s.sources.Position.ChainID(),
		Height:    position.HeadNum,
		Time:      position.Time,
		Mode:      current,
		Stale:     mode.Normal != current || !complete,
		Proposals: records,
	})
}

type detailsReply struct {
	Version   string             `json:"version"`
	Uptime    string             `json:"uptime"`
	Mode      mode.Mode          `json:"mode"`
	ChainID   codec.Checksum256  `json:"chain_id"`
	Position  peer.ChainPosition `json:"position"`
	Proposals int                `json:"proposals"`
	Actions   map[string]uint64  `json:"actions"`
	Session   peer.Statistics    `json:"session"`
	Bootstrap uint64             `json:"bootstrap_passes"`
	InFlight  uint64             `json:"in_flight"`
}

// GET the state of the service
func (s *httpHandler) details(w http.ResponseWriter, r *http.Request) {
	if http.MethodGet != r.Method {
		sendMethodNotAllowed(w)
		return
	}

	if !s.enter(w) {
		return
	}
	defer s.leave()

	count, err := s.sources.Proposals.Count()
	if nil != err {
		s.log.Errorf("count error: %s", err)
		sendInternalServerError(w)
		return
	}

	current, _ := s.sources.Mode.Current()

	sendReply(w, detailsReply{
		Version:   s.version,
		Uptime:    time.Since(s.start).String(),
		Mode:      current,
		ChainID:   s.sources.Position.ChainID(),
		Position:  s.sources.Position.Get(),
		Proposals: count,
		Actions:   s.sources.Actions.Counts(),
		Session:   s.sources.Session.Statistics(),
		Bootstrap: s.sources.Bootstrap.Passes(),
		InFlight:  s.inFlight.Uint64(),
	})
}

// send an JSON encoded reply
func sendReply(w http.ResponseWriter, data interface{}) {
	text, err := json.Marshal(data)
	if nil != err {
		sendInternalServerError(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)
	w.Write(text)
}

// selected errors as required above
func sendBadRequest(w http.ResponseWriter, message string) {
	sendError(w, message, http.StatusBadRequest)
}
func sendNotFound(w http.ResponseWriter) {
	sendError(w, "not found", http.StatusNotFound)
}
func sendMethodNotAllowed(w http.ResponseWriter) {
	sendError(w, "method not allowed", http.StatusMethodNotAllowed)
}
func sendTooManyRequests(w http.ResponseWriter) {
	sendError(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
}
func sendInternalServerError(w http.ResponseWriter) {
	sendError(w, "internal server error", http.StatusInternalServerError)
}

// to compose JSON error messages
type eType struct {
	Code  int    `json:"code"`
	Error string `json:"error"`
}

// output an error with a JSON body
func sendError(w http.ResponseWriter, message string, code int) {
	text, err := json.Marshal(eType{
		Code:  code,
		Error: message,
	})
	if nil != err {
		// manually composed error just incase JSON fails
		http.Error(w, `{"code":500,"error":"Internal Server Error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	w.Write(text)
}
