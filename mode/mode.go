// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package mode

import (
	"sync"
	"time"

	"github.com/bitmark-inc/logger"
)

// Mode - type to hold the mode
type Mode int

// all possible modes
const (
	Stopped Mode = iota
	Resynchronise
	Normal
	maximum
)

// State - the current mode of the service
type State struct {
	sync.RWMutex
	log     *logger.L
	mode    Mode
	changed time.Time
}

// New - mode handling that starts in Resynchronise
func New() *State {
	s := &State{
		log:     logger.New("mode"),
		mode:    Resynchronise,
		changed: time.Now(),
	}
	s.log.Info("starting…")
	return s
}

// Set - change mode
func (s *State) Set(mode Mode) {

	if mode < Stopped || mode >= maximum {
		s.log.Errorf("ignore invalid set: %d", mode)
		return
	}

	s.Lock()
	previous := s.mode
	if previous != mode {
		s.mode = mode
		s.changed = time.Now()
	}
	s.Unlock()

	if previous != mode {
		s.log.Infof("set: %s", mode)
	}
}

// Is - detect mode
func (s *State) Is(mode Mode) bool {
	s.RLock()
	defer s.RUnlock()
	return mode == s.mode
}

// IsNot - detect mode
func (s *State) IsNot(mode Mode) bool {
	s.RLock()
	defer s.RUnlock()
	return mode != s.mode
}

// Current - the mode and when it was entered
func (s *State) Current() (Mode, time.Time) {
	s.RLock()
	defer s.RUnlock()
	return s.mode, s.changed
}

// String - current mode represented as a string
func (s *State) String() string {
	s.RLock()
	defer s.RUnlock()
	return s.mode.String()
}

func (m Mode) String() string {
	switch m {
	case Stopped:
		return "Stopped"
	case Resynchronise:
		return "Resynchronise"
	case Normal:
		return "Normal"
	default:
		return "*Unknown*"
	}
}

func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}
