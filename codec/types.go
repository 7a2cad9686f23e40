// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package codec

import (
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/bitmark-inc/msigd/fault"
)

// Checksum256 - a SHA-256 sized value: chain ids, block ids, hashes
type Checksum256 [32]byte

// Checksum256FromHex - decode 64 hex characters
func Checksum256FromHex(s string) (Checksum256, error) {
	c := Checksum256{}
	b, err := hex.DecodeString(s)
	if nil != err || len(b) != len(c) {
		return c, fault.InvalidHex
	}
	copy(c[:], b)
	return c, nil
}

func (c Checksum256) String() string {
	return hex.EncodeToString(c[:])
}

func (c Checksum256) IsZero() bool {
	return Checksum256{} == c
}

func (c Checksum256) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Checksum256) UnmarshalText(s []byte) error {
	v, err := Checksum256FromHex(string(s))
	if nil != err {
		return err
	}
	*c = v
	return nil
}

// layouts used by the chain's JSON
const (
	timePointLayout    = "2006-01-02T15:04:05.000"
	timePointSecLayout = "2006-01-02T15:04:05"
)

// TimePoint - microseconds since the Unix epoch
type TimePoint int64

// TimePointFromTime - convert, truncating to microseconds
func TimePointFromTime(t time.Time) TimePoint {
	return TimePoint(t.UnixNano() / int64(time.Microsecond))
}

func (t TimePoint) Time() time.Time {
	return time.Unix(0, int64(t)*int64(time.Microsecond)).UTC()
}

func (t TimePoint) String() string {
	return t.Time().Format(timePointLayout)
}

func (t TimePoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimePoint) UnmarshalJSON(s []byte) error {
	text := ""
	if err := json.Unmarshal(s, &text); nil != err {
		return err
	}
	layout := timePointLayout
	if !strings.Contains(text, ".") {
		layout = timePointSecLayout
	}
	v, err := time.Parse(layout, text)
	if nil != err {
		return err
	}
	*t = TimePointFromTime(v)
	return nil
}

// TimePointSec - seconds since the Unix epoch
type TimePointSec uint32

func (t TimePointSec) Time() time.Time {
	return time.Unix(int64(t), 0).UTC()
}

func (t TimePointSec) String() string {
	return t.Time().Format(timePointSecLayout)
}

func (t TimePointSec) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *TimePointSec) UnmarshalJSON(s []byte) error {
	text := ""
	if err := json.Unmarshal(s, &text); nil != err {
		return err
	}
	v, err := time.Parse(timePointSecLayout, text)
	if nil != err {
		return err
	}
	*t = TimePointSec(v.Unix())
	return nil
}
