// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package proposal

import (
	"encoding/binary"
	"fmt"

	"github.com/bitmark-inc/msigd/account"
	"github.com/bitmark-inc/msigd/codec"
	"github.com/bitmark-inc/msigd/fault"
	"github.com/bitmark-inc/msigd/transactionrecord"
)

const keyLength = 16

// Key - identifies a proposal
type Key struct {
	Scope account.Name `json:"scope"`
	Name  account.Name `json:"name"`
}

// Status - state of a stored proposal
type Status uint8

// the materialised states, expiry is computed on read and a
// cancelled proposal is deleted
const (
	Proposed Status = iota
	Executed
)

// Record - a proposal and its approvals
type Record struct {
	Key
	Status              Status                        `json:"status"`
	Requested           []account.PermissionLevel     `json:"requested"`
	Provided            []account.PermissionLevel     `json:"provided"`
	Transaction         transactionrecord.Transaction `json:"transaction"`
	HasEarliestExecTime bool                          `json:"-"`
	EarliestExecTime    codec.TimePoint               `json:"earliest_exec_time,omitempty"`
}

func (k Key) String() string {
	return k.Scope.String() + "/" + k.Name.String()
}

// big endian so that iteration groups proposals by scope
func (k Key) bytes() []byte {
	b := make([]byte, keyLength)
	binary.BigEndian.PutUint64(b[:8], uint64(k.Scope))
	binary.BigEndian.PutUint64(b[8:], uint64(k.Name))
	return b
}

func keyFromBytes(b []byte) (Key, error) {
	if keyLength != len(b) {
		return Key{}, fault.LengthOutOfRange
	}
	return Key{
		Scope: account.Name(binary.BigEndian.Uint64(b[:8])),
		Name:  account.Name(binary.BigEndian.Uint64(b[8:])),
	}, nil
}

func (s Status) String() string {
	switch s {
	case Proposed:
		return "proposed"
	case Executed:
		return "executed"
	default:
		return "*unknown*"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(b []byte) error {
	switch string(b) {
	case "proposed":
		*s = Proposed
	case "executed":
		*s = Executed
	default:
		return fmt.Errorf("%w: status: %q", fault.UnknownVariant, b)
	}
	return nil
}

// Expired - true if the transaction can no longer be executed at now
func (r *Record) Expired(now codec.TimePointSec) bool {
	return r.Transaction.Expiration <= now
}

// RequestedFrom - true if any requested approval is by one of the actors
func (r *Record) RequestedFrom(actors map[account.Name]struct{}) bool {
	for _, level := range r.Requested {
		if _, ok := actors[level.Actor]; ok {
			return true
		}
	}
	return false
}

// the key is not part of the stored value
func (r *Record) Schema() []codec.Field {
	return []codec.Field{
		codec.Custom("status", "uint8",
			func(e *codec.Encoder) error {
				e.WriteUint8(uint8(r.Status))
				return nil
			},
			func(d *codec.Decoder) error {
				b, err := d.ReadUint8()
				if nil != err {
					return err
				}
				if Status(b) > Executed {
					return fault.UnknownVariant
				}
				r.Status = Status(b)
				return nil
			},
		),
		transactionrecord.PermissionList("requested", &r.Requested),
		transactionrecord.PermissionList("provided", &r.Provided),
		codec.Struct("transaction", "transaction", &r.Transaction),
		codec.Optional(codec.TimePointField("earliest_exec_time", &r.EarliestExecTime), &r.HasEarliestExecTime),
	}
}

func decodeRecord(key []byte, value []byte) (*Record, error) {
	k, err := keyFromBytes(key)
	if nil != err {
		return nil, err
	}
	r := &Record{
		Key: k,
	}
	if err := codec.Unmarshal(value, r); nil != err {
		return nil, fault.Malformed("proposal "+k.String(), err)
	}

	// decoded empty lists are nil, readers expect empty arrays
	if nil == r.Requested {
		r.Requested = []account.PermissionLevel{}
	}
	if nil == r.Provided {
		r.Provided = []account.PermissionLevel{}
	}
	return r, nil
}
