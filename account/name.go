// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account

import (
	"encoding/json"
	"strings"

	"github.com/bitmark-inc/msigd/fault"
)

const (
	charmap = ".12345abcdefghijklmnopqrstuvwxyz"

	// MaximumNameLength - characters in the longest name
	MaximumNameLength = 13
)

// Name - an encoded account name
type Name uint64

// NameFromString - convert text to an account name
//
// the empty string is the zero name
func NameFromString(s string) (Name, error) {
	if len(s) > MaximumNameLength {
		return 0, fault.InvalidAccountName
	}

	value := uint64(0)
	for i := 0; i < MaximumNameLength; i += 1 {
		c := uint64(0)
		if i < len(s) {
			index := strings.IndexByte(charmap, s[i])
			if index < 0 {
				return 0, fault.InvalidAccountName
			}
			c = uint64(index)
		}
		if i < MaximumNameLength-1 {
			value |= (c & 0x1f) << uint(64-5*(i+1))
		} else {
			if c > 0x0f {
				return 0, fault.InvalidAccountName
			}
			value |= c & 0x0f
		}
	}
	return Name(value), nil
}

// MustName - name conversion that panics, only for constant names
func MustName(s string) Name {
	n, err := NameFromString(s)
	if nil != err {
		panic("invalid account name: " + s)
	}
	return n
}

// String - text form of a name, trailing dots are removed
func (name Name) String() string {
	value := uint64(name)
	result := make([]byte, MaximumNameLength)

	for i := 0; i < MaximumNameLength; i += 1 {
		if 0 == i {
			result[MaximumNameLength-1] = charmap[value&0x0f]
			value >>= 4
		} else {
			result[MaximumNameLength-1-i] = charmap[value&0x1f]
			value >>= 5
		}
	}
	return strings.TrimRight(string(result), ".")
}

// IsZero - the empty name
func (name Name) IsZero() bool {
	return 0 == name
}

// MarshalText - convert a name to text
func (name Name) MarshalText() ([]byte, error) {
	return []byte(name.String()), nil
}

// UnmarshalText - convert text into a name
func (name *Name) UnmarshalText(s []byte) error {
	n, err := NameFromString(string(s))
	if nil != err {
		return err
	}
	*name = n
	return nil
}

// MarshalJSON - names appear as JSON strings
func (name Name) MarshalJSON() ([]byte, error) {
	return json.Marshal(name.String())
}

// UnmarshalJSON - names are read from JSON strings
func (name *Name) UnmarshalJSON(s []byte) error {
	text := ""
	if err := json.Unmarshal(s, &text); nil != err {
		return err
	}
	return name.UnmarshalText([]byte(text))
}
