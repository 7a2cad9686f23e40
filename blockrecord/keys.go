// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockrecord

import (
	"strconv"

	"github.com/bitmark-inc/msigd/codec"
	"github.com/bitmark-inc/msigd/fault"
)

// KeyType - discriminant of public keys and signatures
type KeyType uint32

// supported curves
const (
	K1       KeyType = 0
	R1       KeyType = 1
	WebAuthn KeyType = 2
)

// byte sizes for various fields
const (
	PublicKeyDataSize = 33
	SignatureDataSize = 65
)

func (t KeyType) String() string {
	switch t {
	case K1:
		return "K1"
	case R1:
		return "R1"
	case WebAuthn:
		return "WA"
	default:
		return "*Unknown*"
	}
}

// PublicKey - compressed curve point, web authn keys carry extra data
type PublicKey struct {
	Type         KeyType
	Data         [PublicKeyDataSize]byte
	UserPresence uint8
	RPID         string
}

// Signature - compact signature, web authn signatures carry extra data
type Signature struct {
	Type       KeyType
	Data       [SignatureDataSize]byte
	AuthData   []byte
	ClientJSON string
}

func (k *PublicKey) Schema() []codec.Field {
	return []codec.Field{
		keyType(&k.Type),
		fixed("data", k.Data[:]),
		codec.Custom("webauthn", "webauthn_key?",
			func(e *codec.Encoder) error {
				if WebAuthn == k.Type {
					e.WriteUint8(k.UserPresence)
					e.WriteString(k.RPID)
				}
				return nil
			},
			func(d *codec.Decoder) (err error) {
				if WebAuthn != k.Type {
					return nil
				}
				if k.UserPresence, err = d.ReadUint8(); nil != err {
					return err
				}
				k.RPID, err = d.ReadString()
				return err
			},
		),
	}
}

func (s *Signature) Schema() []codec.Field {
	return []codec.Field{
		keyType(&s.Type),
		fixed("data", s.Data[:]),
		codec.Custom("webauthn", "webauthn_signature?",
			func(e *codec.Encoder) error {
				if WebAuthn == s.Type {
					e.WriteBytes(s.AuthData)
					e.WriteString(s.ClientJSON)
				}
				return nil
			},
			func(d *codec.Decoder) (err error) {
				if WebAuthn != s.Type {
					return nil
				}
				if s.AuthData, err = d.ReadBytes(); nil != err {
					return err
				}
				s.ClientJSON, err = d.ReadString()
				return err
			},
		),
	}
}

func keyType(t *KeyType) codec.Field {
	return codec.Custom("type", "varuint32",
		func(e *codec.Encoder) error {
			e.WriteVarUint32(uint32(*t))
			return nil
		},
		func(d *codec.Decoder) error {
			v, err := d.ReadVarUint32()
			if nil != err {
				return err
			}
			if v > uint32(WebAuthn) {
				return fault.UnknownVariant
			}
			*t = KeyType(v)
			return nil
		},
	)
}

func fixed(name string, buffer []byte) codec.Field {
	return codec.Custom(name, "bytes"+strconv.Itoa(len(buffer)),
		func(e *codec.Encoder) error {
			e.WriteFixed(buffer)
			return nil
		},
		func(d *codec.Decoder) error {
			b, err := d.ReadFixed(len(buffer))
			if nil != err {
				return err
			}
			copy(buffer, b)
			return nil
		},
	)
}
