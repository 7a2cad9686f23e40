// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package codec

import (
	"strings"

	"github.com/bitmark-inc/msigd/account"
	"github.com/bitmark-inc/msigd/fault"
)

// Record - any struct with a wire layout
//
// Schema must return fields bound to the receiver, so it is called
// on a pointer
type Record interface {
	Schema() []Field
}

// Field - one entry of an ordered struct layout
type Field struct {
	Name      string
	Type      string
	Extension bool

	present *bool
	pack    func(e *Encoder) error
	unpack  func(d *Decoder) error
}

// Pack - encode all fields of a record in declared order
func Pack(e *Encoder, r Record) error {
	absent := false
	for _, f := range r.Schema() {
		if f.Extension && !*f.present {
			absent = true
			continue
		}
		if absent {
			return fault.Malformed(f.Name, fault.ExtensionOrder)
		}
		if err := f.pack(e); nil != err {
			return err
		}
	}
	return nil
}

// Unpack - decode all fields of a record in declared order
//
// lists and byte fields are only assigned when non-empty, so the
// target should be a zero value
func Unpack(d *Decoder, r Record) error {
	absent := false
	for _, f := range r.Schema() {
		if f.Extension {
			if absent || 0 == d.Remaining() {
				absent = true
				*f.present = false
				continue
			}
			*f.present = true
		} else if absent {
			return fault.Malformed(f.Name, fault.MissingRequiredField)
		}
		if err := f.unpack(d); nil != err {
			return fault.Malformed(f.Name, err)
		}
	}
	return nil
}

// Marshal - encode a record to a new buffer
func Marshal(r Record) ([]byte, error) {
	e := NewEncoder()
	if err := Pack(e, r); nil != err {
		return nil, err
	}
	return e.Bytes(), nil
}

// Unmarshal - decode a complete buffer, trailing bytes are an error
func Unmarshal(buffer []byte, r Record) error {
	d := NewDecoder(buffer)
	if err := Unpack(d, r); nil != err {
		return err
	}
	if 0 != d.Remaining() {
		return fault.TrailingBytes
	}
	return nil
}

// Describe - the layout as text for debugging
// e.g. "{account: name, name: name, authorization: permission_level[], data: bytes}"
func Describe(r Record) string {
	s := make([]string, 0, 8)
	for _, f := range r.Schema() {
		t := f.Type
		if f.Extension {
			t += "$"
		}
		s = append(s, f.Name+": "+t)
	}
	return "{" + strings.Join(s, ", ") + "}"
}

// Extension - mark a field as an optional trailing field, present
// records whether it was decoded and controls whether it is encoded
func Extension(f Field, present *bool) Field {
	f.Extension = true
	f.present = present
	return f
}

// Optional - a presence flag byte followed by the field when set
func Optional(f Field, present *bool) Field {
	return Field{
		Name: f.Name,
		Type: f.Type + "?",
		pack: func(e *Encoder) error {
			e.WriteBool(*present)
			if !*present {
				return nil
			}
			return f.pack(e)
		},
		unpack: func(d *Decoder) error {
			p, err := d.ReadBool()
			if nil != err {
				return err
			}
			*present = p
			if !p {
				return nil
			}
			return f.unpack(d)
		},
	}
}

// Custom - a field with its own pack and unpack
func Custom(name string, typeName string, pack func(e *Encoder) error, unpack func(d *Decoder) error) Field {
	return Field{
		Name:   name,
		Type:   typeName,
		pack:   pack,
		unpack: unpack,
	}
}

// Struct - a nested record
func Struct(name string, typeName string, r Record) Field {
	return Custom(name, typeName,
		func(e *Encoder) error { return Pack(e, r) },
		func(d *Decoder) error { return Unpack(d, r) },
	)
}

// List - a varint count followed by that many records
//
// add appends a zero element and returns it for decoding, add(0)
// must first empty the list; it is never called for a zero count.
// the count comes from the input, so the list only grows as elements
// actually decode instead of being allocated up front
func List(name string, elementType string, length func() int, add func(i int) Record, element func(i int) Record) Field {
	return Custom(name, elementType+"[]",
		func(e *Encoder) error {
			n := length()
			e.WriteVarUint32(uint32(n))
			for i := 0; i < n; i += 1 {
				if err := Pack(e, element(i)); nil != err {
					return err
				}
			}
			return nil
		},
		func(d *Decoder) error {
			n, err := d.ReadCount()
			if nil != err {
				return err
			}
			if 0 == n {
				return nil
			}
			for i := 0; i < n; i += 1 {
				if err := Unpack(d, add(i)); nil != err {
					return err
				}
			}
			return nil
		},
	)
}

func Uint8(name string, v *uint8) Field {
	return Custom(name, "uint8",
		func(e *Encoder) error { e.WriteUint8(*v); return nil },
		func(d *Decoder) (err error) { *v, err = d.ReadUint8(); return },
	)
}

func Uint16(name string, v *uint16) Field {
	return Custom(name, "uint16",
		func(e *Encoder) error { e.WriteUint16(*v); return nil },
		func(d *Decoder) (err error) { *v, err = d.ReadUint16(); return },
	)
}

func Uint32(name string, v *uint32) Field {
	return Custom(name, "uint32",
		func(e *Encoder) error { e.WriteUint32(*v); return nil },
		func(d *Decoder) (err error) { *v, err = d.ReadUint32(); return },
	)
}

func Uint64(name string, v *uint64) Field {
	return Custom(name, "uint64",
		func(e *Encoder) error { e.WriteUint64(*v); return nil },
		func(d *Decoder) (err error) { *v, err = d.ReadUint64(); return },
	)
}

func Int16(name string, v *int16) Field {
	return Custom(name, "int16",
		func(e *Encoder) error { e.WriteInt16(*v); return nil },
		func(d *Decoder) (err error) { *v, err = d.ReadInt16(); return },
	)
}

func Int64(name string, v *int64) Field {
	return Custom(name, "int64",
		func(e *Encoder) error { e.WriteInt64(*v); return nil },
		func(d *Decoder) (err error) { *v, err = d.ReadInt64(); return },
	)
}

func VarUint32(name string, v *uint32) Field {
	return Custom(name, "varuint32",
		func(e *Encoder) error { e.WriteVarUint32(*v); return nil },
		func(d *Decoder) (err error) { *v, err = d.ReadVarUint32(); return },
	)
}

func Bytes(name string, v *[]byte) Field {
	return Custom(name, "bytes",
		func(e *Encoder) error { e.WriteBytes(*v); return nil },
		func(d *Decoder) (err error) { *v, err = d.ReadBytes(); return },
	)
}

func String(name string, v *string) Field {
	return Custom(name, "string",
		func(e *Encoder) error { e.WriteString(*v); return nil },
		func(d *Decoder) (err error) { *v, err = d.ReadString(); return },
	)
}

func Name(name string, v *account.Name) Field {
	return Custom(name, "name",
		func(e *Encoder) error { e.WriteName(*v); return nil },
		func(d *Decoder) (err error) { *v, err = d.ReadName(); return },
	)
}

func Checksum(name string, v *Checksum256) Field {
	return Custom(name, "checksum256",
		func(e *Encoder) error { e.WriteChecksum256(*v); return nil },
		func(d *Decoder) (err error) { *v, err = d.ReadChecksum256(); return },
	)
}

func TimePointField(name string, v *TimePoint) Field {
	return Custom(name, "time_point",
		func(e *Encoder) error { e.WriteInt64(int64(*v)); return nil },
		func(d *Decoder) error { t, err := d.ReadInt64(); *v = TimePoint(t); return err },
	)
}

func TimePointSecField(name string, v *TimePointSec) Field {
	return Custom(name, "time_point_sec",
		func(e *Encoder) error { e.WriteUint32(uint32(*v)); return nil },
		func(d *Decoder) error { t, err := d.ReadUint32(); *v = TimePointSec(t); return err },
	)
}
