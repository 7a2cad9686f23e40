// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package codec_test

import (
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/msigd/account"
	"github.com/bitmark-inc/msigd/codec"
	"github.com/bitmark-inc/msigd/fault"
)

type testLevel struct {
	Actor      account.Name
	Permission account.Name
}

func (l *testLevel) Schema() []codec.Field {
	return []codec.Field{
		codec.Name("actor", &l.Actor),
		codec.Name("permission", &l.Permission),
	}
}

type testRecord struct {
	Count    uint16
	Size     uint32
	Data     []byte
	Levels   []testLevel
	HasHash  bool
	Hash     codec.Checksum256
	HasExtra bool
	Extra    codec.TimePoint
}

func (r *testRecord) Schema() []codec.Field {
	return []codec.Field{
		codec.Uint16("count", &r.Count),
		codec.VarUint32("size", &r.Size),
		codec.Bytes("data", &r.Data),
		codec.List("levels", "level",
			func() int { return len(r.Levels) },
			func(i int) codec.Record {
				if 0 == i {
					r.Levels = nil
				}
				r.Levels = append(r.Levels, testLevel{})
				return &r.Levels[i]
			},
			func(i int) codec.Record { return &r.Levels[i] },
		),
		codec.Extension(codec.Checksum("hash", &r.Hash), &r.HasHash),
		codec.Extension(codec.TimePointField("extra", &r.Extra), &r.HasExtra),
	}
}

func newTestRecord() testRecord {
	return testRecord{
		Count: 0x1234,
		Size:  300,
		Data:  []byte{1, 2, 3},
		Levels: []testLevel{
			{account.MustName("bob"), account.MustName("active")},
			{account.MustName("carol"), account.MustName("owner")},
		},
		HasHash:  true,
		Hash:     codec.Checksum256{0xaa, 0x55},
		HasExtra: true,
		Extra:    codec.TimePoint(1600000000000000),
	}
}

func TestRoundTrip(t *testing.T) {
	r := newTestRecord()
	buffer, err := codec.Marshal(&r)
	assert.Nil(t, err, "marshal")
	assert.Equal(t, []byte{0x34, 0x12, 0xac, 0x02, 0x03, 1, 2, 3, 0x02}, buffer[:9], "prefix")

	var s testRecord
	err = codec.Unmarshal(buffer, &s)
	assert.Nil(t, err, "unmarshal")
	assert.Equal(t, r, s, "round trip")
}

func TestExtensionTruncation(t *testing.T) {
	r := newTestRecord()
	r.HasExtra = false
	r.Extra = 0
	full, err := codec.Marshal(&r)
	assert.Nil(t, err, "marshal")

	var s testRecord
	err = codec.Unmarshal(full, &s)
	assert.Nil(t, err, "unmarshal with one extension")
	assert.True(t, s.HasHash, "hash present")
	assert.False(t, s.HasExtra, "extra absent")
	assert.Equal(t, r, s, "round trip")

	// drop the hash bytes too
	s = testRecord{}
	err = codec.Unmarshal(full[:len(full)-32], &s)
	assert.Nil(t, err, "unmarshal with no extensions")
	assert.False(t, s.HasHash, "hash absent")
	assert.False(t, s.HasExtra, "extra absent")

	// partial extension is an error
	s = testRecord{}
	err = codec.Unmarshal(full[:len(full)-1], &s)
	assert.True(t, fault.IsErrMalformed(err), "partial extension: %v", err)
}

func TestExtensionOrder(t *testing.T) {
	r := newTestRecord()
	r.HasHash = false
	_, err := codec.Marshal(&r)
	assert.True(t, fault.IsErrInvalid(err), "extension after absent: %v", err)
}

func TestMalformed(t *testing.T) {
	r := newTestRecord()
	buffer, err := codec.Marshal(&r)
	assert.Nil(t, err, "marshal")

	for n := 0; n < 9+32; n += 1 {
		var s testRecord
		err := codec.Unmarshal(buffer[:n], &s)
		assert.True(t, fault.IsErrMalformed(err), "truncated at %d: %v", n, err)
	}

	// count larger than the remaining bytes
	bad := append([]byte{}, buffer[:8]...)
	bad = append(bad, 0xff, 0x01)
	var s testRecord
	err = codec.Unmarshal(bad, &s)
	assert.True(t, fault.IsErrMalformed(err), "long count: %v", err)

	// trailing data
	err = codec.Unmarshal(append(append([]byte{}, buffer...), 0), &s)
	assert.Equal(t, fault.TrailingBytes, err, "trailing")
}

type testWide struct {
	Flag    bool
	Padding [1024]byte
}

func (w *testWide) Schema() []codec.Field {
	return []codec.Field{
		codec.Custom("flag", "bool",
			func(e *codec.Encoder) error { e.WriteBool(w.Flag); return nil },
			func(d *codec.Decoder) (err error) { w.Flag, err = d.ReadBool(); return },
		),
	}
}

type testWideList struct {
	Items []testWide
}

func (l *testWideList) Schema() []codec.Field {
	return []codec.Field{
		codec.List("items", "wide",
			func() int { return len(l.Items) },
			func(i int) codec.Record {
				if 0 == i {
					l.Items = nil
				}
				l.Items = append(l.Items, testWide{})
				return &l.Items[i]
			},
			func(i int) codec.Record { return &l.Items[i] },
		),
	}
}

// a count that fits the remaining bytes but whose elements are
// each far larger in memory than on the wire
func TestOversizedCount(t *testing.T) {
	const count = 256 * 1024

	buffer := []byte{0x80, 0x80, 0x10} // varint 262144
	for i := 0; i < count; i += 1 {
		buffer = append(buffer, 0xff)
	}

	var before runtime.MemStats
	runtime.ReadMemStats(&before)

	var l testWideList
	err := codec.Unmarshal(buffer, &l)

	var after runtime.MemStats
	runtime.ReadMemStats(&after)

	assert.True(t, fault.IsErrMalformed(err), "bad element: %v", err)
	assert.Len(t, l.Items, 1, "items decoded")
	assert.True(t, cap(l.Items) < 16, "capacity: %d", cap(l.Items))

	allocated := after.TotalAlloc - before.TotalAlloc
	assert.True(t, allocated < 16*1024*1024, "allocated: %d bytes", allocated)
}

func TestEmptyLists(t *testing.T) {
	r := testRecord{}
	buffer, err := codec.Marshal(&r)
	assert.Nil(t, err, "marshal")
	assert.Equal(t, []byte{0, 0, 0, 0, 0}, buffer, "encoded")

	var s testRecord
	err = codec.Unmarshal(buffer, &s)
	assert.Nil(t, err, "unmarshal")
	assert.Nil(t, s.Data, "data")
	assert.Nil(t, s.Levels, "levels")
}

type testOptional struct {
	HasValue bool
	Value    uint32
	Tail     uint8
}

func (o *testOptional) Schema() []codec.Field {
	return []codec.Field{
		codec.Optional(codec.Uint32("value", &o.Value), &o.HasValue),
		codec.Uint8("tail", &o.Tail),
	}
}

func TestOptional(t *testing.T) {
	items := []struct {
		value   testOptional
		encoded []byte
	}{
		{testOptional{HasValue: false, Tail: 7}, []byte{0, 7}},
		{testOptional{HasValue: true, Value: 0x01020304, Tail: 7}, []byte{1, 4, 3, 2, 1, 7}},
	}
	for i, item := range items {
		buffer, err := codec.Marshal(&item.value)
		assert.Nil(t, err, "%d: marshal", i)
		assert.Equal(t, item.encoded, buffer, "%d: encoded", i)

		var o testOptional
		err = codec.Unmarshal(buffer, &o)
		assert.Nil(t, err, "%d: unmarshal", i)
		assert.Equal(t, item.value, o, "%d: round trip", i)
	}

	var o testOptional
	err := codec.Unmarshal([]byte{2, 7}, &o)
	assert.True(t, fault.IsErrMalformed(err), "bad flag: %v", err)
}

func TestDescribe(t *testing.T) {
	var o testOptional
	assert.Equal(t, "{value: uint32?, tail: uint8}", codec.Describe(&o))

	var r testRecord
	assert.Equal(t,
		"{count: uint16, size: varuint32, data: bytes, levels: level[], hash: checksum256$, extra: time_point$}",
		codec.Describe(&r),
	)
}

func TestTimePoints(t *testing.T) {
	tp := codec.TimePointFromTime(time.Date(2020, 9, 13, 12, 26, 40, 500000000, time.UTC))
	assert.Equal(t, "2020-09-13T12:26:40.500", tp.String(), "time point")

	var parsed codec.TimePoint
	err := parsed.UnmarshalJSON([]byte(`"2020-09-13T12:26:40.500"`))
	assert.Nil(t, err, "parse")
	assert.Equal(t, tp, parsed, "parsed")

	err = parsed.UnmarshalJSON([]byte(`"2020-09-13T12:26:40"`))
	assert.Nil(t, err, "parse seconds")
	assert.Equal(t, tp-500000, parsed, "parsed seconds")

	sec := codec.TimePointSec(1600000000)
	assert.Equal(t, "2020-09-13T12:26:40", sec.String(), "time point sec")
}

func TestChecksum(t *testing.T) {
	s := "aca376f206b8fc25a6ed44dbdc66547c36c6c33e3a119ffbeaef943642f0e906"
	c, err := codec.Checksum256FromHex(s)
	assert.Nil(t, err, "parse")
	assert.Equal(t, s, c.String(), "string")
	assert.False(t, c.IsZero(), "not zero")

	_, err = codec.Checksum256FromHex("abcd")
	assert.True(t, fault.IsErrMalformed(err), "short")
}
