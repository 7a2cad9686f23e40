// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package proposal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/msigd/account"
	"github.com/bitmark-inc/msigd/codec"
	"github.com/bitmark-inc/msigd/fault"
)

func TestAddGetRemove(t *testing.T) {
	s, done := newTestStore(t, &fakeResolver{})
	defer done()

	r := makeRecord(alice, transfer1, testNow.Add(time.Hour), bob)
	r.HasEarliestExecTime = true
	r.EarliestExecTime = codec.TimePointFromTime(testNow)

	assert.Nil(t, s.Add(r), "add")

	found, err := s.Has(r.Key)
	assert.Nil(t, err, "has error")
	assert.True(t, found, "has")

	stored, err := s.Get(r.Key)
	assert.Nil(t, err, "get error")
	assert.Equal(t, r, stored, "stored record")

	removed, err := s.Remove(r.Key)
	assert.Nil(t, err, "remove error")
	assert.True(t, removed, "removed")

	removed, err = s.Remove(r.Key)
	assert.Nil(t, err, "second remove error")
	assert.False(t, removed, "second remove")

	_, err = s.Get(r.Key)
	assert.Equal(t, fault.NoSuchProposal, err, "get after remove")
}

func TestUniqueness(t *testing.T) {
	s, done := newTestStore(t, &fakeResolver{})
	defer done()

	expires := testNow.Add(time.Hour)
	steps := []struct {
		propose bool
		name    account.Name
		err     error
		count   int
	}{
		{true, transfer1, nil, 1},
		{true, transfer1, fault.ProposalExists, 1},
		{true, account.MustName("transfer2"), nil, 2},
		{false, transfer1, nil, 1},
		{false, transfer1, nil, 1},
		{true, transfer1, nil, 2},
		{true, transfer1, fault.ProposalExists, 2},
	}

	for i, step := range steps {
		if step.propose {
			err := s.Add(makeRecord(alice, step.name, expires, bob))
			assert.Equal(t, step.err, err, "%d: add", i)
		} else {
			_, err := s.Remove(Key{Scope: alice, Name: step.name})
			assert.Nil(t, err, "%d: remove", i)
		}
		n, err := s.Count()
		assert.Nil(t, err, "%d: count error", i)
		assert.Equal(t, step.count, n, "%d: count", i)
	}
}

func TestApprovals(t *testing.T) {
	s, done := newTestStore(t, &fakeResolver{})
	defer done()

	r := makeRecord(alice, transfer1, testNow.Add(time.Hour), bob, carol)
	assert.Nil(t, s.Add(r), "add")

	bobActive := account.PermissionLevel{Actor: bob, Permission: active}
	carolActive := account.PermissionLevel{Actor: carol, Permission: active}

	// approving twice keeps both
	for i := 0; i < 2; i += 1 {
		changed, err := s.AddApproval(r.Key, bobActive)
		assert.Nil(t, err, "approve error")
		assert.True(t, changed, "approve changed")
	}
	stored, err := s.Get(r.Key)
	assert.Nil(t, err, "get error")
	assert.Equal(t, []account.PermissionLevel{bobActive, bobActive}, stored.Provided, "provided")

	// unapprove of an absent level is a no-op
	changed, err := s.RemoveApproval(r.Key, carolActive)
	assert.Nil(t, err, "unapprove error")
	assert.False(t, changed, "unapprove absent")

	changed, err = s.RemoveApproval(r.Key, bobActive)
	assert.Nil(t, err, "unapprove error")
	assert.True(t, changed, "unapprove present")

	stored, err = s.Get(r.Key)
	assert.Nil(t, err, "get error")
	assert.Equal(t, []account.PermissionLevel{bobActive}, stored.Provided, "provided after unapprove")
	assert.Equal(t, r.Requested, stored.Requested, "requested unchanged")

	// missing record
	missing := Key{Scope: bob, Name: transfer1}
	changed, err = s.AddApproval(missing, bobActive)
	assert.Nil(t, err, "approve missing error")
	assert.False(t, changed, "approve missing")

	changed, err = s.SetStatus(missing, Executed)
	assert.Nil(t, err, "exec missing error")
	assert.False(t, changed, "exec missing")

	found, err := s.Has(missing)
	assert.Nil(t, err, "has error")
	assert.False(t, found, "exec did not create")
}

func TestSetStatus(t *testing.T) {
	s, done := newTestStore(t, &fakeResolver{})
	defer done()

	r := makeRecord(alice, transfer1, testNow.Add(time.Hour), bob)
	assert.Nil(t, s.Add(r), "add")

	changed, err := s.SetStatus(r.Key, Executed)
	assert.Nil(t, err, "status error")
	assert.True(t, changed, "status changed")

	changed, err = s.SetStatus(r.Key, Executed)
	assert.Nil(t, err, "status error")
	assert.False(t, changed, "status unchanged")

	stored, err := s.Get(r.Key)
	assert.Nil(t, err, "get error")
	assert.Equal(t, Executed, stored.Status, "status")
}

func TestReset(t *testing.T) {
	s, done := newTestStore(t, &fakeResolver{})
	defer done()

	for _, n := range []string{"a", "b", "c"} {
		assert.Nil(t, s.Add(makeRecord(alice, account.MustName(n), testNow, bob)), "add")
	}
	assert.Nil(t, s.Reset(), "reset")

	n, err := s.Count()
	assert.Nil(t, err, "count error")
	assert.Equal(t, 0, n, "count")
}

func TestQuery(t *testing.T) {
	resolver := &fakeResolver{
		graph: map[account.Name][]account.Name{
			bob:  {dave},
			dave: {bob}, // cycle
		},
	}
	s, done := newTestStore(t, resolver)
	defer done()

	later := testNow.Add(time.Hour)
	earlier := testNow.Add(-time.Hour)

	assert.Nil(t, s.Add(makeRecord(alice, transfer1, later, bob)), "add transfer1")
	assert.Nil(t, s.Add(makeRecord(alice, account.MustName("viadave"), later, dave)), "add viadave")
	assert.Nil(t, s.Add(makeRecord(alice, account.MustName("old"), earlier, bob)), "add old")
	assert.Nil(t, s.Add(makeRecord(alice, account.MustName("exact"), testNow, bob)), "add exact")

	tests := []struct {
		account        account.Name
		includeExpired bool
		names          []string
	}{
		{bob, false, []string{"transfer1", "viadave"}},
		{bob, true, []string{"exact", "old", "transfer1", "viadave"}},
		{dave, false, []string{"transfer1", "viadave"}},
		{carol, false, []string{}},
		{carol, true, []string{}},
	}

	for i, item := range tests {
		acct := item.account
		records, complete, err := s.Query(context.Background(), &acct, item.includeExpired)
		assert.Nil(t, err, "%d: query error", i)
		assert.True(t, complete, "%d: complete", i)

		names := []string{}
		for _, r := range records {
			names = append(names, r.Name.String())
		}
		assert.ElementsMatch(t, item.names, names, "%d: names", i)
	}

	all, complete, err := s.Query(context.Background(), nil, false)
	assert.Nil(t, err, "query all error")
	assert.True(t, complete, "query all complete")
	assert.Equal(t, 4, len(all), "query all")
}

func TestQueryIncomplete(t *testing.T) {
	resolver := &fakeResolver{
		err: fault.ResolverIncomplete,
	}
	s, done := newTestStore(t, resolver)
	defer done()

	assert.Nil(t, s.Add(makeRecord(alice, transfer1, testNow.Add(time.Hour), bob)), "add")

	records, complete, err := s.Query(context.Background(), &bob, false)
	assert.Nil(t, err, "query error")
	assert.False(t, complete, "complete")
	assert.Equal(t, 1, len(records), "partial closure still matches seed")
}

func TestStatusText(t *testing.T) {
	b, err := Executed.MarshalText()
	assert.Nil(t, err, "marshal")
	assert.Equal(t, "executed", string(b), "executed")

	var s Status
	assert.Nil(t, s.UnmarshalText([]byte("proposed")), "unmarshal proposed")
	assert.Equal(t, Proposed, s, "proposed")

	err = s.UnmarshalText([]byte("expired"))
	assert.True(t, fault.IsErrMalformed(err), "expired is not stored")
}
