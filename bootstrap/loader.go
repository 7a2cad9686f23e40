// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bootstrap

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/msigd/account"
	"github.com/bitmark-inc/msigd/chainapi"
	"github.com/bitmark-inc/msigd/codec"
	"github.com/bitmark-inc/msigd/counter"
	"github.com/bitmark-inc/msigd/fault"
	"github.com/bitmark-inc/msigd/mode"
	"github.com/bitmark-inc/msigd/proposal"
	"github.com/bitmark-inc/msigd/transactionrecord"
)

// DefaultRetryDelay - wait between failed passes
const DefaultRetryDelay = time.Second

// contract tables
var (
	ProposalTable        = account.MustName("proposal")
	ApprovalsTable       = account.MustName("approvals2")
	LegacyApprovalsTable = account.MustName("approvals")
)

// Store - the proposal operations needed to load
type Store interface {
	Reset() error
	Add(r *proposal.Record) error
}

// Loader - background process filling the store once
type Loader struct {
	log      *logger.L
	client   chainapi.Client
	store    Store
	mode     *mode.State
	contract account.Name
	delay    time.Duration

	passes counter.Counter
	once   sync.Once
	done   chan struct{}
}

// New - create a loader for the proposals of contract
func New(client chainapi.Client, store Store, state *mode.State, contract account.Name, delay time.Duration) *Loader {
	if delay <= 0 {
		delay = DefaultRetryDelay
	}
	return &Loader{
		log:      logger.New("bootstrap"),
		client:   client,
		store:    store,
		mode:     state,
		contract: contract,
		delay:    delay,
		done:     make(chan struct{}),
	}
}

// Done - closed after the first successful pass
func (l *Loader) Done() <-chan struct{} {
	return l.done
}

// Passes - number of attempted passes
func (l *Loader) Passes() uint64 {
	return l.passes.Uint64()
}

// Run - load until success or shutdown
func (l *Loader) Run(args interface{}, shutdown <-chan struct{}) {

	log := l.log
	log.Info("starting…")
	l.mode.Set(mode.Resynchronise)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-shutdown:
			cancel()
		case <-ctx.Done():
		}
	}()

loop:
	for {
		l.passes.Increment()
		n, err := l.Load(ctx)
		if nil == err {
			log.Infof("loaded: %d proposals in pass: %d", n, l.passes.Uint64())
			l.once.Do(func() { close(l.done) })
			break loop
		}

		log.Errorf("pass: %d  failed: %s", l.passes.Uint64(), err)

		select {
		case <-shutdown:
			break loop
		case <-time.After(l.delay):
		}
		log.Info("retrying")
	}

	log.Info("shutting down…")
	log.Flush()
}

// Load - one complete pass over every scope
//
// the store is empty after a failure
func (l *Loader) Load(ctx context.Context) (n int, err error) {

	if err := l.store.Reset(); nil != err {
		return 0, err
	}

	defer func() {
		if nil == err {
			return
		}
		if e := l.store.Reset(); nil != e {
			l.log.Errorf("reset after failure: %s", e)
		}
	}()

	scopes, err := l.client.TableScopes(ctx, l.contract, ProposalTable)
	if nil != err {
		return 0, err
	}
	l.log.Infof("scopes: %d  this may take a while…", len(scopes))

	for _, scope := range scopes {
		count, err := l.loadScope(ctx, scope)
		if nil != err {
			return 0, fmt.Errorf("scope: %s: %w", scope, err)
		}
		l.log.Debugf("scope: %s  proposals: %d", scope, count)
		n += count
	}
	return n, nil
}

func (l *Loader) loadScope(ctx context.Context, scope account.Name) (int, error) {

	proposalRows, err := l.client.TableRows(ctx, l.contract, scope, ProposalTable)
	if nil != err {
		return 0, err
	}
	approvalRows, err := l.client.TableRows(ctx, l.contract, scope, ApprovalsTable)
	if nil != err {
		return 0, err
	}

	approvals := make(map[account.Name]levels, len(approvalRows))
	for _, row := range approvalRows {
		info := &transactionrecord.ApprovalsInfo{}
		if err := codec.Unmarshal(row, info); nil != err {
			return 0, fault.Malformed("approvals2 row", err)
		}
		approvals[info.ProposalName] = levels{
			requested: transactionrecord.Levels(info.RequestedApprovals),
			provided:  transactionrecord.Levels(info.ProvidedApprovals),
		}
	}

	// proposals created before approvals2 existed are only in the
	// legacy table, which is fetched at most once per scope
	legacyLoaded := false

	for _, row := range proposalRows {
		p := &transactionrecord.ProposalRow{}
		if err := codec.Unmarshal(row, p); nil != err {
			return 0, fault.Malformed("proposal row", err)
		}

		info, ok := approvals[p.ProposalName]
		if !ok && !legacyLoaded {
			legacyLoaded = true
			if err := l.loadLegacy(ctx, scope, approvals); nil != err {
				return 0, err
			}
			info, ok = approvals[p.ProposalName]
		}
		if !ok {
			return 0, fmt.Errorf("%w: %s", fault.ApprovalsRowMissing, p.ProposalName)
		}

		tx, err := transactionrecord.Packed(p.PackedTransaction).Unpack()
		if nil != err {
			return 0, fault.Malformed("proposal "+p.ProposalName.String(), err)
		}

		r := &proposal.Record{
			Key: proposal.Key{
				Scope: scope,
				Name:  p.ProposalName,
			},
			Status:      proposal.Proposed,
			Requested:   nonNil(info.requested),
			Provided:    nonNil(info.provided),
			Transaction: *tx,
		}
		if t, ok := p.ExecTime(); ok {
			r.HasEarliestExecTime = true
			r.EarliestExecTime = t
		}

		if err := l.store.Add(r); nil != err {
			return 0, err
		}
	}
	return len(proposalRows), nil
}

type levels struct {
	requested []account.PermissionLevel
	provided  []account.PermissionLevel
}

// add rows of the legacy approvals table, approvals2 rows take priority
func (l *Loader) loadLegacy(ctx context.Context, scope account.Name, approvals map[account.Name]levels) error {
	rows, err := l.client.TableRows(ctx, l.contract, scope, LegacyApprovalsTable)
	if nil != err {
		return err
	}
	for _, row := range rows {
		info := &transactionrecord.OldApprovalsInfo{}
		if err := codec.Unmarshal(row, info); nil != err {
			return fault.Malformed("approvals row", err)
		}
		if _, ok := approvals[info.ProposalName]; ok {
			continue
		}
		approvals[info.ProposalName] = levels{
			requested: info.RequestedApprovals,
			provided:  info.ProvidedApprovals,
		}
	}
	l.log.Debugf("scope: %s  legacy approvals: %d", scope, len(rows))
	return nil
}

func nonNil(levels []account.PermissionLevel) []account.PermissionLevel {
	if nil == levels {
		return []account.PermissionLevel{}
	}
	return levels
}
