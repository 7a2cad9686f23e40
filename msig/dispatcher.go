// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package msig

import (
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/msigd/account"
	"github.com/bitmark-inc/msigd/codec"
	"github.com/bitmark-inc/msigd/counter"
	"github.com/bitmark-inc/msigd/fault"
	"github.com/bitmark-inc/msigd/proposal"
	"github.com/bitmark-inc/msigd/transactionrecord"
)

// DefaultContract - account the multisig contract is deployed on
const DefaultContract = "eosio.msig"

// counter labels other than action names
const (
	malformedLabel = "malformed"
	ignoredLabel   = "ignored"
	failedLabel    = "failed"
)

// Store - the proposal operations the dispatcher needs
type Store interface {
	Has(key proposal.Key) (bool, error)
	Add(r *proposal.Record) error
	Remove(key proposal.Key) (bool, error)
	AddApproval(key proposal.Key, level account.PermissionLevel) (bool, error)
	RemoveApproval(key proposal.Key, level account.PermissionLevel) (bool, error)
	SetStatus(key proposal.Key, status proposal.Status) (bool, error)
}

// Dispatcher - turns contract actions into proposal state changes
type Dispatcher struct {
	log      *logger.L
	contract account.Name
	store    Store
	counts   counter.Set
}

// New - dispatcher for actions on contract
func New(contract account.Name, store Store) *Dispatcher {
	return &Dispatcher{
		log:      logger.New("msig"),
		contract: contract,
		store:    store,
	}
}

// Counts - number of applied actions by name, plus malformed,
// ignored and failed actions
func (d *Dispatcher) Counts() map[string]uint64 {
	return d.counts.Snapshot()
}

// HandleTransaction - apply every contract action of a transaction
//
// each action is handled on its own: a bad action is logged and the
// remaining actions are still applied
func (d *Dispatcher) HandleTransaction(tx *transactionrecord.Transaction) {
	for i := range tx.Actions {
		action := &tx.Actions[i]
		if action.Account != d.contract {
			continue
		}
		d.handleAction(action)
	}
}

func (d *Dispatcher) handleAction(action *transactionrecord.Action) {
	data, err := transactionrecord.UnpackAction(action.Name, action.Data)
	if nil != err {
		if fault.UnknownVariant == err {
			d.log.Debugf("ignoring action: %s", action.Name)
			d.counts.Increment(ignoredLabel)
			return
		}
		d.log.Warnf("action: %s  decode error: %s", action.Name, err)
		if r, ok := transactionrecord.ActionRecord(action.Name); ok {
			d.log.Debugf("expected layout: %s  data: %x", codec.Describe(r), []byte(action.Data))
		}
		d.counts.Increment(malformedLabel)
		return
	}

	applied := false
	switch a := data.(type) {

	case *transactionrecord.Propose:
		applied, err = d.propose(a)

	case *transactionrecord.Cancel:
		key := proposal.Key{Scope: a.Proposer, Name: a.ProposalName}
		d.log.Debugf("cancel: %s  by: %s", key, a.Canceler)
		applied, err = d.store.Remove(key)
		if applied {
			d.log.Infof("removed proposal: %s", key)
		}

	case *transactionrecord.Approve:
		key := proposal.Key{Scope: a.Proposer, Name: a.ProposalName}
		d.log.Debugf("approve: %s  level: %s", key, a.Level)
		applied, err = d.store.AddApproval(key, a.Level)
		if applied {
			d.log.Infof("added approval: %s  to: %s", a.Level, key)
		}

	case *transactionrecord.Unapprove:
		key := proposal.Key{Scope: a.Proposer, Name: a.ProposalName}
		d.log.Debugf("unapprove: %s  level: %s", key, a.Level)
		applied, err = d.store.RemoveApproval(key, a.Level)
		if applied {
			d.log.Infof("removed approval: %s  from: %s", a.Level, key)
		}

	case *transactionrecord.Exec:
		key := proposal.Key{Scope: a.Proposer, Name: a.ProposalName}
		d.log.Debugf("exec: %s  by: %s", key, a.Executer)
		applied, err = d.store.SetStatus(key, proposal.Executed)
		if applied {
			d.log.Infof("executed proposal: %s", key)
		}

	case *transactionrecord.Invalidate:
		// approvals already stored are not revoked
		d.log.Infof("invalidate: %s", a.Account)
		applied = true

	default:
		d.log.Debugf("unhandled action: %s", action.Name)
		return
	}

	if nil != err {
		d.log.Errorf("action: %s  error: %s", action.Name, err)
		d.counts.Increment(failedLabel)
		return
	}
	if !applied {
		d.log.Debugf("action: %s  precondition not met", action.Name)
		return
	}
	d.counts.Increment(action.Name.String())
}

func (d *Dispatcher) propose(a *transactionrecord.Propose) (bool, error) {
	key := proposal.Key{Scope: a.Proposer, Name: a.ProposalName}
	d.log.Debugf("propose: %s  requested: %v", key, a.Requested)

	requested := a.Requested
	if nil == requested {
		requested = []account.PermissionLevel{}
	}
	r := &proposal.Record{
		Key:         key,
		Status:      proposal.Proposed,
		Requested:   requested,
		Provided:    []account.PermissionLevel{},
		Transaction: a.Trx,
	}

	err := d.store.Add(r)
	if fault.ProposalExists == err {
		d.log.Debugf("already has proposal: %s", key)
		return false, nil
	}
	if nil != err {
		return false, err
	}
	d.log.Infof("added proposal: %s", key)
	return true, nil
}
