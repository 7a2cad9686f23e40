// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transactionrecord

import (
	"github.com/bitmark-inc/msigd/account"
	"github.com/bitmark-inc/msigd/codec"
	"github.com/bitmark-inc/msigd/fault"
)

// names of the multisig contract actions
var (
	ProposeAction    = account.MustName("propose")
	ApproveAction    = account.MustName("approve")
	UnapproveAction  = account.MustName("unapprove")
	CancelAction     = account.MustName("cancel")
	ExecAction       = account.MustName("exec")
	InvalidateAction = account.MustName("invalidate")
)

// Propose - create a new proposal
type Propose struct {
	Proposer     account.Name              `json:"proposer"`
	ProposalName account.Name              `json:"proposal_name"`
	Requested    []account.PermissionLevel `json:"requested"`
	Trx          Transaction               `json:"trx"`
}

// Approve - add an approval, the hash is a later addition
type Approve struct {
	Proposer        account.Name            `json:"proposer"`
	ProposalName    account.Name            `json:"proposal_name"`
	Level           account.PermissionLevel `json:"level"`
	HasProposalHash bool                    `json:"-"`
	ProposalHash    codec.Checksum256       `json:"proposal_hash"`
}

// Unapprove - withdraw an approval
type Unapprove struct {
	Proposer     account.Name            `json:"proposer"`
	ProposalName account.Name            `json:"proposal_name"`
	Level        account.PermissionLevel `json:"level"`
}

// Cancel - remove a proposal
type Cancel struct {
	Proposer     account.Name `json:"proposer"`
	ProposalName account.Name `json:"proposal_name"`
	Canceler     account.Name `json:"canceler"`
}

// Exec - execute an approved proposal
type Exec struct {
	Proposer     account.Name `json:"proposer"`
	ProposalName account.Name `json:"proposal_name"`
	Executer     account.Name `json:"executer"`
}

// Invalidate - revoke all approvals of an account
type Invalidate struct {
	Account account.Name `json:"account"`
}

func (p *Propose) Schema() []codec.Field {
	return []codec.Field{
		codec.Name("proposer", &p.Proposer),
		codec.Name("proposal_name", &p.ProposalName),
		PermissionList("requested", &p.Requested),
		codec.Struct("trx", "transaction", &p.Trx),
	}
}

func (a *Approve) Schema() []codec.Field {
	return []codec.Field{
		codec.Name("proposer", &a.Proposer),
		codec.Name("proposal_name", &a.ProposalName),
		permissionField("level", &a.Level),
		codec.Extension(codec.Checksum("proposal_hash", &a.ProposalHash), &a.HasProposalHash),
	}
}

func (u *Unapprove) Schema() []codec.Field {
	return []codec.Field{
		codec.Name("proposer", &u.Proposer),
		codec.Name("proposal_name", &u.ProposalName),
		permissionField("level", &u.Level),
	}
}

func (c *Cancel) Schema() []codec.Field {
	return []codec.Field{
		codec.Name("proposer", &c.Proposer),
		codec.Name("proposal_name", &c.ProposalName),
		codec.Name("canceler", &c.Canceler),
	}
}

func (x *Exec) Schema() []codec.Field {
	return []codec.Field{
		codec.Name("proposer", &x.Proposer),
		codec.Name("proposal_name", &x.ProposalName),
		codec.Name("executer", &x.Executer),
	}
}

func (i *Invalidate) Schema() []codec.Field {
	return []codec.Field{
		codec.Name("account", &i.Account),
	}
}

// ActionRecord - an empty structure for the data of a multisig
// contract action, false if the name is not part of the contract
func ActionRecord(name account.Name) (codec.Record, bool) {
	switch name {
	case ProposeAction:
		return &Propose{}, true
	case ApproveAction:
		return &Approve{}, true
	case UnapproveAction:
		return &Unapprove{}, true
	case CancelAction:
		return &Cancel{}, true
	case ExecAction:
		return &Exec{}, true
	case InvalidateAction:
		return &Invalidate{}, true
	default:
		return nil, false
	}
}

// UnpackAction - decode the data of a multisig contract action
//
// returns a pointer to one of the action structures; an action name
// that is not part of the contract gives fault.UnknownVariant
func UnpackAction(name account.Name, data []byte) (interface{}, error) {
	r, ok := ActionRecord(name)
	if !ok {
		return nil, fault.UnknownVariant
	}
	if err := codec.Unmarshal(data, r); nil != err {
		return nil, fault.Malformed(name.String(), err)
	}
	return r, nil
}
