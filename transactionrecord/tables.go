// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transactionrecord

import (
	"github.com/bitmark-inc/msigd/account"
	"github.com/bitmark-inc/msigd/codec"
)

// ProposalRow - a row of the "proposal" table
type ProposalRow struct {
	ProposalName        account.Name    `json:"proposal_name"`
	PackedTransaction   HexBytes        `json:"packed_transaction"`
	HasEarliestExecTime bool            `json:"-"`
	HasExecTimeValue    bool            `json:"-"`
	EarliestExecTime    codec.TimePoint `json:"earliest_exec_time"`
}

// Approval - a permission level and when it was last changed
type Approval struct {
	Level account.PermissionLevel `json:"level"`
	Time  codec.TimePoint         `json:"time"`
}

// ApprovalsInfo - a row of the "approvals2" table
type ApprovalsInfo struct {
	Version            uint8        `json:"version"`
	ProposalName       account.Name `json:"proposal_name"`
	RequestedApprovals []Approval   `json:"requested_approvals"`
	ProvidedApprovals  []Approval   `json:"provided_approvals"`
}

// OldApprovalsInfo - a row of the legacy "approvals" table, levels
// without approval times
type OldApprovalsInfo struct {
	ProposalName       account.Name              `json:"proposal_name"`
	RequestedApprovals []account.PermissionLevel `json:"requested_approvals"`
	ProvidedApprovals  []account.PermissionLevel `json:"provided_approvals"`
}

func (p *ProposalRow) Schema() []codec.Field {
	return []codec.Field{
		codec.Name("proposal_name", &p.ProposalName),
		codec.Bytes("packed_transaction", (*[]byte)(&p.PackedTransaction)),
		codec.Extension(
			codec.Optional(codec.TimePointField("earliest_exec_time", &p.EarliestExecTime), &p.HasExecTimeValue),
			&p.HasEarliestExecTime,
		),
	}
}

// ExecTime - the earliest execution time if the row carries one
func (p *ProposalRow) ExecTime() (codec.TimePoint, bool) {
	if p.HasEarliestExecTime && p.HasExecTimeValue {
		return p.EarliestExecTime, true
	}
	return 0, false
}

func (a *Approval) Schema() []codec.Field {
	return []codec.Field{
		permissionField("level", &a.Level),
		codec.TimePointField("time", &a.Time),
	}
}

func (a *ApprovalsInfo) Schema() []codec.Field {
	return []codec.Field{
		codec.Uint8("version", &a.Version),
		codec.Name("proposal_name", &a.ProposalName),
		approvalList("requested_approvals", &a.RequestedApprovals),
		approvalList("provided_approvals", &a.ProvidedApprovals),
	}
}

// Levels - just the permission levels of a list of approvals
func Levels(approvals []Approval) []account.PermissionLevel {
	if 0 == len(approvals) {
		return nil
	}
	result := make([]account.PermissionLevel, len(approvals))
	for i, a := range approvals {
		result[i] = a.Level
	}
	return result
}

func (o *OldApprovalsInfo) Schema() []codec.Field {
	return []codec.Field{
		codec.Name("proposal_name", &o.ProposalName),
		PermissionList("requested_approvals", &o.RequestedApprovals),
		PermissionList("provided_approvals", &o.ProvidedApprovals),
	}
}

func approvalList(name string, list *[]Approval) codec.Field {
	return codec.List(name, "approval",
		func() int { return len(*list) },
		func(i int) codec.Record {
			if 0 == i {
				*list = nil
			}
			*list = append(*list, Approval{})
			return &(*list)[i]
		},
		func(i int) codec.Record { return &(*list)[i] },
	)
}
