// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transactionrecord

import (
	"github.com/bitmark-inc/msigd/account"
	"github.com/bitmark-inc/msigd/codec"
)

// Packed - packed records are just a byte slice
type Packed []byte

// Header - the fixed part of a transaction
type Header struct {
	Expiration       codec.TimePointSec `json:"expiration"`
	RefBlockNum      uint16             `json:"ref_block_num"`
	RefBlockPrefix   uint32             `json:"ref_block_prefix"`
	MaxNetUsageWords uint32             `json:"max_net_usage_words"`
	MaxCPUUsageMS    uint8              `json:"max_cpu_usage_ms"`
	DelaySec         uint32             `json:"delay_sec"`
}

// Transaction - a complete transaction body
type Transaction struct {
	Header
	ContextFreeActions    []Action    `json:"context_free_actions"`
	Actions               []Action    `json:"actions"`
	TransactionExtensions []Extension `json:"transaction_extensions"`
}

// Action - one contract call
type Action struct {
	Account       account.Name              `json:"account"`
	Name          account.Name              `json:"name"`
	Authorization []account.PermissionLevel `json:"authorization"`
	Data          HexBytes                  `json:"data"`
}

// Extension - a typed opaque extension
type Extension struct {
	Type uint16   `json:"type"`
	Data HexBytes `json:"data"`
}

func (h *Header) Schema() []codec.Field {
	return []codec.Field{
		codec.TimePointSecField("expiration", &h.Expiration),
		codec.Uint16("ref_block_num", &h.RefBlockNum),
		codec.Uint32("ref_block_prefix", &h.RefBlockPrefix),
		codec.VarUint32("max_net_usage_words", &h.MaxNetUsageWords),
		codec.Uint8("max_cpu_usage_ms", &h.MaxCPUUsageMS),
		codec.VarUint32("delay_sec", &h.DelaySec),
	}
}

func (tx *Transaction) Schema() []codec.Field {
	return append(tx.Header.Schema(),
		actionList("context_free_actions", &tx.ContextFreeActions),
		actionList("actions", &tx.Actions),
		codec.List("transaction_extensions", "extension",
			func() int { return len(tx.TransactionExtensions) },
			func(i int) codec.Record {
				if 0 == i {
					tx.TransactionExtensions = nil
				}
				tx.TransactionExtensions = append(tx.TransactionExtensions, Extension{})
				return &tx.TransactionExtensions[i]
			},
			func(i int) codec.Record { return &tx.TransactionExtensions[i] },
		),
	)
}

func (a *Action) Schema() []codec.Field {
	return []codec.Field{
		codec.Name("account", &a.Account),
		codec.Name("name", &a.Name),
		PermissionList("authorization", &a.Authorization),
		codec.Bytes("data", (*[]byte)(&a.Data)),
	}
}

func (x *Extension) Schema() []codec.Field {
	return []codec.Field{
		codec.Uint16("type", &x.Type),
		codec.Bytes("data", (*[]byte)(&x.Data)),
	}
}

// Unpack - decode a packed transaction body
func (record Packed) Unpack() (*Transaction, error) {
	tx := &Transaction{}
	if err := codec.Unmarshal(record, tx); nil != err {
		return nil, err
	}
	return tx, nil
}

// Pack - encode a transaction body
func (tx *Transaction) Pack() (Packed, error) {
	return codec.Marshal(tx)
}

func actionList(name string, list *[]Action) codec.Field {
	return codec.List(name, "action",
		func() int { return len(*list) },
		func(i int) codec.Record {
			if 0 == i {
				*list = nil
			}
			*list = append(*list, Action{})
			return &(*list)[i]
		},
		func(i int) codec.Record { return &(*list)[i] },
	)
}

// permission levels are not codec.Records themselves since they
// live in the account package
type permissionLevel struct {
	p *account.PermissionLevel
}

func (l permissionLevel) Schema() []codec.Field {
	return []codec.Field{
		codec.Name("actor", &l.p.Actor),
		codec.Name("permission", &l.p.Permission),
	}
}

func permissionField(name string, p *account.PermissionLevel) codec.Field {
	return codec.Struct(name, "permission_level", permissionLevel{p: p})
}

// PermissionList - field for a list of permission levels
func PermissionList(name string, list *[]account.PermissionLevel) codec.Field {
	return codec.List(name, "permission_level",
		func() int { return len(*list) },
		func(i int) codec.Record {
			if 0 == i {
				*list = nil
			}
			*list = append(*list, account.PermissionLevel{})
			return permissionLevel{p: &(*list)[i]}
		},
		func(i int) codec.Record { return permissionLevel{p: &(*list)[i]} },
	)
}
