// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account

// PermissionLevel - a specific authority of an account
type PermissionLevel struct {
	Actor      Name `json:"actor"`
	Permission Name `json:"permission"`
}

// String - actor@permission
func (p PermissionLevel) String() string {
	return p.Actor.String() + "@" + p.Permission.String()
}

// Names - a sortable list of account names
type Names []Name

func (n Names) Len() int           { return len(n) }
func (n Names) Less(i, j int) bool { return n[i] < n[j] }
func (n Names) Swap(i, j int)      { n[i], n[j] = n[j], n[i] }

// Strings - text form of every name
func (n Names) Strings() []string {
	result := make([]string, len(n))
	for i, name := range n {
		result[i] = name.String()
	}
	return result
}
