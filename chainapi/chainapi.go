// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chainapi

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/msigd/account"
	"github.com/bitmark-inc/msigd/codec"
	"github.com/bitmark-inc/msigd/fault"
	"github.com/bitmark-inc/msigd/util"
)

// rows requested per page
const pageLimit = 100

// Info - result of get_info
type Info struct {
	ServerVersion            string            `json:"server_version"`
	ChainID                  codec.Checksum256 `json:"chain_id"`
	HeadBlockNum             uint32            `json:"head_block_num"`
	HeadBlockID              codec.Checksum256 `json:"head_block_id"`
	HeadBlockTime            codec.TimePoint   `json:"head_block_time"`
	LastIrreversibleBlockNum uint32            `json:"last_irreversible_block_num"`
	LastIrreversibleBlockID  codec.Checksum256 `json:"last_irreversible_block_id"`
}

// Client - the queries needed to track proposals
type Client interface {
	GetInfo(ctx context.Context) (*Info, error)
	TableScopes(ctx context.Context, code account.Name, table account.Name) ([]account.Name, error)
	TableRows(ctx context.Context, code account.Name, scope account.Name, table account.Name) ([][]byte, error)
	AccountsByAuthorizers(ctx context.Context, accounts []account.Name) ([]account.Name, error)
}

type client struct {
	log        *logger.L
	url        string
	httpClient *http.Client
}

// New - client for a node's API at url, a zero timeout means none
func New(url string, timeout time.Duration) Client {
	return &client{
		log: logger.New("chainapi"),
		url: strings.TrimRight(url, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *client) call(ctx context.Context, path string, request interface{}, reply interface{}) error {
	c.log.Debugf("POST %s", path)
	err := util.PostJSON(ctx, c.httpClient, c.url+path, request, reply)
	if nil == err {
		return nil
	}
	if fault.IsErrQuery(err) {
		return err
	}
	return fmt.Errorf("%w: %s: %s", fault.QueryFailed, path, err)
}

// GetInfo - current chain status
func (c *client) GetInfo(ctx context.Context) (*Info, error) {
	reply := &Info{}
	if err := c.call(ctx, "/v1/chain/get_info", struct{}{}, reply); nil != err {
		return nil, err
	}
	return reply, nil
}

type scopeRequest struct {
	Code       account.Name `json:"code"`
	Table      account.Name `json:"table"`
	LowerBound string       `json:"lower_bound,omitempty"`
	Limit      int          `json:"limit"`
}

type scopeReply struct {
	Rows []struct {
		Code  string `json:"code"`
		Scope string `json:"scope"`
		Table string `json:"table"`
		Payer string `json:"payer"`
		Count uint32 `json:"count"`
	} `json:"rows"`
	More string `json:"more"`
}

// TableScopes - every scope of a table, following all pages
func (c *client) TableScopes(ctx context.Context, code account.Name, table account.Name) ([]account.Name, error) {
	scopes := make([]account.Name, 0, pageLimit)
	request := scopeRequest{
		Code:  code,
		Table: table,
		Limit: pageLimit,
	}

	for {
		var reply scopeReply
		if err := c.call(ctx, "/v1/chain/get_table_by_scope", request, &reply); nil != err {
			return nil, err
		}
		for _, row := range reply.Rows {
			scope, err := account.NameFromString(row.Scope)
			if nil != err {
				return nil, fmt.Errorf("%w: scope: %q  error: %s", fault.QueryFailed, row.Scope, err)
			}
			scopes = append(scopes, scope)
		}
		if "" == reply.More || reply.More == request.LowerBound {
			return scopes, nil
		}
		request.LowerBound = reply.More
	}
}

type rowsRequest struct {
	Code       account.Name `json:"code"`
	Scope      account.Name `json:"scope"`
	Table      account.Name `json:"table"`
	JSON       bool         `json:"json"`
	LowerBound string       `json:"lower_bound,omitempty"`
	Limit      int          `json:"limit"`
}

type rowsReply struct {
	Rows    []string `json:"rows"`
	More    bool     `json:"more"`
	NextKey string   `json:"next_key"`
}

// TableRows - binary data of every row of a table in one scope
func (c *client) TableRows(ctx context.Context, code account.Name, scope account.Name, table account.Name) ([][]byte, error) {
	rows := make([][]byte, 0, pageLimit)
	request := rowsRequest{
		Code:  code,
		Scope: scope,
		Table: table,
		JSON:  false,
		Limit: pageLimit,
	}

	for {
		var reply rowsReply
		if err := c.call(ctx, "/v1/chain/get_table_rows", request, &reply); nil != err {
			return nil, err
		}
		for _, row := range reply.Rows {
			data, err := hex.DecodeString(row)
			if nil != err {
				return nil, fmt.Errorf("%w: table: %s  scope: %s", fault.InvalidHex, table, scope)
			}
			rows = append(rows, data)
		}
		if !reply.More {
			return rows, nil
		}

		// more rows with no way to reach them would silently truncate
		// the table
		if "" == reply.NextKey || reply.NextKey == request.LowerBound {
			return nil, fmt.Errorf("%w: table: %s  scope: %s  more rows without next key: %q", fault.QueryFailed, table, scope, reply.NextKey)
		}
		request.LowerBound = reply.NextKey
	}
}

type authorizersRequest struct {
	Accounts []account.Name `json:"accounts"`
}

type authorizersReply struct {
	Accounts []struct {
		AccountName        account.Name `json:"account_name"`
		PermissionName     account.Name `json:"permission_name"`
		AuthorizingAccount *struct {
			Actor      account.Name `json:"actor"`
			Permission account.Name `json:"permission"`
		} `json:"authorizing_account,omitempty"`
		Weight    uint32 `json:"weight"`
		Threshold uint32 `json:"threshold"`
	} `json:"accounts"`
}

// AccountsByAuthorizers - accounts with a permission that lists any
// of the given accounts as an authorizer, may contain duplicates
func (c *client) AccountsByAuthorizers(ctx context.Context, accounts []account.Name) ([]account.Name, error) {
	var reply authorizersReply
	request := authorizersRequest{
		Accounts: accounts,
	}
	if err := c.call(ctx, "/v1/chain/get_accounts_by_authorizers", request, &reply); nil != err {
		return nil, err
	}

	result := make([]account.Name, len(reply.Accounts))
	for i, a := range reply.Accounts {
		result[i] = a.AccountName
	}
	return result, nil
}
