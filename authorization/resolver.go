// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package authorization

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/bitmark-inc/logger"
	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"

	"github.com/bitmark-inc/msigd/account"
	"github.com/bitmark-inc/msigd/chainapi"
	"github.com/bitmark-inc/msigd/fault"
)

// defaults
const (
	DefaultBatchSize = 50
	DefaultCacheTTL  = 30 * time.Second

	lookupAttempts = 3
	lookupDelay    = 200 * time.Millisecond
)

// Resolver - computes authorization closures
type Resolver struct {
	log       *logger.L
	client    chainapi.Client
	cache     *cache.Cache
	batchSize int
	attempts  uint
	delay     time.Duration
}

// New - a resolver querying client, zero values select the defaults
func New(client chainapi.Client, batchSize int, ttl time.Duration) *Resolver {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Resolver{
		log:       logger.New("authorization"),
		client:    client,
		cache:     cache.New(ttl, 2*ttl),
		batchSize: batchSize,
		attempts:  lookupAttempts,
		delay:     lookupDelay,
	}
}

// Resolve - seed plus every account reachable from it, sorted
//
// each wave queries the whole frontier in parallel batches and the
// next wave starts only after all of its batches merged.  If a lookup
// still fails after retrying, the accounts found so far are returned
// together with a ResolverIncomplete error.
func (r *Resolver) Resolve(ctx context.Context, seed []account.Name) ([]account.Name, error) {

	known := make(map[account.Name]struct{}, len(seed))
	frontier := make([]account.Name, 0, len(seed))
	for _, a := range seed {
		if _, ok := known[a]; ok {
			continue
		}
		known[a] = struct{}{}
		frontier = append(frontier, a)
	}

	wave := 0
	for 0 != len(frontier) {
		wave += 1
		r.log.Debugf("wave: %d  frontier: %v", wave, frontier)

		returned, err := r.lookupWave(ctx, frontier)
		if nil != err {
			r.log.Errorf("wave: %d  error: %s", wave, err)
			return sorted(known), fmt.Errorf("%w: %s", fault.ResolverIncomplete, err)
		}

		unknown := make([]account.Name, 0, len(returned))
		for _, a := range returned {
			if _, ok := known[a]; ok {
				continue
			}
			known[a] = struct{}{}
			unknown = append(unknown, a)
		}
		frontier = unknown
	}

	return sorted(known), nil
}

// query all batches of a frontier concurrently
func (r *Resolver) lookupWave(ctx context.Context, frontier []account.Name) ([]account.Name, error) {
	batches := split(frontier, r.batchSize)
	results := make([][]account.Name, len(batches))

	g, gctx := errgroup.WithContext(ctx)
	for i, batch := range batches {
		i, batch := i, batch
		g.Go(func() error {
			accounts, err := r.lookup(gctx, batch)
			results[i] = accounts
			return err
		})
	}
	if err := g.Wait(); nil != err {
		return nil, err
	}

	merged := make([]account.Name, 0, len(frontier))
	for _, accounts := range results {
		merged = append(merged, accounts...)
	}
	return merged, nil
}

// one batch, from cache or from the chain with retries
func (r *Resolver) lookup(ctx context.Context, batch []account.Name) ([]account.Name, error) {
	key := cacheKey(batch)
	if cached, found := r.cache.Get(key); found {
		return cached.([]account.Name), nil
	}

	var accounts []account.Name
	err := retry.Do(
		func() error {
			var err error
			accounts, err = r.client.AccountsByAuthorizers(ctx, batch)
			return err
		},
		retry.Attempts(r.attempts),
		retry.Delay(r.delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(error) bool {
			return nil == ctx.Err()
		}),
		retry.OnRetry(func(n uint, err error) {
			r.log.Warnf("lookup: %s  attempt: %d  error: %s", key, n+1, err)
		}),
	)
	if nil != err {
		return nil, err
	}

	r.cache.Set(key, accounts, cache.DefaultExpiration)
	return accounts, nil
}

func split(accounts []account.Name, size int) [][]account.Name {
	batches := make([][]account.Name, 0, (len(accounts)+size-1)/size)
	for len(accounts) > size {
		batches = append(batches, accounts[:size])
		accounts = accounts[size:]
	}
	if 0 != len(accounts) {
		batches = append(batches, accounts)
	}
	return batches
}

// the same set of accounts in any order shares a cache entry
func cacheKey(batch []account.Name) string {
	names := account.Names(append([]account.Name{}, batch...))
	sort.Sort(names)
	return strings.Join(names.Strings(), ",")
}

func sorted(set map[account.Name]struct{}) []account.Name {
	result := make(account.Names, 0, len(set))
	for a := range set {
		result = append(result, a)
	}
	sort.Sort(result)
	return result
}
