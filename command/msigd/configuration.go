// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/msigd/account"
	"github.com/bitmark-inc/msigd/authorization"
	"github.com/bitmark-inc/msigd/bootstrap"
	"github.com/bitmark-inc/msigd/configuration"
	"github.com/bitmark-inc/msigd/fault"
	"github.com/bitmark-inc/msigd/msig"
	"github.com/bitmark-inc/msigd/peer"
	"github.com/bitmark-inc/msigd/rpc"
	"github.com/bitmark-inc/msigd/util"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultChainAPI = "http://127.0.0.1:8888"

	defaultPeerHost       = "127.0.0.1"
	defaultPeerPort       = 9876
	defaultConnectTimeout = 10 * time.Second

	defaultListen = "127.0.0.1:8080"

	defaultLogDirectory = "log"
	defaultLogFile      = "msigd.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size
)

// to hold log levels
type LoglevelMap map[string]string

// path expanded or calculated defaults
var (
	defaultLogLevels = LoglevelMap{
		"main":            "info",
		logger.DefaultTag: "critical",
	}
)

type ChainType struct {
	API      string `gluamapper:"api" json:"api"`
	Timeout  string `gluamapper:"timeout" json:"timeout"`
	Contract string `gluamapper:"contract" json:"contract"`
}

type PeeringType struct {
	Host           string `gluamapper:"host" json:"host"`
	Port           int    `gluamapper:"port" json:"port"`
	ReconnectDelay string `gluamapper:"reconnect_delay" json:"reconnect_delay"`
	ConnectTimeout string `gluamapper:"connect_timeout" json:"connect_timeout"`
	P2PAddress     string `gluamapper:"p2p_address" json:"p2p_address"`
}

type BootstrapType struct {
	RetryDelay string `gluamapper:"retry_delay" json:"retry_delay"`
}

type AuthorizationType struct {
	CacheTTL  string `gluamapper:"cache_ttl" json:"cache_ttl"`
	BatchSize int    `gluamapper:"batch_size" json:"batch_size"`
}

type Configuration struct {
	DataDirectory string               `gluamapper:"data_directory" json:"data_directory"`
	PidFile       string               `gluamapper:"pidfile" json:"pidfile"`
	Chain         ChainType            `gluamapper:"chain" json:"chain"`
	Peering       PeeringType          `gluamapper:"peering" json:"peering"`
	Bootstrap     BootstrapType        `gluamapper:"bootstrap" json:"bootstrap"`
	Authorization AuthorizationType    `gluamapper:"authorization" json:"authorization"`
	RPC           rpc.Configuration    `gluamapper:"rpc" json:"rpc"`
	Logging       logger.Configuration `gluamapper:"logging" json:"logging"`
}

// values derived from the configuration file
type settings struct {
	contract       account.Name
	chainTimeout   time.Duration
	reconnectDelay time.Duration
	connectTimeout time.Duration
	retryDelay     time.Duration
	cacheTTL       time.Duration
}

// will read decode and verify the configuration
func getConfiguration(configurationFileName string, arguments ...string) (*Configuration, *settings, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{

		DataDirectory: defaultDataDirectory,
		PidFile:       "", // no PidFile by default

		Chain: ChainType{
			API:      defaultChainAPI,
			Contract: msig.DefaultContract,
		},

		Peering: PeeringType{
			Host:       defaultPeerHost,
			Port:       defaultPeerPort,
			P2PAddress: peer.DefaultP2PAddress,
		},

		Authorization: AuthorizationType{
			BatchSize: authorization.DefaultBatchSize,
		},

		RPC: rpc.Configuration{
			Listen:             []string{defaultListen},
			MaximumConnections: rpc.DefaultMaximumConnections,
			RateLimit:          rpc.DefaultRateLimit,
			Burst:              rpc.DefaultBurst,
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    defaultLogLevels,
		},
	}

	if err := configuration.ParseConfigurationFile(configurationFileName, options, arguments...); err != nil {
		return nil, nil, err
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, nil, fmt.Errorf("%w: %q is not a valid directory", fault.InvalidPath, options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	}
	options.DataDirectory = filepath.Clean(options.DataDirectory)

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, nil, err
	} else if !fileInfo.IsDir() {
		return nil, nil, fmt.Errorf("%w: %q is not a directory", fault.InvalidPath, options.DataDirectory)
	}

	// optional absolute paths i.e. blank or an absolute path
	options.PidFile = util.EnsureAbsolute(options.DataDirectory, options.PidFile)

	// log file must be a plain name in the log directory
	switch filepath.Dir(options.Logging.File) {
	case "", ".":
	default:
		return nil, nil, fmt.Errorf("%w: %q is not plain name", fault.InvalidPath, options.Logging.File)
	}
	options.Logging.Directory = util.EnsureAbsolute(options.DataDirectory, options.Logging.Directory)
	if err := os.MkdirAll(options.Logging.Directory, 0700); nil != err {
		return nil, nil, err
	}

	s, err := derive(options)
	if nil != err {
		return nil, nil, err
	}

	// done
	return options, s, nil
}

// convert and check the values that are not plain strings or numbers
func derive(options *Configuration) (*settings, error) {
	s := &settings{}

	if "" == options.Chain.API {
		return nil, fmt.Errorf("%w: chain.api", fault.MissingParameters)
	}

	contract, err := account.NameFromString(options.Chain.Contract)
	if nil != err || contract.IsZero() {
		return nil, fmt.Errorf("%w: chain.contract: %q", fault.InvalidAccountName, options.Chain.Contract)
	}
	s.contract = contract

	durations := []struct {
		name         string
		value        string
		defaultValue time.Duration
		result       *time.Duration
	}{
		{"chain.timeout", options.Chain.Timeout, 0, &s.chainTimeout},
		{"peering.reconnect_delay", options.Peering.ReconnectDelay, peer.DefaultReconnectDelay, &s.reconnectDelay},
		{"peering.connect_timeout", options.Peering.ConnectTimeout, defaultConnectTimeout, &s.connectTimeout},
		{"bootstrap.retry_delay", options.Bootstrap.RetryDelay, bootstrap.DefaultRetryDelay, &s.retryDelay},
		{"authorization.cache_ttl", options.Authorization.CacheTTL, authorization.DefaultCacheTTL, &s.cacheTTL},
	}
	for _, d := range durations {
		*d.result, err = configuration.Duration(d.name, d.value, d.defaultValue)
		if nil != err {
			return nil, err
		}
	}

	return s, nil
}
