// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/msigd/authorization"
	"github.com/bitmark-inc/msigd/background"
	"github.com/bitmark-inc/msigd/bootstrap"
	"github.com/bitmark-inc/msigd/chainapi"
	"github.com/bitmark-inc/msigd/mode"
	"github.com/bitmark-inc/msigd/msig"
	"github.com/bitmark-inc/msigd/peer"
	"github.com/bitmark-inc/msigd/peer/upstream"
	"github.com/bitmark-inc/msigd/proposal"
	"github.com/bitmark-inc/msigd/rpc"
	"github.com/bitmark-inc/msigd/storage"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
		{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
		{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
		{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
	}

	program, options, arguments, err := getoptions.GetOS(flags)
	if nil != err {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		processSetupCommand(program, []string{"version"})
		return
	}

	if len(options["help"]) > 0 {
		processSetupCommand(program, []string{"help"})
		return
	}

	// these commands do not require the configuration
	if len(arguments) > 0 && processSetupCommand(program, arguments) {
		return
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	// read options and parse the configuration file
	configurationFile := options["config-file"][0]
	// anything after the command is passed to the script in arg[1…]
	scriptArguments := []string{}
	if len(arguments) > 1 {
		scriptArguments = arguments[1:]
	}
	theConfiguration, theSettings, err := getConfiguration(configurationFile, scriptArguments...)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	// these commands require the configuration and
	// perform enquiries on the configuration
	if len(arguments) > 0 && processConfigCommand(arguments, theConfiguration) {
		return
	}

	if len(options["verbose"]) > 0 {
		theConfiguration.Logging.Console = true
	}

	// start logging
	if err = logger.Initialise(theConfiguration.Logging); nil != err {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	// create a logger channel for the main program
	log := logger.New("main")
	defer log.Info("finished")
	log.Info("starting…")
	log.Infof("version: %s", version)
	log.Debugf("theConfiguration: %v", theConfiguration)

	// ------------------
	// start of real main
	// ------------------

	// optional PID file
	// use if not running under a supervisor program like daemon(8)
	if "" != theConfiguration.PidFile {
		lockFile, err := os.OpenFile(theConfiguration.PidFile, os.O_WRONLY|os.O_EXCL|os.O_CREATE, os.ModeExclusive|0600)
		if err != nil {
			if os.IsExist(err) {
				exitwithstatus.Message("%s: another instance is already running", program)
			}
			exitwithstatus.Message("%s: PID file: %q creation failed, error: %s", program, theConfiguration.PidFile, err)
		}
		fmt.Fprintf(lockFile, "%d\n", os.Getpid())
		lockFile.Close()
		defer os.Remove(theConfiguration.PidFile)
	}

	// set the initial system mode - before any background tasks are started
	state := mode.New()

	log.Infof("chain api: %s", theConfiguration.Chain.API)
	log.Infof("contract: %s", theSettings.contract)
	log.Debugf("%s = %#v", "Peering", theConfiguration.Peering)
	log.Debugf("%s = %#v", "RPC", theConfiguration.RPC)

	// start the data storage
	log.Info("initialise storage")
	database, err := storage.New()
	if nil != err {
		log.Criticalf("storage initialise error: %s", err)
		exitwithstatus.Message("storage initialise error: %s", err)
	}
	defer database.Close()

	client := chainapi.New(theConfiguration.Chain.API, theSettings.chainTimeout)

	resolver := authorization.New(client, theConfiguration.Authorization.BatchSize, theSettings.cacheTTL)
	store := proposal.New(database.Proposals, resolver)
	dispatcher := msig.New(theSettings.contract, store)

	loader := bootstrap.New(client, store, state, theSettings.contract, theSettings.retryDelay)

	position := peer.NewPosition()
	session, err := peer.New(
		peer.Configuration{
			Host:           theConfiguration.Peering.Host,
			Port:           theConfiguration.Peering.Port,
			P2PAddress:     theConfiguration.Peering.P2PAddress,
			Agent:          "msigd:" + version,
			ReconnectDelay: theSettings.reconnectDelay,
		},
		position,
		dispatcher,
		client,
		state,
		upstream.New(theSettings.connectTimeout),
		loader.Done(),
	)
	if nil != err {
		log.Criticalf("peer initialise error: %s", err)
		exitwithstatus.Message("peer initialise error: %s", err)
	}

	// start up the rpc listeners
	server, err := rpc.New(
		&theConfiguration.RPC,
		rpc.Sources{
			Proposals: store,
			Position:  position,
			Mode:      state,
			Actions:   dispatcher,
			Session:   session,
			Bootstrap: loader,
		},
		version,
	)
	if nil != err {
		log.Criticalf("rpc initialise error: %s", err)
		exitwithstatus.Message("rpc initialise error: %s", err)
	}

	processes := background.Start(background.Processes{loader, session, server}, nil)
	defer processes.Stop()

	// wait for CTRL-C before shutting down to allow manual testing
	if 0 == len(options["quiet"]) {
		fmt.Printf("\n\nWaiting for CTRL-C (SIGINT) or 'kill <pid>' (SIGTERM)…")
	}

	// turn Signals into channel messages
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	sig := <-ch
	log.Infof("received signal: %v", sig)
	if 0 == len(options["quiet"]) {
		fmt.Printf("\nreceived signal: %v\n", sig)
		fmt.Printf("\nshutting down…\n")
	}

	log.Info("shutting down…")
}
