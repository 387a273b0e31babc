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

	"github.com/bitmark-inc/datapacker/account"
	"github.com/bitmark-inc/datapacker/background"
	"github.com/bitmark-inc/datapacker/bucket"
	"github.com/bitmark-inc/datapacker/configuration"
	"github.com/bitmark-inc/datapacker/fault"
	"github.com/bitmark-inc/datapacker/ledger"
	"github.com/bitmark-inc/datapacker/mode"
	"github.com/bitmark-inc/datapacker/rpc"
	"github.com/bitmark-inc/datapacker/storage"
	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"
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

	// these commands do not require the configuration and
	// process data needed for initial setup
	if len(arguments) > 0 && processSetupCommand(program, arguments) {
		return
	}

	if 1 != len(options["config-file"]) {
		exitwithstatus.Message("%s: only one config-file option is required, %d were detected", program, len(options["config-file"]))
	}

	// read options and parse the configuration file
	configurationFile := options["config-file"][0]
	theConfiguration, err := getConfiguration(configurationFile)
	if nil != err {
		exitwithstatus.Message("%s: failed to read configuration from: %q  error: %s", program, configurationFile, err)
	}

	// these commands require the configuration and
	// perform enquiries on the configuration
	if len(arguments) > 0 && processConfigCommand(arguments, theConfiguration) {
		return
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
	err = mode.Initialise(theConfiguration.Chain)
	if nil != err {
		log.Criticalf("mode initialise error: %s", err)
		exitwithstatus.Message("mode initialise error: %s", err)
	}
	defer mode.Finalise()

	// general info
	log.Infof("test mode: %v", mode.IsTesting())
	log.Infof("database: %q", theConfiguration.Database)
	log.Debugf("%s = %#v", "ClientRPC", theConfiguration.ClientRPC)
	log.Debugf("%s = %#v", "Ledger", theConfiguration.Ledger)

	// start the data storage
	log.Info("initialise storage")
	err = storage.Initialise(theConfiguration.Database.Name, storage.ReadWrite)
	if nil != err {
		log.Criticalf("storage initialise error: %s", err)
		exitwithstatus.Message("storage initialise error: %s", err)
	}
	defer storage.Finalise()

	// ledger runtime with the bucket program registered
	log.Info("initialise ledger")
	theLedger, err := ledger.New(logger.New("ledger"), ledger.Handles{
		Accounts:   storage.Pool.Accounts,
		Signatures: storage.Pool.Signatures,
		Metadata:   storage.Pool.Metadata,
	}, ledger.DefaultOptions())
	if nil != err {
		log.Criticalf("ledger initialise error: %s", err)
		exitwithstatus.Message("ledger initialise error: %s", err)
	}

	programAddress, _ := theConfiguration.Ledger.program()
	err = theLedger.RegisterProgram(programAddress, bucket.New(logger.New("bucket")))
	if nil != err {
		log.Criticalf("register program: %s  error: %s", programAddress, err)
		exitwithstatus.Message("register program: %s  error: %s", programAddress, err)
	}
	log.Infof("bucket program: %s", programAddress)

	err = genesis(log, theLedger, &theConfiguration.Ledger)
	if nil != err {
		log.Criticalf("genesis error: %s", err)
		exitwithstatus.Message("genesis error: %s", err)
	}

	// these commands are allowed to access the internal database
	if len(arguments) > 0 && processDataCommand(arguments, theLedger) {
		return
	}

	mode.Set(mode.Normal)

	// marker clock and configuration reload
	interval, _ := theConfiguration.Ledger.markerInterval()
	ticker := ledger.NewTicker(logger.New("ticker"), theLedger, interval)
	processes := background.Processes{ticker}

	watcher, err := configuration.NewWatcher(logger.New("config"), configurationFile)
	if nil != err {
		log.Warnf("configuration will not be reloaded: %s", err)
	} else {
		processes = append(processes, watcher, &reloader{
			log:      logger.New("config"),
			fileName: configurationFile,
			watcher:  watcher,
			ticker:   ticker,
		})
	}

	log.Info("start background")
	bg := background.Start(processes, nil)
	defer bg.Stop()

	// start up the rpc background processes
	err = rpc.Initialise(&theConfiguration.ClientRPC, theLedger, version)
	if nil != err {
		log.Criticalf("rpc initialise error: %s", err)
		exitwithstatus.Message("rpc initialise error: %s", err)
	}
	defer rpc.Finalise()

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
	mode.Set(mode.Stopped)
}

// fund the genesis address on a new ledger
func genesis(log *logger.L, l *ledger.Ledger, ledgerConfiguration *LedgerType) error {
	if 0 == ledgerConfiguration.GenesisLamports || 0 != l.Marker() {
		return nil
	}

	address, err := account.AddressFromBase58(ledgerConfiguration.GenesisAddress)
	if nil != err {
		return err
	}

	_, err = l.Account(address)
	if fault.AccountNotFound != err {
		return err
	}

	lamports, err := l.Airdrop(address, ledgerConfiguration.GenesisLamports)
	if nil != err {
		return err
	}
	log.Infof("genesis: %s  lamports: %d", address, lamports)
	return nil
}
