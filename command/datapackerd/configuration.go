// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bitmark-inc/datapacker/account"
	"github.com/bitmark-inc/datapacker/chain"
	"github.com/bitmark-inc/datapacker/configuration"
	"github.com/bitmark-inc/datapacker/fault"
	"github.com/bitmark-inc/datapacker/rpc/listeners"
	"github.com/bitmark-inc/datapacker/util"
	"github.com/bitmark-inc/logger"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultLevelDBDirectory   = "data"
	defaultDatapackerDatabase = chain.Datapacker + ".leveldb"
	defaultTestingDatabase    = chain.Testing + ".leveldb"
	defaultLocalDatabase      = chain.Local + ".leveldb"

	defaultLogDirectory = "log"
	defaultLogFile      = "datapackerd.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size

	defaultRPCClients   = 10
	defaultRPCBandwidth = 25000000

	defaultMarkerInterval = "400ms"
)

// to hold log levels
type LoglevelMap map[string]string

// path expanded or calculated defaults
var (
	defaultLogLevels = LoglevelMap{
		logger.DefaultTag: "critical",
	}
)

type DatabaseType struct {
	Directory string `gluamapper:"directory" json:"directory"`
	Name      string `gluamapper:"name" json:"name"`
}

// LedgerType - program registration and marker clock
type LedgerType struct {
	Program         string `gluamapper:"program" json:"program"`
	MarkerInterval  string `gluamapper:"marker_interval" json:"marker_interval"`
	GenesisAddress  string `gluamapper:"genesis_address" json:"genesis_address"`
	GenesisLamports uint64 `gluamapper:"genesis_lamports" json:"genesis_lamports"`
}

type Configuration struct {
	DataDirectory string       `gluamapper:"data_directory" json:"data_directory"`
	PidFile       string       `gluamapper:"pidfile" json:"pidfile"`
	Chain         string       `gluamapper:"chain" json:"chain"`
	Database      DatabaseType `gluamapper:"database" json:"database"`

	ClientRPC listeners.RPCConfiguration `gluamapper:"client_rpc" json:"client_rpc"`
	Ledger    LedgerType                 `gluamapper:"ledger" json:"ledger"`
	Logging   logger.Configuration       `gluamapper:"logging" json:"logging"`
}

// will read decode and verify the configuration
func getConfiguration(configurationFileName string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{

		DataDirectory: defaultDataDirectory,
		PidFile:       "", // no PidFile by default
		Chain:         chain.Datapacker,

		Database: DatabaseType{
			Directory: defaultLevelDBDirectory,
			Name:      defaultDatapackerDatabase,
		},

		ClientRPC: listeners.RPCConfiguration{
			MaximumConnections: defaultRPCClients,
			Bandwidth:          defaultRPCBandwidth,
		},

		Ledger: LedgerType{
			MarkerInterval: defaultMarkerInterval,
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    defaultLogLevels,
		},
	}

	if err := configuration.ParseConfigurationFile(configurationFileName, options); err != nil {
		return nil, err
	}

	// if any test mode and the database file was not specified
	// switch to appropriate default.  Abort if then chain name is
	// not recognised.
	options.Chain = strings.ToLower(options.Chain)
	if !chain.Valid(options.Chain) {
		return nil, fmt.Errorf("Chain: %q is not supported", options.Chain)
	}

	// if database was not changed from default
	if options.Database.Name == defaultDatapackerDatabase {
		switch options.Chain {
		case chain.Datapacker:
			// already correct default
		case chain.Testing:
			options.Database.Name = defaultTestingDatabase
		case chain.Local:
			options.Database.Name = defaultLocalDatabase
		default:
			return nil, fmt.Errorf("Chain: %s no default database setting", options.Chain)
		}
	}

	if _, err := options.Ledger.program(); nil != err {
		return nil, fmt.Errorf("Program: %q  error: %s", options.Ledger.Program, err)
	}
	if _, err := options.Ledger.markerInterval(); nil != err {
		return nil, fmt.Errorf("Marker interval: %q  error: %s", options.Ledger.MarkerInterval, err)
	}
	if 0 != options.Ledger.GenesisLamports {
		if _, err := account.AddressFromBase58(options.Ledger.GenesisAddress); nil != err {
			return nil, fmt.Errorf("Genesis address: %q  error: %s", options.Ledger.GenesisAddress, err)
		}
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("Path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	}
	options.DataDirectory = filepath.Clean(options.DataDirectory)

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("Path: %q is not a directory", options.DataDirectory)
	}

	// force all relevant items to be absolute paths
	// if not, assign them to the data directory
	mustBeAbsolute := []*string{
		&options.Database.Directory,
		&options.Logging.Directory,
	}
	for _, f := range mustBeAbsolute {
		*f = util.EnsureAbsolute(options.DataDirectory, *f)
	}

	// optional absolute paths i.e. blank or an absolute path
	optionalAbsolute := []*string{
		&options.PidFile,
	}
	for _, f := range optionalAbsolute {
		if "" != *f {
			*f = util.EnsureAbsolute(options.DataDirectory, *f)
		}
	}

	// fail if any of these are not simple file names i.e. must
	// not contain path seperator, then add the correct directory
	// prefix, file item is first and corresponding directory is
	// second (or nil if no prefix can be added)
	mustNotBePaths := [][2]*string{
		{&options.Database.Name, &options.Database.Directory},
		{&options.Logging.File, nil},
	}
	for _, f := range mustNotBePaths {
		switch filepath.Dir(*f[0]) {
		case "", ".":
			if nil != f[1] {
				*f[0] = util.EnsureAbsolute(*f[1], *f[0])
			}
		default:
			return nil, fmt.Errorf("Files: %q is not plain name", *f[0])
		}
	}

	// make absolute and create directories if they do not already exist
	for _, d := range []*string{
		&options.Database.Directory,
		&options.Logging.Directory,
	} {
		*d = util.EnsureAbsolute(options.DataDirectory, *d)
		if err := os.MkdirAll(*d, 0700); nil != err {
			return nil, err
		}
	}

	// done
	return options, nil
}

// the address the bucket program is registered at
func (l LedgerType) program() (account.Address, error) {
	if "" == l.Program {
		return account.Address{}, fault.MissingParameters
	}
	return account.AddressFromBase58(l.Program)
}

func (l LedgerType) markerInterval() (time.Duration, error) {
	d, err := time.ParseDuration(l.MarkerInterval)
	if nil != err {
		return 0, err
	}
	if d <= 0 {
		return 0, fault.InvalidMarkerInterval
	}
	return d, nil
}
