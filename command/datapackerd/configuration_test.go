// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/datapacker/fault"
	"github.com/bitmark-inc/datapacker/fixtures"
	"github.com/bitmark-inc/datapacker/ledger"
	"github.com/bitmark-inc/datapacker/storage"
	"github.com/bitmark-inc/logger"
)

const testProgram = "4MuaPRioV1YFPXGWewRUw17zqnG1sbDNWnmYHqbUSsvF"

func writeConfiguration(t *testing.T, body string) string {
	fileName := filepath.Join(t.TempDir(), "datapackerd.conf")
	err := os.WriteFile(fileName, []byte("local M = {}\nM.data_directory = \".\"\n"+body+"\nreturn M\n"), 0600)
	if nil != err {
		t.Fatalf("write configuration error: %s", err)
	}
	return fileName
}

func TestGetConfigurationDefaults(t *testing.T) {
	fileName := writeConfiguration(t, `
M.chain = "Testing"
M.ledger = { program = "`+testProgram+`" }
`)

	options, err := getConfiguration(fileName)
	if nil != err {
		t.Fatalf("configuration error: %s", err)
	}

	dir := filepath.Dir(fileName)
	assert.Equal(t, dir, options.DataDirectory, "wrong data directory")
	assert.Equal(t, "testing", options.Chain, "chain not lower case")
	assert.Equal(t, filepath.Join(dir, "data", "testing.leveldb"), options.Database.Name, "wrong database")
	assert.Equal(t, filepath.Join(dir, "log"), options.Logging.Directory, "wrong log directory")
	assert.Equal(t, uint64(defaultRPCClients), options.ClientRPC.MaximumConnections, "wrong connections")
	assert.Equal(t, "", options.PidFile, "unexpected pid file")

	interval, err := options.Ledger.markerInterval()
	assert.Nil(t, err, "wrong interval")
	assert.Equal(t, 400*time.Millisecond, interval, "wrong default interval")

	program, err := options.Ledger.program()
	assert.Nil(t, err, "wrong program")
	assert.Equal(t, fixtures.Program, program, "wrong program address")

	info, err := os.Stat(filepath.Join(dir, "data"))
	assert.Nil(t, err, "database directory not created")
	assert.True(t, info.IsDir(), "database path not a directory")
}

func TestGetConfigurationErrors(t *testing.T) {
	program := `M.ledger = { program = "` + testProgram + `" }` + "\n"

	tests := []struct {
		name string
		body string
	}{
		{"bad chain", program + `M.chain = "bitcoin"`},
		{"no program", `M.chain = "local"`},
		{"bad program", `M.ledger = { program = "xyz" }`},
		{"bad interval", `M.ledger = { program = "` + testProgram + `", marker_interval = "soon" }`},
		{"negative interval", `M.ledger = { program = "` + testProgram + `", marker_interval = "-1s" }`},
		{"genesis without address", `M.ledger = { program = "` + testProgram + `", genesis_lamports = 100 }`},
		{"database path", program + `M.database = { name = "a/b.leveldb" }`},
		{"missing directory", program + `M.data_directory = "/nonexistent/datapacker"`},
	}

	for _, item := range tests {
		_, err := getConfiguration(writeConfiguration(t, item.body))
		assert.NotNil(t, err, item.name)
	}
}

func TestGenesis(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	err := fixtures.SetupTestStorage()
	if nil != err {
		t.Fatalf("storage setup error: %s", err)
	}
	defer fixtures.TeardownTestStorage()

	log := logger.New(fixtures.LogCategory)
	l, err := ledger.New(log, ledger.Handles{
		Accounts:   storage.Pool.Accounts,
		Signatures: storage.Pool.Signatures,
		Metadata:   storage.Pool.Metadata,
	}, ledger.DefaultOptions())
	if nil != err {
		t.Fatalf("ledger error: %s", err)
	}

	address := fixtures.Payer.Address()
	c := LedgerType{
		GenesisAddress:  address.String(),
		GenesisLamports: 1000000000,
	}

	err = genesis(log, l, &LedgerType{})
	assert.Nil(t, err, "genesis without lamports")
	_, err = l.Account(address)
	assert.Equal(t, fault.AccountNotFound, err, "funded without lamports")

	err = genesis(log, l, &c)
	assert.Nil(t, err, "wrong genesis")
	a, err := l.Account(address)
	assert.Nil(t, err, "genesis account missing")
	assert.Equal(t, uint64(1000000000), a.Lamports, "wrong genesis lamports")

	err = genesis(log, l, &c)
	assert.Nil(t, err, "repeat genesis")
	a, _ = l.Account(address)
	assert.Equal(t, uint64(1000000000), a.Lamports, "genesis funded twice")
}
