// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fixtures - shared test setup
package fixtures

import (
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bitmark-inc/datapacker/account"
	"github.com/bitmark-inc/datapacker/storage"
	"github.com/bitmark-inc/logger"
)

const (
	dir         = "testing"
	LogCategory = "testing"
)

// test identities
var (
	Authority *account.PrivateKey
	Payer     *account.PrivateKey
	Other     *account.PrivateKey

	// Program - address the bucket program is registered at in tests
	Program = account.Address(sha256.Sum256([]byte("datapacker")))
)

func init() {
	Authority = mustKey("9J877LVjhr3Xxd2nGzRVRVNUZpSKJF4TH")
	Payer = mustKey("9J876mP7wDJ6g5P41eNMN8N3jo9fycDs2")
	Other = mustKey("5XEECtzqJYokJbDkLzPMqNEF1Eo5qfGPqhbb4pGeuj2igeEMYraCcJ1")
}

func mustKey(seed string) *account.PrivateKey {
	k, err := account.PrivateKeyFromBase58Seed(seed)
	if nil != err {
		panic(fmt.Sprintf("fixture seed: %q  error: %s", seed, err))
	}
	return k
}

// SetupTestLogger - critical-only logging into the test directory
func SetupTestLogger() {
	removeFiles()
	_ = os.Mkdir(dir, 0700)

	logging := logger.Configuration{
		Directory: dir,
		File:      fmt.Sprintf("%s.log", LogCategory),
		Size:      1048576,
		Count:     10,
		Console:   false,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}

	// start logging
	_ = logger.Initialise(logging)
}

// TeardownTestLogger - stop logging and remove files
func TeardownTestLogger() {
	logger.Finalise()
	removeFiles()
}

// SetupTestStorage - logger plus an empty database in the test directory
func SetupTestStorage() error {
	SetupTestLogger()
	return storage.Initialise(filepath.Join(dir, "ledger"), storage.ReadWrite)
}

// TeardownTestStorage - close the database then the logger
func TeardownTestStorage() {
	storage.Finalise()
	TeardownTestLogger()
}

func removeFiles() {
	err := os.RemoveAll(dir)
	if nil != err {
		fmt.Println("remove dir with error: ", err)
	}
}
