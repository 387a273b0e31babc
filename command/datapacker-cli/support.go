// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/datapacker/account"
	"github.com/bitmark-inc/datapacker/command/datapacker-cli/rpccalls"
	"github.com/bitmark-inc/datapacker/keypair"
	"github.com/bitmark-inc/logger"
)

func checkProgram(c *cli.Context) (account.Address, error) {
	program := c.String("program")
	if "" == program {
		return account.Address{}, ErrMissingProgram
	}
	return account.AddressFromBase58(program)
}

// author from a seed file or a plain address
func checkAuthor(c *cli.Context) (account.Address, error) {
	if file := c.String("author"); "" != file {
		key, err := keypair.Load(file)
		if nil != err {
			return account.Address{}, err
		}
		return key.Address(), nil
	}

	if public := c.String("public"); "" != public {
		return account.AddressFromBase58(public)
	}

	return account.Address{}, ErrMissingAuthor
}

func connect(c *cli.Context, m *metadata) (*rpccalls.Client, error) {
	return rpccalls.NewClient(c.String("url"), m.verbose, m.e)
}

// log to a file in the temporary directory, console only when verbose
func startLogging(m *metadata) error {
	level := "critical"
	if m.verbose {
		level = "info"
	}
	return logger.Initialise(logger.Configuration{
		Directory: os.TempDir(),
		File:      filepath.Base(os.Args[0]) + ".log",
		Size:      1048576,
		Count:     2,
		Console:   m.verbose,
		Levels: map[string]string{
			logger.DefaultTag: level,
		},
	})
}
