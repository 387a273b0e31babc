// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bitmark-inc/datapacker/account"
	"github.com/bitmark-inc/datapacker/keypair"
	"github.com/bitmark-inc/datapacker/layout"
	"github.com/bitmark-inc/datapacker/ledger"
	"github.com/bitmark-inc/exitwithstatus"
)

const (
	rpcCertificateKeyFilename = "rpc.crt"
	rpcPrivateKeyFilename     = "rpc.key"

	identityFilename = "genesis.seed"
)

// setup command handler
//
// commands that run to create key and certificate files these
// commands cannot access any internal database or states or the
// configuration file
func processSetupCommand(program string, arguments []string) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {
	case "gen-rpc-cert", "rpc":
		certificateFilename := getFilenameWithDirectory(arguments, rpcCertificateKeyFilename)
		privateKeyFilename := getFilenameWithDirectory(arguments, rpcPrivateKeyFilename)

		addresses := []string{}
		if len(arguments) >= 2 {
			for _, a := range arguments[1:] {
				if "" != a {
					addresses = append(addresses, a)
				}
			}
		}

		err := makeSelfSignedCertificate("rpc", certificateFilename, privateKeyFilename, 0 != len(addresses), addresses)
		if nil != err {
			fmt.Printf("generate RPC key: %q and certificate: %q error: %s\n", privateKeyFilename, certificateFilename, err)
			exitwithstatus.Exit(1)
		}
		fmt.Printf("generated RPC key: %q and certificate: %q\n", privateKeyFilename, certificateFilename)

	case "gen-identity", "identity":
		filename := getFilenameWithDirectory(arguments, identityFilename)

		raw, _, err := keypair.MakeRawKeyPair(false)
		if nil != err {
			fmt.Printf("generate identity: %q error: %s\n", filename, err)
			exitwithstatus.Exit(1)
		}
		err = keypair.Save(filename, raw.Seed)
		if nil != err {
			fmt.Printf("generate identity: %q error: %s\n", filename, err)
			exitwithstatus.Exit(1)
		}
		fmt.Printf("generated identity: %q  address: %s\n", filename, raw.Address)

	case "start", "run":
		return false // continue processing

	case "config-test", "cfg":
		return false

	case "account", "a", "bucket", "b":
		return false // defer processing until database is loaded

	case "version", "v":
		fmt.Printf("%s\n", version)
		return true

	default:
		switch command {
		case "help", "h", "?":
		case "", " ":
			fmt.Printf("error: missing command\n")
		default:
			fmt.Printf("error: no such command: %q\n", command)
		}
		fmt.Printf("usage: %s [--help] [--verbose] [--quiet] --config-file=FILE [[command|help] arguments...]\n", program)

		fmt.Printf("supported commands:\n\n")
		fmt.Printf("  help                       (h)      - display this message\n\n")
		fmt.Printf("  version                    (v)      - display version sting\n\n")

		fmt.Printf("  gen-rpc-cert [DIR]         (rpc)    - create private key in:  %q\n", "DIR/"+rpcPrivateKeyFilename)
		fmt.Printf("                                        and the certificate in: %q\n", "DIR/"+rpcCertificateKeyFilename)
		fmt.Printf("\n")

		fmt.Printf("  gen-rpc-cert [DIR] [IPs...]         - create private key in:  %q\n", "DIR/"+rpcPrivateKeyFilename)
		fmt.Printf("                                        and the certificate in: %q\n", "DIR/"+rpcCertificateKeyFilename)
		fmt.Printf("\n")

		fmt.Printf("  gen-identity [DIR]         (identity) - create a seed file in: %q\n", "DIR/"+identityFilename)
		fmt.Printf("\n")

		fmt.Printf("  start                      (run)    - just run the program, same as no arguments\n")
		fmt.Printf("                                        for convienience when passing script arguments\n")
		fmt.Printf("\n")

		fmt.Printf("  config-test                (cfg)    - just check the configuration file\n")
		fmt.Printf("\n")

		fmt.Printf("  account ADDRESS            (a)      - display a stored account as JSON\n")
		fmt.Printf("\n")

		fmt.Printf("  bucket ADDRESS             (b)      - display a stored bucket header as JSON\n")
		fmt.Printf("\n")

		exitwithstatus.Exit(1)
	}

	// indicate processing complete and preform normal exit from main
	return true
}

// configuration file enquiry commands
// have configuration file read and decoded, but nothing else
func processConfigCommand(arguments []string, options *Configuration) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
	}

	switch command {
	case "config-test", "cfg":
		b, err := json.MarshalIndent(options, "", "  ")
		if err != nil {
			exitwithstatus.Message("error: %s", err)
		}
		fmt.Printf("%s\n", b)

	default: // unknown commands fall through to data command
		return false
	}

	// indicate processing complete and perform normal exit from main
	return true
}

// data command handler
// the ledger is loaded so these commands can read stored accounts
func processDataCommand(arguments []string, l *ledger.Ledger) bool {

	command := "help"
	if len(arguments) > 0 {
		command = arguments[0]
		arguments = arguments[1:]
	}

	switch command {

	case "start", "run":
		return false // continue processing

	case "account", "a":
		a := getAccount(arguments, l)
		printJson(a)

	case "bucket", "b":
		a := getAccount(arguments, l)
		header, err := layout.UnpackHeader(a.Data)
		if nil != err {
			exitwithstatus.Message("bucket error: %s", err)
		}
		type bucketInfo struct {
			*layout.Header
			Lamports   uint64 `json:"lamports"`
			DataLength int    `json:"dataLength"`
		}
		printJson(bucketInfo{
			Header:     header,
			Lamports:   a.Lamports,
			DataLength: layout.DataLength(a.Data),
		})

	default:
		exitwithstatus.Message("error: no such command: %s", command)

	}

	// indicate processing complete and perform normal exit from main
	return true
}

func getAccount(arguments []string, l *ledger.Ledger) *ledger.Account {
	if len(arguments) < 1 {
		exitwithstatus.Message("missing address argument")
	}
	address, err := account.AddressFromBase58(arguments[0])
	if nil != err {
		exitwithstatus.Message("address: %q  error: %s", arguments[0], err)
	}
	a, err := l.Account(address)
	if nil != err {
		exitwithstatus.Message("address: %s  error: %s", address, err)
	}
	return a
}

func printJson(item interface{}) {
	b, err := json.MarshalIndent(item, "", "  ")
	if nil != err {
		exitwithstatus.Message("JSON error: %s", err)
	}
	_, _ = os.Stdout.Write(append(b, '\n'))
}

// get the working directory; if not set in the arguments
// it's set to the current directory
func getFilenameWithDirectory(arguments []string, name string) string {
	dir := "."
	if len(arguments) >= 1 {
		dir = arguments[0]
	}

	return filepath.Join(dir, name)
}
