// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli"
)

type metadata struct {
	verbose bool
	logging bool // start a file logger for commands that need one
	e       io.Writer
	w       io.Writer
}

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

const defaultConnect = "127.0.0.1:2130"

func main() {
	app := newApp(os.Stdout, os.Stderr, true)

	err := app.Run(os.Args)
	if nil != err {
		fmt.Fprintf(app.ErrWriter, "terminated with error: %s\n", err)
		os.Exit(1)
	}
}

func newApp(w io.Writer, e io.Writer, logging bool) *cli.App {

	app := cli.NewApp()
	app.Name = "datapacker-cli"
	app.Usage = "store files in ledger buckets"
	app.Version = version
	app.HideVersion = true

	app.Writer = w
	app.ErrWriter = e

	urlFlag := cli.StringFlag{
		Name:  "url, u",
		Value: defaultConnect,
		Usage: " datapackerd RPC `HOST:PORT`",
	}
	programFlag := cli.StringFlag{
		Name:  "program, P",
		Value: "",
		Usage: "*bucket program `ADDRESS`",
	}
	authorFlag := cli.StringFlag{
		Name:  "author, a",
		Value: "",
		Usage: "*author identity seed `FILE`",
	}

	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "verbose, v",
			Usage: " verbose result",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "generate",
			Usage:     "generate an identity seed file",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "output, o",
					Value: "",
					Usage: " write the seed to `FILE`, never overwritten",
				},
				cli.BoolFlag{
					Name:  "testnet, t",
					Usage: " generate a test network identity",
				},
			},
			Action: runGenerate,
		},
		{
			Name:      "address",
			Usage:     "display the bucket address of an author",
			ArgsUsage: "\n   (* = required, + = select one)",
			Flags: []cli.Flag{
				programFlag,
				authorFlag,
				cli.StringFlag{
					Name:  "public, p",
					Value: "",
					Usage: "+author `ADDRESS`",
				},
			},
			Action: runAddress,
		},
		{
			Name:      "airdrop",
			Usage:     "request lamports on a test chain",
			ArgsUsage: "\n   (* = required, + = select one)",
			Flags: []cli.Flag{
				urlFlag,
				cli.StringFlag{
					Name:  "identity, i",
					Value: "",
					Usage: "+identity seed `FILE` to credit",
				},
				cli.StringFlag{
					Name:  "address, A",
					Value: "",
					Usage: "+`ADDRESS` to credit",
				},
				cli.Uint64Flag{
					Name:  "lamports, l",
					Value: 0,
					Usage: "*`COUNT` of lamports",
				},
			},
			Action: runAirdrop,
		},
		{
			Name:      "upload",
			Usage:     "store each file in the author's bucket",
			ArgsUsage: "FILE...\n   (* = required)",
			Flags: []cli.Flag{
				urlFlag,
				programFlag,
				authorFlag,
				cli.StringFlag{
					Name:  "payer, p",
					Value: "",
					Usage: "*payer identity seed `FILE`",
				},
				cli.IntFlag{
					Name:  "pipeline, n",
					Value: 4,
					Usage: " signed chunks prepared ahead of confirmation `COUNT`",
				},
			},
			Action: runUpload,
		},
		{
			Name:      "fetch",
			Usage:     "write the data stored in a bucket to a file",
			ArgsUsage: "\n   (* = required, + = select one)",
			Flags: []cli.Flag{
				urlFlag,
				programFlag,
				authorFlag,
				cli.StringFlag{
					Name:  "public, p",
					Value: "",
					Usage: "+author `ADDRESS`",
				},
				cli.StringFlag{
					Name:  "output, o",
					Value: "",
					Usage: "*output `FILE`",
				},
			},
			Action: runFetch,
		},
		{
			Name:      "info",
			Usage:     "display a bucket header and completeness",
			ArgsUsage: "\n   (* = required, + = select one)",
			Flags: []cli.Flag{
				urlFlag,
				programFlag,
				authorFlag,
				cli.StringFlag{
					Name:  "public, p",
					Value: "",
					Usage: "+author `ADDRESS`",
				},
			},
			Action: runInfo,
		},
		{
			Name:      "status",
			Usage:     "display datapackerd status",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				urlFlag,
			},
			Action: runStatus,
		},
		{
			Name:      "version",
			Usage:     "display datapacker-cli version",
			ArgsUsage: "\n   (* = required)",
			Flags:     []cli.Flag{},
			Action: func(c *cli.Context) error {
				fmt.Fprintf(c.App.Writer, "%s\n", version)
				return nil
			},
		},
	}

	app.Before = func(c *cli.Context) error {
		app.Metadata = map[string]interface{}{
			"config": &metadata{
				verbose: c.GlobalBool("verbose"),
				logging: logging,
				e:       app.ErrWriter,
				w:       app.Writer,
			},
		}
		return nil
	}

	return app
}
