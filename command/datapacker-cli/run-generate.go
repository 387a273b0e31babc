// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/datapacker/keypair"
)

func runGenerate(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	rawKeyPair, _, err := keypair.MakeRawKeyPair(c.Bool("testnet"))
	if nil != err {
		return err
	}

	if output := c.String("output"); "" != output {
		err = keypair.Save(output, rawKeyPair.Seed)
		if nil != err {
			return err
		}
		if m.verbose {
			fmt.Fprintf(m.e, "saved: %q\n", output)
		}
	}

	return printJson(m.w, rawKeyPair)
}
