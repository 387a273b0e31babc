// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/datapacker/account"
	"github.com/bitmark-inc/datapacker/keypair"
)

func runAirdrop(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	lamports := c.Uint64("lamports")
	if 0 == lamports {
		return ErrMissingLamports
	}

	var address account.Address
	if file := c.String("identity"); "" != file {
		key, err := keypair.Load(file)
		if nil != err {
			return err
		}
		address = key.Address()
	} else if s := c.String("address"); "" != s {
		a, err := account.AddressFromBase58(s)
		if nil != err {
			return err
		}
		address = a
	} else {
		return ErrMissingAuthor
	}

	client, err := connect(c, m)
	if nil != err {
		return err
	}
	defer client.Close()

	reply, err := client.Airdrop(context.Background(), address, lamports)
	if nil != err {
		return err
	}

	return printJson(m.w, reply)
}
