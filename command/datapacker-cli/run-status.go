// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/datapacker/rpc/node"
)

type statusReply struct {
	Connection string `json:"_connection"`
	*node.InfoReply
}

func runStatus(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	client, err := connect(c, m)
	if nil != err {
		return err
	}
	defer client.Close()

	reply, err := client.Info(context.Background())
	if nil != err {
		return err
	}

	return printJson(m.w, statusReply{
		Connection: c.String("url"),
		InfoReply:  reply,
	})
}
