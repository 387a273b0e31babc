// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/urfave/cli"

	"github.com/bitmark-inc/datapacker/account"
	"github.com/bitmark-inc/datapacker/derive"
)

type addressReply struct {
	Program   account.Address `json:"program"`
	Authority account.Address `json:"authority"`
	Bucket    account.Address `json:"bucket"`
	Bump      byte            `json:"bump"`
}

func runAddress(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	program, err := checkProgram(c)
	if nil != err {
		return err
	}
	authority, err := checkAuthor(c)
	if nil != err {
		return err
	}

	bucket, bump, err := derive.BucketAddress(authority, program)
	if nil != err {
		return err
	}

	return printJson(m.w, addressReply{
		Program:   program,
		Authority: authority,
		Bucket:    bucket,
		Bump:      bump,
	})
}
