// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"os"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/datapacker/account"
	"github.com/bitmark-inc/datapacker/derive"
	"github.com/bitmark-inc/datapacker/layout"
	"github.com/bitmark-inc/datapacker/uploader"
)

type fetchReply struct {
	File     string          `json:"file"`
	Bucket   account.Address `json:"bucket"`
	Length   int             `json:"length"`
	Complete bool            `json:"complete"`
}

// bucketInfo - header summary for display
type bucketInfo struct {
	Bucket            account.Address  `json:"bucket"`
	Authority         *account.Address `json:"authority"`
	LastUpdatedMarker uint64           `json:"lastUpdatedMarker"`
	TotalLength       uint64           `json:"totalLength"`
	Length            int              `json:"length"`
	Complete          bool             `json:"complete"`
}

func fetchBucket(c *cli.Context, m *metadata) (account.Address, *layout.Bucket, error) {
	program, err := checkProgram(c)
	if nil != err {
		return account.Address{}, nil, err
	}
	authority, err := checkAuthor(c)
	if nil != err {
		return account.Address{}, nil, err
	}
	address, _, err := derive.BucketAddress(authority, program)
	if nil != err {
		return account.Address{}, nil, err
	}

	client, err := connect(c, m)
	if nil != err {
		return account.Address{}, nil, err
	}
	defer client.Close()

	bucket, err := uploader.Fetch(context.Background(), client, program, authority)
	if nil != err {
		return account.Address{}, nil, err
	}
	return address, bucket, nil
}

func runFetch(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	output := c.String("output")
	if "" == output {
		return ErrMissingOutput
	}

	address, bucket, err := fetchBucket(c, m)
	if nil != err {
		return err
	}
	if !bucket.IsComplete() {
		return ErrIncompleteBucket
	}

	err = os.WriteFile(output, bucket.Data, 0644)
	if nil != err {
		return err
	}

	return printJson(m.w, fetchReply{
		File:     output,
		Bucket:   address,
		Length:   len(bucket.Data),
		Complete: true,
	})
}

func runInfo(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	address, bucket, err := fetchBucket(c, m)
	if nil != err {
		return err
	}

	return printJson(m.w, bucketInfo{
		Bucket:            address,
		Authority:         bucket.Authority,
		LastUpdatedMarker: bucket.LastUpdatedMarker,
		TotalLength:       bucket.TotalLength,
		Length:            len(bucket.Data),
		Complete:          bucket.IsComplete(),
	})
}
