// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli"

	"github.com/bitmark-inc/datapacker/account"
	"github.com/bitmark-inc/datapacker/keypair"
	"github.com/bitmark-inc/datapacker/uploader"
	"github.com/bitmark-inc/logger"
)

type uploadReply struct {
	File   string          `json:"file"`
	Bucket account.Address `json:"bucket"`
	Length int             `json:"length"`
}

// one Upload per file, all into the author's single bucket address
//
// a second file is only accepted when it repeats the first, so
// distinct files need distinct authors
func runUpload(c *cli.Context) error {

	m := c.App.Metadata["config"].(*metadata)

	program, err := checkProgram(c)
	if nil != err {
		return err
	}

	authorFile := c.String("author")
	if "" == authorFile {
		return ErrMissingAuthor
	}
	authority, err := keypair.Load(authorFile)
	if nil != err {
		return err
	}

	payerFile := c.String("payer")
	if "" == payerFile {
		return ErrMissingPayer
	}
	payer, err := keypair.Load(payerFile)
	if nil != err {
		return err
	}

	files := c.Args()
	if 0 == len(files) {
		return ErrMissingFiles
	}

	if m.logging {
		err = startLogging(m)
		if nil != err {
			return err
		}
		defer logger.Finalise()
	}

	client, err := connect(c, m)
	if nil != err {
		return err
	}
	defer client.Close()

	options := uploader.DefaultOptions()
	options.Pipeline = c.Int("pipeline")
	u := uploader.New(logger.New("uploader"), client, options)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for _, file := range files {
		blob, err := os.ReadFile(file)
		if nil != err {
			return err
		}

		if m.verbose {
			fmt.Fprintf(m.e, "upload: %q  length: %d\n", file, len(blob))
		}

		bucket, err := u.Upload(ctx, program, authority, payer, blob)
		if nil != err {
			return fmt.Errorf("%s: %w", file, err)
		}

		err = printJson(m.w, uploadReply{
			File:   file,
			Bucket: bucket,
			Length: len(blob),
		})
		if nil != err {
			return err
		}
	}
	return nil
}
