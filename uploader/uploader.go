// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package uploader

import (
	"bytes"
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/bitmark-inc/datapacker/account"
	"github.com/bitmark-inc/datapacker/bucket"
	"github.com/bitmark-inc/datapacker/bucketrecord"
	"github.com/bitmark-inc/datapacker/derive"
	"github.com/bitmark-inc/datapacker/fault"
	"github.com/bitmark-inc/datapacker/layout"
	"github.com/bitmark-inc/datapacker/ledger"
	"github.com/bitmark-inc/datapacker/transactionrecord"
	"github.com/bitmark-inc/logger"
)

// defaults
const (
	DefaultPipeline = 4
	DefaultRetries  = 2
)

// Options - upload tuning
type Options struct {
	Pipeline    int // transactions signed ahead of confirmation
	Retries     int // resubmissions after a transport failure
	ChunkLength int
}

// DefaultOptions - full size chunks, four in flight, two retries
func DefaultOptions() Options {
	return Options{
		Pipeline:    DefaultPipeline,
		Retries:     DefaultRetries,
		ChunkLength: bucketrecord.MaxChunkLength,
	}
}

// Uploader - writes blobs into buckets through a client
type Uploader struct {
	log     *logger.L
	client  Client
	options Options
}

// one signed transaction and the data length it brings the bucket to
type pending struct {
	packed []byte
	end    int
}

// New - create an uploader
func New(log *logger.L, client Client, options Options) *Uploader {
	if options.Pipeline <= 0 {
		options.Pipeline = DefaultPipeline
	}
	if options.Retries < 0 {
		options.Retries = 0
	}
	if options.ChunkLength <= 0 || options.ChunkLength > bucketrecord.MaxChunkLength {
		options.ChunkLength = bucketrecord.MaxChunkLength
	}
	return &Uploader{
		log:     log,
		client:  client,
		options: options,
	}
}

// Split - cut blob into ordered chunks of at most size bytes
//
// an empty blob is one empty chunk
func Split(blob []byte, size int) [][]byte {
	if size <= 0 {
		size = bucketrecord.MaxChunkLength
	}
	if 0 == len(blob) {
		return [][]byte{{}}
	}
	chunks := make([][]byte, 0, (len(blob)+size-1)/size)
	for start := 0; start < len(blob); start += size {
		end := start + size
		if end > len(blob) {
			end = len(blob)
		}
		chunks = append(chunks, blob[start:end])
	}
	return chunks
}

// Upload - store blob in the bucket of authority, paid for by payer
//
// an existing bucket holding a prefix of the same blob is completed
// rather than recreated
func (u *Uploader) Upload(ctx context.Context, program account.Address, authority *account.PrivateKey, payer *account.PrivateKey, blob []byte) (account.Address, error) {
	address, bump, err := derive.BucketAddress(authority.Address(), program)
	if nil != err {
		return address, err
	}

	u.log.Infof("bucket: %s  length: %d", address, len(blob))

	offset, found, err := u.existing(ctx, program, address, authority.Address(), blob)
	if nil != err {
		return address, err
	}

	if !found {
		chunk := Split(blob, u.options.ChunkLength)[0]
		create := &bucketrecord.CreateBucket{
			Data:        chunk,
			TotalLength: uint64(len(blob)),
			Bump:        bump,
		}
		p, err := u.build(ctx, program, authority, payer, create, len(chunk))
		if nil != err {
			return address, err
		}

		err = u.submit(ctx, program, address, authority.Address(), blob, p)
		if fault.BucketAlreadyExists == err {
			u.log.Info("bucket already exists, checking for resume")
			offset, found, err = u.existing(ctx, program, address, authority.Address(), blob)
			if nil == err && !found {
				err = fault.BucketAlreadyExists
			}
		} else {
			offset = len(chunk)
		}
		if nil != err {
			return address, err
		}
	} else {
		u.log.Infof("resume bucket: %s  from: %d", address, offset)
	}

	if offset >= len(blob) {
		return address, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	queue := make(chan *pending, u.options.Pipeline)

	// sign ahead
	g.Go(func() error {
		defer close(queue)
		start := offset
		for _, chunk := range Split(blob[offset:], u.options.ChunkLength) {
			operation := &bucketrecord.AppendIntoBucket{
				Offset: uint64(start),
				Data:   chunk,
			}
			start += len(chunk)
			p, err := u.build(ctx, program, authority, payer, operation, start)
			if nil != err {
				return err
			}
			select {
			case queue <- p:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	// confirm strictly in order
	g.Go(func() error {
		for p := range queue {
			if nil != ctx.Err() {
				return ctx.Err()
			}
			err := u.submit(ctx, program, address, authority.Address(), blob, p)
			if nil != err {
				return err
			}
		}
		return nil
	})

	err = g.Wait()
	if nil != err {
		u.log.Errorf("bucket: %s  upload error: %s", address, err)
		return address, err
	}

	u.log.Infof("bucket: %s  upload complete", address)
	return address, nil
}

// sign one operation against a recent marker
func (u *Uploader) build(ctx context.Context, program account.Address, authority *account.PrivateKey, payer *account.PrivateKey, operation bucketrecord.Operation, end int) (*pending, error) {
	instruction, err := bucket.NewInstruction(program, authority.Address(), payer.Address(), operation)
	if nil != err {
		return nil, err
	}

	marker, err := u.client.Marker(ctx)
	if nil != err {
		return nil, err
	}

	message := &transactionrecord.Message{
		RecentMarker: marker,
		Instructions: []transactionrecord.Instruction{instruction},
	}
	transaction, err := transactionrecord.Sign(message, authority, payer)
	if nil != err {
		return nil, err
	}
	packed, err := transaction.Pack()
	if nil != err {
		return nil, err
	}
	return &pending{
		packed: packed,
		end:    end,
	}, nil
}

// submit with bounded retry, a chunk the bucket already covers counts
// as confirmed
func (u *Uploader) submit(ctx context.Context, program account.Address, address account.Address, authority account.Address, blob []byte, p *pending) error {
	for attempt := 0; ; attempt += 1 {
		confirmation, err := u.client.Submit(ctx, p.packed)
		if nil == err {
			u.log.Debugf("bucket: %s  length: %d  confirmed at marker: %d", address, p.end, confirmation.Marker)
			return nil
		}
		// an earlier attempt that timed out had landed
		if attempt > 0 && fault.DuplicateTransaction == err {
			u.log.Infof("bucket: %s  length: %d  stored by an earlier attempt", address, p.end)
			return nil
		}
		if fault.TransportFailure != err || attempt >= u.options.Retries {
			return err
		}
		u.log.Warnf("bucket: %s  attempt: %d  error: %s", address, attempt+1, err)

		offset, found, err := u.existing(ctx, program, address, authority, blob)
		if nil == err && found && offset >= p.end {
			u.log.Infof("bucket: %s  length: %d  already stored", address, offset)
			return nil
		}
	}
}

// existing - the resume offset of a bucket already holding a prefix
// of blob
func (u *Uploader) existing(ctx context.Context, program account.Address, address account.Address, authority account.Address, blob []byte) (int, bool, error) {
	a, err := u.client.Account(ctx, address)
	if fault.AccountNotFound == err {
		return 0, false, nil
	}
	if nil != err {
		return 0, false, err
	}

	// funded but not yet created
	if account.SystemProgram == a.Owner && 0 == len(a.Data) {
		return 0, false, nil
	}

	offset, err := resumeOffset(a, program, authority, blob)
	if nil != err {
		return 0, false, err
	}
	return offset, true, nil
}

func resumeOffset(a *ledger.Account, program account.Address, authority account.Address, blob []byte) (int, error) {
	if a.Owner != program {
		return 0, fault.BucketAlreadyExists
	}
	b, err := layout.Unpack(a.Data)
	if nil != err {
		return 0, fault.BucketAlreadyExists
	}
	if nil == b.Authority || *b.Authority != authority {
		return 0, fault.BucketAlreadyExists
	}
	if b.TotalLength != uint64(len(blob)) || len(b.Data) > len(blob) {
		return 0, fault.BucketAlreadyExists
	}
	if !bytes.Equal(b.Data, blob[:len(b.Data)]) {
		return 0, fault.BucketAlreadyExists
	}
	return len(b.Data), nil
}

// Fetch - read back the bucket of authority
func Fetch(ctx context.Context, client Client, program account.Address, authority account.Address) (*layout.Bucket, error) {
	address, _, err := derive.BucketAddress(authority, program)
	if nil != err {
		return nil, err
	}
	a, err := client.Account(ctx, address)
	if fault.AccountNotFound == err {
		return nil, fault.BucketNotInitialised
	}
	if nil != err {
		return nil, err
	}
	if a.Owner != program {
		return nil, fault.BucketNotInitialised
	}
	return layout.Unpack(a.Data)
}
