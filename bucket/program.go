// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bucket

import (
	"github.com/bitmark-inc/datapacker/account"
	"github.com/bitmark-inc/datapacker/bucketrecord"
	"github.com/bitmark-inc/datapacker/derive"
	"github.com/bitmark-inc/datapacker/fault"
	"github.com/bitmark-inc/datapacker/layout"
	"github.com/bitmark-inc/datapacker/ledger"
	"github.com/bitmark-inc/logger"
)

// account positions in every bucket instruction
const (
	authorityIndex = iota
	payerIndex
	bucketIndex
	systemIndex

	accountCount = iota
)

// Program - the on-ledger bucket state machine
type Program struct {
	log *logger.L
}

// New - create the program
func New(log *logger.L) *Program {
	return &Program{
		log: log,
	}
}

// Process - decode and run one bucket operation
func (p *Program) Process(ctx ledger.InvokeContext, program account.Address, accounts []*ledger.AccountInfo, data []byte) error {
	if len(accounts) < accountCount {
		p.log.Warnf("accounts: %d  expected: %d", len(accounts), accountCount)
		return fault.MalformedOperation
	}
	if accounts[systemIndex].Address != account.SystemProgram {
		p.log.Warnf("system program: %s", accounts[systemIndex].Address)
		return fault.ProgramNotFound
	}

	authority := accounts[authorityIndex]
	payer := accounts[payerIndex]
	if !authority.IsSigner || !payer.IsSigner {
		p.log.Warn("authority and payer must sign")
		return fault.MissingSignature
	}

	operation, err := bucketrecord.Decode(data)
	if nil != err {
		return err
	}

	switch op := operation.(type) {
	case *bucketrecord.CreateBucket:
		return p.create(ctx, program, accounts, op)
	case *bucketrecord.AppendIntoBucket:
		return p.appendInto(ctx, program, accounts, op)
	default:
		return fault.UnknownOperation
	}
}

// Unallocated → Created
func (p *Program) create(ctx ledger.InvokeContext, program account.Address, accounts []*ledger.AccountInfo, op *bucketrecord.CreateBucket) error {
	authority := accounts[authorityIndex]
	payer := accounts[payerIndex]
	bucket := accounts[bucketIndex]

	err := derive.CheckBucketAddress(bucket.Address, authority.Address, op.Bump, program)
	if nil != err {
		p.log.Warnf("bucket: %s  authority: %s  bump: %d  error: %s", bucket.Address, authority.Address, op.Bump, err)
		return err
	}

	if 0 != len(bucket.Data) || bucket.Owner != account.SystemProgram {
		p.log.Warnf("bucket: %s  already exists", bucket.Address)
		return fault.BucketAlreadyExists
	}

	seeds := derive.BucketSeeds(authority.Address, op.Bump)
	size := layout.Size(len(op.Data))

	err = p.fund(ctx, payer, bucket, size, seeds)
	if nil != err {
		return err
	}

	err = ctx.InvokeSigned(ledger.SystemAllocate(bucket.Address, uint64(size)), seeds)
	if nil != err {
		return err
	}
	err = ctx.InvokeSigned(ledger.SystemAssign(bucket.Address, program), seeds)
	if nil != err {
		return err
	}

	owner := authority.Address
	header := layout.Header{
		LastUpdatedMarker: ctx.Marker(),
		Authority:         &owner,
		TotalLength:       op.TotalLength,
	}
	err = header.Write(bucket.Data)
	if nil != err {
		return err
	}
	copy(bucket.Data[layout.HeaderLength:], op.Data)

	p.log.Infof("created bucket: %s  length: %d  total: %d", bucket.Address, len(op.Data), op.TotalLength)
	return nil
}

// Created/Appending → Appending
func (p *Program) appendInto(ctx ledger.InvokeContext, program account.Address, accounts []*ledger.AccountInfo, op *bucketrecord.AppendIntoBucket) error {
	authority := accounts[authorityIndex]
	payer := accounts[payerIndex]
	bucket := accounts[bucketIndex]

	expected, bump, err := derive.BucketAddress(authority.Address, program)
	if nil != err {
		return err
	}
	if expected != bucket.Address {
		p.log.Warnf("bucket: %s  expected: %s", bucket.Address, expected)
		return fault.AddressMismatch
	}

	if bucket.Owner != program {
		p.log.Warnf("bucket: %s  owner: %s", bucket.Address, bucket.Owner)
		return fault.BucketNotInitialised
	}
	header, err := layout.UnpackHeader(bucket.Data)
	if nil != err {
		p.log.Warnf("bucket: %s  header error: %s", bucket.Address, err)
		return fault.BucketNotInitialised
	}
	if nil == header.Authority || *header.Authority != authority.Address {
		p.log.Warnf("bucket: %s  authority: %s  is not the owner", bucket.Address, authority.Address)
		return fault.AddressMismatch
	}

	current := uint64(layout.DataLength(bucket.Data))
	if op.Offset != current {
		p.log.Warnf("bucket: %s  offset: %d  length: %d", bucket.Address, op.Offset, current)
		return fault.OffsetMismatch
	}
	if current+uint64(len(op.Data)) > header.TotalLength {
		p.log.Warnf("bucket: %s  append: %d  exceeds total: %d", bucket.Address, len(op.Data), header.TotalLength)
		return fault.BucketOverflow
	}

	size := len(bucket.Data) + len(op.Data)
	err = ctx.Realloc(bucket, size)
	if nil != err {
		return err
	}

	err = p.fund(ctx, payer, bucket, size, derive.BucketSeeds(authority.Address, bump))
	if nil != err {
		return err
	}

	copy(bucket.Data[layout.HeaderLength+int(current):], op.Data)
	header.LastUpdatedMarker = ctx.Marker()
	err = header.Write(bucket.Data)
	if nil != err {
		return err
	}

	p.log.Debugf("appended bucket: %s  offset: %d  length: %d", bucket.Address, op.Offset, len(op.Data))
	return nil
}

// transfer from payer whatever the bucket lacks to be rent exempt at size
func (p *Program) fund(ctx ledger.InvokeContext, payer *ledger.AccountInfo, bucket *ledger.AccountInfo, size int, seeds [][]byte) error {
	required := ctx.Rent().MinimumBalance(size)
	if 0 == required {
		required = 1
	}
	if bucket.Lamports >= required {
		return nil
	}
	shortfall := required - bucket.Lamports
	if payer.Lamports < shortfall {
		p.log.Warnf("payer: %s  balance: %d  required: %d", payer.Address, payer.Lamports, shortfall)
		return fault.InsufficientFunding
	}
	return ctx.InvokeSigned(ledger.SystemTransfer(payer.Address, bucket.Address, shortfall), seeds)
}
