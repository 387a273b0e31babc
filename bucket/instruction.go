// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bucket

import (
	"github.com/bitmark-inc/datapacker/account"
	"github.com/bitmark-inc/datapacker/bucketrecord"
	"github.com/bitmark-inc/datapacker/derive"
	"github.com/bitmark-inc/datapacker/transactionrecord"
)

// NewInstruction - wrap a bucket operation for submission
//
// accounts: authority [signer], payer [signer, writable],
// bucket [writable], system program
func NewInstruction(program account.Address, authority account.Address, payer account.Address, operation bucketrecord.Operation) (transactionrecord.Instruction, error) {
	packed, err := operation.Pack()
	if nil != err {
		return transactionrecord.Instruction{}, err
	}

	address, _, err := derive.BucketAddress(authority, program)
	if nil != err {
		return transactionrecord.Instruction{}, err
	}

	return transactionrecord.Instruction{
		Program: program,
		Accounts: []transactionrecord.AccountMeta{
			transactionrecord.Signer(authority),
			transactionrecord.WritableSigner(payer),
			transactionrecord.Writable(address),
			transactionrecord.ReadOnly(account.SystemProgram),
		},
		Data: packed,
	}, nil
}
