// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"github.com/bitmark-inc/datapacker/account"
	"github.com/bitmark-inc/datapacker/transactionrecord"
)

// Program - code that owns and mutates accounts
type Program interface {
	Process(ctx InvokeContext, program account.Address, accounts []*AccountInfo, data []byte) error
}

// InvokeContext - the host services available during one invocation
type InvokeContext interface {
	// current ledger marker
	Marker() uint64

	// rent parameters
	Rent() Rent

	// call another program; each seed list signs for the address it
	// derives under the calling program
	InvokeSigned(instruction transactionrecord.Instruction, seeds ...[][]byte) error

	// resize the data of an account owned by the calling program
	Realloc(info *AccountInfo, newLength int) error
}
