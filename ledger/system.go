// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"github.com/bitmark-inc/datapacker/account"
	"github.com/bitmark-inc/datapacker/fault"
	"github.com/bitmark-inc/datapacker/transactionrecord"
	"github.com/bitmark-inc/datapacker/util"
)

// system instruction codes, encoded as a Varint64 at the start of the
// instruction data
const (
	assignTag   = 1
	transferTag = 2
	allocateTag = 8
)

// the built-in program owning every plain account
type systemProgram struct{}

// SystemTransfer - move lamports from a system account
//
// accounts: from [signer, writable], to [writable]
func SystemTransfer(from account.Address, to account.Address, lamports uint64) transactionrecord.Instruction {
	data := util.ToVarint64(transferTag)
	data = util.AppendVarint64(data, lamports)
	return transactionrecord.Instruction{
		Program: account.SystemProgram,
		Accounts: []transactionrecord.AccountMeta{
			transactionrecord.WritableSigner(from),
			transactionrecord.Writable(to),
		},
		Data: data,
	}
}

// SystemAllocate - give an empty system account zeroed data
//
// accounts: address [signer, writable]
func SystemAllocate(address account.Address, space uint64) transactionrecord.Instruction {
	data := util.ToVarint64(allocateTag)
	data = util.AppendVarint64(data, space)
	return transactionrecord.Instruction{
		Program: account.SystemProgram,
		Accounts: []transactionrecord.AccountMeta{
			transactionrecord.WritableSigner(address),
		},
		Data: data,
	}
}

// SystemAssign - hand a system account to another program
//
// accounts: address [signer, writable]
func SystemAssign(address account.Address, owner account.Address) transactionrecord.Instruction {
	data := util.ToVarint64(assignTag)
	data = append(data, owner[:]...)
	return transactionrecord.Instruction{
		Program: account.SystemProgram,
		Accounts: []transactionrecord.AccountMeta{
			transactionrecord.WritableSigner(address),
		},
		Data: data,
	}
}

// Process - run one system instruction
func (systemProgram) Process(ctx InvokeContext, program account.Address, accounts []*AccountInfo, data []byte) error {
	tag, n := util.FromVarint64(data)
	if 0 == n {
		return fault.UnknownSystemInstruction
	}
	data = data[n:]

	switch tag {

	case transferTag:
		lamports, n := util.FromVarint64(data)
		if 0 == n || n != len(data) || len(accounts) < 2 {
			return fault.MalformedOperation
		}
		return systemTransfer(accounts[0], accounts[1], lamports)

	case allocateTag:
		space, n := util.FromVarint64(data)
		if 0 == n || n != len(data) || len(accounts) < 1 {
			return fault.MalformedOperation
		}
		return systemAllocate(accounts[0], space)

	case assignTag:
		if account.AddressLength != len(data) || len(accounts) < 1 {
			return fault.MalformedOperation
		}
		var owner account.Address
		copy(owner[:], data)
		return systemAssign(accounts[0], owner)

	default:
		return fault.UnknownSystemInstruction
	}
}

func systemTransfer(from *AccountInfo, to *AccountInfo, lamports uint64) error {
	if !from.IsSigner {
		return fault.MissingSignature
	}
	if 0 != len(from.Data) || from.Owner != account.SystemProgram {
		return fault.InvalidAccountData
	}
	if lamports > from.Lamports {
		return fault.InsufficientFunding
	}
	if to.Lamports+lamports < to.Lamports {
		return fault.InvalidAccountData
	}
	from.Lamports -= lamports
	to.Lamports += lamports
	return nil
}

func systemAllocate(info *AccountInfo, space uint64) error {
	if !info.IsSigner {
		return fault.MissingSignature
	}
	if 0 != len(info.Data) || info.Owner != account.SystemProgram {
		return fault.AccountAlreadyInUse
	}
	if space > MaxPermittedDataLength {
		return fault.DataTooLarge
	}
	info.Data = make([]byte, space)
	return nil
}

func systemAssign(info *AccountInfo, owner account.Address) error {
	if info.Owner == owner {
		return nil
	}
	if !info.IsSigner {
		return fault.MissingSignature
	}
	info.Owner = owner
	return nil
}
