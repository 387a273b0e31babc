// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"encoding/binary"

	"github.com/bitmark-inc/datapacker/account"
	"github.com/bitmark-inc/datapacker/fault"
)

// stored as: lamports(8, big endian) ++ owner(32) ++ executable(1) ++ data
const accountHeaderLength = 8 + account.AddressLength + 1

// Account - the state of one ledger address
type Account struct {
	Lamports   uint64          `json:"lamports"`
	Owner      account.Address `json:"owner"`
	Executable bool            `json:"executable"`
	Data       []byte          `json:"data"`
}

// Pack - storage encoding
func (a *Account) Pack() []byte {
	buffer := make([]byte, accountHeaderLength, accountHeaderLength+len(a.Data))
	binary.BigEndian.PutUint64(buffer, a.Lamports)
	copy(buffer[8:], a.Owner[:])
	if a.Executable {
		buffer[8+account.AddressLength] = 1
	}
	return append(buffer, a.Data...)
}

// UnpackAccount - decode the storage encoding
func UnpackAccount(buffer []byte) (*Account, error) {
	if len(buffer) < accountHeaderLength {
		return nil, fault.InvalidAccountData
	}

	a := &Account{
		Lamports: binary.BigEndian.Uint64(buffer),
		Data:     make([]byte, len(buffer)-accountHeaderLength),
	}
	copy(a.Owner[:], buffer[8:])
	switch buffer[8+account.AddressLength] {
	case 0:
	case 1:
		a.Executable = true
	default:
		return nil, fault.InvalidAccountData
	}
	copy(a.Data, buffer[accountHeaderLength:])
	return a, nil
}

// clone - deep copy
func (a *Account) clone() *Account {
	data := make([]byte, len(a.Data))
	copy(data, a.Data)
	return &Account{
		Lamports:   a.Lamports,
		Owner:      a.Owner,
		Executable: a.Executable,
		Data:       data,
	}
}

// AccountInfo - an account as passed to a program
//
// several infos may share one Account when an address is repeated
type AccountInfo struct {
	Address    account.Address
	IsSigner   bool
	IsWritable bool
	*Account
}
