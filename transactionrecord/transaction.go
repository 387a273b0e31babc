// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transactionrecord

import (
	"github.com/bitmark-inc/datapacker/account"
)

// MaxPackedLength - largest packed transaction the ledger accepts
const MaxPackedLength = 1232

// field limits applied while unpacking
const (
	maxSignatures   = MaxPackedLength / account.SignatureLength
	maxInstructions = 64
	maxAccounts     = 64
)

// account flag bits
const (
	signerFlag   = 0x01
	writableFlag = 0x02
	validFlags   = signerFlag | writableFlag
)

// Packed - packed records are just a byte slice
type Packed []byte

// AccountMeta - an account reference inside an instruction
type AccountMeta struct {
	Address    account.Address `json:"address"`
	IsSigner   bool            `json:"isSigner"`
	IsWritable bool            `json:"isWritable"`
}

// Instruction - one program invocation
type Instruction struct {
	Program  account.Address `json:"program"`
	Accounts []AccountMeta   `json:"accounts"`
	Data     []byte          `json:"data"`
}

// Message - the signed part of a transaction
type Message struct {
	RecentMarker uint64        `json:"recentMarker"`
	Instructions []Instruction `json:"instructions"`
}

// Transaction - a message with one signature per signer
type Transaction struct {
	Signatures []account.Signature `json:"signatures"`
	Message    Message             `json:"message"`
}

// Signer - read-only signer reference
func Signer(address account.Address) AccountMeta {
	return AccountMeta{Address: address, IsSigner: true}
}

// WritableSigner - writable signer reference
func WritableSigner(address account.Address) AccountMeta {
	return AccountMeta{Address: address, IsSigner: true, IsWritable: true}
}

// Writable - writable non-signer reference
func Writable(address account.Address) AccountMeta {
	return AccountMeta{Address: address, IsWritable: true}
}

// ReadOnly - read-only non-signer reference
func ReadOnly(address account.Address) AccountMeta {
	return AccountMeta{Address: address}
}

// Signers - writable signers then read-only signers, each in order of
// first appearance
//
// the first signer pays the fee
func (message *Message) Signers() []account.Address {
	writable := make(map[account.Address]bool)
	order := make([]account.Address, 0, 2)
	for _, instruction := range message.Instructions {
		for _, meta := range instruction.Accounts {
			if !meta.IsSigner {
				continue
			}
			w, seen := writable[meta.Address]
			if !seen {
				order = append(order, meta.Address)
			}
			writable[meta.Address] = w || meta.IsWritable
		}
	}

	signers := make([]account.Address, 0, len(order))
	for _, address := range order {
		if writable[address] {
			signers = append(signers, address)
		}
	}
	for _, address := range order {
		if !writable[address] {
			signers = append(signers, address)
		}
	}
	return signers
}

// Id - the first signature identifies the transaction
func (transaction *Transaction) Id() account.Signature {
	if 0 == len(transaction.Signatures) {
		return nil
	}
	return transaction.Signatures[0]
}
