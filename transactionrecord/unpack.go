// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transactionrecord

import (
	"github.com/bitmark-inc/datapacker/account"
	"github.com/bitmark-inc/datapacker/fault"
	"github.com/bitmark-inc/datapacker/util"
)

// Unpack - turn a byte slice into a transaction
//
// the whole record must be consumed
func (record Packed) Unpack() (t *Transaction, e error) {

	defer func() {
		if r := recover(); nil != r {
			t = nil
			e = fault.MalformedTransaction
		}
	}()

	if len(record) > MaxPackedLength {
		return nil, fault.MessageTooLarge
	}

	signatureCount, n := util.ClippedVarint64(record, 0, maxSignatures)
	if 0 == n {
		return nil, fault.MalformedTransaction
	}

	signatures := make([]account.Signature, signatureCount)
	for i := range signatures {
		if n+account.SignatureLength > len(record) {
			return nil, fault.MalformedTransaction
		}
		signature := make(account.Signature, account.SignatureLength)
		copy(signature, record[n:])
		signatures[i] = signature
		n += account.SignatureLength
	}

	message, messageLength, err := unpackMessage(record[n:])
	if nil != err {
		return nil, err
	}
	n += messageLength

	if n != len(record) {
		return nil, fault.MalformedTransaction
	}

	return &Transaction{
		Signatures: signatures,
		Message:    *message,
	}, nil
}

func unpackMessage(record []byte) (*Message, int, error) {
	marker, n := util.FromVarint64(record)
	if 0 == n {
		return nil, 0, fault.MalformedTransaction
	}

	instructionCount, count := util.ClippedVarint64(record[n:], 1, maxInstructions)
	if 0 == count {
		return nil, 0, fault.MalformedTransaction
	}
	n += count

	instructions := make([]Instruction, instructionCount)
	for i := range instructions {
		length, err := unpackInstruction(record[n:], &instructions[i])
		if nil != err {
			return nil, 0, err
		}
		n += length
	}

	return &Message{
		RecentMarker: marker,
		Instructions: instructions,
	}, n, nil
}

func unpackInstruction(record []byte, instruction *Instruction) (int, error) {
	if len(record) < account.AddressLength {
		return 0, fault.MalformedTransaction
	}
	copy(instruction.Program[:], record)
	n := account.AddressLength

	accountCount, count := util.ClippedVarint64(record[n:], 0, maxAccounts)
	if 0 == count {
		return 0, fault.MalformedTransaction
	}
	n += count

	instruction.Accounts = make([]AccountMeta, accountCount)
	for i := range instruction.Accounts {
		if n+account.AddressLength+1 > len(record) {
			return 0, fault.MalformedTransaction
		}
		meta := &instruction.Accounts[i]
		copy(meta.Address[:], record[n:])
		n += account.AddressLength

		flags := record[n]
		if 0 != flags&^validFlags {
			return 0, fault.MalformedTransaction
		}
		meta.IsSigner = 0 != flags&signerFlag
		meta.IsWritable = 0 != flags&writableFlag
		n += 1
	}

	dataLength, count := util.ClippedVarint64(record[n:], 0, MaxPackedLength)
	if 0 == count {
		return 0, fault.MalformedTransaction
	}
	n += count
	if n+dataLength > len(record) {
		return 0, fault.MalformedTransaction
	}
	instruction.Data = make([]byte, dataLength)
	copy(instruction.Data, record[n:])
	n += dataLength

	return n, nil
}
