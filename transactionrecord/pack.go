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

// Pack - the bytes covered by the signatures
//
// Varint64(marker) ++ Varint64(count) ++ instructions
func (message *Message) Pack() Packed {
	buffer := util.ToVarint64(message.RecentMarker)
	buffer = util.AppendVarint64(buffer, uint64(len(message.Instructions)))
	for _, instruction := range message.Instructions {
		buffer = instruction.pack(buffer)
	}
	return buffer
}

// program ++ Varint64(count) ++ (address ++ flags)* ++ Varint64(len) ++ data
func (instruction *Instruction) pack(buffer Packed) Packed {
	buffer = append(buffer, instruction.Program[:]...)
	buffer = util.AppendVarint64(buffer, uint64(len(instruction.Accounts)))
	for _, meta := range instruction.Accounts {
		flags := byte(0)
		if meta.IsSigner {
			flags |= signerFlag
		}
		if meta.IsWritable {
			flags |= writableFlag
		}
		buffer = append(buffer, meta.Address[:]...)
		buffer = append(buffer, flags)
	}
	buffer = util.AppendVarint64(buffer, uint64(len(instruction.Data)))
	return append(buffer, instruction.Data...)
}

// Pack - Varint64(count) ++ signatures ++ message
func (transaction *Transaction) Pack() (Packed, error) {
	buffer := util.ToVarint64(uint64(len(transaction.Signatures)))
	for _, signature := range transaction.Signatures {
		if account.SignatureLength != len(signature) {
			return nil, fault.InvalidSignature
		}
		buffer = append(buffer, signature...)
	}
	buffer = append(buffer, transaction.Message.Pack()...)

	if len(buffer) > MaxPackedLength {
		return nil, fault.MessageTooLarge
	}
	return buffer, nil
}
