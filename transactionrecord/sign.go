// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package transactionrecord

import (
	"github.com/bitmark-inc/datapacker/account"
	"github.com/bitmark-inc/datapacker/fault"
)

// Sign - build a transaction signed by every signer of the message
//
// keys may be given in any order, keys that are not signers are
// ignored
func Sign(message *Message, keys ...*account.PrivateKey) (*Transaction, error) {
	byAddress := make(map[account.Address]*account.PrivateKey, len(keys))
	for _, key := range keys {
		byAddress[key.Address()] = key
	}

	signers := message.Signers()
	if 0 == len(signers) {
		return nil, fault.MissingSignature
	}

	packed := message.Pack()
	signatures := make([]account.Signature, len(signers))
	for i, signer := range signers {
		key, ok := byAddress[signer]
		if !ok {
			return nil, fault.MissingSignature
		}
		signatures[i] = key.Sign(packed)
	}

	return &Transaction{
		Signatures: signatures,
		Message:    *message,
	}, nil
}

// Verify - check one valid signature per signer, in signer order
func (transaction *Transaction) Verify() error {
	signers := transaction.Message.Signers()
	if 0 == len(signers) || len(signers) != len(transaction.Signatures) {
		return fault.MissingSignature
	}

	packed := transaction.Message.Pack()
	for i, signer := range signers {
		err := account.CheckSignature(signer, packed, transaction.Signatures[i])
		if nil != err {
			return err
		}
	}
	return nil
}
