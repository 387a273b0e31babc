// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"bytes"
	"encoding/binary"

	"github.com/bitmark-inc/datapacker/account"
	"github.com/bitmark-inc/datapacker/fault"
	"github.com/bitmark-inc/datapacker/storage"
	"github.com/bitmark-inc/datapacker/transactionrecord"
)

// overlay - accounts loaded for one transaction
//
// nothing reaches storage unless the whole transaction succeeds
type overlay struct {
	pool     *storage.PoolHandle
	accounts map[account.Address]*Account
	original map[account.Address]*Account
	order    []account.Address
}

func newOverlay(pool *storage.PoolHandle) *overlay {
	return &overlay{
		pool:     pool,
		accounts: make(map[account.Address]*Account),
		original: make(map[account.Address]*Account),
		order:    make([]account.Address, 0, 8),
	}
}

// fetch an account, missing addresses are empty system accounts
func (o *overlay) load(address account.Address) (*Account, error) {
	if a, ok := o.accounts[address]; ok {
		return a, nil
	}

	a := &Account{}
	buffer := o.pool.Get(address[:])
	if nil != buffer {
		stored, err := UnpackAccount(buffer)
		if nil != err {
			return nil, err
		}
		a = stored
	}
	o.accounts[address] = a
	o.original[address] = a.clone()
	o.order = append(o.order, address)
	return a, nil
}

func changed(a *Account, b *Account) bool {
	return a.Lamports != b.Lamports ||
		a.Owner != b.Owner ||
		a.Executable != b.Executable ||
		!bytes.Equal(a.Data, b.Data)
}

// Execute - verify, run and commit one packed transaction
func (l *Ledger) Execute(packed []byte) (*Confirmation, error) {

	transaction, err := transactionrecord.Packed(packed).Unpack()
	if nil != err {
		return nil, err
	}

	err = transaction.Verify()
	if nil != err {
		return nil, err
	}

	l.Lock()
	defer l.Unlock()

	recent := transaction.Message.RecentMarker
	if recent > l.marker || l.marker-recent > l.options.MaxMarkerAge {
		l.log.Debugf("stale marker: %d  current: %d", recent, l.marker)
		return nil, fault.StaleMarker
	}

	id := transaction.Id()
	if l.pools.Signatures.Has(id) {
		return nil, fault.DuplicateTransaction
	}

	state := newOverlay(l.pools.Accounts)

	err = l.chargeFee(state, transaction)
	if nil != err {
		return nil, err
	}

	signers := make(map[account.Address]bool)
	for _, signer := range transaction.Message.Signers() {
		signers[signer] = true
	}

	for i, instruction := range transaction.Message.Instructions {
		err = l.processInstruction(state, instruction, signers)
		if nil != err {
			l.log.Warnf("transaction: %s  instruction: %d  error: %s", id, i, err)
			return nil, err
		}
	}

	err = l.checkRent(state)
	if nil != err {
		l.log.Warnf("transaction: %s  rent error: %s", id, err)
		return nil, err
	}

	err = l.commit(state, id)
	if nil != err {
		return nil, err
	}

	l.log.Infof("committed transaction: %s  marker: %d", id, l.marker)
	return &Confirmation{
		Signature: id,
		Marker:    l.marker,
	}, nil
}

// the first signer pays for every signature
func (l *Ledger) chargeFee(state *overlay, transaction *transactionrecord.Transaction) error {
	signers := transaction.Message.Signers()
	if 0 == len(signers) {
		return fault.MissingSignature
	}
	payer := signers[0]

	writable := false
	for _, instruction := range transaction.Message.Instructions {
		for _, meta := range instruction.Accounts {
			if meta.Address == payer && meta.IsWritable {
				writable = true
			}
		}
	}
	if !writable {
		return fault.AccountNotWritable
	}

	a, err := state.load(payer)
	if nil != err {
		return err
	}
	if a.Owner != account.SystemProgram {
		return fault.InvalidAccountData
	}

	fee := l.options.FeePerSignature * uint64(len(transaction.Signatures))
	if a.Lamports < fee {
		return fault.InsufficientFunding
	}
	a.Lamports -= fee
	return nil
}

func (l *Ledger) processInstruction(state *overlay, instruction transactionrecord.Instruction, signers map[account.Address]bool) error {
	infos := make([]*AccountInfo, len(instruction.Accounts))
	for i, meta := range instruction.Accounts {
		if meta.IsSigner && !signers[meta.Address] {
			return fault.MissingSignature
		}
		a, err := state.load(meta.Address)
		if nil != err {
			return err
		}
		infos[i] = &AccountInfo{
			Address:    meta.Address,
			IsSigner:   meta.IsSigner,
			IsWritable: meta.IsWritable,
			Account:    a,
		}
	}
	return l.invoke(state, instruction.Program, infos, instruction.Data, 1)
}

// every changed account must be rent exempt or emptied
func (l *Ledger) checkRent(state *overlay) error {
	for _, address := range state.order {
		a := state.accounts[address]
		if !changed(a, state.original[address]) {
			continue
		}
		if 0 == a.Lamports {
			if 0 != len(a.Data) {
				return fault.InsufficientFunding
			}
			continue
		}
		if !l.options.Rent.IsExempt(a.Lamports, len(a.Data)) {
			return fault.InsufficientFunding
		}
	}
	return nil
}

// write changed accounts and the signature in one batch
func (l *Ledger) commit(state *overlay, id account.Signature) error {
	trx, err := storage.NewDBTransaction()
	if nil != err {
		return err
	}

	for _, address := range state.order {
		a := state.accounts[address]
		if !changed(a, state.original[address]) {
			continue
		}
		if 0 == a.Lamports {
			trx.Delete(l.pools.Accounts, address[:])
		} else {
			trx.Put(l.pools.Accounts, address[:], a.Pack())
		}
	}

	processed := make([]byte, 8)
	binary.BigEndian.PutUint64(processed, l.marker)
	trx.Put(l.pools.Signatures, id, processed)

	err = trx.Commit()
	if nil != err {
		trx.Abort()
		return err
	}
	return nil
}
