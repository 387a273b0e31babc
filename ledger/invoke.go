// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"bytes"
	"math/bits"

	"github.com/bitmark-inc/datapacker/account"
	"github.com/bitmark-inc/datapacker/derive"
	"github.com/bitmark-inc/datapacker/fault"
	"github.com/bitmark-inc/datapacker/transactionrecord"
)

// snapshot - account state when a program gained control
type snapshot struct {
	lamports   uint64
	owner      account.Address
	executable bool
	data       []byte
}

func takeSnapshot(a *Account) snapshot {
	data := make([]byte, len(a.Data))
	copy(data, a.Data)
	return snapshot{
		lamports:   a.Lamports,
		owner:      a.Owner,
		executable: a.Executable,
		data:       data,
	}
}

// frame - one program invocation
type frame struct {
	ledger   *Ledger
	state    *overlay
	program  account.Address
	infos    []*AccountInfo
	depth    int
	pre      map[account.Address]snapshot
	initial  map[account.Address]int
	signer   map[account.Address]bool
	writable map[account.Address]bool
}

// run program over infos and check what it changed
func (l *Ledger) invoke(state *overlay, program account.Address, infos []*AccountInfo, data []byte, depth int) error {
	code, ok := l.programs[program]
	if !ok {
		return fault.ProgramNotFound
	}

	f := &frame{
		ledger:   l,
		state:    state,
		program:  program,
		infos:    infos,
		depth:    depth,
		initial:  make(map[account.Address]int),
		signer:   make(map[account.Address]bool),
		writable: make(map[account.Address]bool),
	}
	for _, info := range infos {
		if info.IsSigner {
			f.signer[info.Address] = true
		}
		if info.IsWritable {
			f.writable[info.Address] = true
		}
		if _, ok := f.initial[info.Address]; !ok {
			f.initial[info.Address] = len(info.Data)
		}
	}
	f.refresh()

	err := code.Process(f, program, infos, data)
	if nil != err {
		return err
	}
	return f.verify()
}

// record the current state as the baseline for verification
func (f *frame) refresh() {
	f.pre = make(map[account.Address]snapshot, len(f.infos))
	for _, info := range f.infos {
		if _, ok := f.pre[info.Address]; !ok {
			f.pre[info.Address] = takeSnapshot(info.Account)
		}
	}
}

// check the program only made changes it is entitled to
func (f *frame) verify() error {
	var beforeHigh, beforeLow, afterHigh, afterLow, carry uint64

	for address, pre := range f.pre {
		a := f.state.accounts[address]
		owned := pre.owner == f.program
		writable := f.writable[address]

		if a.Owner != pre.owner {
			if !owned || !writable || a.Executable || !isZero(a.Data) {
				return fault.OwnerChangeNotPermitted
			}
		}
		if a.Lamports < pre.lamports && (!owned || !writable) {
			return fault.LamportsSpentByNonOwner
		}
		if a.Lamports != pre.lamports && !writable {
			return fault.AccountNotWritable
		}
		if !bytes.Equal(a.Data, pre.data) {
			if !owned {
				return fault.AccountDataModified
			}
			if !writable {
				return fault.AccountNotWritable
			}
		}
		if a.Executable != pre.executable {
			return fault.InvalidAccountData
		}

		beforeLow, carry = bits.Add64(beforeLow, pre.lamports, 0)
		beforeHigh += carry
		afterLow, carry = bits.Add64(afterLow, a.Lamports, 0)
		afterHigh += carry
	}

	if beforeHigh != afterHigh || beforeLow != afterLow {
		return fault.LamportsNotBalanced
	}
	return nil
}

func isZero(data []byte) bool {
	for _, b := range data {
		if 0 != b {
			return false
		}
	}
	return true
}

// Marker - current ledger marker
func (f *frame) Marker() uint64 {
	return f.ledger.marker
}

// Rent - rent parameters
func (f *frame) Rent() Rent {
	return f.ledger.options.Rent
}

// InvokeSigned - call another program with the caller's privileges
// plus the addresses the seeds derive under the calling program
func (f *frame) InvokeSigned(instruction transactionrecord.Instruction, seeds ...[][]byte) error {
	if f.depth >= MaxCallDepth {
		return fault.CallDepthExceeded
	}

	signer := make(map[account.Address]bool, len(f.signer)+len(seeds))
	for address := range f.signer {
		signer[address] = true
	}
	for _, s := range seeds {
		address, err := derive.ProgramAddress(s, f.program)
		if nil != err {
			return err
		}
		signer[address] = true
	}

	// callee must be one of the caller's accounts
	if _, ok := f.pre[instruction.Program]; !ok {
		return fault.ProgramNotFound
	}

	infos := make([]*AccountInfo, len(instruction.Accounts))
	for i, meta := range instruction.Accounts {
		a, ok := f.state.accounts[meta.Address]
		if _, present := f.pre[meta.Address]; !ok || !present {
			return fault.AccountNotFound
		}
		if meta.IsSigner && !signer[meta.Address] {
			return fault.PrivilegeEscalation
		}
		if meta.IsWritable && !f.writable[meta.Address] {
			return fault.PrivilegeEscalation
		}
		infos[i] = &AccountInfo{
			Address:    meta.Address,
			IsSigner:   meta.IsSigner,
			IsWritable: meta.IsWritable,
			Account:    a,
		}
	}

	// the caller's own changes so far must stand on their own
	err := f.verify()
	if nil != err {
		return err
	}

	err = f.ledger.invoke(f.state, instruction.Program, infos, instruction.Data, f.depth+1)
	if nil != err {
		return err
	}

	f.refresh()
	return nil
}

// Realloc - resize the data of an account owned by the caller
func (f *frame) Realloc(info *AccountInfo, newLength int) error {
	if nil == info || nil == info.Account {
		return fault.AccountNotFound
	}
	if _, ok := f.pre[info.Address]; !ok {
		return fault.AccountNotFound
	}
	if info.Owner != f.program {
		return fault.AccountDataModified
	}
	if !f.writable[info.Address] {
		return fault.AccountNotWritable
	}
	if newLength < 0 || newLength > MaxPermittedDataLength {
		return fault.DataTooLarge
	}
	if newLength-f.initial[info.Address] > MaxReallocPerInvocation {
		return fault.ReallocTooLarge
	}

	if newLength <= len(info.Data) {
		info.Data = info.Data[:newLength]
		return nil
	}
	grown := make([]byte, newLength)
	copy(grown, info.Data)
	info.Data = grown
	return nil
}
