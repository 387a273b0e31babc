// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/datapacker/account"
	"github.com/bitmark-inc/datapacker/derive"
	"github.com/bitmark-inc/datapacker/fault"
	"github.com/bitmark-inc/datapacker/fixtures"
	"github.com/bitmark-inc/datapacker/ledger"
	"github.com/bitmark-inc/datapacker/storage"
	"github.com/bitmark-inc/datapacker/transactionrecord"
	"github.com/bitmark-inc/datapacker/util"
	"github.com/bitmark-inc/logger"
)

const sol = 1000000000

var testProgramAddress = account.Address{0x7e, 0x57}

// actions of the test program, selected by the first data byte
const (
	actionWrite    = iota // flip first byte of account 0
	actionDebit           // move 1 lamport from account 0 to account 1
	actionMint            // add 1 lamport to account 0
	actionCreate          // create pda account 1 funded by account 0, size from data
	actionBadSeeds        // create with seeds that hash onto the curve
	actionForeignSeeds    // create with seeds deriving some other address
	actionNothing         // succeed without changes
)

// onCurveSeeds - a seed list that derives no program address
func onCurveSeeds(program account.Address) ([][]byte, error) {
	for bump := 255; bump >= 0; bump -= 1 {
		seeds := [][]byte{[]byte("other"), {byte(bump)}}
		_, err := derive.ProgramAddress(seeds, program)
		if fault.InvalidSeeds == err {
			return seeds, nil
		}
	}
	return nil, fault.InvalidSeeds
}

type testProgram struct{}

func (testProgram) Process(ctx ledger.InvokeContext, program account.Address, accounts []*ledger.AccountInfo, data []byte) error {
	switch data[0] {
	case actionWrite:
		if 0 == len(accounts[0].Data) {
			accounts[0].Data = []byte{0xff}
		} else {
			accounts[0].Data[0] ^= 0xff
		}
	case actionDebit:
		accounts[0].Lamports -= 1
		accounts[1].Lamports += 1
	case actionMint:
		accounts[0].Lamports += 1
	case actionCreate, actionBadSeeds, actionForeignSeeds:
		size, _ := util.FromVarint64(data[1:])
		payer := accounts[0]
		pda := accounts[1]
		_, bump, err := derive.FindProgramAddress([][]byte{[]byte("pda")}, program)
		if nil != err {
			return err
		}
		seeds := [][]byte{[]byte("pda"), {bump}}
		switch data[0] {
		case actionBadSeeds:
			seeds, err = onCurveSeeds(program)
			if nil != err {
				return err
			}
		case actionForeignSeeds:
			_, otherBump, err := derive.FindProgramAddress([][]byte{[]byte("other")}, program)
			if nil != err {
				return err
			}
			seeds = [][]byte{[]byte("other"), {otherBump}}
		}
		minimum := ctx.Rent().MinimumBalance(int(size))
		err = ctx.InvokeSigned(ledger.SystemTransfer(payer.Address, pda.Address, minimum))
		if nil != err {
			return err
		}
		err = ctx.InvokeSigned(ledger.SystemAllocate(pda.Address, 0), seeds)
		if nil != err {
			return err
		}
		err = ctx.InvokeSigned(ledger.SystemAssign(pda.Address, program), seeds)
		if nil != err {
			return err
		}
		return ctx.Realloc(pda, int(size))
	}
	return nil
}

func setupLedger(t *testing.T) *ledger.Ledger {
	err := fixtures.SetupTestStorage()
	if nil != err {
		t.Fatalf("storage setup error: %s", err)
	}

	l, err := ledger.New(logger.New(fixtures.LogCategory), ledger.Handles{
		Accounts:   storage.Pool.Accounts,
		Signatures: storage.Pool.Signatures,
		Metadata:   storage.Pool.Metadata,
	}, ledger.DefaultOptions())
	if nil != err {
		t.Fatalf("ledger error: %s", err)
	}

	err = l.RegisterProgram(testProgramAddress, testProgram{})
	if nil != err {
		t.Fatalf("register error: %s", err)
	}

	_, err = l.Airdrop(fixtures.Payer.Address(), 10*sol)
	if nil != err {
		t.Fatalf("airdrop error: %s", err)
	}
	return l
}

func submit(l *ledger.Ledger, instructions []transactionrecord.Instruction, keys ...*account.PrivateKey) (*ledger.Confirmation, error) {
	message := &transactionrecord.Message{
		RecentMarker: l.Marker(),
		Instructions: instructions,
	}
	transaction, err := transactionrecord.Sign(message, keys...)
	if nil != err {
		return nil, err
	}
	packed, err := transaction.Pack()
	if nil != err {
		return nil, err
	}
	return l.Execute(packed)
}

func lamports(t *testing.T, l *ledger.Ledger, address account.Address) uint64 {
	a, err := l.Account(address)
	if fault.AccountNotFound == err {
		return 0
	}
	if nil != err {
		t.Fatalf("account: %s  error: %s", address, err)
	}
	return a.Lamports
}

func testInstruction(action byte, accounts ...transactionrecord.AccountMeta) transactionrecord.Instruction {
	return transactionrecord.Instruction{
		Program:  testProgramAddress,
		Accounts: accounts,
		Data:     []byte{action},
	}
}

func TestRent(t *testing.T) {
	rent := ledger.DefaultRent()
	assert.Equal(t, uint64(890880), rent.MinimumBalance(0), "empty account")
	assert.Equal(t, uint64((128+72+768)*3480*2), rent.MinimumBalance(72+768), "first chunk bucket")
	assert.True(t, rent.IsExempt(890880, 0), "exact minimum")
	assert.False(t, rent.IsExempt(890879, 0), "below minimum")
}

func TestAccountPack(t *testing.T) {
	a := &ledger.Account{
		Lamports:   12345,
		Owner:      account.Address{9},
		Executable: true,
		Data:       []byte{1, 2, 3},
	}
	b, err := ledger.UnpackAccount(a.Pack())
	assert.Nil(t, err, "unpack")
	assert.Equal(t, a, b, "round trip")

	_, err = ledger.UnpackAccount([]byte{1, 2})
	assert.Equal(t, fault.InvalidAccountData, err, "short")
}

func TestTransfer(t *testing.T) {
	l := setupLedger(t)
	defer fixtures.TeardownTestStorage()

	payer := fixtures.Payer.Address()
	receiver := fixtures.Other.Address()

	confirmation, err := submit(l, []transactionrecord.Instruction{
		ledger.SystemTransfer(payer, receiver, sol),
	}, fixtures.Payer)
	assert.Nil(t, err, "transfer")
	assert.Equal(t, l.Marker(), confirmation.Marker, "marker")

	assert.Equal(t, uint64(sol), lamports(t, l, receiver), "receiver")
	assert.Equal(t, uint64(9*sol-ledger.FeePerSignature), lamports(t, l, payer), "payer less fee")
}

func TestDuplicateTransaction(t *testing.T) {
	l := setupLedger(t)
	defer fixtures.TeardownTestStorage()

	message := &transactionrecord.Message{
		RecentMarker: l.Marker(),
		Instructions: []transactionrecord.Instruction{
			ledger.SystemTransfer(fixtures.Payer.Address(), fixtures.Other.Address(), sol),
		},
	}
	transaction, err := transactionrecord.Sign(message, fixtures.Payer)
	assert.Nil(t, err, "sign")
	packed, err := transaction.Pack()
	assert.Nil(t, err, "pack")

	_, err = l.Execute(packed)
	assert.Nil(t, err, "first")

	_, err = l.Execute(packed)
	assert.Equal(t, fault.DuplicateTransaction, err, "replay")
	assert.Equal(t, uint64(sol), lamports(t, l, fixtures.Other.Address()), "single transfer")
}

func TestStaleMarker(t *testing.T) {
	l := setupLedger(t)
	defer fixtures.TeardownTestStorage()

	message := &transactionrecord.Message{
		RecentMarker: l.Marker(),
		Instructions: []transactionrecord.Instruction{
			ledger.SystemTransfer(fixtures.Payer.Address(), fixtures.Other.Address(), sol),
		},
	}
	transaction, err := transactionrecord.Sign(message, fixtures.Payer)
	assert.Nil(t, err, "sign")
	packed, err := transaction.Pack()
	assert.Nil(t, err, "pack")

	for i := 0; i <= ledger.MaxMarkerAge; i += 1 {
		_, err := l.Tick()
		assert.Nil(t, err, "tick")
	}

	_, err = l.Execute(packed)
	assert.Equal(t, fault.StaleMarker, err, "stale")

	future := &transactionrecord.Message{
		RecentMarker: l.Marker() + 1,
		Instructions: message.Instructions,
	}
	transaction, err = transactionrecord.Sign(future, fixtures.Payer)
	assert.Nil(t, err, "sign future")
	packed, err = transaction.Pack()
	assert.Nil(t, err, "pack future")
	_, err = l.Execute(packed)
	assert.Equal(t, fault.StaleMarker, err, "future")
}

func TestTickExpiresSignatures(t *testing.T) {
	l := setupLedger(t)
	defer fixtures.TeardownTestStorage()

	confirmation, err := submit(l, []transactionrecord.Instruction{
		ledger.SystemTransfer(fixtures.Payer.Address(), fixtures.Other.Address(), sol),
	}, fixtures.Payer)
	assert.Nil(t, err, "transfer")
	assert.True(t, storage.Pool.Signatures.Has(confirmation.Signature), "recorded")

	for i := 0; i < ledger.MaxMarkerAge; i += 1 {
		_, err := l.Tick()
		assert.Nil(t, err, "tick")
	}
	assert.True(t, storage.Pool.Signatures.Has(confirmation.Signature), "still replayable window")

	_, err = l.Tick()
	assert.Nil(t, err, "tick")
	assert.False(t, storage.Pool.Signatures.Has(confirmation.Signature), "expired")

	n, found := storage.Pool.Metadata.GetN([]byte("marker"))
	assert.True(t, found, "marker stored")
	assert.Equal(t, l.Marker(), n, "marker persisted")
}

func TestFeePayerChecks(t *testing.T) {
	l := setupLedger(t)
	defer fixtures.TeardownTestStorage()

	// unfunded fee payer
	_, err := submit(l, []transactionrecord.Instruction{
		ledger.SystemTransfer(fixtures.Other.Address(), fixtures.Payer.Address(), 1),
	}, fixtures.Other)
	assert.Equal(t, fault.InsufficientFunding, err, "unfunded payer")

	// payer must be writable
	_, err = submit(l, []transactionrecord.Instruction{
		testInstruction(actionNothing, transactionrecord.Signer(fixtures.Payer.Address())),
	}, fixtures.Payer)
	assert.Equal(t, fault.AccountNotWritable, err, "read-only payer")
}

func TestRentEnforced(t *testing.T) {
	l := setupLedger(t)
	defer fixtures.TeardownTestStorage()

	_, err := submit(l, []transactionrecord.Instruction{
		ledger.SystemTransfer(fixtures.Payer.Address(), fixtures.Other.Address(), 1000),
	}, fixtures.Payer)
	assert.Equal(t, fault.InsufficientFunding, err, "below rent minimum")
	assert.Equal(t, uint64(0), lamports(t, l, fixtures.Other.Address()), "nothing committed")
	assert.Equal(t, uint64(10*sol), lamports(t, l, fixtures.Payer.Address()), "no fee on failure")
}

func TestProgramRestrictions(t *testing.T) {
	l := setupLedger(t)
	defer fixtures.TeardownTestStorage()

	payer := fixtures.Payer.Address()
	other := fixtures.Other.Address()

	_, err := l.Airdrop(other, sol)
	assert.Nil(t, err, "airdrop")

	tests := []struct {
		name        string
		instruction transactionrecord.Instruction
		err         error
	}{
		{
			name:        "debit account owned by system",
			instruction: testInstruction(actionDebit, transactionrecord.WritableSigner(payer), transactionrecord.Writable(other)),
			err:         fault.LamportsSpentByNonOwner,
		},
		{
			name:        "write data owned by system",
			instruction: testInstruction(actionWrite, transactionrecord.WritableSigner(payer)),
			err:         fault.AccountDataModified,
		},
		{
			name:        "mint lamports",
			instruction: testInstruction(actionMint, transactionrecord.WritableSigner(payer)),
			err:         fault.LamportsNotBalanced,
		},
		{
			name:        "unknown program",
			instruction: transactionrecord.Instruction{Program: account.Address{0xee}, Accounts: []transactionrecord.AccountMeta{transactionrecord.WritableSigner(payer)}},
			err:         fault.ProgramNotFound,
		},
	}

	for _, item := range tests {
		_, err := submit(l, []transactionrecord.Instruction{item.instruction}, fixtures.Payer)
		assert.Equal(t, item.err, err, item.name)
	}
	assert.Equal(t, uint64(10*sol), lamports(t, l, payer), "payer untouched")
	assert.Equal(t, uint64(sol), lamports(t, l, other), "other untouched")
}

func TestInvokeSigned(t *testing.T) {
	l := setupLedger(t)
	defer fixtures.TeardownTestStorage()

	payer := fixtures.Payer.Address()
	pda, _, err := derive.FindProgramAddress([][]byte{[]byte("pda")}, testProgramAddress)
	assert.Nil(t, err, "derive")

	create := func(action byte, size uint64) error {
		instruction := testInstruction(action,
			transactionrecord.WritableSigner(payer),
			transactionrecord.Writable(pda),
			transactionrecord.ReadOnly(account.SystemProgram),
		)
		instruction.Data = util.AppendVarint64(instruction.Data, size)
		_, err := submit(l, []transactionrecord.Instruction{instruction}, fixtures.Payer)
		return err
	}

	assert.Equal(t, fault.InvalidSeeds, create(actionBadSeeds, 16), "on-curve seeds")
	assert.Equal(t, fault.PrivilegeEscalation, create(actionForeignSeeds, 16), "seeds of another address")
	_, err = l.Account(pda)
	assert.Equal(t, fault.AccountNotFound, err, "nothing created")
	assert.Equal(t, fault.ReallocTooLarge, create(actionCreate, ledger.MaxReallocPerInvocation+1), "realloc limit")

	err = create(actionCreate, ledger.MaxReallocPerInvocation)
	assert.Nil(t, err, "create")

	a, err := l.Account(pda)
	assert.Nil(t, err, "pda account")
	assert.Equal(t, testProgramAddress, a.Owner, "owner")
	assert.Equal(t, ledger.MaxReallocPerInvocation, len(a.Data), "size")
	assert.Equal(t, l.Rent().MinimumBalance(ledger.MaxReallocPerInvocation), a.Lamports, "funded")

	// a second allocation is refused by the system program
	assert.Equal(t, fault.AccountAlreadyInUse, create(actionCreate, 16), "exists")
}

func TestDataWrittenByNonOwner(t *testing.T) {
	l := setupLedger(t)
	defer fixtures.TeardownTestStorage()

	payer := fixtures.Payer.Address()
	pda, _, err := derive.FindProgramAddress([][]byte{[]byte("pda")}, testProgramAddress)
	assert.Nil(t, err, "derive")

	instruction := testInstruction(actionCreate,
		transactionrecord.WritableSigner(payer),
		transactionrecord.Writable(pda),
		transactionrecord.ReadOnly(account.SystemProgram),
	)
	instruction.Data = util.AppendVarint64(instruction.Data, 8)
	_, err = submit(l, []transactionrecord.Instruction{instruction}, fixtures.Payer)
	assert.Nil(t, err, "create")

	// owner may write
	_, err = submit(l, []transactionrecord.Instruction{
		testInstruction(actionWrite, transactionrecord.Writable(pda), transactionrecord.WritableSigner(payer)),
	}, fixtures.Payer)
	assert.Nil(t, err, "owner write")

	// not when the account is read-only
	_, err = submit(l, []transactionrecord.Instruction{
		ledger.SystemTransfer(payer, fixtures.Other.Address(), sol),
		testInstruction(actionWrite, transactionrecord.ReadOnly(pda), transactionrecord.WritableSigner(payer)),
	}, fixtures.Payer)
	assert.Equal(t, fault.AccountNotWritable, err, "read-only write")

	// all instructions of a failed transaction are discarded
	assert.Equal(t, uint64(0), lamports(t, l, fixtures.Other.Address()), "first instruction discarded")

	a, err := l.Account(pda)
	assert.Nil(t, err, "pda")
	assert.Equal(t, byte(0xff), a.Data[0], "written")
}

func TestAccountNotFound(t *testing.T) {
	l := setupLedger(t)
	defer fixtures.TeardownTestStorage()

	_, err := l.Account(fixtures.Other.Address())
	assert.Equal(t, fault.AccountNotFound, err, "missing account")

	a, err := l.Account(testProgramAddress)
	assert.Nil(t, err, "program account")
	assert.True(t, a.Executable, "executable")

	err = l.RegisterProgram(testProgramAddress, testProgram{})
	assert.Equal(t, fault.AlreadyInitialised, err, "register twice")
}
