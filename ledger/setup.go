// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"sync"

	"github.com/bitmark-inc/datapacker/account"
	"github.com/bitmark-inc/datapacker/fault"
	"github.com/bitmark-inc/datapacker/storage"
	"github.com/bitmark-inc/logger"
)

// limits and prices
const (
	FeePerSignature         = 5000
	MaxReallocPerInvocation = 10240
	MaxPermittedDataLength  = 10 * 1024 * 1024
	MaxCallDepth            = 4
	MaxMarkerAge            = 150
)

// metadata keys
var (
	markerKey = []byte("marker")
)

// Handles - the storage pools used by the ledger
type Handles struct {
	Accounts   *storage.PoolHandle
	Signatures *storage.PoolHandle
	Metadata   *storage.PoolHandle
}

// Options - ledger parameters
type Options struct {
	Rent            Rent
	FeePerSignature uint64
	MaxMarkerAge    uint64
}

// DefaultOptions - the standard parameters
func DefaultOptions() Options {
	return Options{
		Rent:            DefaultRent(),
		FeePerSignature: FeePerSignature,
		MaxMarkerAge:    MaxMarkerAge,
	}
}

// Confirmation - result of a committed transaction
type Confirmation struct {
	Signature account.Signature `json:"signature"`
	Marker    uint64            `json:"marker"`
}

// Ledger - executes transactions against stored accounts
type Ledger struct {
	sync.Mutex

	log      *logger.L
	pools    Handles
	options  Options
	programs map[account.Address]Program
	marker   uint64
}

// New - open the ledger over initialised storage
//
// the system program is always registered
func New(log *logger.L, pools Handles, options Options) (*Ledger, error) {
	if nil == pools.Accounts || nil == pools.Signatures || nil == pools.Metadata {
		return nil, fault.NotInitialised
	}

	marker, _ := pools.Metadata.GetN(markerKey)

	l := &Ledger{
		log:      log,
		pools:    pools,
		options:  options,
		programs: make(map[account.Address]Program),
		marker:   marker,
	}
	l.programs[account.SystemProgram] = systemProgram{}

	log.Infof("ledger opened at marker: %d", marker)
	return l, nil
}

// RegisterProgram - install a program and make sure its executable
// account exists
func (l *Ledger) RegisterProgram(address account.Address, program Program) error {
	l.Lock()
	defer l.Unlock()

	if _, ok := l.programs[address]; ok {
		return fault.AlreadyInitialised
	}

	buffer := l.pools.Accounts.Get(address[:])
	if nil != buffer {
		existing, err := UnpackAccount(buffer)
		if nil != err {
			return err
		}
		if !existing.Executable {
			return fault.AccountAlreadyInUse
		}
	} else {
		programAccount := &Account{
			Lamports:   l.options.Rent.MinimumBalance(0),
			Owner:      account.SystemProgram,
			Executable: true,
		}
		trx, err := storage.NewDBTransaction()
		if nil != err {
			return err
		}
		trx.Put(l.pools.Accounts, address[:], programAccount.Pack())
		err = trx.Commit()
		if nil != err {
			trx.Abort()
			return err
		}
	}

	l.programs[address] = program
	l.log.Infof("registered program: %s", address)
	return nil
}

// Marker - current ledger marker
func (l *Ledger) Marker() uint64 {
	l.Lock()
	defer l.Unlock()
	return l.marker
}

// Rent - rent parameters
func (l *Ledger) Rent() Rent {
	return l.options.Rent
}

// Account - read committed account state
func (l *Ledger) Account(address account.Address) (*Account, error) {
	l.Lock()
	defer l.Unlock()

	buffer := l.pools.Accounts.Get(address[:])
	if nil == buffer {
		return nil, fault.AccountNotFound
	}
	return UnpackAccount(buffer)
}
