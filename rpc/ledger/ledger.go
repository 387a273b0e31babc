// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"encoding/hex"

	"golang.org/x/time/rate"

	"github.com/bitmark-inc/datapacker/account"
	"github.com/bitmark-inc/datapacker/fault"
	"github.com/bitmark-inc/datapacker/ledger"
	"github.com/bitmark-inc/datapacker/rpc/ratelimit"
	"github.com/bitmark-inc/datapacker/transactionrecord"
	"github.com/bitmark-inc/logger"
)

const (
	rateLimitLedger = 200
	rateBurstLedger = 100

	// transactions are charged one slot per started block
	submitBlockSize = 256

	// largest single airdrop
	maximumAirdrop = 100 * 1000000000
)

// Host - the ledger operations served over RPC
type Host interface {
	Execute(packed []byte) (*ledger.Confirmation, error)
	Account(address account.Address) (*ledger.Account, error)
	Airdrop(address account.Address, lamports uint64) (uint64, error)
	Marker() uint64
}

// Ledger - type for RPC calls
type Ledger struct {
	Log       *logger.L
	Limiter   *rate.Limiter
	host      Host
	isTesting func() bool
}

// New - create the RPC service
func New(log *logger.L, host Host, isTesting func() bool) *Ledger {
	return &Ledger{
		Log:       log,
		Limiter:   rate.NewLimiter(rateLimitLedger, rateBurstLedger),
		host:      host,
		isTesting: isTesting,
	}
}

// ---

// SubmitArguments - a hex encoded signed transaction
type SubmitArguments struct {
	Transaction string `json:"transaction"`
}

// SubmitReply - result of a committed transaction
type SubmitReply struct {
	Signature account.Signature `json:"signature"`
	Marker    uint64            `json:"marker"`
}

// Submit - execute one transaction
func (l *Ledger) Submit(arguments *SubmitArguments, reply *SubmitReply) error {
	if nil == arguments || "" == arguments.Transaction {
		return fault.MalformedTransaction
	}

	if err := ratelimit.LimitBytes(l.Limiter, len(arguments.Transaction)/2, submitBlockSize); nil != err {
		return err
	}

	packed, err := hex.DecodeString(arguments.Transaction)
	if nil != err {
		return fault.MalformedTransaction
	}
	if len(packed) > transactionrecord.MaxPackedLength {
		return fault.MessageTooLarge
	}

	l.Log.Debugf("submit: %x", packed)

	confirmation, err := l.host.Execute(packed)
	if nil != err {
		l.Log.Infof("submit error: %s", err)
		return err
	}

	reply.Signature = confirmation.Signature
	reply.Marker = confirmation.Marker
	return nil
}

// ---

// AccountArguments - the address to read
type AccountArguments struct {
	Address account.Address `json:"address"`
}

// AccountReply - committed account state
type AccountReply struct {
	Lamports   uint64          `json:"lamports"`
	Owner      account.Address `json:"owner"`
	Executable bool            `json:"executable"`
	Data       string          `json:"data"`
	Marker     uint64          `json:"marker"`
}

// Account - read one account
func (l *Ledger) Account(arguments *AccountArguments, reply *AccountReply) error {
	if err := ratelimit.Limit(l.Limiter); nil != err {
		return err
	}
	if nil == arguments {
		return fault.MissingParameters
	}

	a, err := l.host.Account(arguments.Address)
	if nil != err {
		return err
	}

	reply.Lamports = a.Lamports
	reply.Owner = a.Owner
	reply.Executable = a.Executable
	reply.Data = hex.EncodeToString(a.Data)
	reply.Marker = l.host.Marker()
	return nil
}

// ---

// MarkerArguments - empty arguments
type MarkerArguments struct{}

// MarkerReply - the current marker
type MarkerReply struct {
	Marker uint64 `json:"marker"`
}

// Marker - current marker for recent marker fields
func (l *Ledger) Marker(_ *MarkerArguments, reply *MarkerReply) error {
	if err := ratelimit.Limit(l.Limiter); nil != err {
		return err
	}
	reply.Marker = l.host.Marker()
	return nil
}

// ---

// AirdropArguments - credit request
type AirdropArguments struct {
	Address  account.Address `json:"address"`
	Lamports uint64          `json:"lamports,string"`
}

// AirdropReply - new balance
type AirdropReply struct {
	Lamports uint64 `json:"lamports,string"`
	Marker   uint64 `json:"marker"`
}

// Airdrop - credit lamports on test chains
func (l *Ledger) Airdrop(arguments *AirdropArguments, reply *AirdropReply) error {
	if err := ratelimit.Limit(l.Limiter); nil != err {
		return err
	}
	if !l.isTesting() {
		return fault.NotAvailableOnThisChain
	}
	if nil == arguments || 0 == arguments.Lamports || arguments.Lamports > maximumAirdrop {
		return fault.MissingParameters
	}

	lamports, err := l.host.Airdrop(arguments.Address, arguments.Lamports)
	if nil != err {
		return err
	}

	reply.Lamports = lamports
	reply.Marker = l.host.Marker()
	return nil
}
