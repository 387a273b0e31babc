// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package uploader

import (
	"context"

	"github.com/bitmark-inc/datapacker/account"
	"github.com/bitmark-inc/datapacker/ledger"
)

// Client - the ledger operations an upload needs
//
// implementations return fault.TransportFailure when the request may
// or may not have reached the ledger
type Client interface {
	Marker(ctx context.Context) (uint64, error)
	Submit(ctx context.Context, transaction []byte) (*ledger.Confirmation, error)
	Account(ctx context.Context, address account.Address) (*ledger.Account, error)
}

type ledgerClient struct {
	ledger *ledger.Ledger
}

// NewLedgerClient - a client calling a ledger in the same process
func NewLedgerClient(l *ledger.Ledger) Client {
	return &ledgerClient{
		ledger: l,
	}
}

func (c *ledgerClient) Marker(ctx context.Context) (uint64, error) {
	return c.ledger.Marker(), nil
}

func (c *ledgerClient) Submit(ctx context.Context, transaction []byte) (*ledger.Confirmation, error) {
	return c.ledger.Execute(transaction)
}

func (c *ledgerClient) Account(ctx context.Context, address account.Address) (*ledger.Account, error) {
	return c.ledger.Account(address)
}
