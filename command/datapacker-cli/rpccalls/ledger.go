// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls

import (
	"context"
	"encoding/hex"

	"github.com/bitmark-inc/datapacker/account"
	"github.com/bitmark-inc/datapacker/fault"
	"github.com/bitmark-inc/datapacker/ledger"
	rpcledger "github.com/bitmark-inc/datapacker/rpc/ledger"
	"github.com/bitmark-inc/datapacker/rpc/node"
)

// Marker - current marker of the node
func (c *Client) Marker(ctx context.Context) (uint64, error) {
	var reply rpcledger.MarkerReply
	err := c.call(ctx, "Ledger.Marker", &rpcledger.MarkerArguments{}, &reply)
	if nil != err {
		return 0, err
	}
	return reply.Marker, nil
}

// Submit - send a packed signed transaction
func (c *Client) Submit(ctx context.Context, transaction []byte) (*ledger.Confirmation, error) {
	arguments := rpcledger.SubmitArguments{
		Transaction: hex.EncodeToString(transaction),
	}
	var reply rpcledger.SubmitReply
	err := c.call(ctx, "Ledger.Submit", &arguments, &reply)
	if nil != err {
		return nil, err
	}
	return &ledger.Confirmation{
		Signature: reply.Signature,
		Marker:    reply.Marker,
	}, nil
}

// Account - committed state of one address
func (c *Client) Account(ctx context.Context, address account.Address) (*ledger.Account, error) {
	arguments := rpcledger.AccountArguments{
		Address: address,
	}
	var reply rpcledger.AccountReply
	err := c.call(ctx, "Ledger.Account", &arguments, &reply)
	if nil != err {
		return nil, err
	}

	data, err := hex.DecodeString(reply.Data)
	if nil != err {
		return nil, fault.InvalidAccountData
	}
	return &ledger.Account{
		Lamports:   reply.Lamports,
		Owner:      reply.Owner,
		Executable: reply.Executable,
		Data:       data,
	}, nil
}

// Airdrop - request lamports on a test chain
func (c *Client) Airdrop(ctx context.Context, address account.Address, lamports uint64) (*rpcledger.AirdropReply, error) {
	arguments := rpcledger.AirdropArguments{
		Address:  address,
		Lamports: lamports,
	}
	var reply rpcledger.AirdropReply
	err := c.call(ctx, "Ledger.Airdrop", &arguments, &reply)
	if nil != err {
		return nil, err
	}
	return &reply, nil
}

// Info - node status
func (c *Client) Info(ctx context.Context) (*node.InfoReply, error) {
	var reply node.InfoReply
	err := c.call(ctx, "Node.Info", &node.InfoArguments{}, &reply)
	if nil != err {
		return nil, err
	}
	return &reply, nil
}
