// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package rpc - set up and handle the incoming JSON RPC requests from
// clients requiring datapackerd services
//
// services:
//   Ledger.Submit   execute a signed transaction
//   Ledger.Account  read committed account state
//   Ledger.Marker   current marker for recent marker fields
//   Ledger.Airdrop  credit lamports (test chains only)
//   Node.Info       chain, mode and uptime
//
// standard golang RPC services can be used on the client side to
// access these services
package rpc
