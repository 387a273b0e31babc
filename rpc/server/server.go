// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package server

import (
	"net/rpc"
	"time"

	"github.com/bitmark-inc/datapacker/counter"
	"github.com/bitmark-inc/datapacker/mode"
	"github.com/bitmark-inc/datapacker/rpc/ledger"
	"github.com/bitmark-inc/datapacker/rpc/node"
	"github.com/bitmark-inc/logger"
)

// Create - an RPC server with every service registered
func Create(log *logger.L, version string, rpcCount *counter.Counter, host ledger.Host) *rpc.Server {
	start := time.Now().UTC()

	server := rpc.NewServer()

	_ = server.Register(ledger.New(log, host, mode.IsTesting))
	_ = server.Register(node.New(log, host, start, version, rpcCount))

	return server
}
