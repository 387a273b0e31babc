// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpccalls_test

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/datapacker/command/datapacker-cli/rpccalls"
	"github.com/bitmark-inc/datapacker/counter"
	"github.com/bitmark-inc/datapacker/fault"
	"github.com/bitmark-inc/datapacker/fixtures"
	"github.com/bitmark-inc/datapacker/ledger"
	"github.com/bitmark-inc/datapacker/rpc/certificate"
	"github.com/bitmark-inc/datapacker/rpc/listeners"
	"github.com/bitmark-inc/datapacker/rpc/mocks"
	"github.com/bitmark-inc/datapacker/rpc/server"
	"github.com/bitmark-inc/logger"
)

func setupServer(t *testing.T, host *mocks.MockHost) (string, listeners.Listener) {
	port := rand.Intn(30000) + 30000
	connect := fmt.Sprintf("127.0.0.1:%d", port)
	con := listeners.RPCConfiguration{
		MaximumConnections: 5,
		Bandwidth:          10000000,
		Listen:             []string{connect},
	}

	count := counter.Counter(0)
	log := logger.New(fixtures.LogCategory)
	s := server.Create(log, "1.0", &count, host)

	cer, key, err := fixtures.Certificate()
	if nil != err {
		t.Fatalf("generate certificate error: %s", err)
	}
	tlsConfig, fin, err := certificate.Get(log, "test", cer, key)
	if nil != err {
		t.Fatalf("get certificate error: %s", err)
	}

	l, err := listeners.NewRPC(&con, log, &count, s, tlsConfig, fin)
	if nil != err {
		t.Fatalf("new listener error: %s", err)
	}
	err = l.Serve()
	if nil != err {
		t.Fatalf("serve error: %s", err)
	}
	return connect, l
}

func TestClientCalls(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	h := mocks.NewMockHost(ctl)
	connect, l := setupServer(t, h)
	defer l.Close()

	var output bytes.Buffer
	c, err := rpccalls.NewClient(connect, true, &output)
	if nil != err {
		t.Fatalf("new client error: %s", err)
	}
	defer c.Close()

	ctx := context.Background()

	h.EXPECT().Marker().Return(uint64(42)).Times(1)
	marker, err := c.Marker(ctx)
	assert.Nil(t, err, "wrong Marker")
	assert.Equal(t, uint64(42), marker, "wrong marker")
	assert.Contains(t, output.String(), "Ledger.Marker Reply", "verbose output missing")

	stored := &ledger.Account{
		Lamports: 890880,
		Owner:    fixtures.Program,
		Data:     []byte{0x01, 0x02, 0x03},
	}
	h.EXPECT().Account(fixtures.Other.Address()).Return(stored, nil).Times(1)
	h.EXPECT().Marker().Return(uint64(43)).AnyTimes()
	a, err := c.Account(ctx, fixtures.Other.Address())
	assert.Nil(t, err, "wrong Account")
	assert.Equal(t, stored, a, "wrong account")

	h.EXPECT().Account(fixtures.Payer.Address()).Return(nil, fault.AccountNotFound).Times(1)
	_, err = c.Account(ctx, fixtures.Payer.Address())
	assert.Equal(t, fault.AccountNotFound, err, "remote fault not mapped")

	packed := []byte{0xde, 0xad, 0xbe, 0xef}
	confirmation := &ledger.Confirmation{
		Signature: fixtures.Payer.Sign(packed),
		Marker:    44,
	}
	h.EXPECT().Execute(packed).Return(confirmation, nil).Times(1)
	reply, err := c.Submit(ctx, packed)
	assert.Nil(t, err, "wrong Submit")
	assert.Equal(t, confirmation, reply, "wrong confirmation")
	assert.Equal(t, 64, len(reply.Signature), "signature length")

	_, err = c.Airdrop(ctx, fixtures.Payer.Address(), 1000)
	assert.Equal(t, fault.NotAvailableOnThisChain, err, "airdrop outside test chain")
}

func TestClientCancelled(t *testing.T) {
	fixtures.SetupTestLogger()
	defer fixtures.TeardownTestLogger()

	ctl := gomock.NewController(t)
	defer ctl.Finish()

	h := mocks.NewMockHost(ctl)
	connect, l := setupServer(t, h)
	defer l.Close()

	c, err := rpccalls.NewClient(connect, false, nil)
	if nil != err {
		t.Fatalf("new client error: %s", err)
	}
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h.EXPECT().Marker().Return(uint64(1)).AnyTimes()
	_, err = c.Marker(ctx)
	assert.Equal(t, context.Canceled, err, "wrong error")

	marker, err := c.Marker(context.Background())
	assert.Nil(t, err, "wrong Marker after redial")
	assert.Equal(t, uint64(1), marker, "wrong marker")
}

func TestClientConnectFailure(t *testing.T) {
	_, err := rpccalls.NewClient("127.0.0.1:1", false, nil)
	assert.NotNil(t, err, "connected to closed port")
}
