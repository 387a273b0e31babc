// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/datapacker/bucket"
	"github.com/bitmark-inc/datapacker/counter"
	"github.com/bitmark-inc/datapacker/derive"
	"github.com/bitmark-inc/datapacker/fault"
	"github.com/bitmark-inc/datapacker/fixtures"
	"github.com/bitmark-inc/datapacker/keypair"
	"github.com/bitmark-inc/datapacker/ledger"
	"github.com/bitmark-inc/datapacker/rpc/certificate"
	"github.com/bitmark-inc/datapacker/rpc/listeners"
	"github.com/bitmark-inc/datapacker/rpc/server"
	"github.com/bitmark-inc/datapacker/storage"
	"github.com/bitmark-inc/logger"
)

const (
	authorSeed = "SEED:9J877LVjhr3Xxd2nGzRVRVNUZpSKJF4TH"
	payerSeed  = "SEED:9J876mP7wDJ6g5P41eNMN8N3jo9fycDs2"
)

// node with the bucket program behind a TLS listener
func setupNode(t *testing.T) (string, func()) {
	err := fixtures.SetupTestStorage()
	if nil != err {
		t.Fatalf("storage setup error: %s", err)
	}

	log := logger.New(fixtures.LogCategory)
	l, err := ledger.New(log, ledger.Handles{
		Accounts:   storage.Pool.Accounts,
		Signatures: storage.Pool.Signatures,
		Metadata:   storage.Pool.Metadata,
	}, ledger.DefaultOptions())
	if nil != err {
		t.Fatalf("ledger error: %s", err)
	}
	err = l.RegisterProgram(fixtures.Program, bucket.New(log))
	if nil != err {
		t.Fatalf("register error: %s", err)
	}
	_, err = l.Airdrop(fixtures.Payer.Address(), 10000000000)
	if nil != err {
		t.Fatalf("airdrop error: %s", err)
	}

	connect := fmt.Sprintf("127.0.0.1:%d", rand.Intn(30000)+30000)
	con := listeners.RPCConfiguration{
		MaximumConnections: 5,
		Bandwidth:          10000000,
		Listen:             []string{connect},
	}
	count := counter.Counter(0)
	s := server.Create(log, "1.0", &count, l)

	cer, key, err := fixtures.Certificate()
	if nil != err {
		t.Fatalf("generate certificate error: %s", err)
	}
	tlsConfig, fin, err := certificate.Get(log, "test", cer, key)
	if nil != err {
		t.Fatalf("get certificate error: %s", err)
	}
	listener, err := listeners.NewRPC(&con, log, &count, s, tlsConfig, fin)
	if nil != err {
		t.Fatalf("listener error: %s", err)
	}
	err = listener.Serve()
	if nil != err {
		t.Fatalf("serve error: %s", err)
	}

	return connect, func() {
		_ = listener.Close()
		fixtures.TeardownTestStorage()
	}
}

func run(t *testing.T, arguments ...string) (string, error) {
	var w bytes.Buffer
	var e bytes.Buffer
	app := newApp(&w, &e, false)
	err := app.Run(append([]string{"datapacker-cli"}, arguments...))
	return w.String(), err
}

func writeSeed(t *testing.T, dir string, name string, seed string) string {
	filename := filepath.Join(dir, name)
	err := keypair.Save(filename, seed)
	if nil != err {
		t.Fatalf("save seed error: %s", err)
	}
	return filename
}

func TestUploadFetch(t *testing.T) {
	connect, teardown := setupNode(t)
	defer teardown()

	dir := t.TempDir()
	author := writeSeed(t, dir, "author.seed", authorSeed)
	payer := writeSeed(t, dir, "payer.seed", payerSeed)
	program := fixtures.Program.String()

	blob := make([]byte, 8192)
	for i := range blob {
		blob[i] = byte(i * 7)
	}
	input := filepath.Join(dir, "input.bin")
	err := os.WriteFile(input, blob, 0600)
	if nil != err {
		t.Fatalf("write input error: %s", err)
	}

	expected, _, err := derive.BucketAddress(fixtures.Authority.Address(), fixtures.Program)
	if nil != err {
		t.Fatalf("derive error: %s", err)
	}

	out, err := run(t, "upload", "--url", connect, "--program", program, "--author", author, "--payer", payer, input)
	assert.Nil(t, err, "wrong upload")
	var uploaded uploadReply
	assert.Nil(t, json.Unmarshal([]byte(out), &uploaded), "upload output")
	assert.Equal(t, expected, uploaded.Bucket, "wrong bucket")
	assert.Equal(t, len(blob), uploaded.Length, "wrong length")

	out, err = run(t, "info", "--url", connect, "--program", program, "--public", fixtures.Authority.Address().String())
	assert.Nil(t, err, "wrong info")
	var info bucketInfo
	assert.Nil(t, json.Unmarshal([]byte(out), &info), "info output")
	assert.True(t, info.Complete, "bucket incomplete")
	assert.Equal(t, uint64(len(blob)), info.TotalLength, "wrong total")

	output := filepath.Join(dir, "output.bin")
	_, err = run(t, "fetch", "--url", connect, "--program", program, "--author", author, "--output", output)
	assert.Nil(t, err, "wrong fetch")
	fetched, err := os.ReadFile(output)
	assert.Nil(t, err, "read output")
	assert.Equal(t, blob, fetched, "blob not reassembled")

	// same file again is a no-op, a different one conflicts
	_, err = run(t, "upload", "--url", connect, "--program", program, "--author", author, "--payer", payer, input)
	assert.Nil(t, err, "repeat upload")

	other := filepath.Join(dir, "other.bin")
	_ = os.WriteFile(other, []byte("other"), 0600)
	_, err = run(t, "upload", "--url", connect, "--program", program, "--author", author, "--payer", payer, other)
	assert.True(t, fault.IsErrExists(err), "conflicting upload")

	out, err = run(t, "status", "--url", connect)
	assert.Nil(t, err, "wrong status")
	assert.Contains(t, out, connect, "connection missing")
}

func TestCommandErrors(t *testing.T) {
	connect, teardown := setupNode(t)
	defer teardown()

	dir := t.TempDir()
	author := writeSeed(t, dir, "author.seed", authorSeed)
	program := fixtures.Program.String()

	_, err := run(t, "upload", "--url", connect, "--author", author)
	assert.Equal(t, ErrMissingProgram, err, "missing program")

	_, err = run(t, "upload", "--url", connect, "--program", program, "--author", author)
	assert.Equal(t, ErrMissingPayer, err, "missing payer")

	_, err = run(t, "upload", "--url", connect, "--program", program, "--author", author, "--payer", author)
	assert.Equal(t, ErrMissingFiles, err, "missing files")

	_, err = run(t, "fetch", "--url", connect, "--program", program, "--author", author)
	assert.Equal(t, ErrMissingOutput, err, "missing output")

	_, err = run(t, "info", "--url", connect, "--program", program, "--author", author)
	assert.Equal(t, fault.BucketNotInitialised, err, "no bucket yet")

	_, err = run(t, "airdrop", "--url", connect, "--identity", author, "--lamports", "1000")
	assert.Equal(t, fault.NotAvailableOnThisChain, err, "airdrop outside test chain")

	_, err = run(t, "airdrop", "--url", connect, "--identity", author)
	assert.Equal(t, ErrMissingLamports, err, "missing lamports")
}

func TestGenerateAndAddress(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "new.seed")

	out, err := run(t, "generate", "--output", output)
	assert.Nil(t, err, "wrong generate")
	var raw keypair.RawKeyPair
	assert.Nil(t, json.Unmarshal([]byte(out), &raw), "generate output")

	key, err := keypair.Load(output)
	assert.Nil(t, err, "saved seed")
	assert.Equal(t, raw.Address, key.Address(), "saved identity differs")

	_, err = run(t, "generate", "--output", output)
	assert.Equal(t, fault.KeyFileAlreadyExists, err, "overwrite")

	out, err = run(t, "address", "--program", fixtures.Program.String(), "--author", output)
	assert.Nil(t, err, "wrong address")
	var reply addressReply
	assert.Nil(t, json.Unmarshal([]byte(out), &reply), "address output")

	expected, bump, _ := derive.BucketAddress(key.Address(), fixtures.Program)
	assert.Equal(t, expected, reply.Bucket, "wrong bucket")
	assert.Equal(t, bump, reply.Bump, "wrong bump")

	_, err = run(t, "address", "--program", fixtures.Program.String())
	assert.Equal(t, ErrMissingAuthor, err, "missing author")
}
