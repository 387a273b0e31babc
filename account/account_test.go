// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bitmark-inc/datapacker/account"
	"github.com/bitmark-inc/datapacker/fault"
)

func TestAddressText(t *testing.T) {
	assert.Equal(t, "11111111111111111111111111111111", account.SystemProgram.String(), "system program")
	assert.True(t, account.SystemProgram.IsZero(), "system program must be zero")

	k, err := account.PrivateKeyFromBase58Seed("5XEECqhR7QBkJezUJiUJBmHaSmffDfVN5atuLnQBHnvfxbsWHuBfQLw")
	assert.Nil(t, err, "seed")

	a := k.Address()
	b, err := account.AddressFromBase58(a.String())
	assert.Nil(t, err, "from base58")
	assert.Equal(t, a, b, "round trip")

	j, err := json.Marshal(struct {
		A account.Address `json:"a"`
	}{A: a})
	assert.Nil(t, err, "marshal")
	assert.Equal(t, `{"a":"`+a.String()+`"}`, string(j), "json")

	var c struct {
		A account.Address `json:"a"`
	}
	err = json.Unmarshal(j, &c)
	assert.Nil(t, err, "unmarshal")
	assert.Equal(t, a, c.A, "json round trip")

	_, err = account.AddressFromBase58("abc")
	assert.Equal(t, fault.InvalidKeyLength, err, "short address")
}

func TestSignature(t *testing.T) {
	k, err := account.PrivateKeyFromBase58Seed("9J877LVjhr3Xxd2nGzRVRVNUZpSKJF4TH")
	assert.Nil(t, err, "seed")

	message := []byte("bucket")
	signature := k.Sign(message)
	assert.Equal(t, account.SignatureLength, len(signature), "signature length")
	assert.Nil(t, account.CheckSignature(k.Address(), message, signature), "valid signature")

	assert.Equal(t, fault.InvalidSignature, account.CheckSignature(k.Address(), []byte("other"), signature), "wrong message")
	assert.Equal(t, fault.InvalidSignature, account.CheckSignature(account.SystemProgram, message, signature), "wrong key")
	assert.Equal(t, fault.InvalidSignature, account.CheckSignature(k.Address(), message, signature[:10]), "short signature")

	raw, err := account.PrivateKeyFromBytes(k.PrivateKeyBytes(), true)
	assert.Nil(t, err, "from bytes")
	assert.Equal(t, k.Address(), raw.Address(), "address from bytes")

	_, err = account.PrivateKeyFromBytes([]byte{1, 2, 3}, true)
	assert.Equal(t, fault.InvalidKeyLength, err, "bad private key length")
}
