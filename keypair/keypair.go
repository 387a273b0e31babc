// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package keypair

import (
	"encoding/hex"
	"os"
	"strings"

	"github.com/bitmark-inc/datapacker/account"
	"github.com/bitmark-inc/datapacker/fault"
)

const (
	seedPrefix = "SEED:"
	fileMode   = 0600
)

// RawKeyPair - text version of seed and keys
type RawKeyPair struct {
	Seed       string          `json:"seed"`
	Address    account.Address `json:"address"`
	PublicKey  string          `json:"public_key"`
	PrivateKey string          `json:"private_key"`
}

// MakeRawKeyPair - create new seed and generate public/private keys from it
func MakeRawKeyPair(test bool) (*RawKeyPair, *account.PrivateKey, error) {
	seed, err := account.NewBase58EncodedSeed(test)
	if nil != err {
		return nil, nil, err
	}
	return MakeRawKeyPairFromSeed(seed)
}

// MakeRawKeyPairFromSeed - generate public/private keys from existing seed
func MakeRawKeyPairFromSeed(seed string) (*RawKeyPair, *account.PrivateKey, error) {

	privateKey, err := account.PrivateKeyFromBase58Seed(strings.TrimPrefix(seed, seedPrefix))
	if nil != err {
		return nil, nil, err
	}

	address := privateKey.Address()
	rawKeyPair := RawKeyPair{
		Seed:       seedPrefix + strings.TrimPrefix(seed, seedPrefix),
		Address:    address,
		PublicKey:  hex.EncodeToString(address.Bytes()),
		PrivateKey: hex.EncodeToString(privateKey.PrivateKeyBytes()),
	}

	return &rawKeyPair, privateKey, nil
}

// Save - write a seed to a new identity file
//
// an existing file is never overwritten
func Save(filename string, seed string) error {
	f, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_EXCL, fileMode)
	if nil != err {
		if os.IsExist(err) {
			return fault.KeyFileAlreadyExists
		}
		return err
	}

	_, err = f.WriteString(seedPrefix + strings.TrimPrefix(seed, seedPrefix) + "\n")
	if nil != err {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Load - read a signing identity from a seed file
func Load(filename string) (*account.PrivateKey, error) {
	data, err := os.ReadFile(filename)
	if nil != err {
		if os.IsNotExist(err) {
			return nil, fault.IdentityNotFound
		}
		return nil, err
	}

	seed := strings.TrimSpace(string(data))
	if !strings.HasPrefix(seed, seedPrefix) {
		return nil, fault.InvalidSeedHeader
	}

	return account.PrivateKeyFromBase58Seed(strings.TrimPrefix(seed, seedPrefix))
}
