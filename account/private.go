// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account

import (
	"golang.org/x/crypto/ed25519"

	"github.com/bitmark-inc/datapacker/fault"
)

// PrivateKey - an ed25519 signing identity
type PrivateKey struct {
	Test       bool
	PrivateKey ed25519.PrivateKey
}

// PrivateKeyFromBytes - create from a 64 byte ed25519 private key
func PrivateKeyFromBytes(buffer []byte, testnet bool) (*PrivateKey, error) {
	if ed25519.PrivateKeySize != len(buffer) {
		return nil, fault.InvalidKeyLength
	}
	k := make(ed25519.PrivateKey, ed25519.PrivateKeySize)
	copy(k, buffer)
	return &PrivateKey{
		Test:       testnet,
		PrivateKey: k,
	}, nil
}

// Address - the public address of this key
func (privateKey *PrivateKey) Address() Address {
	var a Address
	copy(a[:], privateKey.PrivateKey.Public().(ed25519.PublicKey))
	return a
}

// PrivateKeyBytes - fetch the private key as byte slice
func (privateKey *PrivateKey) PrivateKeyBytes() []byte {
	return privateKey.PrivateKey[:]
}

// IsTesting - true if this key was generated for a test network
func (privateKey *PrivateKey) IsTesting() bool {
	return privateKey.Test
}

// Sign - sign a message
func (privateKey *PrivateKey) Sign(message []byte) Signature {
	return ed25519.Sign(privateKey.PrivateKey, message)
}

// CheckSignature - verify that signature was made over message by the
// key corresponding to address
func CheckSignature(address Address, message []byte, signature Signature) error {
	if ed25519.SignatureSize != len(signature) {
		return fault.InvalidSignature
	}
	if !ed25519.Verify(ed25519.PublicKey(address[:]), message, signature) {
		return fault.InvalidSignature
	}
	return nil
}
