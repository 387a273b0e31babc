// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account

import (
	"bytes"
	"crypto/rand"

	"golang.org/x/crypto/ed25519"
	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/sha3"

	"github.com/bitmark-inc/datapacker/fault"
	"github.com/bitmark-inc/datapacker/util"
)

// seed layout:
//
//   v1: 5a fe 01 ++ net(1) ++ secret(32) ++ checksum(4)
//   v2: 5a fe 02 ++ secret(17) ++ checksum(4)
//
// checksum is the first 4 bytes of SHA3-256 over the preceding bytes
var (
	seedHeaderV1 = []byte{0x5a, 0xfe, 0x01}
	seedHeaderV2 = []byte{0x5a, 0xfe, 0x02}

	// v1 ed25519 seed is secretbox(authSeedIndex) keyed by the secret
	seedNonce     = [24]byte{}
	authSeedIndex = [16]byte{
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x03, 0xe7,
	}
)

const (
	seedHeaderLength   = 3
	seedChecksumLength = 4

	secretKeyV1Length = 32
	secretKeyV2Length = 17

	seedV1Length = seedHeaderLength + 1 + secretKeyV1Length + seedChecksumLength
	seedV2Length = seedHeaderLength + secretKeyV2Length + seedChecksumLength
)

// PrivateKeyFromBase58Seed - convert a Base58 encoded seed string to
// a signing identity
func PrivateKeyFromBase58Seed(seedBase58Encoded string) (*PrivateKey, error) {

	seed := util.FromBase58(seedBase58Encoded)
	if seedV1Length != len(seed) && seedV2Length != len(seed) {
		return nil, fault.InvalidSeedLength
	}

	checksumStart := len(seed) - seedChecksumLength
	digest := sha3.Sum256(seed[:checksumStart])
	if !bytes.Equal(digest[:seedChecksumLength], seed[checksumStart:]) {
		return nil, fault.ChecksumMismatch
	}

	var ed25519Seed []byte
	var testnet bool
	var err error

	header := seed[:seedHeaderLength]
	body := seed[seedHeaderLength:checksumStart]
	switch {
	case bytes.Equal(seedHeaderV1, header) && seedV1Length == len(seed):
		ed25519Seed, testnet = expandV1(body)
	case bytes.Equal(seedHeaderV2, header) && seedV2Length == len(seed):
		ed25519Seed, testnet, err = expandV2(body)
		if nil != err {
			return nil, err
		}
	default:
		return nil, fault.InvalidSeedHeader
	}

	_, priv, err := ed25519.GenerateKey(bytes.NewBuffer(ed25519Seed))
	if nil != err {
		return nil, err
	}

	return &PrivateKey{
		Test:       testnet,
		PrivateKey: priv,
	}, nil
}

// body: net ++ secret
func expandV1(body []byte) ([]byte, bool) {
	var sk [secretKeyV1Length]byte
	copy(sk[:], body[1:])
	return secretbox.Seal([]byte{}, authSeedIndex[:], &seedNonce, &sk), 0x01 == body[0]
}

// body: 132 bit secret, network flag folded into byte 15
func expandV2(sk []byte) ([]byte, bool, error) {
	if 0 != sk[16]&0x0f {
		return nil, false, fault.InvalidSeedLength
	}

	mode := sk[0]&0x80 | sk[1]&0x40 | sk[2]&0x20 | sk[3]&0x10
	testnet := mode == sk[15]&0xf0^0xf0

	hash := sha3.NewShake256()
	for i := 0; i < 4; i += 1 {
		if _, err := hash.Write(sk); nil != err {
			return nil, false, err
		}
	}

	ed25519Seed := make([]byte, ed25519.SeedSize)
	if _, err := hash.Read(ed25519Seed); nil != err {
		return nil, false, err
	}
	return ed25519Seed, testnet, nil
}

// NewBase58EncodedSeed - generate a new random v1 seed
func NewBase58EncodedSeed(testnet bool) (string, error) {
	sk := make([]byte, secretKeyV1Length)
	if _, err := rand.Read(sk); nil != err {
		return "", err
	}

	net := byte(0x00)
	if testnet {
		net = 0x01
	}
	seed := make([]byte, 0, seedV1Length)
	seed = append(seed, seedHeaderV1...)
	seed = append(seed, net)
	seed = append(seed, sk...)
	checksum := sha3.Sum256(seed)
	seed = append(seed, checksum[:seedChecksumLength]...)

	return util.ToBase58(seed), nil
}
