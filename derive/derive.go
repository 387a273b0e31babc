// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package derive

import (
	"crypto/sha256"

	"filippo.io/edwards25519"

	"github.com/bitmark-inc/datapacker/account"
	"github.com/bitmark-inc/datapacker/fault"
)

// limits on the seed list
const (
	MaxSeeds      = 16
	MaxSeedLength = 32
)

// BucketTag - domain separation prefix for bucket addresses
const BucketTag = "solana-data-packer"

// appended to every derivation so the hash cannot collide with a key
// derived by any other scheme
const programAddressMarker = "ProgramDerivedAddress"

// ProgramAddress - compute the address owned by program for a seed list
//
// fails if the seeds are out of bounds or if the resulting hash is a
// valid curve point, as such an address could have a private key
func ProgramAddress(seeds [][]byte, program account.Address) (account.Address, error) {
	if len(seeds) > MaxSeeds {
		return account.Address{}, fault.InvalidSeeds
	}

	h := sha256.New()
	for _, seed := range seeds {
		if len(seed) > MaxSeedLength {
			return account.Address{}, fault.InvalidSeeds
		}
		h.Write(seed)
	}
	h.Write(program[:])
	h.Write([]byte(programAddressMarker))

	var address account.Address
	copy(address[:], h.Sum(nil))

	if IsOnCurve(address) {
		return account.Address{}, fault.InvalidSeeds
	}
	return address, nil
}

// FindProgramAddress - search bump values from 255 downwards and
// return the first one giving an off-curve address
func FindProgramAddress(seeds [][]byte, program account.Address) (account.Address, byte, error) {
	if len(seeds) >= MaxSeeds {
		return account.Address{}, 0, fault.InvalidSeeds
	}

	withBump := make([][]byte, len(seeds)+1)
	copy(withBump, seeds)

	for bump := 255; bump >= 0; bump -= 1 {
		withBump[len(seeds)] = []byte{byte(bump)}
		address, err := ProgramAddress(withBump, program)
		if nil == err {
			return address, byte(bump), nil
		}
		if fault.InvalidSeeds != err {
			return account.Address{}, 0, err
		}
	}
	return account.Address{}, 0, fault.InvalidSeeds
}

// IsOnCurve - true if the bytes decode to an ed25519 point
func IsOnCurve(address account.Address) bool {
	_, err := new(edwards25519.Point).SetBytes(address[:])
	return nil == err
}
