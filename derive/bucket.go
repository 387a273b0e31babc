// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package derive

import (
	"github.com/bitmark-inc/datapacker/account"
	"github.com/bitmark-inc/datapacker/fault"
)

// BucketSeeds - the full seed list, bump included, for a bucket
//
// the program presents these to sign on behalf of the bucket address
func BucketSeeds(authority account.Address, bump byte) [][]byte {
	return [][]byte{
		[]byte(BucketTag),
		authority[:],
		{bump},
	}
}

// BucketAddress - the canonical bucket address and bump for an
// authority under program
func BucketAddress(authority account.Address, program account.Address) (account.Address, byte, error) {
	return FindProgramAddress(BucketSeeds(authority, 0)[:2], program)
}

// CheckBucketAddress - verify that address is the canonical bucket
// address of authority and that bump is the canonical bump
func CheckBucketAddress(address account.Address, authority account.Address, bump byte, program account.Address) error {
	expected, canonical, err := BucketAddress(authority, program)
	if nil != err {
		return err
	}
	if canonical != bump || expected != address {
		return fault.AddressMismatch
	}
	return nil
}
