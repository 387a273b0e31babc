// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package account

import (
	"github.com/bitmark-inc/datapacker/fault"
	"github.com/bitmark-inc/datapacker/util"
)

// AddressLength - number of bytes in an address
const AddressLength = 32

// Address - a ledger address
//
// either an ed25519 public key or a program derived address that has
// no corresponding private key
type Address [AddressLength]byte

// SystemProgram - address of the built-in account service
var SystemProgram = Address{}

// AddressFromBytes - create an address from a byte slice
func AddressFromBytes(buffer []byte) (Address, error) {
	var a Address
	if AddressLength != len(buffer) {
		return a, fault.InvalidKeyLength
	}
	copy(a[:], buffer)
	return a, nil
}

// AddressFromBase58 - convert a Base58 encoded string to an address
func AddressFromBase58(s string) (Address, error) {
	return AddressFromBytes(util.FromBase58(s))
}

// Bytes - address as a byte slice
func (a Address) Bytes() []byte {
	return a[:]
}

// IsZero - true for the all zero address
func (a Address) IsZero() bool {
	return a == Address{}
}

// String - base58 encoding of address
func (a Address) String() string {
	return util.ToBase58(a[:])
}

// GoString - for the %#v format
func (a Address) GoString() string {
	return "<address:" + a.String() + ">"
}

// MarshalText - convert an address to its Base58 JSON form
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText - convert Base58 JSON text to an address
func (a *Address) UnmarshalText(s []byte) error {
	address, err := AddressFromBase58(string(s))
	if nil != err {
		return err
	}
	*a = address
	return nil
}
