// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

// AccountStorageOverhead - bytes charged for every account on top of its data
const AccountStorageOverhead = 128

// Rent - the price of keeping data on the ledger
type Rent struct {
	LamportsPerByteYear uint64
	ExemptionThreshold  uint64 // years
}

// DefaultRent - 3480 lamports per byte-year, exempt at two years
func DefaultRent() Rent {
	return Rent{
		LamportsPerByteYear: 3480,
		ExemptionThreshold:  2,
	}
}

// MinimumBalance - lamports an account of dataLength bytes must hold to
// be exempt from rent
func (rent Rent) MinimumBalance(dataLength int) uint64 {
	bytes := uint64(AccountStorageOverhead + dataLength)
	return bytes * rent.LamportsPerByteYear * rent.ExemptionThreshold
}

// IsExempt - check a balance against the minimum
func (rent Rent) IsExempt(lamports uint64, dataLength int) bool {
	return lamports >= rent.MinimumBalance(dataLength)
}
