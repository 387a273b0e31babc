// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package storage - maintain the on-disk ledger state
//
// maintain separate pools of a number of elements in key->value form
//
// This maintains a LevelDB database split into a series of tables.
// Each table is defined by a prefix byte that is obtained from the
// prefix tag in the struct defining the available tables.
//
// Notes:
// 1. each separate pool has a single byte prefix (to spread the keys in LevelDB)
// 2. ++        = concatenation of byte data
// 3. marker    = big endian uint64 (8 bytes)
// 4. address   = 32 byte account address
// 5. signature = 64 byte ed25519 signature (transaction id)
//
// Accounts:
//
//   A ++ address               - ledger account
//                                data: lamports ++ owner ++ executable ++ account data
//
// Processed transactions:
//
//   S ++ signature             - replay protection
//                                data: marker at which it was processed
//
// Ledger metadata:
//
//   M ++ name                  - single values
//                                data: big endian uint64
//
// Testing:
//   Z ++ key                   - testing data
package storage
