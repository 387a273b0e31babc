// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import (
	"encoding/binary"

	"github.com/bitmark-inc/datapacker/account"
	"github.com/bitmark-inc/datapacker/fault"
	"github.com/bitmark-inc/datapacker/storage"
)

// Tick - advance the marker and forget signatures too old to replay
func (l *Ledger) Tick() (uint64, error) {
	l.Lock()
	defer l.Unlock()

	next := l.marker + 1

	// collect first, the cursor holds the pool lock while mapping
	expired := make([][]byte, 0, 16)
	if next > l.options.MaxMarkerAge {
		limit := next - l.options.MaxMarkerAge
		err := l.pools.Signatures.NewFetchCursor().Map(func(key []byte, value []byte) error {
			if len(value) < 8 {
				return fault.InvalidAccountData
			}
			if binary.BigEndian.Uint64(value) < limit {
				expired = append(expired, key)
			}
			return nil
		})
		if nil != err {
			return l.marker, err
		}
	}

	trx, err := storage.NewDBTransaction()
	if nil != err {
		return l.marker, err
	}
	trx.PutN(l.pools.Metadata, markerKey, next)
	for _, key := range expired {
		trx.Delete(l.pools.Signatures, key)
	}
	err = trx.Commit()
	if nil != err {
		trx.Abort()
		return l.marker, err
	}

	l.marker = next
	if 0 != len(expired) {
		l.log.Debugf("marker: %d  expired signatures: %d", next, len(expired))
	}
	return next, nil
}

// Airdrop - credit lamports to an address without a transaction
//
// callers restrict this to test chains and genesis funding
func (l *Ledger) Airdrop(address account.Address, lamports uint64) (uint64, error) {
	l.Lock()
	defer l.Unlock()

	a := &Account{}
	buffer := l.pools.Accounts.Get(address[:])
	if nil != buffer {
		existing, err := UnpackAccount(buffer)
		if nil != err {
			return 0, err
		}
		a = existing
	}

	if a.Lamports+lamports < a.Lamports {
		return 0, fault.InsufficientFunding
	}
	a.Lamports += lamports
	if !l.options.Rent.IsExempt(a.Lamports, len(a.Data)) {
		return 0, fault.InsufficientFunding
	}

	trx, err := storage.NewDBTransaction()
	if nil != err {
		return 0, err
	}
	trx.Put(l.pools.Accounts, address[:], a.Pack())
	err = trx.Commit()
	if nil != err {
		trx.Abort()
		return 0, err
	}

	l.log.Infof("airdrop: %d lamports to: %s", lamports, address)
	return a.Lamports, nil
}
